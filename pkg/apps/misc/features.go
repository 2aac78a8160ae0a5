package misc

import (
	"context"

	"github.com/strandlabs/vaultwire/pkg/vault"
	"github.com/strandlabs/vaultwire/pkg/wire"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// DeviceInfo is the static identity reported in Features replies.
type DeviceInfo struct {
	Vendor  string
	Model   string
	Version string
}

// GetFeatures builds the workflow answering Initialize and GetFeatures with
// the device feature report.
func GetFeatures(info DeviceInfo, v *vault.Vault) wire.Workflow {
	return func(ctx context.Context, c *wire.Context, req messages.Message) (messages.Message, error) {
		return &messages.Features{
			Vendor:        info.Vendor,
			Model:         info.Model,
			Version:       info.Version,
			Initialized:   v.Initialized(),
			PinProtection: v.HasPin(),
		}, nil
	}
}
