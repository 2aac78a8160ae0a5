package management

import (
	"context"

	"github.com/strandlabs/vaultwire/pkg/apps/common"
	"github.com/strandlabs/vaultwire/pkg/ui"
	"github.com/strandlabs/vaultwire/pkg/vault"
	"github.com/strandlabs/vaultwire/pkg/wire"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// WipeDevice builds the workflow that erases all device secrets after an
// explicit confirmation.
func WipeDevice(v *vault.Vault, u ui.UI) wire.Workflow {
	return func(ctx context.Context, c *wire.Context, req messages.Message) (messages.Message, error) {
		err := common.RequireConfirm(ctx, c, u, messages.ButtonRequestWipeDevice,
			"Wipe device", "Do you really want to wipe the device? All data will be lost.")
		if err != nil {
			return nil, err
		}

		v.Wipe()
		return &messages.Success{Message: "Device wiped"}, nil
	}
}
