package misc

import (
	"context"
	"crypto/rand"

	"github.com/strandlabs/vaultwire/pkg/apps/common"
	"github.com/strandlabs/vaultwire/pkg/ui"
	"github.com/strandlabs/vaultwire/pkg/wire"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

const maxEntropySize = 1024

// GetEntropy builds the workflow handing out device RNG bytes after
// confirmation.
func GetEntropy(u ui.UI) wire.Workflow {
	return func(ctx context.Context, c *wire.Context, req messages.Message) (messages.Message, error) {
		msg := req.(*messages.GetEntropy)

		if msg.Size > maxEntropySize {
			return nil, wire.DataError("Entropy size too large")
		}

		err := common.RequireConfirm(ctx, c, u, messages.ButtonRequestProtectCall,
			"Entropy", "Send entropy to the host?")
		if err != nil {
			return nil, err
		}

		entropy := make([]byte, msg.Size)
		_, err = rand.Read(entropy)
		if err != nil {
			return nil, wire.ProcessError("Entropy source failed")
		}
		return &messages.Entropy{Entropy: entropy}, nil
	}
}
