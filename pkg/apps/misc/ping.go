package misc

import (
	"context"

	"github.com/strandlabs/vaultwire/pkg/apps/common"
	"github.com/strandlabs/vaultwire/pkg/ui"
	"github.com/strandlabs/vaultwire/pkg/wire"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// Ping builds the workflow answering a host ping, optionally gated behind a
// user confirmation.
func Ping(u ui.UI) wire.Workflow {
	return func(ctx context.Context, c *wire.Context, req messages.Message) (messages.Message, error) {
		msg := req.(*messages.Ping)

		if msg.ButtonProtection {
			err := common.RequireConfirm(ctx, c, u, messages.ButtonRequestProtectCall,
				"Ping", "Answer ping from the host?")
			if err != nil {
				return nil, err
			}
		}

		return &messages.Success{Message: msg.Message}, nil
	}
}
