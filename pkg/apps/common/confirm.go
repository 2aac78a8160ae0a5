package common

import (
	"context"

	"github.com/strandlabs/vaultwire/pkg/ui"
	"github.com/strandlabs/vaultwire/pkg/wire"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// RequireConfirm runs the confirmation-readiness handshake and then the
// on-device prompt: a ButtonRequest goes out, the host must answer with
// ButtonAck before the prompt is shown, and the prompt itself stays
// interruptible by any incoming message. Returns ActionCancelled if the
// host sends Cancel or the user rejects.
func RequireConfirm(ctx context.Context, c *wire.Context, u ui.UI, code messages.ButtonRequestCode, title string, body string) error {
	resp, err := c.Call(ctx, &messages.ButtonRequest{Code: code}, messages.TypeButtonAck, messages.TypeCancel)
	if err != nil {
		return err
	}
	if _, cancelled := resp.(*messages.Cancel); cancelled {
		return wire.ActionCancelled("Cancelled")
	}

	confirmed, err := wire.Wait(ctx, c, func(tctx context.Context) (bool, error) {
		return u.Confirm(tctx, title, body)
	})
	if err != nil {
		return err
	}
	if !confirmed {
		return wire.ActionCancelled("Cancelled")
	}
	return nil
}
