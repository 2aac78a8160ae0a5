package common

import (
	"context"
	"errors"

	"github.com/strandlabs/vaultwire/pkg/ui"
	"github.com/strandlabs/vaultwire/pkg/wire"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// RequestPin prompts for a PIN on the device, preceded by the ButtonAck
// handshake so the host knows input is about to happen.
func RequestPin(ctx context.Context, c *wire.Context, u ui.UI, prompt string) (string, error) {
	resp, err := c.Call(ctx, &messages.ButtonRequest{Code: messages.ButtonRequestOther}, messages.TypeButtonAck, messages.TypeCancel)
	if err != nil {
		return "", err
	}
	if _, cancelled := resp.(*messages.Cancel); cancelled {
		return "", wire.ActionCancelled("Cancelled")
	}

	pin, err := wire.Wait(ctx, c, func(tctx context.Context) (string, error) {
		return u.RequestPin(tctx, prompt)
	})
	if errors.Is(err, ui.ErrCancelled) {
		return "", wire.ActionCancelled("Cancelled")
	}
	return pin, err
}

// RequestPinConfirm prompts for a new PIN twice until both entries match.
func RequestPinConfirm(ctx context.Context, c *wire.Context, u ui.UI) (string, error) {
	for {
		pin1, err := RequestPin(ctx, c, u, "Enter new PIN")
		if err != nil {
			return "", err
		}
		pin2, err := RequestPin(ctx, c, u, "Re-enter new PIN")
		if err != nil {
			return "", err
		}
		if pin1 == pin2 {
			return pin1, nil
		}
		err = u.Show(ctx, "PIN mismatch", "Entered PINs do not match each other. Please try again.")
		if err != nil {
			return "", err
		}
	}
}
