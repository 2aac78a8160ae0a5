package management

import (
	"context"

	"github.com/strandlabs/vaultwire/pkg/apps/common"
	"github.com/strandlabs/vaultwire/pkg/ui"
	"github.com/strandlabs/vaultwire/pkg/vault"
	"github.com/strandlabs/vaultwire/pkg/wire"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// ChangePin builds the workflow that sets, changes or removes the device
// PIN: confirm the action, verify the current PIN if one is set, prompt for
// the new PIN twice, and only then touch the credential store.
func ChangePin(v *vault.Vault, u ui.UI) wire.Workflow {
	return func(ctx context.Context, c *wire.Context, req messages.Message) (messages.Message, error) {
		msg := req.(*messages.ChangePin)

		err := requireConfirmChangePin(ctx, c, u, v.HasPin(), msg.Remove)
		if err != nil {
			return nil, err
		}

		// get current pin, return failure if invalid
		curPin := ""
		if v.HasPin() {
			curPin, err = common.RequestPin(ctx, c, u, "Enter current PIN")
			if err != nil {
				return nil, err
			}
			if !v.CheckPin(curPin) {
				return nil, wire.PinInvalid("PIN invalid")
			}
		}

		newPin := ""
		if !msg.Remove {
			newPin, err = common.RequestPinConfirm(ctx, c, u)
			if err != nil {
				return nil, err
			}
		}

		if err := v.ChangePin(curPin, newPin); err != nil {
			return nil, wire.PinInvalid("PIN invalid")
		}

		if newPin != "" {
			return &messages.Success{Message: "PIN changed"}, nil
		}
		return &messages.Success{Message: "PIN removed"}, nil
	}
}

func requireConfirmChangePin(ctx context.Context, c *wire.Context, u ui.UI, hasPin bool, remove bool) error {
	var body string
	switch {
	case remove && hasPin:
		body = "Do you really want to remove current PIN?"
	case !remove && hasPin:
		body = "Do you really want to change current PIN?"
	case !remove && !hasPin:
		body = "Do you really want to set new PIN?"
	default:
		// removing a pin that was never set
		body = "Do you really want to remove current PIN?"
	}
	return common.RequireConfirm(ctx, c, u, messages.ButtonRequestProtectCall, "Change PIN", body)
}
