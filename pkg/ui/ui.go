package ui

import (
	"context"
	"errors"
)

// ErrCancelled is returned by UI operations when the user dismisses the
// prompt on the device.
var ErrCancelled = errors.New("cancelled by user")

// UI is the on-device confirmation collaborator. Rendering is out of scope;
// workflows only depend on this contract. Implementations must honor
// context cancellation, which is how an interrupted wait aborts a prompt.
type UI interface {
	// Confirm shows a yes/no prompt and reports the choice.
	Confirm(ctx context.Context, title string, body string) (bool, error)

	// RequestPin prompts for a PIN entered on the device, never over the
	// wire. Returns ErrCancelled if the user backs out.
	RequestPin(ctx context.Context, prompt string) (string, error)

	// Show displays an informational screen until acknowledged.
	Show(ctx context.Context, title string, body string) error
}

// AutoApprove confirms every prompt and answers PIN requests with a fixed
// value. Used by the emulator where no physical buttons exist.
type AutoApprove struct {
	Pin string
}

func (u *AutoApprove) Confirm(ctx context.Context, _ string, _ string) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return true, nil
}

func (u *AutoApprove) RequestPin(ctx context.Context, _ string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return u.Pin, nil
}

func (u *AutoApprove) Show(ctx context.Context, _ string, _ string) error {
	return ctx.Err()
}
