package wire

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/strandlabs/vaultwire/pkg/wire/codec"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// Workflow is the unit of work triggered by a decoded request. It returns
// either a response message to write back, nil for no reply, or an error.
type Workflow func(ctx context.Context, c *Context, req messages.Message) (messages.Message, error)

// CredentialWorkflow additionally receives the scoped credential handle
// acquired for its registered namespace.
type CredentialWorkflow func(ctx context.Context, c *Context, req messages.Message, cred Credential) (messages.Message, error)

// CredentialStore is the acquisition side of the secure credential
// ("keychain") contract. Handles are scoped to one workflow invocation and
// must be released on every exit path.
type CredentialStore interface {
	Acquire(ctx context.Context, namespace []uint32) (Credential, error)
}

// Credential is a scoped secure-credential handle. Release is idempotent.
type Credential interface {
	Release()
}

// HandleMessage adapts a workflow into a raw handler: it decodes the typed
// request from the frame, invokes the workflow, and translates its outcome
// onto the wire. Unexpected-message conditions pass through untouched for
// the session handler; domain failures and generic faults are written as
// Failure replies before being re-raised, so the session only has to log.
func HandleMessage(w Workflow) Handler {
	return func(ctx context.Context, c *Context, r *codec.Reader) error {
		req, err := c.Decode(r)

		var res messages.Message
		if err == nil {
			res, err = invoke(ctx, c, w, req)
		}

		var um *UnexpectedMessageError
		if errors.As(err, &um) {
			// session handler takes care of this one
			return err
		}
		var werr *Error
		if errors.As(err, &werr) {
			c.Write(ctx, &messages.Failure{Code: werr.Code, Message: werr.Message})
			return err
		}
		if err != nil {
			c.Write(ctx, &messages.Failure{Code: messages.FailureFirmwareError, Message: "Firmware error"})
			return err
		}
		if res != nil {
			return c.Write(ctx, res)
		}
		return nil
	}
}

// invoke shields the adapter from workflow panics so they translate into a
// generic Failure reply like any other fault.
func invoke(ctx context.Context, c *Context, w Workflow, req messages.Message) (res messages.Message, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("workflow panic: %v", p)
		}
	}()
	return w(ctx, c, req)
}

// WithCredential wraps a workflow with the credential-scoping adapter. The
// handle is acquired before the inner workflow runs and released after it
// returns, fails or panics.
func WithCredential(store CredentialStore, namespace []uint32, w CredentialWorkflow) Workflow {
	return func(ctx context.Context, c *Context, req messages.Message) (messages.Message, error) {
		cred, err := store.Acquire(ctx, namespace)
		if err != nil {
			return nil, err
		}
		defer cred.Release()
		return w(ctx, c, req, cred)
	}
}

// Deferred resolves the concrete workflow on first use and caches it, the
// explicit stand-in for lazy handler loading.
func Deferred(resolve func() Workflow) Workflow {
	var once sync.Once
	var w Workflow
	return func(ctx context.Context, c *Context, req messages.Message) (messages.Message, error) {
		once.Do(func() {
			w = resolve()
		})
		return w(ctx, c, req)
	}
}

// UnexpectedMessage is the fallback workflow for unregistered type tags: it
// reads the full declared payload off the wire, throws it away, and rejects
// with an unexpected-message failure.
func UnexpectedMessage(ctx context.Context, c *Context, r *codec.Reader) error {
	if err := r.Close(); err != nil {
		return err
	}
	return c.Write(ctx, &messages.Failure{Code: messages.FailureUnexpectedMessage, Message: "Unexpected message"})
}
