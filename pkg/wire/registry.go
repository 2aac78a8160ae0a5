package wire

import (
	"context"
	"errors"
	"fmt"

	"github.com/strandlabs/vaultwire/pkg/wire/codec"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

var ErrAlreadyRegistered = errors.New("message type already registered")

// Handler runs a workflow against the raw frame reader of the message that
// triggered it.
type Handler func(ctx context.Context, c *Context, r *codec.Reader) error

// Registry is the boot-time mapping from message type tag to handler. It is
// constructed once, passed into the session, and never mutated afterwards.
type Registry struct {
	handlers map[messages.Type]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[messages.Type]Handler),
	}
}

// Register binds a raw handler to a type tag. Registering a tag twice is a
// configuration error.
func (g *Registry) Register(t messages.Type, h Handler) error {
	_, ok := g.handlers[t]
	if ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, t)
	}
	g.handlers[t] = h
	return nil
}

// Add registers a workflow behind the deferred-resolution and
// failure-translation adapters. The resolve callback runs at most once, on
// the first message of this type.
func (g *Registry) Add(t messages.Type, resolve func() Workflow) error {
	return g.Register(t, HandleMessage(Deferred(resolve)))
}

// AddWithCredential is Add for workflows needing a scoped secure-credential
// handle; the credential-scoping adapter acquires a handle for the namespace
// around every invocation and guarantees its release.
func (g *Registry) AddWithCredential(t messages.Type, store CredentialStore, namespace []uint32, resolve func() CredentialWorkflow) error {
	return g.Register(t, HandleMessage(Deferred(func() Workflow {
		return WithCredential(store, namespace, resolve())
	})))
}

// Lookup returns the handler for a type tag, or false on a miss; misses are
// routed to the generic unexpected-message workflow by the session.
func (g *Registry) Lookup(t messages.Type) (Handler, bool) {
	h, ok := g.handlers[t]
	return h, ok
}
