package wire

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strandlabs/vaultwire/pkg/wire/codec"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()

	nop := func(ctx context.Context, c *Context, r *codec.Reader) error { return nil }

	assert.NoError(t, reg.Register(messages.TypePing, nop))
	assert.NoError(t, reg.Register(messages.TypeChangePin, nop))

	err := reg.Register(messages.TypePing, nop)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestLookupMiss(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Lookup(messages.Type(0xFFFF))
	assert.False(t, ok)
}

func TestDeferredResolvesOnce(t *testing.T) {
	resolved := 0
	w := Deferred(func() Workflow {
		resolved++
		return func(ctx context.Context, c *Context, req messages.Message) (messages.Message, error) {
			return nil, nil
		}
	})

	_, err := w(context.Background(), nil, nil)
	assert.NoError(t, err)
	_, err = w(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, resolved)
}
