package management

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strandlabs/vaultwire/pkg/vault"
	"github.com/strandlabs/vaultwire/pkg/wire"
	"github.com/strandlabs/vaultwire/pkg/wire/codec"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// scriptedUI plays back canned user responses.
type scriptedUI struct {
	confirms   []bool
	pins       []string
	mismatches int
}

func (u *scriptedUI) Confirm(ctx context.Context, title string, body string) (bool, error) {
	if len(u.confirms) == 0 {
		return false, nil
	}
	v := u.confirms[0]
	u.confirms = u.confirms[1:]
	return v, nil
}

func (u *scriptedUI) RequestPin(ctx context.Context, prompt string) (string, error) {
	if len(u.pins) == 0 {
		return "", nil
	}
	v := u.pins[0]
	u.pins = u.pins[1:]
	return v, nil
}

func (u *scriptedUI) Show(ctx context.Context, title string, body string) error {
	u.mismatches++
	return nil
}

type host struct {
	t   *testing.T
	cdc *codec.Codec
}

func (h *host) write(msg messages.Message) {
	require.NoError(h.t, h.cdc.WriteFrame(0, uint32(msg.WireType()), msg.Encode()))
}

func (h *host) read() messages.Message {
	r, err := h.cdc.NextFrame()
	require.NoError(h.t, err)
	msg, err := messages.New(messages.Type(r.Type()))
	require.NoError(h.t, err)
	data, err := r.ReadAll()
	require.NoError(h.t, err)
	require.NoError(h.t, r.Close())
	require.NoError(h.t, msg.Decode(data))
	return msg
}

// call sends a request and acks every ButtonRequest until a final reply
// arrives.
func (h *host) call(msg messages.Message) messages.Message {
	h.write(msg)
	for {
		resp := h.read()
		if _, ok := resp.(*messages.ButtonRequest); ok {
			h.write(&messages.ButtonAck{})
			continue
		}
		return resp
	}
}

func setupDevice(t *testing.T, v *vault.Vault, u *scriptedUI) *host {
	deviceSide, hostSide := net.Pipe()
	t.Cleanup(func() {
		deviceSide.Close()
		hostSide.Close()
	})

	reg := wire.NewRegistry()
	require.NoError(t, reg.Add(messages.TypeChangePin, func() wire.Workflow { return ChangePin(v, u) }))
	require.NoError(t, reg.Add(messages.TypeWipeDevice, func() wire.Workflow { return WipeDevice(v, u) }))

	s := wire.NewSession("test0", 0, deviceSide, reg, nil)
	go s.Run(context.Background())

	return &host{t: t, cdc: codec.New(hostSide)}
}

func TestSetPinWithMismatchRetry(t *testing.T) {
	v := vault.New(nil)
	u := &scriptedUI{
		confirms: []bool{true},
		// first attempt mismatches, second matches
		pins: []string{"1234", "4321", "5678", "5678"},
	}
	h := setupDevice(t, v, u)

	resp := h.call(&messages.ChangePin{})

	success, ok := resp.(*messages.Success)
	require.True(t, ok)
	assert.Equal(t, "PIN changed", success.Message)

	// only the matching entry was written
	assert.True(t, v.CheckPin("5678"))
	assert.Equal(t, 1, u.mismatches)
}

func TestChangePinChecksCurrent(t *testing.T) {
	v := vault.New(nil)
	require.NoError(t, v.ChangePin("", "1111"))

	u := &scriptedUI{
		confirms: []bool{true},
		pins:     []string{"9999"},
	}
	h := setupDevice(t, v, u)

	resp := h.call(&messages.ChangePin{})

	failure, ok := resp.(*messages.Failure)
	require.True(t, ok)
	assert.Equal(t, messages.FailurePinInvalid, failure.Code)
	assert.Equal(t, "PIN invalid", failure.Message)

	// nothing was written
	assert.True(t, v.CheckPin("1111"))
}

func TestRemovePin(t *testing.T) {
	v := vault.New(nil)
	require.NoError(t, v.ChangePin("", "1111"))

	u := &scriptedUI{
		confirms: []bool{true},
		pins:     []string{"1111"},
	}
	h := setupDevice(t, v, u)

	resp := h.call(&messages.ChangePin{Remove: true})

	success, ok := resp.(*messages.Success)
	require.True(t, ok)
	assert.Equal(t, "PIN removed", success.Message)
	assert.False(t, v.HasPin())
}

func TestChangePinRejectedOnDevice(t *testing.T) {
	v := vault.New(nil)
	u := &scriptedUI{
		confirms: []bool{false},
	}
	h := setupDevice(t, v, u)

	resp := h.call(&messages.ChangePin{})

	failure, ok := resp.(*messages.Failure)
	require.True(t, ok)
	assert.Equal(t, messages.FailureActionCancelled, failure.Code)
	assert.False(t, v.HasPin())
}

func TestChangePinCancelledByHost(t *testing.T) {
	v := vault.New(nil)
	u := &scriptedUI{
		confirms: []bool{true},
	}
	h := setupDevice(t, v, u)

	h.write(&messages.ChangePin{})
	br := h.read()
	require.IsType(t, &messages.ButtonRequest{}, br)

	h.write(&messages.Cancel{})
	resp := h.read()

	failure, ok := resp.(*messages.Failure)
	require.True(t, ok)
	assert.Equal(t, messages.FailureActionCancelled, failure.Code)
	assert.False(t, v.HasPin())
}

func TestWipeDevice(t *testing.T) {
	v := vault.New(nil)
	v.Initialize([]byte("seed"))
	require.NoError(t, v.ChangePin("", "1111"))

	u := &scriptedUI{
		confirms: []bool{true},
	}
	h := setupDevice(t, v, u)

	resp := h.call(&messages.WipeDevice{})

	success, ok := resp.(*messages.Success)
	require.True(t, ok)
	assert.Equal(t, "Device wiped", success.Message)
	assert.False(t, v.HasPin())
	assert.False(t, v.Initialized())
}
