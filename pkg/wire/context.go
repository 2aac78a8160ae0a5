package wire

import (
	"context"

	"github.com/strandlabs/vaultwire/pkg/wire/codec"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// Context is the single-owner facade workflow code uses to talk to the host
// on one session. Only the currently running workflow may use it; exclusive
// interface access is structural, not locked.
type Context struct {
	s *Session
}

// Write serializes msg, frames it with the session id and the message's
// type tag, and flushes the whole frame before returning.
func (c *Context) Write(ctx context.Context, msg messages.Message) error {
	s := c.s
	if s.log != nil {
		s.log.Debug().Str("iface", s.name).Uint32("session", s.sid).Str("type", msg.WireType().String()).Msg("wire write")
	}

	payload := msg.Encode()
	w, err := s.cdc.OpenWriter(s.sid, uint32(msg.WireType()), len(payload))
	if err != nil {
		return err
	}
	_, err = w.Write(payload)
	if err != nil {
		w.Close()
		return err
	}
	err = w.Close()
	if err != nil {
		return err
	}
	s.framesOut.Add(1)
	return nil
}

// Read waits for an incoming message and returns it decoded. If the frame's
// type tag is not one of types, it returns an UnexpectedMessageError carrying
// the already-opened reader; the caller must propagate it so the session
// handler can resume processing that frame.
func (c *Context) Read(ctx context.Context, types ...messages.Type) (messages.Message, error) {
	s := c.s
	if s.log != nil {
		s.log.Debug().Str("iface", s.name).Uint32("session", s.sid).Int("expected", len(types)).Msg("wire read")
	}

	r, err := c.nextFrame(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if messages.Type(r.Type()) == t {
			return c.Decode(r)
		}
	}
	return nil, &UnexpectedMessageError{Reader: r}
}

// Call writes msg and waits for a reply of one of the given types.
func (c *Context) Call(ctx context.Context, msg messages.Message, types ...messages.Type) (messages.Message, error) {
	err := c.Write(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg = nil
	return c.Read(ctx, types...)
}

// Decode consumes the reader's payload and parses it as the typed message
// for its tag. The reader is closed (and the interface released) once the
// payload is off the wire. A malformed payload is a DataError failure.
func (c *Context) Decode(r *codec.Reader) (messages.Message, error) {
	msg, err := messages.New(messages.Type(r.Type()))
	if err != nil {
		r.Close()
		return nil, DataError("Unknown message")
	}
	data, err := r.ReadAll()
	if err != nil {
		r.Close()
		return nil, err
	}
	if err := r.Close(); err != nil {
		return nil, err
	}
	if err := msg.Decode(data); err != nil {
		return nil, DataError("Invalid message")
	}
	return msg, nil
}

func (c *Context) nextFrame(ctx context.Context) (*codec.Reader, error) {
	select {
	case r, ok := <-c.s.frames:
		if !ok {
			return nil, c.s.pumpError()
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Wait races task against message arrival on the session. If a frame comes
// in before the task completes, the task's context is cancelled, its return
// is awaited, and an UnexpectedMessageError carrying the frame's reader is
// returned. This is what keeps long confirmation waits interruptible.
func Wait[T any](ctx context.Context, c *Context, task func(context.Context) (T, error)) (T, error) {
	tctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := task(tctx)
		done <- outcome{value: v, err: err}
	}()

	var zero T
	select {
	case out := <-done:
		return out.value, out.err
	case r, ok := <-c.s.frames:
		cancel()
		<-done
		if !ok {
			return zero, c.s.pumpError()
		}
		return zero, &UnexpectedMessageError{Reader: r}
	case <-ctx.Done():
		cancel()
		<-done
		return zero, ctx.Err()
	}
}
