package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/loopholelabs/logging/types"
	"github.com/strandlabs/vaultwire/pkg/wire/codec"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// Hooks is the per-workflow housekeeping collaborator, called around every
// workflow invocation so handlers cannot leak transient state into each
// other.
type Hooks interface {
	WorkflowStart(t messages.Type)
	WorkflowEnd(t messages.Type)
}

// SessionMetrics is a snapshot of one session's counters.
type SessionMetrics struct {
	FramesIn       uint64
	FramesOut      uint64
	WorkflowsRun   uint64
	DomainFailures uint64
	Faults         uint64
	Interruptions  uint64
	UnknownTypes   uint64
}

// Session is the top-level state machine owning one physical interface for
// its entire lifetime. It perpetually waits for a frame, dispatches it
// through the registry, runs the workflow to completion, and recovers from
// interruption or failure. Workflow faults never tear the session down;
// only loss of the interface ends the loop.
type Session struct {
	name  string
	sid   uint32
	cdc   *codec.Codec
	reg   *Registry
	log   types.Logger
	hooks Hooks

	frames   chan *codec.Reader
	pumpLock sync.Mutex
	pumpErr  error

	framesIn       atomic.Uint64
	framesOut      atomic.Uint64
	workflowsRun   atomic.Uint64
	domainFailures atomic.Uint64
	faults         atomic.Uint64
	interruptions  atomic.Uint64
	unknownTypes   atomic.Uint64
}

func NewSession(name string, sid uint32, iface io.ReadWriter, reg *Registry, log types.Logger) *Session {
	return &Session{
		name:   name,
		sid:    sid,
		cdc:    codec.New(iface),
		reg:    reg,
		log:    log,
		frames: make(chan *codec.Reader),
	}
}

// SetHooks installs the housekeeping collaborator. Must be called before Run.
func (s *Session) SetHooks(h Hooks) {
	s.hooks = h
}

// Context returns the I/O facade bound to this session.
func (s *Session) Context() *Context {
	return &Context{s: s}
}

func (s *Session) GetMetrics() *SessionMetrics {
	return &SessionMetrics{
		FramesIn:       s.framesIn.Load(),
		FramesOut:      s.framesOut.Load(),
		WorkflowsRun:   s.workflowsRun.Load(),
		DomainFailures: s.domainFailures.Load(),
		Faults:         s.faults.Load(),
		Interruptions:  s.interruptions.Load(),
		UnknownTypes:   s.unknownTypes.Load(),
	}
}

// Run processes frames until the interface is lost or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	go s.pump(ctx)

	c := s.Context()
	var reader *codec.Reader
	for {
		// wait for a new frame, unless one was carried over from an
		// interruption
		if reader == nil {
			r, err := c.nextFrame(ctx)
			if err != nil {
				return err
			}
			reader = r
		}

		mtype := messages.Type(reader.Type())
		handler, ok := s.reg.Lookup(mtype)
		if !ok {
			s.unknownTypes.Add(1)
			handler = UnexpectedMessage
		}

		err := s.runWorkflow(ctx, c, mtype, handler, reader)

		var um *UnexpectedMessageError
		var werr *Error
		switch {
		case errors.As(err, &um):
			// retry dispatch with the carried-over reader
			s.interruptions.Add(1)
			reader = um.Reader
			continue
		case errors.As(err, &werr):
			// recoverable failure, reply was already written
			s.domainFailures.Add(1)
			if s.log != nil {
				s.log.Warn().Str("iface", s.name).Str("type", mtype.String()).Str("code", werr.Code.String()).Msg(werr.Message)
			}
		case err != nil:
			// sessions are never closed by workflow faults
			s.faults.Add(1)
			if s.log != nil {
				s.log.Error().Str("iface", s.name).Str("type", mtype.String()).Err(err).Msg("workflow fault")
			}
		}

		// the reader must be fully consumed before the next header read
		reader.Close()
		reader = nil

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Session) runWorkflow(ctx context.Context, c *Context, mtype messages.Type, h Handler, r *codec.Reader) (err error) {
	s.workflowsRun.Add(1)
	if s.hooks != nil {
		s.hooks.WorkflowStart(mtype)
	}
	defer func() {
		if s.hooks != nil {
			s.hooks.WorkflowEnd(mtype)
		}
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return h(ctx, c, r)
}

// pump owns the header-read side of the interface: it parses one frame
// header at a time, hands the bound reader over, and parks until that
// reader has been fully consumed. This enforces the one-frame-in-flight
// discipline without any locking in the workflow path.
func (s *Session) pump(ctx context.Context) {
	for {
		r, err := s.cdc.NextFrame()
		if err != nil {
			s.closePump(err)
			return
		}
		s.framesIn.Add(1)
		if s.log != nil {
			s.log.Trace().Str("iface", s.name).Uint32("session", r.SessionID()).Str("type", messages.Type(r.Type()).String()).Int("length", r.Remaining()).Msg("frame header")
		}
		select {
		case s.frames <- r:
		case <-ctx.Done():
			s.closePump(ctx.Err())
			return
		}
		select {
		case <-r.Done():
		case <-ctx.Done():
			s.closePump(ctx.Err())
			return
		}
	}
}

func (s *Session) closePump(err error) {
	s.pumpLock.Lock()
	s.pumpErr = err
	s.pumpLock.Unlock()
	close(s.frames)
}

func (s *Session) pumpError() error {
	s.pumpLock.Lock()
	defer s.pumpLock.Unlock()
	if s.pumpErr != nil {
		return s.pumpErr
	}
	return io.ErrClosedPipe
}
