package codec

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"
)

// Frame header v1: session id, type tag, payload length. All little endian.
const HeaderSize = 4 + 4 + 4

// MaxPayload guards against desynced or hostile hosts declaring absurd
// frame lengths.
const MaxPayload = 1 << 20

// drainChunk is the scratch buffer size used when throwing payload away.
const drainChunk = 64

var ErrFrameTooLarge = errors.New("declared payload exceeds maximum frame size")
var ErrFrameOverflow = errors.New("write exceeds declared payload length")
var ErrShortFrame = errors.New("frame closed before declared payload was written")
var ErrWriterClosed = errors.New("frame writer is closed")

// Codec frames the raw byte stream of one physical interface into discrete
// typed messages. All codec operations perform I/O on the shared interface
// and must never run concurrently from two independent call sites; reads are
// serialized structurally (one Reader in flight at a time), writes take the
// write lock.
type Codec struct {
	r     io.Reader
	w     io.Writer
	wlock sync.Mutex
}

func New(rw io.ReadWriter) *Codec {
	return &Codec{r: rw, w: rw}
}

// NextFrame blocks until a frame header is available on the interface and
// returns a Reader positioned at the start of the payload. The caller owns
// the interface until the Reader is closed.
func (c *Codec) NextFrame() (*Reader, error) {
	header := make([]byte, HeaderSize)
	_, err := io.ReadFull(c.r, header)
	if err != nil {
		return nil, err
	}
	sid := binary.LittleEndian.Uint32(header)
	mtype := binary.LittleEndian.Uint32(header[4:])
	length := binary.LittleEndian.Uint32(header[8:])
	if length > MaxPayload {
		return nil, ErrFrameTooLarge
	}
	return &Reader{
		c:         c,
		sessionID: sid,
		mtype:     mtype,
		remaining: int(length),
		done:      make(chan struct{}),
	}, nil
}

// OpenWriter writes a frame header for the given type tag and precomputed
// payload size, and returns a Writer accepting sequential payload chunks.
// The Writer holds exclusive write access to the interface until Close.
func (c *Codec) OpenWriter(sessionID uint32, mtype uint32, length int) (*Writer, error) {
	if length > MaxPayload {
		return nil, ErrFrameTooLarge
	}
	c.wlock.Lock()
	header := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(header, sessionID)
	binary.LittleEndian.PutUint32(header[4:], mtype)
	binary.LittleEndian.PutUint32(header[8:], uint32(length))
	_, err := c.w.Write(header)
	if err != nil {
		c.wlock.Unlock()
		return nil, err
	}
	return &Writer{c: c, remaining: length}, nil
}

// WriteFrame sends a complete frame in one call.
func (c *Codec) WriteFrame(sessionID uint32, mtype uint32, payload []byte) error {
	w, err := c.OpenWriter(sessionID, mtype, len(payload))
	if err != nil {
		return err
	}
	_, err = w.Write(payload)
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Reader is bound to exactly one inbound frame. It exclusively owns the
// interface read side from the header parse until Close, which drains any
// unread payload and signals Done so the next header read may start.
type Reader struct {
	c         *Codec
	sessionID uint32
	mtype     uint32
	remaining int
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func (r *Reader) SessionID() uint32 { return r.sessionID }
func (r *Reader) Type() uint32      { return r.mtype }

// Remaining reports how many payload bytes have not been read yet.
func (r *Reader) Remaining() int { return r.remaining }

// Read fills p with the next payload chunk, blocking until bytes arrive or
// the interface fails. Returns io.EOF once the declared payload is consumed.
func (r *Reader) Read(p []byte) (int, error) {
	if r.remaining == 0 {
		return 0, io.EOF
	}
	if len(p) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.c.r.Read(p)
	r.remaining -= n
	return n, err
}

// ReadAll consumes and returns the entire remaining payload.
func (r *Reader) ReadAll() ([]byte, error) {
	data := make([]byte, r.remaining)
	_, err := io.ReadFull(r, data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Drain reads and discards whatever payload is left on the wire.
func (r *Reader) Drain() error {
	buf := make([]byte, drainChunk)
	for r.remaining > 0 {
		_, err := r.Read(buf)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close drains the remaining payload off the wire and releases the
// interface for the next frame. Idempotent.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.Drain()
		close(r.done)
	})
	return r.closeErr
}

// Done is closed once the frame has been fully consumed and released.
func (r *Reader) Done() <-chan struct{} { return r.done }

// Writer is bound to exactly one outbound frame. Chunks must total exactly
// the declared payload length; Close finalizes the frame and releases the
// interface write side.
type Writer struct {
	c         *Codec
	remaining int
	closed    bool
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	if len(p) > w.remaining {
		return 0, ErrFrameOverflow
	}
	n, err := w.c.w.Write(p)
	w.remaining -= n
	return n, err
}

func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.c.wlock.Unlock()
	if w.remaining != 0 {
		return ErrShortFrame
	}
	return nil
}
