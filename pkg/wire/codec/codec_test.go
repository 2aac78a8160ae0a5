package codec

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type duplex struct {
	in  *bytes.Buffer
	out *bytes.Buffer
}

func (d *duplex) Read(p []byte) (int, error)  { return d.in.Read(p) }
func (d *duplex) Write(p []byte) (int, error) { return d.out.Write(p) }

func TestFrameRoundtrip(t *testing.T) {
	var buff bytes.Buffer
	c := New(&duplex{in: &buff, out: &buff})

	err := c.WriteFrame(1, 55, []byte{1, 2, 3, 4, 5})
	assert.NoError(t, err)

	r, err := c.NextFrame()
	assert.NoError(t, err)
	assert.Equal(t, uint32(1), r.SessionID())
	assert.Equal(t, uint32(55), r.Type())
	assert.Equal(t, 5, r.Remaining())

	data, err := r.ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, data)
	assert.NoError(t, r.Close())
}

func TestFrameTooLarge(t *testing.T) {
	var buff bytes.Buffer
	header := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(header[8:], MaxPayload+1)
	buff.Write(header)

	c := New(&duplex{in: &buff, out: &bytes.Buffer{}})
	_, err := c.NextFrame()
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestTruncatedHeader(t *testing.T) {
	var buff bytes.Buffer
	buff.Write([]byte{1, 2, 3})

	c := New(&duplex{in: &buff, out: &bytes.Buffer{}})
	_, err := c.NextFrame()
	assert.Error(t, err)
}

func TestReaderChunked(t *testing.T) {
	var buff bytes.Buffer
	c := New(&duplex{in: &buff, out: &buff})

	payload := make([]byte, 300)
	for i := range payload {
		payload[i] = byte(i)
	}
	assert.NoError(t, c.WriteFrame(0, 9, payload))

	r, err := c.NextFrame()
	assert.NoError(t, err)

	got := make([]byte, 0, len(payload))
	chunk := make([]byte, 64)
	for r.Remaining() > 0 {
		n, err := r.Read(chunk)
		assert.NoError(t, err)
		got = append(got, chunk[:n]...)
	}
	assert.Equal(t, payload, got)

	// Fully consumed readers report EOF.
	_, err = r.Read(chunk)
	assert.ErrorIs(t, err, io.EOF)
}

func TestCloseDrains(t *testing.T) {
	var buff bytes.Buffer
	c := New(&duplex{in: &buff, out: &buff})

	assert.NoError(t, c.WriteFrame(0, 7, make([]byte, 200)))
	assert.NoError(t, c.WriteFrame(0, 8, []byte{0xff}))

	r, err := c.NextFrame()
	assert.NoError(t, err)
	assert.NoError(t, r.Close())

	select {
	case <-r.Done():
	default:
		t.Fatal("expected Done to be closed")
	}

	// The wire is positioned at the next frame header.
	r2, err := c.NextFrame()
	assert.NoError(t, err)
	assert.Equal(t, uint32(8), r2.Type())
	assert.NoError(t, r2.Close())
}

func TestWriterAccounting(t *testing.T) {
	var buff bytes.Buffer
	c := New(&duplex{in: &buff, out: &buff})

	w, err := c.OpenWriter(0, 5, 4)
	assert.NoError(t, err)
	_, err = w.Write([]byte{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, ErrFrameOverflow)

	_, err = w.Write([]byte{1, 2})
	assert.NoError(t, err)
	assert.ErrorIs(t, w.Close(), ErrShortFrame)

	// A full write closes cleanly.
	w, err = c.OpenWriter(0, 5, 2)
	assert.NoError(t, err)
	_, err = w.Write([]byte{1, 2})
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	_, err = w.Write([]byte{9})
	assert.ErrorIs(t, err, ErrWriterClosed)
}
