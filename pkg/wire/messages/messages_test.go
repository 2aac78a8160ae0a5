package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailure(t *testing.T) {
	f := &Failure{Code: FailurePinInvalid, Message: "PIN invalid"}

	b := f.Encode()

	f2 := &Failure{}
	err := f2.Decode(b)
	assert.NoError(t, err)
	assert.Equal(t, f.Code, f2.Code)
	assert.Equal(t, f.Message, f2.Message)

	// Make sure we can't decode silly things
	assert.Error(t, f2.Decode(nil))
	assert.Error(t, f2.Decode([]byte{99}))
}

func TestFeatures(t *testing.T) {
	f := &Features{
		Vendor:        "strandlabs",
		Model:         "V1",
		Version:       "2.1.0",
		Initialized:   true,
		PinProtection: false,
	}

	b := f.Encode()

	f2 := &Features{}
	err := f2.Decode(b)
	assert.NoError(t, err)
	assert.Equal(t, f, f2)

	assert.Error(t, f2.Decode([]byte{1, 0, 0}))
}

func TestCipherKeyValue(t *testing.T) {
	c := &CipherKeyValue{Key: "node label", Value: []byte{1, 2, 3, 4}, Encrypt: true}

	b := c.Encode()

	c2 := &CipherKeyValue{}
	err := c2.Decode(b)
	assert.NoError(t, err)
	assert.Equal(t, c, c2)

	// Truncated value field
	assert.Error(t, c2.Decode(b[:len(b)-2]))
}

func TestNewByType(t *testing.T) {
	for _, mt := range []Type{
		TypeInitialize, TypePing, TypeSuccess, TypeFailure, TypeChangePin,
		TypeWipeDevice, TypeGetEntropy, TypeEntropy, TypeFeatures, TypeCancel,
		TypeCipherKeyValue, TypeButtonRequest, TypeButtonAck,
		TypeCipheredKeyValue, TypeGetFeatures,
	} {
		m, err := New(mt)
		assert.NoError(t, err)
		assert.Equal(t, mt, m.WireType())
	}

	_, err := New(Type(0xFFFF))
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestEmptyMessages(t *testing.T) {
	a := &ButtonAck{}
	assert.Len(t, a.Encode(), 0)
	assert.NoError(t, a.Decode(nil))
}
