package messages

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrInvalidMessage = errors.New("invalid message")
var ErrUnknownType = errors.New("unknown message type")

// Type is the wire type tag carried in every frame header.
type Type uint32

const (
	TypeInitialize       = Type(0)
	TypePing             = Type(1)
	TypeSuccess          = Type(2)
	TypeFailure          = Type(3)
	TypeChangePin        = Type(4)
	TypeWipeDevice       = Type(5)
	TypeGetEntropy       = Type(9)
	TypeEntropy          = Type(10)
	TypeFeatures         = Type(17)
	TypeCancel           = Type(20)
	TypeCipherKeyValue   = Type(23)
	TypeButtonRequest    = Type(26)
	TypeButtonAck        = Type(27)
	TypeCipheredKeyValue = Type(48)
	TypeGetFeatures      = Type(55)
)

func (t Type) String() string {
	switch t {
	case TypeInitialize:
		return "Initialize"
	case TypePing:
		return "Ping"
	case TypeSuccess:
		return "Success"
	case TypeFailure:
		return "Failure"
	case TypeChangePin:
		return "ChangePin"
	case TypeWipeDevice:
		return "WipeDevice"
	case TypeGetEntropy:
		return "GetEntropy"
	case TypeEntropy:
		return "Entropy"
	case TypeFeatures:
		return "Features"
	case TypeCancel:
		return "Cancel"
	case TypeCipherKeyValue:
		return "CipherKeyValue"
	case TypeButtonRequest:
		return "ButtonRequest"
	case TypeButtonAck:
		return "ButtonAck"
	case TypeCipheredKeyValue:
		return "CipheredKeyValue"
	case TypeGetFeatures:
		return "GetFeatures"
	}
	return fmt.Sprintf("Type(%d)", uint32(t))
}

// Message is one typed unit of the wire protocol. Encode produces the full
// payload so its size is known before the frame header is written; Decode
// consumes a payload produced by Encode for the same type tag.
type Message interface {
	WireType() Type
	Encode() []byte
	Decode(data []byte) error
}

// New returns an empty message of the given wire type, ready for Decode.
func New(t Type) (Message, error) {
	switch t {
	case TypeInitialize:
		return &Initialize{}, nil
	case TypePing:
		return &Ping{}, nil
	case TypeSuccess:
		return &Success{}, nil
	case TypeFailure:
		return &Failure{}, nil
	case TypeChangePin:
		return &ChangePin{}, nil
	case TypeWipeDevice:
		return &WipeDevice{}, nil
	case TypeGetEntropy:
		return &GetEntropy{}, nil
	case TypeEntropy:
		return &Entropy{}, nil
	case TypeFeatures:
		return &Features{}, nil
	case TypeCancel:
		return &Cancel{}, nil
	case TypeCipherKeyValue:
		return &CipherKeyValue{}, nil
	case TypeButtonRequest:
		return &ButtonRequest{}, nil
	case TypeButtonAck:
		return &ButtonAck{}, nil
	case TypeCipheredKeyValue:
		return &CipheredKeyValue{}, nil
	case TypeGetFeatures:
		return &GetFeatures{}, nil
	}
	return nil, ErrUnknownType
}

// Field helpers. Variable-length fields carry a u32 length prefix,
// everything fixed-width is little endian.

func appendUint32(buff []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buff, v)
}

func appendBool(buff []byte, v bool) []byte {
	if v {
		return append(buff, 1)
	}
	return append(buff, 0)
}

func appendBytes(buff []byte, p []byte) []byte {
	buff = binary.LittleEndian.AppendUint32(buff, uint32(len(p)))
	return append(buff, p...)
}

func appendString(buff []byte, s string) []byte {
	return appendBytes(buff, []byte(s))
}

type fieldReader struct {
	buf []byte
}

func (r *fieldReader) readUint32() (uint32, error) {
	if len(r.buf) < 4 {
		return 0, ErrInvalidMessage
	}
	v := binary.LittleEndian.Uint32(r.buf)
	r.buf = r.buf[4:]
	return v, nil
}

func (r *fieldReader) readBool() (bool, error) {
	if len(r.buf) < 1 {
		return false, ErrInvalidMessage
	}
	v := r.buf[0]
	r.buf = r.buf[1:]
	return v != 0, nil
}

func (r *fieldReader) readBytes() ([]byte, error) {
	length, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if uint32(len(r.buf)) < length {
		return nil, ErrInvalidMessage
	}
	v := r.buf[:length]
	r.buf = r.buf[length:]
	return v, nil
}

func (r *fieldReader) readString() (string, error) {
	v, err := r.readBytes()
	if err != nil {
		return "", err
	}
	return string(v), nil
}
