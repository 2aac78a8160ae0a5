package messages

// ButtonRequestCode tells the host what kind of on-device confirmation is
// about to be shown.
type ButtonRequestCode uint32

const (
	ButtonRequestOther       = ButtonRequestCode(1)
	ButtonRequestWipeDevice  = ButtonRequestCode(6)
	ButtonRequestProtectCall = ButtonRequestCode(8)
)

// ButtonRequest announces that the device is waiting for user confirmation.
// The host acknowledges with ButtonAck before the prompt proceeds.
type ButtonRequest struct {
	Code ButtonRequestCode
}

func (m *ButtonRequest) WireType() Type { return TypeButtonRequest }

func (m *ButtonRequest) Encode() []byte {
	return appendUint32(nil, uint32(m.Code))
}

func (m *ButtonRequest) Decode(data []byte) error {
	r := &fieldReader{buf: data}
	code, err := r.readUint32()
	if err != nil {
		return err
	}
	m.Code = ButtonRequestCode(code)
	return nil
}

// ButtonAck is the host's confirmation-readiness acknowledgment.
type ButtonAck struct{}

func (m *ButtonAck) WireType() Type           { return TypeButtonAck }
func (m *ButtonAck) Encode() []byte           { return nil }
func (m *ButtonAck) Decode(data []byte) error { return nil }

// Cancel aborts the confirmation the device is currently waiting on.
type Cancel struct{}

func (m *Cancel) WireType() Type           { return TypeCancel }
func (m *Cancel) Encode() []byte           { return nil }
func (m *Cancel) Decode(data []byte) error { return nil }
