package messages

// FailureCode classifies a failure reply. Values match the v1 wire protocol.
type FailureCode uint32

const (
	FailureUnexpectedMessage = FailureCode(1)
	FailureButtonExpected    = FailureCode(2)
	FailureDataError         = FailureCode(3)
	FailureActionCancelled   = FailureCode(4)
	FailurePinInvalid        = FailureCode(7)
	FailureProcessError      = FailureCode(9)
	FailureNotInitialized    = FailureCode(11)
	FailureFirmwareError     = FailureCode(99)
)

func (c FailureCode) String() string {
	switch c {
	case FailureUnexpectedMessage:
		return "UnexpectedMessage"
	case FailureButtonExpected:
		return "ButtonExpected"
	case FailureDataError:
		return "DataError"
	case FailureActionCancelled:
		return "ActionCancelled"
	case FailurePinInvalid:
		return "PinInvalid"
	case FailureProcessError:
		return "ProcessError"
	case FailureNotInitialized:
		return "NotInitialized"
	case FailureFirmwareError:
		return "FirmwareError"
	}
	return "unknown"
}

// Failure is the reply written whenever a workflow ends in error instead of
// a normal response.
type Failure struct {
	Code    FailureCode
	Message string
}

func (m *Failure) WireType() Type { return TypeFailure }

func (m *Failure) Encode() []byte {
	buff := appendUint32(nil, uint32(m.Code))
	return appendString(buff, m.Message)
}

func (m *Failure) Decode(data []byte) error {
	r := &fieldReader{buf: data}
	code, err := r.readUint32()
	if err != nil {
		return err
	}
	msg, err := r.readString()
	if err != nil {
		return err
	}
	m.Code = FailureCode(code)
	m.Message = msg
	return nil
}
