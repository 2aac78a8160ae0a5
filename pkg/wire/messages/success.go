package messages

// Success is the generic affirmative reply.
type Success struct {
	Message string
}

func (m *Success) WireType() Type { return TypeSuccess }

func (m *Success) Encode() []byte {
	return appendString(nil, m.Message)
}

func (m *Success) Decode(data []byte) error {
	r := &fieldReader{buf: data}
	msg, err := r.readString()
	if err != nil {
		return err
	}
	m.Message = msg
	return nil
}
