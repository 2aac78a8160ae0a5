package messages

// CipherKeyValue encrypts or decrypts a value with a key derived from the
// device keychain, scoped to the key label.
type CipherKeyValue struct {
	Key     string
	Value   []byte
	Encrypt bool
}

func (m *CipherKeyValue) WireType() Type { return TypeCipherKeyValue }

func (m *CipherKeyValue) Encode() []byte {
	buff := appendString(nil, m.Key)
	buff = appendBytes(buff, m.Value)
	return appendBool(buff, m.Encrypt)
}

func (m *CipherKeyValue) Decode(data []byte) error {
	r := &fieldReader{buf: data}
	var err error
	if m.Key, err = r.readString(); err != nil {
		return err
	}
	if m.Value, err = r.readBytes(); err != nil {
		return err
	}
	if m.Encrypt, err = r.readBool(); err != nil {
		return err
	}
	return nil
}

// CipheredKeyValue is the CipherKeyValue result.
type CipheredKeyValue struct {
	Value []byte
}

func (m *CipheredKeyValue) WireType() Type { return TypeCipheredKeyValue }

func (m *CipheredKeyValue) Encode() []byte {
	return appendBytes(nil, m.Value)
}

func (m *CipheredKeyValue) Decode(data []byte) error {
	r := &fieldReader{buf: data}
	var err error
	m.Value, err = r.readBytes()
	return err
}
