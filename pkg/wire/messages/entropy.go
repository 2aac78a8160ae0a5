package messages

// GetEntropy requests random bytes from the device RNG.
type GetEntropy struct {
	Size uint32
}

func (m *GetEntropy) WireType() Type { return TypeGetEntropy }

func (m *GetEntropy) Encode() []byte {
	return appendUint32(nil, m.Size)
}

func (m *GetEntropy) Decode(data []byte) error {
	r := &fieldReader{buf: data}
	var err error
	m.Size, err = r.readUint32()
	return err
}

// Entropy carries the requested random bytes.
type Entropy struct {
	Entropy []byte
}

func (m *Entropy) WireType() Type { return TypeEntropy }

func (m *Entropy) Encode() []byte {
	return appendBytes(nil, m.Entropy)
}

func (m *Entropy) Decode(data []byte) error {
	r := &fieldReader{buf: data}
	var err error
	m.Entropy, err = r.readBytes()
	return err
}
