package messages

// Initialize asks the device to reset session state and report its features.
type Initialize struct{}

func (m *Initialize) WireType() Type           { return TypeInitialize }
func (m *Initialize) Encode() []byte           { return nil }
func (m *Initialize) Decode(data []byte) error { return nil }

// GetFeatures asks for the feature report without resetting anything.
type GetFeatures struct{}

func (m *GetFeatures) WireType() Type           { return TypeGetFeatures }
func (m *GetFeatures) Encode() []byte           { return nil }
func (m *GetFeatures) Decode(data []byte) error { return nil }

// Features describes the device to the host.
type Features struct {
	Vendor        string
	Model         string
	Version       string
	Initialized   bool
	PinProtection bool
}

func (m *Features) WireType() Type { return TypeFeatures }

func (m *Features) Encode() []byte {
	buff := appendString(nil, m.Vendor)
	buff = appendString(buff, m.Model)
	buff = appendString(buff, m.Version)
	buff = appendBool(buff, m.Initialized)
	return appendBool(buff, m.PinProtection)
}

func (m *Features) Decode(data []byte) error {
	r := &fieldReader{buf: data}
	var err error
	if m.Vendor, err = r.readString(); err != nil {
		return err
	}
	if m.Model, err = r.readString(); err != nil {
		return err
	}
	if m.Version, err = r.readString(); err != nil {
		return err
	}
	if m.Initialized, err = r.readBool(); err != nil {
		return err
	}
	if m.PinProtection, err = r.readBool(); err != nil {
		return err
	}
	return nil
}

// Ping requests a pong, optionally gated behind a user confirmation.
type Ping struct {
	Message          string
	ButtonProtection bool
}

func (m *Ping) WireType() Type { return TypePing }

func (m *Ping) Encode() []byte {
	buff := appendString(nil, m.Message)
	return appendBool(buff, m.ButtonProtection)
}

func (m *Ping) Decode(data []byte) error {
	r := &fieldReader{buf: data}
	var err error
	if m.Message, err = r.readString(); err != nil {
		return err
	}
	if m.ButtonProtection, err = r.readBool(); err != nil {
		return err
	}
	return nil
}

// WipeDevice erases all device secrets after confirmation.
type WipeDevice struct{}

func (m *WipeDevice) WireType() Type           { return TypeWipeDevice }
func (m *WipeDevice) Encode() []byte           { return nil }
func (m *WipeDevice) Decode(data []byte) error { return nil }

// ChangePin sets, changes or removes the device PIN.
type ChangePin struct {
	Remove bool
}

func (m *ChangePin) WireType() Type { return TypeChangePin }

func (m *ChangePin) Encode() []byte {
	return appendBool(nil, m.Remove)
}

func (m *ChangePin) Decode(data []byte) error {
	r := &fieldReader{buf: data}
	var err error
	m.Remove, err = r.readBool()
	return err
}
