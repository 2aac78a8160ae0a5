package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	data := `
device {
	vendor = "strandlabs"
	model = "V1"
	version = "2.1.0"
	pin = "1234"
}

interface "usb0" {
	listen = ":5170"
}

interface "usb1" {
	listen = ":5171"
	session = 2
}
`

	s := new(Schema)
	err := s.Decode([]byte(data))
	assert.NoError(t, err)

	assert.Equal(t, "strandlabs", s.Device.Vendor)
	assert.Equal(t, "1234", s.Device.Pin)
	assert.Len(t, s.Interface, 2)
	assert.Equal(t, "usb0", s.Interface[0].Name)
	assert.Equal(t, 0, s.Interface[0].Session)
	assert.Equal(t, 2, s.Interface[1].Session)
}

func TestEncodeDecode(t *testing.T) {
	s := &Schema{
		Device: &DeviceSchema{Vendor: "strandlabs", Model: "V1", Version: "2.1.0"},
		Interface: []*InterfaceSchema{
			{Name: "usb0", Listen: ":5170", Session: 1},
		},
	}

	data, err := s.Encode()
	assert.NoError(t, err)

	s2 := new(Schema)
	assert.NoError(t, s2.Decode(data))
	assert.Equal(t, s, s2)
}

func TestDecodeInvalid(t *testing.T) {
	s := new(Schema)
	assert.Error(t, s.Decode([]byte("interface {{{")))
}
