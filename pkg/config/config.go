package config

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Schema is the device emulator configuration: the identity reported in
// Features plus one block per exposed physical interface.
type Schema struct {
	Device    *DeviceSchema      `hcl:"device,block"`
	Interface []*InterfaceSchema `hcl:"interface,block"`
}

type DeviceSchema struct {
	Vendor  string `hcl:"vendor,attr"`
	Model   string `hcl:"model,attr"`
	Version string `hcl:"version,attr"`
	Pin     string `hcl:"pin,optional"`
	Seed    string `hcl:"seed,optional"`
}

type InterfaceSchema struct {
	Name    string `hcl:"name,label"`
	Listen  string `hcl:"listen,attr"`
	Session int    `hcl:"session,optional"`
}

func ReadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s := new(Schema)
	return s, s.Decode(data)
}

func (s *Schema) Decode(data []byte) error {
	file, diag := hclsyntax.ParseConfig(data, "", hcl.Pos{Line: 1, Column: 1})
	if diag.HasErrors() {
		return diag.Errs()[0]
	}

	diag = gohcl.DecodeBody(file.Body, nil, s)
	if diag.HasErrors() {
		return diag.Errs()[0]
	}

	return nil
}

func (s *Schema) Encode() ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(s, f.Body())
	return f.Bytes(), nil
}
