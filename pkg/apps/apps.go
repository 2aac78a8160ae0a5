package apps

import (
	"context"
	"errors"

	"github.com/strandlabs/vaultwire/pkg/apps/management"
	"github.com/strandlabs/vaultwire/pkg/apps/misc"
	"github.com/strandlabs/vaultwire/pkg/ui"
	"github.com/strandlabs/vaultwire/pkg/vault"
	"github.com/strandlabs/vaultwire/pkg/wire"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// cipherKeyValueNamespace scopes keychain handles for CipherKeyValue (SLIP-11).
var cipherKeyValueNamespace = []uint32{10011}

// keychainStore adapts the vault to the wire credential contract.
type keychainStore struct {
	v *vault.Vault
}

func (s keychainStore) Acquire(ctx context.Context, namespace []uint32) (wire.Credential, error) {
	kc, err := s.v.Acquire(ctx, namespace)
	if errors.Is(err, vault.ErrNotInitialized) {
		return nil, wire.NotInitialized("Device is not initialized")
	}
	if err != nil {
		return nil, err
	}
	return kc, nil
}

// Register declares every supported request type on the registry. Called
// once at boot; the registry is immutable afterwards.
func Register(reg *wire.Registry, info misc.DeviceInfo, v *vault.Vault, u ui.UI) error {
	store := keychainStore{v: v}

	type registration struct {
		mtype   messages.Type
		resolve func() wire.Workflow
	}
	workflows := []registration{
		{messages.TypeInitialize, func() wire.Workflow { return misc.GetFeatures(info, v) }},
		{messages.TypeGetFeatures, func() wire.Workflow { return misc.GetFeatures(info, v) }},
		{messages.TypePing, func() wire.Workflow { return misc.Ping(u) }},
		{messages.TypeGetEntropy, func() wire.Workflow { return misc.GetEntropy(u) }},
		{messages.TypeChangePin, func() wire.Workflow { return management.ChangePin(v, u) }},
		{messages.TypeWipeDevice, func() wire.Workflow { return management.WipeDevice(v, u) }},
	}
	for _, w := range workflows {
		if err := reg.Add(w.mtype, w.resolve); err != nil {
			return err
		}
	}

	return reg.AddWithCredential(messages.TypeCipherKeyValue, store, cipherKeyValueNamespace,
		func() wire.CredentialWorkflow { return misc.CipherKeyValue(u) })
}
