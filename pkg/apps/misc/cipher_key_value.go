package misc

import (
	"context"
	"crypto/aes"
	"crypto/cipher"

	"github.com/strandlabs/vaultwire/pkg/apps/common"
	"github.com/strandlabs/vaultwire/pkg/ui"
	"github.com/strandlabs/vaultwire/pkg/vault"
	"github.com/strandlabs/vaultwire/pkg/wire"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// CipherKeyValue builds the keychain-scoped workflow that encrypts or
// decrypts a host value under a key derived from the device seed and the
// value's label. AES-CTR keyed per label makes the operation symmetric.
func CipherKeyValue(u ui.UI) wire.CredentialWorkflow {
	return func(ctx context.Context, c *wire.Context, req messages.Message, cred wire.Credential) (messages.Message, error) {
		msg := req.(*messages.CipherKeyValue)
		kc := cred.(*vault.Keychain)

		action := "Decrypt value of key"
		if msg.Encrypt {
			action = "Encrypt value of key"
		}
		err := common.RequireConfirm(ctx, c, u, messages.ButtonRequestOther,
			"Cipher key value", action+" \""+msg.Key+"\"?")
		if err != nil {
			return nil, err
		}

		key, err := kc.DeriveKey(msg.Key)
		if err != nil {
			return nil, wire.ProcessError("Key derivation failed")
		}
		iv, err := kc.DeriveKey(msg.Key + " iv")
		if err != nil {
			return nil, wire.ProcessError("Key derivation failed")
		}

		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, wire.ProcessError("Cipher setup failed")
		}
		out := make([]byte, len(msg.Value))
		cipher.NewCTR(block, iv[:block.BlockSize()]).XORKeyStream(out, msg.Value)

		return &messages.CipheredKeyValue{Value: out}, nil
	}
}
