package vault

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/loopholelabs/logging/types"
)

var ErrReleased = errors.New("keychain handle already released")

// Keychain is a scoped secure-credential handle. It derives keys under its
// namespace for exactly one workflow invocation; after Release all
// derivation fails and the root secret is gone.
type Keychain struct {
	id        uuid.UUID
	log       types.Logger
	namespace []uint32
	secret    []byte
	released  atomic.Bool
}

func newKeychain(namespace []uint32, secret []byte, log types.Logger) *Keychain {
	kc := &Keychain{
		id:        uuid.New(),
		log:       log,
		namespace: namespace,
		secret:    secret,
	}
	if log != nil {
		log.Debug().Str("keychain", kc.id.String()).Msg("keychain acquired")
	}
	return kc
}

func (k *Keychain) ID() uuid.UUID {
	return k.id
}

func (k *Keychain) Namespace() []uint32 {
	return k.namespace
}

// DeriveKey returns a 32-byte key bound to this keychain's namespace and
// the given label.
func (k *Keychain) DeriveKey(label string) ([]byte, error) {
	if k.released.Load() {
		return nil, ErrReleased
	}
	mac := hmac.New(sha256.New, k.secret)
	mac.Write([]byte(label))
	return mac.Sum(nil), nil
}

// Release scrubs the handle. Idempotent.
func (k *Keychain) Release() {
	if k.released.Swap(true) {
		return
	}
	for i := range k.secret {
		k.secret[i] = 0
	}
	if k.log != nil {
		k.log.Debug().Str("keychain", k.id.String()).Msg("keychain released")
	}
}
