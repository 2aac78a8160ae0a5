package vault

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/loopholelabs/logging/types"
)

var ErrNotInitialized = errors.New("device is not initialized")
var ErrPinMismatch = errors.New("pin does not match")

// Vault is the device secret store: the PIN and the master seed, plus the
// acquisition side of the scoped keychain contract. It stands in for the
// secure storage element of real hardware.
type Vault struct {
	log  types.Logger
	lock sync.Mutex
	pin  string
	seed []byte
}

func New(log types.Logger) *Vault {
	return &Vault{
		log: log,
	}
}

// Initialize provisions the master seed. A wiped or fresh vault holds none.
func (v *Vault) Initialize(seed []byte) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.seed = append([]byte(nil), seed...)
}

func (v *Vault) Initialized() bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.seed != nil
}

func (v *Vault) HasPin() bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.pin != ""
}

func (v *Vault) CheckPin(pin string) bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.pin == pin
}

// ChangePin replaces the stored PIN. The current PIN must match before
// anything is written; an empty newPin removes PIN protection.
func (v *Vault) ChangePin(curPin string, newPin string) error {
	v.lock.Lock()
	defer v.lock.Unlock()
	if v.pin != curPin {
		return ErrPinMismatch
	}
	v.pin = newPin
	if v.log != nil {
		if newPin == "" {
			v.log.Info().Msg("pin protection removed")
		} else {
			v.log.Info().Msg("pin protection updated")
		}
	}
	return nil
}

// Wipe erases all secrets.
func (v *Vault) Wipe() {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.pin = ""
	v.seed = nil
	if v.log != nil {
		v.log.Info().Msg("vault wiped")
	}
}

// Acquire derives a keychain handle rooted at the given namespace. The
// handle is scoped to one workflow invocation and must be released by the
// caller on every exit path.
func (v *Vault) Acquire(_ context.Context, namespace []uint32) (*Keychain, error) {
	v.lock.Lock()
	defer v.lock.Unlock()
	if v.seed == nil {
		return nil, ErrNotInitialized
	}

	mac := hmac.New(sha256.New, v.seed)
	mac.Write([]byte("keychain"))
	node := make([]byte, 4)
	for _, n := range namespace {
		binary.LittleEndian.PutUint32(node, n)
		mac.Write(node)
	}
	return newKeychain(namespace, mac.Sum(nil), v.log), nil
}
