// Package credman seals plugin credentials at rest. Payloads are
// encrypted with AES-GCM under a key held in the OS keyring, falling
// back to a 0600 key file when no keyring service is available.
package credman

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/nexushub/nexushub/pkg/credman/encryption"
	"github.com/nexushub/nexushub/pkg/credman/keyring"
	"github.com/nexushub/nexushub/pkg/nexuslib"
)

// KeyStore abstracts where the encryption key lives.
type KeyStore interface {
	GetKey() ([]byte, error)
	SetKey() ([]byte, error)
	DeleteKey() error
}

// Manager seals and unseals credential payloads. Sealed payloads are
// base64 strings safe to store in the plugin config table.
type Manager struct {
	key []byte
}

// NewManager loads the encryption key, preferring the OS keyring and
// falling back to a key file in the config directory. A missing key is
// generated on first use.
func NewManager() (*Manager, error) {
	stores := []KeyStore{
		keyring.NewKeyring(),
		keyring.NewFileKeyStore(nexuslib.ConfigDir),
	}
	var lastErr error
	for _, store := range stores {
		key, err := loadOrCreateKey(store)
		if err != nil {
			lastErr = err
			continue
		}
		return &Manager{key: key}, nil
	}
	return nil, fmt.Errorf("no usable key store: %w", lastErr)
}

// NewManagerWithStore builds a Manager over a specific key store.
func NewManagerWithStore(store KeyStore) (*Manager, error) {
	key, err := loadOrCreateKey(store)
	if err != nil {
		return nil, err
	}
	return &Manager{key: key}, nil
}

// loadOrCreateKey returns the stored key, generating one only when the
// store has none. Any other GetKey failure (a corrupt or truncated
// key) is fatal: regenerating would orphan every sealed credential.
func loadOrCreateKey(store KeyStore) ([]byte, error) {
	key, err := store.GetKey()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, err
	}
	return store.SetKey()
}

// Seal encrypts a plain credentials payload for storage.
func (m *Manager) Seal(plain string) (string, error) {
	sealed, err := encryption.EncryptValue(plain, m.key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Unseal decrypts a payload produced by Seal.
func (m *Manager) Unseal(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("invalid sealed payload: %w", err)
	}
	plain, err := encryption.DecryptValue(raw, m.key)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
