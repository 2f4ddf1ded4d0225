package keyring

import (
	"encoding/hex"
	"errors"
	"testing"

	zkeyring "github.com/zalando/go-keyring"
)

func TestKeyringRoundTrip(t *testing.T) {
	store := map[string]string{}
	origSet, origGet, origDelete := keyringSet, keyringGet, keyringDelete
	t.Cleanup(func() { keyringSet, keyringGet, keyringDelete = origSet, origGet, origDelete })
	keyringSet = func(service, user, password string) error {
		store[service+"/"+user] = password
		return nil
	}
	keyringGet = func(service, user string) (string, error) {
		v, ok := store[service+"/"+user]
		if !ok {
			return "", zkeyring.ErrNotFound
		}
		return v, nil
	}
	keyringDelete = func(service, user string) error {
		delete(store, service+"/"+user)
		return nil
	}

	k := NewKeyring()
	if _, err := k.GetKey(); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound before key is set, got %v", err)
	}

	key, err := k.SetKey()
	if err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("key length = %d, want 32", len(key))
	}

	got, err := k.GetKey()
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if hex.EncodeToString(got) != hex.EncodeToString(key) {
		t.Error("stored key differs from generated key")
	}

	if err := k.DeleteKey(); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	if _, err := k.GetKey(); err == nil {
		t.Error("expected error after delete")
	}
}

func TestKeyringRejectsCorruptKey(t *testing.T) {
	origGet := keyringGet
	t.Cleanup(func() { keyringGet = origGet })
	keyringGet = func(service, user string) (string, error) {
		return "not-hex", nil
	}

	if _, err := NewKeyring().GetKey(); err == nil {
		t.Fatal("expected error for corrupt stored key")
	}
}
