package keyring

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileKeyStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileKeyStore(dir)

	key, err := store.SetKey()
	if err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("key length = %d, want 32", len(key))
	}

	got, err := store.GetKey()
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if hex.EncodeToString(got) != hex.EncodeToString(key) {
		t.Error("read key differs from generated key")
	}

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != keyFileMode {
		t.Errorf("key file mode = %v, want %v", info.Mode().Perm(), os.FileMode(keyFileMode))
	}

	if err := store.DeleteKey(); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	if _, err := store.GetKey(); err == nil {
		t.Error("expected error after delete")
	}
}

func TestFileKeyStoreMissingKey(t *testing.T) {
	store := NewFileKeyStore(t.TempDir())
	if _, err := store.GetKey(); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound for missing key file, got %v", err)
	}
}

func TestFileKeyStoreCorruptKeyIsNotNotFound(t *testing.T) {
	dir := t.TempDir()
	store := NewFileKeyStore(dir)
	if err := os.WriteFile(filepath.Join(dir, keyFileName), []byte("not-hex"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetKey(); errors.Is(err, ErrKeyNotFound) {
		t.Fatal("corrupt key file must not report ErrKeyNotFound")
	}
}

func TestFileKeyStoreRejectsCorruptKey(t *testing.T) {
	dir := t.TempDir()
	store := NewFileKeyStore(dir)
	if err := os.WriteFile(filepath.Join(dir, keyFileName), []byte("not-hex"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetKey(); err == nil {
		t.Fatal("expected error for corrupt key file")
	}

	if err := os.WriteFile(filepath.Join(dir, keyFileName), []byte(hex.EncodeToString([]byte("short"))), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetKey(); err == nil {
		t.Fatal("expected error for wrong key length")
	}
}
