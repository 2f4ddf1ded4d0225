package credman

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nexushub/nexushub/pkg/credman/keyring"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManagerWithStore(keyring.NewFileKeyStore(t.TempDir()))
	if err != nil {
		t.Fatalf("NewManagerWithStore: %v", err)
	}
	return m
}

func TestSealUnsealRoundTrip(t *testing.T) {
	m := newTestManager(t)
	plain := `{"token":"ghp_abc123","host":"github.com"}`

	sealed, err := m.Seal(plain)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed == plain {
		t.Fatal("sealed payload equals plaintext")
	}
	if strings.Contains(sealed, "ghp_abc123") {
		t.Fatal("sealed payload leaks plaintext")
	}

	got, err := m.Unseal(sealed)
	if err != nil {
		t.Fatalf("Unseal: %v", err)
	}
	if got != plain {
		t.Errorf("got %q, want %q", got, plain)
	}
}

func TestSealIsNondeterministic(t *testing.T) {
	m := newTestManager(t)
	a, err := m.Seal("secret")
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Seal("secret")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two seals of the same payload are identical")
	}
}

func TestUnsealRejectsGarbage(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Unseal("not base64 !!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := m.Unseal("aGVsbG8="); err == nil {
		t.Error("expected error for undecryptable payload")
	}
}

func TestUnsealWrongKeyFails(t *testing.T) {
	m1 := newTestManager(t)
	m2 := newTestManager(t)

	sealed, err := m1.Seal("secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m2.Unseal(sealed); err == nil {
		t.Error("expected authentication failure under a different key")
	}
}

func TestKeyPersistsAcrossManagers(t *testing.T) {
	dir := t.TempDir()
	m1, err := NewManagerWithStore(keyring.NewFileKeyStore(dir))
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := m1.Seal("secret")
	if err != nil {
		t.Fatal(err)
	}

	m2, err := NewManagerWithStore(keyring.NewFileKeyStore(dir))
	if err != nil {
		t.Fatal(err)
	}
	got, err := m2.Unseal(sealed)
	if err != nil {
		t.Fatalf("Unseal with reloaded key: %v", err)
	}
	if got != "secret" {
		t.Errorf("got %q", got)
	}
}

func TestCorruptKeyIsNotRegenerated(t *testing.T) {
	dir := t.TempDir()
	store := keyring.NewFileKeyStore(dir)
	corrupt := []byte("not-hex")
	if err := os.WriteFile(filepath.Join(dir, "credentials.key"), corrupt, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewManagerWithStore(store); err == nil {
		t.Fatal("expected error for corrupt stored key")
	}
	data, err := os.ReadFile(filepath.Join(dir, "credentials.key"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(corrupt) {
		t.Error("corrupt key file was overwritten; sealed credentials would be orphaned")
	}
}

type failingStore struct{}

func (failingStore) GetKey() ([]byte, error) { return nil, errors.New("no key") }
func (failingStore) SetKey() ([]byte, error) { return nil, errors.New("store unavailable") }
func (failingStore) DeleteKey() error        { return nil }

func TestManagerStoreFailure(t *testing.T) {
	if _, err := NewManagerWithStore(failingStore{}); err == nil {
		t.Fatal("expected error from failing store")
	}
}
