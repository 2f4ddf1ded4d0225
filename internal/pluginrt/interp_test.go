package pluginrt

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func writeModule(t *testing.T, src string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "mod.js")
	if err := os.WriteFile(p, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunEntryStringResult(t *testing.T) {
	p := writeModule(t, `function fetch(config) {
		return '{"items": [], "notifications": []}';
	}`)
	out, err := RunEntry(testLogger(), p, "fetch", "{}")
	if err != nil {
		t.Fatal(err)
	}
	if out != `{"items": [], "notifications": []}` {
		t.Errorf("unexpected payload: %q", out)
	}
}

func TestRunEntryObjectResultSerialized(t *testing.T) {
	p := writeModule(t, `function fetch(config) {
		return {items: [], notifications: []};
	}`)
	out, err := RunEntry(testLogger(), p, "fetch", "{}")
	if err != nil {
		t.Fatal(err)
	}
	if _, perr := ParseResult(out); perr != nil {
		t.Errorf("serialized object should parse back: %v (payload %q)", perr, out)
	}
}

func TestRunEntryReceivesConfigPayload(t *testing.T) {
	p := writeModule(t, `function fetch(config) {
		var c = JSON.parse(config);
		return {items: [], notifications: [], echo: c.token};
	}`)
	out, err := RunEntry(testLogger(), p, "fetch", `{"token": "abc123"}`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "abc123") {
		t.Errorf("config payload did not reach the entry point: %q", out)
	}
}

func TestRunEntryAsyncFulfilled(t *testing.T) {
	p := writeModule(t, `async function fetch(config) {
		return {items: [], notifications: []};
	}`)
	out, err := RunEntry(testLogger(), p, "fetch", "{}")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "items") {
		t.Errorf("unexpected payload: %q", out)
	}
}

func TestRunEntryAsyncRejected(t *testing.T) {
	p := writeModule(t, `async function fetch(config) {
		throw new Error("upstream said no");
	}`)
	_, err := RunEntry(testLogger(), p, "fetch", "{}")
	if err == nil || !strings.Contains(err.Error(), "rejected") {
		t.Fatalf("expected rejection error, got %v", err)
	}
}

func TestRunEntryThrow(t *testing.T) {
	p := writeModule(t, `function fetch(config) {
		throw new Error("boom");
	}`)
	_, err := RunEntry(testLogger(), p, "fetch", "{}")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected thrown error to surface, got %v", err)
	}
}

func TestRunEntryBareRequire(t *testing.T) {
	p := writeModule(t, `function fetch(config) {
		require();
		return '{"items": [], "notifications": []}';
	}`)
	_, err := RunEntry(testLogger(), p, "fetch", "{}")
	if err == nil || !strings.Contains(err.Error(), "module name") {
		t.Fatalf("expected a thrown error for require without arguments, got %v", err)
	}
}

func TestRunEntryMissingEntryPoint(t *testing.T) {
	p := writeModule(t, `function somethingElse() {}`)
	_, err := RunEntry(testLogger(), p, "fetch", "{}")
	if !errors.Is(err, ErrEntryNotDefined) {
		t.Fatalf("expected ErrEntryNotDefined, got %v", err)
	}
}

func TestRunEntryNullResult(t *testing.T) {
	p := writeModule(t, `function fetch(config) { return null; }`)
	_, err := RunEntry(testLogger(), p, "fetch", "{}")
	if !errors.Is(err, ErrInvalidReturnType) {
		t.Fatalf("expected ErrInvalidReturnType, got %v", err)
	}
}

func TestRunEntrySyntaxError(t *testing.T) {
	p := writeModule(t, `function fetch( {`)
	_, err := RunEntry(testLogger(), p, "fetch", "{}")
	if err == nil {
		t.Fatal("expected load error on malformed module")
	}
}

func TestInterpConsoleGoesToStderr(t *testing.T) {
	p := writeModule(t, `function fetch(config) {
		console.log("debugging noise");
		return '{"items": [], "notifications": []}';
	}`)
	out, err := RunEntry(testLogger(), p, "fetch", "{}")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "debugging noise") {
		t.Errorf("console output leaked into the payload: %q", out)
	}
}
