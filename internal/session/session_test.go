package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	want := Session{
		Token:   "tok-123",
		Account: Account{ID: "acct-1", Email: "sam@example.com"},
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("session file mode = %o, want 0600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("load = %+v, want %+v", got, want)
	}

	if err := Clear(path); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("load after clear should fail")
	}

	// Clearing again is a no-op, not an error.
	if err := Clear(path); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestLoadRejectsEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	os.WriteFile(path, []byte(`{"token":"","account":{"id":"x","email":"y"}}`), 0600)

	if _, err := Load(path); err == nil {
		t.Error("expected error for tokenless session")
	}
}
