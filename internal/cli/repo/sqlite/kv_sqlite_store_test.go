package sqlite

import (
	"errors"
	"os"
	"testing"

	"ClinicDesk/internal/cli/repo"
)

func openTemp(t *testing.T) (*KVStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, dbPath, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s, dbPath
}

func TestOpen_And_Migrate(t *testing.T) {
	s, dbPath := openTemp(t)
	if dbPath == "" {
		t.Fatalf("dbPath is empty")
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
	// повторная миграция безопасна
	if err := s.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	names, err := migrations()
	if err != nil || len(names) == 0 {
		t.Fatalf("embedded migrations: %v (%d files)", err, len(names))
	}
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		t.Fatalf("user_version: %v", err)
	}
	if version != len(names) {
		t.Fatalf("schema version %d, want %d", version, len(names))
	}
	if _, _, err := Open(""); err == nil {
		t.Fatalf("empty dir must fail")
	}
}

func TestKVStore_SetGetOverwriteDelete(t *testing.T) {
	s, _ := openTemp(t)

	if _, err := s.Get(repo.KeyToken); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty db, got %v", err)
	}
	if err := s.Set(repo.KeyToken, "first"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(repo.KeyToken, "second"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, err := s.Get(repo.KeyToken)
	if err != nil || v != "second" {
		t.Fatalf("get after overwrite: %q %v", v, err)
	}
	if err := s.Delete(repo.KeyToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(repo.KeyToken); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestKVStore_ValuesAreEncryptedAtRest(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Set(repo.KeyEmail, "alice@clinic.test"); err != nil {
		t.Fatal(err)
	}
	var raw []byte
	if err := s.db.QueryRow(`SELECT value_cipher FROM kv WHERE key = ?`, repo.KeyEmail).Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if string(raw) == "alice@clinic.test" {
		t.Fatalf("value stored in plaintext")
	}
}

func TestKVStore_ReopenKeepsValues(t *testing.T) {
	dir := t.TempDir()
	s, _, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Migrate()
	if err := s.Set(repo.KeyUsername, "alice"); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s2, _, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, err := s2.Get(repo.KeyUsername)
	if err != nil || v != "alice" {
		t.Fatalf("value lost after reopen: %q %v", v, err)
	}
}
