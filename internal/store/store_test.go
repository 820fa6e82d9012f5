package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMissingCollectionReadsEmpty(t *testing.T) {
	s := New(t.TempDir())
	for name, read := range map[string]func() (int, error){
		"apps":      func() (int, error) { v, err := s.Apps(); return len(v), err },
		"bookmarks": func() (int, error) { v, err := s.Bookmarks(); return len(v), err },
		"services":  func() (int, error) { v, err := s.Services(); return len(v), err },
	} {
		n, err := read()
		if err != nil {
			t.Fatalf("%s: missing file must read as empty, got %v", name, err)
		}
		if n != 0 {
			t.Fatalf("%s: expected empty collection, got %d", name, n)
		}
	}
}

func TestCorruptCollectionSurfacesError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "services.json"), []byte("[{\"name\":"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := New(dir)
	if _, err := s.Services(); err == nil {
		t.Fatal("corrupt file must not be silently emptied")
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	want := []Service{{Name: "router", IP: "10.0.0.1"}, {Name: "nas", IP: "10.0.0.2"}}
	err := s.UpdateServices(ctx, func(cur []Service) ([]Service, error) {
		return append(cur, want...), nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.Services()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("round trip mismatch: %v", got)
	}
}

func TestUpdateAbortLeavesFileUntouched(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()
	if err := s.UpdateServices(ctx, func(cur []Service) ([]Service, error) {
		return []Service{{Name: "router", IP: "10.0.0.1"}}, nil
	}); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("conflict")
	err := s.UpdateServices(ctx, func(cur []Service) ([]Service, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want fn error back, got %v", err)
	}

	got, err := s.Services()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "router" {
		t.Fatalf("aborted update changed disk state: %v", got)
	}
}

func TestSettingsSeededOnFirstAccess(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	cfg, err := s.Settings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.Provider != "duckduckgo" || cfg.Theme.Mode != "dark" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Fatal("defaults were not persisted")
	}
}

func TestEnvMergePreservesUnrelatedKeys(t *testing.T) {
	s := New(t.TempDir())
	if err := s.WriteEnv(map[string]string{"A": "1", "B": "2"}); err != nil {
		t.Fatal(err)
	}
	merged, err := s.UpdateEnv(map[string]string{"B": "changed", "C": "3"})
	if err != nil {
		t.Fatal(err)
	}
	if merged["A"] != "1" || merged["B"] != "changed" || merged["C"] != "3" {
		t.Fatalf("bad merge: %v", merged)
	}
	onDisk, err := s.ReadEnv()
	if err != nil {
		t.Fatal(err)
	}
	if onDisk["A"] != "1" || onDisk["B"] != "changed" || onDisk["C"] != "3" {
		t.Fatalf("bad persisted merge: %v", onDisk)
	}
}

func TestEnvMissingFileReadsEmpty(t *testing.T) {
	s := New(t.TempDir())
	env, err := s.ReadEnv()
	if err != nil {
		t.Fatal(err)
	}
	if len(env) != 0 {
		t.Fatalf("expected empty env, got %v", env)
	}
}

func TestEnvValuesMayContainEquals(t *testing.T) {
	s := New(t.TempDir())
	if err := s.WriteEnv(map[string]string{"HASH": "$argon2id$v=19$m=65536,t=3,p=1$c$d"}); err != nil {
		t.Fatal(err)
	}
	env, err := s.ReadEnv()
	if err != nil {
		t.Fatal(err)
	}
	if env["HASH"] != "$argon2id$v=19$m=65536,t=3,p=1$c$d" {
		t.Fatalf("value mangled: %q", env["HASH"])
	}
}

func TestWritesTakeAdvisoryLock(t *testing.T) {
	s := New(t.TempDir())
	err := s.UpdateServices(context.Background(), func(cur []Service) ([]Service, error) {
		return append(cur, Service{Name: "router", IP: "10.0.0.1"}), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.path(servicesFile) + ".lock"); err != nil {
		t.Fatalf("collection write left no lock file: %v", err)
	}

	if _, err := s.UpdateEnv(map[string]string{"PASSWORD_HASH": "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.path(envFile) + ".lock"); err != nil {
		t.Fatalf("env write left no lock file: %v", err)
	}
}
