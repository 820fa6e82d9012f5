// Package fsatomic persists JSON documents with write-to-temp + rename
// semantics so a reader can never observe a half-written file.
package fsatomic

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// SaveJSON atomically replaces path with v rendered as indented JSON.
// It writes path+".tmp", fsyncs the file and the parent directory,
// renames over the target, then fsyncs the parent again. The temp file
// is removed on any failure. A zero perm means 0600.
func SaveJSON(ctx context.Context, path string, v any, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return SaveBytes(path, b, perm)
}

// SaveBytes atomically replaces path with b, with the same temp +
// fsync + rename + dir-fsync sequence as SaveJSON.
func SaveBytes(path string, b []byte, perm fs.FileMode) error {
	if perm == 0 {
		perm = 0o600
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := writeAndSync(tmp, b, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := fsyncDir(dir); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return fsyncDir(dir)
}

// LoadJSON reads path into v. A missing file reports exists=false with a
// nil error so callers can fall back to their empty default; anything
// else that goes wrong (unreadable file, corrupt JSON) is surfaced.
// A stale crash artifact at path+".tmp" is cleaned up on the way in.
func LoadJSON(path string, v any) (bool, error) {
	_ = os.Remove(path + ".tmp")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if len(data) == 0 {
		return true, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// WithLock runs fn while holding an exclusive advisory lock at
// path+".lock". It guards multi-step read-modify-write sequences against
// a second dashd process pointed at the same data directory.
func WithLock(path string, fn func() error) error {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	unlock, err := flockExclusive(path + ".lock")
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func writeAndSync(path string, b []byte, perm fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// fsyncDir persists directory metadata after a rename; no-op on Windows
// where directories cannot be opened for sync.
func fsyncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
