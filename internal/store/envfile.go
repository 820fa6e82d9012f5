package store

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"homedash/dashd/internal/fsatomic"
)

// The credential record lives in an env-style KEY=VALUE file next to the
// collections. UpdateEnv overlays new keys onto the existing ones so
// unrelated keys survive a password change.

// ReadEnv parses the env file into a map. Missing file means no keys.
func (s *Store) ReadEnv() (map[string]string, error) {
	s.muEnv.Lock()
	defer s.muEnv.Unlock()
	return s.readEnvLocked()
}

func (s *Store) readEnvLocked() (map[string]string, error) {
	data, err := os.ReadFile(s.path(envFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}
	out := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// WriteEnv replaces the env file with the given keys, atomically.
func (s *Store) WriteEnv(env map[string]string) error {
	s.muEnv.Lock()
	defer s.muEnv.Unlock()
	return s.writeEnvLocked(env)
}

func (s *Store) writeEnvLocked(env map[string]string) error {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(env[k])
		b.WriteByte('\n')
	}
	// The credential file gets the full fsync treatment: losing it to a
	// crash after a password change locks the operator out.
	path := s.path(envFile)
	err := fsatomic.WithLock(path, func() error {
		return fsatomic.SaveBytes(path, []byte(b.String()), 0o600)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", envFile, err)
	}
	return nil
}

// UpdateEnv merges updates over the current keys and persists the
// result, returning the merged map.
func (s *Store) UpdateEnv(updates map[string]string) (map[string]string, error) {
	s.muEnv.Lock()
	defer s.muEnv.Unlock()
	cur, err := s.readEnvLocked()
	if err != nil {
		return nil, err
	}
	for k, v := range updates {
		cur[k] = v
	}
	if err := s.writeEnvLocked(cur); err != nil {
		return nil, err
	}
	return cur, nil
}
