// Package store keeps every piece of dashd state in flat JSON files
// under one data directory: one file per collection (apps, bookmarks,
// services), a settings document, and an env-style credential file.
// All writes go through fsatomic so readers never see partial files,
// and each file has its own mutex so an in-process read-modify-write is
// atomic together with its invariant checks.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"homedash/dashd/internal/fsatomic"
)

const (
	appsFile      = "apps.json"
	bookmarksFile = "bookmarks.json"
	servicesFile  = "services.json"
	settingsFile  = "config.json"
	envFile       = ".env"
)

type Store struct {
	dir        string
	muApps     sync.Mutex
	muBooks    sync.Mutex
	muServices sync.Mutex
	muSettings sync.Mutex
	muEnv      sync.Mutex
}

func New(dataDir string) *Store {
	return &Store{dir: dataDir}
}

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

// readCollection loads a collection file into out. A missing file is the
// empty default; corrupt or unreadable files are surfaced as errors.
func (s *Store) readCollection(name string, out any) error {
	if _, err := fsatomic.LoadJSON(s.path(name), out); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

// writeCollection persists under an advisory flock as well as the
// in-process mutex, so a second dashd pointed at the same data
// directory cannot interleave renames.
func (s *Store) writeCollection(ctx context.Context, name string, v any) error {
	path := s.path(name)
	err := fsatomic.WithLock(path, func() error {
		return fsatomic.SaveJSON(ctx, path, v, 0o600)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) Apps() ([]AppGroup, error) {
	s.muApps.Lock()
	defer s.muApps.Unlock()
	return s.loadApps()
}

func (s *Store) loadApps() ([]AppGroup, error) {
	groups := []AppGroup{}
	if err := s.readCollection(appsFile, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// UpdateApps applies fn to the current app groups and persists the
// result, all under the collection mutex. fn returning an error aborts
// the update and leaves the file untouched.
func (s *Store) UpdateApps(ctx context.Context, fn func([]AppGroup) ([]AppGroup, error)) error {
	s.muApps.Lock()
	defer s.muApps.Unlock()
	cur, err := s.loadApps()
	if err != nil {
		return err
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	return s.writeCollection(ctx, appsFile, next)
}

func (s *Store) Bookmarks() ([]Bookmark, error) {
	s.muBooks.Lock()
	defer s.muBooks.Unlock()
	return s.loadBookmarks()
}

func (s *Store) loadBookmarks() ([]Bookmark, error) {
	list := []Bookmark{}
	if err := s.readCollection(bookmarksFile, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) UpdateBookmarks(ctx context.Context, fn func([]Bookmark) ([]Bookmark, error)) error {
	s.muBooks.Lock()
	defer s.muBooks.Unlock()
	cur, err := s.loadBookmarks()
	if err != nil {
		return err
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	return s.writeCollection(ctx, bookmarksFile, next)
}

func (s *Store) Services() ([]Service, error) {
	s.muServices.Lock()
	defer s.muServices.Unlock()
	return s.loadServices()
}

func (s *Store) loadServices() ([]Service, error) {
	list := []Service{}
	if err := s.readCollection(servicesFile, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) UpdateServices(ctx context.Context, fn func([]Service) ([]Service, error)) error {
	s.muServices.Lock()
	defer s.muServices.Unlock()
	cur, err := s.loadServices()
	if err != nil {
		return err
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	return s.writeCollection(ctx, servicesFile, next)
}

// Settings returns the settings document, seeding the defaults on first
// access so the file exists for subsequent reads.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	s.muSettings.Lock()
	defer s.muSettings.Unlock()
	var cfg Settings
	exists, err := fsatomic.LoadJSON(s.path(settingsFile), &cfg)
	if err != nil {
		return Settings{}, fmt.Errorf("read %s: %w", settingsFile, err)
	}
	if !exists {
		cfg = DefaultSettings()
		if err := s.writeCollection(ctx, settingsFile, cfg); err != nil {
			return Settings{}, err
		}
	}
	if cfg.Search.Providers == nil {
		cfg.Search.Providers = DefaultSettings().Search.Providers
	}
	return cfg, nil
}

func (s *Store) SaveSettings(ctx context.Context, cfg Settings) error {
	s.muSettings.Lock()
	defer s.muSettings.Unlock()
	return s.writeCollection(ctx, settingsFile, cfg)
}
