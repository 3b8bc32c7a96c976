// Package store is the only path to durable tide state.
//
// The whole collection lives in one JSON document. Writes go to a temp
// file in the same directory and are renamed over the target, so readers
// see either the old or the new document and never a partial one.
// Mutations run inside WithLock, which serialises read-modify-write
// cycles across goroutines and across processes sharing the file.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/tides-mcp/tides/internal/tides"
)

const (
	// DefaultLockTimeout bounds how long WithLock waits for the lock.
	DefaultLockTimeout = 10 * time.Second

	// lockSuffix is appended to the store path to name the lock file.
	lockSuffix = ".lock"
)

// Store defines the persistence interface used by the tracker.
// Abstracted for testability.
type Store interface {
	// Load returns a snapshot of the collection without locking.
	Load(ctx context.Context) (*tides.Collection, error)
	// WithLock runs fn against the current collection and persists the
	// result if fn returns nil. Errors from fn are returned unchanged.
	WithLock(ctx context.Context, fn func(*tides.Collection) error) error
}

// Config is the explicit configuration of a FileStore.
type Config struct {
	// Path of the JSON document. Required.
	Path string
	// LockTimeout bounds lock acquisition. Zero selects DefaultLockTimeout.
	LockTimeout time.Duration
	// Logger receives diagnostics. Nil selects slog.Default().
	Logger *slog.Logger
}

// FileStore implements Store on a single JSON file.
type FileStore struct {
	path    string
	timeout time.Duration
	log     *slog.Logger

	// sem serialises lock holders inside the process; flock serialises
	// processes. flock is only touched by the goroutine holding sem.
	sem   chan struct{}
	flock *flock.Flock
}

var _ Store = (*FileStore)(nil)

// Open validates the configured location and returns a FileStore.
// The parent directory is created if missing. The store file itself is
// not created until the first successful Save.
func Open(cfg Config) (*FileStore, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("%w: no store path configured", tides.ErrStoreUnavailable)
	}
	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %q: %v", tides.ErrStoreUnavailable, cfg.Path, err)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory, expected a file path", tides.ErrStoreUnavailable, path)
	}

	dir := filepath.Dir(path)
	if err := ensureWritableDir(dir); err != nil {
		return nil, fmt.Errorf("%w: %s is not writable: %v", tides.ErrStoreUnavailable, dir, err)
	}

	timeout := cfg.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FileStore{
		path:    path,
		timeout: timeout,
		log:     logger.With("component", "store"),
		sem:     make(chan struct{}, 1),
		flock:   flock.New(path + lockSuffix),
	}, nil
}

// Path returns the absolute path of the backing document.
func (s *FileStore) Path() string { return s.path }

// Load reads and parses the backing file. A missing file yields an empty
// collection. A file that cannot be parsed yields ErrCorruptStore and is
// left as is.
func (s *FileStore) Load(ctx context.Context) (*tides.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &tides.Collection{Tides: []tides.Tide{}}, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", tides.ErrStoreUnavailable, s.path, err)
	}

	c, err := decodeDocument(data)
	if err != nil {
		s.log.Error("store file failed to parse", "path", s.path, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", tides.ErrCorruptStore, s.path, err)
	}
	return c, nil
}

// Save validates and atomically replaces the backing file with c.
// On any failure the previous document stays in place.
func (s *FileStore) Save(ctx context.Context, c *tides.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeDocument(c)
	if err != nil {
		return fmt.Errorf("%w: %w", tides.ErrStoreWrite, err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		s.log.Error("store write failed", "path", s.path, "error", err)
		return fmt.Errorf("%w: %v", tides.ErrStoreWrite, err)
	}
	return nil
}

// WithLock is the single mutation primitive: lock, load, apply fn,
// save, unlock. Nothing is written when fn fails.
func (s *FileStore) WithLock(ctx context.Context, fn func(*tides.Collection) error) error {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	c, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	return s.Save(ctx, c)
}

// ensureWritableDir creates dir if needed and proves a file can be
// created inside it.
func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".tides-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}
