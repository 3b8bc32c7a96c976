package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// File operations used by writeAtomic. Package-level variables so tests
// can simulate a crash at each step.
var (
	writeFile  = func(f *os.File, data []byte) (int, error) { return f.Write(data) }
	syncFile   = func(f *os.File) error { return f.Sync() }
	renameFile = os.Rename
)

// writeAtomic replaces path with data using the temp-file, fsync, rename
// pattern. The temp file lives in the same directory so the rename never
// crosses filesystems. Any failure before the rename removes the temp
// file and leaves path untouched.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tides-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	if n, err := writeFile(tmp, data); err != nil {
		return fail("writing temp file", err)
	} else if n != len(data) {
		return fail("writing temp file", fmt.Errorf("short write: %d of %d bytes", n, len(data)))
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail("setting permissions", err)
	}
	if err := syncFile(tmp); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := renameFile(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	syncDir(dir)
	return nil
}

// syncDir flushes the directory entry for the rename. Best effort: not
// every platform supports fsync on a directory.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
