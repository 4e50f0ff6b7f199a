// Package atomicfile implements the "write .tmp, fsync, rename" persistence
// discipline spec.md §5 requires of every store: a concurrent reader either
// sees the pre-state or the post-state file, never a torn write, and a
// process killed mid-write leaves the previous file intact (spec.md §8
// property 6).
//
// Grounded on localSQLiteStorage.persist() (internal/store/client_sqlite.go)
// for the MkdirAll/WriteFile/permission conventions; that persist() writes
// its target path directly without a tmp-file rename step, so the
// tmp+fsync+rename sequence here is an addition the atomicity requirement
// demands.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Write atomically replaces path's contents with data: it writes to a
// sibling "<path>.tmp" file, fsyncs it, then renames it over path. On any
// failure it removes the partial tmp file and returns an error; path is
// left untouched.
func Write(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("atomicfile: create dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("atomicfile: open tmp: %w", err)
	}

	if _, err = f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("atomicfile: write tmp: %w", err)
	}

	if err = f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("atomicfile: fsync tmp: %w", err)
	}

	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("atomicfile: close tmp: %w", err)
	}

	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("atomicfile: rename: %w", err)
	}

	return nil
}

// Writer is the streaming counterpart of [Write], used by
// internal/vault/filestore to commit a large file without buffering it
// entirely in memory. Callers write chunks with Write, then call Commit to
// fsync and rename into place, or Abort to discard the partial tmp file.
type Writer struct {
	path string
	tmp  string
	f    *os.File
}

// NewWriter opens "<path>.tmp" for writing, creating any missing parent
// directory.
func NewWriter(path string, perm os.FileMode) (*Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("atomicfile: create dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return nil, fmt.Errorf("atomicfile: open tmp: %w", err)
	}

	return &Writer{path: path, tmp: tmp, f: f}, nil
}

// Write appends p to the tmp file.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		return n, fmt.Errorf("atomicfile: write tmp: %w", err)
	}
	return n, nil
}

// Commit fsyncs and closes the tmp file, then renames it over path.
func (w *Writer) Commit() error {
	if err := w.f.Sync(); err != nil {
		w.Abort()
		return fmt.Errorf("atomicfile: fsync tmp: %w", err)
	}
	if err := w.f.Close(); err != nil {
		os.Remove(w.tmp)
		return fmt.Errorf("atomicfile: close tmp: %w", err)
	}
	if err := os.Rename(w.tmp, w.path); err != nil {
		os.Remove(w.tmp)
		return fmt.Errorf("atomicfile: rename: %w", err)
	}
	return nil
}

// Abort closes and removes the tmp file, leaving path untouched.
func (w *Writer) Abort() error {
	w.f.Close()
	return os.Remove(w.tmp)
}
