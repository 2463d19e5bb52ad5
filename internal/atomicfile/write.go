// Package atomicfile provides crash-safe file writing using temporary
// files and atomic renames. Nothing ever appears at the target path
// until the write has fully succeeded, so readers never observe a
// partial or corrupt file.

package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// File is an in-progress atomic write. Bytes stream into a temp file in
// the destination directory; the target path is untouched until
// [File.Commit] renames the finished file over it.
type File struct {
	target string
	perm   os.FileMode
	tmp    *os.File
	done   bool
}

// Begin opens a temp file next to path for streaming writes. The caller
// must finish with [File.Commit] or discard with [File.Abort].
func Begin(path string, perm os.FileMode) (*File, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &File{target: path, perm: perm, tmp: tmp}, nil
}

// Write streams bytes into the pending temp file. File implements
// [io.Writer] so encoders can write to it directly.
func (f *File) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit flushes the temp file to disk with [os.File.Sync], closes it,
// applies the requested permissions, and atomically renames it over the
// target path. On any failure the temp file is removed and the target
// is left untouched. A second Commit returns [os.ErrClosed].
func (f *File) Commit() error {
	if f.done {
		return os.ErrClosed
	}
	f.done = true

	tmpName := f.tmp.Name()
	var success bool
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	if err := f.tmp.Sync(); err != nil {
		f.tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, f.perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.target); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

// Abort discards the pending write and removes the temp file, leaving
// the target untouched. Calling Abort after Commit does nothing, so it
// can sit in a defer alongside a conditional Commit.
func (f *File) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}

// Write atomically writes data to path in a single call: temp file,
// flush, rename. If any step fails the temp file is removed.
func Write(path string, data []byte, perm os.FileMode) error {
	f, err := Begin(path, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return fmt.Errorf("write temp file: %w", err)
	}
	return f.Commit()
}
