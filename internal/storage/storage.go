// Package storage persists descriptor text. The mutation pipeline treats it
// as an opaque blob boundary: read everything, compute in memory, write once.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// File is one descriptor file on local storage.
type File struct {
	path string
}

// NewFile returns a File for the given descriptor path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the descriptor's location.
func (f *File) Path() string {
	return f.path
}

// Load reads the whole descriptor.
func (f *File) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	return data, nil
}

// Replace atomically swaps the descriptor's content: the new text is written
// to a temp file in the same directory and renamed over the original, so a
// crash mid-write can never leave a truncated descriptor behind.
func (f *File) Replace(data []byte) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp descriptor: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp descriptor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp descriptor: %w", err)
	}

	if info, err := os.Stat(f.path); err == nil {
		// Best effort; the rename below is what matters.
		_ = os.Chmod(tmpName, info.Mode())
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing descriptor: %w", err)
	}
	return nil
}
