// internal/assets/filesystem.go
package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the set of primitives the campaign tree needs.
type FileSystem interface {
	EnsureDir(path string) error
	WriteFile(path string, data []byte) error
	// Copy replaces dst if it already exists.
	Copy(src, dst string) error
	Exists(path string) (bool, error)
	Remove(path string) error
	RemoveAll(path string) error
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (OSFileSystem) EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (OSFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (o OSFileSystem) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("copy %s: source is a directory", src)
	}

	if err := o.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	// write to a sibling temp file so a failed copy never truncates the old cover
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".copy-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (OSFileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (OSFileSystem) Remove(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

var _ FileSystem = (*OSFileSystem)(nil)
