// Package fs provides filesystem utilities for verilib.
// Commands talk to the disk through FS so tests can point them at a temp dir.
package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FS is the filesystem surface used by the store, the resolver and the planner.
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(path string) error
	Stat(path string) (os.FileInfo, error)
	WalkDir(root string, fn iofs.WalkDirFunc) error
}

// RealFS implements FS against the operating system.
type RealFS struct{}

// NewRealFS returns an FS backed by the os package.
func NewRealFS() FS {
	return RealFS{}
}

func (RealFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (RealFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (RealFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (RealFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func (RealFS) Remove(path string) error { return os.Remove(path) }

func (RealFS) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }

func (RealFS) WalkDir(root string, fn iofs.WalkDirFunc) error { return filepath.WalkDir(root, fn) }

// WriteFileAtomic writes data to a temp file next to path and renames it into
// place, so readers never observe a half-written file. Each call uses its own
// temp name; concurrent writers of one path leave exactly one of their
// contents.
func WriteFileAtomic(fsys FS, path string, data []byte, perm os.FileMode) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}
