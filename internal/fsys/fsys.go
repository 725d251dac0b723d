// Package fsys is the filesystem seam for config loading and doctor fixes.
//
// Production code uses [OSFS]. Tests use [Fake], an in-memory tree that
// logs every call and can inject errors per path.
package fsys

import (
	"fmt"
	"os"
)

// FS is the subset of filesystem operations rtwd performs on its
// configuration.
type FS interface {
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	// Rename replaces newpath with oldpath.
	Rename(oldpath, newpath string) error
	Stat(name string) (os.FileInfo, error)
}

// OSFS implements [FS] with the os package.
type OSFS struct{}

// MkdirAll calls [os.MkdirAll].
func (OSFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

// ReadFile calls [os.ReadFile].
func (OSFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// WriteFile calls [os.WriteFile].
func (OSFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Rename calls [os.Rename].
func (OSFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

// Stat calls [os.Stat].
func (OSFS) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

// WriteFileAtomic writes data next to name and renames it into place, so
// readers of name see either the old or the new contents.
func WriteFileAtomic(fs FS, name string, data []byte, perm os.FileMode) error {
	tmp := name + ".tmp"
	if err := fs.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, name); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}
