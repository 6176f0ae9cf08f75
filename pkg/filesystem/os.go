package filesystem

import (
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/modshelf/pkg/types"
)

// FileMode is the permission of files created by Create
const FileMode fs.FileMode = 0644

// OS is the host filesystem. Errors are the unwrapped *fs.PathError values
// from package os so os.IsNotExist and os.IsExist keep working.
type OS struct{}

var _ types.FS = OS{}

// NewOS returns the host filesystem
func NewOS() types.FS {
	return OS{}
}

func (OS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (OS) Lstat(name string) (fs.FileInfo, error) { return os.Lstat(name) }
func (OS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }
func (OS) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Create makes a new file and fails if name already exists, so a copy never
// clobbers an entry file.
func (OS) Create(name string) (io.WriteCloser, error) {
	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FileMode)
}

func (OS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

// Rename moves within one volume. Entry roots of a category share the game
// root's volume, so no copy fallback is attempted.
func (OS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }
func (OS) Remove(name string) error { return os.Remove(name) }
