// pkg/testutil/faultfs.go
// DEPENDENCIES: types
// PURPOSE: Inject filesystem failures for rollback tests

package testutil

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/modshelf/pkg/types"
)

// Op names a filesystem operation FaultFS can fail
type Op string

const (
	OpStat      Op = "stat"
	OpReadFile  Op = "readfile"
	OpWriteFile Op = "writefile"
	OpOpen      Op = "open"
	OpCreate    Op = "create"
	OpReadDir   Op = "readdir"
	OpMkdirAll  Op = "mkdirall"
	OpRename    Op = "rename"
	OpRemove    Op = "remove"
)

// ErrInjected is the default injected failure
var ErrInjected = fmt.Errorf("injected failure")

type fault struct {
	op    Op
	path  string // matched against the source path (or the only path)
	err   error
	after int // succeed this many times first
	hits  int
}

// FaultFS wraps a types.FS and fails configured operations.
type FaultFS struct {
	inner types.FS

	mu     sync.Mutex
	faults []*fault
	calls  map[Op]int
}

// NewFaultFS wraps inner with no faults
func NewFaultFS(inner types.FS) *FaultFS {
	return &FaultFS{inner: inner, calls: make(map[Op]int)}
}

// Fail makes op on path fail with ErrInjected. An empty path matches any path.
func (f *FaultFS) Fail(op Op, path string) *FaultFS {
	return f.FailAfter(op, path, 0, ErrInjected)
}

// FailAfter lets op on path succeed n times, then fail with err.
func (f *FaultFS) FailAfter(op Op, path string, n int, err error) *FaultFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path != "" {
		path = filepath.Clean(path)
	}
	f.faults = append(f.faults, &fault{op: op, path: path, err: err, after: n})
	return f
}

// Reset removes every fault
func (f *FaultFS) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = nil
}

// Calls returns how many times op was attempted
func (f *FaultFS) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultFS) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++

	path = filepath.Clean(path)
	for _, ft := range f.faults {
		if ft.op != op || (ft.path != "" && ft.path != path) {
			continue
		}
		ft.hits++
		if ft.hits > ft.after {
			return &fs.PathError{Op: string(op), Path: path, Err: ft.err}
		}
	}
	return nil
}

func (f *FaultFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.inner.Stat(name)
}

func (f *FaultFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.inner.Lstat(name)
}

func (f *FaultFS) ReadFile(name string) ([]byte, error) {
	if err := f.check(OpReadFile, name); err != nil {
		return nil, err
	}
	return f.inner.ReadFile(name)
}

func (f *FaultFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(OpWriteFile, name); err != nil {
		return err
	}
	return f.inner.WriteFile(name, data, perm)
}

func (f *FaultFS) Open(name string) (io.ReadCloser, error) {
	if err := f.check(OpOpen, name); err != nil {
		return nil, err
	}
	return f.inner.Open(name)
}

func (f *FaultFS) Create(name string) (io.WriteCloser, error) {
	if err := f.check(OpCreate, name); err != nil {
		return nil, err
	}
	return f.inner.Create(name)
}

func (f *FaultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.inner.ReadDir(name)
}

func (f *FaultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.inner.MkdirAll(path, perm)
}

func (f *FaultFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return err
	}
	return f.inner.Rename(oldpath, newpath)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.inner.Remove(name)
}
