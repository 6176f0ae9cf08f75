package undo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/filesystem"
	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/types"
)

type capturedFile struct {
	path string
	data []byte
}

// StateSnapshot holds the bytes of a set of files at one point in time.
type StateSnapshot struct {
	files []capturedFile
	size  int64
}

// Capture reads every path. Paths that do not exist are left out. Files
// larger than maxBytes in total fail with ErrTooLarge; maxBytes <= 0
// disables the limit.
func Capture(fsys types.FS, paths []string, maxBytes int64) (*StateSnapshot, error) {
	snap := &StateSnapshot{}
	for _, p := range paths {
		info, err := fsys.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrIOFailure, "cannot stat %s", p)
		}
		if info.IsDir() {
			return nil, errors.Newf(errors.ErrInvalidInput, "%s is a directory", p)
		}
		if maxBytes > 0 && snap.size+info.Size() > maxBytes {
			return nil, errors.Newf(errors.ErrTooLarge, "snapshot exceeds %d bytes", maxBytes).
				WithDetail("file", p)
		}
		data, err := fsys.ReadFile(p)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrIOFailure, "cannot read %s", p)
		}
		snap.size += int64(len(data))
		snap.files = append(snap.files, capturedFile{path: p, data: data})
	}
	return snap, nil
}

// Size is the number of captured bytes
func (s *StateSnapshot) Size() int64 {
	return s.size
}

// Paths lists the captured paths in capture order
func (s *StateSnapshot) Paths() []string {
	out := make([]string, len(s.files))
	for i, f := range s.files {
		out[i] = f.path
	}
	return out
}

// Restore writes every captured file back. When any path is taken it
// fails with ErrConflict before writing anything; a failed write removes
// the files already restored.
func (s *StateSnapshot) Restore(fsys types.FS) error {
	for _, f := range s.files {
		if _, err := fsys.Lstat(f.path); err == nil {
			return errors.Newf(errors.ErrConflict, "%s already exists", filepath.Base(f.path)).
				WithDetail("file", f.path)
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrIOFailure, "cannot check %s", f.path)
		}
	}
	for i, f := range s.files {
		if err := filesystem.WriteAtomic(fsys, f.path, f.data); err != nil {
			s.discard(fsys, i)
			return errors.Wrapf(err, errors.ErrIOFailure, "cannot restore %s", f.path).
				WithDetail("file", f.path)
		}
	}
	return nil
}

// discard removes the first n restored files
func (s *StateSnapshot) discard(fsys types.FS, n int) {
	for _, f := range s.files[:n] {
		if err := fsys.Remove(f.path); err != nil && !os.IsNotExist(err) {
			logger := logging.GetLogger("undo")
			logger.Warn().Err(err).Str("file", f.path).Msg("could not remove restored file")
		}
	}
}

// EntryTarget removes entries and puts removed ones back
type EntryTarget interface {
	Reconcile() error
	RemoveEntry(id types.EntryID) error
	RestoreEntry(e types.ManagedEntry) error
}

// RemoveAction deletes an entry. Undo writes its files back from the
// snapshot and catalogs the entry as it was recorded at removal.
type RemoveAction struct {
	target   EntryTarget
	fs       types.FS
	entry    types.ManagedEntry
	snapshot *StateSnapshot
}

// NewRemoveAction creates a RemoveAction for entry, whose files are held
// by snapshot
func NewRemoveAction(target EntryTarget, fsys types.FS, entry types.ManagedEntry, snapshot *StateSnapshot) *RemoveAction {
	return &RemoveAction{target: target, fs: fsys, entry: entry.Clone(), snapshot: snapshot}
}

func (a *RemoveAction) Execute() error {
	return a.target.RemoveEntry(a.entry.ID())
}

func (a *RemoveAction) Undo() error {
	if err := a.target.Reconcile(); err != nil {
		return err
	}
	if err := a.snapshot.Restore(a.fs); err != nil {
		return err
	}
	if err := a.target.RestoreEntry(a.entry.Clone()); err != nil {
		a.snapshot.discard(a.fs, len(a.snapshot.files))
		return err
	}
	return nil
}

func (a *RemoveAction) Description() string {
	return fmt.Sprintf("Remove %s", a.entry.Name)
}
