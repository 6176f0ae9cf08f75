package toggle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// Remove deletes every file of an entry and drops it from the catalog.
// Files are first renamed to hidden staging names next to themselves; a
// failed rename or a failed save puts them all back. Only once the catalog
// is saved are the staged files deleted. Files already gone are ignored.
func (e *Engine) Remove(id types.EntryID) error {
	logger := e.logger.With().Str("id", id.String()).Logger()

	cat, _ := e.store.Load()
	entry, ok := cat.Get(id)
	if !ok {
		return errors.Newf(errors.ErrNotFound, "entry %s not found", id).WithDetail("id", id.String())
	}

	staged := make(moveLog, 0, len(entry.Files))
	for _, f := range entry.Files {
		if _, err := e.fs.Lstat(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, errors.ErrIOFailure, "cannot check %s of %s", filepath.Base(f), id).
				WithDetail("id", id.String()).
				WithDetail("file", f)
		}
		staged = append(staged, move{src: f, dst: stagingName(f)})
	}

	done, err := e.apply(staged)
	if err != nil {
		failed := staged[len(done)]
		e.rollback(done, logger)
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to delete %s of %s", filepath.Base(failed.src), id).
			WithDetail("id", id.String()).
			WithDetail("file", failed.src)
	}

	cat.Remove(id)
	if err := e.store.Save(cat); err != nil {
		e.rollback(done, logger)
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to record removal of %s", id).WithDetail("id", id.String())
	}

	for _, m := range done {
		if err := e.fs.Remove(m.dst); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("file", m.dst).Msg("could not delete staged file")
		}
	}

	if roots, err := e.layout.Roots(id.Category); err == nil {
		e.pruneEmpty(roots.For(entry.Active), entry.Subfolder)
	}

	logger.Info().Int("files", len(done)).Msg("entry removed")
	return nil
}

// Restore catalogs a removed entry again, keeping its recorded fields.
// Its files must already be back on disk.
func (e *Engine) Restore(entry types.ManagedEntry) error {
	id := entry.ID()
	cat, _ := e.store.Load()
	if _, ok := cat.Get(id); ok {
		return errors.Newf(errors.ErrConflict, "entry %s is already cataloged", id).WithDetail("id", id.String())
	}
	for _, f := range entry.Files {
		if _, err := e.fs.Lstat(f); err != nil {
			return errors.Wrapf(err, errors.ErrNotFound, "file %s of %s is missing", filepath.Base(f), id).
				WithDetail("id", id.String()).
				WithDetail("file", f)
		}
	}
	if err := cat.Add(entry); err != nil {
		return err
	}
	if err := e.store.Save(cat); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to record restore of %s", id).WithDetail("id", id.String())
	}
	e.logger.Info().Str("id", id.String()).Msg("entry restored")
	return nil
}

// stagingName is a sibling of path the scanner never picks up: hidden,
// with an extension no category uses and a base name no entry shares.
func stagingName(path string) string {
	return filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.removing", filepath.Base(path), uuid.NewString()))
}
