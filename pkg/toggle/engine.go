package toggle

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/layout"
	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/registry"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// Engine performs file moves and keeps the catalog in step with them
type Engine struct {
	fs     types.FS
	store  *registry.Store
	layout *layout.Layout
	logger zerolog.Logger
	now    func() time.Time
}

// New creates an Engine
func New(fsys types.FS, store *registry.Store, l *layout.Layout) *Engine {
	return &Engine{
		fs:     fsys,
		store:  store,
		layout: l,
		logger: logging.GetLogger("toggle"),
		now:    time.Now,
	}
}

// Activate moves an entry into its active root
func (e *Engine) Activate(id types.EntryID) error {
	return e.SetActive(id, true)
}

// Deactivate moves an entry into its disabled root
func (e *Engine) Deactivate(id types.EntryID) error {
	return e.SetActive(id, false)
}

// SetActive moves the entry's files so its state becomes want. It is a
// no-op when the entry already has that state.
func (e *Engine) SetActive(id types.EntryID, want bool) error {
	logger := e.logger.With().Str("id", id.String()).Bool("want_active", want).Logger()

	p, err := e.plan(id, want)
	if err != nil {
		return err
	}
	if p == nil {
		logger.Debug().Msg("entry already in wanted state")
		return nil
	}

	destDir := subDir(p.roots.For(want), p.entry.Subfolder)
	if err := e.fs.MkdirAll(destDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to create %s", destDir).WithDetail("id", id.String())
	}

	done, err := e.apply(p.moves)
	if err != nil {
		failed := p.moves[len(done)]
		e.rollback(done, logger)
		e.pruneEmpty(p.roots.For(want), p.entry.Subfolder)
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to move %s of %s", filepath.Base(failed.src), id).
			WithDetail("id", id.String()).
			WithDetail("file", failed.src)
	}

	entry := p.entry
	entry.Files = p.moves.destinations()
	entry.Active = want
	if err := p.cat.Replace(entry); err != nil {
		e.rollback(done, logger)
		e.pruneEmpty(p.roots.For(want), entry.Subfolder)
		return err
	}
	if err := e.store.Save(p.cat); err != nil {
		e.rollback(done, logger)
		e.pruneEmpty(p.roots.For(want), entry.Subfolder)
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to record toggle of %s", id).WithDetail("id", id.String())
	}

	e.pruneEmpty(p.roots.For(!want), entry.Subfolder)
	logger.Info().Int("files", len(p.moves)).Msg("entry toggled")
	return nil
}

// Check runs every test SetActive makes before moving a file: the entry
// is cataloged, its files are present and no destination is taken.
func (e *Engine) Check(id types.EntryID, want bool) error {
	_, err := e.plan(id, want)
	return err
}

type togglePlan struct {
	cat   *registry.Catalog
	entry types.ManagedEntry
	roots layout.Roots
	moves moveLog
}

// plan returns nil without error when the entry already has state want
func (e *Engine) plan(id types.EntryID, want bool) (*togglePlan, error) {
	cat, _ := e.store.Load()
	entry, ok := cat.Get(id)
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "entry %s not found", id).WithDetail("id", id.String())
	}
	if entry.Active == want {
		return nil, nil
	}

	roots, err := e.layout.Roots(id.Category)
	if err != nil {
		return nil, err
	}

	for _, f := range entry.Files {
		if _, err := e.fs.Lstat(f); err != nil {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "file %s of %s is missing, reconcile first", filepath.Base(f), id).
				WithDetail("id", id.String()).
				WithDetail("file", f)
		}
	}

	destDir := subDir(roots.For(want), entry.Subfolder)
	moves := make(moveLog, 0, len(entry.Files))
	for _, f := range entry.Files {
		moves = append(moves, move{src: f, dst: filepath.Join(destDir, filepath.Base(f))})
	}
	if err := e.checkDestinations(id, moves); err != nil {
		return nil, err
	}
	return &togglePlan{cat: cat, entry: entry, roots: roots, moves: moves}, nil
}

func (e *Engine) checkDestinations(id types.EntryID, moves moveLog) error {
	for _, m := range moves {
		if _, err := e.fs.Lstat(m.dst); err == nil {
			return errors.Newf(errors.ErrConflict, "%s already exists in destination", filepath.Base(m.dst)).
				WithDetail("id", id.String()).
				WithDetail("file", m.dst)
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrIOFailure, "cannot check destination %s", m.dst).
				WithDetail("id", id.String())
		}
	}
	return nil
}

// apply renames in order and returns the completed moves. On error the
// move at index len(done) is the one that failed.
func (e *Engine) apply(moves moveLog) (moveLog, error) {
	for i, m := range moves {
		if err := e.fs.Rename(m.src, m.dst); err != nil {
			return moves[:i], err
		}
		e.logger.Debug().Str("from", m.src).Str("to", m.dst).Msg("moved file")
	}
	return moves, nil
}

// rollback reverts completed moves in reverse order
func (e *Engine) rollback(done moveLog, logger zerolog.Logger) {
	for i := len(done) - 1; i >= 0; i-- {
		m := done[i]
		if err := e.fs.MkdirAll(filepath.Dir(m.src), 0755); err != nil {
			logger.Error().Err(err).Str("dir", filepath.Dir(m.src)).Msg("rollback could not recreate directory")
		}
		if err := e.fs.Rename(m.dst, m.src); err != nil {
			logger.Error().Err(err).Str("from", m.dst).Str("to", m.src).Msg("rollback move failed")
		}
	}
	if len(done) > 0 {
		logger.Warn().Int("reverted", len(done)).Msg("moves rolled back")
	}
}

// pruneEmpty removes the now-empty subfolder chain under root, deepest
// first, stopping at the first non-empty directory. Root itself is kept.
func (e *Engine) pruneEmpty(root, subfolder string) {
	if subfolder == "" {
		return
	}
	dir := subDir(root, subfolder)
	for dir != root && len(dir) > len(root) {
		entries, err := e.fs.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := e.fs.Remove(dir); err != nil {
			e.logger.Debug().Err(err).Str("dir", dir).Msg("could not remove empty folder")
			return
		}
		e.logger.Debug().Str("dir", dir).Msg("removed empty folder")
		dir = filepath.Dir(dir)
	}
}

type move struct {
	src string
	dst string
}

type moveLog []move

func (l moveLog) destinations() []string {
	out := make([]string, len(l))
	for i, m := range l {
		out[i] = m.dst
	}
	return out
}

func subDir(root, subfolder string) string {
	if subfolder == "" {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(subfolder))
}
