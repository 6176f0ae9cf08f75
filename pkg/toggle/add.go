package toggle

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/filesystem"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// Add copies a primary file and its same-base-name sidecars from the
// source directory into the category's active root, under subfolder, and
// catalogs the new entry. Nothing is left behind on failure.
func (e *Engine) Add(category, source, subfolder string) (types.ManagedEntry, error) {
	cfg, err := e.layout.Category(category)
	if err != nil {
		return types.ManagedEntry{}, err
	}

	name := filepath.Base(source)
	if !strings.EqualFold(filepath.Ext(name), cfg.PrimaryExt) {
		return types.ManagedEntry{}, errors.Newf(errors.ErrInvalidInput,
			"%s is not a %s file", name, cfg.PrimaryExt).WithDetail("source", source)
	}
	info, err := e.fs.Stat(source)
	if err != nil {
		return types.ManagedEntry{}, errors.Wrapf(err, errors.ErrNotFound, "source %s not found", source).
			WithDetail("source", source)
	}
	if info.IsDir() {
		return types.ManagedEntry{}, errors.Newf(errors.ErrInvalidInput, "source %s is a directory", source).
			WithDetail("source", source)
	}

	id := types.EntryID{Category: category, Subfolder: types.NormalizeSubfolder(subfolder), Name: name}
	if err := id.Validate(); err != nil {
		return types.ManagedEntry{}, errors.Wrap(err, errors.ErrInvalidIdentity, "invalid entry identity")
	}

	cat, _ := e.store.Load()
	if _, exists := cat.Get(id); exists {
		return types.ManagedEntry{}, errors.Newf(errors.ErrInvalidIdentity, "entry %s already exists", id).
			WithDetail("id", id.String())
	}

	roots, err := e.layout.Roots(category)
	if err != nil {
		return types.ManagedEntry{}, err
	}

	sources, err := e.relatedFiles(source, cfg.PrimaryExt)
	if err != nil {
		return types.ManagedEntry{}, err
	}

	destDir := subDir(roots.Active, id.Subfolder)
	copies := make(moveLog, 0, len(sources))
	for _, src := range sources {
		copies = append(copies, move{src: src, dst: filepath.Join(destDir, filepath.Base(src))})
	}
	if err := e.checkDestinations(id, copies); err != nil {
		return types.ManagedEntry{}, err
	}
	// the same identity in the disabled root would collide on reconcile
	if _, err := e.fs.Lstat(filepath.Join(subDir(roots.Disabled, id.Subfolder), name)); err == nil {
		return types.ManagedEntry{}, errors.Newf(errors.ErrConflict, "%s already exists in the disabled folder", name).
			WithDetail("id", id.String())
	}

	if err := e.fs.MkdirAll(destDir, 0755); err != nil {
		return types.ManagedEntry{}, errors.Wrapf(err, errors.ErrIOFailure, "failed to create %s", destDir)
	}

	var copied []string
	undo := func() {
		for i := len(copied) - 1; i >= 0; i-- {
			if err := e.fs.Remove(copied[i]); err != nil && !os.IsNotExist(err) {
				e.logger.Error().Err(err).Str("file", copied[i]).Msg("failed to remove copied file")
			}
		}
		e.pruneEmpty(roots.Active, id.Subfolder)
	}

	for _, c := range copies {
		if err := filesystem.CopyFile(e.fs, c.src, c.dst); err != nil {
			undo()
			return types.ManagedEntry{}, errors.Wrapf(err, errors.ErrIOFailure, "failed to copy %s", filepath.Base(c.src)).
				WithDetail("id", id.String()).
				WithDetail("file", c.src)
		}
		copied = append(copied, c.dst)
	}

	installed := e.now().UTC().Truncate(time.Second)
	primary := filepath.Join(destDir, name)
	files := types.OrderFiles(primary, copies.destinations())
	entry := types.ManagedEntry{
		Name:          name,
		BaseName:      types.BaseName(name),
		Files:         files,
		Extensions:    types.ExtensionsOf(files),
		Subfolder:     id.Subfolder,
		Active:        true,
		Category:      category,
		InstalledDate: &installed,
		Flags:         map[string]string{"source": filepath.Dir(source)},
	}

	if err := cat.Add(entry); err != nil {
		undo()
		return types.ManagedEntry{}, err
	}
	if err := e.store.Save(cat); err != nil {
		undo()
		return types.ManagedEntry{}, errors.Wrapf(err, errors.ErrIOFailure, "failed to record %s", id).
			WithDetail("id", id.String())
	}

	e.logger.Info().Str("id", id.String()).Strs("files", files).Msg("entry added")
	return entry, nil
}

// relatedFiles returns the primary plus every file in its directory sharing
// its base name, excluding other primaries.
func (e *Engine) relatedFiles(primary, primaryExt string) ([]string, error) {
	dir := filepath.Dir(primary)
	base := types.BaseName(filepath.Base(primary))

	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to read %s", dir)
	}

	files := []string{primary}
	for _, de := range entries {
		if !de.Type().IsRegular() {
			continue
		}
		n := de.Name()
		if types.BaseName(n) == base && !strings.EqualFold(filepath.Ext(n), primaryExt) {
			files = append(files, filepath.Join(dir, n))
		}
	}
	return types.OrderFiles(primary, files), nil
}
