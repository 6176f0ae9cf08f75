// Package scan reads the on-disk ground truth of every category: which
// primary files exist, which sidecars belong to them, and whether they sit
// in the active or the disabled root.
package scan

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/config"
	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/layout"
	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// Result is the outcome of scanning every category
type Result struct {
	Entries []types.ManagedEntry
	// Missing lists categories whose active root does not exist
	Missing []string
	// Skipped lists directories that could not be read
	Skipped []string
}

// Scanner walks category roots
type Scanner struct {
	fs     types.FS
	layout *layout.Layout
	logger zerolog.Logger
}

// New creates a Scanner
func New(fsys types.FS, l *layout.Layout) *Scanner {
	return &Scanner{fs: fsys, layout: l, logger: logging.GetLogger("scan")}
}

// ScanAll scans every configured category. Categories that are not present
// in the install contribute nothing.
func (s *Scanner) ScanAll() Result {
	var res Result
	for _, name := range s.layout.Categories() {
		entries, skipped, err := s.scanCategory(name)
		res.Skipped = append(res.Skipped, skipped...)
		if err != nil {
			s.logger.Debug().Err(err).Str("category", name).Msg("category not present")
			res.Missing = append(res.Missing, name)
			continue
		}
		res.Entries = append(res.Entries, entries...)
	}
	return res
}

// ScanCategory scans one category. NOT_FOUND is returned when its active
// root cannot be resolved.
func (s *Scanner) ScanCategory(name string) ([]types.ManagedEntry, error) {
	entries, _, err := s.scanCategory(name)
	return entries, err
}

func (s *Scanner) scanCategory(name string) ([]types.ManagedEntry, []string, error) {
	cat, err := s.layout.Category(name)
	if err != nil {
		return nil, nil, err
	}
	roots, err := s.layout.Roots(name)
	if err != nil {
		return nil, nil, err
	}

	w := &walker{scanner: s, category: name, cfg: cat}
	skipDir := ""
	if roots.NestedDisabled {
		skipDir = roots.Disabled
	}
	w.walk(roots.Active, "", true, skipDir)
	if _, err := s.fs.Stat(roots.Disabled); err == nil {
		w.walk(roots.Disabled, "", false, "")
	}

	s.logger.Debug().
		Str("category", name).
		Int("entries", len(w.entries)).
		Int("skipped", len(w.skipped)).
		Msg("category scanned")

	return w.entries, w.skipped, nil
}

type walker struct {
	scanner  *Scanner
	category string
	cfg      config.Category
	entries  []types.ManagedEntry
	skipped  []string
}

func (w *walker) walk(dir, subfolder string, active bool, skipDir string) {
	dirEntries, err := w.scanner.fs.ReadDir(dir)
	if err != nil {
		w.scanner.logger.Debug().Err(err).Str("path", dir).Msg("skipping unreadable directory")
		w.skipped = append(w.skipped, dir)
		return
	}

	var files, dirs []string
	for _, e := range dirEntries {
		switch {
		case e.IsDir():
			if skipDir != "" && filepath.Join(dir, e.Name()) == skipDir {
				continue
			}
			dirs = append(dirs, e.Name())
		case e.Type().IsRegular():
			files = append(files, e.Name())
		}
	}

	w.entries = append(w.entries, w.group(dir, subfolder, active, files)...)

	for _, name := range dirs {
		w.walk(filepath.Join(dir, name), joinSub(subfolder, name), active, skipDir)
	}
}

// group turns the files of one directory into entries: one per primary
// file, with every other file sharing its base name as a sidecar.
func (w *walker) group(dir, subfolder string, active bool, files []string) []types.ManagedEntry {
	sort.Strings(files)

	var entries []types.ManagedEntry
	for _, name := range files {
		if !strings.EqualFold(filepath.Ext(name), w.cfg.PrimaryExt) {
			continue
		}
		if w.cfg.IsDenied(name) {
			w.scanner.logger.Debug().Str("file", name).Str("category", w.category).Msg("skipping stock file")
			continue
		}

		base := types.BaseName(name)
		primary := filepath.Join(dir, name)
		backing := []string{primary}
		for _, other := range files {
			if other != name && types.BaseName(other) == base && !strings.EqualFold(filepath.Ext(other), w.cfg.PrimaryExt) {
				backing = append(backing, filepath.Join(dir, other))
			}
		}
		backing = types.OrderFiles(primary, backing)

		entries = append(entries, types.ManagedEntry{
			Name:       name,
			BaseName:   base,
			Files:      backing,
			Extensions: types.ExtensionsOf(backing),
			Subfolder:  subfolder,
			Active:     active,
			Category:   w.category,
		})
	}
	return entries
}

func joinSub(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// IsNotFound reports whether err means a category is absent
func IsNotFound(err error) bool {
	return errors.IsErrorCode(err, errors.ErrNotFound)
}
