// Package reconcile brings the catalog in line with what is on disk. Disk
// is the ground truth: location fields are overwritten from it, unknown
// entries are appended and vanished ones are dropped. The catalog is saved
// only when something changed.
package reconcile

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/registry"
	"github.com/arthur-debert/modshelf/pkg/scan"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// Report describes what a reconcile pass changed
type Report struct {
	Added   []types.EntryID `json:"added,omitempty"`
	Updated []types.EntryID `json:"updated,omitempty"`
	Removed []types.EntryID `json:"removed,omitempty"`
	// Duplicates were found both active and disabled; the active copy won
	Duplicates []types.EntryID `json:"duplicates,omitempty"`
	// Missing categories have no active root in this install
	Missing []string `json:"missing,omitempty"`
}

// Changed reports whether the catalog was modified
func (r Report) Changed() bool {
	return len(r.Added)+len(r.Updated)+len(r.Removed) > 0
}

// Reconciler merges scan results into the catalog
type Reconciler struct {
	store   *registry.Store
	scanner *scan.Scanner
	logger  zerolog.Logger
}

// New creates a Reconciler
func New(store *registry.Store, scanner *scan.Scanner) *Reconciler {
	return &Reconciler{store: store, scanner: scanner, logger: logging.GetLogger("reconcile")}
}

// Reconcile returns true when the catalog changed. The error is only set
// when persisting the change failed.
func (r *Reconciler) Reconcile() (bool, error) {
	report, err := r.Run()
	return report.Changed(), err
}

// Run reconciles and reports the individual changes.
func (r *Reconciler) Run() (Report, error) {
	defer logging.LogOperationStart(r.logger, "reconcile")()

	cat, status := r.store.Load()
	res := r.scanner.ScanAll()

	report := Report{Missing: res.Missing}
	disk, order := r.index(res.Entries, &report)

	// 2. overwrite location fields of known entries
	known := make(map[types.EntryID]bool, cat.Len())
	kept := cat.Entries[:0]
	for _, e := range cat.Entries {
		id := e.ID()
		found, ok := disk[id]
		if !ok {
			if underAny(e.Files, res.Skipped) {
				// unreadable this time, not gone
				kept = append(kept, e)
				known[id] = true
				continue
			}
			// 4. vanished
			report.Removed = append(report.Removed, id)
			r.logger.Info().Str("id", id.String()).Msg("removing entry no longer on disk")
			continue
		}
		known[id] = true
		if !sameLocation(e, found) {
			e.Files = found.Files
			e.Extensions = found.Extensions
			e.Active = found.Active
			e.BaseName = found.BaseName
			report.Updated = append(report.Updated, id)
			r.logger.Info().Str("id", id.String()).Bool("active", e.Active).Msg("updating entry from disk")
		}
		kept = append(kept, e)
	}
	cat.Entries = kept

	// 3. append unknown entries in scan order
	for _, id := range order {
		if known[id] {
			continue
		}
		cat.Entries = append(cat.Entries, disk[id])
		report.Added = append(report.Added, id)
		r.logger.Info().Str("id", id.String()).Bool("active", disk[id].Active).Msg("adding entry found on disk")
	}

	// 5. persist on change; a corrupt catalog is rewritten even if empty
	if report.Changed() || (status == registry.LoadCorrupt && cat.Len() == 0) {
		if err := r.store.Save(cat); err != nil {
			return report, errors.Wrap(err, errors.ErrIOFailure, "failed to persist reconciled catalog")
		}
	}

	r.logger.Debug().
		Int("added", len(report.Added)).
		Int("updated", len(report.Updated)).
		Int("removed", len(report.Removed)).
		Msg("reconcile finished")

	return report, nil
}

// index keys scan results by identity. When one identity is both active
// and disabled the active copy wins.
func (r *Reconciler) index(entries []types.ManagedEntry, report *Report) (map[types.EntryID]types.ManagedEntry, []types.EntryID) {
	disk := make(map[types.EntryID]types.ManagedEntry, len(entries))
	var order []types.EntryID
	for _, e := range entries {
		id := e.ID()
		prev, dup := disk[id]
		if !dup {
			disk[id] = e
			order = append(order, id)
			continue
		}
		report.Duplicates = append(report.Duplicates, id)
		r.logger.Warn().
			Str("id", id.String()).
			Strs("active_files", pick(prev, e, true).Files).
			Strs("disabled_files", pick(prev, e, false).Files).
			Msg("entry present in both active and disabled roots, treating as active")
		disk[id] = pick(prev, e, true)
	}
	return disk, order
}

func pick(a, b types.ManagedEntry, active bool) types.ManagedEntry {
	if a.Active == active {
		return a
	}
	return b
}

func sameLocation(a, b types.ManagedEntry) bool {
	if a.Active != b.Active || len(a.Files) != len(b.Files) {
		return false
	}
	for i := range a.Files {
		if a.Files[i] != b.Files[i] {
			return false
		}
	}
	return strings.Join(a.Extensions, ",") == strings.Join(b.Extensions, ",")
}

func underAny(files, dirs []string) bool {
	for _, f := range files {
		for _, d := range dirs {
			if rel, err := filepath.Rel(d, f); err == nil && !strings.HasPrefix(rel, "..") {
				return true
			}
		}
	}
	return false
}
