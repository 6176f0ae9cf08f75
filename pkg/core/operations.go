package core

import (
	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/metadata"
	"github.com/arthur-debert/modshelf/pkg/types"
	"github.com/arthur-debert/modshelf/pkg/undo"
)

// ToggleRequest asks for one entry to end up active or disabled
type ToggleRequest struct {
	ID     types.EntryID
	Active bool
}

// Toggle moves an entry to the wanted state and records it for undo.
// Asking for the current state is a no-op and records nothing.
func (m *Manager) Toggle(id types.EntryID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.target.reconcile(); err != nil {
		return err
	}
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	if e.Active == active {
		return nil
	}
	return m.stack.Push(undo.NewToggleAction(m.target, id, e.Active, active))
}

// ToggleMany applies several toggles as one undoable step. Unknown ids
// fail the whole request before anything moves. When some members fail,
// the others stay applied and nothing is recorded.
func (m *Manager) ToggleMany(reqs []ToggleRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.target.reconcile(); err != nil {
		return err
	}

	var changes []undo.Change
	seen := make(map[types.EntryID]bool)
	for _, r := range reqs {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		e, err := m.lookup(r.ID)
		if err != nil {
			return err
		}
		if e.Active != r.Active {
			changes = append(changes, undo.Change{ID: r.ID, Old: e.Active, New: r.Active})
		}
	}

	switch len(changes) {
	case 0:
		return nil
	case 1:
		c := changes[0]
		return m.stack.Push(undo.NewToggleAction(m.target, c.ID, c.Old, c.New))
	}
	return m.stack.Push(undo.NewBulkToggleAction(m.target, changes))
}

// AddEntry copies a file (and its sidecars) into a category and catalogs it
func (m *Manager) AddEntry(category, source, subfolder string) (types.ManagedEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if category == "" {
		category = m.cfg.DefaultCategory
	}
	if _, err := m.target.reconcile(); err != nil {
		return types.ManagedEntry{}, err
	}
	return m.engine.Add(category, source, subfolder)
}

// RemoveEntry deletes an entry's files and catalog record. The removal is
// undoable when the files fit in the snapshot limit; the returned flag
// tells whether it was recorded. A failed removal leaves the entry as it was.
func (m *Manager) RemoveEntry(id types.EntryID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.target.reconcile(); err != nil {
		return false, err
	}
	e, err := m.lookup(id)
	if err != nil {
		return false, err
	}

	snap, err := undo.Capture(m.fs, e.Files, m.cfg.Undo.SnapshotMaxBytes)
	if err != nil {
		if !errors.IsErrorCode(err, errors.ErrTooLarge) {
			return false, err
		}
		m.logger.Warn().Err(err).Str("id", id.String()).Msg("entry too large to snapshot, removal cannot be undone")
		if err := m.engine.Remove(id); err != nil {
			return false, err
		}
		if err := m.meta.Forget(id); err != nil {
			m.logger.Warn().Err(err).Str("id", id.String()).Msg("could not drop display data of removed entry")
		}
		return false, nil
	}

	if err := m.stack.Push(undo.NewRemoveAction(m.target, m.fs, e, snap)); err != nil {
		return false, err
	}
	return true, nil
}

// Rename sets the display name of an entry. An empty name clears it.
func (m *Manager) Rename(id types.EntryID, display string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.target.reconcile(); err != nil {
		return err
	}
	if _, err := m.lookup(id); err != nil {
		return err
	}
	old := m.meta.Get(id).Display
	if old == display {
		return nil
	}
	return m.stack.Push(undo.NewRenameAction(m.target, id, old, display))
}

// SetGroup moves an entry to a display group. An empty group ungroups.
func (m *Manager) SetGroup(id types.EntryID, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.target.reconcile(); err != nil {
		return err
	}
	if _, err := m.lookup(id); err != nil {
		return err
	}
	old := m.meta.Get(id).Group
	if old == metadata.NormalizeGroup(group) {
		return nil
	}
	return m.stack.Push(undo.NewGroupChangeAction(m.target, id, old, group))
}

// SetTag stores a free-form note on an entry. An empty value clears it.
func (m *Manager) SetTag(id types.EntryID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key == "" {
		return errors.New(errors.ErrInvalidInput, "tag name is empty")
	}
	if _, err := m.target.reconcile(); err != nil {
		return err
	}
	if _, err := m.lookup(id); err != nil {
		return err
	}
	return m.meta.SetFlag(id, key, value)
}

// Groups lists the display groups in use
func (m *Manager) Groups() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta.Groups()
}

// LoadOrder returns the current plugin order
func (m *Manager) LoadOrder() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Read()
}

// AvailablePlugins lists plugin files present in the data folder
func (m *Manager) AvailablePlugins() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Available()
}

// MissingPlugins returns the listed plugins that have no file on disk
func (m *Manager) MissingPlugins(order []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Missing(order)
}

// SetLoadOrder replaces the plugin order
func (m *Manager) SetLoadOrder(order []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	before, err := m.order.Read()
	if err != nil {
		return err
	}
	return m.stack.Push(undo.NewLoadOrderAction(m.target, before, order))
}
