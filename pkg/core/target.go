package core

import (
	"github.com/arthur-debert/modshelf/pkg/reconcile"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// target is what undo actions call back into. Its methods assume the
// Manager lock is already held by the operation that runs the action.
type target struct {
	m *Manager
}

func (t *target) reconcile() (reconcile.Report, error) {
	t.m.layout.Invalidate()
	return t.m.rec.Run()
}

func (t *target) Reconcile() error {
	_, err := t.reconcile()
	return err
}

func (t *target) CheckActive(id types.EntryID, active bool) error {
	return t.m.engine.Check(id, active)
}

func (t *target) SetActive(id types.EntryID, active bool) error {
	return t.m.engine.SetActive(id, active)
}

func (t *target) SetDisplay(id types.EntryID, display string) error {
	return t.m.meta.SetDisplay(id, display)
}

func (t *target) SetGroup(id types.EntryID, group string) error {
	return t.m.meta.SetGroup(id, group)
}

func (t *target) WriteLoadOrder(order []string) error {
	return t.m.order.Write(order)
}

func (t *target) RemoveEntry(id types.EntryID) error {
	if err := t.Reconcile(); err != nil {
		return err
	}
	return t.m.engine.Remove(id)
}

// RestoreEntry catalogs e before reconciling, so the scan finds it known
// and keeps its recorded fields.
func (t *target) RestoreEntry(e types.ManagedEntry) error {
	if err := t.m.engine.Restore(e); err != nil {
		return err
	}
	return t.Reconcile()
}
