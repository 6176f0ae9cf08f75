package undo

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// ToggleTarget re-resolves entries and moves them. CheckActive reports
// the error SetActive would fail with before it moves anything.
type ToggleTarget interface {
	Reconcile() error
	CheckActive(id types.EntryID, active bool) error
	SetActive(id types.EntryID, active bool) error
}

// MetadataTarget edits per-entry display data
type MetadataTarget interface {
	SetDisplay(id types.EntryID, display string) error
	SetGroup(id types.EntryID, group string) error
}

// LoadOrderTarget replaces the plugin load order
type LoadOrderTarget interface {
	WriteLoadOrder(order []string) error
}

// ToggleAction switches one entry between states
type ToggleAction struct {
	target ToggleTarget
	ID     types.EntryID
	Old    bool
	New    bool
}

// NewToggleAction creates a ToggleAction
func NewToggleAction(target ToggleTarget, id types.EntryID, old, new bool) *ToggleAction {
	return &ToggleAction{target: target, ID: id, Old: old, New: new}
}

func (a *ToggleAction) Execute() error {
	return a.apply(a.New)
}

func (a *ToggleAction) Undo() error {
	return a.apply(a.Old)
}

func (a *ToggleAction) apply(state bool) error {
	if err := a.target.Reconcile(); err != nil {
		return err
	}
	return a.target.SetActive(a.ID, state)
}

func (a *ToggleAction) Description() string {
	return fmt.Sprintf("%s %s", verb(a.New), a.ID.Name)
}

// Change is one member of a bulk toggle
type Change struct {
	ID  types.EntryID
	Old bool
	New bool
}

func (c Change) state(forward bool) bool {
	if forward {
		return c.New
	}
	return c.Old
}

// MemberError is the failure of one bulk member
type MemberError struct {
	ID  types.EntryID
	Err error
}

// BulkError lists the members of a bulk toggle that failed
type BulkError struct {
	Total    int
	Failures []MemberError
}

func (e *BulkError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = fmt.Sprintf("%s: %v", f.ID.Name, f.Err)
	}
	return fmt.Sprintf("%d of %d failed (%s)", len(e.Failures), e.Total, strings.Join(names, "; "))
}

// BulkToggleAction applies several toggles as one history step.
//
// The first execute applies every member and fails if any member fails;
// members that succeeded stay applied and the action is not recorded.
// Undo and redo are all-or-nothing: every member is checked before any
// moves, and when a member still fails the members already switched are
// switched back. Failed switch-backs are listed in the returned BulkError.
type BulkToggleAction struct {
	target   ToggleTarget
	Changes  []Change
	executed bool
}

// NewBulkToggleAction creates a BulkToggleAction
func NewBulkToggleAction(target ToggleTarget, changes []Change) *BulkToggleAction {
	return &BulkToggleAction{target: target, Changes: append([]Change(nil), changes...)}
}

func (a *BulkToggleAction) Execute() error {
	if err := a.target.Reconcile(); err != nil {
		return err
	}
	if a.executed {
		return a.applyAll(true)
	}

	bulk := &BulkError{Total: len(a.Changes)}
	for _, c := range a.Changes {
		if err := a.target.SetActive(c.ID, c.New); err != nil {
			bulk.Failures = append(bulk.Failures, MemberError{ID: c.ID, Err: err})
		}
	}
	if len(bulk.Failures) > 0 {
		return errors.Wrap(bulk, errors.GetErrorCode(bulk.Failures[0].Err), "bulk toggle incomplete")
	}
	a.executed = true
	return nil
}

func (a *BulkToggleAction) Undo() error {
	if err := a.target.Reconcile(); err != nil {
		return err
	}
	return a.applyAll(false)
}

// applyAll moves every member to its new (forward) or old state
func (a *BulkToggleAction) applyAll(forward bool) error {
	bulk := &BulkError{Total: len(a.Changes)}
	for _, c := range a.Changes {
		if err := a.target.CheckActive(c.ID, c.state(forward)); err != nil {
			bulk.Failures = append(bulk.Failures, MemberError{ID: c.ID, Err: err})
		}
	}
	if len(bulk.Failures) > 0 {
		return errors.Wrap(bulk, errors.GetErrorCode(bulk.Failures[0].Err), "bulk toggle refused")
	}

	for i, c := range a.Changes {
		err := a.target.SetActive(c.ID, c.state(forward))
		if err == nil {
			continue
		}
		bulk.Failures = append(bulk.Failures, MemberError{ID: c.ID, Err: err})
		for j := i - 1; j >= 0; j-- {
			prev := a.Changes[j]
			if rerr := a.target.SetActive(prev.ID, prev.state(!forward)); rerr != nil {
				bulk.Failures = append(bulk.Failures, MemberError{ID: prev.ID, Err: fmt.Errorf("switch back: %w", rerr)})
			}
		}
		return errors.Wrapf(bulk, errors.GetErrorCode(err), "bulk toggle stopped at %s", c.ID.Name).
			WithDetail("id", c.ID.String())
	}
	return nil
}

func (a *BulkToggleAction) Description() string {
	enable := 0
	for _, c := range a.Changes {
		if c.New {
			enable++
		}
	}
	switch enable {
	case len(a.Changes):
		return fmt.Sprintf("Enable %d entries", enable)
	case 0:
		return fmt.Sprintf("Disable %d entries", len(a.Changes))
	}
	return fmt.Sprintf("Toggle %d entries", len(a.Changes))
}

// RenameAction changes the display name of an entry
type RenameAction struct {
	target MetadataTarget
	ID     types.EntryID
	Old    string
	New    string
}

// NewRenameAction creates a RenameAction
func NewRenameAction(target MetadataTarget, id types.EntryID, old, new string) *RenameAction {
	return &RenameAction{target: target, ID: id, Old: old, New: new}
}

func (a *RenameAction) Execute() error { return a.target.SetDisplay(a.ID, a.New) }
func (a *RenameAction) Undo() error    { return a.target.SetDisplay(a.ID, a.Old) }

func (a *RenameAction) Description() string {
	return fmt.Sprintf("Rename %s to %q", a.ID.Name, a.New)
}

// GroupChangeAction moves an entry to another display group
type GroupChangeAction struct {
	target MetadataTarget
	ID     types.EntryID
	Old    string
	New    string
}

// NewGroupChangeAction creates a GroupChangeAction
func NewGroupChangeAction(target MetadataTarget, id types.EntryID, old, new string) *GroupChangeAction {
	return &GroupChangeAction{target: target, ID: id, Old: old, New: new}
}

func (a *GroupChangeAction) Execute() error { return a.target.SetGroup(a.ID, a.New) }
func (a *GroupChangeAction) Undo() error    { return a.target.SetGroup(a.ID, a.Old) }

func (a *GroupChangeAction) Description() string {
	if a.New == "" {
		return fmt.Sprintf("Ungroup %s", a.ID.Name)
	}
	return fmt.Sprintf("Move %s to group %s", a.ID.Name, a.New)
}

// LoadOrderAction replaces the whole load order sequence
type LoadOrderAction struct {
	target LoadOrderTarget
	Before []string
	After  []string
}

// NewLoadOrderAction creates a LoadOrderAction
func NewLoadOrderAction(target LoadOrderTarget, before, after []string) *LoadOrderAction {
	return &LoadOrderAction{
		target: target,
		Before: append([]string(nil), before...),
		After:  append([]string(nil), after...),
	}
}

func (a *LoadOrderAction) Execute() error { return a.target.WriteLoadOrder(a.After) }
func (a *LoadOrderAction) Undo() error    { return a.target.WriteLoadOrder(a.Before) }

func (a *LoadOrderAction) Description() string {
	return fmt.Sprintf("Change load order (%d plugins)", len(a.After))
}

func verb(active bool) string {
	if active {
		return "Enable"
	}
	return "Disable"
}
