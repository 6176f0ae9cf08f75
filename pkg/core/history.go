package core

import (
	"github.com/arthur-debert/modshelf/pkg/undo"
)

// UndoState summarises what undo and redo would do
type UndoState struct {
	CanUndo  bool   `json:"can_undo"`
	CanRedo  bool   `json:"can_redo"`
	UndoText string `json:"undo_text,omitempty"`
	RedoText string `json:"redo_text,omitempty"`
}

// Undo reverts the most recent applied action
func (m *Manager) Undo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.Undo()
}

// Redo re-applies the most recent undone action
func (m *Manager) Redo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.Redo()
}

// History lists recorded actions, oldest first
func (m *Manager) History() []undo.HistoryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.History()
}

// UndoState reports the undo and redo availability
func (m *Manager) UndoState() UndoState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return UndoState{
		CanUndo:  m.stack.CanUndo(),
		CanRedo:  m.stack.CanRedo(),
		UndoText: m.stack.UndoText(),
		RedoText: m.stack.RedoText(),
	}
}

// ClearHistory drops every recorded action
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stack.Clear()
}

// OnHistoryChange registers fn to run after every history change
func (m *Manager) OnHistoryChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stack.Subscribe(fn)
}
