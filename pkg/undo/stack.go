// Package undo implements a bounded undo/redo stack of command objects.
//
// Actions hold entity identities only. Whenever they execute or undo they
// call back into a target that reconciles and re-resolves the current
// location of the entity, so history survives out-of-band file changes.
package undo

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/logging"
)

// DefaultMaxActions bounds the stack when no size is configured
const DefaultMaxActions = 50

// Action is a reversible user operation
type Action interface {
	Execute() error
	Undo() error
	Description() string
}

// HistoryItem describes one stacked action
type HistoryItem struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
	// Applied is false for actions that were undone and can be redone
	Applied bool `json:"applied"`
}

type record struct {
	id     string
	action Action
	at     time.Time
}

// Stack is a bounded undo history. current is the index of the last
// applied action, -1 when nothing can be undone. Pushing past the bound
// evicts the oldest action. Stack is not safe for concurrent use; callers
// serialise access.
type Stack struct {
	records     []record
	current     int
	max         int
	subscribers []func()
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStack creates an empty stack holding at most max actions
func NewStack(max int) *Stack {
	if max <= 0 {
		max = DefaultMaxActions
	}
	return &Stack{
		current: -1,
		max:     max,
		logger:  logging.GetLogger("undo"),
		now:     time.Now,
	}
}

// Push executes the action and, on success, records it. Redo history past
// the current position is discarded. A failed action is not recorded.
func (s *Stack) Push(a Action) error {
	if err := a.Execute(); err != nil {
		s.logger.Warn().Err(err).Str("action", a.Description()).Msg("action failed, not recorded")
		return err
	}

	s.records = append(s.records[:s.current+1], record{
		id:     uuid.NewString(),
		action: a,
		at:     s.now(),
	})
	s.current++

	if len(s.records) > s.max {
		evicted := s.records[0]
		s.records = append([]record(nil), s.records[1:]...)
		s.current--
		s.logger.Debug().Str("action", evicted.action.Description()).Msg("evicted oldest action")
	}

	s.logger.Debug().Str("action", a.Description()).Int("depth", s.current+1).Msg("action recorded")
	s.notify()
	return nil
}

// Undo reverts the current action. The position only moves on success.
func (s *Stack) Undo() error {
	if !s.CanUndo() {
		return errors.New(errors.ErrInvalidInput, "nothing to undo")
	}
	r := s.records[s.current]
	if err := r.action.Undo(); err != nil {
		s.logger.Warn().Err(err).Str("action", r.action.Description()).Msg("undo failed")
		return errors.Wrapf(err, errors.GetErrorCode(err), "undo %s failed", r.action.Description())
	}
	s.current--
	s.logger.Info().Str("action", r.action.Description()).Msg("undone")
	s.notify()
	return nil
}

// Redo re-applies the next undone action. The position only moves on success.
func (s *Stack) Redo() error {
	if !s.CanRedo() {
		return errors.New(errors.ErrInvalidInput, "nothing to redo")
	}
	r := s.records[s.current+1]
	if err := r.action.Execute(); err != nil {
		s.logger.Warn().Err(err).Str("action", r.action.Description()).Msg("redo failed")
		return errors.Wrapf(err, errors.GetErrorCode(err), "redo %s failed", r.action.Description())
	}
	s.current++
	s.logger.Info().Str("action", r.action.Description()).Msg("redone")
	s.notify()
	return nil
}

// CanUndo reports whether an applied action exists
func (s *Stack) CanUndo() bool {
	return s.current >= 0
}

// CanRedo reports whether an undone action exists
func (s *Stack) CanRedo() bool {
	return s.current+1 < len(s.records)
}

// UndoText describes what Undo would revert
func (s *Stack) UndoText() string {
	if !s.CanUndo() {
		return ""
	}
	return "Undo " + s.records[s.current].action.Description()
}

// RedoText describes what Redo would re-apply
func (s *Stack) RedoText() string {
	if !s.CanRedo() {
		return ""
	}
	return "Redo " + s.records[s.current+1].action.Description()
}

// Len returns the number of recorded actions, applied or not
func (s *Stack) Len() int {
	return len(s.records)
}

// History lists recorded actions, oldest first
func (s *Stack) History() []HistoryItem {
	items := make([]HistoryItem, len(s.records))
	for i, r := range s.records {
		items[i] = HistoryItem{
			ID:          r.id,
			Description: r.action.Description(),
			At:          r.at,
			Applied:     i <= s.current,
		}
	}
	return items
}

// Clear drops every recorded action
func (s *Stack) Clear() {
	s.records = nil
	s.current = -1
	s.notify()
}

// Subscribe registers fn to run after every change of the stack
func (s *Stack) Subscribe(fn func()) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Stack) notify() {
	for _, fn := range s.subscribers {
		fn()
	}
}
