package command

import (
	"fmt"
	"log/slog"

	"github.com/inamate/whiteboard/internal/observable"
)

// History summarises the stacks for listeners.
type History struct {
	UndoLen int `json:"undo"`
	RedoLen int `json:"redo"`
}

type Options struct {
	// Limit caps the undo stack; the oldest entries are dropped. 0 means
	// unlimited.
	Limit int
	// UndoChord and RedoChord are used by Listen. Zero values fall back to
	// ctrl+z and ctrl+y.
	UndoChord Chord
	RedoChord Chord
	Logger    *slog.Logger
}

// Manager keeps linear undo/redo history. Failing commands are logged and
// left where they were so a later retry is possible; nothing is surfaced to
// the caller beyond a boolean. It is not safe for concurrent use.
type Manager struct {
	undo  []Command
	redo  []Command
	limit int

	undoChord Chord
	redoChord Chord
	bindings  map[int]func()
	nextBind  int

	history *observable.Value[History]
	log     *slog.Logger
}

func NewManager(opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.UndoChord.IsZero() {
		opts.UndoChord = Chord{Key: "z", Ctrl: true}
	}
	if opts.RedoChord.IsZero() {
		opts.RedoChord = Chord{Key: "y", Ctrl: true}
	}
	return &Manager{
		limit:     max(opts.Limit, 0),
		undoChord: opts.UndoChord,
		redoChord: opts.RedoChord,
		bindings:  make(map[int]func()),
		history:   observable.NewValue(History{}),
		log:       log,
	}
}

// AddCommand pushes cmd and clears the redo stack.
func (m *Manager) AddCommand(cmd Command) {
	if cmd == nil {
		return
	}
	m.undo = append(m.undo, cmd)
	if m.limit > 0 && len(m.undo) > m.limit {
		drop := len(m.undo) - m.limit
		clear(m.undo[:drop])
		m.undo = m.undo[drop:]
	}
	clear(m.redo)
	m.redo = m.redo[:0]
	m.notify()
}

// Undo reverts the newest command. It reports whether a command moved to
// the redo stack.
func (m *Manager) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	top := m.undo[len(m.undo)-1]
	if !m.run("undo", top.Undo) {
		return false
	}
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, top)
	m.notify()
	return true
}

// Redo reapplies the newest undone command. It reports whether a command
// moved back to the undo stack.
func (m *Manager) Redo() bool {
	if len(m.redo) == 0 {
		return false
	}
	top := m.redo[len(m.redo)-1]
	if !m.run("redo", top.Redo) {
		return false
	}
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, top)
	m.notify()
	return true
}

// run executes fn, converting both errors and panics into a warning.
func (m *Manager) run(op string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn("command panicked", "op", op, "panic", fmt.Sprint(r))
			ok = false
		}
	}()
	if err := fn(); err != nil {
		m.log.Warn("command failed", "op", op, "error", err)
		return false
	}
	return true
}

func (m *Manager) UndoLen() int { return len(m.undo) }
func (m *Manager) RedoLen() int { return len(m.redo) }

func (m *Manager) History() History {
	return History{UndoLen: len(m.undo), RedoLen: len(m.redo)}
}

// Clear empties both stacks.
func (m *Manager) Clear() {
	m.undo, m.redo = nil, nil
	m.notify()
}

// Subscribe registers fn for every stack change.
func (m *Manager) Subscribe(fn func(History)) (unsubscribe func()) {
	return m.history.Subscribe(fn)
}

func (m *Manager) notify() {
	m.history.Set(m.History())
}
