// Package command records reversible mutations on two linear stacks and
// binds undo and redo to keyboard chords.
package command

import (
	"errors"

	"github.com/inamate/whiteboard/internal/element"
)

// Command is one reversible mutation.
type Command interface {
	Undo() error
	Redo() error
}

// Func builds a command from two closures. A nil closure succeeds.
type Func struct {
	UndoFn func() error
	RedoFn func() error
}

func New(undo, redo func() error) Func {
	return Func{UndoFn: undo, RedoFn: redo}
}

func (f Func) Undo() error {
	if f.UndoFn == nil {
		return nil
	}
	return f.UndoFn()
}

func (f Func) Redo() error {
	if f.RedoFn == nil {
		return nil
	}
	return f.RedoFn()
}

// Batch runs its commands as one: redo in order, undo in reverse. When a
// step fails the steps already run are reversed, so a failed batch leaves
// things as it found them and can be retried.
type Batch []Command

func (b Batch) Undo() error {
	for i := len(b) - 1; i >= 0; i-- {
		if err := b[i].Undo(); err != nil {
			return errors.Join(err, b[i+1:].Redo())
		}
	}
	return nil
}

func (b Batch) Redo() error {
	for i, c := range b {
		if err := c.Redo(); err != nil {
			return errors.Join(err, b[:i].Undo())
		}
	}
	return nil
}

// ElementStore is where element commands add and remove elements.
type ElementStore interface {
	// Insert registers el as is, keeping its id.
	Insert(el *element.Element) error
	// Delete unregisters the element with the given id.
	Delete(id string) error
}

// ErrNilElement is returned by element commands built without an element.
var ErrNilElement = errors.New("command: nil element")

type addElement struct {
	store ElementStore
	el    *element.Element
}

// AddElement records the creation of el. Undo deletes it by id; redo puts
// back the very same element, so references captured by other commands stay
// valid.
func AddElement(store ElementStore, el *element.Element) Command {
	return &addElement{store: store, el: el}
}

func (c *addElement) Undo() error {
	if c.el == nil {
		return ErrNilElement
	}
	return c.store.Delete(c.el.ID())
}

func (c *addElement) Redo() error {
	if c.el == nil {
		return ErrNilElement
	}
	return c.store.Insert(c.el)
}

// RemoveElement records the removal of el; it is AddElement reversed.
func RemoveElement(store ElementStore, el *element.Element) Command {
	add := &addElement{store: store, el: el}
	return New(add.Redo, add.Undo)
}
