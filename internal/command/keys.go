package command

import (
	"fmt"
	"strings"
)

// KeyEvent is a key press as delivered by the host.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Shift bool   `json:"shift,omitempty"`
	Alt   bool   `json:"alt,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
}

// Chord is a key plus an exact modifier set.
type Chord struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
}

// ParseChord reads chords like "ctrl+z" or "ctrl+shift+Z".
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(strings.TrimSpace(s), "+")
	var c Chord
	for i, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if i == len(parts)-1 {
			if p == "" {
				return Chord{}, fmt.Errorf("chord %q: missing key", s)
			}
			c.Key = p
			break
		}
		switch p {
		case "ctrl", "control":
			c.Ctrl = true
		case "shift":
			c.Shift = true
		case "alt", "option":
			c.Alt = true
		case "meta", "cmd", "super":
			c.Meta = true
		default:
			return Chord{}, fmt.Errorf("chord %q: unknown modifier %q", s, p)
		}
	}
	return c, nil
}

// MustParseChord is ParseChord for constants.
func MustParseChord(s string) Chord {
	c, err := ParseChord(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Chord) IsZero() bool {
	return c == Chord{}
}

// Matches compares the key case-insensitively and the modifiers exactly.
func (c Chord) Matches(ev KeyEvent) bool {
	return strings.EqualFold(c.Key, ev.Key) &&
		c.Ctrl == ev.Ctrl && c.Shift == ev.Shift && c.Alt == ev.Alt && c.Meta == ev.Meta
}

func (c Chord) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	if c.Meta {
		parts = append(parts, "meta")
	}
	return strings.Join(append(parts, c.Key), "+")
}

// KeySource delivers key events to subscribers.
type KeySource interface {
	OnKey(fn func(KeyEvent)) (off func())
}

// KeyBus is an in-process KeySource the host pushes events into.
type KeyBus struct {
	next     int
	handlers map[int]func(KeyEvent)
	order    []int
}

func NewKeyBus() *KeyBus {
	return &KeyBus{handlers: make(map[int]func(KeyEvent))}
}

func (b *KeyBus) OnKey(fn func(KeyEvent)) (off func()) {
	b.next++
	id := b.next
	b.handlers[id] = fn
	b.order = append(b.order, id)
	return func() {
		if _, ok := b.handlers[id]; !ok {
			return
		}
		delete(b.handlers, id)
		for i, o := range b.order {
			if o == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Emit delivers ev to every handler in subscription order.
func (b *KeyBus) Emit(ev KeyEvent) {
	for _, id := range append([]int(nil), b.order...) {
		if fn, ok := b.handlers[id]; ok {
			fn(ev)
		}
	}
}

// Len returns the number of subscribed handlers.
func (b *KeyBus) Len() int {
	return len(b.handlers)
}

// Listen binds the undo and redo chords on src until the returned release
// function or Close is called.
func (m *Manager) Listen(src KeySource) (release func()) {
	off := src.OnKey(func(ev KeyEvent) {
		switch {
		case m.undoChord.Matches(ev):
			m.Undo()
		case m.redoChord.Matches(ev):
			m.Redo()
		}
	})
	m.nextBind++
	id := m.nextBind
	m.bindings[id] = off
	return func() {
		if off, ok := m.bindings[id]; ok {
			off()
			delete(m.bindings, id)
		}
	}
}

// Close releases every key binding installed by Listen.
func (m *Manager) Close() {
	for id, off := range m.bindings {
		off()
		delete(m.bindings, id)
	}
}
