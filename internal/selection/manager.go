// Package selection bridges elements and the spatial index and owns the
// current selection set.
package selection

import (
	"log/slog"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/observable"
	"github.com/inamate/whiteboard/internal/spatial"
	"github.com/inamate/whiteboard/internal/viewport"
)

// ViewportFunc resolves the active viewport. It may return a different
// viewport across calls when the host remounts its surface, or nil when
// there is none yet.
type ViewportFunc func() *viewport.Viewport

type Options struct {
	Viewport ViewportFunc
	// OnChange runs synchronously after every SetSelection.
	OnChange func(selected []*element.Element)
	Logger   *slog.Logger
}

// Manager owns the spatial index and the selection set.
// It is not safe for concurrent use.
type Manager struct {
	index     *spatial.Index
	viewport  ViewportFunc
	onChange  func([]*element.Element)
	selection *observable.Value[[]*element.Element]
	log       *slog.Logger
}

func NewManager(opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	vp := opts.Viewport
	if vp == nil {
		vp = func() *viewport.Viewport { return nil }
	}
	return &Manager{
		index:     spatial.New(),
		viewport:  vp,
		onChange:  opts.OnChange,
		selection: observable.NewValue[[]*element.Element](nil),
		log:       log,
	}
}

// worldBounds converts the element's rendered screen bounds to world space.
// Without a viewport or an attached node it falls back to the committed
// world bounds.
func (m *Manager) worldBounds(el *element.Element) geom.Bounds {
	vp := m.viewport()
	node := el.Node()
	if vp == nil || node == nil || !node.IsDescendantOf(vp.Root()) {
		return el.WorldBounds()
	}
	screen, ok := node.Bounds()
	if !ok {
		return el.WorldBounds()
	}
	return vp.BoundsToWorld(screen)
}

// AddElement registers el, replacing any previous entry for its id.
func (m *Manager) AddElement(el *element.Element) {
	if el == nil {
		return
	}
	m.index.Insert(spatial.Entry{Bounds: m.worldBounds(el), Element: el})
}

// AddElements registers many elements with a single bulk load.
func (m *Manager) AddElements(els []*element.Element) {
	entries := make([]spatial.Entry, 0, len(els))
	for _, el := range els {
		if el == nil {
			continue
		}
		entries = append(entries, spatial.Entry{Bounds: m.worldBounds(el), Element: el})
	}
	m.index.Load(entries)
	m.log.Debug("elements registered", "count", len(entries), "total", m.index.Len())
}

// RemoveElement unregisters el. Absent elements are ignored.
func (m *Manager) RemoveElement(el *element.Element) {
	m.index.Remove(el)
}

// RemoveID unregisters the element with the given id, if any.
func (m *Manager) RemoveID(id string) {
	m.index.RemoveID(id)
}

// Update re-synchronises the index entry of an already registered element
// after its committed geometry changed.
func (m *Manager) Update(el *element.Element) {
	if el == nil || !m.index.Contains(el.ID()) {
		return
	}
	m.index.RemoveID(el.ID())
	m.AddElement(el)
}

func (m *Manager) IsRegistered(id string) bool {
	return m.index.Contains(id)
}

// IndexedBounds returns the world box currently stored for id.
func (m *Manager) IndexedBounds(id string) (geom.Bounds, bool) {
	return m.index.Lookup(id)
}

// Len returns the number of registered elements.
func (m *Manager) Len() int {
	return m.index.Len()
}

// QueryRange returns every registered element intersecting the world box b.
// Without a viewport it returns nothing.
func (m *Manager) QueryRange(b geom.Bounds) []*element.Element {
	if m.viewport() == nil {
		return nil
	}
	return m.index.Query(b)
}

// SetSelection replaces the selection set. Duplicates are dropped keeping
// the first occurrence. The change callback and every subscriber run before
// SetSelection returns.
func (m *Manager) SetSelection(els []*element.Element) {
	seen := make(map[string]bool, len(els))
	next := make([]*element.Element, 0, len(els))
	for _, el := range els {
		if el == nil || seen[el.ID()] {
			continue
		}
		seen[el.ID()] = true
		next = append(next, el)
	}
	m.selection.Set(next)
	if m.onChange != nil {
		m.onChange(m.Selection())
	}
}

// Selection returns a copy of the selection set in insertion order.
func (m *Manager) Selection() []*element.Element {
	return append([]*element.Element(nil), m.selection.Get()...)
}

// IsSelected reports whether id is in the selection set.
func (m *Manager) IsSelected(id string) bool {
	for _, el := range m.selection.Get() {
		if el.ID() == id {
			return true
		}
	}
	return false
}

// Subscribe registers fn for selection changes.
func (m *Manager) Subscribe(fn func([]*element.Element)) (unsubscribe func()) {
	return m.selection.Subscribe(func(sel []*element.Element) {
		fn(append([]*element.Element(nil), sel...))
	})
}
