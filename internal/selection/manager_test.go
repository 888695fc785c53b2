package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/viewport"
)

func newEl(id string, b geom.Bounds) *element.Element {
	return element.New(id, element.Spec{Type: "rect", Bounds: b, Capabilities: element.Capabilities{Selectable: true}})
}

func newManager(vp *viewport.Viewport, onChange func([]*element.Element)) *Manager {
	return NewManager(Options{
		Viewport: func() *viewport.Viewport { return vp },
		OnChange: onChange,
	})
}

func TestQueryRangeWithoutViewportIsEmpty(t *testing.T) {
	m := NewManager(Options{})
	r := newEl("r", geom.NewBounds(10, 10, 50, 50))
	m.AddElement(r)

	assert.True(t, m.IsRegistered("r"))
	assert.Empty(t, m.QueryRange(geom.NewBounds(0, 0, 60, 60)))
}

func TestAddElementUsesRenderedBounds(t *testing.T) {
	vp := viewport.New(0.1, 8)
	vp.Pan(geom.Point{X: 100, Y: 0})
	vp.ZoomAt(2, geom.Point{})

	r := newEl("r", geom.NewBounds(10, 10, 50, 50))
	vp.Root().AddChild(r.Node())

	m := newManager(vp, nil)
	m.AddElement(r)

	b, ok := m.IndexedBounds("r")
	require.True(t, ok)
	assert.InDelta(t, 10.0, b.MinX, 1e-9)
	assert.InDelta(t, 50.0, b.MaxY, 1e-9)
	assert.Len(t, m.QueryRange(geom.NewBounds(20, 20, 40, 40)), 1)
}

func TestAddElementsAndRemove(t *testing.T) {
	m := newManager(viewport.New(0.1, 8), nil)
	a := newEl("a", geom.NewBounds(0, 0, 10, 10))
	b := newEl("b", geom.NewBounds(20, 0, 30, 10))
	m.AddElements([]*element.Element{a, b, nil})
	assert.Equal(t, 2, m.Len())

	m.RemoveElement(a)
	m.RemoveElement(a)
	m.RemoveID("missing")
	assert.False(t, m.IsRegistered("a"))
	assert.Equal(t, []*element.Element{b}, m.QueryRange(geom.NewBounds(0, 0, 100, 100)))
}

func TestUpdateReindexes(t *testing.T) {
	m := newManager(viewport.New(0.1, 8), nil)
	a := newEl("a", geom.NewBounds(0, 0, 10, 10))
	m.AddElement(a)

	a.SetBounds(geom.NewBounds(100, 100, 110, 110))
	m.Update(a)
	assert.Empty(t, m.QueryRange(geom.NewBounds(0, 0, 10, 10)))
	assert.Len(t, m.QueryRange(geom.NewBounds(105, 105, 106, 106)), 1)

	ghost := newEl("ghost", geom.NewBounds(0, 0, 1, 1))
	m.Update(ghost)
	assert.False(t, m.IsRegistered("ghost"))
}

func TestSetSelectionReplacesAtomically(t *testing.T) {
	var notified [][]*element.Element
	m := newManager(viewport.New(0.1, 8), func(sel []*element.Element) {
		notified = append(notified, sel)
	})
	a := newEl("a", geom.NewBounds(0, 0, 1, 1))
	b := newEl("b", geom.NewBounds(0, 0, 1, 1))
	c := newEl("c", geom.NewBounds(0, 0, 1, 1))

	m.SetSelection([]*element.Element{c})
	m.SetSelection([]*element.Element{a, b})
	assert.Equal(t, []*element.Element{a, b}, m.Selection())
	require.Len(t, notified, 2)
	assert.Equal(t, []*element.Element{a, b}, notified[1])

	m.SetSelection([]*element.Element{b, a, b})
	assert.Equal(t, []*element.Element{b, a}, m.Selection())
	assert.True(t, m.IsSelected("a"))

	m.SetSelection(nil)
	assert.Empty(t, m.Selection())
}

func TestSubscribe(t *testing.T) {
	m := newManager(nil, nil)
	calls := 0
	unsub := m.Subscribe(func([]*element.Element) { calls++ })
	m.SetSelection(nil)
	unsub()
	m.SetSelection(nil)
	assert.Equal(t, 1, calls)
}
