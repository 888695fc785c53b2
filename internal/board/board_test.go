package board

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/command"
	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/scene"
	"github.com/inamate/whiteboard/internal/shapes"
)

func newBoard(t *testing.T, mutate func(*config.Config), opts Options) *Board {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	b, err := New(cfg, opts)
	require.NoError(t, err)
	t.Cleanup(b.Close)
	return b
}

func drag(b *Board, from, to geom.Point) {
	b.HandlePointer(PointerInput{Type: scene.PointerDown, X: from.X, Y: from.Y})
	b.HandlePointer(PointerInput{Type: scene.PointerMove, X: to.X, Y: to.Y})
	b.HandlePointer(PointerInput{Type: scene.PointerUp, X: to.X, Y: to.Y})
}

func rect(x1, y1, x2, y2 float64) element.Spec {
	return shapes.Rect(geom.NewBounds(x1, y1, x2, y2), shapes.DefaultStyle())
}

func handleCenter(t *testing.T, b *Board, label string) geom.Point {
	t.Helper()
	h, ok := b.Overlay()[label]
	require.True(t, ok, "handle %s not visible", label)
	return h.Center()
}

func TestEndToEndScenario(t *testing.T) {
	b := newBoard(t, func(c *config.Config) { c.RecordTransforms = false }, Options{})

	r := b.AddElement(rect(10, 10, 50, 50))
	id := r.ID()
	assert.True(t, strings.HasPrefix(id, "elem_"))

	assert.Equal(t, []*element.Element{r}, b.ElementsInRange(geom.NewBounds(0, 0, 60, 60)))
	assert.Equal(t, []*element.Element{r}, b.ElementsInRange(geom.NewBounds(20, 20, 40, 40)))

	b.SetSelection([]string{id})
	drag(b, geom.Point{X: 30, Y: 30}, geom.Point{X: 35, Y: 30})
	assert.Equal(t, 15.0, r.ViewModel().Float("x"))
	assert.Equal(t, geom.NewBounds(15, 10, 55, 50), r.Bounds())
	indexed, ok := b.IndexedBounds(id)
	require.True(t, ok)
	assert.Equal(t, geom.NewBounds(15, 10, 55, 50), indexed)
	b.Tick()

	require.True(t, b.Undo())
	assert.Empty(t, b.ElementsInRange(geom.NewBounds(0, 0, 60, 60)))
	_, ok = b.Element(id)
	assert.False(t, ok)
	assert.Empty(t, b.Selection())

	require.True(t, b.Redo())
	got := b.ElementsInRange(geom.NewBounds(0, 0, 60, 60))
	require.Len(t, got, 1)
	assert.Same(t, r, got[0])
	assert.Equal(t, id, got[0].ID())
}

func TestMoveIsRecorded(t *testing.T) {
	b := newBoard(t, nil, Options{})
	r := b.AddElement(rect(10, 10, 50, 50))
	b.SetSelection([]string{r.ID()})

	drag(b, geom.Point{X: 30, Y: 30}, geom.Point{X: 35, Y: 30})
	assert.Equal(t, command.History{UndoLen: 2}, b.History())

	require.True(t, b.Undo())
	assert.Equal(t, 10.0, r.ViewModel().Float("x"))
	indexed, _ := b.IndexedBounds(r.ID())
	assert.Equal(t, geom.NewBounds(10, 10, 50, 50), indexed)

	b.Tick()
	live, ok := b.SelectionBounds()
	require.True(t, ok)
	assert.Equal(t, geom.NewBounds(10, 10, 50, 50), live)

	require.True(t, b.Redo())
	assert.Equal(t, geom.NewBounds(15, 10, 55, 50), r.Bounds())
}

func TestZeroMoveChangesNothing(t *testing.T) {
	b := newBoard(t, nil, Options{})
	r := b.AddElement(rect(10, 10, 50, 50))
	b.SetSelection([]string{r.ID()})
	before, _ := b.IndexedBounds(r.ID())

	drag(b, geom.Point{X: 30, Y: 30}, geom.Point{X: 30, Y: 30})

	b.HandlePointer(PointerInput{Type: scene.PointerDown, X: 30, Y: 30})
	b.HandlePointer(PointerInput{Type: scene.PointerMove, X: 90, Y: 90})
	b.HandlePointer(PointerInput{Type: scene.PointerUp, X: 30, Y: 30})

	assert.Equal(t, geom.NewBounds(10, 10, 50, 50), r.Bounds())
	after, _ := b.IndexedBounds(r.ID())
	assert.Equal(t, before, after)
	assert.Equal(t, 1, b.History().UndoLen)
}

func TestScaleCornerSymmetry(t *testing.T) {
	b := newBoard(t, nil, Options{})
	r := b.AddElement(rect(0, 0, 100, 100))
	b.SetSelection([]string{r.ID()})
	off := geom.Point{X: 20, Y: 10}

	rb := handleCenter(t, b, "handle:scale-rb")
	drag(b, rb, rb.Add(off))
	assert.Equal(t, geom.NewBounds(0, 0, 120, 110), r.Bounds())
	assert.Equal(t, 120.0, r.ViewModel().Float("width"))

	require.True(t, b.Undo())
	b.Tick()
	assert.Equal(t, geom.NewBounds(0, 0, 100, 100), r.Bounds())

	lt := handleCenter(t, b, "handle:scale-lt")
	drag(b, lt, lt.Add(off))
	assert.Equal(t, geom.NewBounds(20, 10, 100, 100), r.Bounds())
	indexed, _ := b.IndexedBounds(r.ID())
	assert.Equal(t, geom.NewBounds(20, 10, 100, 100), indexed)
}

func TestScalePreview(t *testing.T) {
	var previews []Preview
	b := newBoard(t, nil, Options{OnPreview: func(p Preview) { previews = append(previews, p) }})
	r := b.AddElement(rect(0, 0, 100, 100))
	b.SetSelection([]string{r.ID()})

	rb := handleCenter(t, b, "handle:scale-rb")
	b.HandlePointer(PointerInput{Type: scene.PointerDown, X: rb.X, Y: rb.Y})
	b.HandlePointer(PointerInput{Type: scene.PointerMove, X: rb.X + 50, Y: rb.Y})
	require.Len(t, previews, 1)
	assert.False(t, previews[0].Done)
	assert.Equal(t, geom.NewBounds(0, 0, 150, 100), previews[0].Bounds)
	assert.Equal(t, geom.NewBounds(0, 0, 100, 100), r.Bounds(), "preview is not committed")

	b.HandlePointer(PointerInput{Type: scene.PointerUp, X: rb.X + 50, Y: rb.Y})
	require.Len(t, previews, 2)
	assert.True(t, previews[1].Done)
	assert.Equal(t, geom.NewBounds(0, 0, 150, 100), r.Bounds())
}

func rotateBy(t *testing.T, b *Board, deg float64) geom.Point {
	t.Helper()
	live, ok := b.SelectionBounds()
	require.True(t, ok)
	pivot := live.Center()
	anchor := handleCenter(t, b, "handle:rotate")
	target := geom.RotateAround(geom.DegToRad(deg), pivot).TransformPoint(anchor)
	drag(b, anchor, target)
	b.Tick()
	return pivot
}

func TestRotationHistoryAccumulates(t *testing.T) {
	b := newBoard(t, nil, Options{})
	r := b.AddElement(rect(0, 0, 100, 100))
	s := b.AddElement(rect(200, 0, 300, 100))

	b.SetSelection([]string{r.ID()})
	p1 := rotateBy(t, b, 30)

	b.SetSelection([]string{r.ID(), s.ID()})
	p2 := rotateBy(t, b, 45)
	require.Greater(t, math.Abs(p2.X-p1.X), 1.0, "pivots differ")

	rs := r.Rotations()
	require.Len(t, rs, 2)
	assert.InDelta(t, geom.DegToRad(30), rs[0].Angle, 1e-9)
	assert.InDelta(t, p1.X, rs[0].Pivot.X, 1e-9)
	assert.InDelta(t, p1.Y, rs[0].Pivot.Y, 1e-9)
	assert.InDelta(t, geom.DegToRad(45), rs[1].Angle, 1e-9)
	assert.InDelta(t, p2.X, rs[1].Pivot.X, 1e-9)
	assert.InDelta(t, 75.0, r.ViewModel().Float("rotation"), 1e-6)
	assert.Len(t, s.Rotations(), 1)

	// The index holds the rotated, committed box.
	indexed, _ := b.IndexedBounds(r.ID())
	assert.InDelta(t, r.WorldBounds().MinX, indexed.MinX, 1e-6)

	require.True(t, b.Undo())
	assert.Len(t, r.Rotations(), 1)
}

func assertBoundsInDelta(t *testing.T, want, got geom.Bounds) {
	t.Helper()
	assert.InDelta(t, want.MinX, got.MinX, 1e-6, "MinX of %v", got)
	assert.InDelta(t, want.MinY, got.MinY, 1e-6, "MinY of %v", got)
	assert.InDelta(t, want.MaxX, got.MaxX, 1e-6, "MaxX of %v", got)
	assert.InDelta(t, want.MaxY, got.MaxY, 1e-6, "MaxY of %v", got)
}

func TestScaleRotatedElement(t *testing.T) {
	b := newBoard(t, nil, Options{})
	r := b.AddElement(rect(0, 0, 100, 50))
	b.SetSelection([]string{r.ID()})
	rotateBy(t, b, 90)
	assertBoundsInDelta(t, geom.NewBounds(25, -25, 75, 75), r.WorldBounds())

	rb := handleCenter(t, b, "handle:scale-rb")
	drag(b, rb, rb.Add(geom.Point{X: 50}))
	b.Tick()

	// The world box grows along x only and its left-top corner stays put.
	assertBoundsInDelta(t, geom.NewBounds(25, -25, 125, 75), r.WorldBounds())
	// The local height is what lies along world x after a quarter turn.
	assertBoundsInDelta(t, geom.NewBounds(0, -50, 100, 50), r.Bounds())
	assert.InDelta(t, 100.0, r.ViewModel().Float("height"), 1e-6)
	assert.Len(t, r.Rotations(), 1)

	indexed, _ := b.IndexedBounds(r.ID())
	assertBoundsInDelta(t, r.WorldBounds(), indexed)
}

func TestClickAndMarqueeSelection(t *testing.T) {
	var changes [][]string
	b := newBoard(t, nil, Options{OnSelectionChange: func(ids []string) { changes = append(changes, ids) }})
	a := b.AddElement(rect(10, 10, 50, 50))
	c := b.AddElement(rect(100, 10, 150, 50))

	drag(b, geom.Point{X: 120, Y: 20}, geom.Point{X: 120, Y: 20})
	assert.Equal(t, []string{c.ID()}, b.Selection())

	drag(b, geom.Point{X: 200, Y: 100}, geom.Point{X: 0, Y: 0})
	assert.Equal(t, []string{a.ID(), c.ID()}, b.Selection())

	drag(b, geom.Point{X: 500, Y: 500}, geom.Point{X: 500, Y: 500})
	assert.Empty(t, b.Selection())

	b.SelectAt(geom.Point{X: 20, Y: 20})
	assert.Equal(t, []string{a.ID()}, b.Selection())
	assert.NotEmpty(t, changes)
}

func TestPanTool(t *testing.T) {
	b := newBoard(t, nil, Options{})
	require.Error(t, b.SetTool("lasso"))
	require.NoError(t, b.SetTool(ToolPan))

	drag(b, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 5})
	assert.Equal(t, geom.Point{X: 10, Y: 5}, b.Viewport().Offset())
	_, marquee := b.Marquee()
	assert.False(t, marquee)

	// World queries are unaffected by the camera.
	r := b.AddElement(rect(0, 0, 10, 10))
	indexed, _ := b.IndexedBounds(r.ID())
	assert.Equal(t, geom.NewBounds(0, 0, 10, 10), indexed)
}

func TestZoomKeepsHandlesScreenSized(t *testing.T) {
	b := newBoard(t, nil, Options{})
	r := b.AddElement(rect(0, 0, 100, 100))
	b.SetSelection([]string{r.ID()})
	b.ZoomAt(2, geom.Point{})

	h := b.Overlay()["handle:scale-rb"]
	assert.InDelta(t, 10.0, h.Width(), 1e-9)
	assert.InDelta(t, 210.0, h.Center().X, 1e-9)
}

func TestKeyboardUndoRedo(t *testing.T) {
	b := newBoard(t, nil, Options{})
	r := b.AddElement(rect(0, 0, 10, 10))

	b.HandleKey(command.KeyEvent{Key: "z", Ctrl: true})
	_, ok := b.Element(r.ID())
	assert.False(t, ok)

	b.HandleKey(command.KeyEvent{Key: "y", Ctrl: true})
	_, ok = b.Element(r.ID())
	assert.True(t, ok)
}

func TestRemoveElement(t *testing.T) {
	var history []command.History
	b := newBoard(t, nil, Options{OnHistoryChange: func(h command.History) { history = append(history, h) }})
	r := b.AddElement(rect(0, 0, 10, 10))
	b.SetSelection([]string{r.ID()})

	err := b.RemoveElement("elem_missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, b.RemoveElement(r.ID()))
	assert.Empty(t, b.Selection())
	assert.False(t, b.sel.IsRegistered(r.ID()))
	assert.Nil(t, r.Node().Parent())

	require.True(t, b.Undo())
	el, ok := b.Element(r.ID())
	require.True(t, ok)
	assert.Same(t, r, el)
	assert.Len(t, history, 3)
}

func TestAddElementsBulk(t *testing.T) {
	b := newBoard(t, nil, Options{})
	els := b.AddElements(shapes.Sample())
	require.Len(t, els, 3)
	assert.Equal(t, 1, b.History().UndoLen)
	assert.Len(t, b.Snapshot(), 3)

	require.True(t, b.Undo())
	assert.Empty(t, b.Elements())
	require.True(t, b.Redo())
	assert.Equal(t, els, b.Elements())
}

func TestRenderIncludesOverlay(t *testing.T) {
	b := newBoard(t, nil, Options{})
	r := b.AddElement(rect(0, 0, 10, 10))

	cmds := b.Render()
	require.Len(t, cmds, 1)
	assert.Equal(t, r.ID(), cmds[0].NodeID)
	assert.False(t, cmds[0].Overlay)

	b.SetSelection([]string{r.ID()})
	var overlay int
	for _, c := range b.Render() {
		if c.Overlay {
			overlay++
		}
	}
	assert.Equal(t, 6, overlay)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.UndoChord = "ctrl+"
	_, err := New(cfg, Options{})
	assert.Error(t, err)
}
