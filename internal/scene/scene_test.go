package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/geom"
)

func newBox(label string, b geom.Bounds) *Node {
	n := NewNode(KindElement, label)
	n.SetContent(b)
	n.Interactive = true
	return n
}

func TestBoundsIncludesChildren(t *testing.T) {
	root := NewNode(KindRoot, "root")
	a := newBox("a", geom.NewBounds(0, 0, 10, 10))
	b := newBox("b", geom.NewBounds(20, 20, 30, 40))
	root.AddChild(a)
	root.AddChild(b)

	got, ok := root.Bounds()
	require.True(t, ok)
	assert.Equal(t, geom.NewBounds(0, 0, 30, 40), got)

	b.Visible = false
	got, ok = root.Bounds()
	require.True(t, ok)
	assert.Equal(t, geom.NewBounds(0, 0, 10, 10), got)
}

func TestReparentPreservesWorldPosition(t *testing.T) {
	root := NewNode(KindRoot, "root")
	root.ScaleX, root.ScaleY = 2, 2
	root.Position = geom.Point{X: 100, Y: 50}

	overlay := NewNode(KindContainer, "overlay")
	overlay.Position = geom.Point{X: 7, Y: -3}
	overlay.Rotation = math.Pi / 6
	root.AddChild(overlay)

	el := newBox("el", geom.NewBounds(10, 10, 20, 20))
	root.AddChild(el)
	before, _ := el.Bounds()

	overlay.Reparent(el)
	assert.Same(t, overlay, el.Parent())
	after, _ := el.Bounds()
	assert.InDelta(t, before.MinX, after.MinX, 1e-9)
	assert.InDelta(t, before.MinY, after.MinY, 1e-9)
	assert.InDelta(t, before.MaxX, after.MaxX, 1e-9)
	assert.InDelta(t, before.MaxY, after.MaxY, 1e-9)

	root.Reparent(el)
	assert.Same(t, root, el.Parent())
	assert.InDelta(t, 0.0, el.Position.X, 1e-9)
	assert.InDelta(t, 0.0, el.Rotation, 1e-9)
}

func TestHitTestTopmostAndRotated(t *testing.T) {
	root := NewNode(KindRoot, "root")
	low := newBox("low", geom.NewBounds(0, 0, 100, 100))
	high := newBox("high", geom.NewBounds(40, 40, 60, 60))
	high.ZIndex = 1
	root.AddChild(high)
	root.AddChild(low)

	assert.Same(t, high, HitTest(root, geom.Point{X: 50, Y: 50}))
	assert.Same(t, low, HitTest(root, geom.Point{X: 10, Y: 10}))
	assert.Nil(t, HitTest(root, geom.Point{X: 200, Y: 200}))

	// A thin bar rotated 90 degrees about its center only hits along the new axis.
	bar := newBox("bar", geom.NewBounds(200, 245, 300, 255))
	bar.ContentTransform = geom.RotateAround(math.Pi/2, geom.Point{X: 250, Y: 250})
	root.AddChild(bar)
	assert.Same(t, bar, HitTest(root, geom.Point{X: 250, Y: 290}))
	assert.Nil(t, HitTest(root, geom.Point{X: 290, Y: 250}))
}

func TestDispatchBubblesAndStops(t *testing.T) {
	root := NewNode(KindRoot, "root")
	group := NewNode(KindContainer, "group")
	root.AddChild(group)
	handle := newBox("handle", geom.NewBounds(0, 0, 10, 10))
	group.AddChild(handle)

	var order []string
	handle.On(PointerDown, func(e *PointerEvent) {
		order = append(order, "handle")
		assert.Same(t, handle, e.Target)
	})
	group.On(PointerDown, func(e *PointerEvent) {
		order = append(order, "group")
		e.StopPropagation()
	})
	root.On(PointerDown, func(e *PointerEvent) { order = append(order, "root") })

	Dispatch(root, &PointerEvent{Type: PointerDown, Screen: geom.Point{X: 5, Y: 5}})
	assert.Equal(t, []string{"handle", "group"}, order)

	order = nil
	ev := &PointerEvent{Type: PointerDown, Screen: geom.Point{X: 500, Y: 5}}
	Dispatch(root, ev)
	assert.Equal(t, []string{"root"}, order)
	assert.Same(t, root, ev.Target)
}

func TestOnReturnsUnsubscribe(t *testing.T) {
	n := NewNode(KindRoot, "root")
	calls := 0
	off := n.On(PointerMove, func(*PointerEvent) { calls++ })
	Dispatch(n, &PointerEvent{Type: PointerMove})
	off()
	Dispatch(n, &PointerEvent{Type: PointerMove})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, n.ListenerCount(PointerMove))
}

func TestCompileDrawCommandsOrderAndOverlay(t *testing.T) {
	root := NewNode(KindRoot, "root")
	overlay := NewNode(KindContainer, OverlayLabel)
	overlay.ZIndex = math.MaxInt
	root.AddChild(overlay)
	h := NewNode(KindHandle, "handle:move")
	h.SetContent(geom.NewBounds(0, 0, 5, 5))
	overlay.AddChild(h)
	el := newBox("el", geom.NewBounds(1, 1, 2, 2))
	el.ID = "elem_1"
	root.AddChild(el)

	cmds := CompileDrawCommands(root)
	require.Len(t, cmds, 2)
	assert.Equal(t, "element", cmds[0].Op)
	assert.Equal(t, "elem_1", cmds[0].NodeID)
	assert.False(t, cmds[0].Overlay)
	assert.Equal(t, "handle", cmds[1].Op)
	assert.True(t, cmds[1].Overlay)

	out, err := DrawCommandsToJSON(cmds)
	require.NoError(t, err)
	assert.Contains(t, out, `"label":"handle:move"`)
}
