package element

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/geom"
)

func TestNewSyncsNode(t *testing.T) {
	el := New("elem_1", Spec{
		Type:         "rect",
		Bounds:       geom.NewBounds(10, 10, 50, 50),
		ViewModel:    ViewModel{"x": 10.0},
		Capabilities: Capabilities{Selectable: true},
	})
	assert.Equal(t, "elem_1", el.ID())
	assert.Equal(t, "elem_1", el.Node().ID)
	assert.True(t, el.Node().Interactive)

	b, ok := el.Node().Bounds()
	require.True(t, ok)
	assert.Equal(t, geom.NewBounds(10, 10, 50, 50), b)
}

func TestRotationHistoryAccumulates(t *testing.T) {
	el := New("elem_1", Spec{Bounds: geom.NewBounds(0, 0, 10, 10)})
	el.AppendRotation(Rotation{Angle: geom.DegToRad(30), Pivot: geom.Point{X: 5, Y: 5}})
	el.AppendRotation(Rotation{Angle: geom.DegToRad(45), Pivot: geom.Point{X: 100, Y: 0}})

	rs := el.Rotations()
	require.Len(t, rs, 2)
	assert.Equal(t, geom.Point{X: 5, Y: 5}, rs[0].Pivot)
	assert.Equal(t, geom.Point{X: 100, Y: 0}, rs[1].Pivot)
	assert.InDelta(t, geom.DegToRad(75), el.TotalRotation(), 1e-12)

	// The earliest rotation applies first.
	want := geom.RotateAround(rs[1].Angle, rs[1].Pivot).
		Multiply(geom.RotateAround(rs[0].Angle, rs[0].Pivot)).
		TransformPoint(geom.Point{})
	got := el.RotationMatrix().TransformPoint(geom.Point{})
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}

func TestWorldBoundsRotated(t *testing.T) {
	el := New("elem_1", Spec{Bounds: geom.NewBounds(0, 0, 20, 10)})
	el.AppendRotation(Rotation{Angle: math.Pi / 2, Pivot: geom.Point{X: 10, Y: 5}})
	wb := el.WorldBounds()
	assert.InDelta(t, 5.0, wb.MinX, 1e-9)
	assert.InDelta(t, -5.0, wb.MinY, 1e-9)
	assert.InDelta(t, 10.0, wb.Width(), 1e-9)
	assert.InDelta(t, 20.0, wb.Height(), 1e-9)
}

func TestStateRestoreIsolated(t *testing.T) {
	el := New("elem_1", Spec{Bounds: geom.NewBounds(0, 0, 1, 1), ViewModel: ViewModel{"x": 0.0}})
	s := el.State()

	el.SetBounds(geom.NewBounds(5, 5, 6, 6))
	el.SetViewModel(ViewModel{"x": 5.0})
	el.AppendRotation(Rotation{Angle: 1})
	s.ViewModel["x"] = 99.0 // mutating the snapshot copy must not leak

	el.Restore(el.State())
	el.Restore(State{Bounds: geom.NewBounds(0, 0, 1, 1), ViewModel: ViewModel{"x": 0.0}})
	assert.Equal(t, geom.NewBounds(0, 0, 1, 1), el.Bounds())
	assert.Equal(t, 0.0, el.ViewModel().Float("x"))
	assert.Empty(t, el.Rotations())
}

func TestViewModelFloat(t *testing.T) {
	vm := ViewModel{"a": 1.5, "b": 2, "c": "nope"}
	assert.Equal(t, 1.5, vm.Float("a"))
	assert.Equal(t, 2.0, vm.Float("b"))
	assert.Equal(t, 0.0, vm.Float("c"))
	assert.Equal(t, 0.0, vm.Float("missing"))
}
