package shapes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
)

func TestRectAdapters(t *testing.T) {
	el := element.New("r", Rect(geom.NewBounds(10, 10, 50, 50), DefaultStyle()))
	caps := el.Capabilities()
	require.NotNil(t, caps.Move)
	require.NotNil(t, caps.Scale)
	require.NotNil(t, caps.Rotate)

	vm := caps.Move(el, geom.Point{X: 5, Y: 0})
	assert.Equal(t, 15.0, vm.Float("x"))
	assert.Equal(t, 10.0, vm.Float("y"))
	assert.Equal(t, 40.0, vm.Float("width"))
	assert.Equal(t, "#e94560", vm["fill"])
	assert.Equal(t, 10.0, el.ViewModel().Float("x"), "adapter must not mutate the committed model")

	double := func(b geom.Bounds) geom.Bounds {
		return geom.NewBounds(b.MinX, b.MinY, b.MinX+b.Width()*2, b.MinY+b.Height()*2)
	}
	vm = caps.Scale(el, double, false)
	assert.Equal(t, 80.0, vm.Float("width"))
	assert.Equal(t, vm, caps.Scale(el, double, true), "preview and release carry the same shape data")

	vm = caps.Rotate(el, element.Rotation{Angle: geom.DegToRad(30)})
	assert.InDelta(t, 30.0, vm.Float("rotation"), 1e-9)
}

func TestEllipseAdapters(t *testing.T) {
	el := element.New("e", Ellipse(geom.NewBounds(0, 0, 100, 50), DefaultStyle()))
	assert.Equal(t, 50.0, el.ViewModel().Float("cx"))
	assert.Equal(t, 25.0, el.ViewModel().Float("ry"))

	vm := el.Capabilities().Move(el, geom.Point{X: -10, Y: 10})
	assert.Equal(t, 40.0, vm.Float("cx"))
	assert.Equal(t, 35.0, vm.Float("cy"))
}

func TestNew(t *testing.T) {
	spec, err := New(TypeEllipse, geom.NewBounds(0, 0, 1, 1), DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, TypeEllipse, spec.Type)

	_, err = New("triangle", geom.Bounds{}, DefaultStyle())
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestPath(t *testing.T) {
	r := element.New("r", Rect(geom.NewBounds(0, 0, 30, 20), DefaultStyle()))
	p := Path(r)
	require.Len(t, p, 5)
	assert.Equal(t, PathCommand{"L", 30.0, 20.0}, p[2])

	e := element.New("e", Ellipse(geom.NewBounds(0, 0, 30, 20), DefaultStyle()))
	assert.Len(t, Path(e), 6)

	assert.Nil(t, Path(element.New("x", element.Spec{Type: "other"})))
}

func TestSample(t *testing.T) {
	for _, spec := range Sample() {
		assert.False(t, spec.Bounds.IsEmpty())
		assert.True(t, spec.Capabilities.Selectable)
	}
}
