package transform

import (
	"math"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/scene"
)

// Overlay node labels. The structure is
// transform-overlay > transform-wrapper > {transform-items, transform-handles}.
const (
	LabelWrapper = "transform-wrapper"
	LabelItems   = "transform-items"
	LabelHandles = "transform-handles"

	handleMove   = "handle:move"
	handleRotate = "handle:rotate"
)

func scaleHandle(c geom.Corner) string {
	return "handle:scale-" + string(c)
}

// overlay is the temporary container tree gestures preview in.
type overlay struct {
	root    *scene.Node // translated during move
	wrapper *scene.Node // rotated during rotate
	items   *scene.Node
	handleC *scene.Node

	handles map[string]*scene.Node
}

func newOverlay() *overlay {
	o := &overlay{
		root:    scene.NewNode(scene.KindContainer, scene.OverlayLabel),
		wrapper: scene.NewNode(scene.KindContainer, LabelWrapper),
		items:   scene.NewNode(scene.KindContainer, LabelItems),
		handleC: scene.NewNode(scene.KindContainer, LabelHandles),
		handles: make(map[string]*scene.Node),
	}
	o.root.ZIndex = math.MaxInt
	o.root.Visible = false
	o.handleC.ZIndex = 1
	o.root.AddChild(o.wrapper)
	o.wrapper.AddChild(o.items)
	o.wrapper.AddChild(o.handleC)
	return o
}

// handle returns the cached handle node for label, creating it on first use.
func (o *overlay) handle(label string) *scene.Node {
	if h, ok := o.handles[label]; ok {
		return h
	}
	h := scene.NewNode(scene.KindHandle, label)
	h.Interactive = true
	if label != handleMove {
		h.ZIndex = 1
	}
	o.handleC.AddChild(h)
	o.handles[label] = h
	return h
}

func square(center geom.Point, size float64) geom.Bounds {
	half := size / 2
	return geom.NewBounds(center.X-half, center.Y-half, center.X+half, center.Y+half)
}

func canDrag(c element.Capabilities) bool   { return c.Draggable }
func canScale(c element.Capabilities) bool  { return c.Scalable }
func canRotate(c element.Capabilities) bool { return c.Rotatable }

// redraw positions the overlay and its handles at the live bounds. With no
// selection the overlay is hidden.
func (e *Engine) redraw() {
	o := e.overlay
	if surface := e.surface(); surface != nil && o.root.Parent() != surface {
		surface.AddChild(o.root)
	}

	live, ok := e.Bounds()
	if !ok || len(e.selected) == 0 {
		o.root.Visible = false
		e.bind()
		return
	}
	o.root.Visible = true
	if e.gesture != gestureMove {
		o.root.Position = e.cumulative
	}

	// Handles live in overlay space, which is world space shifted by the
	// overlay position.
	local := live.Translate(geom.Point{X: -o.root.Position.X, Y: -o.root.Position.Y})
	padded := local.Pad(e.px(e.opts.Padding))
	size := e.px(e.opts.HandleSize)

	mv := o.handle(handleMove)
	mv.SetContent(padded)
	mv.Visible = len(e.filter(canDrag)) > 0

	scalable := len(e.filter(canScale)) > 0
	for _, c := range geom.Corners {
		h := o.handle(scaleHandle(c))
		h.SetContent(square(padded.Corner(c), size))
		h.Visible = scalable
	}

	rot := o.handle(handleRotate)
	rot.SetContent(square(geom.Point{X: padded.Center().X, Y: padded.MinY - e.px(e.opts.RotateHandleOffset)}, size))
	rot.Visible = len(e.filter(canRotate)) > 0

	e.bind()
}

func (e *Engine) bind() {
	for _, r := range e.recs {
		r.Bind()
	}
}
