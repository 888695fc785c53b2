// Package viewport implements the pannable, zoomable camera over the
// infinite canvas. The camera is the root scene node: its transform maps
// world coordinates to screen coordinates.
package viewport

import (
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/scene"
)

// Viewport owns the root node and converts between screen and world space.
type Viewport struct {
	root    *scene.Node
	minZoom float64
	maxZoom float64
	width   float64
	height  float64
}

// New creates a viewport with zoom clamped to [minZoom, maxZoom].
func New(minZoom, maxZoom float64) *Viewport {
	if minZoom <= 0 {
		minZoom = 0.1
	}
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	return &Viewport{
		root:    scene.NewNode(scene.KindRoot, "viewport"),
		minZoom: minZoom,
		maxZoom: maxZoom,
	}
}

// Root returns the node that world-space content is attached to.
func (v *Viewport) Root() *scene.Node {
	return v.root
}

// ToWorld converts a screen point to world space.
func (v *Viewport) ToWorld(p geom.Point) geom.Point {
	return v.root.LocalTransform().Invert().TransformPoint(p)
}

// ToScreen converts a world point to screen space.
func (v *Viewport) ToScreen(p geom.Point) geom.Point {
	return v.root.LocalTransform().TransformPoint(p)
}

// BoundsToWorld converts a screen box to world space.
func (v *Viewport) BoundsToWorld(b geom.Bounds) geom.Bounds {
	return v.root.LocalTransform().Invert().TransformBounds(b)
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 {
	return v.root.ScaleX
}

// Offset returns the screen position of the world origin.
func (v *Viewport) Offset() geom.Point {
	return v.root.Position
}

// Pan moves the camera by a screen-space delta.
func (v *Viewport) Pan(d geom.Point) {
	v.root.Position = v.root.Position.Add(d)
}

// ZoomAt multiplies the zoom by factor, keeping the world point under the
// screen point anchor fixed.
func (v *Viewport) ZoomAt(factor float64, anchor geom.Point) {
	if factor <= 0 {
		return
	}
	world := v.ToWorld(anchor)
	zoom := min(max(v.root.ScaleX*factor, v.minZoom), v.maxZoom)
	v.root.ScaleX, v.root.ScaleY = zoom, zoom
	// Re-anchor: screen = position + zoom*world
	v.root.Position = geom.Point{X: anchor.X - zoom*world.X, Y: anchor.Y - zoom*world.Y}
}

// Resize records the screen size of the host surface.
func (v *Viewport) Resize(width, height float64) {
	v.width, v.height = width, height
}

// VisibleWorld returns the world-space box currently on screen, and false
// when the screen size is unknown.
func (v *Viewport) VisibleWorld() (geom.Bounds, bool) {
	if v.width <= 0 || v.height <= 0 {
		return geom.Bounds{}, false
	}
	return v.BoundsToWorld(geom.NewBounds(0, 0, v.width, v.height)), true
}
