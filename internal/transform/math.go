package transform

import (
	"math"

	"github.com/inamate/whiteboard/internal/geom"
)

// MoveFrame selects how a move offset is handed to move adapters.
type MoveFrame string

const (
	// FrameLocal rotates the pointer offset into the element's own frame by
	// undoing its accumulated rotation.
	FrameLocal MoveFrame = "local"
	// FrameWorld passes the raw world offset.
	FrameWorld MoveFrame = "world"
)

// ScaleBounds moves the dragged corner of initial by offset while the
// diagonally opposite corner stays fixed. The result is normalised, so
// dragging past the fixed corner flips the box instead of inverting it.
func ScaleBounds(corner geom.Corner, initial geom.Bounds, offset geom.Point) geom.Bounds {
	fixed := initial.Corner(corner.Opposite())
	moved := initial.Corner(corner).Add(offset)
	return geom.BoundsFromPoints(fixed, moved)
}

// ScaleFactors returns candidate's size relative to initial per axis.
// An axis with zero initial extent reports 1.
func ScaleFactors(initial, candidate geom.Bounds) (sx, sy float64) {
	sx, sy = 1, 1
	if w := initial.Width(); w != 0 {
		sx = candidate.Width() / w
	}
	if h := initial.Height(); h != 0 {
		sy = candidate.Height() / h
	}
	return sx, sy
}

// MapBounds places b inside candidate the way it sat inside initial, so
// each member of a group keeps its relative position and proportion.
// Min edges are measured from the candidate's min side and max edges from
// its max side, so an edge flush with initial lands exactly on candidate.
func MapBounds(initial, candidate, b geom.Bounds) geom.Bounds {
	sx, sy := ScaleFactors(initial, candidate)
	return geom.Bounds{
		MinX: candidate.MinX + (b.MinX-initial.MinX)*sx,
		MinY: candidate.MinY + (b.MinY-initial.MinY)*sy,
		MaxX: candidate.MaxX - (initial.MaxX-b.MaxX)*sx,
		MaxY: candidate.MaxY - (initial.MaxY-b.MaxY)*sy,
	}
}

// MapRotatedBounds scales the pre-rotation box b of an element whose
// rotation history composes to m. The element's world box is mapped with
// MapBounds, then the local width and height are solved so that the
// rotated box fills that target, centred on it. With no rotation this is
// MapBounds.
func MapRotatedBounds(initial, candidate, b geom.Bounds, m geom.Matrix2D) geom.Bounds {
	if m == geom.Identity() {
		return MapBounds(initial, candidate, b)
	}
	world := m.TransformBounds(b)
	target := MapBounds(initial, candidate, world)

	// Half extents of a rotated w x h box: |c|w/2 + |s|h/2 by |s|w/2 + |c|h/2.
	c, s := math.Abs(m[0]), math.Abs(m[1])
	W, H := target.Width(), target.Height()
	det := c*c - s*s
	w := (c*W - s*H) / det
	h := (c*H - s*W) / det
	if math.Abs(det) < 1e-6 || w < 0 || h < 0 {
		// Near 45 degrees the box cannot be solved per axis; scale
		// uniformly by the mean world factor instead.
		fx, fy := ScaleFactors(world, target)
		k := (fx + fy) / 2
		w, h = b.Width()*k, b.Height()*k
	}

	center := m.Invert().TransformPoint(target.Center())
	return geom.Bounds{
		MinX: center.X - w/2,
		MinY: center.Y - h/2,
		MaxX: center.X + w/2,
		MaxY: center.Y + h/2,
	}
}

// angleFromUp measures v clockwise from straight up (negative y).
func angleFromUp(v geom.Point) float64 {
	return math.Atan2(v.X, -v.Y)
}

// RotationAngle returns how far pointer has turned around pivot since
// anchor, in radians, positive clockwise on screen.
func RotationAngle(pivot, anchor, pointer geom.Point) float64 {
	a := angleFromUp(pointer.Sub(pivot)) - angleFromUp(anchor.Sub(pivot))
	// Keep within (-pi, pi] so crossing the downward axis does not jump.
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LocalOffset converts a world offset for an element rotated by rotation
// radians.
func LocalOffset(offset geom.Point, rotation float64, frame MoveFrame) geom.Point {
	if frame == FrameWorld || rotation == 0 {
		return offset
	}
	return geom.Rotate(-rotation).TransformVector(offset)
}
