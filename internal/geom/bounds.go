package geom

// Point is a 2D point or offset.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// IsZero reports whether both components are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Bounds represents an axis-aligned bounding box.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// NewBounds builds a box from two opposite corners in any order.
func NewBounds(x1, y1, x2, y2 float64) Bounds {
	return Bounds{
		MinX: min(x1, x2),
		MinY: min(y1, y2),
		MaxX: max(x1, x2),
		MaxY: max(y1, y2),
	}
}

// BoundsFromPoints returns the box spanned by two corner points.
func BoundsFromPoints(a, b Point) Bounds {
	return NewBounds(a.X, a.Y, b.X, b.Y)
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent.
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Min returns the top-left corner.
func (b Bounds) Min() Point {
	return Point{X: b.MinX, Y: b.MinY}
}

// Max returns the bottom-right corner.
func (b Bounds) Max() Point {
	return Point{X: b.MaxX, Y: b.MaxY}
}

// Center returns the center point of the box.
func (b Bounds) Center() Point {
	return Point{X: b.MinX + b.Width()/2, Y: b.MinY + b.Height()/2}
}

// IsEmpty checks if the box has zero or negative area.
func (b Bounds) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Contains checks if a point is inside the box (edges included).
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Intersects reports whether two boxes overlap. Touching edges count.
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Union returns the smallest box containing both boxes.
// Unlike Rect.Union in a scene graph, degenerate boxes still contribute:
// a zero-width element is a valid selection member.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

// UnionAll returns the union of all boxes, and false when the slice is empty.
func UnionAll(all []Bounds) (Bounds, bool) {
	if len(all) == 0 {
		return Bounds{}, false
	}
	result := all[0]
	for _, b := range all[1:] {
		result = result.Union(b)
	}
	return result, true
}

// Pad grows the box by m on every side. Negative m shrinks it.
func (b Bounds) Pad(m float64) Bounds {
	return NewBounds(b.MinX-m, b.MinY-m, b.MaxX+m, b.MaxY+m)
}

// Translate moves the box by an offset.
func (b Bounds) Translate(d Point) Bounds {
	return Bounds{MinX: b.MinX + d.X, MinY: b.MinY + d.Y, MaxX: b.MaxX + d.X, MaxY: b.MaxY + d.Y}
}

// Corner identifies one of the four corners of a box.
type Corner string

const (
	CornerLT Corner = "lt"
	CornerRT Corner = "rt"
	CornerLB Corner = "lb"
	CornerRB Corner = "rb"
)

// Corners lists the corners in handle drawing order.
var Corners = []Corner{CornerLT, CornerRT, CornerLB, CornerRB}

// Corner returns the position of the named corner.
func (b Bounds) Corner(c Corner) Point {
	switch c {
	case CornerLT:
		return Point{X: b.MinX, Y: b.MinY}
	case CornerRT:
		return Point{X: b.MaxX, Y: b.MinY}
	case CornerLB:
		return Point{X: b.MinX, Y: b.MaxY}
	default:
		return Point{X: b.MaxX, Y: b.MaxY}
	}
}

// Opposite returns the corner diagonal to c.
func (c Corner) Opposite() Corner {
	switch c {
	case CornerLT:
		return CornerRB
	case CornerRT:
		return CornerLB
	case CornerLB:
		return CornerRT
	default:
		return CornerLT
	}
}

// Valid reports whether c names a known corner.
func (c Corner) Valid() bool {
	switch c {
	case CornerLT, CornerRT, CornerLB, CornerRB:
		return true
	}
	return false
}
