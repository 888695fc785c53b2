package geom

import "math"

// Matrix2D represents a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
//
// Where:
// - a, d = scale
// - b, c = skew/rotation
// - e, f = translation
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a rotation matrix (angle in radians).
func Rotate(radians float64) Matrix2D {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// RotateAround returns a rotation by radians about pivot.
func RotateAround(radians float64, pivot Point) Matrix2D {
	return Translate(pivot.X, pivot.Y).Multiply(Rotate(radians)).Multiply(Translate(-pivot.X, -pivot.Y))
}

// Multiply multiplies this matrix by another: result = m * other
// This applies 'other' first, then 'm'.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],        // a
		m[1]*other[0] + m[3]*other[1],        // b
		m[0]*other[2] + m[2]*other[3],        // c
		m[1]*other[2] + m[3]*other[3],        // d
		m[0]*other[4] + m[2]*other[5] + m[4], // e
		m[1]*other[4] + m[3]*other[5] + m[5], // f
	}
}

// TransformPoint applies the matrix to a point.
func (m Matrix2D) TransformPoint(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// TransformVector applies only the linear part of the matrix (no translation).
func (m Matrix2D) TransformVector(v Point) Point {
	return Point{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
	}
}

// TransformBounds transforms a box and returns its axis-aligned bounding box.
func (m Matrix2D) TransformBounds(b Bounds) Bounds {
	// Transform all four corners
	p0 := m.TransformPoint(Point{X: b.MinX, Y: b.MinY})
	p1 := m.TransformPoint(Point{X: b.MaxX, Y: b.MinY})
	p2 := m.TransformPoint(Point{X: b.MaxX, Y: b.MaxY})
	p3 := m.TransformPoint(Point{X: b.MinX, Y: b.MaxY})

	return Bounds{
		MinX: min(p0.X, p1.X, p2.X, p3.X),
		MinY: min(p0.Y, p1.Y, p2.Y, p3.Y),
		MaxX: max(p0.X, p1.X, p2.X, p3.X),
		MaxY: max(p0.Y, p1.Y, p2.Y, p3.Y),
	}
}

// Determinant returns the determinant of the matrix.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix, or Identity if not invertible.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}
}

// FromTransform creates a matrix from node transform properties.
// This composes: Translate(x, y) * Rotate(r) * Scale(sx, sy) * Translate(-ax, -ay)
// The pivot point (ax, ay) is the rotation/scale center. r is in radians.
func FromTransform(x, y, sx, sy, r, ax, ay float64) Matrix2D {
	cos := math.Cos(r)
	sin := math.Sin(r)

	return Matrix2D{
		cos * sx,                  // a
		sin * sx,                  // b
		-sin * sy,                 // c
		cos * sy,                  // d
		x - cos*sx*ax + sin*sy*ay, // e
		y - sin*sx*ax - cos*sy*ay, // f
	}
}

// Decompose splits a skew-free matrix into translation, scale and rotation
// such that FromTransform(x, y, sx, sy, r, 0, 0) reproduces it.
func (m Matrix2D) Decompose() (x, y, sx, sy, r float64) {
	sx = math.Hypot(m[0], m[1])
	if sx == 0 {
		return m[4], m[5], 0, 0, 0
	}
	r = math.Atan2(m[1], m[0])
	sy = m.Determinant() / sx
	return m[4], m[5], sx, sy, r
}

// ToSlice returns the matrix as a float64 slice for JSON serialization.
func (m Matrix2D) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}

// IsIdentity checks if this is the identity matrix (within epsilon).
func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	return math.Abs(m[0]-1) < eps &&
		math.Abs(m[1]) < eps &&
		math.Abs(m[2]) < eps &&
		math.Abs(m[3]-1) < eps &&
		math.Abs(m[4]) < eps &&
		math.Abs(m[5]) < eps
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return math.Pi * deg / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return 180 * rad / math.Pi
}
