package shapes

import (
	"github.com/inamate/whiteboard/internal/element"
)

// PathCommand is a path command: [op, ...args]
type PathCommand []any

// Path returns the outline of el in its own box, origin at the top-left
// corner for rectangles and at the centre for ellipses.
func Path(el *element.Element) []PathCommand {
	vm := el.ViewModel()
	switch el.Type() {
	case TypeRect:
		return rectPath(vm.Float("width"), vm.Float("height"))
	case TypeEllipse:
		return ellipsePath(vm.Float("rx"), vm.Float("ry"))
	default:
		return nil
	}
}

func rectPath(w, h float64) []PathCommand {
	return []PathCommand{
		{"M", 0.0, 0.0},
		{"L", w, 0.0},
		{"L", w, h},
		{"L", 0.0, h},
		{"Z"},
	}
}

// ellipsePath approximates an ellipse with four bezier curves.
func ellipsePath(rx, ry float64) []PathCommand {
	// k = 4 * (sqrt(2) - 1) / 3
	k := 0.5522847498
	kx, ky := rx*k, ry*k

	return []PathCommand{
		{"M", rx, 0.0},
		{"C", rx, ky, kx, ry, 0.0, ry},
		{"C", -kx, ry, -rx, ky, -rx, 0.0},
		{"C", -rx, -ky, -kx, -ry, 0.0, -ry},
		{"C", kx, -ry, rx, -ky, rx, 0.0},
		{"Z"},
	}
}
