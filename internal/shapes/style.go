// Package shapes provides the built-in element types: their view-models,
// transform adapters and outline paths for the host to draw.
package shapes

import (
	"errors"
	"fmt"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
)

const (
	TypeRect    = "rect"
	TypeEllipse = "ellipse"
)

var ErrUnknownType = errors.New("unknown shape type")

type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

func DefaultStyle() Style {
	return Style{Fill: "#e94560", Stroke: "#000000", StrokeWidth: 2, Opacity: 1}
}

func (s Style) apply(vm element.ViewModel) element.ViewModel {
	vm["fill"] = s.Fill
	vm["stroke"] = s.Stroke
	vm["strokeWidth"] = s.StrokeWidth
	vm["opacity"] = s.Opacity
	return vm
}

// New builds the element spec for a shape type.
func New(typ string, b geom.Bounds, style Style) (element.Spec, error) {
	switch typ {
	case TypeRect:
		return Rect(b, style), nil
	case TypeEllipse:
		return Ellipse(b, style), nil
	default:
		return element.Spec{}, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
}

// capabilities grants every transform with the given adapters.
func capabilities(move element.MoveAdapter, scale element.ScaleAdapter, rotate element.RotateAdapter) element.Capabilities {
	return element.Capabilities{
		Selectable: true,
		Draggable:  true,
		Scalable:   true,
		Rotatable:  true,
		Move:       move,
		Scale:      scale,
		Rotate:     rotate,
	}
}

// rotateAdapter adds the angle, in degrees, to the "rotation" key.
func rotateAdapter(el *element.Element, r element.Rotation) element.ViewModel {
	vm := el.ViewModel().Clone()
	vm["rotation"] = vm.Float("rotation") + geom.RadToDeg(r.Angle)
	return vm
}
