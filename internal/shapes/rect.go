package shapes

import (
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
)

// Rect returns a rectangle spec. View-model keys: x, y, width, height,
// rotation (degrees) and the style keys.
func Rect(b geom.Bounds, style Style) element.Spec {
	return element.Spec{
		Type:         TypeRect,
		Bounds:       b,
		ViewModel:    style.apply(rectModel(b, 0)),
		Capabilities: capabilities(moveRect, scaleRect, rotateAdapter),
	}
}

func rectModel(b geom.Bounds, rotation float64) element.ViewModel {
	return element.ViewModel{
		"x":        b.MinX,
		"y":        b.MinY,
		"width":    b.Width(),
		"height":   b.Height(),
		"rotation": rotation,
	}
}

func withRect(el *element.Element, b geom.Bounds) element.ViewModel {
	vm := el.ViewModel().Clone()
	for k, v := range rectModel(b, vm.Float("rotation")) {
		vm[k] = v
	}
	return vm
}

func moveRect(el *element.Element, offset geom.Point) element.ViewModel {
	return withRect(el, el.Bounds().Translate(offset))
}

// scaleRect returns the scaled model for both preview and release.
func scaleRect(el *element.Element, apply element.BoundsMapper, _ bool) element.ViewModel {
	return withRect(el, apply(el.Bounds()))
}
