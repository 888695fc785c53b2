package shapes

import (
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
)

// Ellipse returns an ellipse spec inscribed in b. View-model keys: cx, cy,
// rx, ry, rotation (degrees) and the style keys.
func Ellipse(b geom.Bounds, style Style) element.Spec {
	return element.Spec{
		Type:         TypeEllipse,
		Bounds:       b,
		ViewModel:    style.apply(ellipseModel(b, 0)),
		Capabilities: capabilities(moveEllipse, scaleEllipse, rotateAdapter),
	}
}

func ellipseModel(b geom.Bounds, rotation float64) element.ViewModel {
	c := b.Center()
	return element.ViewModel{
		"cx":       c.X,
		"cy":       c.Y,
		"rx":       b.Width() / 2,
		"ry":       b.Height() / 2,
		"rotation": rotation,
	}
}

func withEllipse(el *element.Element, b geom.Bounds) element.ViewModel {
	vm := el.ViewModel().Clone()
	for k, v := range ellipseModel(b, vm.Float("rotation")) {
		vm[k] = v
	}
	return vm
}

func moveEllipse(el *element.Element, offset geom.Point) element.ViewModel {
	return withEllipse(el, el.Bounds().Translate(offset))
}

func scaleEllipse(el *element.Element, apply element.BoundsMapper, _ bool) element.ViewModel {
	return withEllipse(el, apply(el.Bounds()))
}
