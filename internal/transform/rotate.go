package transform

import (
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
)

func (e *Engine) rotateStart(anchor geom.Point) {
	if !e.begin(gestureRotate, e.filter(canRotate)) {
		return
	}
	e.anchor = anchor
	e.pivot = e.bounds.Center()
	e.lift(e.members, e.overlay.items)
}

// turn rotates the wrapper, and with it the lifted items and the handles,
// about the pivot. Rotation, pivot and position change together so the
// pivot stays put.
func (e *Engine) turn(angle float64) {
	local := e.pivot.Sub(e.overlay.root.Position)
	w := e.overlay.wrapper
	w.Rotation = angle
	w.Pivot = local
	w.Position = local
}

func (e *Engine) rotateUpdate(offset geom.Point) {
	if e.gesture != gestureRotate {
		return
	}
	e.turn(RotationAngle(e.pivot, e.anchor, e.anchor.Add(offset)))
}

func (e *Engine) rotateEnd(offset geom.Point) {
	if e.gesture != gestureRotate {
		return
	}
	e.turn(RotationAngle(e.pivot, e.anchor, e.anchor.Add(offset)))

	angle := e.overlay.wrapper.Rotation
	pivot := e.pivot
	e.overlay.wrapper.ResetTransform()
	members := e.finish()

	r := element.Rotation{Angle: angle, Pivot: pivot}
	updates := make([]Update, 0, len(members))
	for _, el := range members {
		u := Update{Element: el, Bounds: el.Bounds()}
		if adapt := el.Capabilities().Rotate; adapt != nil {
			u.ViewModel = adapt(el, r)
		}
		updates = append(updates, u)
	}

	if e.opts.OnRotate != nil {
		e.opts.OnRotate(RotateProgress{
			Elements: members,
			Angle:    angle,
			Pivot:    pivot,
			Updates:  updates,
		})
	}
}
