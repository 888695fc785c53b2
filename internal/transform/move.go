package transform

import (
	"github.com/inamate/whiteboard/internal/geom"
)

func (e *Engine) moveStart(geom.Point) {
	if !e.begin(gestureMove, e.filter(canDrag)) {
		return
	}
	e.lift(e.members, e.overlay.items)
}

func (e *Engine) moveUpdate(offset geom.Point) {
	if e.gesture != gestureMove {
		return
	}
	e.overlay.root.Position = e.cumulative.Add(offset)
}

func (e *Engine) moveEnd(offset geom.Point) {
	if e.gesture != gestureMove {
		return
	}
	members := e.finish()

	updates := make([]Update, 0, len(members))
	for _, el := range members {
		local := LocalOffset(offset, el.TotalRotation(), e.opts.MoveFrame)
		u := Update{Element: el, Bounds: el.Bounds().Translate(local)}
		if adapt := el.Capabilities().Move; adapt != nil {
			u.ViewModel = adapt(el, local)
		}
		updates = append(updates, u)
	}

	e.cumulative = e.cumulative.Add(offset)
	e.bounds = e.bounds.Translate(offset)
	e.overlay.root.Position = e.cumulative

	if e.opts.OnMoveProgress != nil {
		e.opts.OnMoveProgress(MoveProgress{Offset: offset, Updates: updates})
	}
}
