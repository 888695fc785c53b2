package transform

import (
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
)

func (e *Engine) scaleStart(c geom.Corner) {
	if !e.begin(scaleHandle(c), e.filter(canScale)) {
		return
	}
	e.corner = c
	e.candidate = e.bounds
	e.lift(e.members, e.overlay.items)
}

// scaled computes per-element results for the candidate box and previews
// them on the lifted nodes.
func (e *Engine) scaled(offset geom.Point, done bool) []Update {
	initial := e.bounds
	e.candidate = ScaleBounds(e.corner, initial, offset)
	candidate := e.candidate

	updates := make([]Update, 0, len(e.members))
	for _, el := range e.members {
		m := el.RotationMatrix()
		apply := func(b geom.Bounds) geom.Bounds {
			return MapRotatedBounds(initial, candidate, b, m)
		}
		u := Update{Element: el, Bounds: apply(el.Bounds())}
		if adapt := el.Capabilities().Scale; adapt != nil {
			u.ViewModel = adapt(el, element.BoundsMapper(apply), done)
		}
		updates = append(updates, u)
	}
	return updates
}

func (e *Engine) scaleUpdate(c geom.Corner, offset geom.Point) {
	if e.gesture != scaleHandle(c) {
		return
	}
	updates := e.scaled(offset, false)
	for _, u := range updates {
		u.Element.Node().SetContent(u.Bounds)
	}
	e.redraw()
	if e.opts.OnScaleProgress != nil {
		e.opts.OnScaleProgress(ScaleProgress{Bounds: e.candidate, Updates: updates})
	}
}

func (e *Engine) scaleEnd(c geom.Corner, offset geom.Point) {
	if e.gesture != scaleHandle(c) {
		return
	}
	updates := e.scaled(offset, true)
	final := e.candidate
	e.finish()

	// The next scale composes from the box this one ended at.
	e.bounds = final
	e.redraw()

	if e.opts.OnScaleProgress != nil {
		e.opts.OnScaleProgress(ScaleProgress{Bounds: final, Updates: updates, Done: true})
	}
}
