package board

import (
	"fmt"

	"github.com/inamate/whiteboard/internal/command"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/transform"
)

func (b *Board) onMoveProgress(p transform.MoveProgress) {
	if p.Offset.IsZero() {
		return
	}
	b.commit("move", p.Updates, nil)
}

func (b *Board) onScaleProgress(p transform.ScaleProgress) {
	if b.opts.OnPreview != nil {
		b.opts.OnPreview(Preview{
			Kind:     "scale",
			Bounds:   p.Bounds,
			Done:     p.Done,
			Elements: updateViews(p.Updates),
		})
	}
	if !p.Done {
		b.invalidate()
		return
	}
	b.commit("scale", p.Updates, nil)
}

func (b *Board) onRotate(p transform.RotateProgress) {
	if p.Angle == 0 {
		return
	}
	r := element.Rotation{Angle: p.Angle, Pivot: p.Pivot}
	b.commit("rotate", p.Updates, &r)
}

// commit applies gesture results, re-indexes the touched elements and
// records a single history entry for the gesture.
func (b *Board) commit(kind string, updates []transform.Update, rot *element.Rotation) {
	var cmds command.Batch
	for _, u := range updates {
		el := u.Element
		if u.ViewModel == nil {
			b.log.Debug("no adapter, change not committed", "kind", kind, "element", el.ID(), "type", el.Type())
			continue
		}
		if _, ok := b.elements[el.ID()]; !ok {
			continue
		}
		before := el.State()
		el.SetViewModel(u.ViewModel)
		el.SetBounds(u.Bounds)
		if rot != nil {
			el.AppendRotation(*rot)
		}
		b.sel.Update(el)
		cmds = append(cmds, b.restoreCommand(el.ID(), before, el.State()))
	}
	if len(cmds) == 0 {
		return
	}
	if b.cfg.RecordTransforms {
		b.history.AddCommand(cmds)
	}
	b.scheduleRefresh()
	b.invalidate()
	b.log.Debug("transform committed", "kind", kind, "elements", len(cmds))
}

func (b *Board) restoreCommand(id string, before, after element.State) command.Command {
	return command.New(
		func() error { return b.restore(id, before) },
		func() error { return b.restore(id, after) },
	)
}

func (b *Board) restore(id string, s element.State) error {
	el, ok := b.elements[id]
	if !ok {
		return fmt.Errorf("restore %s: %w", id, ErrNotFound)
	}
	el.Restore(s)
	b.sel.Update(el)
	b.scheduleRefresh()
	return nil
}

func updateViews(updates []transform.Update) []ElementView {
	out := make([]ElementView, 0, len(updates))
	for _, u := range updates {
		v := viewOf(u.Element)
		v.Bounds = u.Bounds
		if u.ViewModel != nil {
			v.ViewModel = u.ViewModel
		}
		out = append(out, v)
	}
	return out
}
