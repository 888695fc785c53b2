package board

import (
	"fmt"

	"github.com/inamate/whiteboard/internal/command"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/scene"
	"github.com/inamate/whiteboard/internal/shapes"
)

type Tool string

const (
	ToolSelect Tool = "select"
	ToolPan    Tool = "pan"
)

func (b *Board) SetTool(t Tool) error {
	switch t {
	case ToolSelect, ToolPan:
		b.tool = t
		return nil
	default:
		return fmt.Errorf("unknown tool %q", t)
	}
}

func (b *Board) Tool() Tool {
	return b.tool
}

// PointerInput is a pointer event in screen coordinates.
type PointerInput struct {
	Type   scene.EventType `json:"type"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Button int             `json:"button"`
}

// HandlePointer dispatches a pointer event through the scene.
func (b *Board) HandlePointer(in PointerInput) {
	switch in.Type {
	case scene.PointerDown, scene.PointerMove, scene.PointerUp:
	default:
		b.log.Debug("ignoring pointer event", "type", in.Type)
		return
	}
	scene.Dispatch(b.vp.Root(), &scene.PointerEvent{
		Type:   in.Type,
		Screen: geom.Point{X: in.X, Y: in.Y},
		Button: in.Button,
	})
	b.invalidate()
}

// HandleKey delivers a key event to the undo/redo bindings.
func (b *Board) HandleKey(ev command.KeyEvent) {
	b.keys.Emit(ev)
}

// onPressElement selects an unselected element when it is pressed with the
// select tool. Presses on transform handles never get here.
func (b *Board) onPressElement(ev *scene.PointerEvent) {
	if b.tool != ToolSelect || ev.Button != 0 || ev.Target == nil || ev.Target.Kind != scene.KindElement {
		return
	}
	el, ok := b.elements[ev.Target.ID]
	if !ok || b.sel.IsSelected(el.ID()) {
		return
	}
	b.sel.SetSelection([]*element.Element{el})
}

// --- Viewport ---

func (b *Board) Pan(delta geom.Point) {
	b.vp.Pan(delta)
	b.afterCamera()
}

func (b *Board) ZoomAt(factor float64, anchor geom.Point) {
	b.vp.ZoomAt(factor, anchor)
	b.afterCamera()
}

func (b *Board) Resize(width, height float64) {
	b.vp.Resize(width, height)
	b.invalidate()
}

// afterCamera redraws handles, whose size is fixed in screen pixels.
func (b *Board) afterCamera() {
	if !b.engine.Active() {
		b.engine.Refresh()
	}
	b.invalidate()
}

// --- Host views ---

// ElementView is the host-facing description of an element.
type ElementView struct {
	ID          string               `json:"id"`
	Type        string               `json:"type"`
	Bounds      geom.Bounds          `json:"bounds"`
	WorldBounds geom.Bounds          `json:"worldBounds"`
	ViewModel   element.ViewModel    `json:"viewModel"`
	Rotations   []element.Rotation   `json:"rotations,omitempty"`
	Path        []shapes.PathCommand `json:"path,omitempty"`
}

func viewOf(el *element.Element) ElementView {
	return ElementView{
		ID:          el.ID(),
		Type:        el.Type(),
		Bounds:      el.Bounds(),
		WorldBounds: el.WorldBounds(),
		ViewModel:   el.ViewModel(),
		Rotations:   el.Rotations(),
		Path:        shapes.Path(el),
	}
}

// Snapshot describes every element in creation order.
func (b *Board) Snapshot() []ElementView {
	out := make([]ElementView, 0, len(b.order))
	for _, el := range b.Elements() {
		out = append(out, viewOf(el))
	}
	return out
}

// Render compiles the scene, elements and overlay, in painter's order.
func (b *Board) Render() []scene.DrawCommand {
	return scene.CompileDrawCommands(b.vp.Root())
}

// Overlay returns the screen box of every visible transform handle.
func (b *Board) Overlay() map[string]geom.Bounds {
	return b.engine.Handles()
}

// Marquee returns the live rubber-band box in world space.
func (b *Board) Marquee() (geom.Bounds, bool) {
	return b.rect.Marquee()
}
