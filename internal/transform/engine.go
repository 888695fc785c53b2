// Package transform implements interactive move, scale and rotate of the
// current selection. Gestures preview on an overlay in the scene and hand
// their results to caller hooks; committing is the caller's job.
package transform

import (
	"log/slog"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/gesture"
	"github.com/inamate/whiteboard/internal/scene"
	"github.com/inamate/whiteboard/internal/viewport"
)

// SelectionSource is what the engine needs from the selection manager.
type SelectionSource interface {
	Selection() []*element.Element
	Subscribe(fn func([]*element.Element)) (unsubscribe func())
}

// Update is the outcome of a gesture for one element.
type Update struct {
	Element *element.Element
	// ViewModel is nil when the element has no adapter for the gesture.
	ViewModel element.ViewModel
	// Bounds is the element's new pre-rotation geometry.
	Bounds geom.Bounds
}

type MoveProgress struct {
	Offset  geom.Point
	Updates []Update
}

type ScaleProgress struct {
	Bounds  geom.Bounds
	Updates []Update
	Done    bool
}

type RotateProgress struct {
	Elements []*element.Element
	Angle    float64
	Pivot    geom.Point
	Updates  []Update
}

type Options struct {
	Viewport func() *viewport.Viewport

	// Overlay geometry in screen pixels.
	Padding            float64
	HandleSize         float64
	RotateHandleOffset float64

	MoveFrame MoveFrame

	OnMoveProgress  func(MoveProgress)
	OnScaleProgress func(ScaleProgress)
	OnRotate        func(RotateProgress)

	Logger *slog.Logger
}

const (
	gestureMove   = "move"
	gestureRotate = "rotate"
)

// Engine drives the transform handles for one selection source.
// It is not safe for concurrent use.
type Engine struct {
	opts      Options
	selection SelectionSource
	log       *slog.Logger

	overlay *overlay
	recs    map[string]*gesture.Recognizer
	unsub   func()

	selected   []*element.Element
	bounds     geom.Bounds // committed union, world space
	hasBounds  bool
	cumulative geom.Point

	// In-flight gesture
	gesture   string
	corner    geom.Corner
	members   []*element.Element
	parents   map[string]*scene.Node
	candidate geom.Bounds
	anchor    geom.Point
	pivot     geom.Point
}

func New(sel SelectionSource, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Viewport == nil {
		opts.Viewport = func() *viewport.Viewport { return nil }
	}
	if opts.HandleSize <= 0 {
		opts.HandleSize = 10
	}
	if opts.MoveFrame == "" {
		opts.MoveFrame = FrameLocal
	}
	e := &Engine{
		opts:      opts,
		selection: sel,
		log:       opts.Logger,
		overlay:   newOverlay(),
		recs:      make(map[string]*gesture.Recognizer),
		parents:   make(map[string]*scene.Node),
	}

	e.addRecognizer(handleMove, gesture.Callbacks{
		OnStart: e.moveStart,
		OnMove:  e.moveUpdate,
		OnEnd:   e.moveEnd,
	})
	for _, c := range geom.Corners {
		e.addRecognizer(scaleHandle(c), gesture.Callbacks{
			OnStart: func(geom.Point) { e.scaleStart(c) },
			OnMove:  func(off geom.Point) { e.scaleUpdate(c, off) },
			OnEnd:   func(off geom.Point) { e.scaleEnd(c, off) },
		})
	}
	e.addRecognizer(handleRotate, gesture.Callbacks{
		OnStart: e.rotateStart,
		OnMove:  e.rotateUpdate,
		OnEnd:   e.rotateEnd,
	})

	e.unsub = sel.Subscribe(e.onSelectionChange)
	e.onSelectionChange(sel.Selection())
	return e
}

func (e *Engine) addRecognizer(label string, cb gesture.Callbacks) {
	e.recs[label] = gesture.NewRecognizer(gesture.Config{
		Handle:    func() *scene.Node { return e.overlay.handles[label] },
		Surface:   e.surface,
		ToWorld:   e.toWorld,
		Callbacks: func() gesture.Callbacks { return cb },
	})
}

func (e *Engine) surface() *scene.Node {
	if vp := e.opts.Viewport(); vp != nil {
		return vp.Root()
	}
	return nil
}

func (e *Engine) toWorld(p geom.Point) geom.Point {
	if vp := e.opts.Viewport(); vp != nil {
		return vp.ToWorld(p)
	}
	return p
}

// px converts screen pixels to world units at the current zoom.
func (e *Engine) px(v float64) float64 {
	if vp := e.opts.Viewport(); vp != nil && vp.Zoom() > 0 {
		return v / vp.Zoom()
	}
	return v
}

func (e *Engine) onSelectionChange(sel []*element.Element) {
	if e.gesture != "" {
		e.cancel()
	}
	e.selected = sel
	e.cumulative = geom.Point{}
	e.recompute()
	e.redraw()
}

// Refresh re-reads committed geometry of the selection and redraws the
// overlay there. Call it once a commit has fully landed. The cumulative
// move offset survives until the selection changes.
func (e *Engine) Refresh() {
	if e.gesture != "" {
		return
	}
	e.selected = e.selection.Selection()
	e.recompute()
	e.redraw()
}

func (e *Engine) recompute() {
	all := make([]geom.Bounds, 0, len(e.selected))
	for _, el := range e.selected {
		all = append(all, el.WorldBounds())
	}
	e.bounds, e.hasBounds = geom.UnionAll(all)
}

// Bounds returns the live union: the scale candidate while scaling,
// otherwise the committed union shifted by finished moves.
func (e *Engine) Bounds() (geom.Bounds, bool) {
	if !e.hasBounds {
		return geom.Bounds{}, false
	}
	if e.isScaling() {
		return e.candidate, true
	}
	return e.bounds, true
}

// Cumulative returns the summed offset of the moves since the selection
// last changed.
func (e *Engine) Cumulative() geom.Point {
	return e.cumulative
}

// Active reports whether a gesture is in progress.
func (e *Engine) Active() bool {
	return e.gesture != ""
}

// Overlay returns the overlay root node.
func (e *Engine) Overlay() *scene.Node {
	return e.overlay.root
}

// Handles returns the screen box of every visible handle by label.
func (e *Engine) Handles() map[string]geom.Bounds {
	out := make(map[string]geom.Bounds)
	if !e.overlay.root.Visible {
		return out
	}
	for label, h := range e.overlay.handles {
		if !h.Visible {
			continue
		}
		if b, ok := h.Bounds(); ok {
			out[label] = b
		}
	}
	return out
}

// Close unbinds every recognizer and removes the overlay from the scene.
func (e *Engine) Close() {
	if e.gesture != "" {
		e.cancel()
	}
	for _, r := range e.recs {
		r.Close()
	}
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
	e.overlay.root.Detach()
}

func (e *Engine) isScaling() bool {
	return e.gesture != "" && e.gesture != gestureMove && e.gesture != gestureRotate
}

func (e *Engine) filter(keep func(element.Capabilities) bool) []*element.Element {
	var out []*element.Element
	for _, el := range e.selected {
		if keep(el.Capabilities()) {
			out = append(out, el)
		}
	}
	return out
}

// lift moves element nodes under into without visual change, remembering
// where each came from.
func (e *Engine) lift(els []*element.Element, into *scene.Node) {
	for _, el := range els {
		node := el.Node()
		if _, saved := e.parents[el.ID()]; !saved {
			e.parents[el.ID()] = node.Parent()
		}
		into.Reparent(node)
	}
}

// drop returns lifted nodes to their original parents with a zero local
// transform.
func (e *Engine) drop(els []*element.Element) {
	for _, el := range els {
		node := el.Node()
		parent, ok := e.parents[el.ID()]
		if !ok {
			continue
		}
		delete(e.parents, el.ID())
		if parent != nil {
			parent.AddChild(node)
		} else {
			node.Detach()
		}
		node.ResetTransform()
		el.SyncNode()
	}
}

// cancel abandons an in-flight gesture without reporting results.
func (e *Engine) cancel() {
	e.drop(e.members)
	e.overlay.wrapper.ResetTransform()
	e.overlay.root.Position = e.cumulative
	e.gesture = ""
	e.members = nil
	e.log.Debug("transform gesture cancelled")
}

func (e *Engine) begin(kind string, members []*element.Element) bool {
	if len(e.selected) == 0 || !e.hasBounds || len(members) == 0 {
		return false
	}
	e.gesture = kind
	e.members = members
	return true
}

func (e *Engine) finish() []*element.Element {
	members := e.members
	e.drop(members)
	e.gesture = ""
	e.members = nil
	return members
}
