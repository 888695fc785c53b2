// Package gesture turns pointer events on scene nodes into drag gestures.
package gesture

import (
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/scene"
)

// Callbacks receive world-space gesture progress. Any may be nil.
type Callbacks struct {
	OnStart func(anchor geom.Point)
	OnMove  func(offset geom.Point)
	OnEnd   func(offset geom.Point)
}

// Config holds the late-bound parts of a recognizer. Every accessor is
// resolved when an event arrives, so the handle can be destroyed and
// recreated between gestures without building a new recognizer.
type Config struct {
	// Handle is the node whose press starts the gesture.
	Handle func() *scene.Node
	// Surface receives move and release events anywhere, so the pointer may
	// leave the handle mid-drag.
	Surface func() *scene.Node
	// ToWorld converts screen points; nil means screen equals world.
	ToWorld func(geom.Point) geom.Point
	// Callbacks is consulted at event time.
	Callbacks func() Callbacks
}

// Recognizer is an Idle/Active state machine for one handle.
type Recognizer struct {
	cfg Config

	active bool
	anchor geom.Point

	boundHandle  *scene.Node
	boundSurface *scene.Node
	bound        bool
	offs         []func()
}

func NewRecognizer(cfg Config) *Recognizer {
	return &Recognizer{cfg: cfg}
}

// Bind attaches listeners to the current handle and surface. It is cheap to
// call repeatedly: listeners are only moved when either node changed.
func (r *Recognizer) Bind() {
	handle := resolve(r.cfg.Handle)
	surface := resolve(r.cfg.Surface)
	if r.bound && handle == r.boundHandle && surface == r.boundSurface {
		return
	}
	r.release()
	r.boundHandle, r.boundSurface, r.bound = handle, surface, true

	if handle != nil {
		r.offs = append(r.offs,
			handle.On(scene.PointerDown, r.onDown),
			handle.On(scene.PointerUp, r.onUp),
		)
	}
	if surface != nil {
		r.offs = append(r.offs,
			surface.On(scene.PointerMove, r.onMove),
			surface.On(scene.PointerUp, r.onUp),
		)
	}
}

// Close releases every listener and drops any in-flight gesture.
func (r *Recognizer) Close() {
	r.release()
	r.active = false
}

func (r *Recognizer) release() {
	for _, off := range r.offs {
		off()
	}
	r.offs = nil
	r.boundHandle, r.boundSurface, r.bound = nil, nil, false
}

// Active reports whether a gesture is in progress.
func (r *Recognizer) Active() bool {
	return r.active
}

func (r *Recognizer) toWorld(p geom.Point) geom.Point {
	if r.cfg.ToWorld == nil {
		return p
	}
	return r.cfg.ToWorld(p)
}

func (r *Recognizer) callbacks() Callbacks {
	if r.cfg.Callbacks == nil {
		return Callbacks{}
	}
	return r.cfg.Callbacks()
}

func (r *Recognizer) onDown(ev *scene.PointerEvent) {
	if ev.Button != 0 {
		return
	}
	ev.StopPropagation()
	r.anchor = r.toWorld(ev.Screen)
	r.active = true
	if cb := r.callbacks(); cb.OnStart != nil {
		cb.OnStart(r.anchor)
	}
}

func (r *Recognizer) onMove(ev *scene.PointerEvent) {
	if !r.active {
		return
	}
	offset := r.toWorld(ev.Screen).Sub(r.anchor)
	if cb := r.callbacks(); cb.OnMove != nil {
		cb.OnMove(offset)
	}
}

func (r *Recognizer) onUp(ev *scene.PointerEvent) {
	if !r.active {
		return
	}
	offset := r.toWorld(ev.Screen).Sub(r.anchor)
	r.active = false
	r.anchor = geom.Point{}
	if cb := r.callbacks(); cb.OnEnd != nil {
		cb.OnEnd(offset)
	}
}

func resolve(fn func() *scene.Node) *scene.Node {
	if fn == nil {
		return nil
	}
	return fn()
}
