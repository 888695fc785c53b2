package gesture

import (
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/scene"
)

type PannerConfig struct {
	Surface func() *scene.Node
	Enabled func() bool
	// Pan receives screen-space deltas.
	Pan func(delta geom.Point)
}

// Panner drags the camera while the pointer is held on the surface.
type Panner struct {
	cfg    PannerConfig
	active bool
	last   geom.Point

	bound *scene.Node
	offs  []func()
}

func NewPanner(cfg PannerConfig) *Panner {
	return &Panner{cfg: cfg}
}

func (p *Panner) Bind() {
	surface := resolve(p.cfg.Surface)
	if surface == p.bound && p.offs != nil {
		return
	}
	p.Close()
	p.bound = surface
	if surface == nil {
		return
	}
	p.offs = []func(){
		surface.On(scene.PointerDown, p.onDown),
		surface.On(scene.PointerMove, p.onMove),
		surface.On(scene.PointerUp, p.onUp),
	}
}

func (p *Panner) Close() {
	for _, off := range p.offs {
		off()
	}
	p.offs = nil
	p.bound = nil
	p.active = false
}

func (p *Panner) Active() bool {
	return p.active
}

func (p *Panner) onDown(ev *scene.PointerEvent) {
	if ev.Button != 0 || (p.cfg.Enabled != nil && !p.cfg.Enabled()) {
		return
	}
	p.active = true
	p.last = ev.Screen
}

func (p *Panner) onMove(ev *scene.PointerEvent) {
	if !p.active {
		return
	}
	delta := ev.Screen.Sub(p.last)
	p.last = ev.Screen
	if p.cfg.Pan != nil && !delta.IsZero() {
		p.cfg.Pan(delta)
	}
}

func (p *Panner) onUp(ev *scene.PointerEvent) {
	if !p.active {
		return
	}
	p.onMove(ev)
	p.active = false
}
