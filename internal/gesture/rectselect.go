package gesture

import (
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/scene"
)

// MarqueeLabel labels the rubber-band node added to the surface.
const MarqueeLabel = "selection-marquee"

type RectSelectorConfig struct {
	Surface func() *scene.Node
	ToWorld func(geom.Point) geom.Point
	Enabled func() bool
	// OnSelectionDone receives the world box on release. A click without
	// movement yields a zero-size box at the press point.
	OnSelectionDone func(geom.Bounds)
}

// RectSelector draws a rubber-band box when the pointer is pressed on the
// empty surface and dragged.
type RectSelector struct {
	cfg     RectSelectorConfig
	drag    *Recognizer
	marquee *scene.Node

	start   geom.Point
	current geom.Point
}

func NewRectSelector(cfg RectSelectorConfig) *RectSelector {
	s := &RectSelector{cfg: cfg}
	s.marquee = scene.NewNode(scene.KindMarquee, MarqueeLabel)
	s.marquee.Visible = false
	s.marquee.ZIndex = 1 << 30

	// The surface is its own handle; presses on elements are filtered in
	// the down listener below.
	s.drag = NewRecognizer(Config{
		Surface: cfg.Surface,
		ToWorld: cfg.ToWorld,
		Callbacks: func() Callbacks {
			return Callbacks{OnMove: s.onMove, OnEnd: s.onEnd}
		},
	})
	return s
}

// Bind attaches to the current surface.
func (s *RectSelector) Bind() {
	surface := resolve(s.cfg.Surface)
	if surface != nil && s.marquee.Parent() != surface {
		surface.AddChild(s.marquee)
	}
	if s.drag.bound && surface == s.drag.boundSurface {
		return
	}
	s.drag.Bind()
	if surface != nil {
		s.drag.offs = append(s.drag.offs, surface.On(scene.PointerDown, s.onDown))
	}
}

func (s *RectSelector) Close() {
	s.drag.Close()
	s.marquee.Detach()
}

// Node returns the marquee node.
func (s *RectSelector) Node() *scene.Node {
	return s.marquee
}

// Marquee returns the live world box while dragging.
func (s *RectSelector) Marquee() (geom.Bounds, bool) {
	if !s.drag.Active() {
		return geom.Bounds{}, false
	}
	return geom.BoundsFromPoints(s.start, s.current), true
}

func (s *RectSelector) enabled() bool {
	return s.cfg.Enabled == nil || s.cfg.Enabled()
}

func (s *RectSelector) onDown(ev *scene.PointerEvent) {
	// Only presses on the bare surface start a marquee.
	if ev.Button != 0 || ev.Target != ev.Current || !s.enabled() {
		return
	}
	s.drag.anchor = s.drag.toWorld(ev.Screen)
	s.drag.active = true
	s.start, s.current = s.drag.anchor, s.drag.anchor
	s.sync()
}

func (s *RectSelector) onMove(offset geom.Point) {
	s.current = s.start.Add(offset)
	s.sync()
}

func (s *RectSelector) onEnd(offset geom.Point) {
	s.current = s.start.Add(offset)
	b := geom.BoundsFromPoints(s.start, s.current)
	s.marquee.Visible = false
	if s.cfg.OnSelectionDone != nil {
		s.cfg.OnSelectionDone(b)
	}
}

func (s *RectSelector) sync() {
	s.marquee.SetContent(geom.BoundsFromPoints(s.start, s.current))
	s.marquee.Visible = true
}
