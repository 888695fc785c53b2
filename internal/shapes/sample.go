package shapes

import (
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
)

// Sample returns a few shapes to start a fresh board with.
func Sample() []element.Spec {
	return []element.Spec{
		Rect(geom.NewBounds(200, 200, 320, 280), DefaultStyle()),
		Ellipse(geom.NewBounds(420, 180, 520, 280), Style{
			Fill: "#0f3460", Stroke: "#ffffff", StrokeWidth: 2, Opacity: 1,
		}),
		Rect(geom.NewBounds(600, 220, 680, 300), Style{
			Fill: "#16213e", Stroke: "#e94560", StrokeWidth: 3, Opacity: 1,
		}),
	}
}
