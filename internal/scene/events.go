package scene

import "github.com/inamate/whiteboard/internal/geom"

// EventType names a pointer event.
type EventType string

const (
	PointerDown EventType = "pointerdown"
	PointerMove EventType = "pointermove"
	PointerUp   EventType = "pointerup"
)

// PointerEvent is a pointer event in root (screen) coordinates.
type PointerEvent struct {
	Type   EventType
	Screen geom.Point
	Button int

	// Target is the hit node; Current is the node whose listeners run.
	Target  *Node
	Current *Node

	stopped bool
}

// StopPropagation keeps the event from reaching ancestors of the current
// node. Remaining listeners on the current node still run.
func (e *PointerEvent) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether propagation was stopped.
func (e *PointerEvent) Stopped() bool {
	return e.stopped
}

// Handler receives pointer events.
type Handler func(*PointerEvent)

type listener struct {
	id int
	fn Handler
}

// On subscribes h to events of type t reaching this node and returns the
// matching unsubscribe function.
func (n *Node) On(t EventType, h Handler) (off func()) {
	if n.listeners == nil {
		n.listeners = make(map[EventType][]listener)
	}
	n.nextListener++
	id := n.nextListener
	n.listeners[t] = append(n.listeners[t], listener{id: id, fn: h})
	return func() {
		ls := n.listeners[t]
		for i, l := range ls {
			if l.id == id {
				n.listeners[t] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns how many listeners of type t the node holds.
func (n *Node) ListenerCount(t EventType) int {
	return len(n.listeners[t])
}

// HitTest returns the topmost visible interactive node whose content
// contains the root-space point p, or nil.
func HitTest(root *Node, p geom.Point) *Node {
	if root == nil {
		return nil
	}
	return hitTestNode(root, p)
}

// hitTestNode recursively tests a node and its children.
// Children are tested first (they're on top in painter's order).
func hitTestNode(node *Node, p geom.Point) *Node {
	if node == nil || !node.Visible {
		return nil
	}

	// Test children first (front to back = reverse order)
	children := node.sortedChildren()
	for i := len(children) - 1; i >= 0; i-- {
		if hit := hitTestNode(children[i], p); hit != nil {
			return hit
		}
	}

	if node.Interactive && node.Drawable {
		local := node.ContentWorldTransform().Invert().TransformPoint(p)
		if node.Content.Contains(local) {
			return node
		}
	}

	return nil
}

// Dispatch delivers ev to the hit node and bubbles it up to root until a
// listener stops propagation. When nothing is hit, root is the target.
func Dispatch(root *Node, ev *PointerEvent) {
	if root == nil || ev == nil {
		return
	}
	target := HitTest(root, ev.Screen)
	if target == nil {
		target = root
	}
	ev.Target = target

	// Capture the path up front: listeners may reparent nodes.
	var path []*Node
	for n := target; n != nil; n = n.parent {
		path = append(path, n)
	}

	for _, n := range path {
		ls := append([]listener(nil), n.listeners[ev.Type]...)
		ev.Current = n
		for _, l := range ls {
			l.fn(ev)
		}
		if ev.stopped {
			return
		}
	}
}
