// Package scene is the retained node tree the board composes for its host:
// element nodes, the transform overlay and its handles all live here.
// Coordinates at the root are screen coordinates; the viewport node
// carries the camera transform.
package scene

import (
	"sort"

	"github.com/inamate/whiteboard/internal/geom"
)

// Kind tags what a node represents for the host.
type Kind string

const (
	KindRoot      Kind = "root"
	KindContainer Kind = "container"
	KindElement   Kind = "element"
	KindHandle    Kind = "handle"
	KindMarquee   Kind = "marquee"
)

// Node is a retained scene node.
// Its local transform is Translate(Position) * Rotate(Rotation) *
// Scale(ScaleX, ScaleY) * Translate(-Pivot); drawable content is further
// transformed by ContentTransform before the local transform applies.
type Node struct {
	ID    string
	Label string
	Kind  Kind

	// Local transform state
	Position geom.Point
	Rotation float64 // radians
	Pivot    geom.Point
	ScaleX   float64
	ScaleY   float64

	// Drawable content in content space
	Content          geom.Bounds
	Drawable         bool
	ContentTransform geom.Matrix2D

	ZIndex      int
	Visible     bool
	Interactive bool // participates in hit testing

	parent       *Node
	children     []*Node
	listeners    map[EventType][]listener
	nextListener int
}

// NewNode creates a visible node with identity transforms.
func NewNode(kind Kind, label string) *Node {
	return &Node{
		Label:            label,
		Kind:             kind,
		ScaleX:           1,
		ScaleY:           1,
		ContentTransform: geom.Identity(),
		Visible:          true,
	}
}

// SetContent makes the node drawable with the given content box.
func (n *Node) SetContent(b geom.Bounds) {
	n.Content = b
	n.Drawable = true
}

// Parent returns the parent node, or nil for a detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the children in insertion order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// ChildByLabel returns the first direct child with the given label.
func (n *Node) ChildByLabel(label string) *Node {
	for _, c := range n.children {
		if c.Label == label {
			return c
		}
	}
	return nil
}

// AddChild appends child, detaching it from any previous parent first.
// The child's local transform is kept as is.
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child if it belongs to n.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Detach removes the node from its parent.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// Reparent moves child under n while keeping its world transform, so the
// node does not jump on screen. The resulting local transform has a zero
// pivot. Assumes no skew in the combined transforms.
func (n *Node) Reparent(child *Node) {
	if child == nil || child == n {
		return
	}
	world := child.WorldTransform()
	n.AddChild(child)
	local := n.WorldTransform().Invert().Multiply(world)
	x, y, sx, sy, r := local.Decompose()
	child.Position = geom.Point{X: x, Y: y}
	child.ScaleX, child.ScaleY = sx, sy
	child.Rotation = r
	child.Pivot = geom.Point{}
}

// ResetTransform zeroes position, rotation and pivot and restores unit scale.
func (n *Node) ResetTransform() {
	n.Position = geom.Point{}
	n.Rotation = 0
	n.Pivot = geom.Point{}
	n.ScaleX, n.ScaleY = 1, 1
}

// LocalTransform computes the node's transform relative to its parent.
func (n *Node) LocalTransform() geom.Matrix2D {
	return geom.FromTransform(n.Position.X, n.Position.Y, n.ScaleX, n.ScaleY, n.Rotation, n.Pivot.X, n.Pivot.Y)
}

// WorldTransform computes parent * local up to the root.
func (n *Node) WorldTransform() geom.Matrix2D {
	m := n.LocalTransform()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalTransform().Multiply(m)
	}
	return m
}

// ContentWorldTransform maps content space to root space.
func (n *Node) ContentWorldTransform() geom.Matrix2D {
	return n.WorldTransform().Multiply(n.ContentTransform)
}

// Bounds returns the root-space bounding box of the node's visible content
// and descendants, and false if there is nothing visible to bound.
func (n *Node) Bounds() (geom.Bounds, bool) {
	if !n.Visible {
		return geom.Bounds{}, false
	}
	var result geom.Bounds
	found := false
	if n.Drawable {
		result = n.ContentWorldTransform().TransformBounds(n.Content)
		found = true
	}
	for _, c := range n.children {
		b, ok := c.Bounds()
		if !ok {
			continue
		}
		if found {
			result = result.Union(b)
		} else {
			result = b
			found = true
		}
	}
	return result, found
}

// Root returns the topmost ancestor.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// IsDescendantOf reports whether n is ancestor or lies below it.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// sortedChildren returns the children in painter's order (back to front).
func (n *Node) sortedChildren() []*Node {
	out := append([]*Node(nil), n.children...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}
