// Package element defines the unit of selection and manipulation on the
// board: identity, committed geometry, an opaque view-model, an ordered
// rotation history and a capability descriptor with optional adapters.
package element

import (
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/scene"
)

// ViewModel is type-specific data owned by whoever renders the element.
type ViewModel map[string]any

// Clone returns a shallow copy.
func (vm ViewModel) Clone() ViewModel {
	if vm == nil {
		return nil
	}
	out := make(ViewModel, len(vm))
	for k, v := range vm {
		out[k] = v
	}
	return out
}

// Float reads a numeric field, returning 0 when absent or not a number.
func (vm ViewModel) Float(key string) float64 {
	switch n := vm[key].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Rotation is one finalized rotate gesture: an angle in radians about a pivot.
type Rotation struct {
	Angle float64    `json:"angle"`
	Pivot geom.Point `json:"pivot"`
}

// BoundsMapper maps an old box onto its scaled position.
type BoundsMapper func(geom.Bounds) geom.Bounds

// MoveAdapter returns the view-model after moving el by offset, expressed in
// the element's own (pre-rotation) frame.
type MoveAdapter func(el *Element, offset geom.Point) ViewModel

// ScaleAdapter returns the view-model after scaling el through apply.
// done is false for live preview and true exactly once on release.
type ScaleAdapter func(el *Element, apply BoundsMapper, done bool) ViewModel

// RotateAdapter returns the view-model after appending r to el's history.
type RotateAdapter func(el *Element, r Rotation) ViewModel

// Capabilities states what the transform engine may do with an element.
// A nil adapter means the transform is computed but never persisted.
type Capabilities struct {
	Selectable bool
	Draggable  bool
	Scalable   bool
	Rotatable  bool

	Move   MoveAdapter
	Scale  ScaleAdapter
	Rotate RotateAdapter
}

// Spec describes an element to create.
type Spec struct {
	Type         string
	Bounds       geom.Bounds
	ViewModel    ViewModel
	Capabilities Capabilities
}

// State is a copy of the mutable part of an element, used for undo.
type State struct {
	Bounds    geom.Bounds
	ViewModel ViewModel
	Rotations []Rotation
}

// Element is a selectable, manipulable board object.
type Element struct {
	id        string
	typ       string
	bounds    geom.Bounds
	viewModel ViewModel
	rotations []Rotation
	caps      Capabilities
	node      *scene.Node
}

// New creates an element with a fixed id and its scene node.
func New(id string, spec Spec) *Element {
	e := &Element{
		id:        id,
		typ:       spec.Type,
		bounds:    spec.Bounds,
		viewModel: spec.ViewModel.Clone(),
		caps:      spec.Capabilities,
	}
	if e.viewModel == nil {
		e.viewModel = ViewModel{}
	}
	e.node = scene.NewNode(scene.KindElement, "element:"+id)
	e.node.ID = id
	e.node.Interactive = spec.Capabilities.Selectable
	e.SyncNode()
	return e
}

func (e *Element) ID() string                 { return e.id }
func (e *Element) Type() string               { return e.typ }
func (e *Element) Bounds() geom.Bounds        { return e.bounds }
func (e *Element) Capabilities() Capabilities { return e.caps }
func (e *Element) Node() *scene.Node          { return e.node }

// ViewModel returns the committed view-model. Callers must not mutate it.
func (e *Element) ViewModel() ViewModel {
	return e.viewModel
}

// Rotations returns a copy of the rotation history.
func (e *Element) Rotations() []Rotation {
	return append([]Rotation(nil), e.rotations...)
}

// RotationMatrix composes the rotation history, earliest entry first.
func (e *Element) RotationMatrix() geom.Matrix2D {
	m := geom.Identity()
	for _, r := range e.rotations {
		m = geom.RotateAround(r.Angle, r.Pivot).Multiply(m)
	}
	return m
}

// TotalRotation returns the summed angle of the history in radians.
func (e *Element) TotalRotation() float64 {
	var total float64
	for _, r := range e.rotations {
		total += r.Angle
	}
	return total
}

// WorldBounds returns the axis-aligned box of the committed geometry after
// applying the rotation history.
func (e *Element) WorldBounds() geom.Bounds {
	if len(e.rotations) == 0 {
		return e.bounds
	}
	return e.RotationMatrix().TransformBounds(e.bounds)
}

// SetBounds replaces the committed geometry.
func (e *Element) SetBounds(b geom.Bounds) {
	e.bounds = b
	e.SyncNode()
}

// SetViewModel replaces the committed view-model. nil is ignored.
func (e *Element) SetViewModel(vm ViewModel) {
	if vm == nil {
		return
	}
	e.viewModel = vm.Clone()
}

// AppendRotation adds a finalized rotation to the history.
func (e *Element) AppendRotation(r Rotation) {
	e.rotations = append(e.rotations, r)
	e.SyncNode()
}

// State captures the mutable part of the element.
func (e *Element) State() State {
	return State{
		Bounds:    e.bounds,
		ViewModel: e.viewModel.Clone(),
		Rotations: e.Rotations(),
	}
}

// Restore applies a captured state.
func (e *Element) Restore(s State) {
	e.bounds = s.Bounds
	e.viewModel = s.ViewModel.Clone()
	e.rotations = append([]Rotation(nil), s.Rotations...)
	e.SyncNode()
}

// SyncNode copies committed geometry into the scene node.
func (e *Element) SyncNode() {
	e.node.SetContent(e.bounds)
	e.node.ContentTransform = e.RotationMatrix()
}
