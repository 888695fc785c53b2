// Package board wires the whiteboard core together: viewport, scene,
// elements, selection, the transform engine and undo history. A Board is
// driven from a single goroutine.
package board

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/inamate/whiteboard/internal/command"
	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/gesture"
	"github.com/inamate/whiteboard/internal/scene"
	"github.com/inamate/whiteboard/internal/selection"
	"github.com/inamate/whiteboard/internal/transform"
	"github.com/inamate/whiteboard/internal/typeid"
	"github.com/inamate/whiteboard/internal/viewport"
)

var (
	ErrNotFound = errors.New("element not found")
	ErrExists   = errors.New("element already exists")
)

// LayerLabel labels the container that element nodes live in.
const LayerLabel = "elements"

// Preview describes in-gesture geometry that is not committed yet.
type Preview struct {
	Kind     string        `json:"kind"`
	Bounds   geom.Bounds   `json:"bounds"`
	Done     bool          `json:"done"`
	Elements []ElementView `json:"elements"`
}

type Options struct {
	OnSelectionChange func(ids []string)
	OnPreview         func(Preview)
	OnHistoryChange   func(command.History)
	// OnInvalidate fires whenever the rendered scene may have changed.
	OnInvalidate func()

	// NewID defaults to typeid element ids.
	NewID  func() string
	Logger *slog.Logger
}

type Board struct {
	cfg  *config.Config
	opts Options
	log  *slog.Logger

	vp    *viewport.Viewport
	layer *scene.Node

	elements map[string]*element.Element
	order    []string
	zseq     int

	sel     *selection.Manager
	engine  *transform.Engine
	history *command.Manager
	keys    *command.KeyBus
	rect    *gesture.RectSelector
	panner  *gesture.Panner

	tool           Tool
	refreshPending bool
	closers        []func()
}

// New builds a board. A nil cfg uses config.Default().
func New(cfg *config.Config, opts Options) (*Board, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	undo, err := command.ParseChord(cfg.UndoChord)
	if err != nil {
		return nil, err
	}
	redo, err := command.ParseChord(cfg.RedoChord)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.NewID == nil {
		opts.NewID = typeid.NewElementID
	}

	b := &Board{
		cfg:      cfg,
		opts:     opts,
		log:      opts.Logger,
		vp:       viewport.New(cfg.MinZoom, cfg.MaxZoom),
		layer:    scene.NewNode(scene.KindContainer, LayerLabel),
		elements: make(map[string]*element.Element),
		keys:     command.NewKeyBus(),
		tool:     ToolSelect,
	}
	b.vp.Root().AddChild(b.layer)
	viewportFn := func() *viewport.Viewport { return b.vp }

	b.sel = selection.NewManager(selection.Options{
		Viewport: viewportFn,
		OnChange: b.onSelectionChange,
		Logger:   b.log,
	})
	b.engine = transform.New(b.sel, transform.Options{
		Viewport:           viewportFn,
		Padding:            cfg.SelectionPadding,
		HandleSize:         cfg.HandleSize,
		RotateHandleOffset: cfg.RotateHandleOffset,
		MoveFrame:          transform.MoveFrame(cfg.MoveOffsetFrame),
		OnMoveProgress:     b.onMoveProgress,
		OnScaleProgress:    b.onScaleProgress,
		OnRotate:           b.onRotate,
		Logger:             b.log,
	})
	b.history = command.NewManager(command.Options{
		Limit:     cfg.HistoryLimit,
		UndoChord: undo,
		RedoChord: redo,
		Logger:    b.log,
	})
	b.closers = append(b.closers,
		b.history.Listen(b.keys),
		b.history.Subscribe(b.onHistoryChange),
	)

	b.rect = gesture.NewRectSelector(gesture.RectSelectorConfig{
		Surface:         b.vp.Root,
		ToWorld:         b.vp.ToWorld,
		Enabled:         func() bool { return b.tool == ToolSelect },
		OnSelectionDone: b.SelectRange,
	})
	b.rect.Bind()
	b.panner = gesture.NewPanner(gesture.PannerConfig{
		Surface: b.vp.Root,
		Enabled: func() bool { return b.tool == ToolPan },
		Pan:     b.Pan,
	})
	b.panner.Bind()
	b.closers = append(b.closers, b.vp.Root().On(scene.PointerDown, b.onPressElement))

	return b, nil
}

// Close releases every listener and binding the board installed.
func (b *Board) Close() {
	for _, c := range b.closers {
		c()
	}
	b.closers = nil
	b.rect.Close()
	b.panner.Close()
	b.engine.Close()
	b.history.Close()
}

func (b *Board) Config() *config.Config       { return b.cfg }
func (b *Board) Viewport() *viewport.Viewport { return b.vp }

// --- Elements ---

// AddElement creates an element from spec and records its creation.
func (b *Board) AddElement(spec element.Spec) *element.Element {
	el := element.New(b.opts.NewID(), spec)
	b.insert(el)
	b.sel.AddElement(el)
	b.history.AddCommand(command.AddElement(store{b}, el))
	b.invalidate()
	return el
}

// AddElements creates many elements with one bulk index load and one
// history entry.
func (b *Board) AddElements(specs []element.Spec) []*element.Element {
	if len(specs) == 0 {
		return nil
	}
	els := make([]*element.Element, 0, len(specs))
	cmds := make(command.Batch, 0, len(specs))
	for _, spec := range specs {
		el := element.New(b.opts.NewID(), spec)
		b.insert(el)
		els = append(els, el)
		cmds = append(cmds, command.AddElement(store{b}, el))
	}
	b.sel.AddElements(els)
	b.history.AddCommand(cmds)
	b.invalidate()
	return els
}

// RemoveElement deletes the element and records the removal.
func (b *Board) RemoveElement(id string) error {
	el, ok := b.elements[id]
	if !ok {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	if err := b.delete(id); err != nil {
		return err
	}
	b.history.AddCommand(command.RemoveElement(store{b}, el))
	b.invalidate()
	return nil
}

func (b *Board) Element(id string) (*element.Element, bool) {
	el, ok := b.elements[id]
	return el, ok
}

// Elements returns the elements in creation order.
func (b *Board) Elements() []*element.Element {
	out := make([]*element.Element, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.elements[id])
	}
	return out
}

func (b *Board) insert(el *element.Element) {
	b.elements[el.ID()] = el
	b.order = append(b.order, el.ID())
	node := el.Node()
	if node.ZIndex == 0 {
		b.zseq++
		node.ZIndex = b.zseq
	}
	b.layer.AddChild(node)
}

func (b *Board) delete(id string) error {
	el, ok := b.elements[id]
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if b.sel.IsSelected(id) {
		var keep []*element.Element
		for _, s := range b.sel.Selection() {
			if s.ID() != id {
				keep = append(keep, s)
			}
		}
		b.sel.SetSelection(keep)
	}
	b.sel.RemoveID(id)
	el.Node().Detach()
	delete(b.elements, id)
	for i, o := range b.order {
		if o == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

// store lets history commands add and remove elements without recording
// new history.
type store struct{ b *Board }

func (s store) Insert(el *element.Element) error {
	if _, dup := s.b.elements[el.ID()]; dup {
		return fmt.Errorf("insert %s: %w", el.ID(), ErrExists)
	}
	s.b.insert(el)
	s.b.sel.AddElement(el)
	return nil
}

func (s store) Delete(id string) error {
	return s.b.delete(id)
}

// --- Selection ---

// ElementsInRange returns the elements whose committed box intersects the
// world box r, in creation order.
func (b *Board) ElementsInRange(r geom.Bounds) []*element.Element {
	return b.inOrder(b.sel.QueryRange(r))
}

// SetSelection selects the elements with the given ids. Unknown ids are
// skipped.
func (b *Board) SetSelection(ids []string) {
	els := make([]*element.Element, 0, len(ids))
	for _, id := range ids {
		if el, ok := b.elements[id]; ok {
			els = append(els, el)
		}
	}
	b.sel.SetSelection(els)
}

// SelectRange selects every element intersecting the world box r.
func (b *Board) SelectRange(r geom.Bounds) {
	b.sel.SetSelection(b.ElementsInRange(r))
}

// SelectAt selects the topmost element under a screen point, or clears the
// selection when there is none.
func (b *Board) SelectAt(screen geom.Point) {
	hit := scene.HitTest(b.layer, screen)
	if hit == nil {
		b.sel.SetSelection(nil)
		return
	}
	if el, ok := b.elements[hit.ID]; ok {
		b.sel.SetSelection([]*element.Element{el})
	}
}

// Selection returns the selected ids in selection order.
func (b *Board) Selection() []string {
	return ids(b.sel.Selection())
}

// SelectionBounds returns the live union of the selection.
func (b *Board) SelectionBounds() (geom.Bounds, bool) {
	return b.engine.Bounds()
}

// IndexedBounds returns the box the spatial index holds for id.
func (b *Board) IndexedBounds(id string) (geom.Bounds, bool) {
	return b.sel.IndexedBounds(id)
}

func (b *Board) onSelectionChange(sel []*element.Element) {
	if b.opts.OnSelectionChange != nil {
		b.opts.OnSelectionChange(ids(sel))
	}
	b.invalidate()
}

func (b *Board) inOrder(els []*element.Element) []*element.Element {
	pos := make(map[string]int, len(b.order))
	for i, id := range b.order {
		pos[id] = i
	}
	sort.Slice(els, func(i, j int) bool { return pos[els[i].ID()] < pos[els[j].ID()] })
	return els
}

func ids(els []*element.Element) []string {
	out := make([]string, 0, len(els))
	for _, el := range els {
		out = append(out, el.ID())
	}
	return out
}

// --- History ---

func (b *Board) Undo() bool {
	ok := b.history.Undo()
	b.invalidate()
	return ok
}

func (b *Board) Redo() bool {
	ok := b.history.Redo()
	b.invalidate()
	return ok
}

func (b *Board) History() command.History {
	return b.history.History()
}

// ClearHistory forgets every recorded command.
func (b *Board) ClearHistory() {
	b.history.Clear()
}

func (b *Board) onHistoryChange(h command.History) {
	if b.opts.OnHistoryChange != nil {
		b.opts.OnHistoryChange(h)
	}
}

// --- Update cycle ---

// Tick runs work deferred to the next update cycle: the overlay is redrawn
// from freshly committed geometry.
func (b *Board) Tick() {
	if !b.refreshPending {
		return
	}
	b.refreshPending = false
	b.engine.Refresh()
	b.invalidate()
}

func (b *Board) scheduleRefresh() {
	b.refreshPending = true
}

func (b *Board) invalidate() {
	if b.opts.OnInvalidate != nil {
		b.opts.OnInvalidate()
	}
}
