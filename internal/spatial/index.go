// Package spatial keeps the world-space bounding boxes of registered
// elements in an R-tree for fast range queries.
package spatial

import (
	"github.com/dhconnelly/rtreego"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
)

const (
	dims        = 2
	minChildren = 4
	maxChildren = 16

	// rtreego treats touching edges as disjoint; queries are widened by this
	// much and the candidates re-checked with an inclusive test.
	queryEpsilon = 1e-9
)

// Entry pairs a world box with the element it indexes.
type Entry struct {
	Bounds  geom.Bounds
	Element *element.Element
}

type item struct {
	box  geom.Bounds
	rect rtreego.Rect
	el   *element.Element
}

func (it *item) Bounds() rtreego.Rect {
	return it.rect
}

// Index is an R-tree of element boxes keyed by element id.
// It is not safe for concurrent use.
type Index struct {
	tree *rtreego.Rtree
	byID map[string]*item
}

func New() *Index {
	return &Index{
		tree: rtreego.NewTree(dims, minChildren, maxChildren),
		byID: make(map[string]*item),
	}
}

func newItem(e Entry) *item {
	rect, _ := rtreego.NewRectFromPoints(
		rtreego.Point{e.Bounds.MinX, e.Bounds.MinY},
		rtreego.Point{e.Bounds.MaxX, e.Bounds.MaxY},
	)
	return &item{box: e.Bounds, rect: rect, el: e.Element}
}

// Insert adds one entry. An entry already registered under the same
// element id is replaced.
func (x *Index) Insert(e Entry) {
	if e.Element == nil {
		return
	}
	x.RemoveID(e.Element.ID())
	it := newItem(e)
	x.tree.Insert(it)
	x.byID[e.Element.ID()] = it
}

// Load registers many entries at once by rebuilding the tree with bulk
// loading. Later duplicates win over earlier ones and over existing entries.
func (x *Index) Load(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	for _, e := range entries {
		if e.Element == nil {
			continue
		}
		x.byID[e.Element.ID()] = newItem(e)
	}
	objs := make([]rtreego.Spatial, 0, len(x.byID))
	for _, it := range x.byID {
		objs = append(objs, it)
	}
	x.tree = rtreego.NewTree(dims, minChildren, maxChildren, objs...)
}

// Remove drops the entry for el. Absent elements are ignored.
func (x *Index) Remove(el *element.Element) {
	if el == nil {
		return
	}
	x.RemoveID(el.ID())
}

// RemoveID drops the entry registered under id, if any.
func (x *Index) RemoveID(id string) bool {
	it, ok := x.byID[id]
	if !ok {
		return false
	}
	x.tree.Delete(it)
	delete(x.byID, id)
	return true
}

// Query returns every element whose box intersects b, edges included.
// Result order is unspecified.
func (x *Index) Query(b geom.Bounds) []*element.Element {
	if len(x.byID) == 0 {
		return nil
	}
	rect, err := rtreego.NewRectFromPoints(
		rtreego.Point{b.MinX - queryEpsilon, b.MinY - queryEpsilon},
		rtreego.Point{b.MaxX + queryEpsilon, b.MaxY + queryEpsilon},
	)
	if err != nil {
		return nil
	}
	var out []*element.Element
	for _, s := range x.tree.SearchIntersect(rect) {
		it := s.(*item)
		if it.box.Intersects(b) {
			out = append(out, it.el)
		}
	}
	return out
}

// Lookup returns the box registered for id.
func (x *Index) Lookup(id string) (geom.Bounds, bool) {
	it, ok := x.byID[id]
	if !ok {
		return geom.Bounds{}, false
	}
	return it.box, true
}

func (x *Index) Contains(id string) bool {
	_, ok := x.byID[id]
	return ok
}

func (x *Index) Len() int {
	return len(x.byID)
}

// All returns every registered entry in unspecified order.
func (x *Index) All() []Entry {
	out := make([]Entry, 0, len(x.byID))
	for _, it := range x.byID {
		out = append(out, Entry{Bounds: it.box, Element: it.el})
	}
	return out
}
