// Package index maintains an R-tree over shape bounding boxes so the app
// can resolve canvas clicks to shape ids without scanning the whole
// document.
package index

import (
	"github.com/dhconnelly/rtreego"

	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/shape"
)

// minExtent pads degenerate boxes (horizontal lines, text anchors) so every
// entry has a valid area.
const minExtent = 1e-9

type entry struct {
	id   string
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is a spatial lookup over shape bounds. Entries are keyed by shape
// id; re-inserting an id replaces its previous box.
type Index struct {
	tree    *rtreego.Rtree
	entries map[string]*entry
}

// New returns an empty index.
func New() *Index {
	return &Index{
		tree:    rtreego.NewTree(2, 25, 50),
		entries: map[string]*entry{},
	}
}

func boundsRect(s shape.Shape) (rtreego.Rect, error) {
	min, max := s.Bounds()
	w := max.X - min.X
	h := max.Y - min.Y
	if w < minExtent {
		w = minExtent
	}
	if h < minExtent {
		h = minExtent
	}
	return rtreego.NewRect(rtreego.Point{min.X, min.Y}, []float64{w, h})
}

// Insert adds or replaces the entry for a shape. Shapes without an id are
// ignored.
func (ix *Index) Insert(s shape.Shape) {
	if s.ID == "" {
		return
	}
	ix.Remove(s.ID)
	rect, err := boundsRect(s)
	if err != nil {
		return
	}
	e := &entry{id: s.ID, rect: rect}
	ix.entries[s.ID] = e
	ix.tree.Insert(e)
}

// Remove drops a shape's entry. Returns false for unknown ids.
func (ix *Index) Remove(id string) bool {
	e, ok := ix.entries[id]
	if !ok {
		return false
	}
	delete(ix.entries, id)
	return ix.tree.Delete(e)
}

// Rebuild replaces the whole index with the given shapes.
func (ix *Index) Rebuild(shapes []shape.Shape) {
	ix.tree = rtreego.NewTree(2, 25, 50)
	ix.entries = map[string]*entry{}
	for _, s := range shapes {
		ix.Insert(s)
	}
}

// Len reports the number of indexed shapes.
func (ix *Index) Len() int { return len(ix.entries) }

// At returns the ids of shapes whose bounds contain the point, padded by
// tol on every side.
func (ix *Index) At(p geom.Point, tol float64) []string {
	if tol < minExtent {
		tol = minExtent
	}
	box, err := rtreego.NewRect(rtreego.Point{p.X - tol, p.Y - tol}, []float64{2 * tol, 2 * tol})
	if err != nil {
		return nil
	}
	var ids []string
	for _, hit := range ix.tree.SearchIntersect(box) {
		ids = append(ids, hit.(*entry).id)
	}
	return ids
}
