package shape

import (
	"math"

	"github.com/oxcad/oxcad/pkg/geom"
)

// Segment is one straight edge of a polygonal shape.
type Segment struct {
	A, B geom.Point
}

// Polygonal reports whether the kind is fully described by straight
// segments (line, polyline, rectangle), as opposed to a curved kind.
func (k Kind) Polygonal() bool {
	return k == KindLine || k == KindPolyline || k == KindRectangle
}

// Corners returns the rectangle's four corners in winding order.
func (r RectangleData) Corners() [4]geom.Point {
	return [4]geom.Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

// Segments decomposes a polygonal shape into its ordered straight edges.
// Curved and unknown kinds return nil.
func (s Shape) Segments() []Segment {
	switch d := s.Data.(type) {
	case LineData:
		return []Segment{{d.P1, d.P2}}

	case PolylineData:
		var segs []Segment
		for i := 0; i < len(d.Points)-1; i++ {
			segs = append(segs, Segment{d.Points[i], d.Points[i+1]})
		}
		if d.Closed && len(d.Points) > 1 {
			segs = append(segs, Segment{d.Points[len(d.Points)-1], d.Points[0]})
		}
		return segs

	case RectangleData:
		corners := d.Corners()
		segs := make([]Segment, 4)
		for i := 0; i < 4; i++ {
			segs[i] = Segment{corners[i], corners[(i+1)%4]}
		}
		return segs
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the shape. Arcs use the
// full circle's box, which is conservative but cheap; the spatial index only
// needs containment, not tightness.
func (s Shape) Bounds() (min, max geom.Point) {
	switch d := s.Data.(type) {
	case LineData:
		return geom.Point{X: math.Min(d.P1.X, d.P2.X), Y: math.Min(d.P1.Y, d.P2.Y)},
			geom.Point{X: math.Max(d.P1.X, d.P2.X), Y: math.Max(d.P1.Y, d.P2.Y)}

	case RectangleData:
		return geom.Point{X: d.X, Y: d.Y},
			geom.Point{X: d.X + d.Width, Y: d.Y + d.Height}

	case CircleData:
		return geom.Point{X: d.CX - d.Radius, Y: d.CY - d.Radius},
			geom.Point{X: d.CX + d.Radius, Y: d.CY + d.Radius}

	case ArcData:
		return geom.Point{X: d.CX - d.Radius, Y: d.CY - d.Radius},
			geom.Point{X: d.CX + d.Radius, Y: d.CY + d.Radius}

	case EllipseData:
		return geom.Point{X: d.CX - d.RX, Y: d.CY - d.RY},
			geom.Point{X: d.CX + d.RX, Y: d.CY + d.RY}

	case PolylineData:
		if len(d.Points) == 0 {
			return geom.Point{}, geom.Point{}
		}
		min, max = d.Points[0], d.Points[0]
		for _, p := range d.Points[1:] {
			min.X = math.Min(min.X, p.X)
			min.Y = math.Min(min.Y, p.Y)
			max.X = math.Max(max.X, p.X)
			max.Y = math.Max(max.Y, p.Y)
		}
		return min, max

	case TextData:
		// Rough glyph box; good enough for picking.
		w := d.FontSize * 0.6 * float64(len(d.Content))
		return geom.Point{X: d.X, Y: d.Y},
			geom.Point{X: d.X + math.Max(w, d.FontSize), Y: d.Y + d.FontSize}

	case BlockRefData:
		return geom.Point{X: d.X, Y: d.Y}, geom.Point{X: d.X, Y: d.Y}
	}
	return geom.Point{}, geom.Point{}
}
