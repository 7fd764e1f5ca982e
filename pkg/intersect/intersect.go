// Package intersect routes intersection queries between heterogeneous shape
// pairs to the pairwise solvers in pkg/geom, handling polygonal
// decomposition and arc/ellipse angular-span filtering.
package intersect

import (
	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/shape"
)

// orderClass ranks shape kinds so that every supported pair can be handled
// with the lower class on the left: polygonal < circle/arc < ellipse.
// Unknown kinds rank last and fall out of every pairing.
func orderClass(k shape.Kind) int {
	switch {
	case k.Polygonal():
		return 0
	case k == shape.KindCircle || k == shape.KindArc:
		return 1
	case k == shape.KindEllipse:
		return 2
	default:
		return 99
	}
}

// span returns the angular span of a circle-like shape. Full circles and
// full ellipses cover 0–360.
func span(s shape.Shape) (start, end float64) {
	switch d := s.Data.(type) {
	case shape.ArcData:
		return d.StartAngle, d.EndAngle
	case shape.EllipseData:
		return d.StartAngle, d.EndAngle
	}
	return 0, 360
}

// center returns the center point of a circle, arc, or ellipse shape.
func center(s shape.Shape) geom.Point {
	switch d := s.Data.(type) {
	case shape.CircleData:
		return geom.Point{X: d.CX, Y: d.CY}
	case shape.ArcData:
		return geom.Point{X: d.CX, Y: d.CY}
	case shape.EllipseData:
		return geom.Point{X: d.CX, Y: d.CY}
	}
	return geom.Point{}
}

// radius returns the radius of a circle or arc shape.
func radius(s shape.Shape) float64 {
	switch d := s.Data.(type) {
	case shape.CircleData:
		return d.Radius
	case shape.ArcData:
		return d.Radius
	}
	return 0
}

// filterBySpan keeps the points whose polar angle about c lies within the
// [start, end] wraparound span.
func filterBySpan(pts []geom.Point, c geom.Point, start, end float64) []geom.Point {
	var out []geom.Point
	for _, pt := range pts {
		if geom.IsAngleBetween(geom.AngleBetween(c, pt), start, end) {
			out = append(out, pt)
		}
	}
	return out
}

// Shapes returns all intersection points between two shapes. Operands are
// normalized so the lower order class comes first; unsupported pairings
// (anything involving text, block references, or unknown kinds) return nil
// rather than failing.
func Shapes(a, b shape.Shape) []geom.Point {
	ca, cb := orderClass(a.Kind), orderClass(b.Kind)
	if ca == 99 || cb == 99 {
		return nil
	}
	if ca > cb {
		return Shapes(b, a)
	}

	// Polygonal vs anything.
	if ca == 0 {
		segs := a.Segments()
		switch cb {
		case 0:
			return polygonal(segs, b.Segments())
		case 1:
			c, r := center(b), radius(b)
			start, end := span(b)
			var out []geom.Point
			for _, seg := range segs {
				hits := geom.LineCircle(seg.A, seg.B, c, r)
				if b.Kind == shape.KindArc {
					hits = filterBySpan(hits, c, start, end)
				}
				out = append(out, hits...)
			}
			return out
		case 2:
			d := b.Data.(shape.EllipseData)
			var out []geom.Point
			for _, seg := range segs {
				out = append(out, geom.LineEllipse(seg.A, seg.B,
					geom.Point{X: d.CX, Y: d.CY}, d.RX, d.RY,
					d.StartAngle, d.EndAngle)...)
			}
			return out
		}
		return nil
	}

	// Circle/arc vs circle/arc.
	if ca == 1 && cb == 1 {
		pts := geom.CircleCircle(center(a), radius(a), center(b), radius(b))
		if a.Kind == shape.KindArc {
			s, e := span(a)
			pts = filterBySpan(pts, center(a), s, e)
		}
		if b.Kind == shape.KindArc {
			s, e := span(b)
			pts = filterBySpan(pts, center(b), s, e)
		}
		return pts
	}

	// Circle/arc vs ellipse and ellipse vs ellipse have no implemented
	// routine; report no intersections rather than failing.
	return nil
}

// polygonal intersects two straight-segment decompositions all-pairs.
func polygonal(segs1, segs2 []shape.Segment) []geom.Point {
	var out []geom.Point
	for _, s1 := range segs1 {
		for _, s2 := range segs2 {
			if p, ok := geom.LineLine(s1.A, s1.B, s2.A, s2.B); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// AllPairs collects the intersections of every unordered shape pair.
func AllPairs(shapes []shape.Shape) []geom.Point {
	var out []geom.Point
	for i := 0; i < len(shapes); i++ {
		for j := i + 1; j < len(shapes); j++ {
			out = append(out, Shapes(shapes[i], shapes[j])...)
		}
	}
	return out
}
