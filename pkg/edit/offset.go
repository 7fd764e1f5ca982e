package edit

import (
	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/shape"
)

// Offset builds a parallel copy of a shape at the given distance, on the
// side of clickPoint. The copy carries the source's style with an empty ID.
// ok is false when the shape kind has no offset or the result would collapse
// to a non-positive size.
func Offset(s shape.Shape, distance float64, clickPoint geom.Point) (out shape.Shape, ok bool) {
	out = s.Clone()
	out.ID = ""

	switch d := s.Data.(type) {
	case shape.LineData:
		sign := sideSign(d.P1, d.P2, clickPoint)
		p1, p2 := geom.OffsetSegment(d.P1, d.P2, distance*sign)
		out.Data = shape.LineData{P1: p1, P2: p2}
		return out, true

	case shape.PolylineData:
		if len(d.Points) < 2 {
			return shape.Shape{}, false
		}
		// The side is decided once from the first segment; every segment
		// then offsets by the same signed distance.
		sign := sideSign(d.Points[0], d.Points[1], clickPoint)
		out.Data = shape.PolylineData{
			Points: geom.OffsetPolyline(d.Points, distance*sign, d.Closed),
			Closed: d.Closed,
		}
		return out, true

	case shape.CircleData:
		r := d.Radius
		if geom.Distance(geom.Point{X: d.CX, Y: d.CY}, clickPoint) < d.Radius {
			r -= distance
		} else {
			r += distance
		}
		if r <= 0 {
			return shape.Shape{}, false
		}
		out.Data = shape.CircleData{CX: d.CX, CY: d.CY, Radius: r}
		return out, true

	case shape.RectangleData:
		// Expand or contract uniformly from the center, not per edge.
		cx := d.X + d.Width/2
		cy := d.Y + d.Height/2
		inside := abs(clickPoint.X-cx) < d.Width/2 && abs(clickPoint.Y-cy) < d.Height/2
		sign := 1.0
		if inside {
			sign = -1
		}
		nd := shape.RectangleData{
			X:      d.X - distance*sign,
			Y:      d.Y - distance*sign,
			Width:  d.Width + 2*distance*sign,
			Height: d.Height + 2*distance*sign,
		}
		if nd.Width <= 0 || nd.Height <= 0 {
			return shape.Shape{}, false
		}
		out.Data = nd
		return out, true
	}

	return shape.Shape{}, false
}

// sideSign resolves which side of the p1->p2 direction the click falls on,
// via the sign of the 2D cross product.
func sideSign(p1, p2, click geom.Point) float64 {
	cross := (p2.X-p1.X)*(click.Y-p1.Y) - (p2.Y-p1.Y)*(click.X-p1.X)
	if cross < 0 {
		return 1
	}
	return -1
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
