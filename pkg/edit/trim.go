// Package edit implements the drafting edit operations: trim, offset, and
// the rigid transforms (scale, translate, rotate). Operations return new
// shapes and never mutate their inputs; the project layer wraps them in
// undoable commands.
package edit

import (
	"errors"
	"math"
	"sort"

	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/intersect"
	"github.com/oxcad/oxcad/pkg/shape"
)

// ErrNoIntersections reports a trim on a shape that nothing crosses.
var ErrNoIntersections = errors.New("edit: no intersections with other shapes")

// ErrInsufficientCuts reports a trim on a closed curve with fewer than the
// two cut points needed to form removable segments.
var ErrInsufficientCuts = errors.New("edit: closed curve needs at least two cut points")

// Trim cuts target at its intersections with the other shapes and removes
// the piece nearest clickPoint. The remaining pieces come back as new shapes
// copying the target's style, with empty IDs for the caller to assign. A nil
// result with a nil error means the whole target was consumed: delete it and
// add nothing.
func Trim(target shape.Shape, clickPoint geom.Point, others []shape.Shape) ([]shape.Shape, error) {
	var cuts []geom.Point
	for _, o := range others {
		if o.ID != "" && o.ID == target.ID {
			continue
		}
		for _, pt := range intersect.Shapes(target, o) {
			dup := false
			for _, c := range cuts {
				if geom.Distance(pt, c) < 1e-5 {
					dup = true
					break
				}
			}
			if !dup {
				cuts = append(cuts, pt)
			}
		}
	}
	if len(cuts) == 0 {
		return nil, ErrNoIntersections
	}

	switch d := target.Data.(type) {
	case shape.LineData:
		return trimLine(target, d, clickPoint, cuts), nil
	case shape.CircleData:
		return trimCurved(target, geom.Point{X: d.CX, Y: d.CY}, 0, 360, clickPoint, cuts)
	case shape.ArcData:
		return trimCurved(target, geom.Point{X: d.CX, Y: d.CY}, d.StartAngle, d.EndAngle, clickPoint, cuts)
	case shape.EllipseData:
		return trimCurved(target, geom.Point{X: d.CX, Y: d.CY}, d.StartAngle, d.EndAngle, clickPoint, cuts)
	case shape.RectangleData, shape.PolylineData:
		return trimPolygonal(target, clickPoint, cuts), nil
	}
	return nil, ErrNoIntersections
}

type lineSeg struct {
	p1, p2 geom.Point
}

// trimLine splits a line at its cut points, ordered by distance from the
// first endpoint, and drops the piece under the click.
func trimLine(target shape.Shape, d shape.LineData, clickPoint geom.Point, cuts []geom.Point) []shape.Shape {
	pts := append([]geom.Point{d.P1, d.P2}, cuts...)
	sort.Slice(pts, func(i, j int) bool {
		return geom.Distance(d.P1, pts[i]) < geom.Distance(d.P1, pts[j])
	})

	var segs []lineSeg
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, lineSeg{pts[i], pts[i+1]})
	}
	return linesFrom(target, removeClickedSegment(segs, clickPoint))
}

// trimPolygonal cuts a polyline or rectangle edge by edge. Each cut point is
// assigned to the edge it lies on, the edge is split there, and the surviving
// pieces are emitted as individual lines; the composite shape is not
// preserved across the gap.
func trimPolygonal(target shape.Shape, clickPoint geom.Point, cuts []geom.Point) []shape.Shape {
	var pts []geom.Point
	switch d := target.Data.(type) {
	case shape.RectangleData:
		c := d.Corners()
		pts = []geom.Point{c[0], c[1], c[2], c[3], c[0]}
	case shape.PolylineData:
		pts = d.Points
	}

	var segs []lineSeg
	for i := 0; i < len(pts)-1; i++ {
		p1, p2 := pts[i], pts[i+1]
		var onEdge []geom.Point
		for _, pt := range cuts {
			if geom.PointToLineDistance(pt, p1, p2) < 1e-5 {
				onEdge = append(onEdge, pt)
			}
		}
		sort.Slice(onEdge, func(a, b int) bool {
			return geom.Distance(p1, onEdge[a]) < geom.Distance(p1, onEdge[b])
		})

		chain := append([]geom.Point{p1}, onEdge...)
		chain = append(chain, p2)
		for j := 0; j < len(chain)-1; j++ {
			segs = append(segs, lineSeg{chain[j], chain[j+1]})
		}
	}
	return linesFrom(target, removeClickedSegment(segs, clickPoint))
}

type arcSeg struct {
	sa, ea float64
}

// trimCurved splits a circle, arc, or ellipse at the polar angles of its cut
// points. Restricted spans keep only cuts inside the span and gain the span
// boundaries as implicit cut angles; full loops wrap the first angle +360 to
// close the ring.
func trimCurved(target shape.Shape, center geom.Point, startAngle, endAngle float64, clickPoint geom.Point, cuts []geom.Point) ([]shape.Shape, error) {
	full := target.Kind == shape.KindCircle ||
		(target.Kind == shape.KindEllipse && startAngle == 0 && endAngle == 360)

	var angles []float64
	for _, pt := range cuts {
		angles = append(angles, geom.Norm360(geom.AngleBetween(center, pt)))
	}

	if full {
		if len(angles) < 2 {
			return nil, ErrInsufficientCuts
		}
	} else {
		sa, ea := geom.Norm360(startAngle), geom.Norm360(endAngle)
		var kept []float64
		for _, a := range angles {
			if geom.IsAngleBetween(a, sa, ea) {
				kept = append(kept, a)
			}
		}
		angles = append(kept, sa, ea)
	}

	sort.Float64s(angles)
	uniq := angles[:0]
	for _, a := range angles {
		if len(uniq) == 0 || a-uniq[len(uniq)-1] > 1e-9 {
			uniq = append(uniq, a)
		}
	}
	angles = uniq

	if full && len(angles) > 0 {
		angles = append(angles, angles[0]+360)
	}

	var segs []arcSeg
	for i := 0; i < len(angles)-1; i++ {
		segs = append(segs, arcSeg{geom.Norm360(angles[i]), geom.Norm360(angles[i+1])})
	}

	switch d := target.Data.(type) {
	case shape.EllipseData:
		kept := removeClickedArcSegment(segs, clickPoint, func(midDeg float64) geom.Point {
			rad := midDeg * math.Pi / 180
			return geom.Point{X: center.X + d.RX*math.Cos(rad), Y: center.Y + d.RY*math.Sin(rad)}
		})
		var out []shape.Shape
		for _, seg := range kept {
			out = append(out, styledCopy(target, shape.KindEllipse, shape.EllipseData{
				CX: d.CX, CY: d.CY, RX: d.RX, RY: d.RY,
				StartAngle: seg.sa, EndAngle: seg.ea,
			}))
		}
		return out, nil

	default:
		var radius float64
		switch d := target.Data.(type) {
		case shape.CircleData:
			radius = d.Radius
		case shape.ArcData:
			radius = d.Radius
		}
		kept := removeClickedArcSegment(segs, clickPoint, func(midDeg float64) geom.Point {
			rad := midDeg * math.Pi / 180
			return geom.Point{X: center.X + radius*math.Cos(rad), Y: center.Y + radius*math.Sin(rad)}
		})
		var out []shape.Shape
		for _, seg := range kept {
			out = append(out, styledCopy(target, shape.KindArc, shape.ArcData{
				CX: center.X, CY: center.Y, Radius: radius,
				StartAngle: seg.sa, EndAngle: seg.ea,
			}))
		}
		return out, nil
	}
}

// removeClickedSegment drops the straight candidate whose midpoint is
// nearest the click.
func removeClickedSegment(segs []lineSeg, clickPoint geom.Point) []lineSeg {
	minDist := math.Inf(1)
	clicked := -1
	for i, seg := range segs {
		d := geom.Distance(clickPoint, geom.Midpoint(seg.p1, seg.p2))
		if d < minDist {
			minDist = d
			clicked = i
		}
	}
	var out []lineSeg
	for i, seg := range segs {
		if i != clicked {
			out = append(out, seg)
		}
	}
	return out
}

// removeClickedArcSegment drops the angular candidate whose mid-angle point
// on the curve is nearest the click. midPoint maps a mid angle in degrees to
// the curve point; wraparound spans advance the end by a full turn first.
func removeClickedArcSegment(segs []arcSeg, clickPoint geom.Point, midPoint func(float64) geom.Point) []arcSeg {
	minDist := math.Inf(1)
	clicked := -1
	for i, seg := range segs {
		mid := (seg.sa + seg.ea) / 2
		if seg.sa > seg.ea {
			mid = (seg.sa + seg.ea + 360) / 2
		}
		d := geom.Distance(clickPoint, midPoint(mid))
		if d < minDist {
			minDist = d
			clicked = i
		}
	}
	var out []arcSeg
	for i, seg := range segs {
		if i != clicked {
			out = append(out, seg)
		}
	}
	return out
}

// linesFrom emits one line shape per kept segment, carrying the target's
// layer and stroke style. Degenerate segments from cuts at an endpoint are
// dropped.
func linesFrom(target shape.Shape, segs []lineSeg) []shape.Shape {
	var out []shape.Shape
	for _, seg := range segs {
		if geom.Distance(seg.p1, seg.p2) < 1e-9 {
			continue
		}
		out = append(out, styledCopy(target, shape.KindLine, shape.LineData{P1: seg.p1, P2: seg.p2}))
	}
	return out
}

func styledCopy(target shape.Shape, kind shape.Kind, data shape.ShapeData) shape.Shape {
	return shape.Shape{
		Kind:  kind,
		Layer: target.Layer,
		Color: target.Color,
		Width: target.Width,
		Data:  data,
	}
}
