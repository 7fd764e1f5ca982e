// Package snap resolves the anchor point a cursor should gravitate to:
// static geometric snaps (endpoints, midpoints, centers, quadrants,
// intersections), context-sensitive snaps relative to a rubber-band start
// point (tangent, perpendicular), and a lowest-priority nearest-boundary
// fallback.
package snap

import (
	"math"

	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/intersect"
	"github.com/oxcad/oxcad/pkg/shape"
)

// Mode identifies a snap category. Modes travel as strings because they are
// user-facing settings persisted in the project file.
type Mode string

const (
	ModeEndpoint      Mode = "endpoint"
	ModeMidpoint      Mode = "midpoint"
	ModeCenter        Mode = "center"
	ModeQuadrant      Mode = "quadrant"
	ModeIntersection  Mode = "intersection"
	ModeTangent       Mode = "tangent"
	ModePerpendicular Mode = "perpendicular"
	ModeNearest       Mode = "nearest"
)

// DefaultModes enables every snap category.
var DefaultModes = []Mode{
	ModeEndpoint, ModeMidpoint, ModeCenter, ModeIntersection,
	ModeQuadrant, ModeNearest, ModeTangent, ModePerpendicular,
}

// staticPriorityRadius is the hard threshold inside which a static snap wins
// immediately over context and nearest candidates. Exact geometric anchors
// beat approximate ones at this proximity.
const staticPriorityRadius = 5.0

// Result is a resolved snap candidate. Transient; never persisted.
type Result struct {
	Kind  Mode       `json:"type"`
	Point geom.Point `json:"point"`
}

func hasMode(modes []Mode, m Mode) bool {
	for _, x := range modes {
		if x == m {
			return true
		}
	}
	return false
}

// Points computes every static snap point per enabled mode across the shape
// collection. Intersection snaps cover all shape pairs. Quadrant and
// endpoint candidates on arcs and partial ellipses are included only when
// their angle lies within the shape's angular span.
func Points(shapes []shape.Shape, modes []Mode) map[Mode][]geom.Point {
	snaps := make(map[Mode][]geom.Point)
	add := func(m Mode, pts ...geom.Point) {
		if hasMode(modes, m) {
			snaps[m] = append(snaps[m], pts...)
		}
	}

	for _, s := range shapes {
		switch d := s.Data.(type) {
		case shape.LineData:
			add(ModeEndpoint, d.P1, d.P2)
			add(ModeMidpoint, geom.Midpoint(d.P1, d.P2))

		case shape.CircleData:
			add(ModeCenter, geom.Point{X: d.CX, Y: d.CY})
			add(ModeQuadrant,
				geom.Point{X: d.CX + d.Radius, Y: d.CY},
				geom.Point{X: d.CX - d.Radius, Y: d.CY},
				geom.Point{X: d.CX, Y: d.CY + d.Radius},
				geom.Point{X: d.CX, Y: d.CY - d.Radius},
			)

		case shape.RectangleData:
			corners := d.Corners()
			add(ModeEndpoint, corners[:]...)
			for i := 0; i < 4; i++ {
				add(ModeMidpoint, geom.Midpoint(corners[i], corners[(i+1)%4]))
			}
			add(ModeCenter, geom.Point{X: d.X + d.Width/2, Y: d.Y + d.Height/2})

		case shape.ArcData:
			add(ModeCenter, geom.Point{X: d.CX, Y: d.CY})
			sa := d.StartAngle * math.Pi / 180
			ea := d.EndAngle * math.Pi / 180
			add(ModeEndpoint,
				geom.Point{X: d.CX + d.Radius*math.Cos(sa), Y: d.CY + d.Radius*math.Sin(sa)},
				geom.Point{X: d.CX + d.Radius*math.Cos(ea), Y: d.CY + d.Radius*math.Sin(ea)},
			)
			for _, ang := range []float64{0, 90, 180, 270} {
				if geom.IsAngleBetween(ang, d.StartAngle, d.EndAngle) {
					rad := ang * math.Pi / 180
					add(ModeQuadrant, geom.Point{
						X: d.CX + d.Radius*math.Cos(rad),
						Y: d.CY + d.Radius*math.Sin(rad),
					})
				}
			}

		case shape.EllipseData:
			add(ModeCenter, geom.Point{X: d.CX, Y: d.CY})
			quads := []struct {
				ang float64
				pt  geom.Point
			}{
				{0, geom.Point{X: d.CX + d.RX, Y: d.CY}},
				{90, geom.Point{X: d.CX, Y: d.CY + d.RY}},
				{180, geom.Point{X: d.CX - d.RX, Y: d.CY}},
				{270, geom.Point{X: d.CX, Y: d.CY - d.RY}},
			}
			for _, q := range quads {
				if d.Full() || geom.IsAngleBetween(q.ang, d.StartAngle, d.EndAngle) {
					add(ModeQuadrant, q.pt)
				}
			}

		case shape.PolylineData:
			add(ModeEndpoint, d.Points...)
			for i := 0; i < len(d.Points)-1; i++ {
				add(ModeMidpoint, geom.Midpoint(d.Points[i], d.Points[i+1]))
			}
		}
	}

	if hasMode(modes, ModeIntersection) {
		snaps[ModeIntersection] = append(snaps[ModeIntersection], intersect.AllPairs(shapes)...)
	}

	return snaps
}

// FindNearest returns the single best snap candidate within radius of point,
// or nil when nothing qualifies. Priority: a static snap within the hard
// 5-unit threshold is returned at once; otherwise context snaps (when from
// is supplied) and the nearest-boundary fallback compete on distance, and
// the closest candidate found first wins ties.
func FindNearest(point geom.Point, shapes []shape.Shape, radius float64, modes []Mode, from *geom.Point) *Result {
	if len(modes) == 0 {
		modes = DefaultModes
	}

	var staticModes []Mode
	for _, m := range modes {
		switch m {
		case ModeEndpoint, ModeMidpoint, ModeCenter, ModeIntersection, ModeQuadrant:
			staticModes = append(staticModes, m)
		}
	}
	allSnaps := Points(shapes, staticModes)

	var best *Result
	bestDist := radius

	for mode, pts := range allSnaps {
		for _, sp := range pts {
			if d := geom.Distance(point, sp); d < bestDist {
				bestDist = d
				best = &Result{Kind: mode, Point: sp}
			}
		}
	}

	// A close static snap wins outright; endpoints and intersections beat
	// approximate candidates at this proximity.
	if best != nil && bestDist < staticPriorityRadius {
		return best
	}

	if from != nil {
		if hasMode(modes, ModeTangent) {
			for _, s := range shapes {
				var c geom.Point
				var r float64
				switch d := s.Data.(type) {
				case shape.CircleData:
					c, r = geom.Point{X: d.CX, Y: d.CY}, d.Radius
				case shape.ArcData:
					c, r = geom.Point{X: d.CX, Y: d.CY}, d.Radius
				default:
					continue
				}
				for _, tp := range geom.TangentPoints(*from, c, r) {
					if d := geom.Distance(point, tp); d < bestDist {
						bestDist = d
						best = &Result{Kind: ModeTangent, Point: tp}
					}
				}
			}
		}

		if hasMode(modes, ModePerpendicular) {
			for _, s := range shapes {
				ld, ok := s.Data.(shape.LineData)
				if !ok {
					continue
				}
				foot := geom.PerpendicularPoint(*from, ld.P1, ld.P2)
				if !geom.OnSegment(foot, ld.P1, ld.P2) {
					continue
				}
				if d := geom.Distance(point, foot); d < bestDist {
					bestDist = d
					best = &Result{Kind: ModePerpendicular, Point: foot}
				}
			}
		}
	}

	// Nearest-boundary snap, lowest priority: only considered while no
	// candidate sits inside the static threshold.
	if hasMode(modes, ModeNearest) && (best == nil || bestDist > staticPriorityRadius) {
		for _, s := range shapes {
			np, ok := nearestOnShape(point, s)
			if !ok {
				continue
			}
			if d := geom.Distance(point, np); d < bestDist {
				bestDist = d
				best = &Result{Kind: ModeNearest, Point: np}
			}
		}
	}

	return best
}

// nearestOnShape returns the nearest boundary point of a shape: segment
// clamped for lines and polylines, angle filtered for arcs.
func nearestOnShape(point geom.Point, s shape.Shape) (geom.Point, bool) {
	switch d := s.Data.(type) {
	case shape.LineData:
		return geom.NearestPointOnLine(point, d.P1, d.P2), true

	case shape.CircleData:
		return geom.NearestPointOnCircle(point, geom.Point{X: d.CX, Y: d.CY}, d.Radius), true

	case shape.ArcData:
		c := geom.Point{X: d.CX, Y: d.CY}
		pt := geom.NearestPointOnCircle(point, c, d.Radius)
		if geom.IsAngleBetween(geom.AngleBetween(c, pt), d.StartAngle, d.EndAngle) {
			return pt, true
		}
		return geom.Point{}, false

	case shape.PolylineData:
		segs := s.Segments()
		if len(segs) == 0 {
			return geom.Point{}, false
		}
		var nearest geom.Point
		minD := math.Inf(1)
		for _, seg := range segs {
			np := geom.NearestPointOnLine(point, seg.A, seg.B)
			if d := geom.Distance(point, np); d < minD {
				minD = d
				nearest = np
			}
		}
		return nearest, true
	}
	return geom.Point{}, false
}
