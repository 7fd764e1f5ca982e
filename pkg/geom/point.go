// Package geom provides the scalar and vector primitives for the OxCAD
// drafting core: distances, angles with 0°/360° wraparound, projections,
// tangent construction, and the closed-form intersection solvers consumed
// by the dispatcher and edit operations.
//
// All functions are pure. Geometric degeneracy (zero-length segments,
// concentric circles, parallel lines) yields an empty result or a graceful
// fallback value, never an error.
package geom

import "math"

// Point is a 2D coordinate. Points have value semantics; they are owned by
// the shape that carries them or returned fresh from a query.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Midpoint returns the midpoint of a and b.
func Midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// RotatePoint rotates p around center by angleDeg degrees.
func RotatePoint(p, center Point, angleDeg float64) Point {
	rad := angleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// AngleBetween returns the angle in degrees from p1 to p2, in (-180, 180].
func AngleBetween(p1, p2 Point) float64 {
	return math.Atan2(p2.Y-p1.Y, p2.X-p1.X) * 180 / math.Pi
}

// Norm360 normalizes an angle in degrees to [0, 360).
func Norm360(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// IsAngleBetween reports whether angle lies within the span [start, end],
// all in degrees and normalized mod 360. When start > end the span wraps
// through 0°/360° and the test becomes angle >= start OR angle <= end.
// Every angular-range check in the drafting core funnels through here; the
// wraparound rule must stay exactly as written.
func IsAngleBetween(angle, start, end float64) bool {
	// A span covering a full turn or more accepts everything; normalizing
	// would collapse end = start+360 onto start.
	if end-start >= 360 {
		return true
	}
	angle = Norm360(angle)
	start = Norm360(start)
	end = Norm360(end)

	if start <= end {
		return start <= angle && angle <= end
	}
	return angle >= start || angle <= end
}

// PointToLineDistance returns the distance from point to the segment p1-p2.
// A zero-length segment degrades to the distance to p1.
func PointToLineDistance(point, p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-10 {
		return Distance(point, p1)
	}

	t := ((point.X-p1.X)*dx + (point.Y-p1.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Distance(point, Point{p1.X + t*dx, p1.Y + t*dy})
}

// NearestPointOnLine returns the point on segment p1-p2 nearest to point.
// The projection parameter is clamped to [0,1].
func NearestPointOnLine(point, p1, p2 Point) Point {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-10 {
		return p1
	}

	t := ((point.X-p1.X)*dx + (point.Y-p1.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Point{p1.X + t*dx, p1.Y + t*dy}
}

// NearestPointOnCircle returns the point on the circle perimeter nearest to
// point. A query at the exact center degenerates to the point at angle 0.
func NearestPointOnCircle(point, center Point, radius float64) Point {
	dx := point.X - center.X
	dy := point.Y - center.Y
	d := math.Hypot(dx, dy)
	if d < 1e-10 {
		return Point{center.X + radius, center.Y}
	}
	return Point{center.X + radius*dx/d, center.Y + radius*dy/d}
}

// PointToCircleDistance returns the distance from point to the circle
// perimeter.
func PointToCircleDistance(point, center Point, radius float64) float64 {
	return math.Abs(Distance(point, center) - radius)
}

// PerpendicularPoint returns the foot of the perpendicular from point onto
// the infinite line through p1-p2. Callers that care about the segment must
// check the foot with OnSegment separately.
func PerpendicularPoint(point, p1, p2 Point) Point {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-10 {
		return p1
	}
	t := ((point.X-p1.X)*dx + (point.Y-p1.Y)*dy) / lenSq
	return Point{p1.X + t*dx, p1.Y + t*dy}
}

// OnSegment reports whether p lies on segment ab, via the distance-sum
// equality test with a 1e-4 tolerance.
func OnSegment(p, a, b Point) bool {
	return math.Abs(Distance(a, b)-(Distance(a, p)+Distance(p, b))) < 1e-4
}

// TangentPoints returns the tangent points from an external point to a
// circle: no points if the point is strictly inside, the point itself if it
// lies on the perimeter, otherwise the two external tangent points.
func TangentPoints(point, center Point, radius float64) []Point {
	dx := center.X - point.X
	dy := center.Y - point.Y
	dist := math.Hypot(dx, dy)

	if dist < radius {
		return nil
	}
	if math.Abs(dist-radius) < 1e-10 {
		return []Point{point}
	}

	angle := math.Atan2(dy, dx)
	offset := math.Acos(radius / dist)

	t1 := angle + offset
	t2 := angle - offset

	return []Point{
		{center.X - radius*math.Cos(t1), center.Y - radius*math.Sin(t1)},
		{center.X - radius*math.Cos(t2), center.Y - radius*math.Sin(t2)},
	}
}

// PolygonArea returns the area enclosed by points, via the shoelace formula.
func PolygonArea(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].X * points[j].Y
		area -= points[j].X * points[i].Y
	}
	return math.Abs(area) / 2
}

// PolygonPerimeter returns the total length of a polyline, including the
// closing segment when closed is set and the polyline has at least 3 points.
func PolygonPerimeter(points []Point, closed bool) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += Distance(points[i], points[i+1])
	}
	if closed && len(points) > 2 {
		total += Distance(points[len(points)-1], points[0])
	}
	return total
}
