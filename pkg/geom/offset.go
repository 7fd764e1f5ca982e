package geom

import "math"

// OffsetSegment offsets segment p1-p2 by dist along the unit normal
// (-dy, dx)/len. Positive dist is the right side relative to the p1→p2
// direction. A zero-length segment is returned unchanged.
func OffsetSegment(p1, p2 Point, dist float64) (Point, Point) {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	length := math.Hypot(dx, dy)
	if length < 1e-10 {
		return p1, p2
	}

	ox := -dy / length * dist
	oy := dx / length * dist

	return Point{p1.X + ox, p1.Y + oy}, Point{p2.X + ox, p2.Y + oy}
}

// OffsetPolyline offsets every segment of a polyline by dist and joins
// adjacent offset segments by intersecting their infinite extensions.
// Parallel adjacent segments fall back to the offset segment's own endpoint;
// there is no mitre or fillet treatment. Closed polylines additionally join
// the last segment back to the first.
func OffsetPolyline(points []Point, dist float64, closed bool) []Point {
	if len(points) < 2 {
		return points
	}

	type seg struct{ a, b Point }
	var segments []seg
	for i := 0; i < len(points)-1; i++ {
		a, b := OffsetSegment(points[i], points[i+1], dist)
		segments = append(segments, seg{a, b})
	}
	if closed {
		a, b := OffsetSegment(points[len(points)-1], points[0], dist)
		segments = append(segments, seg{a, b})
	}

	var newPoints []Point
	n := len(segments)

	if !closed {
		newPoints = append(newPoints, segments[0].a)
	}

	for i := 0; i < n-1; i++ {
		l1 := segments[i]
		l2 := segments[i+1]
		if inter, ok := LineLineInfinite(l1.a, l1.b, l2.a, l2.b); ok {
			newPoints = append(newPoints, inter)
		} else {
			newPoints = append(newPoints, l1.b) // parallel fallback
		}
	}

	if closed {
		l1 := segments[n-1]
		l2 := segments[0]
		if inter, ok := LineLineInfinite(l1.a, l1.b, l2.a, l2.b); ok {
			newPoints = append(newPoints, inter)
			newPoints = append([]Point{inter}, newPoints...)
		} else {
			newPoints = append(newPoints, l1.b)
			newPoints = append([]Point{l1.b}, newPoints...)
		}
	} else {
		newPoints = append(newPoints, segments[n-1].b)
	}

	return newPoints
}
