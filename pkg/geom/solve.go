package geom

import "math"

// ---------------------------------------------------------------------------
// Pairwise intersection solvers. These are the scalar-level routines; shape
// dispatch and angular-span filtering live in pkg/intersect.
// ---------------------------------------------------------------------------

// LineLine returns the intersection of segments p1-p2 and p3-p4, or false if
// the segments do not cross. Near-parallel segments (|denom| < 1e-10) report
// no intersection.
func LineLine(p1, p2, p3, p4 Point) (Point, bool) {
	denom := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(denom) < 1e-10 {
		return Point{}, false
	}

	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / denom
	u := -((p1.X-p2.X)*(p1.Y-p3.Y) - (p1.Y-p2.Y)*(p1.X-p3.X)) / denom

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return Point{p1.X + t*(p2.X-p1.X), p1.Y + t*(p2.Y-p1.Y)}, true
}

// LineLineInfinite returns the intersection of the infinite lines through
// p1-p2 and p3-p4, or false if they are parallel. Used to join adjacent
// offset segments of a polyline.
func LineLineInfinite(p1, p2, p3, p4 Point) (Point, bool) {
	denom := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(denom) < 1e-10 {
		return Point{}, false
	}

	a := p1.X*p2.Y - p1.Y*p2.X
	b := p3.X*p4.Y - p3.Y*p4.X
	px := (a*(p3.X-p4.X) - (p1.X-p2.X)*b) / denom
	py := (a*(p3.Y-p4.Y) - (p1.Y-p2.Y)*b) / denom
	return Point{px, py}, true
}

// LineCircle returns the intersections of segment p1-p2 with a circle.
// The parametric line is substituted into the circle equation; roots with
// t outside [0,1], a negative discriminant, or a degenerate segment (a≈0)
// are discarded.
func LineCircle(p1, p2, center Point, radius float64) []Point {
	x1 := p1.X - center.X
	y1 := p1.Y - center.Y
	x2 := p2.X - center.X
	y2 := p2.Y - center.Y

	dx := x2 - x1
	dy := y2 - y1
	a := dx*dx + dy*dy
	b := 2 * (x1*dx + y1*dy)
	c := x1*x1 + y1*y1 - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 || math.Abs(a) < 1e-10 {
		return nil
	}

	var results []Point
	sqrtDisc := math.Sqrt(disc)
	for _, sign := range []float64{1, -1} {
		t := (-b + sign*sqrtDisc) / (2 * a)
		if t >= 0 && t <= 1 {
			results = append(results, Point{
				X: p1.X + t*(p2.X-p1.X),
				Y: p1.Y + t*(p2.Y-p1.Y),
			})
		}
	}
	return results
}

// CircleCircle returns the intersections of two circles via the radical-line
// construction: none when separated, contained, or concentric (d < 1e-10);
// one point when tangent (|h| < 1e-10); otherwise two.
func CircleCircle(c1 Point, r1 float64, c2 Point, r2 float64) []Point {
	d := Distance(c1, c2)
	if d > r1+r2 || d < math.Abs(r1-r2) || d < 1e-10 {
		return nil
	}

	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	hSq := r1*r1 - a*a
	if hSq < 0 {
		return nil
	}
	h := math.Sqrt(hSq)

	mx := c1.X + a*(c2.X-c1.X)/d
	my := c1.Y + a*(c2.Y-c1.Y)/d

	if math.Abs(h) < 1e-10 {
		return []Point{{mx, my}}
	}

	ox := h * (c2.Y - c1.Y) / d
	oy := h * (c2.X - c1.X) / d

	return []Point{
		{mx + ox, my - oy},
		{mx - ox, my + oy},
	}
}

// LineEllipse returns the intersections of segment p1-p2 with an
// axis-aligned ellipse, optionally restricted to the angular span
// [startAngle, endAngle] (pass 0, 360 for a full ellipse).
//
// Strategy: scale Y by rx/ry about the ellipse center so the ellipse becomes
// a circle of radius rx, intersect in circle space, unscale the results,
// then re-validate that each point lies on the original segment via the
// distance-sum equality (the axis scaling distorts the parameter bound).
// Span filtering uses the polar angle about the center, not the parametric
// ellipse angle, matching how partial ellipses are drawn.
func LineEllipse(p1, p2, center Point, rx, ry, startAngle, endAngle float64) []Point {
	if math.Abs(ry) < 1e-10 {
		return nil
	}
	scaleY := rx / ry

	tp1 := Point{p1.X, (p1.Y-center.Y)*scaleY + center.Y}
	tp2 := Point{p2.X, (p2.Y-center.Y)*scaleY + center.Y}

	circleHits := LineCircle(tp1, tp2, center, rx)

	var results []Point
	for _, ip := range circleHits {
		pt := Point{ip.X, (ip.Y-center.Y)/scaleY + center.Y}
		d := Distance(p1, p2)
		d1 := Distance(p1, pt)
		d2 := Distance(p2, pt)
		if math.Abs(d-(d1+d2)) < 1e-5 {
			results = append(results, pt)
		}
	}

	var filtered []Point
	for _, pt := range results {
		ang := math.Atan2(pt.Y-center.Y, pt.X-center.X) * 180 / math.Pi
		if IsAngleBetween(ang, startAngle, endAngle) {
			filtered = append(filtered, pt)
		}
	}
	return filtered
}
