package edit

import (
	"errors"
	"math"
	"testing"

	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/shape"
)

func line(x1, y1, x2, y2 float64) shape.Shape {
	return shape.Shape{Kind: shape.KindLine, Data: shape.LineData{
		P1: geom.Point{X: x1, Y: y1}, P2: geom.Point{X: x2, Y: y2},
	}}
}

func circle(cx, cy, r float64) shape.Shape {
	return shape.Shape{Kind: shape.KindCircle, Data: shape.CircleData{CX: cx, CY: cy, Radius: r}}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearPt(a, b geom.Point) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

// --- trim ---

func TestTrimLineRemovesClickedSide(t *testing.T) {
	target := line(0, 0, 10, 0)
	target.ID = "t"
	target.Color = "#00ff00"
	cutter := line(5, -5, 5, 5)

	got, err := Trim(target, geom.Point{X: 2, Y: 0}, []shape.Shape{cutter})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d shapes, want 1", len(got))
	}
	d := got[0].Data.(shape.LineData)
	if !nearPt(d.P1, geom.Point{X: 5, Y: 0}) || !nearPt(d.P2, geom.Point{X: 10, Y: 0}) {
		t.Errorf("kept segment %v-%v, want (5,0)-(10,0)", d.P1, d.P2)
	}
	if got[0].Color != "#00ff00" {
		t.Errorf("color = %q, style not carried over", got[0].Color)
	}
	if got[0].ID != "" {
		t.Errorf("id = %q, want empty for the caller to assign", got[0].ID)
	}
}

func TestTrimLineNoIntersections(t *testing.T) {
	_, err := Trim(line(0, 0, 10, 0), geom.Point{X: 2, Y: 0}, []shape.Shape{line(0, 5, 10, 5)})
	if !errors.Is(err, ErrNoIntersections) {
		t.Errorf("err = %v, want ErrNoIntersections", err)
	}
}

func TestTrimLineIgnoresSelf(t *testing.T) {
	target := line(0, 0, 10, 0)
	target.ID = "same"
	self := target
	_, err := Trim(target, geom.Point{X: 2, Y: 0}, []shape.Shape{self})
	if !errors.Is(err, ErrNoIntersections) {
		t.Errorf("err = %v, want ErrNoIntersections", err)
	}
}

func TestTrimCircleBecomesArc(t *testing.T) {
	target := circle(0, 0, 5)
	cutter := line(0, -10, 0, 10)

	// Cuts at 90 and 270 degrees; clicking the right half at (5,0) keeps the
	// left arc.
	got, err := Trim(target, geom.Point{X: 5, Y: 0}, []shape.Shape{cutter})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d shapes, want 1", len(got))
	}
	d, ok := got[0].Data.(shape.ArcData)
	if !ok {
		t.Fatalf("payload = %T, want ArcData", got[0].Data)
	}
	if !near(d.StartAngle, 90) || !near(d.EndAngle, 270) {
		t.Errorf("span = %v..%v, want 90..270", d.StartAngle, d.EndAngle)
	}
}

func TestTrimCircleSingleCutFails(t *testing.T) {
	// A tangent touches at one point only; a closed loop cannot be split.
	_, err := Trim(circle(0, 0, 5), geom.Point{X: 5, Y: 0}, []shape.Shape{line(-10, 5, 10, 5)})
	if !errors.Is(err, ErrInsufficientCuts) {
		t.Errorf("err = %v, want ErrInsufficientCuts", err)
	}
}

func TestTrimArcSpanBoundaries(t *testing.T) {
	target := shape.Shape{Kind: shape.KindArc, Data: shape.ArcData{
		CX: 0, CY: 0, Radius: 5, StartAngle: 0, EndAngle: 180,
	}}
	cutter := line(0, 0, 0, 10)

	// One cut at 90 degrees splits the half arc in two; clicking near the
	// start keeps the 90..180 quarter.
	got, err := Trim(target, geom.Point{X: 4, Y: 1}, []shape.Shape{cutter})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d shapes, want 1", len(got))
	}
	d := got[0].Data.(shape.ArcData)
	if !near(d.StartAngle, 90) || !near(d.EndAngle, 180) {
		t.Errorf("span = %v..%v, want 90..180", d.StartAngle, d.EndAngle)
	}
}

func TestTrimFullEllipse(t *testing.T) {
	target := shape.Shape{Kind: shape.KindEllipse, Color: "#00ff88", Data: shape.EllipseData{
		CX: 0, CY: 0, RX: 10, RY: 5, StartAngle: 0, EndAngle: 360,
	}}
	cutter := line(0, -10, 0, 10)

	// The vertical cutter crosses at polar angles 90 and 270; clicking the
	// right half at (10,0) keeps the left half as a 90..270 partial ellipse.
	got, err := Trim(target, geom.Point{X: 10, Y: 0}, []shape.Shape{cutter})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d shapes, want 1", len(got))
	}
	d := got[0].Data.(shape.EllipseData)
	if !near(d.StartAngle, 90) || !near(d.EndAngle, 270) {
		t.Errorf("span = %v..%v, want 90..270", d.StartAngle, d.EndAngle)
	}
	if d.RX != 10 || d.RY != 5 || got[0].Color != "#00ff88" {
		t.Errorf("kept piece = %+v %q", d, got[0].Color)
	}
}

func TestTrimRectangleEmitsLines(t *testing.T) {
	target := shape.Shape{Kind: shape.KindRectangle, Data: shape.RectangleData{
		X: 0, Y: 0, Width: 10, Height: 10,
	}}
	cutter := line(-5, 5, 15, 5)

	// The cutter splits the left and right edges, giving six candidate
	// segments; clicking the lower right edge removes exactly one.
	got, err := Trim(target, geom.Point{X: 10, Y: 2.5}, []shape.Shape{cutter})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d shapes, want 5", len(got))
	}
	for _, s := range got {
		if s.Kind != shape.KindLine {
			t.Errorf("kind = %v, want line", s.Kind)
		}
		d := s.Data.(shape.LineData)
		if nearPt(geom.Midpoint(d.P1, d.P2), geom.Point{X: 10, Y: 2.5}) {
			t.Errorf("clicked segment %v-%v survived", d.P1, d.P2)
		}
	}
}

// --- offset ---

func TestOffsetLineSides(t *testing.T) {
	l := line(0, 0, 10, 0)

	below, ok := Offset(l, 2, geom.Point{X: 5, Y: -5})
	if !ok {
		t.Fatal("offset failed")
	}
	d := below.Data.(shape.LineData)
	if !near(d.P1.Y, 2) || !near(d.P2.Y, 2) {
		t.Errorf("click below: offset at y=%v,%v, want 2", d.P1.Y, d.P2.Y)
	}

	above, ok := Offset(l, 2, geom.Point{X: 5, Y: 5})
	if !ok {
		t.Fatal("offset failed")
	}
	d = above.Data.(shape.LineData)
	if !near(d.P1.Y, -2) || !near(d.P2.Y, -2) {
		t.Errorf("click above: offset at y=%v,%v, want -2", d.P1.Y, d.P2.Y)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	l := line(0, 0, 10, 0)

	// Offsetting by d to one side and then by d back to the other side
	// reproduces the original endpoints.
	away, ok := Offset(l, 2, geom.Point{X: 5, Y: 5})
	if !ok {
		t.Fatal("offset failed")
	}
	back, ok := Offset(away, 2, geom.Point{X: 5, Y: -5})
	if !ok {
		t.Fatal("return offset failed")
	}
	d := back.Data.(shape.LineData)
	orig := l.Data.(shape.LineData)
	if math.Abs(d.P1.X-orig.P1.X) > 1e-6 || math.Abs(d.P1.Y-orig.P1.Y) > 1e-6 ||
		math.Abs(d.P2.X-orig.P2.X) > 1e-6 || math.Abs(d.P2.Y-orig.P2.Y) > 1e-6 {
		t.Errorf("round trip = %v-%v, want %v-%v", d.P1, d.P2, orig.P1, orig.P2)
	}

	// Same property for a circle: grow outward, shrink back.
	grown, ok := Offset(circle(0, 0, 5), 2, geom.Point{X: 9, Y: 0})
	if !ok {
		t.Fatal("grow failed")
	}
	shrunk, ok := Offset(grown, 2, geom.Point{X: 0, Y: 0})
	if !ok {
		t.Fatal("shrink failed")
	}
	if r := shrunk.Data.(shape.CircleData).Radius; math.Abs(r-5) > 1e-6 {
		t.Errorf("round-trip radius = %v, want 5", r)
	}
}

func TestOffsetPolylineCornerJoin(t *testing.T) {
	p := shape.Shape{Kind: shape.KindPolyline, Data: shape.PolylineData{
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
	}}
	got, ok := Offset(p, 1, geom.Point{X: 5, Y: -5})
	if !ok {
		t.Fatal("offset failed")
	}
	pts := got.Data.(shape.PolylineData).Points
	if len(pts) != 3 {
		t.Fatalf("got %d points, want 3", len(pts))
	}
	// The two offset segments y=1 and x=9 join at their infinite-line
	// crossing.
	if !nearPt(pts[1], geom.Point{X: 9, Y: 1}) {
		t.Errorf("corner join = %v, want {9 1}", pts[1])
	}
}

func TestOffsetCircle(t *testing.T) {
	c := circle(0, 0, 5)

	grown, ok := Offset(c, 2, geom.Point{X: 20, Y: 0})
	if !ok || !near(grown.Data.(shape.CircleData).Radius, 7) {
		t.Errorf("outside click: got %v ok=%v, want radius 7", grown.Data, ok)
	}

	shrunk, ok := Offset(c, 2, geom.Point{X: 0, Y: 0})
	if !ok || !near(shrunk.Data.(shape.CircleData).Radius, 3) {
		t.Errorf("inside click: got %v ok=%v, want radius 3", shrunk.Data, ok)
	}

	if _, ok := Offset(c, 6, geom.Point{X: 0, Y: 0}); ok {
		t.Error("shrinking past zero radius must cancel")
	}
}

func TestOffsetRectangle(t *testing.T) {
	r := shape.Shape{Kind: shape.KindRectangle, Data: shape.RectangleData{
		X: 0, Y: 0, Width: 10, Height: 10,
	}}

	grown, ok := Offset(r, 2, geom.Point{X: 50, Y: 50})
	if !ok {
		t.Fatal("offset failed")
	}
	d := grown.Data.(shape.RectangleData)
	if !near(d.X, -2) || !near(d.Width, 14) {
		t.Errorf("outside click: got %+v, want x=-2 width=14", d)
	}

	if _, ok := Offset(r, 5, geom.Point{X: 5, Y: 5}); ok {
		t.Error("contracting a 10-wide rectangle by 5 per side must cancel")
	}
}

func TestOffsetUnsupportedKind(t *testing.T) {
	s := shape.Shape{Kind: shape.KindText, Data: shape.TextData{Content: "x"}}
	if _, ok := Offset(s, 2, geom.Point{}); ok {
		t.Error("text offset must report failure")
	}
}

// --- transforms ---

func TestTranslate(t *testing.T) {
	in := []shape.Shape{
		line(0, 0, 10, 0),
		{Kind: shape.KindPolyline, Data: shape.PolylineData{Points: []geom.Point{{X: 1, Y: 1}}}},
	}
	out := Translate(in, 3, 4)

	d := out[0].Data.(shape.LineData)
	if !nearPt(d.P1, geom.Point{X: 3, Y: 4}) || !nearPt(d.P2, geom.Point{X: 13, Y: 4}) {
		t.Errorf("line = %v-%v", d.P1, d.P2)
	}
	p := out[1].Data.(shape.PolylineData).Points[0]
	if !nearPt(p, geom.Point{X: 4, Y: 5}) {
		t.Errorf("polyline point = %v, want {4 5}", p)
	}
	// Inputs stay untouched.
	if in[1].Data.(shape.PolylineData).Points[0] != (geom.Point{X: 1, Y: 1}) {
		t.Error("Translate mutated its input")
	}
}

func TestScale(t *testing.T) {
	out := Scale([]shape.Shape{circle(10, 0, 5)}, geom.Point{X: 0, Y: 0}, 2)
	d := out[0].Data.(shape.CircleData)
	if !near(d.CX, 20) || !near(d.Radius, 10) {
		t.Errorf("got cx=%v r=%v, want cx=20 r=10", d.CX, d.Radius)
	}
}

func TestRotateLine(t *testing.T) {
	out := Rotate([]shape.Shape{line(10, 0, 20, 0)}, geom.Point{X: 0, Y: 0}, 90)
	d := out[0].Data.(shape.LineData)
	if !nearPt(d.P1, geom.Point{X: 0, Y: 10}) || !nearPt(d.P2, geom.Point{X: 0, Y: 20}) {
		t.Errorf("rotated line = %v-%v, want (0,10)-(0,20)", d.P1, d.P2)
	}
}

func TestRotateArcAdvancesSpan(t *testing.T) {
	in := []shape.Shape{{Kind: shape.KindArc, Data: shape.ArcData{
		CX: 10, CY: 0, Radius: 5, StartAngle: 0, EndAngle: 90,
	}}}
	out := Rotate(in, geom.Point{X: 0, Y: 0}, 90)
	d := out[0].Data.(shape.ArcData)
	if !near(d.CX, 0) || !near(d.CY, 10) {
		t.Errorf("center = (%v,%v), want (0,10)", d.CX, d.CY)
	}
	if !near(d.StartAngle, 90) || !near(d.EndAngle, 180) {
		t.Errorf("span = %v..%v, want 90..180", d.StartAngle, d.EndAngle)
	}
}
