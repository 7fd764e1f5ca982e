package shape

import "github.com/oxcad/oxcad/pkg/geom"

// ---------------------------------------------------------------------------
// Per-kind geometry payloads
// ---------------------------------------------------------------------------

// LineData is a straight segment. Zero-length lines are tolerated; distance
// queries against them degrade to point distance.
type LineData struct {
	P1 geom.Point `json:"p1"`
	P2 geom.Point `json:"p2"`
}

func (LineData) shapeData() {}

// RectangleData is an axis-aligned rectangle anchored at its top-left origin.
// Width and Height must be positive.
type RectangleData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (RectangleData) shapeData() {}

// CircleData is a full circle. Radius must be positive.
type CircleData struct {
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Radius float64 `json:"radius"`
}

func (CircleData) shapeData() {}

// ArcData is a circular arc. Angles are degrees, taken modulo 360; the start
// angle may numerically exceed the end angle, in which case the arc wraps
// through 0°/360°.
type ArcData struct {
	CX         float64 `json:"cx"`
	CY         float64 `json:"cy"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
}

func (ArcData) shapeData() {}

// EllipseData is an axis-aligned ellipse, optionally restricted to an
// angular span. A full ellipse carries the span 0–360.
type EllipseData struct {
	CX         float64 `json:"cx"`
	CY         float64 `json:"cy"`
	RX         float64 `json:"rx"`
	RY         float64 `json:"ry"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
}

func (EllipseData) shapeData() {}

// Full reports whether the ellipse covers the complete 0–360 span.
func (e EllipseData) Full() bool {
	return e.StartAngle == 0 && e.EndAngle == 360
}

// PolylineData is an ordered point sequence with at least two points. When
// Closed is set an implicit segment connects the last point to the first.
type PolylineData struct {
	Points []geom.Point `json:"points"`
	Closed bool         `json:"closed,omitempty"`
}

func (PolylineData) shapeData() {}

// TextData is a text annotation. Content is not validated here.
type TextData struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize"`
}

func (TextData) shapeData() {}

// BlockRefData is an instance of a named block definition, placed at X,Y
// with a uniform scale and a rotation in degrees.
type BlockRefData struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	BlockName string  `json:"blockName"`
	Scale     float64 `json:"scale"`
	Rotation  float64 `json:"rotation"`
}

func (BlockRefData) shapeData() {}
