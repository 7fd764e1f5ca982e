// Package shape defines the drawing model for OxCAD: a tagged variant over
// the drawable kinds, with one payload struct per kind. Shapes are plain
// values; edit operations produce new shapes rather than aliasing geometry.
package shape

import "github.com/oxcad/oxcad/pkg/geom"

// Kind enumerates the shape variants.
type Kind int

const (
	KindLine Kind = iota
	KindRectangle
	KindCircle
	KindArc
	KindEllipse
	KindPolyline
	KindText
	KindBlockRef
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindRectangle:
		return "rectangle"
	case KindCircle:
		return "circle"
	case KindArc:
		return "arc"
	case KindEllipse:
		return "ellipse"
	case KindPolyline:
		return "polyline"
	case KindText:
		return "text"
	case KindBlockRef:
		return "block_reference"
	default:
		return "unknown"
	}
}

// kindFromString is the inverse of Kind.String. Unrecognized tags map to
// KindUnknown; downstream consumers treat unknown kinds as empty geometry.
func kindFromString(s string) Kind {
	switch s {
	case "line":
		return KindLine
	case "rectangle":
		return KindRectangle
	case "circle":
		return KindCircle
	case "arc":
		return KindArc
	case "ellipse":
		return KindEllipse
	case "polyline":
		return KindPolyline
	case "text":
		return KindText
	case "block_reference":
		return KindBlockRef
	default:
		return KindUnknown
	}
}

// Shape is a single drawable entity. Layer is a weak reference into the
// project's layer table; the shape never owns the layer. Style fields apply
// uniformly across kinds.
type Shape struct {
	ID    string
	Kind  Kind
	Layer string
	Color string
	Width float64
	Data  ShapeData
}

// ShapeData is the interface for kind-specific geometry payloads.
type ShapeData interface {
	shapeData() // marker method restricting implementations to this package
}

// Clone returns a deep copy of the shape. Payloads are value types except
// the polyline point slice, which is copied.
func (s Shape) Clone() Shape {
	out := s
	if pd, ok := s.Data.(PolylineData); ok {
		pts := make([]geom.Point, len(pd.Points))
		copy(pts, pd.Points)
		pd.Points = pts
		out.Data = pd
	}
	return out
}

// CloneAll deep-copies a shape slice.
func CloneAll(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}
