package shape

import (
	"encoding/json"
	"fmt"

	"github.com/oxcad/oxcad/pkg/geom"
)

// shapeJSON is the flat, kind-tagged wire format shared by project files,
// the block library, and the frontend bridge. Geometry fields are pointers
// so absent fields can take their documented defaults (an ellipse or arc
// with no angles is a full 0–360 span).
type shapeJSON struct {
	ID    string  `json:"id,omitempty"`
	Type  string  `json:"type"`
	Layer string  `json:"layer,omitempty"`
	Color string  `json:"color,omitempty"`
	LineW float64 `json:"lineWidth,omitempty"`

	P1 *geom.Point `json:"p1,omitempty"`
	P2 *geom.Point `json:"p2,omitempty"`

	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`

	CX         *float64 `json:"cx,omitempty"`
	CY         *float64 `json:"cy,omitempty"`
	Radius     *float64 `json:"radius,omitempty"`
	RX         *float64 `json:"rx,omitempty"`
	RY         *float64 `json:"ry,omitempty"`
	StartAngle *float64 `json:"startAngle,omitempty"`
	EndAngle   *float64 `json:"endAngle,omitempty"`

	Points []geom.Point `json:"points,omitempty"`
	Closed bool         `json:"closed,omitempty"`

	Content  *string  `json:"content,omitempty"`
	FontSize *float64 `json:"fontSize,omitempty"`

	BlockName *string  `json:"blockName,omitempty"`
	Scale     *float64 `json:"scale,omitempty"`
	Rotation  *float64 `json:"rotation,omitempty"`
}

func fptr(v float64) *float64 { return &v }

// MarshalJSON encodes the shape in the flat tagged format.
func (s Shape) MarshalJSON() ([]byte, error) {
	out := shapeJSON{
		ID:    s.ID,
		Type:  s.Kind.String(),
		Layer: s.Layer,
		Color: s.Color,
		LineW: s.Width,
	}

	switch d := s.Data.(type) {
	case LineData:
		p1, p2 := d.P1, d.P2
		out.P1, out.P2 = &p1, &p2
	case RectangleData:
		out.X, out.Y = fptr(d.X), fptr(d.Y)
		out.Width, out.Height = fptr(d.Width), fptr(d.Height)
	case CircleData:
		out.CX, out.CY, out.Radius = fptr(d.CX), fptr(d.CY), fptr(d.Radius)
	case ArcData:
		out.CX, out.CY, out.Radius = fptr(d.CX), fptr(d.CY), fptr(d.Radius)
		out.StartAngle, out.EndAngle = fptr(d.StartAngle), fptr(d.EndAngle)
	case EllipseData:
		out.CX, out.CY = fptr(d.CX), fptr(d.CY)
		out.RX, out.RY = fptr(d.RX), fptr(d.RY)
		out.StartAngle, out.EndAngle = fptr(d.StartAngle), fptr(d.EndAngle)
	case PolylineData:
		out.Points = d.Points
		out.Closed = d.Closed
	case TextData:
		out.X, out.Y = fptr(d.X), fptr(d.Y)
		c := d.Content
		out.Content = &c
		out.FontSize = fptr(d.FontSize)
	case BlockRefData:
		out.X, out.Y = fptr(d.X), fptr(d.Y)
		n := d.BlockName
		out.BlockName = &n
		out.Scale, out.Rotation = fptr(d.Scale), fptr(d.Rotation)
	case nil:
		// Unknown kind with no payload round-trips as an empty record.
	default:
		return nil, fmt.Errorf("shape %s: unsupported payload %T", s.ID, s.Data)
	}

	return json.Marshal(out)
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// UnmarshalJSON decodes the flat tagged format. Unknown type tags produce a
// shape with KindUnknown and no payload; geometry consumers skip those.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var in shapeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	s.ID = in.ID
	s.Kind = kindFromString(in.Type)
	s.Layer = in.Layer
	s.Color = in.Color
	s.Width = in.LineW

	switch s.Kind {
	case KindLine:
		d := LineData{}
		if in.P1 != nil {
			d.P1 = *in.P1
		}
		if in.P2 != nil {
			d.P2 = *in.P2
		}
		s.Data = d
	case KindRectangle:
		s.Data = RectangleData{
			X: deref(in.X), Y: deref(in.Y),
			Width: deref(in.Width), Height: deref(in.Height),
		}
	case KindCircle:
		s.Data = CircleData{CX: deref(in.CX), CY: deref(in.CY), Radius: deref(in.Radius)}
	case KindArc:
		s.Data = ArcData{
			CX: deref(in.CX), CY: deref(in.CY), Radius: deref(in.Radius),
			StartAngle: derefOr(in.StartAngle, 0),
			EndAngle:   derefOr(in.EndAngle, 360),
		}
	case KindEllipse:
		s.Data = EllipseData{
			CX: deref(in.CX), CY: deref(in.CY),
			RX: deref(in.RX), RY: deref(in.RY),
			StartAngle: derefOr(in.StartAngle, 0),
			EndAngle:   derefOr(in.EndAngle, 360),
		}
	case KindPolyline:
		s.Data = PolylineData{Points: in.Points, Closed: in.Closed}
	case KindText:
		d := TextData{X: deref(in.X), Y: deref(in.Y), FontSize: derefOr(in.FontSize, 12)}
		if in.Content != nil {
			d.Content = *in.Content
		}
		s.Data = d
	case KindBlockRef:
		d := BlockRefData{
			X: deref(in.X), Y: deref(in.Y),
			Scale:    derefOr(in.Scale, 1),
			Rotation: deref(in.Rotation),
		}
		if in.BlockName != nil {
			d.BlockName = *in.BlockName
		}
		s.Data = d
	default:
		s.Data = nil
	}
	return nil
}
