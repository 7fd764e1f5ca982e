// Package dxf converts a project document to a DXF drawing. The canvas is
// Y-down while DXF is Y-up, so every coordinate is emitted with a flipped Y
// and arc spans are negated and swapped.
package dxf

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/oxcad/oxcad/pkg/edit"
	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/project"
	"github.com/oxcad/oxcad/pkg/shape"
)

// curveSteps is the sampling density for arcs and ellipses, which are
// emitted as lightweight polylines.
const curveSteps = 64

// Exporter writes project documents as DXF files.
type Exporter struct {
	log *logrus.Entry
}

// NewExporter returns an exporter logging through log.
func NewExporter(log *logrus.Logger) *Exporter {
	return &Exporter{log: log.WithField("component", "dxf")}
}

// Export writes the document to path. Block references are exploded into
// their transformed shapes; unknown kinds are skipped with a warning.
func (e *Exporter) Export(p *project.Project, path string) error {
	d := dxf.NewDrawing()

	layerNames := map[string]string{}
	for _, l := range p.Layers {
		name := strings.ReplaceAll(strings.TrimSpace(l.Name), " ", "_")
		if name == "" {
			name = l.ID
		}
		layerNames[l.ID] = name
		if _, err := d.AddLayer(name, aciFromHex(l.Color), table.LT_CONTINUOUS, false); err != nil {
			return fmt.Errorf("dxf: add layer %s: %w", name, err)
		}
	}

	for _, s := range p.Shapes {
		if err := e.addShape(d, p, layerNames, s, 0); err != nil {
			return err
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("dxf: save %s: %w", path, err)
	}
	e.log.WithFields(logrus.Fields{"path": path, "shapes": len(p.Shapes)}).Info("exported")
	return nil
}

// maxBlockDepth stops runaway nesting if a block ends up referencing
// itself.
const maxBlockDepth = 8

func (e *Exporter) addShape(d *drawing.Drawing, p *project.Project, layerNames map[string]string, s shape.Shape, depth int) error {
	if name, ok := layerNames[s.Layer]; ok {
		if err := d.ChangeLayer(name); err != nil {
			return fmt.Errorf("dxf: change layer %s: %w", name, err)
		}
	}

	switch data := s.Data.(type) {
	case shape.LineData:
		d.Line(data.P1.X, -data.P1.Y, 0, data.P2.X, -data.P2.Y, 0)

	case shape.RectangleData:
		d.LwPolyline(true,
			[]float64{data.X, -data.Y},
			[]float64{data.X + data.Width, -data.Y},
			[]float64{data.X + data.Width, -(data.Y + data.Height)},
			[]float64{data.X, -(data.Y + data.Height)},
		)

	case shape.PolylineData:
		if len(data.Points) < 2 {
			return nil
		}
		verts := make([][]float64, len(data.Points))
		for i, pt := range data.Points {
			verts[i] = []float64{pt.X, -pt.Y}
		}
		d.LwPolyline(data.Closed, verts...)

	case shape.CircleData:
		d.Circle(data.CX, -data.CY, 0, data.Radius)

	case shape.ArcData:
		d.LwPolyline(false, sampleArc(data.CX, data.CY, data.Radius, data.Radius,
			data.StartAngle, data.EndAngle)...)

	case shape.EllipseData:
		d.LwPolyline(data.Full(), sampleArc(data.CX, data.CY, data.RX, data.RY,
			data.StartAngle, data.EndAngle)...)

	case shape.TextData:
		d.Text(data.Content, data.X, -data.Y, 0, data.FontSize)

	case shape.BlockRefData:
		if depth >= maxBlockDepth {
			e.log.WithField("block", data.BlockName).Warn("block nesting too deep, skipped")
			return nil
		}
		def, ok := p.Blocks[data.BlockName]
		if !ok {
			e.log.WithField("block", data.BlockName).Warn("undefined block reference, skipped")
			return nil
		}
		placed := edit.Scale(def, geom.Point{}, data.Scale)
		placed = edit.Rotate(placed, geom.Point{}, data.Rotation)
		placed = edit.Translate(placed, data.X, data.Y)
		for _, bs := range placed {
			bs.Layer = s.Layer
			if err := e.addShape(d, p, layerNames, bs, depth+1); err != nil {
				return err
			}
		}

	default:
		e.log.WithField("kind", s.Kind.String()).Warn("unsupported shape kind, skipped")
	}
	return nil
}

// sampleArc approximates an arc or partial ellipse as polyline vertices,
// already Y-flipped. Wraparound spans advance the end angle a full turn.
func sampleArc(cx, cy, rx, ry, startDeg, endDeg float64) [][]float64 {
	if endDeg <= startDeg {
		endDeg += 360
	}
	verts := make([][]float64, 0, curveSteps+1)
	for i := 0; i <= curveSteps; i++ {
		a := (startDeg + (endDeg-startDeg)*float64(i)/curveSteps) * math.Pi / 180
		verts = append(verts, []float64{cx + rx*math.Cos(a), -(cy + ry*math.Sin(a))})
	}
	return verts
}

// aciColors are the nine AutoCAD color indices matched against shape and
// layer colors.
var aciColors = []struct {
	r, g, b float64
	aci     color.ColorNumber
}{
	{255, 0, 0, color.Red},
	{255, 255, 0, color.Yellow},
	{0, 255, 0, color.Green},
	{0, 255, 255, color.Cyan},
	{0, 0, 255, color.Blue},
	{255, 0, 255, color.Magenta},
	{255, 255, 255, color.White},
	{128, 128, 128, color.ColorNumber(8)},
	{192, 192, 192, color.ColorNumber(9)},
}

// aciFromHex maps a #rrggbb (or #rgb) color to the nearest common AutoCAD
// color index. Anything unparseable falls back to white.
func aciFromHex(hex string) color.ColorNumber {
	hex = strings.ToLower(strings.TrimPrefix(hex, "#"))
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.White
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.White
	}

	best := color.White
	minDist := math.Inf(1)
	for _, c := range aciColors {
		d := (c.r-float64(r))*(c.r-float64(r)) +
			(c.g-float64(g))*(c.g-float64(g)) +
			(c.b-float64(b))*(c.b-float64(b))
		if d < minDist {
			minDist = d
			best = c.aci
		}
	}
	return best
}
