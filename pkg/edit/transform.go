package edit

import (
	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/shape"
)

// Translate returns copies of the shapes moved by (dx, dy).
func Translate(shapes []shape.Shape, dx, dy float64) []shape.Shape {
	move := func(p geom.Point) geom.Point { return geom.Point{X: p.X + dx, Y: p.Y + dy} }

	out := shape.CloneAll(shapes)
	for i := range out {
		switch d := out[i].Data.(type) {
		case shape.LineData:
			d.P1, d.P2 = move(d.P1), move(d.P2)
			out[i].Data = d
		case shape.RectangleData:
			d.X += dx
			d.Y += dy
			out[i].Data = d
		case shape.CircleData:
			d.CX += dx
			d.CY += dy
			out[i].Data = d
		case shape.ArcData:
			d.CX += dx
			d.CY += dy
			out[i].Data = d
		case shape.EllipseData:
			d.CX += dx
			d.CY += dy
			out[i].Data = d
		case shape.PolylineData:
			for j := range d.Points {
				d.Points[j] = move(d.Points[j])
			}
			out[i].Data = d
		case shape.TextData:
			d.X += dx
			d.Y += dy
			out[i].Data = d
		case shape.BlockRefData:
			d.X += dx
			d.Y += dy
			out[i].Data = d
		}
	}
	return out
}

// Scale returns copies of the shapes scaled by factor about basePoint.
// Radii, axes, font sizes, and block scales grow by the same factor.
func Scale(shapes []shape.Shape, basePoint geom.Point, factor float64) []shape.Shape {
	sc := func(p geom.Point) geom.Point {
		return geom.Point{
			X: basePoint.X + (p.X-basePoint.X)*factor,
			Y: basePoint.Y + (p.Y-basePoint.Y)*factor,
		}
	}

	out := shape.CloneAll(shapes)
	for i := range out {
		switch d := out[i].Data.(type) {
		case shape.LineData:
			d.P1, d.P2 = sc(d.P1), sc(d.P2)
			out[i].Data = d
		case shape.RectangleData:
			o := sc(geom.Point{X: d.X, Y: d.Y})
			d.X, d.Y = o.X, o.Y
			d.Width *= factor
			d.Height *= factor
			out[i].Data = d
		case shape.CircleData:
			c := sc(geom.Point{X: d.CX, Y: d.CY})
			d.CX, d.CY = c.X, c.Y
			d.Radius *= factor
			out[i].Data = d
		case shape.ArcData:
			c := sc(geom.Point{X: d.CX, Y: d.CY})
			d.CX, d.CY = c.X, c.Y
			d.Radius *= factor
			out[i].Data = d
		case shape.EllipseData:
			c := sc(geom.Point{X: d.CX, Y: d.CY})
			d.CX, d.CY = c.X, c.Y
			d.RX *= factor
			d.RY *= factor
			out[i].Data = d
		case shape.PolylineData:
			for j := range d.Points {
				d.Points[j] = sc(d.Points[j])
			}
			out[i].Data = d
		case shape.TextData:
			o := sc(geom.Point{X: d.X, Y: d.Y})
			d.X, d.Y = o.X, o.Y
			d.FontSize *= factor
			out[i].Data = d
		case shape.BlockRefData:
			o := sc(geom.Point{X: d.X, Y: d.Y})
			d.X, d.Y = o.X, o.Y
			d.Scale *= factor
			out[i].Data = d
		}
	}
	return out
}

// Rotate returns copies of the shapes rotated by angleDeg about basePoint.
// Arc spans advance with the rotation; rectangles, texts, ellipses, and
// block references stay axis-aligned and only their anchor moves.
func Rotate(shapes []shape.Shape, basePoint geom.Point, angleDeg float64) []shape.Shape {
	rot := func(p geom.Point) geom.Point { return geom.RotatePoint(p, basePoint, angleDeg) }

	out := shape.CloneAll(shapes)
	for i := range out {
		switch d := out[i].Data.(type) {
		case shape.LineData:
			d.P1, d.P2 = rot(d.P1), rot(d.P2)
			out[i].Data = d
		case shape.RectangleData:
			o := rot(geom.Point{X: d.X, Y: d.Y})
			d.X, d.Y = o.X, o.Y
			out[i].Data = d
		case shape.CircleData:
			c := rot(geom.Point{X: d.CX, Y: d.CY})
			d.CX, d.CY = c.X, c.Y
			out[i].Data = d
		case shape.ArcData:
			c := rot(geom.Point{X: d.CX, Y: d.CY})
			d.CX, d.CY = c.X, c.Y
			d.StartAngle = geom.Norm360(d.StartAngle + angleDeg)
			d.EndAngle = geom.Norm360(d.EndAngle + angleDeg)
			out[i].Data = d
		case shape.EllipseData:
			c := rot(geom.Point{X: d.CX, Y: d.CY})
			d.CX, d.CY = c.X, c.Y
			out[i].Data = d
		case shape.PolylineData:
			for j := range d.Points {
				d.Points[j] = rot(d.Points[j])
			}
			out[i].Data = d
		case shape.TextData:
			o := rot(geom.Point{X: d.X, Y: d.Y})
			d.X, d.Y = o.X, o.Y
			out[i].Data = d
		case shape.BlockRefData:
			o := rot(geom.Point{X: d.X, Y: d.Y})
			d.X, d.Y = o.X, o.Y
			out[i].Data = d
		}
	}
	return out
}
