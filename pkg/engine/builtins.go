package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/shape"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source before passing it to zygomys.
// It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: start-angle -> start_angle
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus
		// operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// floats extracts n leading numeric positional arguments.
func floats(pa kwArgs, fn string, n int) ([]float64, error) {
	if len(pa.positional) < n {
		return nil, fmt.Errorf("%s requires %d coordinates, got %d", fn, n, len(pa.positional))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := toFloat64(pa.positional[i])
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Shape collection
// ---------------------------------------------------------------------------

// sheet accumulates the shapes a script draws. Ids and layers are assigned
// by the project layer when the shapes are committed.
type sheet struct {
	shapes []shape.Shape
}

// sexpShape is returned by drawing builtins so scripts can see what they
// made.
type sexpShape struct {
	s shape.Shape
}

func (w *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(shape %s)", w.s.Kind)
}
func (w *sexpShape) Type() *zygo.RegisteredType { return nil }

// applyStyle reads the shared style keywords :color, :width, and :layer.
func applyStyle(s *shape.Shape, pa kwArgs, fn string) error {
	if v, ok := pa.kw["color"]; ok {
		c, err := toString(v)
		if err != nil {
			return fmt.Errorf("%s: color: %w", fn, err)
		}
		s.Color = c
	}
	if v, ok := pa.kw["width"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("%s: width: %w", fn, err)
		}
		s.Width = f
	}
	if v, ok := pa.kw["layer"]; ok {
		l, err := toString(v)
		if err != nil {
			return fmt.Errorf("%s: layer: %w", fn, err)
		}
		s.Layer = l
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the drawing builtins into a zygomys environment.
// They append to the provided sheet during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sh *sheet) {

	add := func(s shape.Shape, pa kwArgs, fn string) (zygo.Sexp, error) {
		if err := applyStyle(&s, pa, fn); err != nil {
			return zygo.SexpNull, err
		}
		sh.shapes = append(sh.shapes, s)
		return &sexpShape{s: s}, nil
	}

	// -----------------------------------------------------------------------
	// (line 0 0 100 50 :color "#ff0000" :width 2)
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c, err := floats(pa, "line", 4)
		if err != nil {
			return zygo.SexpNull, err
		}
		return add(shape.Shape{Kind: shape.KindLine, Data: shape.LineData{
			P1: geom.Point{X: c[0], Y: c[1]},
			P2: geom.Point{X: c[2], Y: c[3]},
		}}, pa, "line")
	})

	// -----------------------------------------------------------------------
	// (rect 0 0 100 50)
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c, err := floats(pa, "rect", 4)
		if err != nil {
			return zygo.SexpNull, err
		}
		return add(shape.Shape{Kind: shape.KindRectangle, Data: shape.RectangleData{
			X: c[0], Y: c[1], Width: c[2], Height: c[3],
		}}, pa, "rect")
	})

	// -----------------------------------------------------------------------
	// (circle 50 50 25)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c, err := floats(pa, "circle", 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return add(shape.Shape{Kind: shape.KindCircle, Data: shape.CircleData{
			CX: c[0], CY: c[1], Radius: c[2],
		}}, pa, "circle")
	})

	// -----------------------------------------------------------------------
	// (arc 50 50 25 0 180)
	// -----------------------------------------------------------------------
	env.AddFunction("arc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c, err := floats(pa, "arc", 5)
		if err != nil {
			return zygo.SexpNull, err
		}
		return add(shape.Shape{Kind: shape.KindArc, Data: shape.ArcData{
			CX: c[0], CY: c[1], Radius: c[2],
			StartAngle: c[3], EndAngle: c[4],
		}}, pa, "arc")
	})

	// -----------------------------------------------------------------------
	// (ellipse 50 50 30 15 :start-angle 0 :end-angle 180)
	// -----------------------------------------------------------------------
	env.AddFunction("ellipse", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c, err := floats(pa, "ellipse", 4)
		if err != nil {
			return zygo.SexpNull, err
		}
		d := shape.EllipseData{CX: c[0], CY: c[1], RX: c[2], RY: c[3], EndAngle: 360}
		if v, ok := pa.kw["start-angle"]; ok {
			if d.StartAngle, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("ellipse: start-angle: %w", err)
			}
		}
		if v, ok := pa.kw["end-angle"]; ok {
			if d.EndAngle, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("ellipse: end-angle: %w", err)
			}
		}
		return add(shape.Shape{Kind: shape.KindEllipse, Data: d}, pa, "ellipse")
	})

	// -----------------------------------------------------------------------
	// (polyline 0 0 100 0 100 100 :closed true)
	// -----------------------------------------------------------------------
	env.AddFunction("polyline", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 4 || len(pa.positional)%2 != 0 {
			return zygo.SexpNull, fmt.Errorf("polyline requires an even number of coordinates, at least 4")
		}
		c, err := floats(pa, "polyline", len(pa.positional))
		if err != nil {
			return zygo.SexpNull, err
		}
		pts := make([]geom.Point, len(c)/2)
		for i := range pts {
			pts[i] = geom.Point{X: c[2*i], Y: c[2*i+1]}
		}
		d := shape.PolylineData{Points: pts}
		if v, ok := pa.kw["closed"]; ok {
			if d.Closed, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("polyline: closed: %w", err)
			}
		}
		return add(shape.Shape{Kind: shape.KindPolyline, Data: d}, pa, "polyline")
	})

	// -----------------------------------------------------------------------
	// (text 10 20 "label" :size 14)
	// -----------------------------------------------------------------------
	env.AddFunction("text", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c, err := floats(pa, "text", 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) < 3 {
			return zygo.SexpNull, fmt.Errorf("text requires x, y, and content")
		}
		content, err := toString(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("text: content: %w", err)
		}
		d := shape.TextData{X: c[0], Y: c[1], Content: content, FontSize: 12}
		if v, ok := pa.kw["size"]; ok {
			if d.FontSize, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("text: size: %w", err)
			}
		}
		return add(shape.Shape{Kind: shape.KindText, Data: d}, pa, "text")
	})
}
