package engine

import (
	"testing"

	"github.com/oxcad/oxcad/pkg/shape"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(line 0 0 10 10 :color "#fff")`,
			expect: `(line 0 0 10 10 "__kw_color" "#fff")`,
		},
		{
			name:   "multiple keywords",
			input:  `(circle 50 50 25 :width 2 :layer "base")`,
			expect: `(circle 50 50 25 "__kw_width" 2 "__kw_layer" "base")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(ellipse 0 0 10 5 :start-angle 90)`,
			expect: `(ellipse 0 0 10 5 "__kw_start-angle" 90)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Drawing builtins
// ---------------------------------------------------------------------------

func TestLineBuiltin(t *testing.T) {
	eng := NewEngine()

	shapes, evalErrs, err := eng.Evaluate(`(line 0 0 100 50 :color "#ff0000" :width 2)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(shapes))
	}

	s := shapes[0]
	if s.Kind != shape.KindLine {
		t.Errorf("kind = %s, want line", s.Kind)
	}
	if s.Color != "#ff0000" || s.Width != 2 {
		t.Errorf("style = %q/%v", s.Color, s.Width)
	}
	d := s.Data.(shape.LineData)
	if d.P2.X != 100 || d.P2.Y != 50 {
		t.Errorf("p2 = %v", d.P2)
	}
}

func TestArcAndEllipseBuiltins(t *testing.T) {
	eng := NewEngine()

	source := `
(arc 50 50 25 0 180)
(ellipse 0 0 30 15 :start-angle 90 :end-angle 270)
`
	shapes, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(shapes))
	}

	a := shapes[0].Data.(shape.ArcData)
	if a.StartAngle != 0 || a.EndAngle != 180 {
		t.Errorf("arc span = %v..%v", a.StartAngle, a.EndAngle)
	}
	e := shapes[1].Data.(shape.EllipseData)
	if e.StartAngle != 90 || e.EndAngle != 270 {
		t.Errorf("ellipse span = %v..%v", e.StartAngle, e.EndAngle)
	}
}

func TestPolylineBuiltin(t *testing.T) {
	eng := NewEngine()

	shapes, evalErrs, err := eng.Evaluate(`(polyline 0 0 100 0 100 100 :closed true)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(shapes))
	}

	d := shapes[0].Data.(shape.PolylineData)
	if len(d.Points) != 3 || !d.Closed {
		t.Errorf("polyline = %+v", d)
	}
}

func TestPolylineOddCoordinates(t *testing.T) {
	eng := NewEngine()

	shapes, evalErrs, err := eng.Evaluate(`(polyline 0 0 100)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if shapes != nil {
		t.Fatal("expected nil shapes")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for odd coordinate count")
	}
}

func TestTextBuiltin(t *testing.T) {
	eng := NewEngine()

	shapes, evalErrs, err := eng.Evaluate(`(text 10 20 "label" :size 14)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	d := shapes[0].Data.(shape.TextData)
	if d.Content != "label" || d.FontSize != 14 {
		t.Errorf("text = %+v", d)
	}
}

func TestTextDefaultSize(t *testing.T) {
	eng := NewEngine()

	shapes, _, err := eng.Evaluate(`(text 0 0 "x")`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if d := shapes[0].Data.(shape.TextData); d.FontSize != 12 {
		t.Errorf("default font size = %v, want 12", d.FontSize)
	}
}

func TestScriptVariables(t *testing.T) {
	eng := NewEngine()

	// A row of circles sharing a defined radius and spacing.
	source := `
(def r 5)
(def spacing 20)
(circle 0 0 r)
(circle spacing 0 r)
(circle (* 2 spacing) 0 r)
`
	shapes, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(shapes) != 3 {
		t.Fatalf("got %d shapes, want 3", len(shapes))
	}
	if c := shapes[2].Data.(shape.CircleData); c.CX != 40 {
		t.Errorf("third circle cx = %v, want 40", c.CX)
	}
	if c := shapes[0].Data.(shape.CircleData); c.Radius != 5 {
		t.Errorf("radius = %v, want 5", c.Radius)
	}
}

func TestBadStyleArgument(t *testing.T) {
	eng := NewEngine()

	shapes, evalErrs, err := eng.Evaluate(`(line 0 0 10 10 :width "thick")`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if shapes != nil {
		t.Fatal("expected nil shapes")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for non-numeric width")
	}
}
