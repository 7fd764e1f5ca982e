package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/shape"
	"github.com/oxcad/oxcad/pkg/store"
)

// newTestApp wires an App to a temporary project library, skipping the
// Wails runtime. This is the same path the frontend bindings take.
func newTestApp(t *testing.T) *App {
	t.Helper()
	app := NewApp()
	app.ctx = context.Background()
	app.log.SetLevel(logrus.ErrorLevel)

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), app.log)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	app.store = st
	return app
}

func testLine(x1, y1, x2, y2 float64) shape.Shape {
	return shape.Shape{Kind: shape.KindLine, Data: shape.LineData{
		P1: geom.Point{X: x1, Y: y1}, P2: geom.Point{X: x2, Y: y2},
	}}
}

// TestE2EDrawTrimUndo exercises the full edit loop: draw, trim against an
// intersecting shape, then undo back to the original document.
func TestE2EDrawTrimUndo(t *testing.T) {
	app := newTestApp(t)

	target := app.AddShape(testLine(0, 0, 10, 0))
	app.AddShape(testLine(5, -5, 5, 5))

	kept, err := app.TrimShape(target, 2, 0)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("got %d kept pieces, want 1", len(kept))
	}

	p := app.CurrentProject()
	if len(p.Shapes) != 2 {
		t.Fatalf("got %d shapes after trim, want 2", len(p.Shapes))
	}
	piece, ok := p.ShapeByID(kept[0])
	if !ok {
		t.Fatal("kept piece missing from document")
	}
	d := piece.Data.(shape.LineData)
	if d.P1.X != 5 || d.P2.X != 10 {
		t.Errorf("kept span = %v..%v, want 5..10", d.P1.X, d.P2.X)
	}

	// The removed half is gone from the spatial index too.
	if ids := app.FindShapeAt(2, 0, 0.5); len(ids) != 0 {
		t.Errorf("FindShapeAt(2,0) = %v, want none", ids)
	}
	if ids := app.FindShapeAt(7, 0, 0.5); len(ids) != 1 {
		t.Errorf("FindShapeAt(7,0) = %v, want the kept piece", ids)
	}

	if !app.Undo() {
		t.Fatal("undo failed")
	}
	if _, ok := app.CurrentProject().ShapeByID(target); !ok {
		t.Error("undo did not restore the trimmed shape")
	}
}

// TestE2EProjectLifecycle runs a document through the library: create from
// template, edit, save, reopen.
func TestE2EProjectLifecycle(t *testing.T) {
	app := newTestApp(t)

	meta, err := app.NewProject("Bracket", "", "mechanical")
	if err != nil {
		t.Fatal(err)
	}
	if app.ProjectID() != meta.ID {
		t.Errorf("ProjectID = %q, want %q", app.ProjectID(), meta.ID)
	}
	if got := app.CurrentProject().ActiveLayer; got != "layer-outline" {
		t.Errorf("active layer = %q, want layer-outline", got)
	}

	id := app.AddShape(testLine(0, 0, 100, 0))
	if !app.IsDirty() {
		t.Error("document should be dirty after an edit")
	}
	if err := app.SaveProject(""); err != nil {
		t.Fatal(err)
	}
	if app.IsDirty() {
		t.Error("document should be clean after save")
	}

	// Reopen from the library and check the edit survived.
	if _, err := app.OpenProject(meta.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := app.CurrentProject().ShapeByID(id); !ok {
		t.Error("saved shape missing after reopen")
	}

	last, err := app.LastProjectID()
	if err != nil || last != meta.ID {
		t.Errorf("last project = %q, %v", last, err)
	}

	metas, err := app.RecentProjects(10)
	if err != nil || len(metas) != 1 {
		t.Errorf("recent projects = %v, %v", metas, err)
	}
}

// TestE2EScriptCommit runs a script through the engine and into the
// document as one undo step.
func TestE2EScriptCommit(t *testing.T) {
	app := newTestApp(t)

	ids, err := app.CommitScript(`(circle 50 50 25) (line 0 0 100 0)`)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
	if len(app.CurrentProject().Shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(app.CurrentProject().Shapes))
	}

	s, _ := app.CurrentProject().ShapeByID(ids[0])
	if s.Layer != app.CurrentProject().ActiveLayer {
		t.Errorf("script shape layer = %q, want active layer", s.Layer)
	}

	if !app.Undo() {
		t.Fatal("undo failed")
	}
	if len(app.CurrentProject().Shapes) != 0 {
		t.Error("undo should remove all script shapes at once")
	}
}

// TestE2ESnapBinding resolves a cursor against document snap points the way
// the canvas does.
func TestE2ESnapBinding(t *testing.T) {
	app := newTestApp(t)
	app.AddShape(testLine(0, 0, 100, 0))

	res := app.CalculateSnap(99, 1, 10, []string{"endpoint", "midpoint"}, 0, 0, false)
	if res == nil {
		t.Fatal("expected a snap result")
	}
	if string(res.Kind) != "endpoint" {
		t.Errorf("snap kind = %s, want endpoint", res.Kind)
	}
	if res.Point.X != 100 || res.Point.Y != 0 {
		t.Errorf("snap point = %v, want (100,0)", res.Point)
	}

	if res := app.CalculateSnap(50, 40, 10, []string{"endpoint"}, 0, 0, false); res != nil {
		t.Errorf("expected no snap far from geometry, got %+v", res)
	}
}

// TestE2EIntersections returns the crossing of two document shapes.
func TestE2EIntersections(t *testing.T) {
	app := newTestApp(t)
	app.AddShape(testLine(0, 0, 10, 10))
	app.AddShape(testLine(0, 10, 10, 0))

	pts := app.ShapeIntersections()
	if len(pts) != 1 || pts[0].X != 5 || pts[0].Y != 5 {
		t.Errorf("intersections = %v, want [(5,5)]", pts)
	}
}

// TestE2ETransformsBatch moves and copies shapes as single undo steps.
func TestE2ETransformsBatch(t *testing.T) {
	app := newTestApp(t)
	a := app.AddShape(testLine(0, 0, 10, 0))
	b := app.AddShape(testLine(0, 5, 10, 5))

	app.TranslateShapes([]string{a, b}, 0, 100)
	s, _ := app.CurrentProject().ShapeByID(a)
	if s.Data.(shape.LineData).P1.Y != 100 {
		t.Errorf("translate: P1.Y = %v, want 100", s.Data.(shape.LineData).P1.Y)
	}

	if !app.Undo() {
		t.Fatal("undo failed")
	}
	s, _ = app.CurrentProject().ShapeByID(a)
	if s.Data.(shape.LineData).P1.Y != 0 {
		t.Error("undo should revert both moves in one step")
	}

	copies := app.CopyShapes([]string{a, b}, 20, 0)
	if len(copies) != 2 {
		t.Fatalf("got %d copies, want 2", len(copies))
	}
	if len(app.CurrentProject().Shapes) != 4 {
		t.Errorf("got %d shapes after copy, want 4", len(app.CurrentProject().Shapes))
	}
	c, _ := app.CurrentProject().ShapeByID(copies[0])
	if c.Data.(shape.LineData).P1.X != 20 {
		t.Errorf("copy P1.X = %v, want 20", c.Data.(shape.LineData).P1.X)
	}
}
