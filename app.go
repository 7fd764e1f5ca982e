package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oxcad/oxcad/pkg/dxf"
	"github.com/oxcad/oxcad/pkg/edit"
	"github.com/oxcad/oxcad/pkg/engine"
	"github.com/oxcad/oxcad/pkg/geom"
	"github.com/oxcad/oxcad/pkg/index"
	"github.com/oxcad/oxcad/pkg/intersect"
	"github.com/oxcad/oxcad/pkg/project"
	"github.com/oxcad/oxcad/pkg/shape"
	"github.com/oxcad/oxcad/pkg/snap"
	"github.com/oxcad/oxcad/pkg/store"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx     context.Context
	log     *logrus.Logger
	manager *project.Manager
	store   *store.Store
	engine  *engine.Engine
	index   *index.Index

	// projectID is the current library entry, empty for a scratch document.
	projectID string
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full script result returned to the frontend.
type EvalResult struct {
	Shapes []shape.Shape   `json:"shapes"`
	Errors []EvalErrorData `json:"errors"`
}

// NewApp creates a new App with an empty document. The project library is
// opened during startup.
func NewApp() *App {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &App{
		log:     log,
		manager: project.NewManager(),
		engine:  engine.NewEngine(),
		index:   index.New(),
	}
}

// startup is called by Wails on app startup. The context is saved so we can
// call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	path, err := store.DefaultPath()
	if err == nil {
		a.store, err = store.Open(path, a.log)
	}
	if err != nil {
		// The editor still works without the library; saving will fail
		// with a clear error instead.
		a.log.WithError(err).Error("project library unavailable")
	}
}

// shutdown closes the project library.
func (a *App) shutdown(ctx context.Context) {
	if a.store != nil {
		a.store.Close()
	}
}

// ---------------------------------------------------------------------------
// Document state
// ---------------------------------------------------------------------------

// CurrentProject returns the live document for rendering.
func (a *App) CurrentProject() *project.Project {
	return a.manager.Project()
}

// ProjectID returns the library id of the open project, empty for scratch.
func (a *App) ProjectID() string { return a.projectID }

// IsDirty reports unsaved changes.
func (a *App) IsDirty() bool { return a.manager.Dirty() }

// reindex rebuilds the spatial index from the live document. Called after
// operations that change shapes in ways not worth tracking individually.
func (a *App) reindex() {
	a.index.Rebuild(a.manager.Project().Shapes)
}

// ---------------------------------------------------------------------------
// Geometry queries
// ---------------------------------------------------------------------------

// CalculateSnap resolves the cursor against the document's snap points.
// hasFrom marks an in-progress draw from (fromX, fromY), which enables the
// tangent and perpendicular context snaps. Returns nil when nothing is in
// range.
func (a *App) CalculateSnap(x, y, radius float64, modes []string, fromX, fromY float64, hasFrom bool) *snap.Result {
	snapModes := make([]snap.Mode, len(modes))
	for i, m := range modes {
		snapModes[i] = snap.Mode(m)
	}
	var from *geom.Point
	if hasFrom {
		from = &geom.Point{X: fromX, Y: fromY}
	}
	return snap.FindNearest(geom.Point{X: x, Y: y}, a.manager.Project().Shapes, radius, snapModes, from)
}

// ShapeIntersections returns every pairwise intersection point in the
// document.
func (a *App) ShapeIntersections() []geom.Point {
	pts := intersect.AllPairs(a.manager.Project().Shapes)
	if pts == nil {
		pts = []geom.Point{}
	}
	return pts
}

// FindShapeAt returns ids of shapes whose bounds contain the point, within
// tol.
func (a *App) FindShapeAt(x, y, tol float64) []string {
	ids := a.index.At(geom.Point{X: x, Y: y}, tol)
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// MeasureDistance returns the distance between two canvas points.
func (a *App) MeasureDistance(x1, y1, x2, y2 float64) float64 {
	return geom.Distance(geom.Point{X: x1, Y: y1}, geom.Point{X: x2, Y: y2})
}

// ---------------------------------------------------------------------------
// Shape editing
// ---------------------------------------------------------------------------

// AddShape appends a shape to the document and returns its id.
func (a *App) AddShape(s shape.Shape) string {
	id := a.manager.AddShape(s)
	if placed, ok := a.manager.Project().ShapeByID(id); ok {
		a.index.Insert(placed)
	}
	return id
}

// DeleteShapes removes shapes by id as one undo step.
func (a *App) DeleteShapes(ids []string) {
	a.manager.DeleteShapes(ids)
	for _, id := range ids {
		a.index.Remove(id)
	}
}

// ModifyShape replaces a shape's content, keeping its id.
func (a *App) ModifyShape(id string, s shape.Shape) {
	a.manager.ModifyShape(id, s)
	if placed, ok := a.manager.Project().ShapeByID(id); ok {
		a.index.Insert(placed)
	}
}

// Undo reverts the last edit. Returns false on empty history.
func (a *App) Undo() bool {
	ok := a.manager.Undo()
	if ok {
		a.reindex()
	}
	return ok
}

// Redo re-applies the last undone edit.
func (a *App) Redo() bool {
	ok := a.manager.Redo()
	if ok {
		a.reindex()
	}
	return ok
}

// TrimShape cuts the clicked portion out of a shape at the intersections
// with the rest of the document. Returns the ids of the kept pieces; an
// empty result means the whole shape was consumed.
func (a *App) TrimShape(id string, x, y float64) ([]string, error) {
	p := a.manager.Project()
	target, ok := p.ShapeByID(id)
	if !ok {
		return nil, fmt.Errorf("trim: no shape %q", id)
	}
	kept, err := edit.Trim(target, geom.Point{X: x, Y: y}, p.Shapes)
	if err != nil {
		return nil, err
	}
	ids := a.manager.ReplaceShape(id, kept)
	a.reindex()
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// OffsetShape adds a parallel copy of a shape at the given distance, on the
// side of the click. Returns the new shape's id.
func (a *App) OffsetShape(id string, distance, x, y float64) (string, error) {
	target, ok := a.manager.Project().ShapeByID(id)
	if !ok {
		return "", fmt.Errorf("offset: no shape %q", id)
	}
	out, ok := edit.Offset(target, distance, geom.Point{X: x, Y: y})
	if !ok {
		return "", fmt.Errorf("offset: cannot offset %s by %v", target.Kind, distance)
	}
	return a.AddShape(out), nil
}

// TranslateShapes moves shapes by (dx, dy) as one undo step.
func (a *App) TranslateShapes(ids []string, dx, dy float64) {
	a.transform(ids, func(in []shape.Shape) []shape.Shape {
		return edit.Translate(in, dx, dy)
	})
}

// ScaleShapes scales shapes about a base point as one undo step.
func (a *App) ScaleShapes(ids []string, baseX, baseY, factor float64) {
	a.transform(ids, func(in []shape.Shape) []shape.Shape {
		return edit.Scale(in, geom.Point{X: baseX, Y: baseY}, factor)
	})
}

// RotateShapes rotates shapes about a base point by degrees as one undo
// step.
func (a *App) RotateShapes(ids []string, baseX, baseY, angleDeg float64) {
	a.transform(ids, func(in []shape.Shape) []shape.Shape {
		return edit.Rotate(in, geom.Point{X: baseX, Y: baseY}, angleDeg)
	})
}

// CopyShapes duplicates shapes displaced by (dx, dy), returning the new ids.
func (a *App) CopyShapes(ids []string, dx, dy float64) []string {
	originals := a.shapesByID(ids)
	moved := edit.Translate(originals, dx, dy)

	cmds := make([]project.Command, 0, len(moved))
	newIDs := make([]string, 0, len(moved))
	for _, s := range moved {
		s.ID = newShapeID()
		cmds = append(cmds, &project.AddShape{Shape: s})
		newIDs = append(newIDs, s.ID)
	}
	if len(cmds) > 0 {
		a.manager.Apply(&project.Batch{Commands: cmds})
		a.reindex()
	}
	return newIDs
}

func (a *App) transform(ids []string, f func([]shape.Shape) []shape.Shape) {
	originals := a.shapesByID(ids)
	if len(originals) == 0 {
		return
	}
	next := f(originals)
	cmds := make([]project.Command, len(next))
	for i, s := range next {
		cmds[i] = &project.ModifyShape{ID: s.ID, New: s}
	}
	a.manager.Apply(&project.Batch{Commands: cmds})
	a.reindex()
}

func (a *App) shapesByID(ids []string) []shape.Shape {
	p := a.manager.Project()
	out := make([]shape.Shape, 0, len(ids))
	for _, id := range ids {
		if s, ok := p.ShapeByID(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Layers and settings
// ---------------------------------------------------------------------------

// AddLayer creates a layer and returns its id.
func (a *App) AddLayer(name, color string) string { return a.manager.AddLayer(name, color) }

// DeleteLayer removes a layer and its shapes. The last layer stays.
func (a *App) DeleteLayer(id string) bool {
	ok := a.manager.DeleteLayer(id)
	if ok {
		a.reindex()
	}
	return ok
}

// RenameLayer sets a layer's display name.
func (a *App) RenameLayer(id, name string) bool { return a.manager.RenameLayer(id, name) }

// SetActiveLayer switches the layer new shapes land on.
func (a *App) SetActiveLayer(id string) { a.manager.SetActiveLayer(id) }

// ToggleLayerVisibility flips a layer's visibility, returning the new state.
func (a *App) ToggleLayerVisibility(id string) bool {
	v, _ := a.manager.ToggleLayerVisibility(id)
	return v
}

// ToggleLayerLock flips a layer's lock, returning the new state.
func (a *App) ToggleLayerLock(id string) bool {
	v, _ := a.manager.ToggleLayerLock(id)
	return v
}

// UpdateSettings replaces the document settings.
func (a *App) UpdateSettings(s project.Settings) { a.manager.UpdateSettings(s) }

// ---------------------------------------------------------------------------
// Blocks
// ---------------------------------------------------------------------------

// DefineBlock groups existing shapes into a named block definition. The
// source shapes stay in the document.
func (a *App) DefineBlock(name string, ids []string) error {
	shapes := a.shapesByID(ids)
	if len(shapes) == 0 {
		return fmt.Errorf("block: no shapes for %q", name)
	}
	a.manager.DefineBlock(name, shapes)
	return nil
}

// InsertBlock places a reference to a defined block and returns its id.
func (a *App) InsertBlock(name string, x, y, scale, rotation float64) (string, error) {
	id, err := a.manager.InsertBlock(name, x, y, scale, rotation)
	if err != nil {
		return "", err
	}
	if placed, ok := a.manager.Project().ShapeByID(id); ok {
		a.index.Insert(placed)
	}
	return id, nil
}

// BlockNames lists the document's block definitions.
func (a *App) BlockNames() []string {
	names := make([]string, 0, len(a.manager.Project().Blocks))
	for name := range a.manager.Project().Blocks {
		names = append(names, name)
	}
	return names
}

// SaveBlockToLibrary copies a document block into the shared library.
func (a *App) SaveBlockToLibrary(name string) error {
	if a.store == nil {
		return fmt.Errorf("block: project library unavailable")
	}
	def, ok := a.manager.Project().Blocks[name]
	if !ok {
		return fmt.Errorf("block: unknown block %q", name)
	}
	return a.store.SaveGlobalBlock(a.ctx, name, def)
}

// GlobalBlockNames lists the shared library's blocks.
func (a *App) GlobalBlockNames() ([]string, error) {
	if a.store == nil {
		return nil, fmt.Errorf("block: project library unavailable")
	}
	return a.store.GlobalBlockNames(a.ctx)
}

// ImportGlobalBlock copies a shared library block into the document's
// definitions.
func (a *App) ImportGlobalBlock(name string) error {
	if a.store == nil {
		return fmt.Errorf("block: project library unavailable")
	}
	shapes, err := a.store.GlobalBlock(a.ctx, name)
	if err != nil {
		return err
	}
	a.manager.DefineBlock(name, shapes)
	return nil
}

// DeleteGlobalBlock removes a block from the shared library.
func (a *App) DeleteGlobalBlock(name string) error {
	if a.store == nil {
		return fmt.Errorf("block: project library unavailable")
	}
	return a.store.DeleteGlobalBlock(a.ctx, name)
}

// ---------------------------------------------------------------------------
// Scripting
// ---------------------------------------------------------------------------

// EvaluateScript runs Lisp source and returns the shapes it draws without
// touching the document. The frontend uses this for live preview.
func (a *App) EvaluateScript(source string) EvalResult {
	result := EvalResult{Shapes: []shape.Shape{}, Errors: []EvalErrorData{}}

	shapes, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, superseded).
		a.log.WithError(err).Warn("script evaluation failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	if len(result.Errors) == 0 {
		result.Shapes = append(result.Shapes, shapes...)
	}
	return result
}

// CommitScript runs Lisp source and adds the drawn shapes to the document
// as a single undo step, returning their ids.
func (a *App) CommitScript(source string) ([]string, error) {
	shapes, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, evalErrs[0]
	}

	cmds := make([]project.Command, 0, len(shapes))
	ids := make([]string, 0, len(shapes))
	active := a.manager.Project().ActiveLayer
	for _, s := range shapes {
		s.ID = newShapeID()
		if s.Layer == "" {
			s.Layer = active
		}
		cmds = append(cmds, &project.AddShape{Shape: s})
		ids = append(ids, s.ID)
	}
	if len(cmds) > 0 {
		a.manager.Apply(&project.Batch{Commands: cmds})
		a.reindex()
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Project library
// ---------------------------------------------------------------------------

// Templates lists the built-in project templates.
func (a *App) Templates() []store.Template { return store.Templates() }

// NewProject creates a library entry from a template and opens it.
func (a *App) NewProject(name, description, template string) (store.ProjectMeta, error) {
	if a.store == nil {
		return store.ProjectMeta{}, fmt.Errorf("project library unavailable")
	}
	meta, p, err := a.store.CreateProject(a.ctx, name, description, template)
	if err != nil {
		return store.ProjectMeta{}, err
	}
	a.manager.Replace(p)
	a.projectID = meta.ID
	a.reindex()
	if err := a.store.SetLastProjectID(a.ctx, meta.ID); err != nil {
		a.log.WithError(err).Warn("record last project")
	}
	return meta, nil
}

// OpenProject loads a library entry into the editor.
func (a *App) OpenProject(id string) (*project.Project, error) {
	if a.store == nil {
		return nil, fmt.Errorf("project library unavailable")
	}
	_, p, err := a.store.Project(a.ctx, id)
	if err != nil {
		return nil, err
	}
	a.manager.Replace(p)
	a.projectID = id
	a.reindex()
	if err := a.store.SetLastProjectID(a.ctx, id); err != nil {
		a.log.WithError(err).Warn("record last project")
	}
	return p, nil
}

// SaveProject persists the open document to its library entry. An optional
// thumbnail (data URL) refreshes the library preview.
func (a *App) SaveProject(thumbnail string) error {
	if a.store == nil {
		return fmt.Errorf("project library unavailable")
	}
	if a.projectID == "" {
		return fmt.Errorf("document has no library entry; create a project first")
	}
	if err := a.store.UpdateProject(a.ctx, a.projectID, a.manager.Project(), thumbnail); err != nil {
		return err
	}
	a.manager.MarkClean()
	return nil
}

// DeleteProject removes a library entry. Deleting the open project leaves
// the document on screen as a scratch copy.
func (a *App) DeleteProject(id string) error {
	if a.store == nil {
		return fmt.Errorf("project library unavailable")
	}
	if err := a.store.DeleteProject(a.ctx, id); err != nil {
		return err
	}
	if a.projectID == id {
		a.projectID = ""
	}
	return nil
}

// RecentProjects lists library entries, most recently updated first.
func (a *App) RecentProjects(limit int) ([]store.ProjectMeta, error) {
	if a.store == nil {
		return nil, fmt.Errorf("project library unavailable")
	}
	return a.store.RecentProjects(a.ctx, limit)
}

// LastProjectID returns the id of the last opened project, empty if none.
func (a *App) LastProjectID() (string, error) {
	if a.store == nil {
		return "", nil
	}
	return a.store.LastProjectID(a.ctx)
}

// ExportDXF writes the open document as a DXF file.
func (a *App) ExportDXF(path string) error {
	return dxf.NewExporter(a.log).Export(a.manager.Project(), path)
}

func newShapeID() string { return uuid.NewString() }
