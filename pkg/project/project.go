// Package project holds the drawing document: shapes, layers, settings, and
// block definitions, with undo/redo via reversible commands.
package project

import (
	"github.com/oxcad/oxcad/pkg/shape"
)

// Layer groups shapes for visibility, locking, and display color.
type Layer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
}

// Settings are the per-project drawing preferences the frontend edits.
type Settings struct {
	GridSize        float64  `json:"gridSize"`
	GridVisible     bool     `json:"gridVisible"`
	SnapEnabled     bool     `json:"snapEnabled"`
	SnapModes       []string `json:"snapModes"`
	BackgroundColor string   `json:"backgroundColor"`
}

// Project is the full document state. It serializes as the project file
// format and crosses the frontend bridge as-is.
type Project struct {
	Name        string                   `json:"name"`
	Shapes      []shape.Shape            `json:"shapes"`
	Layers      []Layer                  `json:"layers"`
	ActiveLayer string                   `json:"activeLayer"`
	Settings    Settings                 `json:"settings"`
	Blocks      map[string][]shape.Shape `json:"blocks,omitempty"`
}

// DefaultLayerID is the id of the layer every new project starts with.
const DefaultLayerID = "layer-0"

// New returns an empty document with one default layer and the stock
// drawing settings.
func New() *Project {
	return &Project{
		Name: "Untitled",
		Layers: []Layer{{
			ID:      DefaultLayerID,
			Name:    "Layer 0",
			Color:   "#ffffff",
			Visible: true,
		}},
		ActiveLayer: DefaultLayerID,
		Settings: Settings{
			GridSize:        10,
			GridVisible:     true,
			SnapEnabled:     true,
			SnapModes:       []string{"endpoint", "midpoint", "center", "grid"},
			BackgroundColor: "#1a1a2e",
		},
		Blocks: map[string][]shape.Shape{},
	}
}

// ShapeByID returns a copy of the shape with the given id, or false.
func (p *Project) ShapeByID(id string) (shape.Shape, bool) {
	for _, s := range p.Shapes {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return shape.Shape{}, false
}

// ShapesOnLayer returns the shapes assigned to a layer.
func (p *Project) ShapesOnLayer(layerID string) []shape.Shape {
	var out []shape.Shape
	for _, s := range p.Shapes {
		if s.Layer == layerID {
			out = append(out, s)
		}
	}
	return out
}

// LayerByID returns a pointer into the layer list, or nil.
func (p *Project) LayerByID(id string) *Layer {
	for i := range p.Layers {
		if p.Layers[i].ID == id {
			return &p.Layers[i]
		}
	}
	return nil
}
