package store

import "github.com/oxcad/oxcad/pkg/project"

// Template describes a starting-point project configuration offered on the
// new-project screen.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// Templates lists the built-in project templates.
func Templates() []Template {
	return []Template{
		{ID: "blank", Name: "Blank Project", Description: "Start from scratch with a single default layer", Icon: "📄", Color: "#6e7681"},
		{ID: "mechanical", Name: "Mechanical Drawing", Description: "Pre-configured layers for mechanical part drawings", Icon: "⚙️", Color: "#58a6ff"},
		{ID: "architectural", Name: "Architectural Plan", Description: "Floor plans with walls, doors, electrical, plumbing layers", Icon: "🏠", Color: "#f0883e"},
		{ID: "electrical", Name: "Electrical Schematic", Description: "Circuit diagram with schematic and signal layers", Icon: "⚡", Color: "#ffd33d"},
		{ID: "pcb", Name: "PCB Layout", Description: "Copper, silkscreen, and drill layers on a 2.54 grid", Icon: "🔲", Color: "#34c759"},
	}
}

// FromTemplate builds the initial document for a template id. Unknown ids
// fall back to the blank template.
func FromTemplate(name, template string) *project.Project {
	p := project.New()
	p.Name = name

	switch template {
	case "mechanical":
		p.Layers = []project.Layer{
			{ID: "layer-outline", Name: "Outline", Color: "#ffffff", Visible: true},
			{ID: "layer-hidden", Name: "Hidden Lines", Color: "#888888", Visible: true},
			{ID: "layer-center", Name: "Center Lines", Color: "#ff0000", Visible: true},
			{ID: "layer-dimensions", Name: "Dimensions", Color: "#00ff88", Visible: true},
			{ID: "layer-notes", Name: "Notes", Color: "#ffcc00", Visible: true},
		}
		p.ActiveLayer = "layer-outline"
		p.Settings.GridSize = 5

	case "architectural":
		p.Layers = []project.Layer{
			{ID: "layer-walls", Name: "Walls", Color: "#ffffff", Visible: true},
			{ID: "layer-doors", Name: "Doors & Windows", Color: "#00d4ff", Visible: true},
			{ID: "layer-furniture", Name: "Furniture", Color: "#ff9500", Visible: true},
			{ID: "layer-electrical", Name: "Electrical", Color: "#ff3b30", Visible: true},
			{ID: "layer-plumbing", Name: "Plumbing", Color: "#34c759", Visible: true},
			{ID: "layer-dimensions", Name: "Dimensions", Color: "#ffcc00", Visible: true},
			{ID: "layer-annotations", Name: "Annotations", Color: "#8b8b8b", Visible: true},
		}
		p.ActiveLayer = "layer-walls"

	case "electrical":
		p.Layers = []project.Layer{
			{ID: "layer-schematic", Name: "Schematic", Color: "#ffffff", Visible: true},
			{ID: "layer-power", Name: "Power Lines", Color: "#ff3b30", Visible: true},
			{ID: "layer-signal", Name: "Signal Lines", Color: "#00d4ff", Visible: true},
			{ID: "layer-ground", Name: "Ground", Color: "#34c759", Visible: true},
			{ID: "layer-labels", Name: "Labels", Color: "#ffcc00", Visible: true},
		}
		p.ActiveLayer = "layer-schematic"
		p.Settings.GridSize = 5

	case "pcb":
		p.Layers = []project.Layer{
			{ID: "layer-top", Name: "Top Copper", Color: "#ff3b30", Visible: true},
			{ID: "layer-bottom", Name: "Bottom Copper", Color: "#007aff", Visible: true},
			{ID: "layer-silkscreen", Name: "Silkscreen", Color: "#ffffff", Visible: true},
			{ID: "layer-drill", Name: "Drill Holes", Color: "#34c759", Visible: true},
			{ID: "layer-outline", Name: "Board Outline", Color: "#ffcc00", Visible: true},
		}
		p.ActiveLayer = "layer-top"
		p.Settings.GridSize = 2.54
	}

	return p
}
