package project

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/oxcad/oxcad/pkg/shape"
)

// maxUndo caps the undo history; the oldest step falls off first.
const maxUndo = 100

// Manager owns the live document and its undo/redo history. Not safe for
// concurrent use; the app binds it to the single frontend event loop.
type Manager struct {
	project   *Project
	undoStack []Command
	redoStack []Command

	// FilePath is where the project was last saved or loaded, empty for a
	// fresh document.
	FilePath string

	dirty bool
}

// NewManager starts with an empty untitled project.
func NewManager() *Manager {
	return &Manager{project: New()}
}

// Project exposes the live document. Callers must route edits through
// commands; direct mutation bypasses undo.
func (m *Manager) Project() *Project { return m.project }

// Dirty reports unsaved changes.
func (m *Manager) Dirty() bool { return m.dirty }

// Reset replaces the document with a fresh one and clears history.
func (m *Manager) Reset() *Project {
	m.project = New()
	m.undoStack = nil
	m.redoStack = nil
	m.FilePath = ""
	m.dirty = false
	return m.project
}

// Apply executes a command and records it for undo. Redo history is
// invalidated by any new edit.
func (m *Manager) Apply(cmd Command) {
	cmd.Execute(m.project)
	m.undoStack = append(m.undoStack, cmd)
	if len(m.undoStack) > maxUndo {
		m.undoStack = m.undoStack[1:]
	}
	m.redoStack = nil
	m.dirty = true
}

// Undo reverts the most recent command. Returns false on empty history.
func (m *Manager) Undo() bool {
	if len(m.undoStack) == 0 {
		return false
	}
	cmd := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	cmd.Undo(m.project)
	m.redoStack = append(m.redoStack, cmd)
	m.dirty = true
	return true
}

// Redo re-applies the most recently undone command.
func (m *Manager) Redo() bool {
	if len(m.redoStack) == 0 {
		return false
	}
	cmd := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	cmd.Execute(m.project)
	m.undoStack = append(m.undoStack, cmd)
	m.dirty = true
	return true
}

// AddShape assigns an id and the active layer when missing, then appends the
// shape as one undo step. Returns the shape's id.
func (m *Manager) AddShape(s shape.Shape) string {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Layer == "" {
		s.Layer = m.project.ActiveLayer
		if s.Layer == "" {
			s.Layer = DefaultLayerID
		}
	}
	m.Apply(&AddShape{Shape: s})
	return s.ID
}

// DeleteShape removes a shape by id as one undo step.
func (m *Manager) DeleteShape(id string) {
	m.Apply(&DeleteShape{ID: id})
}

// DeleteShapes removes several shapes as a single undo step.
func (m *Manager) DeleteShapes(ids []string) {
	cmds := make([]Command, len(ids))
	for i, id := range ids {
		cmds[i] = &DeleteShape{ID: id}
	}
	m.Apply(&Batch{Commands: cmds})
}

// ModifyShape replaces a shape's content, keeping its id.
func (m *Manager) ModifyShape(id string, next shape.Shape) {
	m.Apply(&ModifyShape{ID: id, New: next})
}

// ReplaceShape swaps one shape for a set of replacements in a single undo
// step. Trim uses this to delete the target and add the kept pieces.
func (m *Manager) ReplaceShape(id string, replacements []shape.Shape) []string {
	cmds := []Command{&DeleteShape{ID: id}}
	ids := make([]string, 0, len(replacements))
	for _, r := range replacements {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Layer == "" {
			r.Layer = m.project.ActiveLayer
		}
		ids = append(ids, r.ID)
		cmds = append(cmds, &AddShape{Shape: r})
	}
	m.Apply(&Batch{Commands: cmds})
	return ids
}

// AddLayer creates a layer and returns its id. An empty name gets a
// sequential default.
func (m *Manager) AddLayer(name, color string) string {
	id := "layer-" + uuid.NewString()[:8]
	if name == "" {
		name = fmt.Sprintf("Layer %d", len(m.project.Layers))
	}
	if color == "" {
		color = "#ffffff"
	}
	m.Apply(&AddLayer{Layer: Layer{ID: id, Name: name, Color: color, Visible: true}})
	return id
}

// DeleteLayer removes a layer and its shapes. The last remaining layer
// cannot be deleted. The active layer falls back to the first layer.
func (m *Manager) DeleteLayer(id string) bool {
	if len(m.project.Layers) <= 1 {
		return false
	}
	m.Apply(&DeleteLayer{ID: id})
	if m.project.ActiveLayer == id && len(m.project.Layers) > 0 {
		m.project.ActiveLayer = m.project.Layers[0].ID
	}
	return true
}

// SetActiveLayer switches the layer new shapes land on.
func (m *Manager) SetActiveLayer(id string) {
	m.project.ActiveLayer = id
}

// ToggleLayerVisibility flips a layer's visibility, returning the new state.
func (m *Manager) ToggleLayerVisibility(id string) (bool, bool) {
	if l := m.project.LayerByID(id); l != nil {
		l.Visible = !l.Visible
		return l.Visible, true
	}
	return false, false
}

// ToggleLayerLock flips a layer's lock, returning the new state.
func (m *Manager) ToggleLayerLock(id string) (bool, bool) {
	if l := m.project.LayerByID(id); l != nil {
		l.Locked = !l.Locked
		return l.Locked, true
	}
	return false, false
}

// RenameLayer sets a layer's display name.
func (m *Manager) RenameLayer(id, name string) bool {
	if l := m.project.LayerByID(id); l != nil {
		l.Name = name
		return true
	}
	return false
}

// UpdateSettings merges the given settings into the project.
func (m *Manager) UpdateSettings(s Settings) {
	m.project.Settings = s
	m.dirty = true
}

// DefineBlock stores a reusable shape group under a name, replacing any
// previous definition.
func (m *Manager) DefineBlock(name string, shapes []shape.Shape) {
	if m.project.Blocks == nil {
		m.project.Blocks = map[string][]shape.Shape{}
	}
	m.project.Blocks[name] = shape.CloneAll(shapes)
	m.dirty = true
}

// InsertBlock places a reference to a defined block, returning the new
// shape's id or an error for an unknown block.
func (m *Manager) InsertBlock(name string, x, y, scale, rotation float64) (string, error) {
	if _, ok := m.project.Blocks[name]; !ok {
		return "", fmt.Errorf("project: unknown block %q", name)
	}
	if scale == 0 {
		scale = 1
	}
	id := m.AddShape(shape.Shape{
		Kind: shape.KindBlockRef,
		Data: shape.BlockRefData{X: x, Y: y, BlockName: name, Scale: scale, Rotation: rotation},
	})
	return id, nil
}

// Replace swaps in an already-built document, clearing history. Used when
// opening a project from the library.
func (m *Manager) Replace(p *Project) {
	if len(p.Layers) == 0 {
		p.Layers = New().Layers
	}
	if p.ActiveLayer == "" {
		p.ActiveLayer = p.Layers[0].ID
	}
	m.project = p
	m.undoStack = nil
	m.redoStack = nil
	m.dirty = false
}

// MarkClean records that the document was persisted elsewhere.
func (m *Manager) MarkClean() { m.dirty = false }

// MarshalProject serializes the document for saving. Marks the manager
// clean.
func (m *Manager) MarshalProject() ([]byte, error) {
	b, err := json.Marshal(m.project)
	if err != nil {
		return nil, fmt.Errorf("project: marshal: %w", err)
	}
	m.dirty = false
	return b, nil
}

// LoadProject replaces the document from serialized form and clears
// history.
func (m *Manager) LoadProject(data []byte) error {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("project: load: %w", err)
	}
	m.Replace(&p)
	return nil
}
