package project

import "github.com/oxcad/oxcad/pkg/shape"

// Command is one reversible document edit. Execute and Undo must be exact
// inverses over the same project value.
type Command interface {
	Execute(p *Project)
	Undo(p *Project)
}

// AddShape appends one shape.
type AddShape struct {
	Shape shape.Shape
}

func (c *AddShape) Execute(p *Project) {
	p.Shapes = append(p.Shapes, c.Shape)
}

func (c *AddShape) Undo(p *Project) {
	out := p.Shapes[:0]
	for _, s := range p.Shapes {
		if s.ID != c.Shape.ID {
			out = append(out, s)
		}
	}
	p.Shapes = out
}

// DeleteShape removes one shape by id, remembering its slot for undo.
type DeleteShape struct {
	ID string

	removed shape.Shape
	index   int
	found   bool
}

func (c *DeleteShape) Execute(p *Project) {
	for i, s := range p.Shapes {
		if s.ID == c.ID {
			c.removed = s.Clone()
			c.index = i
			c.found = true
			p.Shapes = append(p.Shapes[:i], p.Shapes[i+1:]...)
			return
		}
	}
	c.found = false
}

func (c *DeleteShape) Undo(p *Project) {
	if !c.found {
		return
	}
	p.Shapes = append(p.Shapes, shape.Shape{})
	copy(p.Shapes[c.index+1:], p.Shapes[c.index:])
	p.Shapes[c.index] = c.removed
}

// ModifyShape replaces a shape's content in place, keeping its id.
type ModifyShape struct {
	ID  string
	New shape.Shape

	old   shape.Shape
	found bool
}

func (c *ModifyShape) Execute(p *Project) {
	for i, s := range p.Shapes {
		if s.ID == c.ID {
			c.old = s.Clone()
			c.found = true
			next := c.New.Clone()
			next.ID = c.ID
			p.Shapes[i] = next
			return
		}
	}
	c.found = false
}

func (c *ModifyShape) Undo(p *Project) {
	if !c.found {
		return
	}
	for i, s := range p.Shapes {
		if s.ID == c.ID {
			p.Shapes[i] = c.old
			return
		}
	}
}

// AddLayer appends one layer.
type AddLayer struct {
	Layer Layer
}

func (c *AddLayer) Execute(p *Project) {
	p.Layers = append(p.Layers, c.Layer)
}

func (c *AddLayer) Undo(p *Project) {
	out := p.Layers[:0]
	for _, l := range p.Layers {
		if l.ID != c.Layer.ID {
			out = append(out, l)
		}
	}
	p.Layers = out
}

// DeleteLayer removes a layer and every shape on it.
type DeleteLayer struct {
	ID string

	layer    Layer
	index    int
	found    bool
	orphaned []shape.Shape
}

func (c *DeleteLayer) Execute(p *Project) {
	c.found = false
	for i, l := range p.Layers {
		if l.ID == c.ID {
			c.layer = l
			c.index = i
			c.found = true
			p.Layers = append(p.Layers[:i], p.Layers[i+1:]...)
			break
		}
	}

	c.orphaned = nil
	kept := p.Shapes[:0]
	for _, s := range p.Shapes {
		if s.Layer == c.ID {
			c.orphaned = append(c.orphaned, s.Clone())
		} else {
			kept = append(kept, s)
		}
	}
	p.Shapes = kept
}

func (c *DeleteLayer) Undo(p *Project) {
	if c.found {
		p.Layers = append(p.Layers, Layer{})
		copy(p.Layers[c.index+1:], p.Layers[c.index:])
		p.Layers[c.index] = c.layer
	}
	p.Shapes = append(p.Shapes, c.orphaned...)
}

// Batch groups commands into one undo step. Undo runs in reverse order.
type Batch struct {
	Commands []Command
}

func (c *Batch) Execute(p *Project) {
	for _, cmd := range c.Commands {
		cmd.Execute(p)
	}
}

func (c *Batch) Undo(p *Project) {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		c.Commands[i].Undo(p)
	}
}
