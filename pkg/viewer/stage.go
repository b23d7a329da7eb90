package viewer

import (
	"reflect"
	"slices"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/picking"
	"github.com/taigrr/molview/pkg/repr"
)

// Component groups the representations of one data object. Its matrix is
// applied on top of instance matrices when resolving pick positions.
type Component struct {
	name   string
	object any
	matrix math3d.Mat4

	Representations []*repr.Representation
}

// Name returns the name the component was registered under.
func (c *Component) Name() string { return c.name }

// Object returns the data object the component shows.
func (c *Component) Object() any { return c.object }

// Matrix returns the component transform.
func (c *Component) Matrix() math3d.Mat4 { return c.matrix }

// SetMatrix sets the component transform and the model matrix of every
// buffer it owns. Call Viewer.UpdateBoundingBox afterwards.
func (c *Component) SetMatrix(m math3d.Mat4) {
	c.matrix = m
	for _, r := range c.Representations {
		for _, b := range r.Buffers {
			b.Matrix = m
		}
	}
}

// Stage is the ordered component registry.
type Stage struct {
	components []*Component
}

// Components returns the registered components in insertion order.
func (s *Stage) Components() []*Component {
	return slices.Clone(s.components)
}

func (s *Stage) add(c *Component) {
	s.components = append(s.components, c)
}

func (s *Stage) remove(c *Component) bool {
	for i, x := range s.components {
		if x == c {
			s.components = append(s.components[:i], s.components[i+1:]...)
			return true
		}
	}
	return false
}

// ComponentsByObject returns every component showing data, in insertion
// order.
func (s *Stage) ComponentsByObject(data any) []picking.Component {
	if data == nil || !reflect.TypeOf(data).Comparable() {
		return nil
	}
	var out []picking.Component
	for _, c := range s.components {
		if c.object != nil && reflect.TypeOf(c.object).Comparable() && c.object == data {
			out = append(out, c)
		}
	}
	return out
}
