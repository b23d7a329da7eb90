package render

import (
	"maps"
	"slices"

	"github.com/taigrr/molview/pkg/math3d"
)

// Uniform names understood by the rasterizer.
const (
	UniformObjectID                        = "objectId"
	UniformModelViewMatrixInverse          = "modelViewMatrixInverse"
	UniformModelViewMatrixInverseTranspose = "modelViewMatrixInverseTranspose"
	UniformModelViewProjectionMatrix       = "modelViewProjectionMatrix"
	UniformModelViewProjectionMatrixInv    = "modelViewProjectionMatrixInverse"
	UniformProjectionMatrixInverse         = "projectionMatrixInverse"
	UniformClipNear                        = "clipNear"
	UniformClipRadius                      = "clipRadius"
	UniformClipCenter                      = "clipCenter"
	UniformCanvasHeight                    = "canvasHeight"
)

// StandardUniforms lists every uniform a fully featured material declares.
var StandardUniforms = []string{
	UniformObjectID,
	UniformModelViewMatrixInverse,
	UniformModelViewMatrixInverseTranspose,
	UniformModelViewProjectionMatrix,
	UniformModelViewProjectionMatrixInv,
	UniformProjectionMatrixInverse,
	UniformClipNear,
	UniformClipRadius,
	UniformClipCenter,
	UniformCanvasHeight,
}

// Material holds the uniform values of one drawable. Only declared
// uniforms can be written. The program is created the first time the
// material is drawn; until then values live only on the material.
type Material struct {
	Name        string
	DoubleSided bool
	Wireframe   bool
	// ClipNear is a relative near clip in [0, 100]; 0 disables it.
	ClipNear float64
	// ClipRadius is an absolute radius around ClipCenter outside which
	// fragments are dropped; 0 disables it.
	ClipRadius float64
	ClipCenter math3d.Vec3

	uniforms map[string]any
	program  *Program
}

// NewMaterial creates a material declaring the given uniforms.
func NewMaterial(name string, uniforms ...string) *Material {
	m := &Material{Name: name, uniforms: make(map[string]any, len(uniforms))}
	for _, u := range uniforms {
		m.uniforms[u] = nil
	}
	return m
}

// NewStandardMaterial creates a material declaring StandardUniforms.
func NewStandardMaterial(name string) *Material {
	return NewMaterial(name, StandardUniforms...)
}

// Declares reports whether the material has a uniform called name.
func (m *Material) Declares(name string) bool {
	_, ok := m.uniforms[name]
	return ok
}

// Uniforms returns the declared uniform names in sorted order.
func (m *Material) Uniforms() []string {
	return slices.Sorted(maps.Keys(m.uniforms))
}

// Set stores a uniform value. It reports false and stores nothing when the
// uniform is not declared.
func (m *Material) Set(name string, value any) bool {
	if !m.Declares(name) {
		return false
	}
	m.uniforms[name] = value
	return true
}

// Value returns the current value of a declared uniform.
func (m *Material) Value(name string) (any, bool) {
	v, ok := m.uniforms[name]
	return v, ok && v != nil
}

// Program returns the compiled program, or nil before the first draw.
func (m *Material) Program() *Program {
	return m.program
}

// Compile creates the program on first use, seeding it with every value
// already set on the material.
func (m *Material) Compile() *Program {
	if m.program != nil {
		return m.program
	}
	p := &Program{values: make(map[string]any, len(m.uniforms))}
	for name, v := range m.uniforms {
		if v != nil {
			p.values[name] = v
		}
	}
	m.program = p
	return p
}

// Program is the compiled form of a material, holding the uniform values
// the rasterizer reads while drawing.
type Program struct {
	values  map[string]any
	uploads int
}

// SetValue uploads one uniform value.
func (p *Program) SetValue(name string, value any) {
	p.values[name] = value
	p.uploads++
}

// Uploads returns how many SetValue calls the program has seen.
func (p *Program) Uploads() int {
	return p.uploads
}

// Has reports whether a value was uploaded for name.
func (p *Program) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Mat4 returns a matrix uniform.
func (p *Program) Mat4(name string) (math3d.Mat4, bool) {
	m, ok := p.values[name].(math3d.Mat4)
	return m, ok
}

// Float returns a scalar uniform.
func (p *Program) Float(name string) (float64, bool) {
	f, ok := p.values[name].(float64)
	return f, ok
}

// Vec3 returns a vector uniform.
func (p *Program) Vec3(name string) (math3d.Vec3, bool) {
	v, ok := p.values[name].(math3d.Vec3)
	return v, ok
}
