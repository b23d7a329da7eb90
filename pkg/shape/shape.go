// Package shape collects user-defined geometric primitives (spheres,
// cylinders, arrows, meshes ...) under one named shape.
package shape

import (
	"image/color"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
)

// Params controls tessellation of shape primitives.
type Params struct {
	// AspectRatio sets the arrow head: cone length is 2*radius*AspectRatio
	// and the shaft radius is radius/AspectRatio.
	AspectRatio float64
	// SphereDetail is the number of octahedron subdivisions for spheres
	// and ellipsoids.
	SphereDetail int
	// RadialSegments is the cylinder, cone and torus quality.
	RadialSegments int
	// DisableImpostor tessellates spheres instead of drawing them as
	// screen-space discs.
	DisableImpostor bool
	OpenEnded       bool
}

// DefaultParams returns the default tessellation parameters.
func DefaultParams() Params {
	return Params{
		AspectRatio:    1.5,
		SphereDetail:   2,
		RadialSegments: 50,
	}
}

// Shape is a named collection of primitives.
type Shape struct {
	Name   string
	Params Params

	Spheres    []Sphere
	Ellipsoids []Ellipsoid
	Cylinders  []Cylinder
	Cones      []Cone
	Arrows     []Arrow
	Boxes      []Box
	Octahedra  []Octahedron
	Tetrahedra []Tetrahedron
	Tori       []Torus
	Meshes     []Mesh
}

// New creates an empty shape. An empty name becomes "shape".
func New(name string, params Params) *Shape {
	if name == "" {
		name = "shape"
	}
	return &Shape{Name: name, Params: params}
}

// Sphere is a sphere primitive.
type Sphere struct {
	Position math3d.Vec3
	Color    color.RGBA
	Radius   float64
	Name     string
}

// Ellipsoid has semi-axes Radius, |MinorAxis| and |MajorAxis|.
type Ellipsoid struct {
	Position  math3d.Vec3
	Color     color.RGBA
	Radius    float64
	MajorAxis math3d.Vec3
	MinorAxis math3d.Vec3
	Name      string
}

// Cylinder spans From to To.
type Cylinder struct {
	From, To math3d.Vec3
	Color    color.RGBA
	Radius   float64
	Name     string
}

// Cone has its base at From and apex at To.
type Cone struct {
	From, To math3d.Vec3
	Color    color.RGBA
	Radius   float64
	Name     string
}

// Arrow is a shaft with a cone head pointing at To.
type Arrow struct {
	From, To math3d.Vec3
	Color    color.RGBA
	Radius   float64
	Name     string
}

// Box, Octahedron and Tetrahedron share an oriented frame: width Size
// along X, |HeightAxis| along Y and |DepthAxis| along Z.
type Box struct {
	Position   math3d.Vec3
	Color      color.RGBA
	Size       float64
	HeightAxis math3d.Vec3
	DepthAxis  math3d.Vec3
	Name       string
}

type Octahedron Box

type Tetrahedron Box

// Torus lies in the plane of MajorAxis and MinorAxis with major radius
// Radius.
type Torus struct {
	Position  math3d.Vec3
	Color     color.RGBA
	Radius    float64
	MajorAxis math3d.Vec3
	MinorAxis math3d.Vec3
	Name      string
}

// Mesh is arbitrary triangle geometry. Serial is its insertion order
// among the shape's meshes.
type Mesh struct {
	Mesh   *models.Mesh
	Color  color.RGBA
	Name   string
	Serial int
}

// AddSphere adds a sphere.
func (s *Shape) AddSphere(position math3d.Vec3, c color.RGBA, radius float64, name string) *Shape {
	s.Spheres = append(s.Spheres, Sphere{position, c, radius, name})
	return s
}

// AddEllipsoid adds an ellipsoid.
func (s *Shape) AddEllipsoid(position math3d.Vec3, c color.RGBA, radius float64, majorAxis, minorAxis math3d.Vec3, name string) *Shape {
	s.Ellipsoids = append(s.Ellipsoids, Ellipsoid{position, c, radius, majorAxis, minorAxis, name})
	return s
}

// AddCylinder adds a cylinder.
func (s *Shape) AddCylinder(from, to math3d.Vec3, c color.RGBA, radius float64, name string) *Shape {
	s.Cylinders = append(s.Cylinders, Cylinder{from, to, c, radius, name})
	return s
}

// AddCone adds a cone.
func (s *Shape) AddCone(from, to math3d.Vec3, c color.RGBA, radius float64, name string) *Shape {
	s.Cones = append(s.Cones, Cone{from, to, c, radius, name})
	return s
}

// AddArrow adds an arrow.
func (s *Shape) AddArrow(from, to math3d.Vec3, c color.RGBA, radius float64, name string) *Shape {
	s.Arrows = append(s.Arrows, Arrow{from, to, c, radius, name})
	return s
}

// AddBox adds a box.
func (s *Shape) AddBox(position math3d.Vec3, c color.RGBA, size float64, heightAxis, depthAxis math3d.Vec3, name string) *Shape {
	s.Boxes = append(s.Boxes, Box{position, c, size, heightAxis, depthAxis, name})
	return s
}

// AddOctahedron adds an octahedron.
func (s *Shape) AddOctahedron(position math3d.Vec3, c color.RGBA, size float64, heightAxis, depthAxis math3d.Vec3, name string) *Shape {
	s.Octahedra = append(s.Octahedra, Octahedron{position, c, size, heightAxis, depthAxis, name})
	return s
}

// AddTetrahedron adds a tetrahedron.
func (s *Shape) AddTetrahedron(position math3d.Vec3, c color.RGBA, size float64, heightAxis, depthAxis math3d.Vec3, name string) *Shape {
	s.Tetrahedra = append(s.Tetrahedra, Tetrahedron{position, c, size, heightAxis, depthAxis, name})
	return s
}

// AddTorus adds a torus.
func (s *Shape) AddTorus(position math3d.Vec3, c color.RGBA, radius float64, majorAxis, minorAxis math3d.Vec3, name string) *Shape {
	s.Tori = append(s.Tori, Torus{position, c, radius, majorAxis, minorAxis, name})
	return s
}

// AddMesh adds triangle geometry.
func (s *Shape) AddMesh(m *models.Mesh, c color.RGBA, name string) *Shape {
	s.Meshes = append(s.Meshes, Mesh{Mesh: m, Color: c, Name: name, Serial: len(s.Meshes)})
	return s
}

// Len returns the total number of primitives.
func (s *Shape) Len() int {
	return len(s.Spheres) + len(s.Ellipsoids) + len(s.Cylinders) + len(s.Cones) +
		len(s.Arrows) + len(s.Boxes) + len(s.Octahedra) + len(s.Tetrahedra) +
		len(s.Tori) + len(s.Meshes)
}

// Clear removes all primitives.
func (s *Shape) Clear() {
	*s = Shape{Name: s.Name, Params: s.Params}
}
