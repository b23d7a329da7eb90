package repr

import (
	"image/color"

	"github.com/taigrr/molview/pkg/buffer"
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
	"github.com/taigrr/molview/pkg/picking"
	"github.com/taigrr/molview/pkg/shape"
)

// torusTube is the tube radius of a torus relative to its major radius.
const torusTube = 0.2

// placed transforms one unit mesh per item into a single buffer. Face
// primitives are item indices.
func placed[T any](name string, items []T, unit *models.Mesh, place func(T) (math3d.Mat4, color.RGBA), picker picking.Picker) *buffer.Buffer {
	mb := newMeshBuilder(name)
	for i, it := range items {
		m, c := place(it)
		mb.add(unit, m, c, i)
	}
	return mb.buffer(name, picker)
}

// Shape draws every primitive list of s as its own buffer, and each mesh
// as a separate buffer.
func Shape(s *shape.Shape) *Representation {
	r := newRepresentation(TypeShape, s)
	q := s.Params
	p := DefaultParams()
	p.SphereDetail, p.RadialSegments, p.DisableImpostor = q.SphereDetail, q.RadialSegments, q.DisableImpostor
	sphere := models.Sphere(q.SphereDetail)

	if n := len(s.Spheres); n > 0 {
		centers := make([]math3d.Vec3, n)
		radii := make([]float64, n)
		colors := make([]color.RGBA, n)
		for i, sp := range s.Spheres {
			centers[i], radii[i], colors[i] = sp.Position, sp.Radius, sp.Color
		}
		r.add(spheres(s.Name+" spheres", centers, radii, colors, nil,
			picking.NewPrimitivePicker(picking.KindSphere, s), p))
	}

	r.add(placed(s.Name+" ellipsoids", s.Ellipsoids, sphere,
		func(e shape.Ellipsoid) (math3d.Mat4, color.RGBA) { return e.Matrix(), e.Color },
		picking.NewPrimitivePicker(picking.KindEllipsoid, s)))
	r.add(placed(s.Name+" cylinders", s.Cylinders, models.Cylinder(q.RadialSegments, q.OpenEnded),
		func(c shape.Cylinder) (math3d.Mat4, color.RGBA) { return c.Matrix(), c.Color },
		picking.NewPrimitivePicker(picking.KindCylinder, s)))
	r.add(placed(s.Name+" cones", s.Cones, models.Cone(q.RadialSegments, q.OpenEnded),
		func(c shape.Cone) (math3d.Mat4, color.RGBA) { return c.Matrix(), c.Color },
		picking.NewPrimitivePicker(picking.KindCone, s)))
	r.add(arrows(s, q))
	r.add(placed(s.Name+" boxes", s.Boxes, models.Box(),
		func(b shape.Box) (math3d.Mat4, color.RGBA) { return b.Matrix(), b.Color },
		picking.NewPrimitivePicker(picking.KindBox, s)))
	r.add(placed(s.Name+" octahedra", s.Octahedra, models.Octahedron(),
		func(o shape.Octahedron) (math3d.Mat4, color.RGBA) { return o.Matrix(), o.Color },
		picking.NewPrimitivePicker(picking.KindOctahedron, s)))
	r.add(placed(s.Name+" tetrahedra", s.Tetrahedra, models.Tetrahedron(),
		func(t shape.Tetrahedron) (math3d.Mat4, color.RGBA) { return t.Matrix(), t.Color },
		picking.NewPrimitivePicker(picking.KindTetrahedron, s)))
	r.add(placed(s.Name+" tori", s.Tori, models.Torus(q.RadialSegments, q.RadialSegments, torusTube),
		func(t shape.Torus) (math3d.Mat4, color.RGBA) { return t.Matrix(), t.Color },
		picking.NewPrimitivePicker(picking.KindTorus, s)))

	for _, m := range s.Meshes {
		name := m.Name
		if name == "" {
			name = s.Name + " mesh"
		}
		mb := newMeshBuilder(name)
		mb.add(m.Mesh, math3d.Identity(), m.Color, 0)
		buf := mb.buffer(name, &picking.MeshPicker{Shape: s, Mesh: m})
		if buf == nil {
			continue
		}
		// Mesh picking resolves faces, so primitives are face indices.
		for f := range buf.Mesh.Faces {
			buf.Mesh.Faces[f].Primitive = f
		}
		buf.Material.DoubleSided = true
		r.add(buf)
	}
	return r
}

// arrows draws each arrow as a shaft cylinder and a cone head sharing the
// arrow's pick index.
func arrows(s *shape.Shape, q shape.Params) *buffer.Buffer {
	name := s.Name + " arrows"
	cyl := models.Cylinder(q.RadialSegments, false)
	cone := models.Cone(q.RadialSegments, false)
	mb := newMeshBuilder(name)
	for i, a := range s.Arrows {
		shaft, head := a.Split(q.AspectRatio)
		mb.cylinder(cyl, shaft.From, shaft.To, shaft.Radius, a.Color, i)
		mb.cylinder(cone, head.From, head.To, head.Radius, a.Color, i)
	}
	return mb.buffer(name, picking.NewPrimitivePicker(picking.KindArrow, s))
}
