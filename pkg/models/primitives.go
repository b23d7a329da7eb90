package models

import (
	"math"

	"github.com/taigrr/molview/pkg/math3d"
)

// Unit primitives used by the representation builders. Each is built in a
// canonical local frame and placed with a transform when appended:
//   - Sphere, Octahedron, Tetrahedron: radius 1 around the origin
//   - Box: the cube [-0.5, 0.5]^3
//   - Cylinder, Cone: radius 1 along Z from z=0 to z=1 (cone apex at z=1)
//   - Torus: major radius 1 in the XY plane

// Sphere returns a unit sphere made by subdividing an octahedron detail
// times.
func Sphere(detail int) *Mesh {
	m := NewMesh("sphere")
	for _, p := range []math3d.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	} {
		m.AddVertex(p, p)
	}
	faces := [][3]int{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}

	for range detail {
		mid := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if i, ok := mid[key]; ok {
				return i
			}
			p := m.Vertices[a].Position.Add(m.Vertices[b].Position).Normalize()
			i := m.AddVertex(p, p)
			mid[key] = i
			return i
		}
		next := make([][3]int, 0, len(faces)*4)
		for _, f := range faces {
			ab := midpoint(f[0], f[1])
			bc := midpoint(f[1], f[2])
			ca := midpoint(f[2], f[0])
			next = append(next,
				[3]int{f[0], ab, ca},
				[3]int{ab, f[1], bc},
				[3]int{ca, bc, f[2]},
				[3]int{ab, bc, ca},
			)
		}
		faces = next
	}

	for _, f := range faces {
		m.AddFace(f[0], f[1], f[2], 0)
	}
	return m
}

// addFlatTriangle appends a triangle with its own vertices and face normal.
func addFlatTriangle(m *Mesh, a, b, c math3d.Vec3) {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	i := m.AddVertex(a, n)
	m.AddVertex(b, n)
	m.AddVertex(c, n)
	m.AddFace(i, i+1, i+2, 0)
}

// Box returns the unit cube centered on the origin.
func Box() *Mesh {
	m := NewMesh("box")
	h := 0.5
	v := [8]math3d.Vec3{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
	}
	quads := [6][4]int{
		{0, 3, 2, 1}, // back
		{4, 5, 6, 7}, // front
		{0, 4, 7, 3}, // left
		{1, 2, 6, 5}, // right
		{3, 7, 6, 2}, // top
		{0, 1, 5, 4}, // bottom
	}
	for _, q := range quads {
		addFlatTriangle(m, v[q[0]], v[q[1]], v[q[2]])
		addFlatTriangle(m, v[q[0]], v[q[2]], v[q[3]])
	}
	return m
}

// Octahedron returns a regular octahedron with unit circumradius.
func Octahedron() *Mesh {
	m := NewMesh("octahedron")
	s := Sphere(0)
	for _, f := range s.Faces {
		addFlatTriangle(m, s.Vertices[f.V[0]].Position, s.Vertices[f.V[1]].Position, s.Vertices[f.V[2]].Position)
	}
	return m
}

// Tetrahedron returns a regular tetrahedron with unit circumradius.
func Tetrahedron() *Mesh {
	m := NewMesh("tetrahedron")
	k := 1 / math.Sqrt(3)
	v := [4]math3d.Vec3{
		{X: k, Y: k, Z: k}, {X: -k, Y: -k, Z: k}, {X: -k, Y: k, Z: -k}, {X: k, Y: -k, Z: -k},
	}
	for _, f := range [4][3]int{{0, 1, 3}, {0, 2, 1}, {0, 3, 2}, {1, 2, 3}} {
		addFlatTriangle(m, v[f[0]], v[f[1]], v[f[2]])
	}
	return m
}

// Cylinder returns a unit cylinder along Z. Caps are omitted when
// openEnded is set.
func Cylinder(segments int, openEnded bool) *Mesh {
	return lathe("cylinder", segments, 1, 1, openEnded)
}

// Cone returns a unit cone along Z with its apex at z=1.
func Cone(segments int, openEnded bool) *Mesh {
	return lathe("cone", segments, 1, 0, openEnded)
}

// lathe builds a tapered tube from radius r0 at z=0 to r1 at z=1.
func lathe(name string, segments int, r0, r1 float64, openEnded bool) *Mesh {
	segments = max(segments, 3)
	m := NewMesh(name)
	ring := func(i int) (float64, float64) {
		a := 2 * math.Pi * float64(i) / float64(segments)
		return math.Cos(a), math.Sin(a)
	}
	slope := r0 - r1
	for i := range segments {
		c0, s0 := ring(i)
		c1, s1 := ring(i + 1)
		n0 := math3d.V3(c0, s0, slope).Normalize()
		n1 := math3d.V3(c1, s1, slope).Normalize()
		a := m.AddVertex(math3d.V3(c0*r0, s0*r0, 0), n0)
		b := m.AddVertex(math3d.V3(c1*r0, s1*r0, 0), n1)
		c := m.AddVertex(math3d.V3(c1*r1, s1*r1, 1), n1)
		d := m.AddVertex(math3d.V3(c0*r1, s0*r1, 1), n0)
		m.AddFace(a, b, c, 0)
		if r1 > 0 {
			m.AddFace(a, c, d, 0)
		}
	}
	if openEnded {
		return m
	}
	cap := func(z, r float64, normal math3d.Vec3) {
		if r == 0 {
			return
		}
		center := m.AddVertex(math3d.V3(0, 0, z), normal)
		for i := range segments {
			c0, s0 := ring(i)
			c1, s1 := ring(i + 1)
			a := m.AddVertex(math3d.V3(c0*r, s0*r, z), normal)
			b := m.AddVertex(math3d.V3(c1*r, s1*r, z), normal)
			m.AddFace(center, b, a, 0)
		}
	}
	cap(0, r0, math3d.V3(0, 0, -1))
	cap(1, r1, math3d.V3(0, 0, 1))
	return m
}

// Torus returns a torus of major radius 1 and minor radius tube.
func Torus(radialSegments, tubularSegments int, tube float64) *Mesh {
	radialSegments = max(radialSegments, 3)
	tubularSegments = max(tubularSegments, 3)
	m := NewMesh("torus")
	for j := 0; j <= radialSegments; j++ {
		v := 2 * math.Pi * float64(j) / float64(radialSegments)
		for i := 0; i <= tubularSegments; i++ {
			u := 2 * math.Pi * float64(i) / float64(tubularSegments)
			center := math3d.V3(math.Cos(u), math.Sin(u), 0)
			pos := math3d.V3(
				(1+tube*math.Cos(v))*math.Cos(u),
				(1+tube*math.Cos(v))*math.Sin(u),
				tube*math.Sin(v),
			)
			m.AddVertex(pos, pos.Sub(center).Normalize())
		}
	}
	stride := tubularSegments + 1
	for j := 1; j <= radialSegments; j++ {
		for i := 1; i <= tubularSegments; i++ {
			a := stride*j + i - 1
			b := stride*(j-1) + i - 1
			c := stride*(j-1) + i
			d := stride*j + i
			m.AddFace(a, b, d, 0)
			m.AddFace(b, c, d, 0)
		}
	}
	return m
}
