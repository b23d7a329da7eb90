// Package models provides triangle meshes, primitive tessellation and mesh
// file loading for the viewer.
package models

import (
	"github.com/taigrr/molview/pkg/math3d"
)

// Mesh is an indexed triangle mesh. A mesh with vertices but no faces is a
// point set, used for impostor geometry that is only expanded when drawn.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	bounds      math3d.Box3
	boundsValid bool
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face is a triangle referencing three vertices. Primitive is the index of
// the pickable element the triangle belongs to (an atom, a bond, a shape
// primitive ...), or -1 when the face is not pickable.
type Face struct {
	V         [3]int
	Primitive int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// ComputeBoundingBox recomputes and caches the axis-aligned bounding box.
// An empty mesh has an empty box.
func (m *Mesh) ComputeBoundingBox() math3d.Box3 {
	b := math3d.EmptyBox3()
	for _, v := range m.Vertices {
		b = b.ExpandByPoint(v.Position)
	}
	m.bounds = b
	m.boundsValid = true
	return b
}

// BoundingBox returns the cached bounding box, computing it on first use.
func (m *Mesh) BoundingBox() math3d.Box3 {
	if !m.boundsValid {
		return m.ComputeBoundingBox()
	}
	return m.bounds
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundingBox().Center()
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundingBox().Size()
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos, normal math3d.Vec3) int {
	m.Vertices = append(m.Vertices, MeshVertex{Position: pos, Normal: normal})
	m.boundsValid = false
	return len(m.Vertices) - 1
}

// AddFace appends a triangle tagged with a primitive index.
func (m *Mesh) AddFace(a, b, c, primitive int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}, Primitive: primitive})
}

// Append copies other into m, transforming positions by mat and tagging
// every copied face with primitive. Returns the index of the first copied
// vertex.
func (m *Mesh) Append(other *Mesh, mat math3d.Mat4, primitive int) int {
	base := len(m.Vertices)
	normalMat := mat.Inverse().Transpose()
	for _, v := range other.Vertices {
		m.Vertices = append(m.Vertices, MeshVertex{
			Position: mat.MulVec3(v.Position),
			Normal:   normalMat.MulVec3Dir(v.Normal).Normalize(),
		})
	}
	for _, f := range other.Faces {
		m.Faces = append(m.Faces, Face{
			V:         [3]int{base + f.V[0], base + f.V[1], base + f.V[2]},
			Primitive: primitive,
		})
	}
	m.boundsValid = false
	return base
}

// CalculateNormals assigns each face normal to its vertices (flat shading).
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		normal := m.faceNormal(f).Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = normal
		}
	}
}

// CalculateSmoothNormals computes area-weighted averaged vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}
	for _, f := range m.Faces {
		normal := m.faceNormal(f)
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(normal)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	normalMat := mat.Inverse().Transpose()
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = normalMat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.ComputeBoundingBox()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:        m.Name,
		Vertices:    make([]MeshVertex, len(m.Vertices)),
		Faces:       make([]Face, len(m.Faces)),
		bounds:      m.bounds,
		boundsValid: m.boundsValid,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}

// GetVertex returns the position and normal for vertex i.
// Implements render.Geometry.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := m.Vertices[i]
	return v.Position, v.Normal
}

// GetFace returns the vertex indices for face i.
// Implements render.Geometry.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// FacePrimitive returns the pickable primitive index of face i.
func (m *Mesh) FacePrimitive(i int) int {
	return m.Faces[i].Primitive
}
