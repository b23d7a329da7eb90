package shape

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
)

var red = color.RGBA{255, 0, 0, 255}

func TestNewDefaults(t *testing.T) {
	s := New("", DefaultParams())
	assert.Equal(t, "shape", s.Name)
	assert.Equal(t, 1.5, s.Params.AspectRatio)
	assert.Equal(t, 2, s.Params.SphereDetail)
	assert.Equal(t, 50, s.Params.RadialSegments)
}

func TestAddPrimitives(t *testing.T) {
	s := New("geo", DefaultParams()).
		AddSphere(math3d.V3(0, 0, 9), red, 1.5, "").
		AddEllipsoid(math3d.V3(6, 0, 0), red, 1.5, math3d.V3(3, 0, 0), math3d.V3(0, 2, 0), "e").
		AddCylinder(math3d.V3(0, 2, 7), math3d.V3(0, 0, 9), red, 0.5, "").
		AddCone(math3d.V3(0, 2, 7), math3d.V3(0, 3, 3), red, 1.5, "").
		AddArrow(math3d.V3(1, 2, 7), math3d.V3(30, 3, 3), red, 1.0, "").
		AddBox(math3d.V3(0, 5, 0), red, 2, math3d.V3(0, 1, 0), math3d.V3(0, 0, 1), "").
		AddOctahedron(math3d.V3(0, 5, 0), red, 2, math3d.V3(0, 1, 0), math3d.V3(0, 0, 1), "").
		AddTetrahedron(math3d.V3(0, 5, 0), red, 2, math3d.V3(0, 1, 0), math3d.V3(0, 0, 1), "").
		AddTorus(math3d.V3(0, 5, 0), red, 2, math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), "").
		AddMesh(models.Box(), red, "").
		AddMesh(models.Box(), red, "second")

	assert.Equal(t, 11, s.Len())
	assert.Equal(t, 1, s.Meshes[1].Serial)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "geo", s.Name)
}

func TestSphereMatrix(t *testing.T) {
	p := Sphere{Position: math3d.V3(1, 2, 3), Radius: 2}
	got := p.Matrix().MulVec3(math3d.V3(1, 0, 0))
	assert.InDelta(t, 3, got.X, 1e-9)
	assert.InDelta(t, 2, got.Y, 1e-9)
}

func TestEllipsoidMatrix(t *testing.T) {
	p := Ellipsoid{Position: math3d.V3(6, 0, 0), Radius: 1.5, MajorAxis: math3d.V3(3, 0, 0), MinorAxis: math3d.V3(0, 2, 0)}
	box := models.Sphere(2).BoundingBox().ApplyMatrix4(p.Matrix())
	size := box.Size()
	assert.InDelta(t, 6, size.X, 1e-6)
	assert.InDelta(t, 4, size.Y, 1e-6)
	assert.InDelta(t, 3, size.Z, 1e-6)
}

func TestBoxMatrix(t *testing.T) {
	p := Box{Position: math3d.V3(0, 5, 0), Size: 2, HeightAxis: math3d.V3(0, 3, 0), DepthAxis: math3d.V3(0, 0, 4)}
	box := models.Box().BoundingBox().ApplyMatrix4(p.Matrix())
	size := box.Size()
	assert.InDelta(t, 2, size.X, 1e-9)
	assert.InDelta(t, 3, size.Y, 1e-9)
	assert.InDelta(t, 4, size.Z, 1e-9)
	assert.InDelta(t, 5, box.Center().Y, 1e-9)
}

func TestArrowSplit(t *testing.T) {
	a := Arrow{From: math3d.V3(0, 0, 0), To: math3d.V3(10, 0, 0), Radius: 1}
	shaft, head := a.Split(1.5)
	require.InDelta(t, 7, shaft.To.X, 1e-9)
	assert.Equal(t, shaft.To, head.From)
	assert.Equal(t, a.To, head.To)
	assert.InDelta(t, 1/1.5, shaft.Radius, 1e-9)
	assert.InDelta(t, 1, head.Radius, 1e-9)

	// A short arrow is all head.
	short := Arrow{From: math3d.V3(0, 0, 0), To: math3d.V3(1, 0, 0), Radius: 1}
	shaft, _ = short.Split(1.5)
	assert.InDelta(t, 0, shaft.To.X, 1e-9)
}

func TestCylinderCenter(t *testing.T) {
	c := Cylinder{From: math3d.V3(0, 0, 0), To: math3d.V3(0, 0, 4)}
	assert.Equal(t, math3d.V3(0, 0, 2), c.Center())
	end := c.Matrix().MulVec3(math3d.V3(0, 0, 1))
	assert.InDelta(t, 4, end.Z, 1e-9)
}
