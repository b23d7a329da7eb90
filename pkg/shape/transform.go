package shape

import (
	"math"

	"github.com/taigrr/molview/pkg/math3d"
)

// Each Matrix method maps the matching unit primitive from the models
// package onto the primitive's placement in world space.

// Matrix places the unit sphere.
func (p Sphere) Matrix() math3d.Mat4 {
	return math3d.Translate(p.Position).Mul(math3d.ScaleUniform(p.Radius))
}

// Matrix places the unit sphere stretched to the ellipsoid's semi-axes.
func (p Ellipsoid) Matrix() math3d.Mat4 {
	return orientedFrame(p.Position, p.Radius, p.MinorAxis, p.MajorAxis)
}

// Matrix places the unit cylinder.
func (p Cylinder) Matrix() math3d.Mat4 {
	return math3d.AlignZ(p.From, p.To, p.Radius)
}

// Center returns the cylinder midpoint.
func (p Cylinder) Center() math3d.Vec3 {
	return p.From.Lerp(p.To, 0.5)
}

// Matrix places the unit cone.
func (p Cone) Matrix() math3d.Mat4 {
	return math3d.AlignZ(p.From, p.To, p.Radius)
}

// Center returns the cone axis midpoint.
func (p Cone) Center() math3d.Vec3 {
	return p.From.Lerp(p.To, 0.5)
}

// Split divides the arrow into a shaft cylinder and a cone head.
func (p Arrow) Split(aspectRatio float64) (shaft Cylinder, head Cone) {
	if aspectRatio <= 0 {
		aspectRatio = 1
	}
	length := p.From.Distance(p.To)
	headLength := math.Min(2*p.Radius*aspectRatio, length)
	split := p.To
	if length > 0 {
		split = p.To.Sub(p.To.Sub(p.From).Normalize().Scale(headLength))
	}
	shaft = Cylinder{From: p.From, To: split, Color: p.Color, Radius: p.Radius / aspectRatio, Name: p.Name}
	head = Cone{From: split, To: p.To, Color: p.Color, Radius: p.Radius, Name: p.Name}
	return shaft, head
}

// Center returns the arrow midpoint.
func (p Arrow) Center() math3d.Vec3 {
	return p.From.Lerp(p.To, 0.5)
}

// Matrix places the unit box.
func (p Box) Matrix() math3d.Mat4 {
	return orientedFrame(p.Position, p.Size, p.HeightAxis, p.DepthAxis)
}

// Matrix places the unit octahedron. Its circumradius is half the size so
// that it fits the same frame as a box.
func (p Octahedron) Matrix() math3d.Mat4 {
	return orientedFrame(p.Position, p.Size, p.HeightAxis, p.DepthAxis).Mul(math3d.ScaleUniform(0.5))
}

// Matrix places the unit tetrahedron, scaled like Octahedron.
func (p Tetrahedron) Matrix() math3d.Mat4 {
	return orientedFrame(p.Position, p.Size, p.HeightAxis, p.DepthAxis).Mul(math3d.ScaleUniform(0.5))
}

// Matrix places the unit torus.
func (p Torus) Matrix() math3d.Mat4 {
	x := p.MajorAxis.Normalize()
	if x.LenSq() == 0 {
		x = math3d.V3(1, 0, 0)
	}
	y := p.MinorAxis.Sub(x.Scale(p.MinorAxis.Dot(x))).Normalize()
	if y.LenSq() == 0 {
		y = anyPerpendicular(x)
	}
	z := x.Cross(y)
	r := p.Radius
	return math3d.FromBasis(x.Scale(r), y.Scale(r), z.Scale(r), p.Position)
}

// orientedFrame builds a basis with Z along depth (scaled by its length),
// Y along height orthogonalised against Z, and X of length width.
func orientedFrame(position math3d.Vec3, width float64, height, depth math3d.Vec3) math3d.Mat4 {
	z := depth.Normalize()
	if z.LenSq() == 0 {
		z = math3d.V3(0, 0, 1)
	}
	y := height.Sub(z.Scale(height.Dot(z))).Normalize()
	if y.LenSq() == 0 {
		y = anyPerpendicular(z)
	}
	x := y.Cross(z)
	return math3d.FromBasis(x.Scale(width), y.Scale(height.Len()), z.Scale(depth.Len()), position)
}

func anyPerpendicular(v math3d.Vec3) math3d.Vec3 {
	a := math3d.V3(1, 0, 0)
	if math.Abs(v.X) > 0.9 {
		a = math3d.V3(0, 1, 0)
	}
	return a.Cross(v).Normalize()
}
