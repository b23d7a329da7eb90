package math3d

import "math"

// Box3 is an axis-aligned bounding box. The zero-volume empty box has
// Min = +Inf and Max = -Inf so that any union with it yields the other box.
type Box3 struct {
	Min Vec3
	Max Vec3
}

// NewBox3 creates a box from min and max corners.
func NewBox3(min, max Vec3) Box3 {
	return Box3{Min: min, Max: max}
}

// EmptyBox3 returns a box containing nothing.
func EmptyBox3() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Box3FromPoints returns the smallest box containing all points.
// With no points the result is empty.
func Box3FromPoints(points ...Vec3) Box3 {
	b := EmptyBox3()
	for _, p := range points {
		b = b.ExpandByPoint(p)
	}
	return b
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// Center returns the center of the box.
func (b Box3) Center() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
// An empty box has zero size.
func (b Box3) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Union returns the smallest box containing both a and o.
func (b Box3) Union(o Box3) Box3 {
	return Box3{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// ExpandByPoint grows the box to include p.
func (b Box3) ExpandByPoint(p Vec3) Box3 {
	return Box3{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// ExpandByScalar grows the box by s in every direction.
func (b Box3) ExpandByScalar(s float64) Box3 {
	return Box3{Min: b.Min.AddScalar(-s), Max: b.Max.AddScalar(s)}
}

// IsPoint reports whether the box collapsed to a single point.
func (b Box3) IsPoint() bool {
	return b.Min.Equals(b.Max)
}

// ApplyMatrix4 returns the box bounding all 8 transformed corners.
// Empty boxes stay empty.
func (b Box3) ApplyMatrix4(m Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	corners := [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
	out := EmptyBox3()
	for _, c := range corners {
		out = out.ExpandByPoint(m.MulVec3(c))
	}
	return out
}
