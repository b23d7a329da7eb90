package math3d

// Vec4 is a point or direction in homogeneous coordinates, mostly the
// clip-space result of a projection.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Point lifts p to homogeneous coordinates with w=1.
func Point(p Vec3) Vec4 {
	return Vec4{p.X, p.Y, p.Z, 1}
}

// PerspectiveDivide returns the normalized device coordinates. A zero W
// leaves the components as they are.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return Vec3{v.X, v.Y, v.Z}
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}

// InClipVolume reports whether a clip-space point lies in front of the
// camera and inside the view volume (-w <= x, y, z <= w).
func (v Vec4) InClipVolume() bool {
	if v.W <= 0 {
		return false
	}
	return v.X >= -v.W && v.X <= v.W &&
		v.Y >= -v.W && v.Y <= v.W &&
		v.Z >= -v.W && v.Z <= v.W
}
