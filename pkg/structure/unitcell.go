package structure

import (
	"fmt"
	"math"

	"github.com/taigrr/molview/pkg/math3d"
)

// Unitcell describes a crystallographic cell. Lengths are in angstrom,
// angles in degrees.
type Unitcell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
	Spacegroup         string
}

// NewUnitcell validates the cell parameters.
func NewUnitcell(a, b, c, alpha, beta, gamma float64, spacegroup string) (*Unitcell, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, fmt.Errorf("unitcell: lengths must be positive, got %g %g %g", a, b, c)
	}
	for _, angle := range []float64{alpha, beta, gamma} {
		if angle <= 0 || angle >= 180 {
			return nil, fmt.Errorf("unitcell: angle %g out of range (0,180)", angle)
		}
	}
	if spacegroup == "" {
		spacegroup = "P 1"
	}
	return &Unitcell{A: a, B: b, C: c, Alpha: alpha, Beta: beta, Gamma: gamma, Spacegroup: spacegroup}, nil
}

// FracToCart returns the matrix mapping fractional to Cartesian
// coordinates, with the a axis along X and b in the XY plane.
func (u *Unitcell) FracToCart() math3d.Mat4 {
	rad := math.Pi / 180
	ca, cb, cg := math.Cos(u.Alpha*rad), math.Cos(u.Beta*rad), math.Cos(u.Gamma*rad)
	sg := math.Sin(u.Gamma * rad)

	ax := math3d.V3(u.A, 0, 0)
	bx := math3d.V3(u.B*cg, u.B*sg, 0)
	cx := u.C * cb
	cy := u.C * (ca - cb*cg) / sg
	cz := math.Sqrt(math.Max(0, u.C*u.C-cx*cx-cy*cy))
	return math3d.FromBasis(ax, bx, math3d.V3(cx, cy, cz), math3d.Zero3())
}

// Volume returns the cell volume.
func (u *Unitcell) Volume() float64 {
	return math.Abs(u.FracToCart().Determinant())
}

// Corners returns the eight cell vertices in Cartesian space, indexed by
// the bit pattern (x | y<<1 | z<<2) of their fractional coordinates.
func (u *Unitcell) Corners() [8]math3d.Vec3 {
	m := u.FracToCart()
	var out [8]math3d.Vec3
	for i := range out {
		f := math3d.V3(float64(i&1), float64(i>>1&1), float64(i>>2&1))
		out[i] = m.MulVec3(f)
	}
	return out
}

// Edges lists the twelve corner index pairs forming the cell outline.
func (u *Unitcell) Edges() [12][2]int {
	return [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7},
		{0, 2}, {1, 3}, {4, 6}, {5, 7},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
}
