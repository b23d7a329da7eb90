// Package volume holds scalar grids (density maps) and precomputed
// surfaces.
package volume

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
)

// ErrEmpty is returned when a grid has no samples.
var ErrEmpty = errors.New("volume: empty grid")

// Volume is a scalar field sampled on a regular grid. Data is indexed with
// X varying fastest. Matrix maps grid coordinates to Cartesian space.
type Volume struct {
	Name       string
	Nx, Ny, Nz int
	Data       []float64
	Matrix     math3d.Mat4

	mean, rms float64
	statsOK   bool
}

// New creates a volume over data. len(data) must equal nx*ny*nz.
func New(name string, nx, ny, nz int, data []float64, matrix math3d.Mat4) (*Volume, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("volume %q: %w", name, ErrEmpty)
	}
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("volume %q: %d samples for a %dx%dx%d grid", name, len(data), nx, ny, nz)
	}
	return &Volume{Name: name, Nx: nx, Ny: ny, Nz: nz, Data: data, Matrix: matrix}, nil
}

// Len returns the number of samples.
func (v *Volume) Len() int {
	return len(v.Data)
}

// Index returns the flat index of grid point (x, y, z).
func (v *Volume) Index(x, y, z int) int {
	return x + v.Nx*(y+v.Ny*z)
}

// Coords is the inverse of Index.
func (v *Volume) Coords(i int) (x, y, z int) {
	x = i % v.Nx
	y = (i / v.Nx) % v.Ny
	z = i / (v.Nx * v.Ny)
	return x, y, z
}

// Value returns sample i.
func (v *Volume) Value(i int) float64 {
	return v.Data[i]
}

// Position returns the Cartesian position of sample i.
func (v *Volume) Position(i int) math3d.Vec3 {
	x, y, z := v.Coords(i)
	return v.Matrix.MulVec3(math3d.V3(float64(x), float64(y), float64(z)))
}

func (v *Volume) stats() {
	if v.statsOK {
		return
	}
	v.mean = stat.Mean(v.Data, nil)
	v.rms = math.Sqrt(floats.Dot(v.Data, v.Data) / float64(len(v.Data)))
	v.statsOK = true
}

// Mean returns the arithmetic mean of all samples.
func (v *Volume) Mean() float64 {
	v.stats()
	return v.mean
}

// RMS returns the root mean square of all samples.
func (v *Volume) RMS() float64 {
	v.stats()
	return v.rms
}

// Min and Max return the sample range.
func (v *Volume) Min() float64 { return floats.Min(v.Data) }
func (v *Volume) Max() float64 { return floats.Max(v.Data) }

// ValueForSigma converts a sigma level to an absolute value:
// mean + sigma*rms.
func (v *Volume) ValueForSigma(sigma float64) float64 {
	return v.Mean() + sigma*v.RMS()
}

// SigmaForValue is the inverse of ValueForSigma.
func (v *Volume) SigmaForValue(value float64) float64 {
	rms := v.RMS()
	if rms == 0 {
		return 0
	}
	return (value - v.Mean()) / rms
}

// BoundingBox returns the box around the grid corners.
func (v *Volume) BoundingBox() math3d.Box3 {
	return math3d.NewBox3(
		math3d.Zero3(),
		math3d.V3(float64(v.Nx-1), float64(v.Ny-1), float64(v.Nz-1)),
	).ApplyMatrix4(v.Matrix)
}

// Invalidate drops cached statistics after Data was modified.
func (v *Volume) Invalidate() {
	v.statsOK = false
}

// Density builds a Gaussian density map around the given centres. Each
// centre contributes exp(-d²/r²) within 3r; the grid covers all centres
// plus a 3r margin with the given spacing.
func Density(name string, centers []math3d.Vec3, radii []float64, spacing float64) (*Volume, error) {
	if len(centers) == 0 || spacing <= 0 {
		return nil, fmt.Errorf("density %q: %w", name, ErrEmpty)
	}
	if len(radii) != len(centers) {
		return nil, fmt.Errorf("density %q: %d radii for %d centers", name, len(radii), len(centers))
	}
	maxR := floats.Max(radii)
	box := math3d.Box3FromPoints(centers...).ExpandByScalar(3 * maxR)
	size := box.Size()
	nx := int(math.Ceil(size.X/spacing)) + 1
	ny := int(math.Ceil(size.Y/spacing)) + 1
	nz := int(math.Ceil(size.Z/spacing)) + 1

	data := make([]float64, nx*ny*nz)
	for c, p := range centers {
		r := radii[c]
		if r <= 0 {
			continue
		}
		lo := p.Sub(box.Min).AddScalar(-3 * r).Div(spacing)
		hi := p.Sub(box.Min).AddScalar(3 * r).Div(spacing)
		for z := max(0, int(lo.Z)); z <= min(nz-1, int(hi.Z)+1); z++ {
			for y := max(0, int(lo.Y)); y <= min(ny-1, int(hi.Y)+1); y++ {
				for x := max(0, int(lo.X)); x <= min(nx-1, int(hi.X)+1); x++ {
					q := box.Min.Add(math3d.V3(float64(x), float64(y), float64(z)).Scale(spacing))
					d2 := q.Sub(p).LenSq()
					if d2 > 9*r*r {
						continue
					}
					data[x+nx*(y+ny*z)] += math.Exp(-d2 / (r * r))
				}
			}
		}
	}

	m := math3d.Translate(box.Min).Mul(math3d.ScaleUniform(spacing))
	return New(name, nx, ny, nz, data, m)
}

// Surface is a named, precomputed triangulated surface.
type Surface struct {
	Name string
	Mesh *models.Mesh
}

// NewSurface wraps a mesh. An empty name falls back to the mesh name.
func NewSurface(name string, m *models.Mesh) *Surface {
	if name == "" && m != nil {
		name = m.Name
	}
	return &Surface{Name: name, Mesh: m}
}

// FaceCenter returns the centroid of face i.
func (s *Surface) FaceCenter(i int) math3d.Vec3 {
	f := s.Mesh.GetFace(i)
	a, _ := s.Mesh.GetVertex(f[0])
	b, _ := s.Mesh.GetVertex(f[1])
	c, _ := s.Mesh.GetVertex(f[2])
	return a.Add(b).Add(c).Div(3)
}
