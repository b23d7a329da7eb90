package repr

import (
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/molview/pkg/buffer"
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
	"github.com/taigrr/molview/pkg/picking"
	"github.com/taigrr/molview/pkg/render"
	"github.com/taigrr/molview/pkg/volume"
)

var surfaceColor = color.RGBA{200, 200, 220, 255}

// Surface draws a precomputed surface. Faces are picked by index.
func Surface(s *volume.Surface) *Representation {
	r := newRepresentation(TypeSurface, s)
	if s.Mesh == nil || s.Mesh.TriangleCount() == 0 {
		return r
	}
	m := s.Mesh.Clone()
	for f := range m.Faces {
		m.Faces[f].Primitive = f
	}
	buf := buffer.New(s.Name, m, &picking.SurfacePicker{Surface: s})
	buf.Color = surfaceColor
	buf.Material.DoubleSided = true
	r.add(buf)
	return r
}

// voxelSize returns the grid spacing along each axis.
func voxelSize(v *volume.Volume) [3]math3d.Vec3 {
	return [3]math3d.Vec3{
		v.Matrix.MulVec3Dir(math3d.V3(1, 0, 0)),
		v.Matrix.MulVec3Dir(math3d.V3(0, 1, 0)),
		v.Matrix.MulVec3Dir(math3d.V3(0, 0, 1)),
	}
}

// VolumeDots draws every sample at or above sigma as an impostor half a
// voxel wide, coloured by value.
func VolumeDots(v *volume.Volume, sigma float64, p Params) (*Representation, error) {
	threshold := v.ValueForSigma(sigma)
	scale, err := render.NewColorScale(p.ColorScale, threshold, v.Max())
	if err != nil {
		return nil, err
	}
	axes := voxelSize(v)
	radius := 0.5 * math.Min(axes[0].Len(), math.Min(axes[1].Len(), axes[2].Len()))

	var (
		indices   []int
		positions []math3d.Vec3
		colors    []color.RGBA
	)
	for i, val := range v.Data {
		if val < threshold {
			continue
		}
		indices = append(indices, i)
		positions = append(positions, v.Position(i))
		colors = append(colors, scale.Color(val))
	}

	r := newRepresentation(TypeDot, v)
	if len(indices) > 0 {
		r.add(buffer.NewPoints(v.Name+" dots", positions, constant(len(indices), radius),
			colors, picking.NewVolumePicker(v, indices)))
	}
	return r, nil
}

// VolumeSlice draws the grid plane at index along axis (0, 1 or 2) as one
// voxel-sized quad per sample, coloured by value over the whole volume
// range.
func VolumeSlice(v *volume.Volume, axis, index int, p Params) (*Representation, error) {
	dims := [3]int{v.Nx, v.Ny, v.Nz}
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("slice %q: axis %d out of range", v.Name, axis)
	}
	if index < 0 || index >= dims[axis] {
		return nil, fmt.Errorf("slice %q: index %d out of range [0,%d)", v.Name, index, dims[axis])
	}
	scale, err := render.NewColorScale(p.ColorScale, v.Min(), v.Max())
	if err != nil {
		return nil, err
	}

	steps := voxelSize(v)
	ua, wa := (axis+1)%3, (axis+2)%3
	du, dw := steps[ua].Scale(0.5), steps[wa].Scale(0.5)
	normal := du.Cross(dw).Normalize()

	m := models.NewMesh(v.Name + " slice")
	var (
		indices []int
		colors  []color.RGBA
	)
	for b := range dims[wa] {
		for a := range dims[ua] {
			var g [3]int
			g[axis], g[ua], g[wa] = index, a, b
			i := v.Index(g[0], g[1], g[2])
			c := v.Position(i)
			k := len(indices)
			base := m.AddVertex(c.Sub(du).Sub(dw), normal)
			m.AddVertex(c.Add(du).Sub(dw), normal)
			m.AddVertex(c.Add(du).Add(dw), normal)
			m.AddVertex(c.Sub(du).Add(dw), normal)
			m.AddFace(base, base+1, base+2, k)
			m.AddFace(base, base+2, base+3, k)
			col := scale.Color(v.Value(i))
			colors = append(colors, col, col, col, col)
			indices = append(indices, i)
		}
	}

	r := newRepresentation(TypeSlice, v)
	buf := buffer.New(m.Name, m, picking.NewSlicePicker(v, indices))
	buf.Colors = colors
	buf.Material.DoubleSided = true
	r.add(buf)
	return r, nil
}
