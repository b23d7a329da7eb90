// Package repr turns structures, shapes and volumes into renderable
// buffers with matching pickers.
package repr

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/taigrr/molview/pkg/buffer"
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
	"github.com/taigrr/molview/pkg/picking"
	"github.com/taigrr/molview/pkg/render"
)

// Representation is the set of buffers built for one data object.
type Representation struct {
	Type    string
	Object  any
	Buffers []*buffer.Buffer
}

func newRepresentation(typ string, obj any) *Representation {
	return &Representation{Type: typ, Object: obj}
}

func (r *Representation) add(b *buffer.Buffer) {
	if b != nil {
		r.Buffers = append(r.Buffers, b)
	}
}

// Params controls geometry sizes and tessellation.
type Params struct {
	// BondRadius is the cylinder radius of bonds, contacts and outlines.
	BondRadius float64
	// AspectRatio scales atom spheres relative to bonds in ball+stick.
	AspectRatio float64
	// RadiusScale multiplies van der Waals radii in spacefill.
	RadiusScale     float64
	RadialSegments  int
	SphereDetail    int
	DisableImpostor bool
	// ContactDistance is the longest polar contact drawn, in angstrom.
	ContactDistance float64
	// ColorScheme is one of the Scheme constants.
	ColorScheme string
	// ColorScale names the scale used for volume values and the chain and
	// residue schemes.
	ColorScale   string
	ColorReverse bool
}

// DefaultParams returns sizes suited to the terminal renderer.
func DefaultParams() Params {
	return Params{
		BondRadius:      0.15,
		AspectRatio:     2,
		RadiusScale:     1,
		RadialSegments:  10,
		SphereDetail:    1,
		ContactDistance: 3.5,
		ColorScheme:     SchemeElement,
		ColorScale:      "RdYlBu",
	}
}

// Validate checks the colour scheme and scale names and the sizes.
func (p Params) Validate() error {
	switch p.ColorScheme {
	case SchemeElement, SchemeChainName, SchemeResidueIndex:
	default:
		return fmt.Errorf("unknown color scheme %q", p.ColorScheme)
	}
	if names := render.ColorScaleNames(); !slices.Contains(names, p.ColorScale) {
		return fmt.Errorf("unknown color scale %q (want one of %v)", p.ColorScale, names)
	}
	if p.BondRadius <= 0 || p.AspectRatio <= 0 || p.RadiusScale <= 0 {
		return fmt.Errorf("sizes must be positive")
	}
	return nil
}

// meshBuilder collects transformed unit primitives into one mesh with
// per-vertex colours.
type meshBuilder struct {
	mesh   *models.Mesh
	colors []color.RGBA
}

func newMeshBuilder(name string) *meshBuilder {
	return &meshBuilder{mesh: models.NewMesh(name)}
}

func (b *meshBuilder) add(unit *models.Mesh, m math3d.Mat4, c color.RGBA, primitive int) {
	b.mesh.Append(unit, m, primitive)
	for range unit.Vertices {
		b.colors = append(b.colors, c)
	}
}

// cylinder adds a cylinder from-to; zero-length cylinders are dropped.
func (b *meshBuilder) cylinder(unit *models.Mesh, from, to math3d.Vec3, radius float64, c color.RGBA, primitive int) {
	if from.Equals(to) {
		return
	}
	b.add(unit, math3d.AlignZ(from, to, radius), c, primitive)
}

// halfCylinders adds a cylinder split at its midpoint, each half coloured
// after its own end.
func (b *meshBuilder) halfCylinders(unit *models.Mesh, from, to math3d.Vec3, radius float64, c1, c2 color.RGBA, primitive int) {
	mid := from.Lerp(to, 0.5)
	b.cylinder(unit, from, mid, radius, c1, primitive)
	b.cylinder(unit, mid, to, radius, c2, primitive)
}

func (b *meshBuilder) empty() bool {
	return b.mesh.TriangleCount() == 0
}

// buffer wraps the collected mesh, or returns nil when nothing was added.
func (b *meshBuilder) buffer(name string, picker picking.Picker) *buffer.Buffer {
	if b.empty() {
		return nil
	}
	buf := buffer.New(name, b.mesh, picker)
	buf.Colors = b.colors
	return buf
}

// spheres builds either an impostor point set or tessellated spheres.
// Pick indices of both forms resolve through ids.
func spheres(name string, centers []math3d.Vec3, radii []float64, colors []color.RGBA, ids []int, picker picking.Picker, p Params) *buffer.Buffer {
	if len(centers) == 0 {
		return nil
	}
	if !p.DisableImpostor {
		buf := buffer.NewPoints(name, centers, radii, colors, picker)
		buf.PickIDs = ids
		return buf
	}
	unit := models.Sphere(p.SphereDetail)
	mb := newMeshBuilder(name)
	for i, c := range centers {
		m := math3d.Translate(c).Mul(math3d.ScaleUniform(radii[i]))
		prim := i
		if ids != nil {
			prim = ids[i]
		}
		mb.add(unit, m, colors[i], prim)
	}
	return mb.buffer(name, picker)
}
