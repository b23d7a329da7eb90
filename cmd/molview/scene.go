package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
	"github.com/taigrr/molview/pkg/repr"
	"github.com/taigrr/molview/pkg/shape"
	"github.com/taigrr/molview/pkg/structure"
	"github.com/taigrr/molview/pkg/viewer"
	"github.com/taigrr/molview/pkg/volume"
)

// Scene holds the components the CLI toggles.
type Scene struct {
	Title    string
	Main     *viewer.Component
	Extras   []*viewer.Component // contacts, axes, cell, shapes
	Density  *viewer.Component
	Polygons int
}

// cellCenter is the middle of the demo unit cell, where the demo content
// is built.
var cellCenter = math3d.V3(15, 15, 15)

// demoPeptide builds two short helical chains side by side in a 30 A
// cubic cell.
func demoPeptide() *structure.Structure {
	s := structure.New("demo")
	for ci, chain := range []string{"A", "B"} {
		offset := math3d.V3(float64(ci)*12-6, 0, 0).Add(cellCenter)
		for r := range 10 {
			// 100 degrees and 1.5 A rise per residue around the Y axis.
			t := float64(r) * 100 * math.Pi / 180
			rise := float64(r)*1.5 - 7
			place := func(radius, phase, dy float64) math3d.Vec3 {
				return math3d.RotateY(-(t + phase)).MulVec3(math3d.V3(radius, rise+dy, 0)).Add(offset)
			}
			ca := place(2.3, 0, 0)
			n := place(1.5, -0.45, -0.5)
			c := place(1.6, 0.45, 0.5)
			o := place(0.6, 0.6, 1.2)
			for _, a := range []struct {
				name string
				pos  math3d.Vec3
			}{{"N", n}, {"CA", ca}, {"C", c}, {"O", o}} {
				s.AddAtom(structure.Atom{
					Name: a.name, Element: a.name[:1], ResName: "ALA",
					ResNo: r + 1, Chain: chain, Position: a.pos,
				})
			}
		}
	}
	s.AssignBonds(0.45)
	s.FindClashes(0.4)
	if uc, err := structure.NewUnitcell(30, 30, 30, 90, 90, 90, "P 1"); err == nil {
		s.Unitcell = uc
	}
	return s
}

// demoShape marks the origin and the axes directions.
func demoShape() *shape.Shape {
	at := func(x, y, z float64) math3d.Vec3 { return cellCenter.Add(math3d.V3(x, y, z)) }
	sh := shape.New("markers", shape.DefaultParams())
	sh.AddArrow(at(0, -10, 0), at(0, 10, 0), color.RGBA{255, 200, 0, 255}, 0.4, "helix axis")
	sh.AddSphere(at(0, 0, 0), color.RGBA{255, 255, 255, 255}, 0.6, "center")
	sh.AddTorus(at(0, -9, 0), color.RGBA{0, 200, 255, 255}, 3, math3d.V3(1, 0, 0), math3d.V3(0, 0, 1), "base ring")
	return sh
}

// loadStructure reads an SDF file; residues are not perceived so small
// molecules fall through to ball+stick.
func loadStructure(path string) (*structure.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open structure: %w", err)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := structure.ReadSDF(f, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// centerAll moves every component so that center lands on the origin,
// where clipping measures camera distance from.
func centerAll(v *viewer.Viewer, center math3d.Vec3) {
	m := math3d.Translate(center.Scale(-1))
	for _, c := range v.Components() {
		c.SetMatrix(m)
	}
}

// buildScene adds the requested data, or the demo peptide, to v.
func buildScene(v *viewer.Viewer, surfacePath, sdfPath string, p repr.Params) (*Scene, error) {
	sc := &Scene{}
	switch {
	case surfacePath != "":
		mesh, err := models.LoadGLB(surfacePath)
		if err != nil {
			return nil, fmt.Errorf("load surface: %w", err)
		}
		surf := volume.NewSurface(mesh.Name, mesh)
		r, err := repr.Default(surf, 1, p)
		if err != nil {
			return nil, err
		}
		sc.Title = filepath.Base(surfacePath)
		sc.Main = v.AddComponent(surf.Name, surf, r)
		sc.Polygons = mesh.TriangleCount()
		centerAll(v, mesh.ComputeBoundingBox().Center())

	case sdfPath != "":
		s, err := loadStructure(sdfPath)
		if err != nil {
			return nil, err
		}
		sc.Title = filepath.Base(sdfPath)
		if err := addStructure(v, sc, s, p); err != nil {
			return nil, err
		}
		centerAll(v, s.BoundingBox().Center())

	default:
		s := demoPeptide()
		sc.Title = "demo peptide"
		if err := addStructure(v, sc, s, p); err != nil {
			return nil, err
		}
		sh := demoShape()
		sc.Extras = append(sc.Extras, v.AddComponent(sh.Name, sh, repr.Shape(sh)))
		sc.Extras = append(sc.Extras, v.AddComponent(s.Name+" cell", s.Unitcell, repr.Unitcell(s, p)))
		centerAll(v, cellCenter)
	}
	v.UpdateBoundingBox()
	return sc, nil
}

// addStructure shows s with its default representation plus contacts,
// distances, clashes and principal axes, and prepares a hidden density.
func addStructure(v *viewer.Viewer, sc *Scene, s *structure.Structure, p repr.Params) error {
	main, err := repr.Default(s, 1, p)
	if err != nil {
		return err
	}
	sc.Main = v.AddComponent(s.Name, s, main)

	extras := []*repr.Representation{repr.Contacts(s, p), repr.Clashes(s, p)}
	if n := len(s.Atoms); n > 1 {
		extras = append(extras, repr.Distances(s, [][2]int{{0, n - 1}}, p))
	}
	if axes, err := repr.Axes(s.Name+" axes", s, s.Positions(), p); err == nil {
		extras = append(extras, axes)
	}
	sc.Extras = append(sc.Extras, v.AddComponent(s.Name+" extras", s, extras...))

	radii := make([]float64, len(s.Atoms))
	for i, a := range s.Atoms {
		radii[i] = structure.VdwRadius(a.Element)
	}
	dens, err := volume.Density(s.Name+" density", s.Positions(), radii, 1)
	if err != nil {
		return err
	}
	dots, err := repr.Default(dens, 1, p)
	if err != nil {
		return err
	}
	sc.Density = v.AddComponent(dens.Name, dens, dots)
	setVisible(sc.Density, false)

	for _, r := range sc.Main.Representations {
		for _, b := range r.Buffers {
			sc.Polygons += b.Mesh.TriangleCount()
		}
	}
	return nil
}

func setVisible(c *viewer.Component, on bool) {
	if c == nil {
		return
	}
	for _, r := range c.Representations {
		for _, b := range r.Buffers {
			b.Visible = on
		}
	}
}

func isVisible(c *viewer.Component) bool {
	if c == nil {
		return false
	}
	for _, r := range c.Representations {
		for _, b := range r.Buffers {
			if b.Visible {
				return true
			}
		}
	}
	return false
}

func setWireframe(v *viewer.Viewer, on bool) {
	for _, c := range v.Components() {
		for _, r := range c.Representations {
			for _, b := range r.Buffers {
				b.Material.Wireframe = on
			}
		}
	}
}
