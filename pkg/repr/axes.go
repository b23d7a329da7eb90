package repr

import (
	"errors"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
	"github.com/taigrr/molview/pkg/picking"
)

// ErrNoPositions is returned when principal axes are requested for an
// empty point set.
var ErrNoPositions = errors.New("repr: no positions")

var axisColors = [3]color.RGBA{{255, 0, 0, 255}, {0, 200, 0, 255}, {0, 0, 255, 255}}

// PrincipalAxes returns the centroid of positions and the eigenvectors of
// their covariance, longest axis first. Each vector is scaled to the
// largest projection of any position onto it.
func PrincipalAxes(name string, positions []math3d.Vec3) (*picking.Axes, error) {
	n := len(positions)
	if n == 0 {
		return nil, ErrNoPositions
	}
	data := mat.NewDense(n, 3, nil)
	for i, p := range positions {
		data.SetRow(i, []float64{p.X, p.Y, p.Z})
	}
	var center math3d.Vec3
	center.X = stat.Mean(mat.Col(nil, 0, data), nil)
	center.Y = stat.Mean(mat.Col(nil, 1, data), nil)
	center.Z = stat.Mean(mat.Col(nil, 2, data), nil)

	axes := &picking.Axes{Name: name, Center: center}
	if n == 1 {
		axes.Vectors = [3]math3d.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
		return axes, nil
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)
	var eig mat.EigenSym
	if !eig.Factorize(&cov, true) {
		return nil, errors.New("repr: eigen decomposition failed")
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come back ascending.
	for k := range 3 {
		col := vecs.ColView(2 - k)
		dir := math3d.V3(col.AtVec(0), col.AtVec(1), col.AtVec(2)).Normalize()
		extent := 0.0
		for _, p := range positions {
			extent = math.Max(extent, math.Abs(p.Sub(center).Dot(dir)))
		}
		axes.Vectors[k] = dir.Scale(extent)
	}
	return axes, nil
}

// Axes draws the principal axes of positions as three cylinders through
// the centroid, capped with spheres. source is the object the axes were
// computed from.
func Axes(name string, source any, positions []math3d.Vec3, p Params) (*Representation, error) {
	ax, err := PrincipalAxes(name, positions)
	if err != nil {
		return nil, err
	}
	r := newRepresentation(TypeAxes, source)
	cyl := models.Cylinder(p.RadialSegments, true)
	sphere := models.Sphere(p.SphereDetail)
	mb := newMeshBuilder(name)
	for k, v := range ax.Vectors {
		c := axisColors[k]
		from, to := ax.Center.Sub(v), ax.Center.Add(v)
		mb.cylinder(cyl, from, to, p.BondRadius, c, 0)
		for _, end := range []math3d.Vec3{from, to} {
			mb.add(sphere, math3d.Translate(end).Mul(math3d.ScaleUniform(p.BondRadius*2)), c, 0)
		}
	}
	r.add(mb.buffer(name, &picking.AxesPicker{Axes: ax, Source: source}))
	return r, nil
}
