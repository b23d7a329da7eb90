package render

import (
	"math"

	"github.com/taigrr/molview/pkg/math3d"
)

// drawEdges draws the three edges of every face as depth-tested lines.
// Shared edges are drawn once.
func (r *Rasterizer) drawEdges(call *DrawCall, st *drawState, frag fragmentFunc) {
	g := call.Geometry
	verts := r.transformVertices(call, st)
	seen := make(map[[2]int]struct{}, g.TriangleCount()*3/2)
	for f := range g.TriangleCount() {
		face := g.GetFace(f)
		prim := g.FacePrimitive(f)
		r.Stats.Triangles++
		for k := range 3 {
			a, b := face[k], face[(k+1)%3]
			key := [2]int{min(a, b), max(a, b)}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			r.drawLine3D(verts[a], verts[b], prim, frag)
		}
	}
}

// drawLine3D steps along the longer screen axis, interpolating depth and
// view position. Lines touching the camera plane are skipped.
func (r *Rasterizer) drawLine3D(a, b screenVertex, primitive int, frag fragmentFunc) {
	if a.W <= 0 || b.W <= 0 {
		return
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Floor(a.X + dx*t))
		y := int(math.Floor(a.Y + dy*t))
		if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
			continue
		}
		z := a.Z + (b.Z-a.Z)*t
		view := a.View.Lerp(b.View, t)
		c := lerpColor(a.Color, b.Color, t)
		frag(x, y, z, view, c, primitive)
	}
}

// DrawLine3D draws an unshaded world-space line with the depth test, for
// overlays such as axes and cell edges. mvp maps world to clip space.
func (r *Rasterizer) DrawLine3D(mvp math3d.Mat4, p1, p2 math3d.Vec3, c Color) {
	st := drawState{mvp: mvp}
	a := r.project(&st, p1)
	b := r.project(&st, p2)
	a.Color, b.Color = c, c
	width := r.Width()
	r.drawLine3D(a, b, -1, func(x, y int, z float64, _ math3d.Vec3, c Color, _ int) {
		if z < -1 || z > 1 {
			return
		}
		idx := y*width + x
		if z > r.zbuffer[idx] {
			return
		}
		r.zbuffer[idx] = z
		r.fb.Pixels[idx] = c
	})
}
