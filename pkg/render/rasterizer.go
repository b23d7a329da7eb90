// Package render is the software renderer behind the viewer: a z-buffered
// triangle and impostor rasterizer with a colour pass and a pick pass,
// driven by per-material uniforms, and a terminal presenter.
package render

import (
	"math"

	"github.com/taigrr/molview/pkg/math3d"
)

// Geometry is the mesh interface the rasterizer draws. A geometry without
// faces is a point set drawn as sphere impostors.
type Geometry interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
	FacePrimitive(i int) int
}

// DrawCall is one object submitted to a pass.
type DrawCall struct {
	Geometry Geometry
	Material *Material
	Color    Color     // base colour
	Colors   []Color   // optional per-vertex colours
	Radii    []float64 // per-vertex impostor radii for point sets
	Instance int       // written to the pick buffer, -1 when not instanced
}

func (c *DrawCall) vertexColor(i int) Color {
	if i < len(c.Colors) {
		return c.Colors[i]
	}
	return c.Color
}

func (c *DrawCall) radius(i int) float64 {
	if i < len(c.Radii) {
		return c.Radii[i]
	}
	return 1
}

// Fog blends fragments toward Color between Near and Far view distance.
// Fog is off while Far <= Near.
type Fog struct {
	Near  float64
	Far   float64
	Color Color
}

// Stats counts work done since the last Clear.
type Stats struct {
	Objects   int
	Triangles int
	Points    int
	Skipped   int // draw calls without a projection uniform
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	fb        *Framebuffer
	pick      *PickBuffer
	zbuffer   []float64 // Depth buffer (1D array, row-major)
	pickDepth []float64
	scratch   []screenVertex

	DisableBackfaceCulling bool // If true, render both sides of triangles
	Fog                    Fog
	Stats                  Stats
}

// NewRasterizer creates a rasterizer drawing into fb. pick may be nil, in
// which case pick passes are no-ops.
func NewRasterizer(fb *Framebuffer, pick *PickBuffer) *Rasterizer {
	r := &Rasterizer{fb: fb, pick: pick}
	r.Resize()
	return r
}

// Capabilities reports what this renderer supports.
func (r *Rasterizer) Capabilities() Capabilities {
	return Capabilities{
		DepthBuffer:     true,
		FloatReadPixels: r.pick != nil && r.pick.Float,
	}
}

// Resize resizes the depth and pick buffers to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer, r.pickDepth = nil, nil
		return
	}
	n := r.fb.Width * r.fb.Height
	r.zbuffer = make([]float64, n)
	r.pickDepth = make([]float64, n)
	if r.pick != nil && (r.pick.Width != r.fb.Width || r.pick.Height != r.fb.Height) {
		r.pick.Resize(r.fb.Width, r.fb.Height)
	}
	clearDepth(r.zbuffer)
	clearDepth(r.pickDepth)
}

// SetFog sets the fog used by later colour passes.
func (r *Rasterizer) SetFog(f Fog) {
	r.Fog = f
}

// Framebuffer returns the colour target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// PickBuffer returns the pick target, or nil.
func (r *Rasterizer) PickBuffer() *PickBuffer {
	return r.pick
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// Clear fills the framebuffer with bg and resets the depth buffer and
// stats.
func (r *Rasterizer) Clear(bg Color) {
	if r.fb != nil {
		r.fb.Clear(bg)
	}
	clearDepth(r.zbuffer)
	r.Stats = Stats{}
}

// ClearPick resets the pick buffer and its depth buffer.
func (r *Rasterizer) ClearPick() {
	if r.pick != nil {
		r.pick.Clear()
	}
	clearDepth(r.pickDepth)
}

// ReadPixel reads the pick buffer at framebuffer coordinates.
func (r *Rasterizer) ReadPixel(x, y int) (PickSample, bool) {
	if r.pick == nil {
		return PickSample{}, false
	}
	return r.pick.ReadPixel(x, y)
}

// clearDepth fills a depth buffer with +Inf using copy-doubling.
func clearDepth(buf []float64) {
	if len(buf) == 0 {
		return
	}
	buf[0] = math.MaxFloat64
	for i := 1; i < len(buf); i *= 2 {
		copy(buf[i:], buf[:i])
	}
}

// Draw runs the colour pass for one object. It reports false when the
// object could not be drawn.
func (r *Rasterizer) Draw(call DrawCall) bool {
	return r.draw(call, false)
}

// DrawPick runs the pick pass for one object. Objects whose material does
// not carry an objectId are not pickable.
func (r *Rasterizer) DrawPick(call DrawCall) bool {
	return r.draw(call, true)
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y      float64 // Screen coordinates
	Z         float64 // NDC depth
	W         float64 // Clip W
	View      math3d.Vec3
	Intensity float64
	Color     Color
}

// drawState is what one draw call reads from its program.
type drawState struct {
	mvp        math3d.Mat4
	mv         math3d.Mat4
	mvInv      math3d.Mat4
	normal     math3d.Mat4
	hasView    bool
	clipNear   float64
	clipRadius float64
	clipCenter math3d.Vec3
	objectID   float64
	pickable   bool
}

func prepare(m *Material) (drawState, bool) {
	p := m.Compile()
	st := drawState{normal: math3d.Identity()}
	var ok bool
	if st.mvp, ok = p.Mat4(UniformModelViewProjectionMatrix); !ok {
		return st, false
	}
	if inv, ok := p.Mat4(UniformModelViewMatrixInverse); ok {
		st.mvInv = inv
		st.mv = inv.Inverse()
		st.normal = inv.Transpose()
		st.hasView = true
	}
	if n, ok := p.Mat4(UniformModelViewMatrixInverseTranspose); ok {
		st.normal = n
		if !st.hasView {
			st.mvInv = n.Transpose()
			st.mv = st.mvInv.Inverse()
			st.hasView = true
		}
	}
	if st.hasView {
		st.clipNear, _ = p.Float(UniformClipNear)
		st.clipRadius, _ = p.Float(UniformClipRadius)
		st.clipCenter, _ = p.Vec3(UniformClipCenter)
	}
	st.objectID, st.pickable = p.Float(UniformObjectID)
	return st, true
}

// clipped reports whether a fragment at view-space position v is removed
// by the material clip uniforms.
func (st *drawState) clipped(v math3d.Vec3) bool {
	if !st.hasView {
		return false
	}
	if st.clipNear > 0 && -v.Z < st.clipNear {
		return true
	}
	return st.clipRadius > 0 && v.Distance(st.clipCenter) > st.clipRadius
}

func (r *Rasterizer) project(st *drawState, pos math3d.Vec3) screenVertex {
	clip := st.mvp.MulVec4(math3d.Point(pos))
	ndc := clip.PerspectiveDivide()
	sv := screenVertex{
		X: (ndc.X + 1) * 0.5 * float64(r.Width()),
		Y: (1 - ndc.Y) * 0.5 * float64(r.Height()), // Y flipped
		Z: ndc.Z,
		W: clip.W,
	}
	if st.hasView {
		sv.View = st.mv.MulVec3(pos)
	}
	return sv
}

// fragmentFunc is handed every covered pixel; it applies the depth range,
// clip and depth tests before writing.
type fragmentFunc func(x, y int, z float64, view math3d.Vec3, c Color, primitive int)

func (r *Rasterizer) draw(call DrawCall, pick bool) bool {
	if call.Geometry == nil || call.Material == nil || r.fb == nil {
		return false
	}
	st, ok := prepare(call.Material)
	if !ok {
		r.Stats.Skipped++
		return false
	}
	if pick && (r.pick == nil || !st.pickable) {
		return false
	}
	depth := r.zbuffer
	if pick {
		depth = r.pickDepth
	}
	width := r.Width()
	frag := func(x, y int, z float64, view math3d.Vec3, c Color, primitive int) {
		if z < -1 || z > 1 || st.clipped(view) {
			return
		}
		idx := y*width + x
		if z >= depth[idx] {
			return
		}
		depth[idx] = z
		if pick {
			r.pick.Write(x, y, st.objectID, primitive, call.Instance)
			return
		}
		r.fb.Pixels[idx] = r.applyFog(c, view, st.hasView)
	}

	r.Stats.Objects++
	switch {
	case call.Geometry.TriangleCount() == 0:
		r.drawPoints(&call, &st, frag)
	case call.Material.Wireframe:
		r.drawEdges(&call, &st, frag)
	default:
		r.drawTriangles(&call, &st, frag)
	}
	return true
}

func (r *Rasterizer) transformVertices(call *DrawCall, st *drawState) []screenVertex {
	g := call.Geometry
	r.scratch = r.scratch[:0]
	for i := range g.VertexCount() {
		pos, normal := g.GetVertex(i)
		sv := r.project(st, pos)
		n := st.normal.MulVec3Dir(normal).Normalize()
		// Headlight along the view axis, lit on both sides.
		sv.Intensity = 0.3 + 0.7*math.Abs(n.Z)
		sv.Color = call.vertexColor(i)
		r.scratch = append(r.scratch, sv)
	}
	return r.scratch
}

func (r *Rasterizer) drawTriangles(call *DrawCall, st *drawState, frag fragmentFunc) {
	g := call.Geometry
	verts := r.transformVertices(call, st)
	twoSided := r.DisableBackfaceCulling || call.Material.DoubleSided
	for f := range g.TriangleCount() {
		face := g.GetFace(f)
		tri := [3]screenVertex{verts[face[0]], verts[face[1]], verts[face[2]]}
		prim := g.FacePrimitive(f)
		r.Stats.Triangles++
		r.rasterizeTriangle(&tri, twoSided, func(x, y int, z, b0, b1, b2 float64) {
			view := tri[0].View.Scale(b0).Add(tri[1].View.Scale(b1)).Add(tri[2].View.Scale(b2))
			intensity := tri[0].Intensity*b0 + tri[1].Intensity*b1 + tri[2].Intensity*b2
			c := interpolateColor3(tri[0].Color, tri[1].Color, tri[2].Color, math3d.V3(b0, b1, b2))
			frag(x, y, z, view, MultiplyColor(c, intensity), prim)
		})
	}
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C of the
// directed edge (x0, y0) -> (x1, y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// rasterizeTriangle walks the covered pixels with incremental edge
// functions and hands out normalized barycentric weights. Screen Y points
// down, so counter-clockwise front faces have a negative signed area.
func (r *Rasterizer) rasterizeTriangle(sv *[3]screenVertex, twoSided bool, emit func(x, y int, z, b0, b1, b2 float64)) {
	// Triangles crossing the camera plane are dropped rather than clipped.
	if sv[0].W <= 0 || sv[1].W <= 0 || sv[2].W <= 0 {
		return
	}
	area2 := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area2 == 0 || (area2 > 0 && !twoSided) {
		return
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	invArea := 1.0 / area2

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		for x := minX; x <= maxX; x++ {
			b0, b1, b2 := w0*invArea, w1*invArea, w2*invArea
			if b0 >= 0 && b1 >= 0 && b2 >= 0 {
				z := b0*sv[0].Z + b1*sv[1].Z + b2*sv[2].Z
				emit(x, y, z, b0, b1, b2)
			}
			w0 += A0
			w1 += A1
			w2 += A2
		}
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

// drawPoints draws every vertex as a shaded disc of its projected radius.
// Depth bulges toward the camera like a sphere. Without a model-view
// inverse the disc is one pixel wide.
func (r *Rasterizer) drawPoints(call *DrawCall, st *drawState, frag fragmentFunc) {
	g := call.Geometry
	var right, toward math3d.Vec3
	if st.hasView {
		right = st.mvInv.MulVec3Dir(math3d.V3(1, 0, 0)).Normalize()
		toward = st.mvInv.MulVec3Dir(math3d.V3(0, 0, 1)).Normalize()
	}
	for i := range g.VertexCount() {
		pos, _ := g.GetVertex(i)
		c := r.project(st, pos)
		if c.W <= 0 {
			continue
		}
		radius := call.radius(i)
		pr, zFront := 0.5, c.Z
		if st.hasView {
			e := r.project(st, pos.Add(right.Scale(radius)))
			pr = math.Max(0.5, math.Hypot(e.X-c.X, e.Y-c.Y))
			zFront = r.project(st, pos.Add(toward.Scale(radius))).Z
		}
		r.Stats.Points++
		color := call.vertexColor(i)

		minX := max(0, int(math.Floor(c.X-pr)))
		maxX := min(r.Width()-1, int(math.Ceil(c.X+pr)))
		minY := max(0, int(math.Floor(c.Y-pr)))
		maxY := min(r.Height()-1, int(math.Ceil(c.Y+pr)))
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				dx := (float64(x) + 0.5 - c.X) / pr
				dy := (float64(y) + 0.5 - c.Y) / pr
				d2 := dx*dx + dy*dy
				if d2 > 1 {
					continue
				}
				nz := math.Sqrt(1 - d2)
				view := c.View
				view.Z += nz * radius
				z := c.Z + (zFront-c.Z)*nz
				frag(x, y, z, view, MultiplyColor(color, 0.3+0.7*nz), i)
			}
		}
	}
}

func (r *Rasterizer) applyFog(c Color, view math3d.Vec3, hasView bool) Color {
	f := r.Fog
	if !hasView || f.Far <= f.Near {
		return c
	}
	t := (-view.Z - f.Near) / (f.Far - f.Near)
	return lerpColor(c, f.Color, math.Max(0, math.Min(1, t)))
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		clamp8(float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z),
		clamp8(float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z),
		clamp8(float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z),
	)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
