package render

import (
	"math"
	"testing"

	"github.com/taigrr/molview/pkg/math3d"
)

var testBackground = RGB(10, 10, 10)

// mockMesh implements Geometry for testing.
type mockMesh struct {
	positions []math3d.Vec3
	normals   []math3d.Vec3
	faces     [][3]int
	prims     []int
}

func (m *mockMesh) VertexCount() int     { return len(m.positions) }
func (m *mockMesh) TriangleCount() int   { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *mockMesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	normal = math3d.V3(0, 0, 1)
	if i < len(m.normals) {
		normal = m.normals[i]
	}
	return m.positions[i], normal
}

func (m *mockMesh) FacePrimitive(i int) int {
	if i < len(m.prims) {
		return m.prims[i]
	}
	return i
}

// quad returns a square facing +Z at depth z, wound counter-clockwise.
func quad(z, half float64, prim int) *mockMesh {
	return &mockMesh{
		positions: []math3d.Vec3{
			math3d.V3(-half, -half, z), math3d.V3(half, -half, z),
			math3d.V3(half, half, z), math3d.V3(-half, half, z),
		},
		faces: [][3]int{{0, 1, 2}, {0, 2, 3}},
		prims: []int{prim, prim},
	}
}

// createTestRasterizer creates a rasterizer and a camera at (0,0,10)
// looking at the origin.
func createTestRasterizer(width, height int, floatReads bool) (*Rasterizer, *Camera) {
	fb := NewFramebuffer(width, height)
	r := NewRasterizer(fb, NewPickBuffer(width, height, floatReads))
	r.Clear(testBackground)
	r.ClearPick()
	cam := NewCamera()
	cam.SetViewport(width, height)
	return r, cam
}

// cameraMaterial sets the matrices a standard material needs to draw with
// the identity model matrix.
func cameraMaterial(cam *Camera) *Material {
	m := NewStandardMaterial("test")
	mv := cam.ViewMatrix()
	m.Set(UniformModelViewProjectionMatrix, cam.ProjectionMatrix().Mul(mv))
	m.Set(UniformModelViewMatrixInverse, mv.Inverse())
	m.Set(UniformModelViewMatrixInverseTranspose, mv.Inverse().Transpose())
	return m
}

func TestInterpolateColor3(t *testing.T) {
	c0 := RGB(255, 0, 0) // Red
	c1 := RGB(0, 255, 0) // Green
	c2 := RGB(0, 0, 255) // Blue

	tests := []struct {
		name string
		bc   math3d.Vec3
		want Color
	}{
		{"pure red", math3d.V3(1, 0, 0), RGB(255, 0, 0)},
		{"pure green", math3d.V3(0, 1, 0), RGB(0, 255, 0)},
		{"pure blue", math3d.V3(0, 0, 1), RGB(0, 0, 255)},
		{"red-green mix", math3d.V3(0.5, 0.5, 0), RGB(128, 128, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := interpolateColor3(c0, c1, c2, tc.bc)
			if absInt(int(got.R)-int(tc.want.R)) > 1 ||
				absInt(int(got.G)-int(tc.want.G)) > 1 ||
				absInt(int(got.B)-int(tc.want.B)) > 1 {
				t.Errorf("interpolateColor3(%v) = %v, want %v", tc.bc, got, tc.want)
			}
		})
	}
}

func TestMin3Max3(t *testing.T) {
	if min3(3, 1, 2) != 1 {
		t.Error("min3(3, 1, 2) should be 1")
	}
	if max3(3, 1, 2) != 3 {
		t.Error("max3(3, 1, 2) should be 3")
	}
}

func TestRasterizerClear(t *testing.T) {
	r, _ := createTestRasterizer(8, 8, true)
	r.Stats.Objects = 3
	r.Clear(ColorBlack)

	for i, z := range r.zbuffer {
		if z != math.MaxFloat64 {
			t.Fatalf("zbuffer[%d] = %v after clear", i, z)
		}
	}
	if r.Stats != (Stats{}) {
		t.Errorf("stats not reset: %+v", r.Stats)
	}
	if got := r.Framebuffer().GetPixel(3, 3); got != ColorBlack {
		t.Errorf("pixel = %v, want black", got)
	}
}

func TestDrawFrontFaceOnly(t *testing.T) {
	front := quad(0, 1, 0)
	back := &mockMesh{positions: front.positions, faces: [][3]int{{0, 2, 1}, {0, 3, 2}}}
	color := RGB(200, 100, 50)

	tests := []struct {
		name        string
		mesh        *mockMesh
		doubleSided bool
		drawn       bool
	}{
		{"front facing", front, false, true},
		{"back facing culled", back, false, false},
		{"back facing double sided", back, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, cam := createTestRasterizer(40, 40, true)
			m := cameraMaterial(cam)
			m.DoubleSided = tc.doubleSided
			if !r.Draw(DrawCall{Geometry: tc.mesh, Material: m, Color: color, Instance: -1}) {
				t.Fatal("Draw returned false")
			}
			got := r.Framebuffer().GetPixel(20, 20)
			if tc.drawn && got != color {
				t.Errorf("center = %v, want %v", got, color)
			}
			if !tc.drawn && got != testBackground {
				t.Errorf("center = %v, want background", got)
			}
		})
	}
}

func TestDrawWithoutProjectionIsSkipped(t *testing.T) {
	r, _ := createTestRasterizer(16, 16, true)
	m := NewMaterial("bare", UniformObjectID)

	if r.Draw(DrawCall{Geometry: quad(0, 1, 0), Material: m}) {
		t.Error("Draw should fail without a projection uniform")
	}
	if r.Stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", r.Stats.Skipped)
	}
}

func TestDepthOrdering(t *testing.T) {
	near, far := quad(1, 1, 0), quad(-1, 1, 0)
	red, blue := RGB(255, 0, 0), RGB(0, 0, 255)

	for _, order := range []string{"far first", "near first"} {
		t.Run(order, func(t *testing.T) {
			r, cam := createTestRasterizer(40, 40, true)
			m := cameraMaterial(cam)
			calls := []DrawCall{
				{Geometry: far, Material: m, Color: blue},
				{Geometry: near, Material: m, Color: red},
			}
			if order == "near first" {
				calls[0], calls[1] = calls[1], calls[0]
			}
			for _, c := range calls {
				r.Draw(c)
			}
			if got := r.Framebuffer().GetPixel(20, 20); got != red {
				t.Errorf("center = %v, want the nearer red quad", got)
			}
		})
	}
}

func TestClipNearDiscardsFragments(t *testing.T) {
	r, cam := createTestRasterizer(40, 40, true)
	m := cameraMaterial(cam)
	m.Set(UniformClipNear, 15.0)

	r.Draw(DrawCall{Geometry: quad(0, 1, 0), Material: m, Color: ColorWhite})
	if got := r.Framebuffer().GetPixel(20, 20); got != testBackground {
		t.Errorf("center = %v, want background behind the near clip", got)
	}
}

func TestPickPassEncodesObjectID(t *testing.T) {
	tests := []struct {
		name       string
		floatReads bool
		id         int
		want       int
	}{
		{"float reads", true, 300, 300},
		{"8-bit small id", false, 7, 7},
		{"8-bit saturates", false, 300, 255},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, cam := createTestRasterizer(40, 40, tc.floatReads)
			m := cameraMaterial(cam)
			m.Set(UniformObjectID, EncodeObjectID(tc.id, tc.floatReads))

			if !r.DrawPick(DrawCall{Geometry: quad(0, 1, 4), Material: m, Instance: 2}) {
				t.Fatal("DrawPick returned false")
			}
			s, ok := r.ReadPixel(20, 20)
			if !ok {
				t.Fatal("nothing written at the center")
			}
			if got := DecodeObjectID(s.ObjectID, tc.floatReads); got != tc.want {
				t.Errorf("object id = %d, want %d", got, tc.want)
			}
			if s.Primitive != 4 || s.Instance != 2 {
				t.Errorf("sample = %+v, want primitive 4 instance 2", s)
			}
			if _, ok := r.ReadPixel(0, 0); ok {
				t.Error("corner should be empty")
			}
		})
	}
}

func TestPickRequiresObjectID(t *testing.T) {
	r, cam := createTestRasterizer(16, 16, true)
	m := NewMaterial("no-id", UniformModelViewProjectionMatrix)
	m.Set(UniformModelViewProjectionMatrix, cam.ViewProjectionMatrix())

	if r.DrawPick(DrawCall{Geometry: quad(0, 1, 0), Material: m}) {
		t.Error("objects without objectId are not pickable")
	}
	if !r.Draw(DrawCall{Geometry: quad(0, 1, 0), Material: m, Color: ColorWhite}) {
		t.Error("colour pass should still draw")
	}
}

func TestImpostorPoints(t *testing.T) {
	r, cam := createTestRasterizer(40, 40, true)
	points := &mockMesh{positions: []math3d.Vec3{math3d.Zero3()}}
	m := cameraMaterial(cam)
	m.Set(UniformObjectID, 1.0)
	call := DrawCall{Geometry: points, Material: m, Color: ColorWhite, Radii: []float64{1}}

	r.Draw(call)
	r.DrawPick(call)

	if got := r.Framebuffer().GetPixel(20, 20); got == testBackground {
		t.Error("impostor should cover the center")
	}
	if got := r.Framebuffer().GetPixel(0, 0); got != testBackground {
		t.Error("impostor should not reach the corner")
	}
	s, ok := r.ReadPixel(20, 20)
	if !ok || s.Primitive != 0 {
		t.Errorf("pick sample = %+v, %v; want primitive 0", s, ok)
	}
	if r.Stats.Points != 2 {
		t.Errorf("Points = %d, want 2", r.Stats.Points)
	}
}

func TestWireframeDrawsEdgesOnly(t *testing.T) {
	r, cam := createTestRasterizer(40, 40, true)
	m := cameraMaterial(cam)
	m.Wireframe = true

	r.Draw(DrawCall{Geometry: quad(0, 2, 0), Material: m, Color: ColorWhite})

	fb := r.Framebuffer()
	lit := 0
	for _, p := range fb.Pixels {
		if p != testBackground {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("wireframe drew nothing")
	}
	if got := fb.GetPixel(26, 20); got != testBackground {
		t.Errorf("interior pixel = %v, want background", got)
	}
}

func TestRasterizerFog(t *testing.T) {
	r, cam := createTestRasterizer(40, 40, true)
	r.Fog = Fog{Near: 1, Far: 5, Color: testBackground}

	r.Draw(DrawCall{Geometry: quad(0, 1, 0), Material: cameraMaterial(cam), Color: ColorWhite})
	if got := r.Framebuffer().GetPixel(20, 20); got != testBackground {
		t.Errorf("fully fogged pixel = %v, want fog colour", got)
	}
}

func TestCameraPositionOnCanvas(t *testing.T) {
	cam := NewCamera()
	cam.SetViewport(40, 40)

	center := cam.PositionOnCanvas(math3d.Zero3())
	if math.Abs(center.X-20) > 1e-9 || math.Abs(center.Y-20) > 1e-9 {
		t.Errorf("origin on canvas = %v, want (20, 20)", center)
	}
	up := cam.PositionOnCanvas(math3d.V3(0, 1, 0))
	if up.Y <= 20 {
		t.Errorf("canvas Y grows upward, got %v", up)
	}
	_, sy, _, visible := cam.WorldToScreen(math3d.V3(0, 1, 0), 40, 40)
	if !visible || sy >= 20 {
		t.Errorf("screen Y grows downward, got %v", sy)
	}
}

func TestColorScale(t *testing.T) {
	s, err := NewColorScale("rwb", -1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Color(-5); got != RGB(255, 0, 0) {
		t.Errorf("below domain = %v, want red", got)
	}
	if got := s.Color(0); got != RGB(255, 255, 255) {
		t.Errorf("midpoint = %v, want white", got)
	}
	if got := s.Color(1); got != RGB(0, 0, 255) {
		t.Errorf("max = %v, want blue", got)
	}
	s.Reverse = true
	if got := s.Color(1); got != RGB(255, 0, 0) {
		t.Errorf("reversed max = %v, want red", got)
	}
	if _, err := NewColorScale("nope", 0, 1); err == nil {
		t.Error("unknown scale should fail")
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func BenchmarkDrawQuad(b *testing.B) {
	r, cam := createTestRasterizer(200, 100, true)
	m := cameraMaterial(cam)
	call := DrawCall{Geometry: quad(0, 3, 0), Material: m, Color: ColorWhite}

	for b.Loop() {
		r.Clear(testBackground)
		r.Draw(call)
	}
}

func BenchmarkDrawImpostors(b *testing.B) {
	r, cam := createTestRasterizer(200, 100, true)
	points := &mockMesh{}
	for i := range 100 {
		points.positions = append(points.positions, math3d.V3(float64(i%10)-5, float64(i/10)-5, 0))
	}
	call := DrawCall{Geometry: points, Material: cameraMaterial(cam), Color: ColorWhite}

	for b.Loop() {
		r.Clear(testBackground)
		r.Draw(call)
	}
}
