package viewer

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/molview/pkg/buffer"
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/picking"
	"github.com/taigrr/molview/pkg/render"
	"github.com/taigrr/molview/pkg/repr"
	"github.com/taigrr/molview/pkg/structure"
)

const canvas = 40

func newTestViewer(t *testing.T, floatReads bool, opts ...Option) *Viewer {
	t.Helper()
	fb := render.NewFramebuffer(canvas, canvas)
	r := render.NewRasterizer(fb, render.NewPickBuffer(canvas, canvas, floatReads))
	cam := render.NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 20))
	return New(r, cam, DefaultParams(), opts...)
}

// atomAt returns a structure holding one carbon and an impostor buffer
// for it.
func atomAt(t *testing.T, pos math3d.Vec3) (*structure.Structure, *buffer.Buffer) {
	t.Helper()
	s := structure.New("single")
	s.AddAtom(structure.Atom{Name: "CA", Element: "C", ResName: "GLY", ResNo: 1, Chain: "A", Position: pos})
	buf := buffer.NewPoints("atom", []math3d.Vec3{pos}, []float64{2}, nil, &picking.AtomPicker{Structure: s})
	return s, buf
}

// center is the canvas position of the middle pixel.
const center = canvas/2 + 0.5

func TestObjectIDsAreSequential(t *testing.T) {
	v := newTestViewer(t, true)
	a, b := cube("a", 1), cube("b", 1)
	v.Add(a)
	v.Add(b, translated(1, math3d.V3(5, 0, 0)), translated(2, math3d.V3(-5, 0, 0)))

	require.Equal(t, 3, v.ObjectCount())
	for i, o := range v.objects {
		assert.Equal(t, i+1, o.id)
	}
	assert.Nil(t, v.objects[0].inst)
	assert.Equal(t, 2, v.objects[2].inst.ID)
	assert.Equal(t, 3, v.Bounds().Len())
}

func TestSparseUniformUpdate(t *testing.T) {
	v := newTestViewer(t, true)
	buf := cube("sparse", 1)
	buf.Material = render.NewMaterial("sparse", render.UniformObjectID, render.UniformModelViewProjectionMatrix)
	v.Add(buf)

	names := v.updateObjectUniforms(v.objects[0])
	assert.ElementsMatch(t, []string{render.UniformObjectID, render.UniformModelViewProjectionMatrix}, names)
	assert.False(t, buf.Material.Declares(render.UniformModelViewMatrixInverse))
	_, ok := buf.Material.Value(render.UniformModelViewMatrixInverse)
	assert.False(t, ok)
}

func TestUniformsPushedByName(t *testing.T) {
	v := newTestViewer(t, true)
	buf := cube("c", 1)
	buf.Material = render.NewMaterial("c", render.UniformObjectID, render.UniformModelViewProjectionMatrix)
	v.Add(buf)

	v.Render()
	prog := buf.Material.Program()
	require.NotNil(t, prog)
	before := prog.Uploads()

	names := v.updateObjectUniforms(v.objects[0])
	assert.Equal(t, before+len(names), prog.Uploads())

	id, ok := prog.Float(render.UniformObjectID)
	require.True(t, ok)
	assert.InDelta(t, 1, id, 1e-9)
	mvp, ok := prog.Mat4(render.UniformModelViewProjectionMatrix)
	require.True(t, ok)
	assert.Equal(t, v.Camera().ViewProjectionMatrix(), mvp)
	assert.False(t, prog.Has(render.UniformModelViewMatrixInverse), "undeclared uniforms are never uploaded")
}

func TestUniformMatrices(t *testing.T) {
	v := newTestViewer(t, true)
	buf := cube("c", 1)
	buf.Matrix = math3d.ScaleUniform(2)
	inst := translated(4, math3d.V3(1, 2, 3))
	v.Add(buf, inst)
	v.Render()

	m := buf.Material
	world := inst.Matrix.Mul(buf.Matrix)
	mv := v.Camera().ViewMatrix().Mul(world)

	got, _ := m.Value(render.UniformModelViewMatrixInverse)
	assert.True(t, got.(math3d.Mat4).Mul(mv).ApproxEqual(math3d.Identity(), 1e-9))
	gotT, _ := m.Value(render.UniformModelViewMatrixInverseTranspose)
	assert.True(t, gotT.(math3d.Mat4).ApproxEqual(got.(math3d.Mat4).Transpose(), 1e-9))
	mvp, _ := m.Value(render.UniformModelViewProjectionMatrix)
	assert.True(t, mvp.(math3d.Mat4).ApproxEqual(v.Camera().ProjectionMatrix().Mul(mv), 1e-9))
	mvpInv, _ := m.Value(render.UniformModelViewProjectionMatrixInv)
	assert.True(t, mvpInv.(math3d.Mat4).Mul(mvp.(math3d.Mat4)).ApproxEqual(math3d.Identity(), 1e-6))
	h, _ := m.Value(render.UniformCanvasHeight)
	assert.Equal(t, float64(canvas), h)
}

func TestObjectIDEncoding(t *testing.T) {
	tests := []struct {
		name       string
		floatReads bool
		want       float64
	}{
		{"float reads", true, 2},
		{"8-bit reads", false, 2.0 / 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViewer(t, tt.floatReads)
			v.Add(cube("a", 1))
			v.Add(cube("b", 1))
			v.updateObjectUniforms(v.objects[1])
			got, ok := v.objects[1].buf.Material.Value(render.UniformObjectID)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestMaterialClipNearUniform(t *testing.T) {
	v := newTestViewer(t, true)
	buf := cube("c", 1)
	v.Add(buf)

	v.Render()
	_, ok := buf.Material.Value(render.UniformClipNear)
	assert.False(t, ok, "clipNear stays unset while the material clip is off")

	buf.Material.ClipNear = 50
	v.Render()
	got, ok := buf.Material.Value(render.UniformClipNear)
	require.True(t, ok)
	assert.InDelta(t, v.ClipState().CameraDistance, got, 1e-9)
}

func TestMaterialClipNearSwitchedOff(t *testing.T) {
	v := newTestViewer(t, true, WithBackground(render.ColorBlack))
	buf := cube("c", 1)
	v.Add(buf)
	fb := v.renderer.(*render.Rasterizer).Framebuffer()
	mid := canvas / 2

	v.Render()
	require.NotEqual(t, render.ColorBlack, fb.GetPixel(mid, mid), "cube covers the centre")

	buf.Material.ClipNear = 50
	v.Render()
	assert.Equal(t, render.ColorBlack, fb.GetPixel(mid, mid), "near half clipped away")

	buf.Material.ClipNear = 0
	v.Render()
	assert.NotEqual(t, render.ColorBlack, fb.GetPixel(mid, mid), "cube drawn again")
	got, ok := buf.Material.Program().Float(render.UniformClipNear)
	require.True(t, ok)
	assert.Zero(t, got)
}

func TestPick(t *testing.T) {
	for _, floatReads := range []bool{true, false} {
		v := newTestViewer(t, floatReads)
		v.Add(cube("behind", 1), translated(1, math3d.V3(0, 0, -8)))
		s, buf := atomAt(t, math3d.V3(0, 0, 0))
		v.Add(buf)
		v.Render()

		p := v.Pick(center, center)
		require.NotNil(t, p)
		assert.Equal(t, picking.KindAtom, p.Kind())
		assert.Same(t, s.Atoms[0], p.Atom())
		assert.Nil(t, p.Instance())
		assert.Equal(t, "atom: A:1:CA (single)", p.Describe())

		assert.Nil(t, v.Pick(0.5, 0.5), "background")
		assert.Nil(t, v.Pick(-3, center), "off canvas")
	}
}

func TestPickInstance(t *testing.T) {
	v := newTestViewer(t, true)
	s, buf := atomAt(t, math3d.V3(0, 0, 0))
	inst := translated(7, math3d.V3(0, 0, 0))
	v.Add(buf, inst)
	v.Render()

	p := v.Pick(center, center)
	require.NotNil(t, p)
	assert.Same(t, inst, p.Instance())
	assert.Same(t, s.Atoms[0], p.Atom())
}

func TestPickOnDemand(t *testing.T) {
	v := newTestViewer(t, true)
	params := v.Params()
	params.Picking = false
	require.NoError(t, v.SetParams(params))

	_, buf := atomAt(t, math3d.V3(0, 0, 0))
	v.Add(buf)
	v.Render()
	assert.NotNil(t, v.Pick(center, center))
}

func TestPickAfterRemove(t *testing.T) {
	v := newTestViewer(t, true)
	_, buf := atomAt(t, math3d.V3(0, 0, 0))
	v.Add(buf)
	v.Render()
	require.NotNil(t, v.Pick(center, center))

	v.Remove(buf)
	assert.Zero(t, v.ObjectCount())
	assert.True(t, v.Bounds().Box().IsEmpty())
	assert.Nil(t, v.Pick(center, center))
}

func TestPickUnmappedPrimitive(t *testing.T) {
	v := newTestViewer(t, true)
	_, buf := atomAt(t, math3d.V3(0, 0, 0))
	buf.PickIDs = []int{}
	v.Add(buf)
	v.Render()
	assert.Nil(t, v.Pick(center, center))
}

func TestComponents(t *testing.T) {
	v := newTestViewer(t, true)
	s, _ := atomAt(t, math3d.V3(0, 0, 0))
	r := repr.Spacefill(s, repr.DefaultParams())
	c := v.AddComponent("single", s, r)
	v.Render()

	p := v.Pick(center, center)
	require.NotNil(t, p)
	require.NotNil(t, p.Component())
	assert.Equal(t, "single", p.Component().Name())
	assert.Len(t, v.ComponentsByObject(s), 1)
	assert.Empty(t, v.ComponentsByObject("other"))
	assert.Empty(t, v.ComponentsByObject([]int{1}))

	second := v.AddComponent("again", s)
	list := v.ComponentsByObject(s)
	require.Len(t, list, 2)
	assert.Equal(t, "single", list[0].Name())

	before := v.Components()
	v.RemoveComponent(c)
	assert.Zero(t, v.ObjectCount())
	assert.Equal(t, []*Component{second}, v.Components())
	assert.Equal(t, []*Component{c, second}, before, "earlier snapshots are not modified")
}

func TestComponentMatrix(t *testing.T) {
	v := newTestViewer(t, true)
	s, _ := atomAt(t, math3d.V3(0, 0, 0))
	c := v.AddComponent("single", s, repr.Spacefill(s, repr.DefaultParams()))
	c.SetMatrix(math3d.Translate(math3d.V3(3, 0, 0)))
	v.UpdateBoundingBox()

	assert.InDelta(t, 3, v.Bounds().Box().Center().X, 1e-9)
}

// depthless hides the depth buffer of a rasterizer.
type depthless struct {
	*render.Rasterizer
}

func (d depthless) Capabilities() render.Capabilities {
	return render.Capabilities{}
}

func TestPickByteIDCeiling(t *testing.T) {
	var logs bytes.Buffer
	v := newTestViewer(t, false, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	for range maxByteObjectID {
		_, buf := atomAt(t, math3d.V3(6, 6, 0))
		v.Add(buf)
	}
	assert.NotContains(t, logs.String(), "object ids past 255")

	_, buf := atomAt(t, math3d.V3(0, 0, 0))
	v.Add(buf)
	assert.Contains(t, logs.String(), "object ids past 255")
	v.Render()

	assert.Nil(t, v.Pick(center, center), "id 256 must not resolve to object 255")
}

func TestDegradedRenderer(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	fb := render.NewFramebuffer(canvas, canvas)
	r := depthless{render.NewRasterizer(fb, nil)}

	v := New(r, render.NewCamera(), DefaultParams(), WithLogger(logger))
	assert.True(t, v.Degraded())
	assert.Contains(t, logs.String(), "only depth-buffered renderers are supported")

	v.Add(cube("c", 1))
	assert.NotPanics(t, v.Render)
	assert.Nil(t, v.Pick(center, center))
}

func TestClearAndDispose(t *testing.T) {
	v := newTestViewer(t, true)
	s, buf := atomAt(t, math3d.V3(0, 0, 0))
	v.AddComponent("single", s)
	v.Add(buf, translated(1, math3d.V3(1, 0, 0)), translated(2, math3d.V3(2, 0, 0)))

	v.Dispose()
	assert.Zero(t, v.ObjectCount())
	assert.Empty(t, v.Components())
	assert.True(t, v.Bounds().Box().IsEmpty())
	assert.False(t, buf.Visible)
	assert.Nil(t, buf.Picker)
}

func TestRenderSetsCameraAndFog(t *testing.T) {
	v := newTestViewer(t, true)
	v.Add(buffer.NewPoints("col", []math3d.Vec3{math3d.V3(0, 0, -30), math3d.V3(0, 0, 30)}, nil, nil, nil))
	v.Camera().SetPosition(math3d.V3(0, 0, 100))
	v.Render()

	clip := v.Clipping()
	assert.InDelta(t, 70, v.Camera().Near, 1e-9)
	assert.InDelta(t, 130, v.Camera().Far, 1e-9)
	assert.Equal(t, clip.Near, v.Camera().Near)
	assert.Equal(t, canvas, v.Camera().Width)
	assert.InDelta(t, 100, v.renderer.(*render.Rasterizer).Fog.Near, 1e-9)
}

func TestOrthographicClipping(t *testing.T) {
	v := newTestViewer(t, true)
	params := v.Params()
	params.Orthographic = true
	params.ClipDist = 0
	require.NoError(t, v.SetParams(params))
	v.Add(buffer.NewPoints("col", []math3d.Vec3{math3d.V3(0, 0, -30), math3d.V3(0, 0, 30)}, nil, nil, nil))
	v.Render()

	assert.True(t, v.Camera().Orthographic)
	assert.InDelta(t, -10, v.Camera().Near, 1e-9, "no near floor without clip distance")
}

func TestFrustumCulling(t *testing.T) {
	v := newTestViewer(t, true)
	front, behind := cube("front", 1), cube("behind", 1)
	v.Add(front)
	v.Add(behind, translated(1, math3d.V3(0, 0, 40)))
	v.Render()

	assert.Equal(t, 1, v.Culled())
	assert.NotNil(t, front.Material.Program())
	assert.Nil(t, behind.Material.Program(), "culled objects are never drawn")
}

func TestFrustumCullingPointSets(t *testing.T) {
	v := newTestViewer(t, true)
	// The box of the pair spans the view but neither sphere reaches it.
	apart := buffer.NewPoints("apart", []math3d.Vec3{math3d.V3(-40, 0, 0), math3d.V3(40, 0, 0)}, []float64{1, 1}, nil, nil)
	edge := buffer.NewPoints("edge", []math3d.Vec3{math3d.V3(-40, 0, 0), math3d.V3(8, 0, 0)}, []float64{1, 2}, nil, nil)
	v.Add(apart)
	v.Add(edge)
	v.Render()

	assert.Equal(t, 1, v.Culled())
	assert.Nil(t, apart.Material.Program())
	assert.NotNil(t, edge.Material.Program(), "a radius reaching into the view keeps the set")
}

func TestBoundingBoxOverlay(t *testing.T) {
	v := newTestViewer(t, true, WithBackground(render.ColorBlack))
	params := v.Params()
	params.ShowBoundingBox = true
	require.NoError(t, v.SetParams(params))
	buf := cube("c", 3)
	buf.Visible = false
	v.Add(buf)
	v.Render()

	fb := v.renderer.(*render.Rasterizer).Framebuffer()
	white := 0
	for _, px := range fb.Pixels {
		if px == boundsColor {
			white++
		}
	}
	assert.Positive(t, white)
}
