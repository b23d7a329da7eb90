// Package viewer keeps the scene of a molecular viewer: the drawable
// buffers and their placements, the world bounds, the clip planes derived
// from them and the per-object uniforms written before every draw. It
// resolves pick-buffer reads into picking proxies.
package viewer

import (
	"image/color"
	"log/slog"
	"math"
	"slices"

	"github.com/taigrr/molview/pkg/buffer"
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/picking"
	"github.com/taigrr/molview/pkg/render"
	"github.com/taigrr/molview/pkg/repr"
)

// Renderer is the drawing backend. *render.Rasterizer implements it.
type Renderer interface {
	Capabilities() render.Capabilities
	Width() int
	Height() int
	Clear(bg render.Color)
	ClearPick()
	Draw(call render.DrawCall) bool
	DrawPick(call render.DrawCall) bool
	ReadPixel(x, y int) (render.PickSample, bool)
	SetFog(f render.Fog)
	DrawLine3D(mvp math3d.Mat4, p1, p2 math3d.Vec3, c render.Color)
}

// object is one drawn placement of a buffer. Object ids start at 1 so
// that 0 never names an object.
type object struct {
	id   int
	buf  *buffer.Buffer
	inst *picking.Instance
}

func (o *object) instanceID() int {
	if o.inst == nil {
		return -1
	}
	return o.inst.ID
}

// worldMatrix places the buffer geometry: model matrix first, then the
// instance matrix.
func (o *object) worldMatrix() math3d.Mat4 {
	if o.inst == nil {
		return o.buf.Matrix
	}
	return o.inst.Matrix.Mul(o.buf.Matrix)
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithMouse sets the pointer state handed to pick proxies.
func WithMouse(m picking.Mouse) Option {
	return func(v *Viewer) { v.mouse = m }
}

// WithBackground sets the clear colour.
func WithBackground(c color.RGBA) Option {
	return func(v *Viewer) { v.background = c }
}

// Viewer owns the scene. It is not safe for concurrent use.
type Viewer struct {
	renderer   Renderer
	camera     *render.Camera
	params     Params
	logger     *slog.Logger
	mouse      picking.Mouse
	background color.RGBA

	caps     render.Capabilities
	degraded bool

	objects   []*object
	nextID    int
	bounds    *SceneBounds
	clip      Clipping
	stage     Stage
	pickValid bool
	culled    int
}

// New creates a viewer drawing with r through cam. A renderer without a
// depth buffer is reported once and used anyway.
func New(r Renderer, cam *render.Camera, p Params, opts ...Option) *Viewer {
	v := &Viewer{
		renderer:   r,
		camera:     cam,
		params:     p,
		logger:     slog.Default(),
		background: render.ColorBlack,
		bounds:     NewSceneBounds(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.caps = r.Capabilities()
	if !v.caps.DepthBuffer {
		v.degraded = true
		v.logger.Error("only depth-buffered renderers are supported",
			"float_read_pixels", v.caps.FloatReadPixels)
	}
	v.logger.Debug("viewer created",
		"width", r.Width(), "height", r.Height(),
		"float_read_pixels", v.caps.FloatReadPixels)
	return v
}

// Degraded reports whether the renderer lacks a required capability.
func (v *Viewer) Degraded() bool {
	return v.degraded
}

// Camera returns the viewer camera.
func (v *Viewer) Camera() *render.Camera {
	return v.camera
}

// Params returns the current parameters.
func (v *Viewer) Params() Params {
	return v.params
}

// SetParams replaces the parameters. They take effect on the next Render.
func (v *Viewer) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	v.params = p
	return nil
}

// SetMouse sets the pointer state handed to pick proxies.
func (v *Viewer) SetMouse(m picking.Mouse) {
	v.mouse = m
}

// SetBackground sets the clear colour.
func (v *Viewer) SetBackground(c color.RGBA) {
	v.background = c
}

// Add attaches buf once per instance, or once without an instance when
// none are given.
func (v *Viewer) Add(buf *buffer.Buffer, instances ...*picking.Instance) {
	if len(instances) == 0 {
		v.AddBuffer(buf, nil)
		return
	}
	for _, inst := range instances {
		v.AddBuffer(buf, inst)
	}
}

// AddBuffer attaches one placement of buf, assigns it the next object id
// and grows the scene bounds.
func (v *Viewer) AddBuffer(buf *buffer.Buffer, inst *picking.Instance) {
	v.nextID++
	if !v.caps.FloatReadPixels && v.nextID == maxByteObjectID+1 {
		v.logger.Warn("object ids past 255 cannot be picked with 8-bit pick reads",
			"name", buf.Name)
	}
	v.objects = append(v.objects, &object{id: v.nextID, buf: buf, inst: inst})
	v.bounds.AddBuffer(buf, inst)
	v.pickValid = false
	v.logger.Debug("buffer added", "name", buf.Name, "object_id", v.nextID)
}

// Remove detaches every placement of buf and recomputes the bounds.
func (v *Viewer) Remove(buf *buffer.Buffer) {
	v.objects = slices.DeleteFunc(v.objects, func(o *object) bool {
		return o.buf == buf
	})
	v.bounds.RemoveBuffer(buf)
	v.pickValid = false
	v.logger.Debug("buffer removed", "name", buf.Name)
}

// UpdateBoundingBox recomputes the scene bounds from every attached
// placement, after geometry or matrices changed.
func (v *Viewer) UpdateBoundingBox() {
	v.bounds.RecomputeAll()
}

// Bounds returns the scene bounds tracker.
func (v *Viewer) Bounds() *SceneBounds {
	return v.bounds
}

// ClipState returns the clip state of the last Render.
func (v *Viewer) ClipState() ClipState {
	return v.clip.ClipState
}

// Clipping returns the clip planes of the last Render.
func (v *Viewer) Clipping() Clipping {
	return v.clip
}

// AbsoluteToRelative converts an absolute distance to the relative clip
// scale using the last bounding radius.
func (v *Viewer) AbsoluteToRelative(d float64) float64 {
	return v.clip.AbsoluteToRelative(d)
}

// RelativeToAbsolute converts a relative clip value to a distance.
func (v *Viewer) RelativeToAbsolute(d float64) float64 {
	return v.clip.RelativeToAbsolute(d)
}

// updateClipping derives the clip state and planes from bounds and camera.
func (v *Viewer) updateClipping() {
	if v.camera.Orthographic != v.params.Orthographic {
		v.camera.SetOrthographic(v.params.Orthographic)
	}
	v.clip.Update(v.bounds, v.camera, v.params)
}

// updateCamera applies the clip planes, viewport and fog.
func (v *Viewer) updateCamera() {
	v.camera.SetViewport(v.renderer.Width(), v.renderer.Height())
	v.camera.SetClipPlanes(v.clip.Near, v.clip.Far)
	v.renderer.SetFog(render.Fog{Near: v.clip.FogNear, Far: v.clip.FogFar, Color: v.background})
}

// Render draws one frame: clipping and camera are updated, then every
// visible placement gets its uniforms and is drawn. With picking enabled
// the pick pass follows the colour pass.
func (v *Viewer) Render() {
	v.updateClipping()
	v.updateCamera()

	v.renderer.Clear(v.background)
	frustum := v.camera.Frustum()
	v.culled = 0
	for _, o := range v.objects {
		if !o.buf.Visible {
			continue
		}
		if !inView(frustum, o) {
			v.culled++
			continue
		}
		v.updateObjectUniforms(o)
		v.renderer.Draw(o.buf.DrawCall(o.instanceID()))
	}
	if v.params.ShowBoundingBox {
		v.drawBoundingBox()
	}

	v.pickValid = false
	if v.params.Picking {
		v.renderPick()
	}
}

// renderPick runs the pick pass with the camera state of the last Render.
func (v *Viewer) renderPick() {
	v.renderer.ClearPick()
	frustum := v.camera.Frustum()
	for _, o := range v.objects {
		if !o.buf.Visible || o.buf.Picker == nil || !inView(frustum, o) {
			continue
		}
		v.updateObjectUniforms(o)
		v.renderer.DrawPick(o.buf.DrawCall(o.instanceID()))
	}
	v.pickValid = true
}

// inView reports whether any part of the placement can be on screen.
// Point sets pass when at least one impostor sphere reaches into the
// frustum.
func inView(f render.Frustum, o *object) bool {
	box := o.buf.BoundingBox()
	if box.IsEmpty() {
		return false
	}
	world := o.worldMatrix()
	if !o.buf.IsPointSet() {
		return f.IntersectsBox(box.ApplyMatrix4(world))
	}

	radii := o.buf.Radii
	pad := 1.0
	if len(radii) > 0 {
		pad = slices.Max(radii)
	}
	if !f.IntersectsBox(box.ExpandByScalar(pad).ApplyMatrix4(world)) {
		return false
	}
	scale := maxAxisScale(world)
	for i, v := range o.buf.Mesh.Vertices {
		r := 1.0
		if i < len(radii) {
			r = radii[i]
		}
		if f.IntersectsSphere(world.MulVec3(v.Position), r*scale) {
			return true
		}
	}
	return false
}

// maxAxisScale is the largest scale m applies along a basis axis.
func maxAxisScale(m math3d.Mat4) float64 {
	return max(
		m.MulVec3Dir(math3d.V3(1, 0, 0)).Len(),
		m.MulVec3Dir(math3d.V3(0, 1, 0)).Len(),
		m.MulVec3Dir(math3d.V3(0, 0, 1)).Len(),
	)
}

// Culled returns how many visible placements the last Render skipped as
// off screen.
func (v *Viewer) Culled() int {
	return v.culled
}

// maxByteObjectID is the largest object id an 8-bit pick read tells apart.
const maxByteObjectID = 255

var boundsColor = color.RGBA{255, 255, 255, 255}

func (v *Viewer) drawBoundingBox() {
	box := v.bounds.Box()
	if box.IsEmpty() {
		return
	}
	c := [8]math3d.Vec3{}
	for i := range c {
		c[i] = box.Min
		if i&1 != 0 {
			c[i].X = box.Max.X
		}
		if i&2 != 0 {
			c[i].Y = box.Max.Y
		}
		if i&4 != 0 {
			c[i].Z = box.Max.Z
		}
	}
	vp := v.camera.ViewProjectionMatrix()
	for i := range c {
		for _, bit := range []int{1, 2, 4} {
			if j := i | bit; j != i {
				v.renderer.DrawLine3D(vp, c[i], c[j], boundsColor)
			}
		}
	}
}

// Pick resolves the object under canvas position (x, y), origin at the
// bottom-left. It returns nil over empty space, for objects without a
// picker and for primitives the picker cannot map.
func (v *Viewer) Pick(x, y float64) *picking.Proxy {
	if !v.pickValid {
		v.renderPick()
	}
	col := int(math.Floor(x))
	row := int(math.Floor(float64(v.renderer.Height()) - y))
	sample, ok := v.renderer.ReadPixel(col, row)
	if !ok {
		return nil
	}
	r, ok := v.resolve(sample)
	if !ok {
		return nil
	}
	return picking.NewProxy(r, picking.Context{
		Mouse:      v.mouse,
		Projector:  v.camera,
		Components: &v.stage,
	})
}

// resolve maps a pick sample to a pick result.
func (v *Viewer) resolve(s render.PickSample) (picking.PickResult, bool) {
	id := render.DecodeObjectID(s.ObjectID, v.caps.FloatReadPixels)
	if !v.caps.FloatReadPixels && id == maxByteObjectID && v.nextID > maxByteObjectID {
		// Every id from 255 up reads back as 255.
		return picking.PickResult{}, false
	}
	i := slices.IndexFunc(v.objects, func(o *object) bool { return o.id == id })
	if i < 0 {
		return picking.PickResult{}, false
	}
	o := v.objects[i]
	if o.buf.Picker == nil {
		return picking.PickResult{}, false
	}
	pid := o.buf.PickID(int(s.Primitive))
	if pid < 0 {
		return picking.PickResult{}, false
	}
	return picking.PickResult{ID: pid, Picker: o.buf.Picker, Instance: o.inst}, true
}

// AddComponent registers a component for data and attaches every buffer
// of its representations.
func (v *Viewer) AddComponent(name string, data any, reprs ...*repr.Representation) *Component {
	c := &Component{name: name, object: data, matrix: math3d.Identity(), Representations: reprs}
	v.stage.add(c)
	for _, r := range reprs {
		for _, b := range r.Buffers {
			v.Add(b)
		}
	}
	return c
}

// RemoveComponent detaches the component and its buffers.
func (v *Viewer) RemoveComponent(c *Component) {
	if !v.stage.remove(c) {
		return
	}
	for _, r := range c.Representations {
		for _, b := range r.Buffers {
			v.Remove(b)
		}
	}
}

// ComponentsByObject returns the components showing data.
func (v *Viewer) ComponentsByObject(data any) []picking.Component {
	return v.stage.ComponentsByObject(data)
}

// Components returns every registered component.
func (v *Viewer) Components() []*Component {
	return v.stage.Components()
}

// Clear detaches every buffer and component. Buffers are not disposed.
func (v *Viewer) Clear() {
	v.objects = nil
	v.stage = Stage{}
	v.bounds = NewSceneBounds()
	v.pickValid = false
}

// Dispose clears the scene and disposes every buffer it held.
func (v *Viewer) Dispose() {
	seen := make(map[*buffer.Buffer]bool)
	for _, o := range v.objects {
		if !seen[o.buf] {
			seen[o.buf] = true
			o.buf.Dispose()
		}
	}
	v.Clear()
}

// ObjectCount returns the number of attached placements.
func (v *Viewer) ObjectCount() int {
	return len(v.objects)
}
