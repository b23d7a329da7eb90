package viewer

import (
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/render"
)

// uniformSet records which uniforms were written during one update so that
// only those are pushed to a compiled program.
type uniformSet struct {
	m     *render.Material
	names []string
}

func (u *uniformSet) set(name string, value any) {
	if u.m.Set(name, value) {
		u.names = append(u.names, name)
	}
}

// flush pushes the recorded values to the program. Before the first draw
// there is no program and Compile picks the values up from the material.
func (u *uniformSet) flush() {
	p := u.m.Program()
	if p == nil {
		return
	}
	for _, name := range u.names {
		v, _ := u.m.Value(name)
		p.SetValue(name, v)
	}
}

// updateObjectUniforms writes the per-object uniforms of o before it is
// drawn. Only declared uniforms are computed and written; the names
// written are returned.
func (v *Viewer) updateObjectUniforms(o *object) []string {
	m := o.buf.Material
	u := uniformSet{m: m}

	if m.Declares(render.UniformObjectID) {
		u.set(render.UniformObjectID, render.EncodeObjectID(o.id, v.caps.FloatReadPixels))
	}

	hasMVInv := m.Declares(render.UniformModelViewMatrixInverse)
	hasMVInvT := m.Declares(render.UniformModelViewMatrixInverseTranspose)
	hasMVP := m.Declares(render.UniformModelViewProjectionMatrix)
	hasMVPInv := m.Declares(render.UniformModelViewProjectionMatrixInv)
	if hasMVInv || hasMVInvT || hasMVP || hasMVPInv {
		mv := v.camera.ViewMatrix().Mul(o.worldMatrix())
		var mvInv math3d.Mat4
		if hasMVInv || hasMVInvT {
			mvInv = mv.Inverse()
		}
		if hasMVInv {
			u.set(render.UniformModelViewMatrixInverse, mvInv)
		}
		if hasMVInvT {
			u.set(render.UniformModelViewMatrixInverseTranspose, mvInv.Transpose())
		}
		if hasMVP || hasMVPInv {
			mvp := v.camera.ProjectionMatrix().Mul(mv)
			if hasMVP {
				u.set(render.UniformModelViewProjectionMatrix, mvp)
			}
			if hasMVPInv {
				u.set(render.UniformModelViewProjectionMatrixInv, mvp.Inverse())
			}
		}
	}

	v.materialUniforms(&u)
	u.flush()
	return u.names
}

// materialUniforms writes the frame-wide uniforms: material clipping, the
// inverse projection and the canvas height.
func (v *Viewer) materialUniforms(u *uniformSet) {
	m := u.m
	if m.Declares(render.UniformClipNear) {
		if m.ClipNear > 0 {
			u.set(render.UniformClipNear, v.clip.MaterialClipNear(m.ClipNear))
		} else if _, ok := m.Value(render.UniformClipNear); ok {
			// A clip switched off is pushed as 0 so the program drops it.
			u.set(render.UniformClipNear, 0.0)
		}
	}
	if m.Declares(render.UniformClipRadius) {
		u.set(render.UniformClipRadius, m.ClipRadius)
	}
	if m.Declares(render.UniformClipCenter) {
		u.set(render.UniformClipCenter, v.camera.ViewMatrix().MulVec3(m.ClipCenter))
	}
	if m.Declares(render.UniformProjectionMatrixInverse) {
		u.set(render.UniformProjectionMatrixInverse, v.camera.ProjectionMatrix().Inverse())
	}
	if m.Declares(render.UniformCanvasHeight) {
		u.set(render.UniformCanvasHeight, float64(v.renderer.Height()))
	}
}
