package viewer

import (
	"math"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/render"
)

const (
	// minBoundingRadius is the smallest radius clipping works with.
	minBoundingRadius = 10
	// fallbackBoundingRadius replaces a radius that is not finite, as for
	// an empty scene.
	fallbackBoundingRadius = 50
)

// ClipState is derived once per frame from the scene bounds and the
// camera.
type ClipState struct {
	BoundingRadius float64
	CameraDistance float64
}

// Clipping turns the scene extent into camera clip planes, fog distances
// and material clip uniforms.
type Clipping struct {
	ClipState

	Near    float64
	Far     float64
	FogNear float64
	FogFar  float64
}

// BoundingRadius returns half the diagonal of bounds, at least 10 and 50
// when the diagonal is not finite.
func BoundingRadius(bounds *SceneBounds) float64 {
	r := math.Max(minBoundingRadius, 0.5*bounds.Length())
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return fallbackBoundingRadius
	}
	return r
}

// Update recomputes the clip state and planes. A camera sitting on the
// origin, or at a position that is not finite, is moved back to
// (0, 0, CameraZ). Distance is measured from the world origin, not the
// scene centre.
func (c *Clipping) Update(bounds *SceneBounds, cam *render.Camera, p Params) {
	c.BoundingRadius = BoundingRadius(bounds)
	c.CameraDistance = cam.Position.Len()
	if c.CameraDistance == 0 || math.IsNaN(c.CameraDistance) || math.IsInf(c.CameraDistance, 0) {
		cam.SetPosition(math3d.V3(0, 0, p.CameraZ))
		c.CameraDistance = math.Abs(p.CameraZ)
	}
	c.planes(p, cam.Orthographic)
}

// planes sets near, far and fog from the parameters. Relative values are
// percentages of the bounding radius with 50 at the scene centre.
func (c *Clipping) planes(p Params, ortho bool) {
	r, d := c.BoundingRadius, c.CameraDistance
	switch {
	case p.ClipMode == ClipModeCamera:
		// Validate rejects camera mode with relative scale.
		c.Near, c.Far = p.ClipNear, p.ClipFar
		c.FogNear, c.FogFar = p.FogNear, p.FogFar
		return
	case p.ClipScale == ClipScaleAbsolute:
		c.Near, c.Far = d-p.ClipNear, d+p.ClipFar
		c.FogNear, c.FogFar = d-p.FogNear, d+p.FogFar
	default:
		c.Near = d - r*(50-p.ClipNear)/50
		c.Far = d + r*-(50-p.ClipFar)/50
		c.FogNear = d - r*(50-p.FogNear)/50
		c.FogFar = d + r*-(50-p.FogFar)/50
	}

	if ortho {
		if p.ClipDist > 0 {
			c.Near = math.Max(p.ClipDist, c.Near)
		}
	} else {
		c.Near = math.Max(0.1, math.Max(p.ClipDist, c.Near))
		c.Far = math.Max(1, c.Far)
	}
	c.FogNear = math.Max(0.1, c.FogNear)
	c.FogFar = math.Max(1, c.FogFar)
}

// AbsoluteToRelative converts an absolute distance into the relative clip
// scale. A distance of 0 maps to 50 and one bounding radius to 0.
func (c *ClipState) AbsoluteToRelative(d float64) float64 {
	return 50 * (1 - d/c.BoundingRadius)
}

// RelativeToAbsolute inverts AbsoluteToRelative.
func (c *ClipState) RelativeToAbsolute(d float64) float64 {
	return c.BoundingRadius * (1 - d/50)
}

// MaterialClipNear returns the clipNear uniform for a material clip
// setting in the relative scale. It is meaningful only for rel > 0.
func (c *ClipState) MaterialClipNear(rel float64) float64 {
	return c.CameraDistance - c.BoundingRadius*(50-rel)/50
}
