package render

import (
	"math"

	"github.com/taigrr/molview/pkg/math3d"
)

// Camera is an orbit camera looking at Target. Canvas coordinates used by
// PositionOnCanvas have their origin at the bottom-left corner of the
// viewport.
type Camera struct {
	// Position in world space
	Position math3d.Vec3
	Target   math3d.Vec3
	UpVector math3d.Vec3

	// Projection parameters
	FOV          float64 // Vertical field of view in radians
	AspectRatio  float64 // Width / Height
	Near         float64 // Near clipping plane
	Far          float64 // Far clipping plane
	Orthographic bool

	// Viewport size in framebuffer pixels
	Width  int
	Height int

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera creates a perspective camera on the +Z axis looking at the
// origin.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 10),
		UpVector:    math3d.Up(),
		FOV:         40 * math.Pi / 180,
		AspectRatio: 1,
		Near:        0.1,
		Far:         10000,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetViewport sets the canvas size and derives the aspect ratio from it.
func (c *Camera) SetViewport(width, height int) {
	c.Width, c.Height = width, height
	if width > 0 && height > 0 {
		c.AspectRatio = float64(width) / float64(height)
	}
	c.projDirty = true
}

// SetOrthographic switches between orthographic and perspective
// projection.
func (c *Camera) SetOrthographic(ortho bool) {
	c.Orthographic = ortho
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Right returns the unit right direction.
func (c *Camera) Right() math3d.Vec3 {
	return c.Forward().Cross(c.UpVector).Normalize()
}

// Up returns the unit up direction orthogonal to the view direction.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float64 {
	return c.Position.Distance(c.Target)
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Target, c.UpVector)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix. The orthographic frustum
// matches the perspective one at the target distance.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		if c.Orthographic {
			h := c.Distance() * math.Tan(c.FOV/2)
			w := h * c.AspectRatio
			c.projMatrix = math3d.Orthographic(-w, w, -h, h, c.Near, c.Far)
		} else {
			c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		}
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
	if c.Orthographic {
		c.projDirty = true
	}
}

// Orbit places the camera on a sphere of the given radius around the
// target. Yaw turns around the world Y axis, pitch is clamped short of the
// poles.
func (c *Camera) Orbit(yaw, pitch, distance float64) {
	const maxPitch = math.Pi/2 - 0.01
	pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))
	offset := math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		math.Cos(yaw)*math.Cos(pitch),
	).Scale(distance)
	c.Position = c.Target.Add(offset)
	c.viewDirty = true
	if c.Orthographic {
		c.projDirty = true
	}
}

// WorldToScreen transforms a world point to framebuffer coordinates with
// the origin at the top-left. Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.Point(worldPos))
	if !clipPos.InClipVolume() {
		return 0, 0, 0, false
	}
	ndc := clipPos.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	return x, y, ndc.Z, true
}

// PositionOnCanvas projects a world point to canvas coordinates with the
// origin at the bottom-left. Points off screen or behind the camera are
// still projected.
func (c *Camera) PositionOnCanvas(p math3d.Vec3) math3d.Vec2 {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.Point(p))
	ndc := clipPos.PerspectiveDivide()
	return math3d.V2(
		(ndc.X+1)*0.5*float64(c.Width),
		(ndc.Y+1)*0.5*float64(c.Height),
	)
}
