package render

import "math"

// Capabilities describes what a renderer supports.
type Capabilities struct {
	// DepthBuffer is required: without it draw order decides visibility.
	DepthBuffer bool
	// FloatReadPixels means pick samples keep full float precision. Without
	// it object ids pass through an 8-bit channel.
	FloatReadPixels bool
}

// PickSample is what one pick-buffer pixel stores.
type PickSample struct {
	ObjectID  float32 // the objectId uniform as stored
	Primitive int32
	Instance  int32
}

// PickBuffer is the auxiliary render target of the pick pass.
type PickBuffer struct {
	Width  int
	Height int
	// Float selects float storage for object ids; otherwise ids are
	// quantised to 8 bits like an RGBA8 colour channel.
	Float bool

	samples []PickSample
	written []bool
}

// NewPickBuffer creates an empty pick buffer.
func NewPickBuffer(width, height int, float bool) *PickBuffer {
	pb := &PickBuffer{Float: float}
	pb.Resize(width, height)
	return pb
}

// Resize reallocates storage and clears it.
func (pb *PickBuffer) Resize(width, height int) {
	pb.Width, pb.Height = width, height
	pb.samples = make([]PickSample, width*height)
	pb.written = make([]bool, width*height)
}

// Clear forgets every sample.
func (pb *PickBuffer) Clear() {
	clear(pb.written)
}

// Write stores a sample at (x, y). objectID is the value of the objectId
// uniform.
func (pb *PickBuffer) Write(x, y int, objectID float64, primitive, instance int) {
	if x < 0 || x >= pb.Width || y < 0 || y >= pb.Height {
		return
	}
	v := float32(objectID)
	if !pb.Float {
		q := math.Round(math.Max(0, math.Min(1, objectID)) * 255)
		v = float32(q / 255)
	}
	i := y*pb.Width + x
	pb.samples[i] = PickSample{ObjectID: v, Primitive: int32(primitive), Instance: int32(instance)}
	pb.written[i] = true
}

// ReadPixel returns the sample at (x, y) in framebuffer coordinates. The
// second result is false where nothing was drawn.
func (pb *PickBuffer) ReadPixel(x, y int) (PickSample, bool) {
	if x < 0 || x >= pb.Width || y < 0 || y >= pb.Height {
		return PickSample{}, false
	}
	i := y*pb.Width + x
	if !pb.written[i] {
		return PickSample{}, false
	}
	return pb.samples[i], true
}

// EncodeObjectID returns the objectId uniform value for id.
func EncodeObjectID(id int, floatReads bool) float64 {
	if floatReads {
		return float64(id)
	}
	return float64(id) / 255
}

// DecodeObjectID inverts EncodeObjectID for a stored sample.
func DecodeObjectID(v float32, floatReads bool) int {
	if floatReads {
		return int(math.Round(float64(v)))
	}
	return int(math.Round(float64(v) * 255))
}
