package render

import (
	"fmt"
	"math"
	"slices"
)

// FilterMode determines how a colour scale is sampled between stops.
type FilterMode int

const (
	FilterLinear  FilterMode = iota // Interpolate between neighbouring stops
	FilterNearest                   // Snap to the closest stop
)

// ColorScale maps scalar values in Domain onto a sequence of colour stops,
// like a one-row gradient texture. Values outside the domain clamp.
type ColorScale struct {
	Stops   []Color
	Domain  [2]float64
	Reverse bool
	Filter  FilterMode
}

// Named colour scales.
var colorScales = map[string][]Color{
	"spectral": {
		RGB(158, 1, 66), RGB(213, 62, 79), RGB(244, 109, 67), RGB(253, 174, 97),
		RGB(254, 224, 139), RGB(230, 245, 152), RGB(171, 221, 164),
		RGB(102, 194, 165), RGB(50, 136, 189), RGB(94, 79, 162),
	},
	"RdYlBu": {
		RGB(165, 0, 38), RGB(215, 48, 39), RGB(244, 109, 67), RGB(253, 174, 97),
		RGB(254, 224, 144), RGB(224, 243, 248), RGB(171, 217, 233),
		RGB(116, 173, 209), RGB(69, 117, 180), RGB(49, 54, 149),
	},
	"rwb":       {RGB(255, 0, 0), RGB(255, 255, 255), RGB(0, 0, 255)},
	"grayscale": {RGB(0, 0, 0), RGB(255, 255, 255)},
}

// ColorScaleNames returns the names accepted by NewColorScale.
func ColorScaleNames() []string {
	names := make([]string, 0, len(colorScales))
	for n := range colorScales {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// NewColorScale returns the named scale over [lo, hi].
func NewColorScale(name string, lo, hi float64) (*ColorScale, error) {
	stops, ok := colorScales[name]
	if !ok {
		return nil, fmt.Errorf("unknown color scale %q", name)
	}
	return &ColorScale{Stops: stops, Domain: [2]float64{lo, hi}}, nil
}

// Color returns the colour for v.
func (s *ColorScale) Color(v float64) Color {
	n := len(s.Stops)
	if n == 0 {
		return ColorWhite
	}
	t := 0.0
	if span := s.Domain[1] - s.Domain[0]; span != 0 && !math.IsNaN(v) {
		t = math.Max(0, math.Min(1, (v-s.Domain[0])/span))
	}
	if s.Reverse {
		t = 1 - t
	}
	if n == 1 {
		return s.Stops[0]
	}
	f := t * float64(n-1)
	if s.Filter == FilterNearest {
		return s.Stops[int(math.Round(f))]
	}
	i := min(int(math.Floor(f)), n-2)
	return lerpColor(s.Stops[i], s.Stops[i+1], f-float64(i))
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: clamp8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: clamp8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: clamp8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: clamp8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// MultiplyColor multiplies a color by a scalar (for lighting).
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: clamp8(float64(c.R) * intensity),
		G: clamp8(float64(c.G) * intensity),
		B: clamp8(float64(c.B) * intensity),
		A: c.A,
	}
}

func clamp8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
