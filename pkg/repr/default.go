package repr

import (
	"fmt"

	"github.com/taigrr/molview/pkg/shape"
	"github.com/taigrr/molview/pkg/structure"
	"github.com/taigrr/molview/pkg/volume"
)

// defaultVolumeSigma is the level volumes are first shown at.
const defaultVolumeSigma = 2.0

// Default builds the representation a freshly loaded object is shown
// with. Structures are judged by size: instances is the number of
// placements the structure will be drawn with (at least 1).
func Default(data any, instances int, p Params) (*Representation, error) {
	switch d := data.(type) {
	case *structure.Structure:
		return defaultStructure(d, max(instances, 1), p), nil
	case *shape.Shape:
		return Shape(d), nil
	case *volume.Surface:
		return Surface(d), nil
	case *volume.Volume:
		return VolumeDots(d, defaultVolumeSigma, p)
	}
	return nil, fmt.Errorf("repr: no default representation for %T", data)
}

// SizeScore rates how heavy a structure is to draw. Structures with fewer
// than two atoms per residue are backbone-only and count ten times.
func SizeScore(s *structure.Structure, instances int) int {
	score := s.AtomCount() * instances
	if res := s.ResidueCount(); res > 0 && float64(s.AtomCount())/float64(res) < 2 {
		score *= 10
	}
	return score
}

func defaultStructure(s *structure.Structure, instances int, p Params) *Representation {
	residues := s.ResidueCount()
	score := SizeScore(s, instances)

	p.ColorScheme, p.ColorScale, p.ColorReverse = SchemeChainName, "RdYlBu", false
	if s.ChainCount() == 1 {
		p.ColorScheme, p.ColorScale, p.ColorReverse = SchemeResidueIndex, "spectral", true
	}

	switch {
	case residues < 4:
		p.ColorScheme = SchemeElement
		p.AspectRatio = 1.5
		return BallAndStick(s, p)
	case (instances > 5 && score > 15000) || score > 700000:
		// Large assemblies get a space-filling envelope.
		return Spacefill(s, p)
	case score > 100000:
		p.DisableImpostor = true
		p.SphereDetail = 0
		return Backbone(s, p)
	default:
		return Backbone(s, p)
	}
}
