package structure

import (
	"math"
	"strings"

	"github.com/taigrr/molview/pkg/math3d"
)

// cellGrid buckets atoms into cubic cells so neighbour searches only visit
// the 27 surrounding cells.
type cellGrid struct {
	size  float64
	cells map[[3]int][]*Atom
}

func newCellGrid(atoms []*Atom, size float64) *cellGrid {
	g := &cellGrid{size: size, cells: make(map[[3]int][]*Atom)}
	for _, a := range atoms {
		k := g.key(a.Position)
		g.cells[k] = append(g.cells[k], a)
	}
	return g
}

func (g *cellGrid) key(p math3d.Vec3) [3]int {
	return [3]int{
		int(math.Floor(p.X / g.size)),
		int(math.Floor(p.Y / g.size)),
		int(math.Floor(p.Z / g.size)),
	}
}

// eachPair calls fn once for every unordered atom pair in neighbouring
// cells, lower index first.
func (g *cellGrid) eachPair(fn func(a, b *Atom)) {
	for k, list := range g.cells {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					other := g.cells[[3]int{k[0] + dx, k[1] + dy, k[2] + dz}]
					for _, a := range list {
						for _, b := range other {
							if a.Index < b.Index {
								fn(a, b)
							}
						}
					}
				}
			}
		}
	}
}

// AssignBonds replaces the bond list with bonds between every atom pair
// closer than the sum of their covalent radii plus tolerance. Hydrogens
// are never bonded to each other. Returns the number of bonds.
func (s *Structure) AssignBonds(tolerance float64) int {
	maxRadius := 0.0
	for _, a := range s.Atoms {
		maxRadius = math.Max(maxRadius, CovalentRadius(a.Element))
	}
	grid := newCellGrid(s.Atoms, 2*maxRadius+tolerance)

	s.Bonds = s.Bonds[:0]
	grid.eachPair(func(a, b *Atom) {
		if isHydrogen(a) && isHydrogen(b) {
			return
		}
		limit := CovalentRadius(a.Element) + CovalentRadius(b.Element) + tolerance
		d := a.Position.Distance(b.Position)
		if d > 0.4 && d <= limit {
			s.Bonds = append(s.Bonds, &Bond{Atom1: a, Atom2: b, Order: 1})
		}
	})
	sortBonds(s.Bonds)
	return len(s.Bonds)
}

// FindClashes records every pair of atoms more than three bonds apart
// whose van der Waals spheres overlap by more than overlap angstrom.
// Returns the number of clashes.
func (s *Structure) FindClashes(overlap float64) int {
	excluded := s.bondedWithin(3)
	maxRadius := 0.0
	for _, a := range s.Atoms {
		maxRadius = math.Max(maxRadius, VdwRadius(a.Element))
	}
	grid := newCellGrid(s.Atoms, 2*maxRadius)

	s.Clashes = s.Clashes[:0]
	var found [][2]*Atom
	grid.eachPair(func(a, b *Atom) {
		if _, ok := excluded[[2]int{a.Index, b.Index}]; ok {
			return
		}
		limit := VdwRadius(a.Element) + VdwRadius(b.Element) - overlap
		if a.Position.Distance(b.Position) < limit {
			found = append(found, [2]*Atom{a, b})
		}
	})
	sortPairs(found)
	for _, p := range found {
		s.AddClash(p[0], p[1])
	}
	return len(s.Clashes)
}

// FindContacts returns the polar (N or O) atom pairs more than three bonds
// apart and at most maxDist angstrom from each other, sorted by atom index.
// The structure's bond list is not modified.
func (s *Structure) FindContacts(maxDist float64) []*Bond {
	if maxDist <= 0 {
		return nil
	}
	excluded := s.bondedWithin(3)
	var polar []*Atom
	for _, a := range s.Atoms {
		if isPolar(a) {
			polar = append(polar, a)
		}
	}
	var found [][2]*Atom
	newCellGrid(polar, maxDist).eachPair(func(a, b *Atom) {
		if _, ok := excluded[[2]int{a.Index, b.Index}]; ok {
			return
		}
		if a.Position.Distance(b.Position) <= maxDist {
			found = append(found, [2]*Atom{a, b})
		}
	})
	sortPairs(found)
	contacts := make([]*Bond, len(found))
	for i, p := range found {
		contacts[i] = &Bond{Atom1: p[0], Atom2: p[1], Order: 1}
	}
	return contacts
}

// bondedWithin returns the set of index pairs (low, high) connected by a
// path of at most n bonds.
func (s *Structure) bondedWithin(n int) map[[2]int]struct{} {
	adj := make([][]int, len(s.Atoms))
	for _, b := range s.Bonds {
		i, j := b.Atom1.Index, b.Atom2.Index
		adj[i] = append(adj[i], j)
		adj[j] = append(adj[j], i)
	}
	out := make(map[[2]int]struct{})
	for start := range s.Atoms {
		depth := map[int]int{start: 0}
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if depth[cur] == n {
				continue
			}
			for _, next := range adj[cur] {
				if _, seen := depth[next]; seen {
					continue
				}
				depth[next] = depth[cur] + 1
				queue = append(queue, next)
				if start < next {
					out[[2]int{start, next}] = struct{}{}
				}
			}
		}
	}
	return out
}

func isHydrogen(a *Atom) bool {
	switch a.Element {
	case "H", "h", "D", "d":
		return true
	}
	return false
}

func isPolar(a *Atom) bool {
	switch strings.ToUpper(a.Element) {
	case "N", "O":
		return true
	}
	return false
}
