// Package structure is the in-memory molecular model consumed by the viewer:
// atoms, bonds, unit cells and clashes.
package structure

import (
	"fmt"

	"github.com/taigrr/molview/pkg/math3d"
)

// Structure is a named set of atoms and the bonds between them.
type Structure struct {
	Name     string
	Atoms    []*Atom
	Bonds    []*Bond
	Unitcell *Unitcell
	Clashes  []Clash
}

// New creates an empty structure.
func New(name string) *Structure {
	return &Structure{Name: name}
}

// Atom is a single atom. Index is its position in the owning structure's
// atom list.
type Atom struct {
	Index    int
	Name     string
	Element  string
	ResName  string
	ResNo    int
	Chain    string
	Position math3d.Vec3

	Structure *Structure
}

// QualifiedName returns "<chain>:<resno>:<name>", e.g. "A:1:CA".
func (a *Atom) QualifiedName() string {
	return fmt.Sprintf("%s:%d:%s", a.Chain, a.ResNo, a.Name)
}

// Bond connects two atoms of the same structure.
type Bond struct {
	Atom1 *Atom
	Atom2 *Atom
	Order int
}

// Length returns the distance between the bonded atoms.
func (b *Bond) Length() float64 {
	return b.Atom1.Position.Distance(b.Atom2.Position)
}

// Clash records two selections whose atoms overlap.
type Clash struct {
	Sele1 string
	Sele2 string
	Atom1 *Atom
	Atom2 *Atom
}

// AddAtom appends an atom, assigning its index and back reference.
func (s *Structure) AddAtom(a Atom) *Atom {
	atom := &a
	atom.Index = len(s.Atoms)
	atom.Structure = s
	s.Atoms = append(s.Atoms, atom)
	return atom
}

// AddBond bonds atoms i and j. Out-of-range indices are an error.
func (s *Structure) AddBond(i, j, order int) (*Bond, error) {
	if i < 0 || i >= len(s.Atoms) || j < 0 || j >= len(s.Atoms) {
		return nil, fmt.Errorf("bond %d-%d: atom index out of range [0,%d)", i, j, len(s.Atoms))
	}
	b := &Bond{Atom1: s.Atoms[i], Atom2: s.Atoms[j], Order: max(order, 1)}
	s.Bonds = append(s.Bonds, b)
	return b, nil
}

// AddClash records a clash between two atoms. The selection strings use
// the atoms' qualified names.
func (s *Structure) AddClash(a1, a2 *Atom) {
	s.Clashes = append(s.Clashes, Clash{
		Sele1: a1.QualifiedName(),
		Sele2: a2.QualifiedName(),
		Atom1: a1,
		Atom2: a2,
	})
}

// AtomCount returns the number of atoms.
func (s *Structure) AtomCount() int {
	return len(s.Atoms)
}

// ResidueCount returns the number of distinct (chain, resno) pairs.
func (s *Structure) ResidueCount() int {
	type key struct {
		chain string
		resno int
	}
	seen := make(map[key]struct{})
	for _, a := range s.Atoms {
		seen[key{a.Chain, a.ResNo}] = struct{}{}
	}
	return len(seen)
}

// ChainCount returns the number of distinct chain names.
func (s *Structure) ChainCount() int {
	seen := make(map[string]struct{})
	for _, a := range s.Atoms {
		seen[a.Chain] = struct{}{}
	}
	return len(seen)
}

// BoundingBox returns the box around all atom positions.
func (s *Structure) BoundingBox() math3d.Box3 {
	b := math3d.EmptyBox3()
	for _, a := range s.Atoms {
		b = b.ExpandByPoint(a.Position)
	}
	return b
}

// Positions returns all atom positions in index order.
func (s *Structure) Positions() []math3d.Vec3 {
	out := make([]math3d.Vec3, len(s.Atoms))
	for i, a := range s.Atoms {
		out[i] = a.Position
	}
	return out
}
