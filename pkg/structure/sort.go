package structure

import (
	"cmp"
	"slices"
)

// Grid iteration order is map order; results are sorted by atom index so
// repeated runs produce identical lists.

func sortBonds(bonds []*Bond) {
	slices.SortFunc(bonds, func(a, b *Bond) int {
		return cmp.Or(
			cmp.Compare(a.Atom1.Index, b.Atom1.Index),
			cmp.Compare(a.Atom2.Index, b.Atom2.Index),
		)
	})
}

func sortPairs(pairs [][2]*Atom) {
	slices.SortFunc(pairs, func(a, b [2]*Atom) int {
		return cmp.Or(
			cmp.Compare(a[0].Index, b[0].Index),
			cmp.Compare(a[1].Index, b[1].Index),
		)
	})
}
