package structure

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/taigrr/molview/pkg/math3d"
)

// ReadSDF parses the first record of an MDL molfile/SDF stream. Atom names
// are the element symbol followed by a per-element serial (C1, C2, ...);
// all atoms share chain "A" and residue 1.
func ReadSDF(r io.Reader, name string) (*Structure, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "$$$$") {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sdf: %w", err)
	}
	if len(lines) < 4 {
		return nil, fmt.Errorf("sdf: file too short")
	}
	if name == "" {
		name = strings.TrimSpace(lines[0])
	}

	fields := strings.Fields(lines[3])
	if len(fields) < 2 {
		return nil, fmt.Errorf("sdf: invalid counts line %q", lines[3])
	}
	nAtoms, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("sdf: atom count: %w", err)
	}
	nBonds, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("sdf: bond count: %w", err)
	}
	if len(lines) < 4+nAtoms+nBonds {
		return nil, fmt.Errorf("sdf: expected %d atom and %d bond lines", nAtoms, nBonds)
	}

	s := New(name)
	serial := make(map[string]int)
	for i, line := range lines[4 : 4+nAtoms] {
		f := strings.Fields(line)
		if len(f) < 4 {
			return nil, fmt.Errorf("sdf: atom line %d: too few fields", i+1)
		}
		var xyz [3]float64
		for j := range xyz {
			if xyz[j], err = strconv.ParseFloat(f[j], 64); err != nil {
				return nil, fmt.Errorf("sdf: atom line %d: %w", i+1, err)
			}
		}
		el := f[3]
		serial[el]++
		s.AddAtom(Atom{
			Name:     el + strconv.Itoa(serial[el]),
			Element:  el,
			ResName:  "MOL",
			ResNo:    1,
			Chain:    "A",
			Position: math3d.V3(xyz[0], xyz[1], xyz[2]),
		})
	}

	for i, line := range lines[4+nAtoms : 4+nAtoms+nBonds] {
		f := strings.Fields(line)
		if len(f) < 3 {
			return nil, fmt.Errorf("sdf: bond line %d: too few fields", i+1)
		}
		a, err1 := strconv.Atoi(f[0])
		b, err2 := strconv.Atoi(f[1])
		order, err3 := strconv.Atoi(f[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("sdf: bond line %d: malformed %q", i+1, line)
		}
		if _, err := s.AddBond(a-1, b-1, order); err != nil {
			return nil, fmt.Errorf("sdf: bond line %d: %w", i+1, err)
		}
	}
	return s, nil
}
