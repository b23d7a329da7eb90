package structure

import (
	"image/color"
	"strings"
)

type element struct {
	covalent float64
	vdw      float64
	color    color.RGBA
}

// Radii in angstrom. Colours follow the CPK scheme.
var elements = map[string]element{
	"H":  {0.31, 1.10, color.RGBA{255, 255, 255, 255}},
	"HE": {0.28, 1.40, color.RGBA{217, 255, 255, 255}},
	"LI": {1.28, 1.81, color.RGBA{204, 128, 255, 255}},
	"B":  {0.84, 1.92, color.RGBA{255, 181, 181, 255}},
	"C":  {0.76, 1.70, color.RGBA{144, 144, 144, 255}},
	"N":  {0.71, 1.55, color.RGBA{48, 80, 248, 255}},
	"O":  {0.66, 1.52, color.RGBA{255, 13, 13, 255}},
	"F":  {0.57, 1.47, color.RGBA{144, 224, 80, 255}},
	"NA": {1.66, 2.27, color.RGBA{171, 92, 242, 255}},
	"MG": {1.41, 1.73, color.RGBA{138, 255, 0, 255}},
	"SI": {1.11, 2.10, color.RGBA{240, 200, 160, 255}},
	"P":  {1.07, 1.80, color.RGBA{255, 128, 0, 255}},
	"S":  {1.05, 1.80, color.RGBA{255, 255, 48, 255}},
	"CL": {1.02, 1.75, color.RGBA{31, 240, 31, 255}},
	"K":  {2.03, 2.75, color.RGBA{143, 64, 212, 255}},
	"CA": {1.76, 2.31, color.RGBA{61, 255, 0, 255}},
	"MN": {1.39, 2.05, color.RGBA{156, 122, 199, 255}},
	"FE": {1.32, 2.05, color.RGBA{224, 102, 51, 255}},
	"CO": {1.26, 2.00, color.RGBA{240, 144, 160, 255}},
	"NI": {1.24, 2.00, color.RGBA{80, 208, 80, 255}},
	"CU": {1.32, 2.00, color.RGBA{200, 128, 51, 255}},
	"ZN": {1.22, 2.10, color.RGBA{125, 128, 176, 255}},
	"SE": {1.20, 1.90, color.RGBA{255, 161, 0, 255}},
	"BR": {1.20, 1.83, color.RGBA{166, 41, 41, 255}},
	"I":  {1.39, 1.98, color.RGBA{148, 0, 148, 255}},
}

const (
	DefaultCovalentRadius = 1.6
	DefaultVdwRadius      = 2.0
)

var defaultColor = color.RGBA{255, 20, 147, 255}

func lookup(symbol string) (element, bool) {
	e, ok := elements[strings.ToUpper(strings.TrimSpace(symbol))]
	return e, ok
}

// CovalentRadius returns the covalent radius of an element symbol.
func CovalentRadius(symbol string) float64 {
	if e, ok := lookup(symbol); ok {
		return e.covalent
	}
	return DefaultCovalentRadius
}

// VdwRadius returns the van der Waals radius of an element symbol.
func VdwRadius(symbol string) float64 {
	if e, ok := lookup(symbol); ok {
		return e.vdw
	}
	return DefaultVdwRadius
}

// ElementColor returns the CPK colour of an element symbol.
func ElementColor(symbol string) color.RGBA {
	if e, ok := lookup(symbol); ok {
		return e.color
	}
	return defaultColor
}
