package main

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/picking"
	"github.com/taigrr/molview/pkg/render"
	"github.com/taigrr/molview/pkg/viewer"
)

var (
	hudWhite  = color.RGBA{235, 235, 235, 255}
	hudGreen  = color.RGBA{90, 230, 120, 255}
	hudCyan   = color.RGBA{90, 220, 230, 255}
	hudYellow = color.RGBA{240, 220, 90, 255}
	hudDim    = color.RGBA{150, 150, 150, 255}
)

// HUD renders an overlay with scene info, the hovered object and the clip
// planes.
type HUD struct {
	title     string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	Show  bool
	Label string
	Mods  string

	marker    math3d.Vec3
	hasMarker bool
}

// NewHUD creates a new HUD
func NewHUD(title string, polyCount int) *HUD {
	return &HUD{
		title:     title,
		polyCount: polyCount,
		fpsTime:   time.Now(),
		Show:      true,
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// SetPick updates the hover label from a pick, or clears it.
func (h *HUD) SetPick(p *picking.Proxy) {
	if p == nil {
		h.Label, h.Mods = "", ""
		h.hasMarker = false
		return
	}
	h.Label = p.Describe()
	h.marker, h.hasMarker = p.Position(), true
	if a := p.ClosestBondAtom(); a != nil {
		h.Label += " near " + a.QualifiedName()
	}
	if vv := p.Volume(); vv != nil {
		h.Label += fmt.Sprintf(" (%.1fσ)", vv.Volume.SigmaForValue(vv.Value))
	}
	var mods []string
	for _, m := range []struct {
		on   bool
		name string
	}{{p.CtrlKey(), "ctrl"}, {p.AltKey(), "alt"}, {p.ShiftKey(), "shift"}, {p.MetaKey(), "meta"}} {
		if m.on {
			mods = append(mods, m.name)
		}
	}
	h.Mods = strings.Join(mods, "+")
}

// Mark draws a crosshair over the picked object's position.
func (h *HUD) Mark(fb *render.Framebuffer, cam *render.Camera) {
	if !h.Show || !h.hasMarker {
		return
	}
	x, y, _, visible := cam.WorldToScreen(h.marker, fb.Width, fb.Height)
	if !visible {
		return
	}
	fb.DrawCrosshair(int(x), int(y), 2, hudYellow)
}

// Draw writes the overlay text over the presented frame.
func (h *HUD) Draw(t *render.TerminalRenderer, cols, rows int, v *viewer.Viewer) {
	if h.Label != "" {
		label := " " + h.Label + " "
		if h.Mods != "" {
			label += "[" + h.Mods + "] "
		}
		t.DrawText(1, rows-2, label, hudYellow)
	}
	if !h.Show {
		return
	}

	t.DrawText(0, 0, fmt.Sprintf(" %.0f FPS ", h.fps), hudGreen)
	t.DrawText(max((cols-len(h.title)-2)/2, 0), 0, " "+h.title+" ", hudWhite)
	polys := fmt.Sprintf(" %d polys ", h.polyCount)
	t.DrawText(max(cols-len(polys), 0), 0, polys, hudCyan)

	p := v.Params()
	cs := v.ClipState()
	clip := fmt.Sprintf(" clip %.0f-%.0f fog %.0f-%.0f  r=%.1f d=%.1f ",
		p.ClipNear, p.ClipFar, p.FogNear, p.FogFar, cs.BoundingRadius, cs.CameraDistance)
	t.DrawText(0, rows-1, clip, hudWhite)
	hint := " [/] near {/} far ? help "
	t.DrawText(max(cols-len(hint), 0), rows-1, hint, hudDim)
}
