// molview - Terminal molecular viewer
// Shows structures, surfaces and density in your terminal and names the
// object under the mouse.
//
// Controls:
//
//	Mouse drag  - Rotate (yaw/pitch)
//	Mouse hover - Identify atom, bond or shape under the cursor
//	Scroll      - Zoom in/out
//	W/S/A/D     - Pitch and yaw
//	Space       - Apply random impulse
//	R           - Reset view
//	[ / ]       - Move near clip plane (relative scale)
//	{ / }       - Move far clip plane
//	X           - Toggle wireframe
//	B           - Toggle bounding box
//	C           - Toggle contacts, axes and markers
//	V           - Toggle density dots
//	O           - Toggle orthographic projection
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/molview/pkg/input"
	"github.com/taigrr/molview/pkg/render"
	"github.com/taigrr/molview/pkg/repr"
	"github.com/taigrr/molview/pkg/viewer"
)

var (
	configPath  = flag.String("config", "", "Path to a TOML config file")
	surfacePath = flag.String("surface", "", "Surface to show (GLB/GLTF, .gz or .zst accepted)")
	sdfPath     = flag.String("sdf", "", "Structure to show (SDF/MOL)")
	targetFPS   = flag.Int("fps", 0, "Target FPS (overrides config)")
	bgColor     = flag.String("bg", "", "Background color R,G,B (overrides config)")
	pngPath     = flag.String("png", "", "Render one frame to this PNG and exit")
	pngSize     = flag.String("size", "320x240", "Frame size for -png")
	logPath     = flag.String("log", "", "Write logs to this file (stderr with -png)")
	colorScale  = flag.String("scale", "RdYlBu", "Color scale for density values")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "molview - Terminal molecular viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: molview [options]\n\n")
		fmt.Fprintf(os.Stderr, "Without -sdf or -surface a demo peptide is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate\n")
		fmt.Fprintf(os.Stderr, "  Mouse hover - Identify object\n")
		fmt.Fprintf(os.Stderr, "  Scroll, +/- - Zoom\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  [ ] { }     - Near and far clip planes\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  B           - Toggle bounding box\n")
		fmt.Fprintf(os.Stderr, "  C           - Toggle contacts, axes and markers\n")
		fmt.Fprintf(os.Stderr, "  V           - Toggle density dots\n")
		fmt.Fprintf(os.Stderr, "  O           - Toggle orthographic projection\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if *pngPath != "" {
		err = renderPNG(cfg, logger)
	} else {
		err = run(cfg, logger)
	}
	if err != nil {
		closeLog()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig() (viewer.Config, error) {
	cfg := viewer.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = viewer.LoadConfig(*configPath); err != nil {
			return cfg, err
		}
	}
	if *targetFPS > 0 {
		cfg.FPS = *targetFPS
	}
	if *bgColor != "" {
		cfg.Background = *bgColor
	}
	return cfg, cfg.Validate()
}

// reprParams returns the representation parameters with -scale applied.
func reprParams() (repr.Params, error) {
	p := repr.DefaultParams()
	p.ColorScale = *colorScale
	return p, p.Validate()
}

// newLogger logs to -log, or to stderr in headless mode. The interactive
// viewer owns the terminal, so it logs nowhere by default.
func newLogger(cfg viewer.Config) (*slog.Logger, func(), error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = io.Discard
	closeFn := func() {}
	switch {
	case *logPath != "":
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case *pngPath != "":
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// newViewer wires a rasterizer of the given size to a viewer.
func newViewer(cfg viewer.Config, logger *slog.Logger, width, height int) (*viewer.Viewer, *render.Rasterizer, error) {
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, nil, err
	}
	fb := render.NewFramebuffer(width, height)
	rasterizer := render.NewRasterizer(fb, render.NewPickBuffer(width, height, true))

	camera := render.NewCamera()
	camera.SetFOV(40 * math.Pi / 180)
	camera.SetViewport(width, height)

	v := viewer.New(rasterizer, camera, cfg.Viewer,
		viewer.WithLogger(logger),
		viewer.WithBackground(bg))
	return v, rasterizer, nil
}

// viewDistance is the camera distance that fits the scene.
func viewDistance(v *viewer.Viewer) float64 {
	return 2.5 * viewer.BoundingRadius(v.Bounds())
}

func renderPNG(cfg viewer.Config, logger *slog.Logger) error {
	var width, height int
	if _, err := fmt.Sscanf(*pngSize, "%dx%d", &width, &height); err != nil || width <= 0 || height <= 0 {
		return fmt.Errorf("bad -size %q", *pngSize)
	}
	v, rasterizer, err := newViewer(cfg, logger, width, height)
	if err != nil {
		return err
	}
	rp, err := reprParams()
	if err != nil {
		return err
	}
	sc, err := buildScene(v, *surfacePath, *sdfPath, rp)
	if err != nil {
		return err
	}
	v.Camera().Orbit(0.6, 0.3, viewDistance(v))
	v.Render()
	logger.Info("frame rendered", "scene", sc.Title,
		"objects", rasterizer.Stats.Objects,
		"triangles", rasterizer.Stats.Triangles,
		"points", rasterizer.Stats.Points)
	return rasterizer.Framebuffer().SavePNG(*pngPath)
}

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with harmonica spring for smooth velocity decay
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using spring
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Orbit holds yaw, pitch and zoom with harmonica spring physics.
type Orbit struct {
	Pitch, Yaw RotationAxis

	Distance   float64
	target     float64
	zoomVel    float64
	zoomSpring harmonica.Spring
	fps        int
}

func NewOrbit(fps int, distance float64) *Orbit {
	o := &Orbit{fps: fps, zoomSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
	o.Reset(distance)
	return o
}

func (o *Orbit) Update() {
	o.Pitch.Update()
	o.Yaw.Update()
	o.Distance, o.zoomVel = o.zoomSpring.Update(o.Distance, o.zoomVel, o.target)
}

func (o *Orbit) ApplyImpulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

// Zoom scales the target distance by f within [1, 1000].
func (o *Orbit) Zoom(f float64) {
	o.target = math.Max(1, math.Min(1000, o.target*f))
}

func (o *Orbit) Reset(distance float64) {
	o.Pitch = NewRotationAxis(o.fps)
	o.Yaw = NewRotationAxis(o.fps)
	o.Distance, o.target, o.zoomVel = distance, distance, 0
}

// clipStep is how far one key press moves a clip plane in the relative
// scale.
const clipStep = 5

// adjustClip moves the clip planes by relative steps. Absolute settings
// are converted through the current bounding radius; camera mode steps
// in scene units.
func adjustClip(v *viewer.Viewer, near, far float64) {
	p := v.Params()
	cs := v.ClipState()
	switch {
	case p.ClipMode == viewer.ClipModeCamera:
		p.ClipNear = math.Max(0.1, p.ClipNear+near)
		p.ClipFar = math.Max(p.ClipNear, p.ClipFar+far)
	case p.ClipScale == viewer.ClipScaleAbsolute:
		if cs.BoundingRadius == 0 {
			return
		}
		p.ClipNear = cs.RelativeToAbsolute(cs.AbsoluteToRelative(p.ClipNear) + near)
		p.ClipFar = -cs.RelativeToAbsolute(cs.AbsoluteToRelative(-p.ClipFar) + far)
	default:
		p.ClipNear = math.Max(0, math.Min(100, p.ClipNear+near))
		p.ClipFar = math.Max(0, math.Min(100, p.ClipFar+far))
	}
	if err := v.SetParams(p); err != nil {
		slog.Warn("clip change rejected", "err", err)
	}
}

// toggleParam applies flip to a copy of the viewer params and keeps the
// result only if it validates.
func toggleParam(v *viewer.Viewer, logger *slog.Logger, what string, flip func(*viewer.Params)) {
	p := v.Params()
	flip(&p)
	if err := v.SetParams(p); err != nil {
		logger.Warn(what+" toggle rejected", "err", err)
	}
}

func run(cfg viewer.Config, logger *slog.Logger) error {
	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	v, rasterizer, err := newViewer(cfg, logger, fbWidth, fbHeight)
	if err != nil {
		return err
	}

	rp, err := reprParams()
	if err != nil {
		return err
	}
	sc, err := buildScene(v, *surfacePath, *sdfPath, rp)
	if err != nil {
		return err
	}
	hud := NewHUD(sc.Title, sc.Polygons)
	mouse := input.NewMouse(fbHeight)
	v.SetMouse(mouse)
	orbit := NewOrbit(cfg.FPS, viewDistance(v))
	logger.Info("scene ready", "title", sc.Title, "objects", v.ObjectCount(),
		"radius", viewer.BoundingRadius(v.Bounds()))

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// The render loop is the only reader of viewer state; events are
	// handed over on a channel.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	wireframe := false
	handle := func(ev uv.Event) {
		mouse.Handle(ev)
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			fbWidth, fbHeight = termRenderer.FramebufferSize()
			rasterizer.Framebuffer().Resize(fbWidth, fbHeight)
			rasterizer.Resize()
			mouse.SetHeight(fbHeight)
			logger.Debug("resized", "width", fbWidth, "height", fbHeight)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
				cancel()
			case ev.MatchString("r"):
				orbit.Reset(viewDistance(v))
			case ev.MatchString("w", "up"):
				orbit.ApplyImpulse(-0.05, 0)
			case ev.MatchString("s", "down"):
				orbit.ApplyImpulse(0.05, 0)
			case ev.MatchString("a", "left"):
				orbit.ApplyImpulse(0, -0.05)
			case ev.MatchString("d", "right"):
				orbit.ApplyImpulse(0, 0.05)
			case ev.MatchString("space"):
				orbit.ApplyImpulse((rand.Float64()-0.5)*0.3, (rand.Float64()-0.5)*0.3)
			case ev.MatchString("+", "="):
				orbit.Zoom(0.9)
			case ev.MatchString("-", "_"):
				orbit.Zoom(1.1)
			case ev.MatchString("["):
				adjustClip(v, -clipStep, 0)
			case ev.MatchString("]"):
				adjustClip(v, clipStep, 0)
			case ev.MatchString("{"), ev.MatchString("shift+["):
				adjustClip(v, 0, -clipStep)
			case ev.MatchString("}"), ev.MatchString("shift+]"):
				adjustClip(v, 0, clipStep)
			case ev.MatchString("x"):
				wireframe = !wireframe
				setWireframe(v, wireframe)
			case ev.MatchString("b"):
				toggleParam(v, logger, "bounding box", func(p *viewer.Params) {
					p.ShowBoundingBox = !p.ShowBoundingBox
				})
			case ev.MatchString("c"):
				on := len(sc.Extras) > 0 && !isVisible(sc.Extras[0])
				for _, c := range sc.Extras {
					setVisible(c, on)
				}
			case ev.MatchString("v"):
				setVisible(sc.Density, !isVisible(sc.Density))
			case ev.MatchString("o"):
				toggleParam(v, logger, "projection", func(p *viewer.Params) {
					p.Orthographic = !p.Orthographic
				})
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				hud.Show = !hud.Show
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				orbit.Zoom(0.9)
			case uv.MouseWheelDown:
				orbit.Zoom(1.1)
			}
		}
	}

	// Main loop
	targetDuration := time.Second / time.Duration(cfg.FPS)
	for {
		now := time.Now()

	drain:
		for {
			select {
			case <-ctx.Done():
				cleanup()
				return nil
			case ev := <-events:
				handle(ev)
			default:
				break drain
			}
		}

		dx, dy := mouse.TakeDrag()
		orbit.ApplyImpulse(float64(dy)*0.03, float64(-dx)*0.03)
		orbit.Update()
		v.Camera().Orbit(orbit.Yaw.Position, orbit.Pitch.Position, orbit.Distance)

		v.Render()
		if mouse.TakeMoved() || orbit.Yaw.Velocity != 0 || orbit.Pitch.Velocity != 0 {
			pos := mouse.CanvasPosition()
			hud.SetPick(v.Pick(pos.X, pos.Y))
		}

		// Display
		hud.Mark(rasterizer.Framebuffer(), v.Camera())
		termRenderer.Render(rasterizer.Framebuffer())
		hud.UpdateFPS()
		hud.Draw(termRenderer, width, height, v)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
