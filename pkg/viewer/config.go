package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Clip modes and scales.
const (
	ClipModeScene  = "scene"
	ClipModeCamera = "camera"

	ClipScaleRelative = "relative"
	ClipScaleAbsolute = "absolute"
)

// ErrInvalidConfig is returned for parameter combinations the viewer
// cannot honour.
var ErrInvalidConfig = errors.New("invalid viewer config")

// Params controls clipping, fog and picking.
type Params struct {
	// ClipNear and ClipFar are in the unit of ClipScale. In the relative
	// scale 0 is one bounding radius in front of the scene centre, 50 the
	// centre and 100 one radius behind it.
	ClipNear float64 `toml:"clip_near"`
	ClipFar  float64 `toml:"clip_far"`
	// ClipDist is the smallest near plane distance in scene mode.
	ClipDist  float64 `toml:"clip_dist"`
	FogNear   float64 `toml:"fog_near"`
	FogFar    float64 `toml:"fog_far"`
	ClipMode  string  `toml:"clip_mode"`
	ClipScale string  `toml:"clip_scale"`
	// CameraZ is where a camera stuck at the origin is moved to.
	CameraZ float64 `toml:"camera_z"`
	// Picking runs the pick pass on every Render. Otherwise Pick runs it
	// on demand.
	Picking bool `toml:"picking"`
	// ShowBoundingBox draws the scene box as an overlay.
	ShowBoundingBox bool `toml:"show_bounding_box"`
	Orthographic    bool `toml:"orthographic"`
}

// DefaultParams returns the stock clipping and fog setup.
func DefaultParams() Params {
	return Params{
		ClipNear:  0,
		ClipFar:   100,
		ClipDist:  10,
		FogNear:   50,
		FogFar:    100,
		ClipMode:  ClipModeScene,
		ClipScale: ClipScaleRelative,
		CameraZ:   80,
		Picking:   true,
	}
}

// Validate checks the mode and scale names and their combination.
func (p Params) Validate() error {
	switch p.ClipMode {
	case ClipModeScene, ClipModeCamera:
	default:
		return fmt.Errorf("%w: clip_mode %q", ErrInvalidConfig, p.ClipMode)
	}
	switch p.ClipScale {
	case ClipScaleRelative, ClipScaleAbsolute:
	default:
		return fmt.Errorf("%w: clip_scale %q", ErrInvalidConfig, p.ClipScale)
	}
	if p.ClipMode == ClipModeCamera && p.ClipScale == ClipScaleRelative {
		return fmt.Errorf("%w: camera clip mode needs the absolute clip scale", ErrInvalidConfig)
	}
	return nil
}

// Config is the file form of the viewer settings.
type Config struct {
	Viewer Params `toml:"viewer"`
	// Background is "R,G,B".
	Background string `toml:"background"`
	FPS        int    `toml:"fps"`
	LogLevel   string `toml:"log_level"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Viewer:     DefaultParams(),
		Background: "30,30,40",
		FPS:        60,
		LogLevel:   "info",
	}
}

// ParseConfig reads TOML over the defaults. Unknown keys are errors.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Viewer.Validate(); err != nil {
		return err
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	_, err := c.Level()
	return err
}

// BackgroundColor parses Background.
func (c Config) BackgroundColor() (color.RGBA, error) {
	return ParseColor(c.Background)
}

// Level parses LogLevel as a slog level name.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	return l, nil
}

// ParseColor parses "R,G,B" with components in 0-255.
func ParseColor(s string) (color.RGBA, error) {
	var r, g, b int
	if n, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil || n != 3 {
		return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalidConfig, s)
	}
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalidConfig, s)
		}
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}, nil
}

// Marshal encodes the config as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
