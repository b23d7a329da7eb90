package viewer

import (
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	p := cfg.Viewer
	assert.Equal(t, 0.0, p.ClipNear)
	assert.Equal(t, 100.0, p.ClipFar)
	assert.Equal(t, 10.0, p.ClipDist)
	assert.Equal(t, 50.0, p.FogNear)
	assert.Equal(t, 100.0, p.FogFar)
	assert.Equal(t, ClipModeScene, p.ClipMode)
	assert.Equal(t, ClipScaleRelative, p.ClipScale)
	assert.True(t, p.Picking)

	bg, err := cfg.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{30, 30, 40, 255}, bg)
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestParseConfigOverrides(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(`
background = "0,0,0"
log_level = "debug"

[viewer]
clip_near = 20
fog_far = 80
picking = false
`))
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Viewer.ClipNear)
	assert.Equal(t, 80.0, cfg.Viewer.FogFar)
	assert.False(t, cfg.Viewer.Picking)
	assert.Equal(t, 100.0, cfg.Viewer.ClipFar, "unset keys keep defaults")
	assert.Equal(t, 60, cfg.FPS)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown key", "zoom = 3"},
		{"bad syntax", "[viewer"},
		{"camera relative", "[viewer]\nclip_mode = \"camera\""},
		{"bad mode", "[viewer]\nclip_mode = \"world\""},
		{"bad scale", "[viewer]\nclip_scale = \"percent\""},
		{"bad background", "background = \"red\""},
		{"background range", "background = \"0,300,0\""},
		{"bad level", "log_level = \"loud\""},
		{"bad fps", "fps = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}

	_, err := ParseConfig(strings.NewReader("[viewer]\nclip_mode = \"camera\""))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "molview.toml")

	cfg := DefaultConfig()
	cfg.Viewer.ClipScale = ClipScaleAbsolute
	cfg.Viewer.ClipMode = ClipModeCamera
	cfg.FPS = 30
	data, err := cfg.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
