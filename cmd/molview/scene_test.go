package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/molview/pkg/models"
	"github.com/taigrr/molview/pkg/repr"
	"github.com/taigrr/molview/pkg/viewer"
)

func testViewer(t *testing.T) *viewer.Viewer {
	t.Helper()
	v, _, err := newViewer(viewer.DefaultConfig(), nil, 80, 60)
	require.NoError(t, err)
	return v
}

func TestDemoScene(t *testing.T) {
	v := testViewer(t)
	sc, err := buildScene(v, "", "", repr.DefaultParams())
	require.NoError(t, err)

	require.NotNil(t, sc.Main)
	require.NotNil(t, sc.Density)
	assert.Equal(t, "demo peptide", sc.Title)
	assert.Positive(t, v.ObjectCount())
	assert.False(t, isVisible(sc.Density))
	assert.True(t, isVisible(sc.Main))

	center := v.Bounds().Box().Center()
	assert.Less(t, center.Len(), 5.0, "scene is centred on the origin")

	v.Camera().Orbit(0, 0, viewDistance(v))
	v.Render()
	assert.InDelta(t, viewDistance(v), v.ClipState().CameraDistance, 1e-6)
}

func TestMissingInputs(t *testing.T) {
	v := testViewer(t)
	dir := t.TempDir()
	_, err := buildScene(v, filepath.Join(dir, "none.glb.gz"), "", repr.DefaultParams())
	assert.Error(t, err)

	_, err = buildScene(v, filepath.Join(dir, "model.obj"), "", repr.DefaultParams())
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)

	_, err = buildScene(v, "", filepath.Join(dir, "none.sdf"), repr.DefaultParams())
	assert.Error(t, err)
}

func TestAdjustClip(t *testing.T) {
	v := testViewer(t)
	_, err := buildScene(v, "", "", repr.DefaultParams())
	require.NoError(t, err)
	v.Render()

	adjustClip(v, clipStep, -clipStep)
	assert.Equal(t, 5.0, v.Params().ClipNear)
	assert.Equal(t, 95.0, v.Params().ClipFar)

	adjustClip(v, -20, 0)
	assert.Equal(t, 0.0, v.Params().ClipNear)

	p := v.Params()
	p.ClipScale = viewer.ClipScaleAbsolute
	p.ClipNear, p.ClipFar = 0, 0
	require.NoError(t, v.SetParams(p))
	r := v.ClipState().BoundingRadius
	adjustClip(v, clipStep, clipStep)
	assert.InDelta(t, -r*clipStep/50, v.Params().ClipNear, 1e-9)
	assert.InDelta(t, r*clipStep/50, v.Params().ClipFar, 1e-9)
}

func TestToggleParam(t *testing.T) {
	v := testViewer(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	toggleParam(v, logger, "projection", func(p *viewer.Params) {
		p.Orthographic = !p.Orthographic
	})
	assert.True(t, v.Params().Orthographic)
	assert.Empty(t, logs.String())

	before := v.Params()
	toggleParam(v, logger, "clip mode", func(p *viewer.Params) {
		p.ClipMode = viewer.ClipModeCamera
		p.ClipScale = viewer.ClipScaleRelative
	})
	assert.Equal(t, before, v.Params(), "rejected params are not applied")
	assert.Contains(t, logs.String(), "clip mode toggle rejected")
}

func TestOrbitZoom(t *testing.T) {
	o := NewOrbit(60, 40)
	o.Zoom(0.5)
	for range 600 {
		o.Update()
	}
	assert.InDelta(t, 20, o.Distance, 1e-3)

	o.Zoom(1e6)
	assert.Equal(t, 1000.0, o.target)

	o.ApplyImpulse(0.1, 0.2)
	o.Update()
	assert.NotZero(t, o.Yaw.Position)
	o.Reset(30)
	assert.Zero(t, o.Yaw.Position)
	assert.Equal(t, 30.0, o.Distance)
}
