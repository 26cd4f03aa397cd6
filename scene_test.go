package seascape

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gekko3d/seascape/scroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
)

type sceneFixture struct {
	app      *App
	queue    *EventQueue
	clock    *manualClock
	renderer *recordingRenderer
	logOut   *syncBuffer
}

func newSceneFixture(t *testing.T, cfg SceneConfig) *sceneFixture {
	t.Helper()
	f := &sceneFixture{
		queue:    &EventQueue{},
		clock:    newManualClock(1_000),
		renderer: &recordingRenderer{},
		logOut:   &syncBuffer{},
	}
	app, err := NewScene(cfg, SceneDeps{
		Events:      f.queue,
		Renderer:    f.renderer,
		ModelLoader: staticLoader{model: ModelAsset{Name: "boat.obj"}},
		Rasterizer:  monoRasterizer{},
		Clock:       f.clock.Now,
		Logger:      NewLoggerTo(f.logOut, f.logOut, "scene", true),
	})
	require.NoError(t, err)
	f.app = app
	return f
}

func TestNewScene_RendersAllPanels(t *testing.T) {
	f := newSceneFixture(t, DefaultSceneConfig())

	require.True(t, stepUntil(f.app, func() bool {
		return len(f.renderer.last().Models) == 1
	}), "boat never reached the renderer")

	frame := f.renderer.last()
	assert.Len(t, frame.Billboards, 10)
	assert.Equal(t, float32(10), frame.Camera.Position.Y())
	assert.Equal(t, DefaultEnvironment().FogColor, frame.Environment.Def.FogColor)
	assert.Greater(t, frame.Environment.WaterTime, float32(0))

	for _, b := range frame.Billboards {
		tex, err := frame.Assets.Texture(b.Billboard.Texture)
		require.NoError(t, err)
		assert.Equal(t, float32(tex.Height), b.Billboard.Height, "dpr 1 keeps logical == pixel size")
	}
	assert.Contains(t, f.logOut.String(), "Scene ready: 10 panels")
}

func TestNewScene_ScrollScenario(t *testing.T) {
	f := newSceneFixture(t, DefaultSceneConfig())
	anim, ok := Resource[scroll.Animator](f.app)
	require.True(t, ok)

	anim.SetDepth(0)
	f.queue.PushWheel(-30000)
	f.app.Step()

	st := anim.State()
	assert.Equal(t, 1, st.Wraps)
	assert.Equal(t, st.ResetDepth, st.CameraDepth)
	assert.Equal(t, st.ResetDepth-25, st.AttachedDepth)
	assert.InDelta(t, st.ResetDepth, f.renderer.last().Camera.Position.Z(), 1e-3)
	assert.Contains(t, f.logOut.String(), "DEBUG: Camera wrapped to depth")
}

func TestNewScene_ResizeReachesRenderer(t *testing.T) {
	f := newSceneFixture(t, DefaultSceneConfig())

	f.queue.PushResize(1920, 1080)
	f.app.Step()
	f.app.Step()

	assert.Equal(t, [][2]int{{1920, 1080}}, f.renderer.resizes)
	assert.InDelta(t, float32(1920)/1080, f.renderer.last().Camera.Aspect, 1e-6)
}

func TestNewScene_RenderErrorsAreLogged(t *testing.T) {
	f := newSceneFixture(t, DefaultSceneConfig())
	f.renderer.err = errors.New("device lost")

	f.app.Step()
	assert.Contains(t, f.logOut.String(), "ERROR: Render frame 1: device lost")
}

func TestNewScene_RunUntilClose(t *testing.T) {
	cfg := DefaultSceneConfig()
	cfg.Boat.Disabled = true
	f := newSceneFixture(t, cfg)

	f.queue.PushWheel(-120)
	f.queue.PushClose()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.app.Run(ctx))

	anim, _ := Resource[scroll.Animator](f.app)
	assert.True(t, anim.Stopped())
	assert.Len(t, f.renderer.frames, 1)
	assert.Zero(t, MakeQuery1[ModelComponent](f.app.Commands()).Count())
}

func TestNewScene_InvalidConfig(t *testing.T) {
	cfg := DefaultSceneConfig()
	cfg.Text.FontSizePx = -1
	_, err := NewScene(cfg, SceneDeps{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewScene_FontFileRegistersFamily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "NotoSerif-Medium.ttf")
	require.NoError(t, os.WriteFile(path, gobold.TTF, 0o644))

	cfg := DefaultSceneConfig()
	cfg.Boat.Disabled = true
	cfg.Text.Family = "Noto Serif Medium"
	cfg.Text.FallbackFamily = ""
	cfg.Text.FontFile = path

	logOut := &syncBuffer{}
	app, err := NewScene(cfg, SceneDeps{Logger: NewLoggerTo(logOut, logOut, "", false)})
	require.NoError(t, err)
	assert.Equal(t, 10, MakeQuery1[BillboardComponent](app.Commands()).Count())
	assert.NotContains(t, logOut.String(), "unavailable")

	cfg.Text.FontFile = filepath.Join(t.TempDir(), "missing.ttf")
	_, err = NewScene(cfg, SceneDeps{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
