package seascape

import (
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/seascape/billboard"
)

// SceneDeps are the external collaborators of a scene. Nil fields fall back
// to defaults: no events, no renderer, files on disk, embedded fonts, wall clock.
type SceneDeps struct {
	Events      EventSource
	Renderer    Renderer
	ModelLoader ModelLoader
	Rasterizer  billboard.Rasterizer
	Clock       func() time.Time
	Logger      Logger
}

// NewScene assembles the ocean scene described by cfg.
func NewScene(cfg SceneConfig, deps SceneDeps) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var builder *billboard.Builder
	switch {
	case deps.Rasterizer != nil:
		builder = billboard.NewBuilder(deps.Rasterizer)
	case cfg.Text.FontFile != "":
		data, err := os.ReadFile(cfg.Text.FontFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		registry := billboard.DefaultRegistry()
		registry.Register(cfg.Text.Family, data)
		builder = billboard.NewBuilder(billboard.NewFaceRasterizer(registry))
	}

	scrollCfg := cfg.ScrollAnimatorConfig()
	if deps.Clock != nil {
		scrollCfg.Clock = deps.Clock
	}

	app := NewApp()
	app.UseModules(
		LoggingModule{Prefix: cfg.LogPrefix, Debug: cfg.Debug, Logger: deps.Logger},
		TimeModule{Clock: deps.Clock},
		InputModule{
			Source:           deps.Events,
			Width:            cfg.Viewport.Width,
			Height:           cfg.Viewport.Height,
			DevicePixelRatio: cfg.Viewport.DevicePixelRatio,
		},
		AssetServerModule{},
		EnvironmentModule{Def: cfg.Environment},
		CameraModule{
			FovDegrees: cfg.Camera.FovDegrees,
			Near:       cfg.Camera.Near,
			Far:        cfg.Camera.Far,
			Height:     cfg.Camera.Height,
		},
		ScrollModule{Config: scrollCfg, CoupleToWheel: cfg.Scroll.CoupleToWheel},
		TextPanelModule{
			Panels:         cfg.PanelDefs(),
			FontSizePx:     cfg.Text.FontSizePx,
			Color:          cfg.TextColor(),
			Family:         cfg.Text.Family,
			FallbackFamily: cfg.Text.FallbackFamily,
			Builder:        builder,
		},
	)

	if !cfg.Boat.Disabled {
		app.UseModules(BoatModule{
			Loader: deps.ModelLoader,
			Request: ModelRequest{
				Dir:      cfg.Boat.Dir,
				Object:   cfg.Boat.Object,
				Material: cfg.Boat.Material,
			},
			Scale:          cfg.Boat.Scale,
			RotationY:      cfg.Boat.RotationY,
			VerticalOffset: cfg.Boat.VerticalOffset,
		})
	}

	app.UseModules(RenderModule{Renderer: deps.Renderer})

	app.Logger().Infof("Scene ready: %d panels, viewport %dx%d@%.2fx",
		MakeQuery1[BillboardComponent](app.Commands()).Count(),
		cfg.Viewport.Width, cfg.Viewport.Height, cfg.Viewport.DevicePixelRatio)
	return app, nil
}
