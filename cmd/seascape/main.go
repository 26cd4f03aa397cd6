// Command seascape runs the scrolling ocean scene.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gekko3d/seascape"
	"github.com/gekko3d/seascape/platform/glfwwindow"
)

func init() {
	// GLFW calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "scene config file (YAML)")
		debug      = flag.Bool("debug", false, "enable debug logging")
		dumpDir    = flag.String("dump", "", "write billboard textures as PNG into this directory")
		headless   = flag.Int("headless", 0, "run this many frames without a window, then exit")
	)
	flag.Parse()

	cfg := seascape.DefaultSceneConfig()
	if *configPath != "" {
		loaded, err := seascape.LoadSceneConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *debug {
		cfg.Debug = true
	}
	logger := seascape.NewDefaultLogger(cfg.LogPrefix, cfg.Debug)

	deps := seascape.SceneDeps{
		Renderer: newDumpRenderer(*dumpDir, logger),
		Logger:   logger,
	}

	if *headless > 0 {
		app, err := seascape.NewScene(cfg, deps)
		if err != nil {
			log.Fatalf("Failed to build scene: %v", err)
		}
		for i := 0; i < *headless; i++ {
			app.Step()
		}
		app.Shutdown()
		return
	}

	win, err := glfwwindow.Open(glfwwindow.Options{
		Width:  cfg.Viewport.Width,
		Height: cfg.Viewport.Height,
		Title:  cfg.Viewport.Title,
	})
	if err != nil {
		log.Fatalf("Failed to open window: %v", err)
	}
	defer win.Close()

	cfg.Viewport.Width, cfg.Viewport.Height = win.Size()
	cfg.Viewport.DevicePixelRatio = win.DevicePixelRatio()
	deps.Events = win

	app, err := seascape.NewScene(cfg, deps)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Scene stopped: %v", err)
	}
}
