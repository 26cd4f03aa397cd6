package seascape

import (
	"context"
	"math"

	"github.com/gekko3d/seascape/scroll"
	"github.com/go-gl/mathgl/mgl32"
)

type ModelComponent struct {
	Model AssetId
}

// BoatModule loads the boat model in the background and, once it arrives,
// spawns it in front of and below the camera, attached to the scroll depth.
type BoatModule struct {
	Loader  ModelLoader
	Request ModelRequest
	Scale   float32
	// RotationY is the yaw in radians.
	RotationY float32
	// VerticalOffset is added to the camera's y.
	VerticalOffset float32
}

func DefaultBoatModule(loader ModelLoader) BoatModule {
	return BoatModule{
		Loader:         loader,
		Request:        ModelRequest{Dir: "models", Object: "boat.obj", Material: "boat.mtl"},
		Scale:          5,
		RotationY:      math.Pi,
		VerticalOffset: -10.5,
	}
}

type boatLoad struct {
	results <-chan ModelResult
	done    bool
}

func (m BoatModule) Install(app *App, cmd *Commands) {
	assets := MustResource[AssetServer](app, "BoatModule")
	MustResource[scroll.Animator](app, "BoatModule")

	loader := m.Loader
	if loader == nil {
		loader = FileModelLoader{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	app.OnShutdown(cancel)

	load := &boatLoad{results: assets.LoadModelAsync(ctx, loader, m.Request)}
	app.Logger().Debugf("Loading boat model %s", m.Request)

	app.UseSystem(
		System(func(assets *AssetServer, anim *scroll.Animator, cmd *Commands) {
			m.poll(load, assets, anim, cmd)
		}).InStage(PostUpdate),
	)
}

// poll spawns the boat once its load completes. It never blocks the frame.
func (m BoatModule) poll(load *boatLoad, assets *AssetServer, anim *scroll.Animator, cmd *Commands) {
	if load.done {
		return
	}
	var res ModelResult
	select {
	case r, ok := <-load.results:
		if !ok {
			load.done = true
			return
		}
		res = r
	default:
		return
	}
	load.done = true

	if res.Err != nil {
		cmd.Logger().Errorf("Failed to load boat model %s: %v", res.Request, res.Err)
		return
	}

	_, cam, ok := ActiveCamera(cmd)
	if !ok {
		cmd.Logger().Warnf("Boat model %s loaded without a camera; not spawned", res.Request)
		return
	}

	id := assets.AddModel(res.Model)
	tr := NewTransform(mgl32.Vec3{
		cam.Position.X(),
		cam.Position.Y() + m.VerticalOffset,
		float32(anim.State().AttachedDepth),
	}).RotatedY(m.RotationY)
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	tr.Scale = mgl32.Vec3{scale, scale, scale}

	cmd.AddEntity(&tr, &ModelComponent{Model: id}, &AttachedComponent{})
	cmd.Logger().Infof("Boat model %s attached at %v", res.Request, tr.Position)
}
