package seascape

import (
	"github.com/gekko3d/seascape/scroll"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraComponent is a perspective camera looking down -Z.
type CameraComponent struct {
	Position   mgl32.Vec3
	FovDegrees float32
	Aspect     float32
	Near, Far  float32
}

func (c CameraComponent) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovDegrees), c.Aspect, c.Near, c.Far)
}

func (c CameraComponent) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(mgl32.Vec3{0, 0, -1}), mgl32.Vec3{0, 1, 0})
}

type CameraModule struct {
	FovDegrees float32
	Near, Far  float32
	// Height is the camera's fixed y coordinate.
	Height float32
}

func (m CameraModule) withDefaults() CameraModule {
	if m.FovDegrees == 0 {
		m.FovDegrees = scroll.DefaultFovDegrees
	}
	if m.Near == 0 {
		m.Near = 1
	}
	if m.Far == 0 {
		m.Far = 1000
	}
	return m
}

// Install spawns the camera where a viewport-sized plane at z=0 fills the view.
func (m CameraModule) Install(app *App, cmd *Commands) {
	m = m.withDefaults()
	input := MustResource[Input](app, "CameraModule")

	depth := scroll.ResetDepth(float64(input.ViewportHeight), float64(m.FovDegrees))
	cmd.AddEntity(&CameraComponent{
		Position:   mgl32.Vec3{0, m.Height, float32(depth)},
		FovDegrees: m.FovDegrees,
		Aspect:     aspect(input.ViewportWidth, input.ViewportHeight),
		Near:       m.Near,
		Far:        m.Far,
	})

	app.UseSystem(
		System(cameraResizeSystem).
			InStage(PreUpdate),
	)
}

func cameraResizeSystem(input *Input, cmd *Commands) {
	if !input.Resized {
		return
	}
	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent) bool {
		cam.Aspect = aspect(input.ViewportWidth, input.ViewportHeight)
		return true
	})
}

func aspect(width, height int) float32 {
	if height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// ActiveCamera returns the first camera entity.
func ActiveCamera(cmd *Commands) (EntityId, *CameraComponent, bool) {
	var (
		id    EntityId
		found *CameraComponent
	)
	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent) bool {
		id, found = eid, cam
		return false
	})
	return id, found, found != nil
}
