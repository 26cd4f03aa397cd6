package seascape

import (
	"github.com/gekko3d/seascape/scroll"
)

// AttachedComponent makes an entity follow the scroll animator's attached depth.
type AttachedComponent struct{}

// ScrollModule drives the camera from wheel input through a scroll.Animator
// resource.
//
// With CoupleToWheel the sway and wrap-around are only re-evaluated when a
// wheel event arrives. Otherwise the animator is also ticked every frame.
type ScrollModule struct {
	Config        scroll.Config
	CoupleToWheel bool
}

func (m ScrollModule) Install(app *App, cmd *Commands) {
	input := MustResource[Input](app, "ScrollModule")

	cfg := m.Config
	if cfg.ScrollGain == 0 && cfg.Period == 0 {
		cfg = scroll.DefaultConfig(0)
	}
	cfg.ViewportHeight = float64(input.ViewportHeight)

	anim := scroll.NewAnimator(cfg)
	cmd.AddResources(anim)
	app.OnShutdown(anim.Stop)

	app.Logger().Debugf("Scroll animator ready: reset depth %.3f, wrap below %.1f, coupled=%v",
		anim.State().ResetDepth, cfg.WrapThreshold, m.CoupleToWheel)

	coupled := m.CoupleToWheel
	app.UseSystem(
		System(func(input *Input, t *Time, anim *scroll.Animator, cmd *Commands) {
			scrollSystem(coupled, input, t, anim, cmd)
		}).InStage(Update),
	)
}

func scrollSystem(coupled bool, input *Input, t *Time, anim *scroll.Animator, cmd *Commands) {
	if input.Resized {
		anim.SetViewportHeight(float64(input.ViewportHeight))
	}

	for _, delta := range input.Wheel {
		st := anim.OnWheelAt(delta, t.Now)
		if st.Wrapped {
			cmd.Logger().Debugf("Camera wrapped to depth %.3f (wrap #%d)", st.CameraDepth, st.Wraps)
		}
	}
	if !coupled {
		if st := anim.TickAt(t.Now); st.Wrapped {
			cmd.Logger().Debugf("Camera wrapped to depth %.3f (wrap #%d)", st.CameraDepth, st.Wraps)
		}
	}

	applyScrollState(anim.State(), cmd)
}

// applyScrollState overwrites the camera's x and z and every attached entity's z.
func applyScrollState(st scroll.State, cmd *Commands) {
	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent) bool {
		cam.Position[0] = float32(st.LateralDisplacement)
		cam.Position[2] = float32(st.CameraDepth)
		return true
	})
	MakeQuery2[TransformComponent, AttachedComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, _ *AttachedComponent) bool {
		tr.Position[2] = float32(st.AttachedDepth)
		return true
	})
}
