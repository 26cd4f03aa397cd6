package seascape

// Renderer is the external rendering collaborator.
type Renderer interface {
	Render(frame *Frame) error
	Resize(width, height int)
}

type BillboardInstance struct {
	Entity    EntityId
	Transform TransformComponent
	Billboard BillboardComponent
}

type ModelInstance struct {
	Entity    EntityId
	Transform TransformComponent
	Model     ModelComponent
}

// Frame is a snapshot of everything drawable, valid for one Render call.
type Frame struct {
	Index       uint64
	Camera      CameraComponent
	Environment Environment
	Billboards  []BillboardInstance
	Models      []ModelInstance
	Assets      *AssetServer
}

type RenderModule struct {
	Renderer Renderer
}

func (m RenderModule) Install(app *App, cmd *Commands) {
	MustResource[Environment](app, "RenderModule")
	MustResource[AssetServer](app, "RenderModule")
	if m.Renderer == nil {
		app.Logger().Warnf("RenderModule installed without a renderer; frames are dropped")
		return
	}
	renderer := m.Renderer
	app.UseSystem(
		System(func(input *Input, t *Time, env *Environment, assets *AssetServer, cmd *Commands) {
			renderSystem(renderer, input, t, env, assets, cmd)
		}).InStage(Render),
	)
}

func renderSystem(renderer Renderer, input *Input, t *Time, env *Environment, assets *AssetServer, cmd *Commands) {
	if input.Resized {
		renderer.Resize(input.ViewportWidth, input.ViewportHeight)
	}

	_, cam, ok := ActiveCamera(cmd)
	if !ok {
		return
	}
	frame := &Frame{
		Index:       t.Frame,
		Camera:      *cam,
		Environment: *env,
		Assets:      assets,
	}
	MakeQuery2[TransformComponent, BillboardComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, b *BillboardComponent) bool {
		frame.Billboards = append(frame.Billboards, BillboardInstance{Entity: eid, Transform: *tr, Billboard: *b})
		return true
	})
	MakeQuery2[TransformComponent, ModelComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, mc *ModelComponent) bool {
		frame.Models = append(frame.Models, ModelInstance{Entity: eid, Transform: *tr, Model: *mc})
		return true
	})

	if err := renderer.Render(frame); err != nil {
		cmd.Logger().Errorf("Render frame %d: %v", frame.Index, err)
	}
}
