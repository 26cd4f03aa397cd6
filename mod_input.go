package seascape

// WheelDeltaPerNotch converts one wheel notch into browser wheelDelta units.
// Positive deltas scroll away from the user.
const WheelDeltaPerNotch = 120.0

// Input is the per-frame view of platform events.
type Input struct {
	// Wheel holds the deltas delivered this frame, in arrival order.
	Wheel []float64

	// Viewport size in logical pixels.
	ViewportWidth, ViewportHeight int
	DevicePixelRatio              float64

	Resized        bool
	CloseRequested bool
}

// EventSource delivers platform events into Input once per frame.
type EventSource interface {
	PollEvents(input *Input)
}

// EventQueue buffers events between frames. It implements EventSource.
type EventQueue struct {
	wheel  []float64
	resize *[2]int
	dpr    float64
	closed bool
}

func (q *EventQueue) PushWheel(delta float64) {
	q.wheel = append(q.wheel, delta)
}

func (q *EventQueue) PushResize(width, height int) {
	q.resize = &[2]int{width, height}
}

func (q *EventQueue) PushDevicePixelRatio(ratio float64) {
	q.dpr = ratio
}

func (q *EventQueue) PushClose() {
	q.closed = true
}

func (q *EventQueue) PollEvents(input *Input) {
	input.Wheel = append(input.Wheel, q.wheel...)
	q.wheel = q.wheel[:0]

	if q.resize != nil {
		if q.resize[0] != input.ViewportWidth || q.resize[1] != input.ViewportHeight {
			input.ViewportWidth, input.ViewportHeight = q.resize[0], q.resize[1]
			input.Resized = true
		}
		q.resize = nil
	}
	if q.dpr > 0 {
		input.DevicePixelRatio = q.dpr
		q.dpr = 0
	}
	if q.closed {
		input.CloseRequested = true
	}
}

type InputModule struct {
	Source           EventSource
	Width, Height    int
	DevicePixelRatio float64
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	dpr := mod.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	cmd.AddResources(&Input{
		ViewportWidth:    mod.Width,
		ViewportHeight:   mod.Height,
		DevicePixelRatio: dpr,
	})
	app.UseSystem(
		System(func(input *Input, cmd *Commands) {
			inputSystem(mod.Source, input, cmd)
		}).InStage(PreUpdate),
	)
}

func inputSystem(source EventSource, input *Input, cmd *Commands) {
	input.Wheel = input.Wheel[:0]
	input.Resized = false

	if source != nil {
		source.PollEvents(input)
	}

	if input.CloseRequested {
		cmd.Exit()
	}
}
