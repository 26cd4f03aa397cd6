// Package scroll drives a camera and an attached object along a travel axis
// from wheel input, with a sinusoidal lateral sway and a wrap-around reset.
package scroll

import (
	"math"
	"time"
)

const (
	DefaultScrollGain     = 0.1
	DefaultPeriod         = 60.0
	DefaultAmplitude      = 3.0
	DefaultAttachedOffset = -25.0
	DefaultWrapThreshold  = -2500.0
	DefaultFovDegrees     = 60.0
)

type Config struct {
	// ScrollGain scales wheel deltas into depth and wall-clock millis into
	// the sway phase.
	ScrollGain     float64
	Period         float64
	Amplitude      float64
	AttachedOffset float64
	WrapThreshold  float64
	FovDegrees     float64
	ViewportHeight float64

	// Clock is read by OnWheel. Defaults to time.Now.
	Clock func() time.Time
}

func DefaultConfig(viewportHeight float64) Config {
	return Config{
		ScrollGain:     DefaultScrollGain,
		Period:         DefaultPeriod,
		Amplitude:      DefaultAmplitude,
		AttachedOffset: DefaultAttachedOffset,
		WrapThreshold:  DefaultWrapThreshold,
		FovDegrees:     DefaultFovDegrees,
		ViewportHeight: viewportHeight,
		Clock:          time.Now,
	}
}

// ResetDepth is the distance at which a viewport of the given height exactly
// fills a perspective camera's vertical field of view.
func ResetDepth(viewportHeight, fovDegrees float64) float64 {
	fovRad := (fovDegrees / 2) * (math.Pi / 180)
	return viewportHeight / 2 / math.Tan(fovRad)
}

// State is a snapshot of the animator.
// AttachedDepth == CameraDepth + AttachedOffset after every update.
type State struct {
	CameraDepth         float64
	AttachedOffset      float64
	AttachedDepth       float64
	LateralDisplacement float64
	WrapThreshold       float64
	ResetDepth          float64

	// Wrapped reports whether the last update reset the camera depth.
	Wrapped bool
	Wraps   int
}

// Animator owns one State. It is not safe for concurrent use; the render
// loop that ticks it also delivers its wheel events.
type Animator struct {
	cfg     Config
	state   State
	stopped bool
}

// NewAnimator starts the camera at the reset depth, like a fresh scene.
func NewAnimator(cfg Config) *Animator {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Period == 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.FovDegrees == 0 {
		cfg.FovDegrees = DefaultFovDegrees
	}
	reset := ResetDepth(cfg.ViewportHeight, cfg.FovDegrees)
	a := &Animator{
		cfg: cfg,
		state: State{
			AttachedOffset: cfg.AttachedOffset,
			WrapThreshold:  cfg.WrapThreshold,
			ResetDepth:     reset,
		},
	}
	a.setDepth(reset)
	return a
}

func (a *Animator) Config() Config { return a.cfg }

func (a *Animator) State() State { return a.state }

// SetDepth moves the camera directly, keeping the attached depth in step.
func (a *Animator) SetDepth(depth float64) State {
	if a.stopped {
		return a.state
	}
	a.setDepth(depth)
	return a.state
}

func (a *Animator) setDepth(depth float64) {
	a.state.CameraDepth = depth
	a.state.AttachedDepth = depth + a.state.AttachedOffset
}

// SetViewportHeight recomputes the reset depth for a resized viewport.
func (a *Animator) SetViewportHeight(height float64) {
	a.cfg.ViewportHeight = height
	a.state.ResetDepth = ResetDepth(height, a.cfg.FovDegrees)
}

// OnWheel advances the camera by delta*ScrollGain and runs a tick at the
// current clock time. Negative deltas move toward the wrap threshold.
func (a *Animator) OnWheel(delta float64) State {
	return a.OnWheelAt(delta, a.cfg.Clock())
}

func (a *Animator) OnWheelAt(delta float64, now time.Time) State {
	if a.stopped {
		return a.state
	}
	a.state.CameraDepth += delta * a.cfg.ScrollGain
	return a.Tick(Millis(now))
}

// TickAt is Tick with a wall-clock time.
func (a *Animator) TickAt(now time.Time) State {
	return a.Tick(Millis(now))
}

// Tick recomputes the lateral sway from nowMillis, wraps the camera back to
// the reset depth once it passes the threshold and re-derives the attached depth.
func (a *Animator) Tick(nowMillis float64) State {
	if a.stopped {
		return a.state
	}
	s := &a.state
	s.LateralDisplacement = math.Sin((nowMillis*a.cfg.ScrollGain)/a.cfg.Period) * a.cfg.Amplitude

	s.Wrapped = false
	if s.CameraDepth < s.WrapThreshold {
		s.CameraDepth = s.ResetDepth
		s.Wrapped = true
		s.Wraps++
	}
	s.AttachedDepth = s.CameraDepth + s.AttachedOffset
	return *s
}

// Stop freezes the animator; later events are ignored.
func (a *Animator) Stop() { a.stopped = true }

func (a *Animator) Stopped() bool { return a.stopped }

// Millis converts t to fractional Unix milliseconds.
func Millis(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Millisecond)
}
