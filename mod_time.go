package seascape

import (
	"time"
)

type Time struct {
	Now   time.Time
	Dt    time.Duration
	Frame uint64
}

// TimeModule samples Clock once per frame. Clock defaults to time.Now.
type TimeModule struct {
	Clock func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := mod.Clock
	if clock == nil {
		clock = time.Now
	}
	cmd.AddResources(&Time{
		Now: clock(),
		Dt:  0,
	})
	app.UseSystem(
		System(func(t *Time) {
			timeSystem(t, clock())
		}).InStage(PreUpdate),
	)
}

func timeSystem(timeResource *Time, now time.Time) {
	timeResource.Dt = now.Sub(timeResource.Now)
	timeResource.Now = now
	timeResource.Frame++
}
