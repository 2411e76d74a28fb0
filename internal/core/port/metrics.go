package port

import "time"

type Metrics interface {
	// CommandHandled counts a finished command invocation.
	CommandHandled(command string, err error)
	// ObserveStep records the duration of one step of the pp pipeline.
	ObserveStep(step string, duration time.Duration)
	// ColorFallback counts a cover colour replaced by the default.
	ColorFallback()
}
