package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts wall time so TTLs and calendar windows can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock reports server-local wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func provideClock() Clock {
	return SystemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(provideClock),
)
