package clock

import (
	"github.com/jonboulle/clockwork"
)

// Clock provides time operations and timers that can be mocked for testing
type Clock = clockwork.Clock

// Timer is a pending callback created by Clock.AfterFunc
type Timer = clockwork.Timer

// New creates a Clock backed by the system clock
func New() Clock {
	return clockwork.NewRealClock()
}
