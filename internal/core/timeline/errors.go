package timeline

import "errors"

var (
	ErrLastEvent         = errors.New("cannot remove the last event")
	ErrEventIndex        = errors.New("event index out of range")
	ErrInvalidJumpTarget = errors.New("jump target is not a whole number of seconds")
	ErrNoEvents          = errors.New("profile has no events")
	ErrInvalidDuration   = errors.New("mission duration must be positive")
	ErrInvalidLayout     = errors.New("unknown layout")
	ErrInvalidEventTime  = errors.New("event time must be finite")
	ErrInvalidCountdown  = errors.New("countdown must be non-negative and within the clock range")
	ErrInvalidDensity    = errors.New("density factors must be positive and the transition window finite")
)
