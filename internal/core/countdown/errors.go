package countdown

import "errors"

var (
	// ErrNotRunning is returned by Pause outside the running mode.
	ErrNotRunning = errors.New("timer is not running")
	// ErrNotPaused is returned by Resume outside the paused mode.
	ErrNotPaused = errors.New("timer is not paused")
	// ErrNoAnchor means a run was requested without a T-0 anchor; the timer falls back to idle.
	ErrNoAnchor = errors.New("timer has no T-0 anchor")
	// ErrInvalidOffset rejects NaN offsets and offsets beyond MaxOffsetSeconds.
	ErrInvalidOffset = errors.New("invalid offset")
	// ErrDisposed is returned by every operation after Dispose.
	ErrDisposed = errors.New("timer disposed")
)
