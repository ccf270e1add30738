package countdown

import "time"

// Mode represents the current timer mode.
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeRunning Mode = "running"
	ModePaused  Mode = "paused"
)

// EventType defines the type of timer event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventJump        EventType = "jump"
)

// Event represents a timer update for observers.
type Event struct {
	Type          EventType
	Mode          Mode
	OffsetSeconds float64
	At            time.Time
}
