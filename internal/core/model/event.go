package model

import "fmt"

// MissionEvent is a named instant on the mission timeline, in seconds relative to T-0.
type MissionEvent struct {
	TimestampSeconds float64
	Name             string
}

// DisplayName falls back to a positional label when the event has no name.
func (event MissionEvent) DisplayName(index int) string {
	if event.Name != "" {
		return event.Name
	}
	return fmt.Sprintf("Event %d", index+1)
}

// CloneEvents returns a copy that callers may mutate freely.
func CloneEvents(events []MissionEvent) []MissionEvent {
	return append([]MissionEvent(nil), events...)
}
