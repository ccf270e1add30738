package model

import "math"

// MissionProfile contains every per-mission value the engine needs.
type MissionProfile struct {
	MissionName string
	Vehicle     string

	Events []MissionEvent

	// MissionDurationSeconds is the span of real time represented by the arc.
	MissionDurationSeconds float64
	// CountdownSeconds is the T-minus magnitude the timer resets to.
	CountdownSeconds float64

	Layout  Layout
	Density DensityProfile
}

// DefaultEvents is the stock Falcon 9 timeline.
func DefaultEvents() []MissionEvent {
	return []MissionEvent{
		{TimestampSeconds: -300, Name: "ENGINE CHILL"},
		{TimestampSeconds: -65, Name: "STRONGBACK RETRACT"},
		{TimestampSeconds: -10, Name: "STARTUP"},
		{TimestampSeconds: 0, Name: "LIFTOFF"},
		{TimestampSeconds: 72, Name: "MAX-Q"},
		{TimestampSeconds: 145, Name: "STAGE SEP"},
		{TimestampSeconds: 195, Name: "FAIRING"},
		{TimestampSeconds: 380, Name: "ENTRY BURN"},
		{TimestampSeconds: 490, Name: "LANDING BURN"},
		{TimestampSeconds: 530, Name: "SECO-1"},
	}
}

// DefaultProfile returns the stock profile.
func DefaultProfile() MissionProfile {
	events := DefaultEvents()
	return MissionProfile{
		MissionName:            "Starlink",
		Vehicle:                "Falcon 9 Block 5",
		Events:                 events,
		MissionDurationSeconds: DefaultMissionDuration(events),
		CountdownSeconds:       DefaultCountdown(events),
		Layout:                 LayoutHalf,
		Density: DensityProfile{
			AverageFactor:             0.5,
			PastFactor:                2.0,
			FutureFactor:              1.0,
			TransitionStartOffset:     -9,
			TransitionDurationSeconds: 4,
		},
	}
}

// DefaultMissionDuration rounds the event span (including T-0) up to ten
// minutes and adds ten more; an empty span yields one hour.
func DefaultMissionDuration(events []MissionEvent) float64 {
	minTime, maxTime := 0.0, 0.0
	for _, event := range events {
		minTime = math.Min(minTime, event.TimestampSeconds)
		maxTime = math.Max(maxTime, event.TimestampSeconds)
	}
	span := maxTime - minTime
	if span <= 0 {
		return 3600
	}
	return math.Ceil(span/600)*600 + 600
}

// DefaultCountdown is the magnitude of the first negative event, or one minute.
func DefaultCountdown(events []MissionEvent) float64 {
	for _, event := range events {
		if event.TimestampSeconds < 0 {
			return math.Abs(event.TimestampSeconds)
		}
	}
	return 60
}

// InitialOffset converts a T-minus magnitude to the signed offset the timer starts from.
func InitialOffset(countdownSeconds float64) float64 {
	if math.IsNaN(countdownSeconds) || countdownSeconds <= 0 {
		return 0
	}
	return -countdownSeconds
}

// AngularSpan resolves the profile layout, defaulting to the half layout.
func (profile MissionProfile) AngularSpan() float64 {
	if span, ok := profile.Layout.AngularSpan(); ok {
		return span
	}
	span, _ := LayoutHalf.AngularSpan()
	return span
}
