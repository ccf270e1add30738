package model

import "math"

// Layout names the angular span used to lay events around the arc.
type Layout string

const (
	LayoutHalf Layout = "half"
	LayoutFull Layout = "full"
)

// AngularSpan returns the span in radians that half a mission duration sweeps.
func (layout Layout) AngularSpan() (float64, bool) {
	switch layout {
	case LayoutHalf:
		return math.Pi / 2, true
	case LayoutFull:
		return math.Pi, true
	default:
		return 0, false
	}
}

// DensityProfile describes how past and future halves of the arc are compressed
// relative to a neutral average scale, and the offset window over which the
// engine blends from the average to the biased factors.
type DensityProfile struct {
	AverageFactor             float64
	PastFactor                float64
	FutureFactor              float64
	TransitionStartOffset     float64
	TransitionDurationSeconds float64
}

// Neutral reports whether every factor is identical, i.e. the blend is a no-op.
func (profile DensityProfile) Neutral() bool {
	return profile.AverageFactor == profile.PastFactor && profile.AverageFactor == profile.FutureFactor
}

// GeometryDescriptor locates the timeline circle inside the view.
type GeometryDescriptor struct {
	Radius     float64
	CenterX    float64
	CenterY    float64
	ViewHeight float64
}
