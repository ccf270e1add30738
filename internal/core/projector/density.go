package projector

import (
	"launcharc/internal/core/colorfade"
	"launcharc/internal/core/model"
)

// Scale holds the density factors in effect for one offset.
type Scale struct {
	Past   float64
	Future float64
}

// BlendScale eases the density factors from the profile average to the
// past/future bias as the offset crosses the transition window.
func BlendScale(offsetSeconds float64, profile model.DensityProfile) Scale {
	if profile.Neutral() {
		return Scale{Past: profile.AverageFactor, Future: profile.AverageFactor}
	}

	start := profile.TransitionStartOffset
	end := start + profile.TransitionDurationSeconds

	switch {
	case offsetSeconds < start:
		return Scale{Past: profile.AverageFactor, Future: profile.AverageFactor}
	case offsetSeconds >= end || profile.TransitionDurationSeconds <= 0:
		return Scale{Past: profile.PastFactor, Future: profile.FutureFactor}
	}

	progress := colorfade.EaseInOutSine((offsetSeconds - start) / profile.TransitionDurationSeconds)
	return Scale{
		Past:   profile.AverageFactor*(1-progress) + profile.PastFactor*progress,
		Future: profile.AverageFactor*(1-progress) + profile.FutureFactor*progress,
	}
}

// Map converts a real offset to virtual time; T-0 and earlier use the past factor.
func (scale Scale) Map(seconds float64) float64 {
	if seconds <= 0 {
		return seconds * scale.Past
	}
	return seconds * scale.Future
}
