package colorfade

// Transition fades event markers from a future color to a present color over a
// window of DurationSeconds centred on the instant an event crosses "now".
type Transition struct {
	DurationSeconds float64
	Future          RGBA
	Present         RGBA
	InnerDotStart   RGBA
	Ease            Easing
}

// Marker is the color state of one event marker.
type Marker struct {
	Color              RGBA `json:"color"`
	InnerDotColor      RGBA `json:"inner_dot_color"`
	ShouldDrawInnerDot bool `json:"should_draw_inner_dot"`
}

// DefaultTransition is a one second window from translucent to solid white.
func DefaultTransition() Transition {
	return Transition{
		DurationSeconds: 1.0,
		Future:          RGBA{R: 255, G: 255, B: 255, A: 0.3},
		Present:         RGBA{R: 255, G: 255, B: 255, A: 1},
		InnerDotStart:   RGBA{R: 255, G: 255, B: 255, A: 0},
		Ease:            EaseInOutSine,
	}
}

// At returns the marker colors for an event timeRelativeToNow seconds away
// (positive means the event is still in the future).
func (transition Transition) At(timeRelativeToNow float64) Marker {
	half := transition.DurationSeconds / 2
	marker := Marker{ShouldDrawInnerDot: timeRelativeToNow <= half}

	if transition.DurationSeconds > 0 && timeRelativeToNow <= half && timeRelativeToNow >= -half {
		progress := (half - timeRelativeToNow) / transition.DurationSeconds
		ease := transition.Ease
		if ease == nil {
			ease = EaseInOutSine
		}
		marker.Color = Interpolate(transition.Future, transition.Present, progress, ease)
		marker.InnerDotColor = Interpolate(transition.InnerDotStart, transition.Present, progress, ease)
		return marker
	}

	if timeRelativeToNow > 0 {
		marker.Color = transition.Future
		marker.InnerDotColor = transition.InnerDotStart
	} else {
		marker.Color = transition.Present
		marker.InnerDotColor = transition.Present
	}
	return marker
}
