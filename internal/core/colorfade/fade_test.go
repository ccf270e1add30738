package colorfade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionOutsideWindow(t *testing.T) {
	transition := DefaultTransition()

	future := transition.At(10)
	assert.Equal(t, transition.Future, future.Color)
	assert.Equal(t, transition.InnerDotStart, future.InnerDotColor)
	assert.False(t, future.ShouldDrawInnerDot)

	past := transition.At(-10)
	assert.Equal(t, transition.Present, past.Color)
	assert.Equal(t, transition.Present, past.InnerDotColor)
	assert.True(t, past.ShouldDrawInnerDot)
}

func TestTransitionWindowEdges(t *testing.T) {
	transition := DefaultTransition()

	leading := transition.At(0.5)
	assert.Equal(t, transition.Future, leading.Color)
	assert.True(t, leading.ShouldDrawInnerDot)

	trailing := transition.At(-0.5)
	assert.Equal(t, transition.Present.R, trailing.Color.R)
	assert.InDelta(t, transition.Present.A, trailing.Color.A, 1e-12)

	middle := transition.At(0)
	assert.InDelta(t, 0.65, middle.Color.A, 1e-9)
	assert.InDelta(t, 0.5, middle.InnerDotColor.A, 1e-9)
}

func TestTransitionZeroDurationSwitchesAbruptly(t *testing.T) {
	transition := DefaultTransition()
	transition.DurationSeconds = 0

	assert.Equal(t, transition.Future, transition.At(0.01).Color)
	assert.Equal(t, transition.Present, transition.At(0).Color)
	assert.True(t, transition.At(0).ShouldDrawInnerDot)
}
