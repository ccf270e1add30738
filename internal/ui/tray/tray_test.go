package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launcharc/internal/core/countdown"
)

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		name   string
		mode   countdown.Mode
		offset float64
		want   string
	}{
		{"holding", countdown.ModeIdle, -300, "Status: T-00:05:00 (holding)"},
		{"running before T-0", countdown.ModeRunning, -299.2, "Status: T-00:05:00"},
		{"paused", countdown.ModePaused, -299, "Status: T-00:04:59 (paused)"},
		{"after T-0", countdown.ModeRunning, 3725.9, "Status: T+01:02:05"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusLabel(tc.mode, tc.offset))
		})
	}
}

func TestLaunchLabel(t *testing.T) {
	assert.Equal(t, "Launch", LaunchLabel(countdown.ModeIdle))
	assert.Equal(t, "Pause", LaunchLabel(countdown.ModeRunning))
	assert.Equal(t, "Resume", LaunchLabel(countdown.ModePaused))
}

func TestJumpLabel(t *testing.T) {
	assert.Equal(t, "T-10", JumpLabel(-10))
	assert.Equal(t, "T+0", JumpLabel(0))
	assert.Equal(t, "T+60", JumpLabel(60))
}

func TestManagerWithoutDesktopTracksClock(t *testing.T) {
	var jumped []float64
	manager := New(nil, Callbacks{OnJump: func(offset float64) { jumped = append(jumped, offset) }})

	manager.SetClock(countdown.ModeRunning, -9.5)
	assert.Equal(t, "Status: T-00:00:10", manager.statusItem.Label)
	assert.Equal(t, "Pause", manager.launchItem.Label)

	items := manager.jumpItem.ChildMenu.Items
	require.Len(t, items, len(JumpTargets))
	items[1].Action()
	items[2].Action()
	assert.Equal(t, []float64{-10, 0}, jumped)
}
