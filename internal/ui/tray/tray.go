package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"launcharc/internal/core/countdown"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggleLaunch func()
	OnReset        func()
	OnJump         func(offsetSeconds float64)
	OnControlPanel func()
	OnQuit         func()
}

// JumpTargets are the offsets offered in the "Jump to" submenu.
var JumpTargets = []float64{-60, -10, 0, 60}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	launchItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	jumpItem   *fyne.MenuItem
	callbacks  Callbacks
	mode       countdown.Mode
	offset     float64
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		mode:      countdown.ModeIdle,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.launchItem = fyne.NewMenuItem(LaunchLabel(countdown.ModeIdle), func() {
		if manager.callbacks.OnToggleLaunch != nil {
			manager.callbacks.OnToggleLaunch()
		}
	})

	manager.resetItem = fyne.NewMenuItem("Reset clock", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	jumps := make([]*fyne.MenuItem, 0, len(JumpTargets))
	for _, target := range JumpTargets {
		jumps = append(jumps, fyne.NewMenuItem(JumpLabel(target), func() {
			if manager.callbacks.OnJump != nil {
				manager.callbacks.OnJump(target)
			}
		}))
	}
	manager.jumpItem = fyne.NewMenuItem("Jump to...", nil)
	manager.jumpItem.ChildMenu = fyne.NewMenu("", jumps...)

	manager.refreshMenu()
	return manager
}

// SetClock updates the status label and launch item from the timer.
func (manager *Manager) SetClock(mode countdown.Mode, offsetSeconds float64) {
	manager.mode = mode
	manager.offset = offsetSeconds
	manager.statusItem.Label = StatusLabel(mode, offsetSeconds)
	manager.launchItem.Label = LaunchLabel(mode)
	manager.refreshMenu()
}

// StatusLabel renders the tray status line, e.g. "Status: T-00:04:59 (paused)".
func StatusLabel(mode countdown.Mode, offsetSeconds float64) string {
	clock := countdown.FormatClock(offsetSeconds)
	status := fmt.Sprintf("Status: T%s%s", clock.Sign, clock.Time)
	switch mode {
	case countdown.ModePaused:
		status += " (paused)"
	case countdown.ModeIdle:
		status += " (holding)"
	}
	return status
}

// LaunchLabel names the toggle action for the current mode.
func LaunchLabel(mode countdown.Mode) string {
	switch mode {
	case countdown.ModeRunning:
		return "Pause"
	case countdown.ModePaused:
		return "Resume"
	default:
		return "Launch"
	}
}

// JumpLabel renders a jump target as "T-10" or "T+60".
func JumpLabel(offsetSeconds float64) string {
	if offsetSeconds < 0 {
		return fmt.Sprintf("T%g", offsetSeconds)
	}
	return fmt.Sprintf("T+%g", offsetSeconds)
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("launcharc",
		manager.statusItem,
		manager.launchItem,
		manager.resetItem,
		manager.jumpItem,
		fyne.NewMenuItem("Control panel", func() {
			if manager.callbacks.OnControlPanel != nil {
				manager.callbacks.OnControlPanel()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
