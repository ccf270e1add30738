package main

import (
	"context"
	"errors"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"launcharc/internal/core/countdown"
	"launcharc/internal/core/model"
	"launcharc/internal/core/timeline"
	"launcharc/internal/platform"
	"launcharc/internal/storage"
	"launcharc/internal/ui/animation"
	"launcharc/internal/ui/arcview"
	"launcharc/internal/ui/panel"
	"launcharc/internal/ui/tray"
	"launcharc/resources"
)

const appName = "launcharc"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(logLevel())

	displayLock, err := platform.LockDisplay(appName)
	if err != nil {
		log.Error().Err(err).Msg("display lock")
		return
	}
	defer func() {
		_ = displayLock.Unlock()
	}()

	profile, err := storage.LoadProfile(appName)
	if err != nil {
		log.Warn().Err(err).Msg("profile load failed, using defaults")
	}

	clock := clockwork.NewRealClock()
	timer := countdown.New(clock, countdown.DefaultConfig())

	fyneApp := app.NewWithID("io.launcharc.display")
	fyneApp.SetIcon(resources.AppIcon())

	view := arcview.New(fyneApp, arcview.DefaultConfig())
	engine, err := timeline.New(timer, profile, view.Geometry(), timeline.DefaultOptions())
	if err != nil {
		log.Warn().Err(err).Msg("saved profile rejected, using defaults")
		engine, err = timeline.New(timer, resources.MustDefaultProfile(), view.Geometry(), timeline.DefaultOptions())
		if err != nil {
			log.Fatal().Err(err).Msg("default profile rejected")
		}
	}
	view.SetOnResize(engine.SetGeometry)

	frames := animation.New(animation.DefaultConfig(), clock, engine, view.Render)

	controlPanel := panel.New(fyneApp, engine, func(updated model.MissionProfile) {
		if err := storage.SaveProfile(appName, updated); err != nil {
			log.Error().Err(err).Msg("save profile")
		}
	}, frames.Redraw)

	ctx, cancel := context.WithCancel(context.Background())
	quit := func() {
		cancel()
		frames.Stop()
		engine.Dispose()
		fyneApp.Quit()
	}
	view.SetOnClose(quit)

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		desktopApp.SetSystemTrayIcon(resources.AppIcon())
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnToggleLaunch: func() { logRejected(engine.Toggle(), "toggle") },
			OnReset:        func() { logRejected(engine.Reset(), "reset") },
			OnJump: func(offsetSeconds float64) {
				logRejected(engine.Jump(offsetSeconds), "jump")
			},
			OnControlPanel: controlPanel.Show,
			OnQuit:         quit,
		})
		trayManager.SetClock(engine.Mode(), engine.Snapshot().OffsetSeconds)
		go followTimer(ctx, engine.Subscribe(16), trayManager)
	} else {
		log.Info().Msg("system tray unsupported on this platform")
	}

	frames.Start(ctx)
	view.Show()
	fyneApp.Run()
}

// followTimer mirrors state changes and whole-second ticks into the tray.
func followTimer(ctx context.Context, events <-chan countdown.Event, trayManager *tray.Manager) {
	lastShown := ""
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			label := tray.StatusLabel(event.Mode, event.OffsetSeconds)
			if event.Type == countdown.EventTick && label == lastShown {
				continue
			}
			lastShown = label
			fyne.Do(func() {
				trayManager.SetClock(event.Mode, event.OffsetSeconds)
			})
		}
	}
}

func logRejected(err error, action string) {
	if err == nil {
		return
	}
	if errors.Is(err, countdown.ErrDisposed) {
		return
	}
	log.Debug().Err(err).Str("action", action).Msg("tray action rejected")
}

func logLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(os.Getenv("LAUNCHARC_LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
