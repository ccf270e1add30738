package timeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"launcharc/internal/core/colorfade"
	"launcharc/internal/core/countdown"
	"launcharc/internal/core/model"
	"launcharc/internal/core/projector"
)

// Options tunes rendering constants that are not part of a mission profile.
type Options struct {
	// Projection supplies node radii, label offsets and view-window filtering.
	// Mission duration, angular span and density always come from the profile.
	Projection projector.Config
	Transition colorfade.Transition
}

// DefaultOptions returns the stock projection and color fade.
func DefaultOptions() Options {
	return Options{
		Projection: projector.DefaultConfig(),
		Transition: colorfade.DefaultTransition(),
	}
}

// Engine owns the countdown timer and the mission profile and composes them
// into per-frame snapshots.
type Engine struct {
	mu       sync.RWMutex
	timer    *countdown.Timer
	profile  model.MissionProfile
	geometry model.GeometryDescriptor
	options  Options
}

// New binds a timer to a profile. The timer's reset offset follows the
// profile countdown from here on.
func New(timer *countdown.Timer, profile model.MissionProfile, geometry model.GeometryDescriptor, options Options) (*Engine, error) {
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}
	if timer == nil {
		timer = countdown.New(nil, countdown.DefaultConfig())
	}
	profile.Events = model.CloneEvents(profile.Events)
	if err := timer.SetInitialOffset(model.InitialOffset(profile.CountdownSeconds)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCountdown, err)
	}

	return &Engine{
		timer:    timer,
		profile:  profile,
		geometry: geometry,
		options:  options,
	}, nil
}

// ValidateProfile rejects profiles the engine cannot project.
func ValidateProfile(profile model.MissionProfile) error {
	if len(profile.Events) == 0 {
		return ErrNoEvents
	}
	if !(profile.MissionDurationSeconds > 0) || math.IsInf(profile.MissionDurationSeconds, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, profile.MissionDurationSeconds)
	}
	if _, ok := profile.Layout.AngularSpan(); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLayout, profile.Layout)
	}
	for index, event := range profile.Events {
		if !finite(event.TimestampSeconds) {
			return fmt.Errorf("event %d: %w", index, ErrInvalidEventTime)
		}
	}
	if !validCountdown(profile.CountdownSeconds) {
		return fmt.Errorf("%w: %v", ErrInvalidCountdown, profile.CountdownSeconds)
	}
	return ValidateDensity(profile.Density)
}

// ValidateDensity requires positive finite factors, a finite transition start
// and a finite non-negative transition duration.
func ValidateDensity(density model.DensityProfile) error {
	factors := []float64{density.AverageFactor, density.PastFactor, density.FutureFactor}
	for _, factor := range factors {
		if !(factor > 0) || math.IsInf(factor, 0) {
			return fmt.Errorf("%w: factor %v", ErrInvalidDensity, factor)
		}
	}
	if !finite(density.TransitionStartOffset) {
		return fmt.Errorf("%w: transition start %v", ErrInvalidDensity, density.TransitionStartOffset)
	}
	if !finite(density.TransitionDurationSeconds) || density.TransitionDurationSeconds < 0 {
		return fmt.Errorf("%w: transition duration %v", ErrInvalidDensity, density.TransitionDurationSeconds)
	}
	return nil
}

func (engine *Engine) Start() error  { return engine.timer.Start() }
func (engine *Engine) Pause() error  { return engine.timer.Pause() }
func (engine *Engine) Resume() error { return engine.timer.Resume() }
func (engine *Engine) Toggle() error { return engine.timer.Toggle() }
func (engine *Engine) Reset() error  { return engine.timer.Reset() }

// Jump moves the clock to targetOffsetSeconds without changing the mode.
func (engine *Engine) Jump(targetOffsetSeconds float64) error {
	return engine.timer.Jump(targetOffsetSeconds)
}

// JumpTo parses a signed whole number of seconds, as typed by an operator,
// and jumps there. Invalid input leaves the clock untouched.
func (engine *Engine) JumpTo(raw string) error {
	target, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Debug().Str("input", raw).Msg("jump rejected")
		return fmt.Errorf("%w: %q", ErrInvalidJumpTarget, raw)
	}
	return engine.timer.Jump(float64(target))
}

// Subscribe forwards timer events to the caller.
func (engine *Engine) Subscribe(buffer int) <-chan countdown.Event {
	return engine.timer.Subscribe(buffer)
}

// Mode returns the timer mode.
func (engine *Engine) Mode() countdown.Mode {
	return engine.timer.Mode()
}

// AddEvent appends an event at T-0 and returns its index. An empty name
// becomes "New Event N".
func (engine *Engine) AddEvent(name string) int {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("New Event %d", len(engine.profile.Events)+1)
	}
	engine.profile.Events = append(engine.profile.Events, model.MissionEvent{TimestampSeconds: 0, Name: name})
	return len(engine.profile.Events) - 1
}

// RemoveEvent deletes the event at index. The last event cannot be removed.
func (engine *Engine) RemoveEvent(index int) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if err := engine.checkIndexLocked(index); err != nil {
		return err
	}
	if len(engine.profile.Events) <= 1 {
		log.Debug().Int("index", index).Msg("remove rejected: last event")
		return ErrLastEvent
	}
	engine.profile.Events = append(engine.profile.Events[:index:index], engine.profile.Events[index+1:]...)
	return nil
}

// RenameEvent changes the name of the event at index.
func (engine *Engine) RenameEvent(index int, name string) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if err := engine.checkIndexLocked(index); err != nil {
		return err
	}
	engine.profile.Events[index].Name = name
	return nil
}

// SetEventTime moves the event at index to timestampSeconds.
func (engine *Engine) SetEventTime(index int, timestampSeconds float64) error {
	if !finite(timestampSeconds) {
		return ErrInvalidEventTime
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()

	if err := engine.checkIndexLocked(index); err != nil {
		return err
	}
	engine.profile.Events[index].TimestampSeconds = timestampSeconds
	return nil
}

// Events returns a copy of the event list.
func (engine *Engine) Events() []model.MissionEvent {
	engine.mu.RLock()
	defer engine.mu.RUnlock()
	return model.CloneEvents(engine.profile.Events)
}

// SetMissionDuration changes the span of real time the arc represents.
func (engine *Engine) SetMissionDuration(seconds float64) error {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, seconds)
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.profile.MissionDurationSeconds = seconds
	return nil
}

// SetCountdown changes the T-minus magnitude the timer resets to.
func (engine *Engine) SetCountdown(seconds float64) error {
	if !validCountdown(seconds) {
		return fmt.Errorf("%w: %v", ErrInvalidCountdown, seconds)
	}
	if err := engine.timer.SetInitialOffset(model.InitialOffset(seconds)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCountdown, err)
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.profile.CountdownSeconds = seconds
	return nil
}

// SetDensity replaces the density profile.
func (engine *Engine) SetDensity(density model.DensityProfile) error {
	if err := ValidateDensity(density); err != nil {
		return err
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.profile.Density = density
	return nil
}

// SetLayout switches between the half and full arc layouts.
func (engine *Engine) SetLayout(layout model.Layout) error {
	if _, ok := layout.AngularSpan(); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLayout, layout)
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.profile.Layout = layout
	return nil
}

// SetGeometry replaces the geometry, e.g. after the view is resized.
func (engine *Engine) SetGeometry(geometry model.GeometryDescriptor) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.geometry = geometry
}

// Geometry returns the current geometry.
func (engine *Engine) Geometry() model.GeometryDescriptor {
	engine.mu.RLock()
	defer engine.mu.RUnlock()
	return engine.geometry
}

// LoadProfile replaces the mission profile. The clock keeps running; an idle
// timer moves to the new countdown.
func (engine *Engine) LoadProfile(profile model.MissionProfile) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}
	profile.Events = model.CloneEvents(profile.Events)

	if err := engine.timer.SetInitialOffset(model.InitialOffset(profile.CountdownSeconds)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCountdown, err)
	}

	engine.mu.Lock()
	engine.profile = profile
	engine.mu.Unlock()
	log.Info().Str("mission", profile.MissionName).Int("events", len(profile.Events)).Msg("profile loaded")
	return nil
}

// Profile returns a copy of the current profile.
func (engine *Engine) Profile() model.MissionProfile {
	engine.mu.RLock()
	defer engine.mu.RUnlock()
	profile := engine.profile
	profile.Events = model.CloneEvents(profile.Events)
	return profile
}

// Snapshot composes the current frame.
func (engine *Engine) Snapshot() Snapshot {
	state := engine.timer.State()

	engine.mu.RLock()
	defer engine.mu.RUnlock()

	projection := engine.options.Projection.ForProfile(engine.profile)

	clock := countdown.FormatClock(state.OffsetSeconds)
	return Snapshot{
		OffsetSeconds:          state.OffsetSeconds,
		Mode:                   state.Mode,
		Clock:                  clock,
		IsTPlus:                clock.Positive(),
		MissionName:            engine.profile.MissionName,
		Vehicle:                engine.profile.Vehicle,
		MissionDurationSeconds: engine.profile.MissionDurationSeconds,
		EventCount:             len(engine.profile.Events),
		NodeRadius:             projection.NodeRadius,
		InnerDotRadius:         projection.InnerDotRadius,
		Nodes:                  Compose(state.OffsetSeconds, engine.profile.Events, projection, engine.options.Transition, engine.geometry),
	}
}

// Dispose stops the timer. The engine must not be used afterwards.
func (engine *Engine) Dispose() {
	engine.timer.Dispose()
}

func (engine *Engine) checkIndexLocked(index int) error {
	if index < 0 || index >= len(engine.profile.Events) {
		return fmt.Errorf("%w: %d", ErrEventIndex, index)
	}
	return nil
}

func validCountdown(seconds float64) bool {
	return finite(seconds) && seconds >= 0 && seconds <= countdown.MaxOffsetSeconds
}

func finite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
