package countdown

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// MaxOffsetSeconds bounds every offset the timer accepts. The anchor is kept as
// a time.Duration from now, so offsets stay within half its range and a running
// clock has room to keep counting.
const MaxOffsetSeconds = float64(math.MaxInt64/int64(time.Second)) / 2

// Clock is the time source the timer reads.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

// Config contains runtime options for Timer.
type Config struct {
	TickInterval time.Duration
	// InitialOffset is the signed offset in seconds that Reset returns to.
	InitialOffset float64
}

// DefaultConfig ticks at 20 Hz from T-0.
func DefaultConfig() Config {
	return Config{TickInterval: 50 * time.Millisecond}
}

// State is a copy of the timer state.
type State struct {
	Mode          Mode
	Anchor        time.Time
	HasAnchor     bool
	PausedAt      time.Time
	OffsetSeconds float64
}

// Timer is a countdown/elapsed state machine anchored on a T-0 instant.
// While running, the offset is recomputed from the anchor on every tick, so
// pauses and jumps never accumulate drift.
type Timer struct {
	mu       sync.Mutex
	clock    Clock
	options  Config
	mode     Mode
	anchor   time.Time
	anchored bool
	pausedAt time.Time
	offset   float64
	events   []chan Event
	stopCh   chan struct{}
	disposed bool
}

// New creates an idle Timer at the configured initial offset.
func New(clock Clock, options Config) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if options.TickInterval <= 0 {
		options.TickInterval = DefaultConfig().TickInterval
	}
	return &Timer{
		clock:   clock,
		options: options,
		mode:    ModeIdle,
		offset:  options.InitialOffset,
	}
}

// Subscribe registers a new observer channel.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.disposed {
		close(ch)
		return ch
	}
	timer.events = append(timer.events, ch)
	return ch
}

// Start anchors T-0 from the current offset and begins ticking.
// Starting a running timer is a no-op; starting a paused timer resumes it.
func (timer *Timer) Start() error {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.disposed {
		return ErrDisposed
	}
	return timer.startLocked()
}

// Pause freezes the offset and stops the tick source.
func (timer *Timer) Pause() error {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.disposed {
		return ErrDisposed
	}
	return timer.pauseLocked()
}

// Resume shifts the anchor forward by the paused duration and ticks again.
func (timer *Timer) Resume() error {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.disposed {
		return ErrDisposed
	}
	if timer.mode != ModePaused {
		log.Debug().Str("mode", string(timer.mode)).Msg("resume rejected")
		return ErrNotPaused
	}
	return timer.resumeLocked()
}

// Toggle starts an idle timer, pauses a running one and resumes a paused one.
// The mode is read and switched under one lock, so concurrent toggles alternate.
func (timer *Timer) Toggle() error {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.disposed {
		return ErrDisposed
	}
	if timer.mode == ModeRunning {
		return timer.pauseLocked()
	}
	return timer.startLocked()
}

// Jump moves the offset to target seconds without changing the mode.
// A running timer keeps ticking from the new point; a paused one stays frozen
// there; an idle one is re-anchored on the next Start.
func (timer *Timer) Jump(targetOffsetSeconds float64) error {
	if !ValidOffset(targetOffsetSeconds) {
		log.Debug().Float64("target_seconds", targetOffsetSeconds).Msg("jump rejected")
		return fmt.Errorf("%w: %v", ErrInvalidOffset, targetOffsetSeconds)
	}

	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.disposed {
		return ErrDisposed
	}

	now := timer.clock.Now()
	timer.offset = targetOffsetSeconds
	switch timer.mode {
	case ModeRunning:
		timer.anchor = now.Add(-secondsToDuration(targetOffsetSeconds))
		timer.anchored = true
	case ModePaused:
		timer.anchor = now.Add(-secondsToDuration(targetOffsetSeconds))
		timer.anchored = true
		timer.pausedAt = now
	}

	timer.emitLocked(Event{Type: EventJump, Mode: timer.mode, OffsetSeconds: timer.offset, At: now})
	return nil
}

// Reset returns to idle at the configured initial offset.
func (timer *Timer) Reset() error {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.disposed {
		return ErrDisposed
	}
	timer.resetLocked()
	timer.emitLocked(Event{Type: EventStateChange, Mode: timer.mode, OffsetSeconds: timer.offset, At: timer.clock.Now()})
	return nil
}

// SetInitialOffset changes the offset Reset returns to. An idle timer adopts it immediately.
func (timer *Timer) SetInitialOffset(offsetSeconds float64) error {
	if !ValidOffset(offsetSeconds) {
		return fmt.Errorf("%w: %v", ErrInvalidOffset, offsetSeconds)
	}
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.options.InitialOffset = offsetSeconds
	if timer.mode == ModeIdle && !timer.disposed {
		timer.offset = offsetSeconds
	}
	return nil
}

// Tick recomputes the offset from the anchor. It is a no-op unless running.
func (timer *Timer) Tick() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.disposed || timer.mode != ModeRunning {
		return
	}
	now := timer.clock.Now()
	timer.tickLocked(now)
	timer.emitLocked(Event{Type: EventTick, Mode: timer.mode, OffsetSeconds: timer.offset, At: now})
}

// Offset returns the offset computed on the last tick.
func (timer *Timer) Offset() float64 {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.offset
}

// Mode returns the current mode.
func (timer *Timer) Mode() Mode {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.mode
}

// State returns a copy of the full timer state.
func (timer *Timer) State() State {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return State{
		Mode:          timer.mode,
		Anchor:        timer.anchor,
		HasAnchor:     timer.anchored,
		PausedAt:      timer.pausedAt,
		OffsetSeconds: timer.offset,
	}
}

// Dispose stops the tick source and closes observers. The timer is unusable afterwards.
func (timer *Timer) Dispose() {
	timer.mu.Lock()
	if timer.disposed {
		timer.mu.Unlock()
		return
	}
	timer.stopTickerLocked()
	timer.disposed = true
	timer.mode = ModeIdle
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (timer *Timer) startLocked() error {
	switch timer.mode {
	case ModeRunning:
		log.Debug().Float64("offset_seconds", timer.offset).Msg("start ignored: timer already running")
		return nil
	case ModePaused:
		return timer.resumeLocked()
	}

	now := timer.clock.Now()
	timer.anchor = now.Add(-secondsToDuration(timer.offset))
	timer.anchored = true
	timer.pausedAt = time.Time{}
	timer.mode = ModeRunning
	timer.startTickerLocked()
	timer.tickLocked(now)

	timer.emitLocked(Event{Type: EventStateChange, Mode: timer.mode, OffsetSeconds: timer.offset, At: now})
	return nil
}

func (timer *Timer) pauseLocked() error {
	if timer.mode != ModeRunning {
		log.Debug().Str("mode", string(timer.mode)).Msg("pause rejected")
		return ErrNotRunning
	}

	now := timer.clock.Now()
	timer.tickLocked(now)
	timer.pausedAt = now
	timer.mode = ModePaused
	timer.stopTickerLocked()

	timer.emitLocked(Event{Type: EventStateChange, Mode: timer.mode, OffsetSeconds: timer.offset, At: now})
	return nil
}

func (timer *Timer) resumeLocked() error {
	now := timer.clock.Now()
	if !timer.anchored {
		log.Warn().Msg("resume aborted: no T-0 anchor")
		timer.resetLocked()
		timer.emitLocked(Event{Type: EventStateChange, Mode: timer.mode, OffsetSeconds: timer.offset, At: now})
		return ErrNoAnchor
	}

	if !timer.pausedAt.IsZero() {
		timer.anchor = timer.anchor.Add(now.Sub(timer.pausedAt))
	}
	timer.pausedAt = time.Time{}
	timer.mode = ModeRunning
	timer.startTickerLocked()
	timer.tickLocked(now)

	timer.emitLocked(Event{Type: EventStateChange, Mode: timer.mode, OffsetSeconds: timer.offset, At: now})
	return nil
}

func (timer *Timer) resetLocked() {
	timer.stopTickerLocked()
	timer.mode = ModeIdle
	timer.anchor = time.Time{}
	timer.anchored = false
	timer.pausedAt = time.Time{}
	timer.offset = timer.options.InitialOffset
}

func (timer *Timer) tickLocked(now time.Time) {
	timer.offset = now.Sub(timer.anchor).Seconds()
}

func (timer *Timer) startTickerLocked() {
	timer.stopTickerLocked()
	stopCh := make(chan struct{})
	timer.stopCh = stopCh
	go timer.run(stopCh)
}

func (timer *Timer) stopTickerLocked() {
	if timer.stopCh != nil {
		close(timer.stopCh)
		timer.stopCh = nil
	}
}

func (timer *Timer) run(stopCh chan struct{}) {
	ticker := timer.clock.NewTicker(timer.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			timer.Tick()
		}
	}
}

func (timer *Timer) emitLocked(event Event) {
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// ValidOffset reports whether offsetSeconds is finite and within MaxOffsetSeconds.
func ValidOffset(offsetSeconds float64) bool {
	return !math.IsNaN(offsetSeconds) && math.Abs(offsetSeconds) <= MaxOffsetSeconds
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
