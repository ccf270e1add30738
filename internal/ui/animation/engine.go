// Package animation drives per-frame redraws of the timeline.
package animation

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"launcharc/internal/core/timeline"
)

// SnapshotSource produces the frame to draw.
type SnapshotSource interface {
	Snapshot() timeline.Snapshot
}

// Config contains frame timing values.
type Config struct {
	FrameInterval time.Duration
}

// DefaultConfig redraws at 30 frames per second.
func DefaultConfig() Config {
	return Config{FrameInterval: time.Second / 30}
}

// Engine pulls a snapshot on every frame and hands it to the sink.
type Engine struct {
	mu     sync.Mutex
	config Config
	clock  clockwork.Clock
	source SnapshotSource
	sink   func(timeline.Snapshot)
	cancel context.CancelFunc
	frames uint64
}

// New creates a new frame driver. A nil clock uses the wall clock.
func New(config Config, clock clockwork.Clock, source SnapshotSource, sink func(timeline.Snapshot)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{
		config: config,
		clock:  clock,
		source: source,
		sink:   sink,
	}
}

// Start draws one frame immediately and then one per FrameInterval until
// Stop is called or ctx ends. Starting again replaces the running loop.
func (engine *Engine) Start(ctx context.Context) {
	engine.start(ctx, func(runCtx context.Context) {
		ticker := engine.clock.NewTicker(engine.config.FrameInterval)
		defer ticker.Stop()

		engine.Redraw()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.Chan():
				engine.Redraw()
			}
		}
	})
}

// Redraw pushes a frame now, e.g. after an edit while the timer is idle.
func (engine *Engine) Redraw() {
	snapshot := engine.source.Snapshot()
	engine.mu.Lock()
	engine.frames++
	engine.mu.Unlock()
	engine.sink(snapshot)
}

// Frames returns how many frames have been drawn.
func (engine *Engine) Frames() uint64 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.frames
}

// Running reports whether a frame loop is active.
func (engine *Engine) Running() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.cancel != nil
}

// Stop terminates the frame loop. It is safe to call more than once.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
		log.Debug().Uint64("frames", engine.frames).Msg("frame driver stopped")
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}
