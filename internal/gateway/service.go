package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"launcharc/internal/core/countdown"
	"launcharc/internal/core/model"
	"launcharc/internal/render/svg"
)

// Config holds configuration for the gateway service.
type Config struct {
	ConnectionConfig ConnectionConfig
	// SnapshotInterval is how often snapshots are pushed to websocket clients.
	SnapshotInterval time.Duration
	SVGOptions       svg.Options
	AllowedOrigins   []string
	// OnProfileChange runs after every profile edit made through the API.
	OnProfileChange func(model.MissionProfile)
}

// DefaultConfig pushes snapshots at 20 Hz.
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		SnapshotInterval: 50 * time.Millisecond,
		SVGOptions:       svg.DefaultOptions(),
		AllowedOrigins:   []string{"*"},
	}
}

// Service streams timeline snapshots over websockets and serves the control API.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	controlHandler    *ControlHandler
	controller        Controller
	clock             clockwork.Clock
	config            Config
	timerEvents       <-chan countdown.Event
}

// NewService creates a new gateway service. It subscribes to timer events
// immediately so no mode change is missed before Start.
func NewService(config Config, controller Controller, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if config.SnapshotInterval <= 0 {
		config.SnapshotInterval = DefaultConfig().SnapshotInterval
	}

	service := &Service{
		connectionManager: NewConnectionManager(config.ConnectionConfig),
		controller:        controller,
		clock:             clock,
		config:            config,
		timerEvents:       controller.Subscribe(64),
	}
	service.wsHandler = NewWebSocketHandler(service.connectionManager, service.snapshotMessage)
	service.controlHandler = NewControlHandler(controller, config.SVGOptions, config.OnProfileChange)
	return service
}

// Start runs the broadcaster until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Dur("snapshot_interval", s.config.SnapshotInterval).Msg("starting timeline gateway")

	go s.connectionManager.Start(ctx)

	ticker := s.clock.NewTicker(s.config.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("timeline gateway stopped")
			return nil
		case <-ticker.Chan():
			s.broadcastSnapshot()
		case event, ok := <-s.timerEvents:
			if !ok {
				log.Info().Msg("timer disposed, gateway stops streaming")
				<-ctx.Done()
				return nil
			}
			s.handleTimerEvent(event)
		}
	}
}

func (s *Service) handleTimerEvent(event countdown.Event) {
	switch event.Type {
	case countdown.EventStateChange:
		message, err := NewMessage(MessageTypeModeChanged, ModeChangedPayload{
			Mode:          event.Mode,
			OffsetSeconds: event.OffsetSeconds,
			ChangedAt:     event.At,
		}, s.clock.Now())
		if err != nil {
			log.Error().Err(err).Msg("failed to build mode change message")
			return
		}
		s.connectionManager.Broadcast(message)
		s.broadcastSnapshot()
	case countdown.EventJump:
		s.broadcastSnapshot()
	}
}

func (s *Service) broadcastSnapshot() {
	message, err := s.snapshotMessage()
	if err != nil {
		log.Error().Err(err).Msg("failed to build snapshot message")
		return
	}
	s.connectionManager.Broadcast(message)
}

func (s *Service) snapshotMessage() (*Message, error) {
	return NewMessage(MessageTypeSnapshot, s.controller.Snapshot(), s.clock.Now())
}

// RegisterRoutes registers the websocket and control routes.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.controlHandler.RegisterRoutes(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	log.Info().Msg("timeline gateway routes registered")
}

// Handler returns every route wrapped in CORS handling.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}

// Stats returns statistics about the gateway.
func (s *Service) Stats() ConnectionStats {
	return s.connectionManager.Stats()
}
