package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles websocket upgrade requests for the timeline stream.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	greeting          func() (*Message, error)
}

// NewWebSocketHandler creates a new websocket handler. greeting builds the
// first message a new client receives and may be nil.
func NewWebSocketHandler(cm *ConnectionManager, greeting func() (*Message, error)) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		greeting:          greeting,
	}
}

// HandleTimelineConnection streams snapshots to the client.
func (h *WebSocketHandler) HandleTimelineConnection(w http.ResponseWriter, r *http.Request) {
	var greeting *Message
	if h.greeting != nil {
		message, err := h.greeting()
		if err != nil {
			log.Error().Err(err).Msg("failed to build greeting")
			http.Error(w, "failed to build initial snapshot", http.StatusInternalServerError)
			return
		}
		greeting = message
	}

	// The upgrader has already replied to the client on failure.
	if err := h.connectionManager.UpgradeConnection(w, r, greeting); err != nil {
		log.Error().Err(err).Str("remote_addr", r.RemoteAddr).Msg("failed to upgrade websocket connection")
	}
}

// HandleConnectionStats returns statistics about active connections.
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.Stats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers websocket routes with an HTTP mux.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/timeline", h.HandleTimelineConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}
