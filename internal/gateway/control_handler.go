package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"launcharc/internal/core/countdown"
	"launcharc/internal/core/model"
	"launcharc/internal/core/timeline"
	"launcharc/internal/render/svg"
	"launcharc/internal/storage"
)

const maxProfileBytes = 1 << 20

// Controller is the engine surface the HTTP routes drive.
type Controller interface {
	Start() error
	Pause() error
	Resume() error
	Toggle() error
	Reset() error
	Jump(targetOffsetSeconds float64) error
	JumpTo(raw string) error
	AddEvent(name string) int
	RemoveEvent(index int) error
	Snapshot() timeline.Snapshot
	Geometry() model.GeometryDescriptor
	Profile() model.MissionProfile
	LoadProfile(profile model.MissionProfile) error
	Subscribe(buffer int) <-chan countdown.Event
}

// ControlHandler exposes timer and profile operations over HTTP.
type ControlHandler struct {
	controller Controller
	svgOptions svg.Options
	// onProfileChange runs after every successful edit, e.g. to persist it.
	onProfileChange func(model.MissionProfile)
}

// NewControlHandler creates a new control handler.
func NewControlHandler(controller Controller, svgOptions svg.Options, onProfileChange func(model.MissionProfile)) *ControlHandler {
	return &ControlHandler{
		controller:      controller,
		svgOptions:      svgOptions,
		onProfileChange: onProfileChange,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type jumpRequest struct {
	Target json.RawMessage `json:"target"`
}

type addEventRequest struct {
	Name string `json:"name"`
}

type addEventResponse struct {
	Index int `json:"index"`
}

// HandleTimerAction handles POST /api/timer/{action}.
func (h *ControlHandler) HandleTimerAction(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")

	var err error
	switch action {
	case "start":
		err = h.controller.Start()
	case "pause":
		err = h.controller.Pause()
	case "resume":
		err = h.controller.Resume()
	case "toggle":
		err = h.controller.Toggle()
	case "reset":
		err = h.controller.Reset()
	case "jump":
		err = h.jump(r)
	default:
		http.NotFound(w, r)
		return
	}

	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

func (h *ControlHandler) jump(r *http.Request) error {
	var request jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || len(request.Target) == 0 {
		return fmt.Errorf("%w: body must be {\"target\": ...}", timeline.ErrInvalidJumpTarget)
	}

	var text string
	if err := json.Unmarshal(request.Target, &text); err == nil {
		return h.controller.JumpTo(text)
	}

	var seconds float64
	if err := json.Unmarshal(request.Target, &seconds); err != nil {
		return fmt.Errorf("%w: %s", timeline.ErrInvalidJumpTarget, request.Target)
	}
	return h.controller.Jump(seconds)
}

// HandleSnapshot handles GET /api/snapshot.
func (h *ControlHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

// HandleSnapshotSVG handles GET /api/snapshot.svg.
func (h *ControlHandler) HandleSnapshotSVG(w http.ResponseWriter, r *http.Request) {
	document := svg.Render(h.controller.Snapshot(), h.controller.Geometry(), h.svgOptions)
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := w.Write([]byte(document)); err != nil {
		log.Error().Err(err).Msg("failed to write svg snapshot")
	}
}

// HandleAddEvent handles POST /api/events.
func (h *ControlHandler) HandleAddEvent(w http.ResponseWriter, r *http.Request) {
	var request addEventRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event body"})
			return
		}
	}

	index := h.controller.AddEvent(request.Name)
	h.profileChanged()
	writeJSON(w, http.StatusCreated, addEventResponse{Index: index})
}

// HandleRemoveEvent handles DELETE /api/events/{index}.
func (h *ControlHandler) HandleRemoveEvent(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index must be an integer"})
		return
	}

	if err := h.controller.RemoveEvent(index); err != nil {
		writeError(w, err)
		return
	}
	h.profileChanged()
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetProfile handles GET /api/profile.
func (h *ControlHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	var buffer bytes.Buffer
	if err := storage.ExportProfile(&buffer, h.controller.Profile()); err != nil {
		log.Error().Err(err).Msg("failed to export profile")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to export profile"})
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(buffer.Bytes())
}

// HandlePutProfile handles PUT /api/profile.
func (h *ControlHandler) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := storage.ImportProfile(http.MaxBytesReader(w, r.Body, maxProfileBytes))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.controller.LoadProfile(profile); err != nil {
		writeError(w, err)
		return
	}
	h.profileChanged()
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

// RegisterRoutes registers control routes with an HTTP mux.
func (h *ControlHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/timer/{action}", h.HandleTimerAction)
	mux.HandleFunc("GET /api/snapshot", h.HandleSnapshot)
	mux.HandleFunc("GET /api/snapshot.svg", h.HandleSnapshotSVG)
	mux.HandleFunc("POST /api/events", h.HandleAddEvent)
	mux.HandleFunc("DELETE /api/events/{index}", h.HandleRemoveEvent)
	mux.HandleFunc("GET /api/profile", h.HandleGetProfile)
	mux.HandleFunc("PUT /api/profile", h.HandlePutProfile)
}

func (h *ControlHandler) profileChanged() {
	if h.onProfileChange != nil {
		h.onProfileChange(h.controller.Profile())
	}
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, timeline.ErrInvalidJumpTarget),
		errors.Is(err, storage.ErrMalformedProfile),
		errors.Is(err, countdown.ErrInvalidOffset),
		errors.Is(err, timeline.ErrNoEvents),
		errors.Is(err, timeline.ErrInvalidDuration),
		errors.Is(err, timeline.ErrInvalidLayout),
		errors.Is(err, timeline.ErrInvalidEventTime),
		errors.Is(err, timeline.ErrInvalidCountdown),
		errors.Is(err, timeline.ErrInvalidDensity):
		return http.StatusBadRequest
	case errors.Is(err, timeline.ErrLastEvent),
		errors.Is(err, countdown.ErrNotRunning),
		errors.Is(err, countdown.ErrNotPaused),
		errors.Is(err, countdown.ErrNoAnchor):
		return http.StatusConflict
	case errors.Is(err, timeline.ErrEventIndex):
		return http.StatusNotFound
	case errors.Is(err, countdown.ErrDisposed):
		return http.StatusServiceUnavailable
	default:
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("control request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("control request rejected")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
