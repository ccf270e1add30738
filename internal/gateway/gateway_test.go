package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launcharc/internal/core/countdown"
	"launcharc/internal/core/model"
	"launcharc/internal/core/projector"
	"launcharc/internal/core/timeline"
	"launcharc/internal/storage"
)

type testGateway struct {
	server  *httptest.Server
	engine  *timeline.Engine
	clock   *clockwork.FakeClock
	service *Service

	mu       sync.Mutex
	profiles []model.MissionProfile
}

func newTestGateway(t *testing.T, profile model.MissionProfile) *testGateway {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	engine, err := timeline.New(countdown.New(clock, countdown.DefaultConfig()), profile, projector.NewGeometry(1920, 200, 64), timeline.DefaultOptions())
	require.NoError(t, err)

	gw := &testGateway{engine: engine, clock: clock}
	config := DefaultConfig()
	config.OnProfileChange = func(profile model.MissionProfile) {
		gw.mu.Lock()
		defer gw.mu.Unlock()
		gw.profiles = append(gw.profiles, profile)
	}
	gw.service = NewService(config, engine, clock)
	gw.server = httptest.NewServer(gw.service.Handler())

	ctx := t.Context()
	go gw.service.Start(ctx)

	t.Cleanup(func() {
		gw.server.Close()
		engine.Dispose()
	})
	return gw
}

func (gw *testGateway) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	request, err := http.NewRequest(method, gw.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { response.Body.Close() })
	return response
}

func decodeSnapshot(t *testing.T, response *http.Response) timeline.Snapshot {
	t.Helper()
	var snapshot timeline.Snapshot
	require.NoError(t, json.NewDecoder(response.Body).Decode(&snapshot))
	return snapshot
}

func (gw *testGateway) changedProfiles() int {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	return len(gw.profiles)
}

func TestTimerActions(t *testing.T) {
	gw := newTestGateway(t, model.DefaultProfile())

	response := gw.do(t, http.MethodPost, "/api/timer/start", "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, countdown.ModeRunning, decodeSnapshot(t, response).Mode)

	response = gw.do(t, http.MethodPost, "/api/timer/pause", "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, countdown.ModePaused, decodeSnapshot(t, response).Mode)

	response = gw.do(t, http.MethodPost, "/api/timer/pause", "")
	assert.Equal(t, http.StatusConflict, response.StatusCode)

	response = gw.do(t, http.MethodPost, "/api/timer/toggle", "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, countdown.ModeRunning, decodeSnapshot(t, response).Mode)

	response = gw.do(t, http.MethodPost, "/api/timer/reset", "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	snapshot := decodeSnapshot(t, response)
	assert.Equal(t, countdown.ModeIdle, snapshot.Mode)
	assert.Equal(t, -300.0, snapshot.OffsetSeconds)

	response = gw.do(t, http.MethodPost, "/api/timer/explode", "")
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestJumpRoute(t *testing.T) {
	gw := newTestGateway(t, model.DefaultProfile())

	response := gw.do(t, http.MethodPost, "/api/timer/jump", `{"target": " -10 "}`)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, -10.0, decodeSnapshot(t, response).OffsetSeconds)

	response = gw.do(t, http.MethodPost, "/api/timer/jump", `{"target": 12.5}`)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, 12.5, decodeSnapshot(t, response).OffsetSeconds)

	for _, body := range []string{`{"target": "abc"}`, `{"target": true}`, `{}`, `nonsense`, `{"target": 1e10}`, `{"target": "10000000000"}`} {
		response = gw.do(t, http.MethodPost, "/api/timer/jump", body)
		assert.Equal(t, http.StatusBadRequest, response.StatusCode, body)
	}
	assert.Equal(t, 12.5, gw.engine.Snapshot().OffsetSeconds)
}

func TestEventRoutes(t *testing.T) {
	profile := model.DefaultProfile()
	profile.Events = []model.MissionEvent{{TimestampSeconds: 0, Name: "LIFTOFF"}}
	gw := newTestGateway(t, profile)

	response := gw.do(t, http.MethodDelete, "/api/events/0", "")
	assert.Equal(t, http.StatusConflict, response.StatusCode)

	response = gw.do(t, http.MethodDelete, "/api/events/9", "")
	assert.Equal(t, http.StatusNotFound, response.StatusCode)

	response = gw.do(t, http.MethodDelete, "/api/events/first", "")
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)

	response = gw.do(t, http.MethodPost, "/api/events", `{"name": "MECO"}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	var created addEventResponse
	require.NoError(t, json.NewDecoder(response.Body).Decode(&created))
	assert.Equal(t, 1, created.Index)

	response = gw.do(t, http.MethodDelete, "/api/events/0", "")
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
	assert.Equal(t, []model.MissionEvent{{TimestampSeconds: 0, Name: "MECO"}}, gw.engine.Events())
	assert.Equal(t, 2, gw.changedProfiles())
}

func TestProfileRoutes(t *testing.T) {
	gw := newTestGateway(t, model.DefaultProfile())

	response := gw.do(t, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "application/yaml", response.Header.Get("Content-Type"))
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mission_name: Starlink")

	response = gw.do(t, http.MethodPut, "/api/profile", "events: []\n")
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "Starlink", gw.engine.Profile().MissionName)
	assert.Equal(t, 0, gw.changedProfiles())

	response = gw.do(t, http.MethodPut, "/api/profile", "mission_name: CRS-31\ncountdown_seconds: 45\nevents:\n  - {t: 0, name: LIFTOFF}\n")
	require.Equal(t, http.StatusOK, response.StatusCode)
	snapshot := decodeSnapshot(t, response)
	assert.Equal(t, "CRS-31", snapshot.MissionName)
	assert.Equal(t, -45.0, snapshot.OffsetSeconds)
	assert.Equal(t, 1, gw.changedProfiles())
}

func TestSnapshotRoutes(t *testing.T) {
	gw := newTestGateway(t, model.DefaultProfile())

	response := gw.do(t, http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	snapshot := decodeSnapshot(t, response)
	assert.Equal(t, "-", snapshot.Clock.Sign)
	assert.NotEmpty(t, snapshot.Nodes)

	response = gw.do(t, http.MethodGet, "/api/snapshot.svg", "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "image/svg+xml", response.Header.Get("Content-Type"))
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "T - 00:05:00")

	response = gw.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, response.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	gw := newTestGateway(t, model.DefaultProfile())

	request, err := http.NewRequest(http.MethodOptions, gw.server.URL+"/api/timer/start", nil)
	require.NoError(t, err)
	request.Header.Set("Origin", "http://example.com")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, "*", response.Header.Get("Access-Control-Allow-Origin"))
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var message Message
	require.NoError(t, conn.ReadJSON(&message))
	return message
}

func TestWebSocketStreamsSnapshotsAndModeChanges(t *testing.T) {
	gw := newTestGateway(t, model.DefaultProfile())

	url := "ws" + strings.TrimPrefix(gw.server.URL, "http") + "/ws/timeline"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	greeting := readMessage(t, conn)
	assert.Equal(t, MessageTypeSnapshot, greeting.Type)
	assert.NotEmpty(t, greeting.ID)
	var snapshot timeline.Snapshot
	require.NoError(t, json.Unmarshal(greeting.Data, &snapshot))
	assert.Equal(t, "Starlink", snapshot.MissionName)

	assert.Equal(t, 1, gw.service.Stats().TotalConnections)

	response := gw.do(t, http.MethodPost, "/api/timer/toggle", "")
	require.Equal(t, http.StatusOK, response.StatusCode)

	for {
		message := readMessage(t, conn)
		if message.Type != MessageTypeModeChanged {
			continue
		}
		var payload ModeChangedPayload
		require.NoError(t, json.Unmarshal(message.Data, &payload))
		assert.Equal(t, countdown.ModeRunning, payload.Mode)
		assert.Equal(t, -300.0, payload.OffsetSeconds)
		break
	}
}

func TestWebSocketReceivesPeriodicSnapshots(t *testing.T) {
	gw := newTestGateway(t, model.DefaultProfile())

	url := "ws" + strings.TrimPrefix(gw.server.URL, "http") + "/ws/timeline"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	readMessage(t, conn)

	// The gateway ticker is the only one waiting while the timer is idle.
	require.NoError(t, gw.clock.BlockUntilContext(t.Context(), 1))
	gw.clock.Advance(DefaultConfig().SnapshotInterval)

	message := readMessage(t, conn)
	assert.Equal(t, MessageTypeSnapshot, message.Type)
}

func TestStatsRoute(t *testing.T) {
	gw := newTestGateway(t, model.DefaultProfile())

	response := gw.do(t, http.MethodGet, "/ws/stats", "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	var stats ConnectionStats
	require.NoError(t, json.NewDecoder(response.Body).Decode(&stats))
	assert.Equal(t, 0, stats.TotalConnections)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{timeline.ErrInvalidJumpTarget, http.StatusBadRequest},
		{fmt.Errorf("%w: nope", storage.ErrMalformedProfile), http.StatusBadRequest},
		{countdown.ErrInvalidOffset, http.StatusBadRequest},
		{fmt.Errorf("%w: factor -1", timeline.ErrInvalidDensity), http.StatusBadRequest},
		{timeline.ErrInvalidCountdown, http.StatusBadRequest},
		{timeline.ErrLastEvent, http.StatusConflict},
		{countdown.ErrNotRunning, http.StatusConflict},
		{fmt.Errorf("%w: 7", timeline.ErrEventIndex), http.StatusNotFound},
		{countdown.ErrDisposed, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
