package timeline

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launcharc/internal/core/countdown"
	"launcharc/internal/core/model"
	"launcharc/internal/core/projector"
)

func newTestEngine(t *testing.T, profile model.MissionProfile) (*Engine, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	timer := countdown.New(clock, countdown.DefaultConfig())
	engine, err := New(timer, profile, projector.NewGeometry(1920, 200, 64), DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(engine.Dispose)
	return engine, clock
}

func singleEventProfile() model.MissionProfile {
	profile := model.DefaultProfile()
	profile.Events = []model.MissionEvent{{TimestampSeconds: 0, Name: "LIFTOFF"}}
	return profile
}

func TestNewAdoptsProfileCountdown(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultProfile())

	snapshot := engine.Snapshot()
	assert.Equal(t, -300.0, snapshot.OffsetSeconds)
	assert.Equal(t, countdown.ModeIdle, snapshot.Mode)
	assert.Equal(t, "T - 00:05:00", snapshot.Clock.String())
	assert.False(t, snapshot.IsTPlus)
	assert.Equal(t, "Starlink", snapshot.MissionName)
	assert.Equal(t, 10, snapshot.EventCount)
}

func TestNewRejectsInvalidProfiles(t *testing.T) {
	noEvents := model.DefaultProfile()
	noEvents.Events = nil
	_, err := New(nil, noEvents, model.GeometryDescriptor{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoEvents)

	zeroDuration := model.DefaultProfile()
	zeroDuration.MissionDurationSeconds = 0
	_, err = New(nil, zeroDuration, model.GeometryDescriptor{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidDuration)

	badLayout := model.DefaultProfile()
	badLayout.Layout = "spiral"
	_, err = New(nil, badLayout, model.GeometryDescriptor{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestRemoveEventKeepsAtLeastOne(t *testing.T) {
	engine, _ := newTestEngine(t, singleEventProfile())

	assert.ErrorIs(t, engine.RemoveEvent(0), ErrLastEvent)
	assert.Len(t, engine.Events(), 1)
	assert.ErrorIs(t, engine.RemoveEvent(3), ErrEventIndex)
}

func TestAddAndRemoveEvents(t *testing.T) {
	engine, _ := newTestEngine(t, singleEventProfile())

	assert.Equal(t, 1, engine.AddEvent(""))
	assert.Equal(t, 2, engine.AddEvent("MECO"))

	events := engine.Events()
	require.Len(t, events, 3)
	assert.Equal(t, model.MissionEvent{TimestampSeconds: 0, Name: "New Event 2"}, events[1])
	assert.Equal(t, "MECO", events[2].Name)

	require.NoError(t, engine.RemoveEvent(1))
	events = engine.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "LIFTOFF", events[0].Name)
	assert.Equal(t, "MECO", events[1].Name)
}

func TestEventsReturnsACopy(t *testing.T) {
	engine, _ := newTestEngine(t, singleEventProfile())

	events := engine.Events()
	events[0].Name = "mutated"
	assert.Equal(t, "LIFTOFF", engine.Events()[0].Name)
}

func TestRenameAndRetimeEvents(t *testing.T) {
	engine, _ := newTestEngine(t, singleEventProfile())

	require.NoError(t, engine.RenameEvent(0, "T-0"))
	require.NoError(t, engine.SetEventTime(0, 12.5))
	assert.Equal(t, model.MissionEvent{TimestampSeconds: 12.5, Name: "T-0"}, engine.Events()[0])

	assert.ErrorIs(t, engine.RenameEvent(1, "x"), ErrEventIndex)
	assert.ErrorIs(t, engine.SetEventTime(0, math.NaN()), ErrInvalidEventTime)
	assert.ErrorIs(t, engine.SetEventTime(-1, 1), ErrEventIndex)
}

func TestJumpToParsesOperatorInput(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultProfile())

	require.NoError(t, engine.JumpTo(" -10 "))
	assert.Equal(t, -10.0, engine.Snapshot().OffsetSeconds)

	require.NoError(t, engine.JumpTo("+45"))
	assert.Equal(t, 45.0, engine.Snapshot().OffsetSeconds)

	for _, raw := range []string{"", "abc", "1.5", "10s"} {
		assert.ErrorIs(t, engine.JumpTo(raw), ErrInvalidJumpTarget, raw)
	}
	assert.Equal(t, 45.0, engine.Snapshot().OffsetSeconds)
}

func TestLifecycleThroughEngine(t *testing.T) {
	engine, clock := newTestEngine(t, model.DefaultProfile())

	require.NoError(t, engine.Toggle())
	clock.Advance(10 * time.Second)
	require.NoError(t, engine.Toggle())
	assert.Equal(t, countdown.ModePaused, engine.Mode())
	assert.InDelta(t, -290, engine.Snapshot().OffsetSeconds, 1e-6)

	clock.Advance(time.Minute)
	require.NoError(t, engine.Resume())
	assert.InDelta(t, -290, engine.Snapshot().OffsetSeconds, 1e-6)

	require.NoError(t, engine.Reset())
	assert.Equal(t, -300.0, engine.Snapshot().OffsetSeconds)
}

func TestSetCountdownMovesIdleClock(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultProfile())

	require.NoError(t, engine.SetCountdown(90))
	assert.Equal(t, -90.0, engine.Snapshot().OffsetSeconds)
	assert.Equal(t, 90.0, engine.Profile().CountdownSeconds)

	require.NoError(t, engine.SetCountdown(0))
	assert.Equal(t, 0.0, engine.Snapshot().OffsetSeconds)

	assert.ErrorIs(t, engine.SetCountdown(-5), ErrInvalidCountdown)
}

func TestSettersValidateInput(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultProfile())

	assert.ErrorIs(t, engine.SetMissionDuration(0), ErrInvalidDuration)
	assert.ErrorIs(t, engine.SetMissionDuration(math.Inf(1)), ErrInvalidDuration)
	require.NoError(t, engine.SetMissionDuration(1800))
	assert.Equal(t, 1800.0, engine.Snapshot().MissionDurationSeconds)

	assert.ErrorIs(t, engine.SetLayout("spiral"), ErrInvalidLayout)
	require.NoError(t, engine.SetLayout(model.LayoutFull))
	assert.Equal(t, model.LayoutFull, engine.Profile().Layout)
}

func TestLoadProfileReplacesEvents(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultProfile())

	replacement := singleEventProfile()
	replacement.MissionName = "CRS-31"
	replacement.CountdownSeconds = 30
	require.NoError(t, engine.LoadProfile(replacement))

	snapshot := engine.Snapshot()
	assert.Equal(t, "CRS-31", snapshot.MissionName)
	assert.Equal(t, 1, snapshot.EventCount)
	assert.Equal(t, -30.0, snapshot.OffsetSeconds)

	broken := replacement
	broken.Events = nil
	assert.ErrorIs(t, engine.LoadProfile(broken), ErrNoEvents)
	assert.Equal(t, "CRS-31", engine.Profile().MissionName)
}

func TestSnapshotColorsNodesAroundNow(t *testing.T) {
	profile := model.DefaultProfile()
	profile.Events = []model.MissionEvent{
		{TimestampSeconds: -20, Name: "PAST"},
		{TimestampSeconds: -10, Name: "NOW"},
		{TimestampSeconds: 30, Name: "FUTURE"},
	}
	profile.CountdownSeconds = 10
	engine, _ := newTestEngine(t, profile)

	snapshot := engine.Snapshot()
	require.Len(t, snapshot.Nodes, 3)

	past, now, future := snapshot.Nodes[0], snapshot.Nodes[1], snapshot.Nodes[2]
	assert.True(t, past.Past)
	assert.True(t, past.ShouldDrawInnerDot)
	assert.Equal(t, 1.0, past.Color.A)

	assert.Equal(t, -math.Pi/2, now.AngleRadians)
	assert.True(t, now.Visible)
	assert.True(t, now.ShouldDrawInnerDot)
	assert.InDelta(t, 0.65, now.Color.A, 1e-9)

	assert.False(t, future.Past)
	assert.False(t, future.ShouldDrawInnerDot)
	assert.Equal(t, 0.3, future.Color.A)
	assert.Equal(t, 6.0, snapshot.NodeRadius)
	assert.Equal(t, 2.0, snapshot.InnerDotRadius)
}

func TestSnapshotAfterTPlus(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultProfile())

	require.NoError(t, engine.Jump(61.9))
	snapshot := engine.Snapshot()
	assert.True(t, snapshot.IsTPlus)
	assert.Equal(t, "T + 00:01:01", snapshot.Clock.String())
}

func TestDisposeStopsEngine(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultProfile())

	engine.Dispose()
	assert.ErrorIs(t, engine.Start(), countdown.ErrDisposed)
}

func TestDensityIsValidated(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultProfile())
	original := engine.Profile().Density

	invalid := []model.DensityProfile{
		{AverageFactor: -3, PastFactor: 2, FutureFactor: 1, TransitionDurationSeconds: 4},
		{AverageFactor: 0.5, PastFactor: 0, FutureFactor: 1, TransitionDurationSeconds: 4},
		{AverageFactor: 0.5, PastFactor: 2, FutureFactor: math.NaN(), TransitionDurationSeconds: 4},
		{AverageFactor: 0.5, PastFactor: 2, FutureFactor: 1, TransitionStartOffset: math.Inf(-1), TransitionDurationSeconds: 4},
		{AverageFactor: 0.5, PastFactor: 2, FutureFactor: 1, TransitionDurationSeconds: -4},
	}
	for _, density := range invalid {
		assert.ErrorIs(t, engine.SetDensity(density), ErrInvalidDensity, "%+v", density)
		assert.Equal(t, original, engine.Profile().Density)
	}

	neutral := model.DensityProfile{AverageFactor: 1, PastFactor: 1, FutureFactor: 1}
	require.NoError(t, engine.SetDensity(neutral))
	assert.Equal(t, neutral, engine.Profile().Density)

	nanProfile := model.DefaultProfile()
	nanProfile.Density.AverageFactor = math.NaN()
	_, err := New(nil, nanProfile, model.GeometryDescriptor{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidDensity)
	assert.ErrorIs(t, engine.LoadProfile(nanProfile), ErrInvalidDensity)
}

func TestOutOfRangeOffsetsAreRejected(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultProfile())

	assert.ErrorIs(t, engine.JumpTo("10000000000"), countdown.ErrInvalidOffset)
	assert.ErrorIs(t, engine.Jump(-1e10), countdown.ErrInvalidOffset)
	assert.Equal(t, -300.0, engine.Snapshot().OffsetSeconds)

	assert.ErrorIs(t, engine.SetCountdown(1e10), ErrInvalidCountdown)
	assert.Equal(t, 300.0, engine.Profile().CountdownSeconds)

	huge := model.DefaultProfile()
	huge.CountdownSeconds = 1e12
	assert.ErrorIs(t, ValidateProfile(huge), ErrInvalidCountdown)
}

func TestSnapshotKeepsConfiguredRadii(t *testing.T) {
	clock := clockwork.NewFakeClock()
	options := DefaultOptions()
	options.Projection.NodeRadius = 9
	options.Projection.InnerDotRadius = 3
	engine, err := New(countdown.New(clock, countdown.DefaultConfig()), model.DefaultProfile(), projector.NewGeometry(1920, 200, 64), options)
	require.NoError(t, err)
	defer engine.Dispose()

	snapshot := engine.Snapshot()
	assert.Equal(t, 9.0, snapshot.NodeRadius)
	assert.Equal(t, 3.0, snapshot.InnerDotRadius)
	assert.Equal(t, 1800.0, snapshot.MissionDurationSeconds)
}
