package model

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/schollz/multitake/internal/clock"
	"github.com/schollz/multitake/internal/config"
	"github.com/schollz/multitake/internal/controller"
	"github.com/schollz/multitake/internal/framestore"
	"github.com/schollz/multitake/internal/kinds"
	"github.com/schollz/multitake/internal/storage"
	"github.com/schollz/multitake/internal/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	now time.Time
}

func (c *testClock) advance(seconds float64) {
	c.now = c.now.Add(time.Duration(seconds * float64(time.Second)))
}

func newTestModel(t *testing.T, saveFolder string, autoSave bool) (*Model, *testClock) {
	t.Helper()
	tc := &testClock{now: time.Unix(1000, 0)}
	clk := clock.New(clock.WithNow(func() time.Time { return tc.now }))
	ctl := controller.New(framestore.NewMemory(), controller.WithClock(clk))
	src, err := kinds.NewSources(config.Config{FPS: 10, SampleRate: 8000, Tone: 200, OSCAddress: "*"})
	require.NoError(t, err)
	return NewModel(ctl, kinds.NewRegistry(src), saveFolder, kinds.Points, 10, autoSave), tc
}

func step(m *Model, tc *testClock, seconds float64) {
	tc.advance(seconds)
	m.Tick()
}

func TestTakeLifecycle(t *testing.T) {
	m, tc := newTestModel(t, "", false)
	assert.Equal(t, kinds.Points, m.Kind())

	m.StartTake()
	require.NoError(t, m.LastError)
	assert.True(t, m.Ctl.Clock().Active(), "recording starts the clock")
	assert.Contains(t, m.Status, "recording track_0")

	for i := 0; i < 5; i++ {
		step(m, tc, 0.1)
	}
	m.CompleteTake()
	require.NoError(t, m.LastError)
	require.Len(t, m.Tracks(), 1)
	assert.Equal(t, track.Playing, m.SelectedTrack().Mode())
	assert.NotNil(t, m.Registry.Monitor("track_0"))

	m.StartTake()
	step(m, tc, 0.1)
	m.CancelTake()
	assert.Len(t, m.Tracks(), 1)
	assert.Equal(t, "take cancelled", m.Status)
	assert.Nil(t, m.Registry.Monitor("track_1"))

	m.NewMovie()
	assert.Empty(t, m.Tracks())
	assert.Nil(t, m.SelectedTrack())
}

func TestRetakeSelected(t *testing.T) {
	m, tc := newTestModel(t, "", false)
	m.StartTake()
	step(m, tc, 0.1)
	m.CompleteTake()

	m.Retake()
	require.NoError(t, m.LastError)
	assert.Equal(t, track.Recording, m.SelectedTrack().Mode())
	step(m, tc, 0.1)
	m.CompleteTake()
	assert.Equal(t, track.Playing, m.SelectedTrack().Mode())
}

func TestStartTakeErrors(t *testing.T) {
	m, _ := newTestModel(t, "", false)
	for m.Kind() != kinds.OSC {
		m.CycleKind(1)
	}
	m.StartTake()
	assert.ErrorIs(t, m.LastError, kinds.ErrNoOSCInput)
	assert.Empty(t, m.Tracks())
}

func TestCycleKind(t *testing.T) {
	m, _ := newTestModel(t, "", false)
	n := len(m.Kinds)
	start := m.Kind()
	for i := 0; i < n; i++ {
		m.CycleKind(1)
	}
	assert.Equal(t, start, m.Kind())
	m.CycleKind(-1)
	assert.NotEqual(t, start, m.Kind())
	assert.Contains(t, m.Status, "kind:")
}

func TestSelection(t *testing.T) {
	m, _ := newTestModel(t, "", false)
	m.MoveSelection(3)
	assert.Equal(t, 0, m.Selected)

	m.StartTake()
	m.StartTake()
	assert.Equal(t, 1, m.Selected)
	m.MoveSelection(5)
	assert.Equal(t, 1, m.Selected)
	m.MoveSelection(-5)
	assert.Equal(t, 0, m.Selected)
}

func TestOffsets(t *testing.T) {
	m, tc := newTestModel(t, "", false)
	m.StartTake()
	step(m, tc, 0.1)
	m.CompleteTake()

	m.NudgeOffset(0.5)
	assert.Equal(t, 0.5, m.SelectedTrack().Offset())

	step(m, tc, 1)
	m.AnchorSelected()
	assert.InDelta(t, m.Ctl.Playhead(), m.SelectedTrack().Offset(), 1e-9)
}

func TestAutoSaveOnComplete(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "session")
	m, tc := newTestModel(t, folder, true)
	m.StartTake()
	step(m, tc, 0.1)
	m.CompleteTake()
	m.Flush()

	got, err := storage.Load(folder)
	require.NoError(t, err)
	require.Len(t, got.Groups, 1)
	require.Len(t, got.Groups[0].Tracks, 1)
	assert.Equal(t, kinds.Points, got.Groups[0].Tracks[0].Kind)
}

// TestTimelineNavigation tests panning and zooming the timeline window
func TestTimelineNavigation(t *testing.T) {
	m, _ := newTestModel(t, "", false)
	m.Ctl.Clock().SetLoopMarker(4)
	m.TimelineStart = 0.0
	m.TimelineEnd = 2.0

	t.Run("JogRight", func(t *testing.T) {
		m.JogTimeline(1, false)
		assert.Greater(t, m.TimelineStart, 0.0, "window should have moved right")
		assert.InDelta(t, 2.0, m.TimelineEnd-m.TimelineStart, 0.01, "window length should remain constant")
	})

	t.Run("JogLeft", func(t *testing.T) {
		initial := m.TimelineStart
		m.JogTimeline(-1, false)
		assert.Less(t, m.TimelineStart, initial)
	})

	t.Run("ZoomIn", func(t *testing.T) {
		m.TimelineStart, m.TimelineEnd = 0, 2
		m.ZoomTimeline(true)
		assert.Less(t, m.TimelineEnd-m.TimelineStart, 2.0)
	})

	t.Run("ZoomOut", func(t *testing.T) {
		m.TimelineStart, m.TimelineEnd = 1, 2
		m.ZoomTimeline(false)
		assert.Greater(t, m.TimelineEnd-m.TimelineStart, 1.0)
	})

	t.Run("ZoomOutStopsAtTotal", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			m.ZoomTimeline(false)
		}
		assert.LessOrEqual(t, m.TimelineEnd-m.TimelineStart, 4.0+1e-9)
	})

	t.Run("BoundsCheckEnd", func(t *testing.T) {
		m.TimelineStart, m.TimelineEnd = 3, 4
		m.JogTimeline(1, true)
		assert.LessOrEqual(t, m.TimelineEnd, m.TimelineDuration())
	})

	t.Run("BoundsCheckStart", func(t *testing.T) {
		m.TimelineStart, m.TimelineEnd = 0, 1
		m.JogTimeline(-1, true)
		assert.GreaterOrEqual(t, m.TimelineStart, 0.0)
	})
}

func TestFollowPlayhead(t *testing.T) {
	m, tc := newTestModel(t, "", false)
	m.TimelineStart, m.TimelineEnd = 0, 2
	m.TogglePlay()
	step(m, tc, 3)
	assert.LessOrEqual(t, m.TimelineStart, 3.0)
	assert.GreaterOrEqual(t, m.TimelineEnd, 3.0)
	assert.InDelta(t, 2.0, m.TimelineEnd-m.TimelineStart, 1e-9)

	m.Rewind()
	assert.True(t, m.Ctl.Clock().Active())
	assert.Equal(t, 0.0, m.TimelineStart)
}

func TestSpan(t *testing.T) {
	m, tc := newTestModel(t, "", false)
	m.StartTake()
	_, _, ok := Span(m.SelectedTrack())
	assert.False(t, ok, "recording tracks have no span yet")

	step(m, tc, 0.5)
	step(m, tc, 0.5)
	m.CompleteTake()
	m.NudgeOffset(2)
	start, end, ok := Span(m.SelectedTrack())
	require.True(t, ok)
	assert.InDelta(t, 2.5, start, 1e-9)
	assert.InDelta(t, 3.0, end, 1e-9)
}

func TestDroppedFramesAfterLoop(t *testing.T) {
	m, tc := newTestModel(t, "", false)
	m.Ctl.Clock().SetLoopMarker(1)

	m.StartTake()
	for i := 0; i < 3; i++ {
		step(m, tc, 0.25)
	}
	assert.Contains(t, m.Status, "recording", "nothing dropped in the first lap")

	// 1.0 loops to 0, then 0.25 and 0.5 are behind the last frame at 0.75
	for i := 0; i < 3; i++ {
		step(m, tc, 0.25)
	}
	assert.Contains(t, m.Status, "3 frames dropped")

	m.CompleteTake()
	require.NoError(t, m.LastError)
	assert.Contains(t, m.Status, "3 frames dropped after the loop")
	assert.Equal(t, 3, m.SelectedTrack().FrameCount())

	t.Run("complete on loop keeps every lap", func(t *testing.T) {
		m, tc := newTestModel(t, "", false)
		m.Ctl.Clock().SetLoopMarker(1)
		m.Ctl.SetCompleteOnLoop(true)
		m.StartTake()
		for i := 0; i < 6; i++ {
			step(m, tc, 0.25)
		}
		assert.NotContains(t, m.Status, "dropped")
	})
}
