package kinds

import (
	"testing"
	"time"

	"github.com/schollz/multitake/internal/clock"
	"github.com/schollz/multitake/internal/config"
	"github.com/schollz/multitake/internal/controller"
	"github.com/schollz/multitake/internal/framestore"
	"github.com/schollz/multitake/internal/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{FPS: 10, SampleRate: 8000, Tone: 200, OSCAddress: "*"}
}

func newController(t *testing.T, store framestore.Store) (*controller.Controller, func(seconds float64)) {
	t.Helper()
	now := time.Unix(1000, 0)
	clk := clock.New(clock.WithNow(func() time.Time { return now }))
	c := controller.New(store, controller.WithClock(clk))
	step := func(seconds float64) {
		now = now.Add(time.Duration(seconds * float64(time.Second)))
		require.NoError(t, c.Update())
		require.NoError(t, c.Draw())
	}
	return c, step
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"audio", "image", "levels", "midi", "osc", "points"}, Names())
}

func TestRecordAndReplayEveryKind(t *testing.T) {
	for _, kind := range []string{Points, Audio, Levels, MIDI, Image} {
		t.Run(kind, func(t *testing.T) {
			src, err := NewSources(testConfig())
			require.NoError(t, err)
			defer src.Close()
			reg := NewRegistry(src)
			store := framestore.NewMemory()
			c, step := newController(t, store)

			c.Start()
			tr, err := reg.Record(c, kind, false)
			require.NoError(t, err)
			assert.Equal(t, kind, tr.Kind())
			for i := 0; i < 4; i++ {
				step(0.1)
			}
			require.NoError(t, c.CompleteRecorder())
			require.Equal(t, track.Playing, tr.Mode())
			assert.Greater(t, tr.FrameCount(), 0)

			mon := reg.Monitor(tr.Name())
			require.NotNil(t, mon)
			_, before := mon.Summary()

			c.Start()
			step(0.15)
			summary, after := mon.Summary()
			assert.Greater(t, after, before, "player presented a frame")
			assert.NotEmpty(t, summary)

			// reopen the same take by name from the manifest
			m := c.Snapshot()
			fresh, _ := newController(t, store)
			require.NoError(t, fresh.Restore(m, reg.Open))
			require.Len(t, fresh.Tracks(), 1)
			assert.Equal(t, tr.FrameCount(), fresh.Tracks()[0].FrameCount())
		})
	}
}

func TestRecordPreview(t *testing.T) {
	src, err := NewSources(testConfig())
	require.NoError(t, err)
	reg := NewRegistry(src)
	c, step := newController(t, framestore.NewMemory())

	tr, err := reg.Record(c, Audio, true)
	require.NoError(t, err)
	c.Start()
	step(0.1)
	summary, n := reg.Monitor(tr.Name()).Summary()
	assert.Equal(t, 1, n)
	assert.Contains(t, summary, "samples")
	assert.NotEmpty(t, reg.Monitor(tr.Name()).Wave())
}

func TestRecordErrors(t *testing.T) {
	src, err := NewSources(testConfig())
	require.NoError(t, err)
	reg := NewRegistry(src)
	c, _ := newController(t, framestore.NewMemory())

	_, err = reg.Record(c, "video", false)
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = reg.Record(c, OSC, false)
	assert.ErrorIs(t, err, ErrNoOSCInput)
	_, err = reg.Open(c, "video", "track_0")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestForget(t *testing.T) {
	src, err := NewSources(testConfig())
	require.NoError(t, err)
	reg := NewRegistry(src)
	c, _ := newController(t, framestore.NewMemory())

	a, err := reg.Record(c, Points, false)
	require.NoError(t, err)
	b, err := reg.Record(c, MIDI, false)
	require.NoError(t, err)

	reg.Forget([]track.Track{b})
	assert.Nil(t, reg.Monitor(a.Name()))
	assert.NotNil(t, reg.Monitor(b.Name()))
}

func TestMonitorWaveIsBounded(t *testing.T) {
	m := &Monitor{}
	for i := 0; i < waveLen*2; i++ {
		m.push(float64(i))
	}
	w := m.Wave()
	assert.Len(t, w, waveLen)
	assert.Equal(t, float64(waveLen*2-1), w[len(w)-1])
}
