package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeTime is a manually advanced time source.
type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(seconds float64) {
	f.t = f.t.Add(time.Duration(seconds * float64(time.Second)))
}

func newTestClock() (*Clock, *fakeTime) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	return New(WithNow(ft.now)), ft
}

func TestStartAndUpdate(t *testing.T) {
	c, ft := newTestClock()

	// Inactive clock never moves
	ft.advance(2)
	c.Update()
	assert.Equal(t, 0.0, c.Playhead())
	assert.False(t, c.Active())

	c.Start()
	assert.True(t, c.Active())
	assert.Equal(t, 0.0, c.Playhead())

	ft.advance(1.5)
	c.Update()
	assert.InDelta(t, 1.5, c.Playhead(), 1e-9)

	ft.advance(0.25)
	c.Update()
	assert.InDelta(t, 1.75, c.Playhead(), 1e-9)
}

func TestStartAt(t *testing.T) {
	c, ft := newTestClock()

	c.StartAt(3)
	assert.Equal(t, 3.0, c.Playhead())

	ft.advance(1)
	c.Update()
	assert.InDelta(t, 4.0, c.Playhead(), 1e-9)

	t.Run("negative start clamps to zero", func(t *testing.T) {
		c.StartAt(-2)
		assert.Equal(t, 0.0, c.Playhead())
	})
}

func TestPauseResume(t *testing.T) {
	c, ft := newTestClock()
	c.Start()
	ft.advance(2)
	c.Update()

	c.Pause()
	ft.advance(10)
	c.Update()
	assert.InDelta(t, 2.0, c.Playhead(), 1e-9, "paused clock keeps its playhead")

	c.Resume()
	ft.advance(1)
	c.Update()
	assert.InDelta(t, 3.0, c.Playhead(), 1e-9)
}

func TestStopResets(t *testing.T) {
	c, ft := newTestClock()
	c.Start()
	ft.advance(4)
	c.Update()

	c.Stop()
	assert.False(t, c.Active())
	assert.Equal(t, 0.0, c.Playhead())

	c.Start()
	c.Reset()
	assert.Equal(t, 0.0, c.Playhead())
}

func TestLoopMarker(t *testing.T) {
	t.Run("fires once per crossing", func(t *testing.T) {
		c, ft := newTestClock()
		calls := 0
		c.SetLoopCallback(func() { calls++ })
		c.SetLoopMarker(5.0)
		c.Start()

		ft.advance(4.9)
		c.Update()
		assert.Equal(t, 0, calls)

		ft.advance(0.2)
		c.Update()
		assert.Equal(t, 1, calls)
		assert.Equal(t, 0.0, c.Playhead())

		// The next tick counts from the re-based epoch
		ft.advance(1)
		c.Update()
		assert.Equal(t, 1, calls)
		assert.InDelta(t, 1.0, c.Playhead(), 1e-9)
	})

	t.Run("non-positive marker disables", func(t *testing.T) {
		c, ft := newTestClock()
		calls := 0
		c.SetLoopCallback(func() { calls++ })
		c.SetLoopMarker(0)
		_, ok := c.LoopMarker()
		assert.False(t, ok)

		c.Start()
		ft.advance(100)
		c.Update()
		assert.Equal(t, 0, calls)
		assert.InDelta(t, 100.0, c.Playhead(), 1e-9)
	})

	t.Run("disable after arming", func(t *testing.T) {
		c, ft := newTestClock()
		calls := 0
		c.SetLoopCallback(func() { calls++ })
		c.SetLoopMarker(1)
		c.DisableLoopMarker()
		c.Start()
		ft.advance(2)
		c.Update()
		assert.Equal(t, 0, calls)
	})
}

func TestPlayheadMonotonic(t *testing.T) {
	c, ft := newTestClock()
	c.Start()
	prev := c.Playhead()
	for i := 0; i < 100; i++ {
		ft.advance(0.016)
		c.Update()
		assert.GreaterOrEqual(t, c.Playhead(), prev)
		prev = c.Playhead()
	}
}
