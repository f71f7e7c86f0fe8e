package clock

import "time"

// Clock is the shared playhead that every track reads from. It only moves
// inside Update, so a frame tick sees one consistent playhead.
type Clock struct {
	now func() time.Time

	active     bool
	startEpoch float64 // seconds since origin
	playhead   float64 // seconds

	loopMarker   float64 // <= 0 disables the marker
	loopCallback func()
	origin       time.Time
}

// Option configures a Clock.
type Option func(*Clock)

// WithNow replaces the wall-clock source, mainly for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// New creates an inactive clock with its playhead at zero.
func New(opts ...Option) *Clock {
	c := &Clock{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.origin = c.now()
	return c
}

func (c *Clock) elapsed() float64 {
	return c.now().Sub(c.origin).Seconds()
}

// Playhead returns the elapsed time computed by the last Update.
func (c *Clock) Playhead() float64 {
	return c.playhead
}

// Active reports whether Update advances the playhead.
func (c *Clock) Active() bool {
	return c.active
}

// Start activates the clock from zero.
func (c *Clock) Start() {
	c.StartAt(0)
}

// StartAt activates the clock with the playhead preset to t, back-dating the
// epoch so the next Update continues from t.
func (c *Clock) StartAt(t float64) {
	if t < 0 {
		t = 0
	}
	c.active = true
	c.startEpoch = c.elapsed() - t
	c.playhead = t
}

// Pause freezes the playhead.
func (c *Clock) Pause() {
	c.active = false
}

// Resume continues from the paused playhead.
func (c *Clock) Resume() {
	if c.active {
		return
	}
	c.StartAt(c.playhead)
}

// Stop deactivates the clock and zeroes the playhead.
func (c *Clock) Stop() {
	c.active = false
	c.startEpoch = 0
	c.playhead = 0
}

// Reset is an alias of Stop.
func (c *Clock) Reset() {
	c.Stop()
}

// SetLoopMarker arms the loop marker at t seconds. Values <= 0 disable it.
func (c *Clock) SetLoopMarker(t float64) {
	if t <= 0 {
		c.loopMarker = 0
		return
	}
	c.loopMarker = t
}

// DisableLoopMarker clears the loop marker.
func (c *Clock) DisableLoopMarker() {
	c.loopMarker = 0
}

// LoopMarker returns the armed marker and whether it is enabled.
func (c *Clock) LoopMarker() (float64, bool) {
	return c.loopMarker, c.loopMarker > 0
}

// SetLoopCallback sets the function invoked when the playhead crosses the
// loop marker.
func (c *Clock) SetLoopCallback(fn func()) {
	c.loopCallback = fn
}

// Update advances the playhead while active. Crossing the loop marker re-bases
// the epoch to now, zeroes the playhead and fires the callback once.
func (c *Clock) Update() {
	if !c.active {
		return
	}
	now := c.elapsed()
	c.playhead = now - c.startEpoch
	if c.playhead < 0 {
		c.playhead = 0
	}
	if c.loopMarker > 0 && c.playhead >= c.loopMarker {
		c.startEpoch = now
		c.playhead = 0
		if c.loopCallback != nil {
			c.loopCallback()
		}
	}
}
