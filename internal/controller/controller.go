// Package controller owns the clock and the sequence of groups, and runs the
// take lifecycle: start recorders, then complete or cancel them.
package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/schollz/multitake/internal/clock"
	"github.com/schollz/multitake/internal/framestore"
	"github.com/schollz/multitake/internal/group"
	"github.com/schollz/multitake/internal/track"
)

// Controller ties a clock, a frame store and the track sequence together.
// It is not safe for concurrent use; drive it from a single tick loop.
type Controller struct {
	store framestore.Store
	clock *clock.Clock
	arena *track.Arena

	sequence []*group.Group
	pending  []track.Track
	uid      int

	loopMarker     float64
	completeOnLoop bool
	onChange       func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock uses an existing clock instead of a wall-clock one.
func WithClock(c *clock.Clock) Option {
	return func(ctl *Controller) {
		ctl.clock = c
	}
}

// WithLoopMarker arms the clock loop marker at t seconds.
func WithLoopMarker(t float64) Option {
	return func(ctl *Controller) {
		ctl.loopMarker = t
	}
}

// WithCompleteOnLoop completes pending takes whenever the clock loops.
func WithCompleteOnLoop(on bool) Option {
	return func(ctl *Controller) {
		ctl.completeOnLoop = on
	}
}

// WithOnChange registers fn to run after the sequence changes shape.
func WithOnChange(fn func()) Option {
	return func(ctl *Controller) {
		ctl.onChange = fn
	}
}

// New creates a controller writing to store.
func New(store framestore.Store, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		clock: clock.New(),
		arena: track.NewArena(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.loopMarker > 0 {
		c.clock.SetLoopMarker(c.loopMarker)
	}
	c.clock.SetLoopCallback(c.onLoop)
	return c
}

func (c *Controller) Clock() *clock.Clock       { return c.clock }
func (c *Controller) Store() framestore.Store   { return c.store }
func (c *Controller) Groups() []*group.Group    { return c.sequence }
func (c *Controller) Pending() []track.Track    { return c.pending }
func (c *Controller) Recording() bool           { return len(c.pending) > 0 }
func (c *Controller) Playhead() float64         { return c.clock.Playhead() }
func (c *Controller) CompleteOnLoop() bool      { return c.completeOnLoop }
func (c *Controller) SetCompleteOnLoop(on bool) { c.completeOnLoop = on }
func (c *Controller) SetOnChange(fn func())     { c.onChange = fn }

func (c *Controller) env() track.Env {
	return track.Env{Store: c.store, Clock: c.clock, Arena: c.arena}
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) onLoop() {
	if !c.completeOnLoop || len(c.pending) == 0 {
		return
	}
	log.Printf("loop marker reached, completing %d takes", len(c.pending))
	if err := c.CompleteRecorder(); err != nil {
		log.Printf("complete on loop: %v", err)
	}
}

// Update advances the clock and ticks every group.
func (c *Controller) Update() error {
	c.clock.Update()
	var errs []error
	for _, g := range c.sequence {
		if err := g.Update(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Draw presents every group.
func (c *Controller) Draw() error {
	var errs []error
	for _, g := range c.sequence {
		if err := g.Draw(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) Start() { c.clock.Start() }
func (c *Controller) Pause() { c.clock.Pause() }
func (c *Controller) Stop()  { c.clock.Stop() }

// Resume continues a paused clock, or starts a stopped one.
func (c *Controller) Resume() { c.clock.Resume() }

// TogglePlay pauses an active clock and resumes an inactive one.
func (c *Controller) TogglePlay() {
	if c.clock.Active() {
		c.clock.Pause()
		return
	}
	c.clock.Resume()
}

// NextUID returns a fresh track name.
func (c *Controller) NextUID() string {
	name := fmt.Sprintf("track_%d", c.uid)
	c.uid++
	return name
}

// NewGroup appends an empty group; new tracks go there.
func (c *Controller) NewGroup(name string) *group.Group {
	if name == "" {
		name = fmt.Sprintf("group_%d", len(c.sequence))
	}
	g := group.New(name, c.arena)
	c.sequence = append(c.sequence, g)
	log.Printf("new group %s", name)
	c.changed()
	return g
}

// CurrentGroup is the group at the back of the sequence, created on demand.
func (c *Controller) CurrentGroup() *group.Group {
	if len(c.sequence) == 0 {
		return c.NewGroup("")
	}
	return c.sequence[len(c.sequence)-1]
}

// FrameCount is the longest group's frame count.
func (c *Controller) FrameCount() int {
	n := 0
	for _, g := range c.sequence {
		n = max(n, g.FrameCount())
	}
	return n
}

// Tracks returns every track of the sequence in order.
func (c *Controller) Tracks() []track.Track {
	var out []track.Track
	for _, g := range c.sequence {
		out = append(out, g.Tracks()...)
	}
	return out
}

func (c *Controller) remove(t track.Track) {
	for _, g := range c.sequence {
		if g.Remove(t) {
			return
		}
	}
	if err := t.Stop(); err != nil {
		log.Printf("stop %s: %v", t.Name(), err)
	}
}

// AddRecorder starts a new take in the current group. When the recorder
// cannot start, the track is removed again and the error returned.
func AddRecorder[T any](c *Controller, b track.Binding[T]) (*track.TrackT[T], error) {
	return addRecorder(c, b, true)
}

// AddPreview starts a monitoring track that captures and presents live but
// writes nothing. Completing it discards it.
func AddPreview[T any](c *Controller, b track.Binding[T]) (*track.TrackT[T], error) {
	return addRecorder(c, b, false)
}

func addRecorder[T any](c *Controller, b track.Binding[T], active bool) (*track.TrackT[T], error) {
	g := c.CurrentGroup()
	tr := track.New(c.env(), c.NextUID(), g.ID(), b)
	g.Push(tr)
	if err := tr.GotoRecordMode(active); err != nil {
		g.Remove(tr)
		log.Printf("take %s aborted: %v", tr.Name(), err)
		return nil, fmt.Errorf("add recorder %s: %w", tr.Name(), err)
	}
	c.pending = append(c.pending, tr)
	log.Printf("take %s started in %s", tr.Name(), g.Name())
	return tr, nil
}

// AddPlayer opens an existing take by name in the current group.
func AddPlayer[T any](c *Controller, name string, b track.Binding[T]) (*track.TrackT[T], error) {
	g := c.CurrentGroup()
	tr := track.New(c.env(), name, g.ID(), b)
	if err := tr.GotoPlayMode(); err != nil {
		return nil, fmt.Errorf("add player %s: %w", name, err)
	}
	g.Push(tr)
	return tr, nil
}

// Retake records over an existing track and makes it pending again.
func (c *Controller) Retake(t track.Track) error {
	for _, p := range c.pending {
		if p == t {
			return nil
		}
	}
	if err := t.GotoRecordMode(true); err != nil {
		c.remove(t)
		c.changed()
		return fmt.Errorf("retake %s: %w", t.Name(), err)
	}
	c.pending = append(c.pending, t)
	log.Printf("take %s restarted", t.Name())
	return nil
}

// CancelRecorder aborts every pending take. Frames already written stay on
// disk but are no longer referenced.
func (c *Controller) CancelRecorder() {
	if len(c.pending) == 0 {
		return
	}
	for _, t := range c.pending {
		c.remove(t)
		log.Printf("take %s cancelled", t.Name())
	}
	c.pending = nil
	c.changed()
}

// CompleteRecorder turns every pending take with frames into a player and
// discards empty ones.
func (c *Controller) CompleteRecorder() error {
	if len(c.pending) == 0 {
		return nil
	}
	var errs []error
	for _, t := range c.pending {
		if t.FrameCount() == 0 {
			c.remove(t)
			log.Printf("take %s empty, discarded", t.Name())
			continue
		}
		if err := t.GotoPlayMode(); err != nil {
			c.remove(t)
			errs = append(errs, err)
			continue
		}
		log.Printf("take %s complete with %d frames", t.Name(), t.FrameCount())
	}
	c.pending = nil
	c.changed()
	return errors.Join(errs...)
}

// ResetAll stops every track, clears the sequence and rewinds the clock.
func (c *Controller) ResetAll() {
	c.reset()
	c.changed()
}

func (c *Controller) reset() {
	for _, g := range c.sequence {
		if err := g.Stop(); err != nil {
			log.Printf("stop group %s: %v", g.Name(), err)
		}
	}
	c.sequence = nil
	c.pending = nil
	c.uid = 0
	c.arena.Reset()
	c.clock.Reset()
}
