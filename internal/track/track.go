// Package track binds typed payload streams to the shared clock. A track is
// idle, recording to its frame store, or playing back what it recorded.
package track

import (
	"fmt"
	"log"

	"github.com/schollz/multitake/internal/framestore"
	"github.com/schollz/multitake/internal/payload"
)

// Clock is the playhead source tracks read on every tick.
type Clock interface {
	Playhead() float64
}

// Track is the type-erased view of a TrackT used by groups and the controller.
type Track interface {
	ID() ID
	Name() string
	Kind() string
	Mode() Mode
	FrameCount() int

	Update() error
	Draw() error

	GotoRecordMode(active bool) error
	GotoPlayMode() error
	GotoIdleMode() error
	Stop() error

	SetLocalOffset(t float64)
	SetLocalOffsetToCurrent()
	LocalOffset() float64
	Offset() float64
}

// Binding is everything a track needs to know about its payload type.
type Binding[T any] struct {
	Kind    string
	Codec   payload.Codec[T]
	Capture func() (T, bool)
	Present func(T)
}

// Env is shared by all tracks of one controller.
type Env struct {
	Store framestore.Store
	Clock Clock
	Arena *Arena
}

// TrackT is a track carrying payloads of type T.
type TrackT[T any] struct {
	env        Env
	id         ID
	name       string
	binding    Binding[T]
	frameCount int
	dropped    int
	med        mediator[T]
}

// New creates an idle track named name under parent in the env arena.
func New[T any](env Env, name string, parent ID, b Binding[T]) *TrackT[T] {
	if b.Kind == "" {
		b.Kind = b.Codec.Extension()
	}
	return &TrackT[T]{
		env:     env,
		id:      env.Arena.Add(parent),
		name:    name,
		binding: b,
	}
}

func (t *TrackT[T]) ID() ID          { return t.id }
func (t *TrackT[T]) Name() string    { return t.name }
func (t *TrackT[T]) Kind() string    { return t.binding.Kind }
func (t *TrackT[T]) Mode() Mode      { return t.med.mode }
func (t *TrackT[T]) FrameCount() int { return t.frameCount }

// Dropped is how many captures of the last take were not written because the
// playhead had moved behind the previous frame, as after a loop.
func (t *TrackT[T]) Dropped() int { return t.dropped }

// Cursor returns the index of the entry being presented, or -1 when the
// track is not playing or the playhead is outside the recorded span.
func (t *TrackT[T]) Cursor() int {
	if t.med.mode != Playing {
		return -1
	}
	return t.med.play.cursor
}

// Entries returns the loaded index while playing.
func (t *TrackT[T]) Entries() []framestore.Entry {
	if t.med.mode != Playing {
		return nil
	}
	return t.med.play.entries
}

// Writing reports whether the track is recording to the store, as opposed to
// previewing.
func (t *TrackT[T]) Writing() bool {
	return t.med.mode == Recording && t.med.rec.active
}

// localPlayhead is the clock playhead relative to this track's global offset.
func (t *TrackT[T]) localPlayhead() float64 {
	return t.env.Clock.Playhead() - t.Offset()
}

func (t *TrackT[T]) Update() error {
	switch t.med.mode {
	case Recording:
		wrote, err := t.med.rec.update(t.localPlayhead(), t.frameCount)
		if err != nil {
			return err
		}
		if wrote {
			t.frameCount++
		}
		t.dropped = t.med.rec.dropped
	case Playing:
		t.med.play.update(t.localPlayhead())
	}
	return nil
}

func (t *TrackT[T]) Draw() error {
	switch t.med.mode {
	case Recording:
		t.med.rec.draw()
	case Playing:
		return t.med.play.draw()
	}
	return nil
}

// GotoRecordModeWith replaces the capture and present callbacks, then enters
// record mode.
func (t *TrackT[T]) GotoRecordModeWith(capture func() (T, bool), present func(T), active bool) error {
	t.binding.Capture = capture
	t.binding.Present = present
	return t.GotoRecordMode(active)
}

// GotoRecordMode stops the current mediator and starts a new recorder. An
// active recorder truncates the previous take.
func (t *TrackT[T]) GotoRecordMode(active bool) error {
	if err := t.med.stop(); err != nil {
		return fmt.Errorf("track %s: %w", t.name, err)
	}
	rec, err := startRecorder(t.id, t.name, t.env.Store, t.binding, active)
	if err != nil {
		return err
	}
	if active {
		t.frameCount = 0
		t.dropped = 0
	}
	t.med = mediator[T]{mode: Recording, rec: rec}
	log.Printf("track %s: recording (active=%v)", t.name, active)
	return nil
}

// GotoPlayMode stops the current mediator and starts a player over the
// track's index file.
func (t *TrackT[T]) GotoPlayMode() error {
	if err := t.med.stop(); err != nil {
		return fmt.Errorf("track %s: %w", t.name, err)
	}
	p, err := startPlayer(t.id, t.name, t.env.Store, t.binding)
	if err != nil {
		return err
	}
	t.frameCount = len(p.entries)
	t.med = mediator[T]{mode: Playing, play: p}
	log.Printf("track %s: playing %d frames", t.name, t.frameCount)
	return nil
}

// GotoIdleMode stops the current mediator, closing any open index.
func (t *TrackT[T]) GotoIdleMode() error {
	return t.med.stop()
}

func (t *TrackT[T]) Stop() error {
	return t.GotoIdleMode()
}

func (t *TrackT[T]) SetLocalOffset(offset float64) {
	t.env.Arena.SetLocalOffset(t.id, offset)
}

// SetLocalOffsetToCurrent anchors the track at the current playhead, minus
// whatever its parents already contribute.
func (t *TrackT[T]) SetLocalOffsetToCurrent() {
	parent := 0.0
	if p, ok := t.env.Arena.Parent(t.id); ok {
		parent = t.env.Arena.Offset(p)
	}
	t.SetLocalOffset(t.env.Clock.Playhead() - parent)
}

func (t *TrackT[T]) LocalOffset() float64 {
	return t.env.Arena.LocalOffset(t.id)
}

func (t *TrackT[T]) Offset() float64 {
	return t.env.Arena.Offset(t.id)
}
