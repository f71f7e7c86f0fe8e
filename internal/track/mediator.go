package track

import (
	"fmt"
	"log"

	"github.com/schollz/multitake/internal/framestore"
	"github.com/schollz/multitake/internal/payload"
)

// Mode is the discriminant of the mediator bound to a track.
type Mode int

const (
	Idle Mode = iota
	Recording
	Playing
)

func (m Mode) String() string {
	switch m {
	case Recording:
		return "recording"
	case Playing:
		return "playing"
	default:
		return "idle"
	}
}

// mediator is swapped as a whole value on every transition. Exactly one of
// rec/play is set, matching mode.
type mediator[T any] struct {
	mode Mode
	rec  *recorder[T]
	play *player[T]
}

func (m *mediator[T]) stop() error {
	var err error
	switch m.mode {
	case Recording:
		err = m.rec.stop()
	case Playing:
		m.play.stop()
	}
	*m = mediator[T]{}
	return err
}

type recorder[T any] struct {
	track   ID
	name    string
	store   framestore.Store
	codec   payload.Codec[T]
	capture func() (T, bool)
	present func(T)
	active  bool

	index   framestore.IndexWriter
	written int
	dropped int
	lastTS  float64
	last    T
	hasLast bool
}

// startRecorder prepares the track directory and truncates its index. An
// inactive recorder only monitors and touches no files.
func startRecorder[T any](id ID, name string, store framestore.Store, b Binding[T], active bool) (*recorder[T], error) {
	r := &recorder[T]{
		track:   id,
		name:    name,
		store:   store,
		codec:   b.Codec,
		capture: b.Capture,
		present: b.Present,
		active:  active,
	}
	if !active {
		return r, nil
	}
	if err := store.EnsureDir(name); err != nil {
		return nil, fmt.Errorf("recorder %s: %w", name, err)
	}
	idx, err := store.CreateIndex(name)
	if err != nil {
		return nil, fmt.Errorf("recorder %s: %w", name, err)
	}
	r.index = idx
	return r, nil
}

// update captures one payload and persists it as frame n. It reports whether
// a frame was written.
func (r *recorder[T]) update(t float64, n int) (bool, error) {
	if r.capture == nil {
		return false, nil
	}
	v, ok := r.capture()
	if !ok {
		return false, nil
	}
	r.last, r.hasLast = v, true
	if !r.active {
		return false, nil
	}
	if r.written > 0 && t < r.lastTS {
		r.dropped++
		log.Printf("recorder %s: dropping frame at %.3f before %.3f", r.name, t, r.lastTS)
		return false, nil
	}
	data, err := payload.Marshal(r.codec, v)
	if err != nil {
		return false, fmt.Errorf("recorder %s: encode frame %d: %w", r.name, n, err)
	}
	file := framestore.FrameName(r.name, n, r.codec.Extension())
	if err := r.store.WriteFrame(file, data); err != nil {
		return false, fmt.Errorf("recorder %s: %w", r.name, err)
	}
	if err := r.index.Append(framestore.Entry{Timestamp: t, File: file}); err != nil {
		return false, fmt.Errorf("recorder %s: append index: %w", r.name, err)
	}
	r.written++
	r.lastTS = t
	return true, nil
}

// draw monitors the most recent capture.
func (r *recorder[T]) draw() {
	if r.hasLast && r.present != nil {
		r.present(r.last)
	}
}

func (r *recorder[T]) stop() error {
	if r.index == nil {
		return nil
	}
	err := r.index.Close()
	r.index = nil
	if err != nil {
		return fmt.Errorf("recorder %s: close index: %w", r.name, err)
	}
	return nil
}

type player[T any] struct {
	track   ID
	name    string
	store   framestore.Store
	codec   payload.Codec[T]
	present func(T)

	entries []framestore.Entry
	cursor  int // -1 while uninitialized

	cachedAt int
	cached   T
}

// startPlayer loads the full index of the track.
func startPlayer[T any](id ID, name string, store framestore.Store, b Binding[T]) (*player[T], error) {
	entries, err := store.ReadIndex(name)
	if err != nil {
		return nil, fmt.Errorf("player %s: %w", name, err)
	}
	return &player[T]{
		track:    id,
		name:     name,
		store:    store,
		codec:    b.Codec,
		present:  b.Present,
		entries:  entries,
		cursor:   -1,
		cachedAt: -1,
	}, nil
}

// update moves the cursor to the latest entry at or before t. Outside the
// recorded span the player is uninitialized. A playhead behind the cursor
// starts a fresh scan from the first entry.
func (p *player[T]) update(t float64) {
	n := len(p.entries)
	if n == 0 || t < p.entries[0].Timestamp || t > p.entries[n-1].Timestamp {
		p.cursor = -1
		return
	}
	if p.cursor >= 0 && t < p.entries[p.cursor].Timestamp {
		p.cursor = -1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	for p.cursor+1 < n && p.entries[p.cursor+1].Timestamp <= t {
		p.cursor++
	}
}

func (p *player[T]) draw() error {
	if p.cursor < 0 || p.present == nil {
		return nil
	}
	if p.cachedAt != p.cursor {
		file := p.entries[p.cursor].File
		data, err := p.store.ReadFrame(file)
		if err != nil {
			return fmt.Errorf("player %s: %w", p.name, err)
		}
		v, err := payload.Unmarshal(p.codec, data)
		if err != nil {
			return fmt.Errorf("player %s: decode %s: %w", p.name, file, err)
		}
		p.cached, p.cachedAt = v, p.cursor
	}
	p.present(p.cached)
	return nil
}

func (p *player[T]) stop() {
	var zero T
	p.cursor = -1
	p.cached, p.cachedAt = zero, -1
}
