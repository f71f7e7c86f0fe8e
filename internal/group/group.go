// Package group composes tracks that share a clock and an offset.
package group

import (
	"errors"
	"log"

	"github.com/schollz/multitake/internal/track"
)

// Group is an ordered set of tracks. It owns an arena node; member tracks
// are created under it and inherit its offset.
type Group struct {
	name   string
	id     track.ID
	arena  *track.Arena
	tracks []track.Track
}

// New creates an empty group with its own node in arena.
func New(name string, arena *track.Arena) *Group {
	return &Group{
		name:  name,
		id:    arena.Add(track.NoParent),
		arena: arena,
	}
}

func (g *Group) Name() string { return g.name }

// ID is the arena node tracks should be parented to.
func (g *Group) ID() track.ID { return g.id }

func (g *Group) Len() int { return len(g.tracks) }

// Tracks returns the members in insertion order.
func (g *Group) Tracks() []track.Track {
	out := make([]track.Track, len(g.tracks))
	copy(out, g.tracks)
	return out
}

// Push appends t and re-parents it under the group.
func (g *Group) Push(t track.Track) {
	g.arena.SetParent(t.ID(), g.id)
	g.tracks = append(g.tracks, t)
}

// Remove stops t and drops it from the group. It reports whether t was a
// member.
func (g *Group) Remove(t track.Track) bool {
	for i, m := range g.tracks {
		if m != t {
			continue
		}
		if err := m.Stop(); err != nil {
			log.Printf("group %s: stop %s: %v", g.name, m.Name(), err)
		}
		g.tracks = append(g.tracks[:i], g.tracks[i+1:]...)
		return true
	}
	return false
}

func (g *Group) Update() error {
	var errs []error
	for _, t := range g.tracks {
		if err := t.Update(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *Group) Draw() error {
	var errs []error
	for _, t := range g.tracks {
		if err := t.Draw(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *Group) GotoRecordMode(active bool) error {
	var errs []error
	for _, t := range g.tracks {
		if err := t.GotoRecordMode(active); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *Group) GotoPlayMode() error {
	var errs []error
	for _, t := range g.tracks {
		if err := t.GotoPlayMode(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *Group) Stop() error {
	var errs []error
	for _, t := range g.tracks {
		if err := t.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FrameCount is the longest member's frame count.
func (g *Group) FrameCount() int {
	n := 0
	for _, t := range g.tracks {
		n = max(n, t.FrameCount())
	}
	return n
}

func (g *Group) SetLocalOffset(t float64) {
	g.arena.SetLocalOffset(g.id, t)
}

func (g *Group) Offset() float64 {
	return g.arena.Offset(g.id)
}
