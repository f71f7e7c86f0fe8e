package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/schollz/multitake/internal/storage"
	"github.com/schollz/multitake/internal/track"
)

// Opener reopens a recorded take of the given kind as a player in the
// current group, typically through AddPlayer.
type Opener func(c *Controller, kind, name string) (track.Track, error)

// Snapshot describes the completed takes of the sequence. Pending and
// preview tracks are left out.
func (c *Controller) Snapshot() storage.Manifest {
	marker, _ := c.clock.LoopMarker()
	m := storage.Manifest{
		UID:            c.uid,
		LoopMarker:     marker,
		CompleteOnLoop: c.completeOnLoop,
	}
	for _, g := range c.sequence {
		gs := storage.GroupState{
			Name:   g.Name(),
			Offset: c.arena.LocalOffset(g.ID()),
			Tracks: []storage.TrackState{},
		}
		for _, t := range g.Tracks() {
			if t.Mode() != track.Playing {
				continue
			}
			gs.Tracks = append(gs.Tracks, storage.TrackState{
				Name:   t.Name(),
				Kind:   t.Kind(),
				Offset: t.LocalOffset(),
				Frames: t.FrameCount(),
			})
		}
		m.Groups = append(m.Groups, gs)
	}
	return m
}

// Restore replaces the sequence with the takes listed in m. Takes that fail
// to open are skipped and reported together; the rest stay loaded.
func (c *Controller) Restore(m storage.Manifest, open Opener) error {
	notify := c.onChange
	c.onChange = nil
	defer func() {
		c.onChange = notify
	}()

	c.reset()
	c.clock.SetLoopMarker(m.LoopMarker)
	c.completeOnLoop = m.CompleteOnLoop

	var errs []error
	for _, gs := range m.Groups {
		g := c.NewGroup(gs.Name)
		g.SetLocalOffset(gs.Offset)
		for _, ts := range gs.Tracks {
			t, err := open(c, ts.Kind, ts.Name)
			if err != nil {
				errs = append(errs, fmt.Errorf("restore %s: %w", ts.Name, err))
				continue
			}
			t.SetLocalOffset(ts.Offset)
		}
	}
	c.uid = m.UID
	log.Printf("restored %d groups, %d tracks", len(c.sequence), len(c.Tracks()))
	return errors.Join(errs...)
}
