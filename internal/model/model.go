package model

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/multitake/internal/controller"
	"github.com/schollz/multitake/internal/framestore"
	"github.com/schollz/multitake/internal/kinds"
	"github.com/schollz/multitake/internal/storage"
	"github.com/schollz/multitake/internal/track"
)

type ViewMode int

const (
	TakesView ViewMode = iota
	TimelineView
)

// Model is the interactive session state shared by input handling and views.
type Model struct {
	Ctl      *controller.Controller
	Registry *kinds.Registry

	SaveFolder string
	AutoSave   bool
	FPS        int

	// New takes
	Kinds     []string
	KindIndex int
	Preview   bool

	// Selection and layout
	ViewMode   ViewMode
	Selected   int
	TermWidth  int
	TermHeight int
	ShowHelp   bool

	// Timeline window, in seconds
	TimelineStart float64
	TimelineEnd   float64

	TickStart time.Time // when the tick loop began, for drift-free scheduling
	TickCount int
	Status    string
	LastError error

	droppedSeen int
}

// NewModel wires ctl to autosave into saveFolder when autoSave is set.
func NewModel(ctl *controller.Controller, reg *kinds.Registry, saveFolder, kind string, fps int, autoSave bool) *Model {
	m := &Model{
		Ctl:         ctl,
		Registry:    reg,
		SaveFolder:  saveFolder,
		AutoSave:    autoSave,
		FPS:         fps,
		Kinds:       kinds.Names(),
		TimelineEnd: 8,
	}
	for i, k := range m.Kinds {
		if k == kind {
			m.KindIndex = i
		}
	}
	if autoSave {
		ctl.SetOnChange(m.save)
	}
	return m
}

func (m *Model) save() {
	storage.AutoSave(m.SaveFolder, m.Ctl.Snapshot())
}

// Flush writes the manifest now, bypassing the autosave debounce.
func (m *Model) Flush() {
	if m.AutoSave {
		storage.Flush(m.SaveFolder, m.Ctl.Snapshot())
	}
}

// Kind is the kind new takes are recorded as.
func (m *Model) Kind() string {
	if len(m.Kinds) == 0 {
		return ""
	}
	return m.Kinds[m.KindIndex]
}

func (m *Model) CycleKind(dir int) {
	n := len(m.Kinds)
	if n == 0 {
		return
	}
	m.KindIndex = ((m.KindIndex+dir)%n + n) % n
	m.setStatus("kind: %s", m.Kind())
}

// Tracks returns every track in sequence order.
func (m *Model) Tracks() []track.Track {
	return m.Ctl.Tracks()
}

// SelectedTrack returns the highlighted track, or nil when there is none.
func (m *Model) SelectedTrack() track.Track {
	tracks := m.Tracks()
	if len(tracks) == 0 {
		return nil
	}
	m.Selected = min(max(m.Selected, 0), len(tracks)-1)
	return tracks[m.Selected]
}

func (m *Model) MoveSelection(d int) {
	n := len(m.Tracks())
	if n == 0 {
		m.Selected = 0
		return
	}
	m.Selected = min(max(m.Selected+d, 0), n-1)
}

// Tick advances the controller one frame and presents it.
func (m *Model) Tick() {
	m.TickCount++
	if err := m.Ctl.Update(); err != nil {
		m.fail(err)
	}
	if err := m.Ctl.Draw(); err != nil {
		m.fail(err)
	}
	if n := m.droppedFrames(); n > m.droppedSeen {
		m.droppedSeen = n
		m.setStatus("%d frames dropped after the loop, complete-on-loop keeps every lap", n)
	}
	m.followPlayhead()
}

// droppedFrames sums the captures pending takes could not write because the
// clock looped behind them.
func (m *Model) droppedFrames() int {
	n := 0
	for _, t := range m.Ctl.Pending() {
		if d, ok := t.(interface{ Dropped() int }); ok {
			n += d.Dropped()
		}
	}
	return n
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = err.Error()
	log.Printf("Error: %v", err)
}

func (m *Model) setStatus(format string, args ...any) {
	m.LastError = nil
	m.Status = fmt.Sprintf(format, args...)
}

// StartTake records a new take of the selected kind. When nothing is
// playing yet the clock starts with it.
func (m *Model) StartTake() {
	if !m.Ctl.Clock().Active() {
		m.Ctl.Start()
	}
	m.droppedSeen = 0
	tr, err := m.Registry.Record(m.Ctl, m.Kind(), m.Preview)
	if err != nil {
		m.fail(err)
		return
	}
	m.Selected = len(m.Tracks()) - 1
	if m.Preview {
		m.setStatus("previewing %s (%s)", tr.Name(), tr.Kind())
		return
	}
	m.setStatus("recording %s (%s)", tr.Name(), tr.Kind())
}

// Retake records over the selected track.
func (m *Model) Retake() {
	tr := m.SelectedTrack()
	if tr == nil {
		return
	}
	if !m.Ctl.Clock().Active() {
		m.Ctl.Start()
	}
	m.droppedSeen = 0
	if err := m.Ctl.Retake(tr); err != nil {
		m.fail(err)
		return
	}
	m.setStatus("re-recording %s", tr.Name())
}

func (m *Model) CompleteTake() {
	if !m.Ctl.Recording() {
		return
	}
	dropped := m.droppedFrames()
	m.droppedSeen = 0
	if err := m.Ctl.CompleteRecorder(); err != nil {
		m.fail(err)
	} else if dropped > 0 {
		m.setStatus("take complete, %d tracks, %d frames dropped after the loop", len(m.Tracks()), dropped)
	} else {
		m.setStatus("take complete, %d tracks", len(m.Tracks()))
	}
	m.Registry.Forget(m.Tracks())
	m.MoveSelection(0)
}

func (m *Model) CancelTake() {
	if !m.Ctl.Recording() {
		return
	}
	m.Ctl.CancelRecorder()
	m.droppedSeen = 0
	m.Registry.Forget(m.Tracks())
	m.MoveSelection(0)
	m.setStatus("take cancelled")
}

// NewMovie drops every take and starts from an empty sequence. Files on
// disk are kept.
func (m *Model) NewMovie() {
	m.Ctl.ResetAll()
	m.Registry.Forget(nil)
	m.Selected = 0
	m.TimelineStart, m.TimelineEnd = 0, 8
	m.setStatus("new movie")
}

func (m *Model) NewGroup() {
	g := m.Ctl.NewGroup("")
	m.setStatus("new group %s", g.Name())
}

func (m *Model) TogglePlay() {
	m.Ctl.TogglePlay()
	if m.Ctl.Clock().Active() {
		m.setStatus("playing")
		return
	}
	m.setStatus("paused")
}

// Rewind restarts the clock from zero, keeping it running if it was.
func (m *Model) Rewind() {
	if m.Ctl.Clock().Active() {
		m.Ctl.Start()
	} else {
		m.Ctl.Stop()
	}
	m.TimelineStart = 0
	m.TimelineEnd = m.TimelineStart + max(m.TimelineEnd-m.TimelineStart, 1)
}

// NudgeOffset shifts the selected track by d seconds.
func (m *Model) NudgeOffset(d float64) {
	tr := m.SelectedTrack()
	if tr == nil {
		return
	}
	tr.SetLocalOffset(tr.LocalOffset() + d)
	m.setStatus("%s offset %+.2fs", tr.Name(), tr.Offset())
	if m.AutoSave {
		m.save()
	}
}

// AnchorSelected moves the selected track so it starts at the playhead.
func (m *Model) AnchorSelected() {
	tr := m.SelectedTrack()
	if tr == nil {
		return
	}
	tr.SetLocalOffsetToCurrent()
	m.setStatus("%s anchored at %.2fs", tr.Name(), tr.Offset())
	if m.AutoSave {
		m.save()
	}
}

// Span returns the global time span a track covers on the timeline.
func Span(t track.Track) (start, end float64, ok bool) {
	e, isPlayer := t.(interface{ Entries() []framestore.Entry })
	if !isPlayer {
		return 0, 0, false
	}
	entries := e.Entries()
	if len(entries) == 0 {
		return 0, 0, false
	}
	off := t.Offset()
	return entries[0].Timestamp + off, entries[len(entries)-1].Timestamp + off, true
}
