package input

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/multitake/internal/model"
)

// TickMsg drives one update/draw frame of the controller.
type TickMsg time.Time

// tickInterval is the frame period for fps.
func tickInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 30
	}
	return time.Second / time.Duration(fps)
}

// nextTickDelay returns how long to wait for the next frame. Frames are
// scheduled against the start time rather than the previous frame, so slow
// frames do not accumulate drift.
func nextTickDelay(start, now time.Time, count, fps int) time.Duration {
	next := start.Add(time.Duration(count+1) * tickInterval(fps))
	if d := next.Sub(now); d > 0 {
		return d
	}
	return 0
}

// StartTicking resets the frame schedule and returns the first tick.
func StartTicking(m *model.Model) tea.Cmd {
	m.TickStart = time.Now()
	m.TickCount = 0
	return Tick(m)
}

func Tick(m *model.Model) tea.Cmd {
	d := nextTickDelay(m.TickStart, time.Now(), m.TickCount, m.FPS)
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// AdvancePlayback runs one frame and schedules the next.
func AdvancePlayback(m *model.Model) tea.Cmd {
	m.Tick()
	return Tick(m)
}
