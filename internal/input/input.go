package input

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/multitake/internal/model"
)

// nudgeStep is the offset change per arrow press, in seconds.
const nudgeStep = 0.05

// HandleKeyInput applies a key press to the model.
func HandleKeyInput(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Quit):
		m.Flush()
		return tea.Quit
	case key.Matches(msg, Keys.Help):
		m.ShowHelp = !m.ShowHelp

	case key.Matches(msg, Keys.Record):
		m.StartTake()
	case key.Matches(msg, Keys.Complete):
		m.CompleteTake()
	case key.Matches(msg, Keys.Cancel):
		m.CancelTake()
	case key.Matches(msg, Keys.Retake):
		m.Retake()
	case key.Matches(msg, Keys.Preview):
		m.Preview = !m.Preview

	case key.Matches(msg, Keys.PlayPause):
		m.TogglePlay()
	case key.Matches(msg, Keys.Rewind):
		m.Rewind()

	case key.Matches(msg, Keys.KindNext):
		m.CycleKind(1)
	case key.Matches(msg, Keys.KindPrev):
		m.CycleKind(-1)
	case key.Matches(msg, Keys.NewGroup):
		m.NewGroup()
	case key.Matches(msg, Keys.NewMovie):
		m.NewMovie()

	case key.Matches(msg, Keys.Up):
		m.MoveSelection(-1)
	case key.Matches(msg, Keys.Down):
		m.MoveSelection(1)
	case key.Matches(msg, Keys.NudgeLeft):
		m.NudgeOffset(-nudgeStep)
	case key.Matches(msg, Keys.NudgeRight):
		m.NudgeOffset(nudgeStep)
	case key.Matches(msg, Keys.Anchor):
		m.AnchorSelected()

	case key.Matches(msg, Keys.ZoomIn):
		m.ZoomTimeline(true)
	case key.Matches(msg, Keys.ZoomOut):
		m.ZoomTimeline(false)
	case key.Matches(msg, Keys.JogLeft):
		m.JogTimeline(-1, false)
	case key.Matches(msg, Keys.JogRight):
		m.JogTimeline(1, false)
	case key.Matches(msg, Keys.View):
		if m.ViewMode == model.TakesView {
			m.ViewMode = model.TimelineView
		} else {
			m.ViewMode = model.TakesView
		}
	}
	return nil
}
