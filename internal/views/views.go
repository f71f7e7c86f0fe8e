package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/schollz/multitake/internal/input"
	"github.com/schollz/multitake/internal/model"
	"github.com/schollz/multitake/internal/track"
)

// headerWaveRows is the height of the monitor wave drawn above every view.
const headerWaveRows = 2

// Common styles used across all views
type ViewStyles struct {
	Selected  lipgloss.Style
	Normal    lipgloss.Style
	Label     lipgloss.Style
	Container lipgloss.Style
	Playback  lipgloss.Style
	Recording lipgloss.Style
	Group     lipgloss.Style
	Error     lipgloss.Style
}

// getCommonStyles returns the standard style definitions used across views
func getCommonStyles() *ViewStyles {
	return &ViewStyles{
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color("7")).Foreground(lipgloss.Color("0")),
		Normal:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Container: lipgloss.NewStyle().Padding(1, 2),
		Playback:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Recording: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Group:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// DisableColor renders every view without escape codes, for dumps and
// terminals that ask for no colour.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Render draws the active view.
func Render(m *model.Model) string {
	if m.ViewMode == model.TimelineView {
		return RenderTimelineView(m)
	}
	return RenderTakesView(m)
}

// renderViewWithCommonPattern provides a common structure for rendering views
func renderViewWithCommonPattern(m *model.Model, leftHeader, rightHeader string, renderContent func(styles *ViewStyles) string, contentLines int) string {
	styles := getCommonStyles()

	var content strings.Builder
	content.WriteString(RenderHeader(m, leftHeader, rightHeader))
	content.WriteString(renderContent(styles))
	content.WriteString(RenderFooter(m, contentLines))

	return styles.Container.Render(content.String())
}

// getRecordingIndicator is a closed circle while a take is being written and
// an open one while only previewing.
func getRecordingIndicator(m *model.Model) string {
	pending := m.Ctl.Pending()
	if len(pending) == 0 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	for _, t := range pending {
		if w, ok := t.(interface{ Writing() bool }); ok && w.Writing() {
			return style.Render("●")
		}
	}
	return style.Render("○")
}

// transportText is the right side of the header: kind, play state, playhead
// and loop marker.
func transportText(m *model.Model) string {
	state := "■"
	if m.Ctl.Clock().Active() {
		state = "▶"
	}
	s := fmt.Sprintf("%s  %s %6.2fs", m.Kind(), state, m.Ctl.Playhead())
	if marker, ok := m.Ctl.Clock().LoopMarker(); ok {
		s += fmt.Sprintf("  loop %.1fs", marker)
	}
	if m.Preview {
		s += "  preview"
	}
	return s
}

// RenderHeader renders the monitor wave of the selected track and the header
// line used by all views.
func RenderHeader(m *model.Model, leftContent, rightContent string) string {
	var content strings.Builder

	waveWidth := m.TermWidth - 4 // account for container padding
	if waveWidth < 1 {
		waveWidth = 1
	}
	var wave []float64
	if t := m.SelectedTrack(); t != nil {
		if mon := m.Registry.Monitor(t.Name()); mon != nil {
			wave = mon.Wave()
		}
	}
	content.WriteString(RenderWaveform(waveWidth, headerWaveRows, wave))

	recordingIndicator := getRecordingIndicator(m)

	availableWidth := m.TermWidth - 4
	leftLen := lipgloss.Width(leftContent)
	rightLen := lipgloss.Width(rightContent)
	indicatorLen := 0
	if recordingIndicator != "" {
		indicatorLen = 2 // Space + circle
	}
	paddingSize := availableWidth - leftLen - rightLen - indicatorLen
	if paddingSize < 1 {
		paddingSize = 1
	}

	fullHeader := leftContent
	if rightContent != "" {
		fullHeader += strings.Repeat(" ", paddingSize) + rightContent
	}
	if recordingIndicator != "" {
		fullHeader += " " + recordingIndicator
	}

	content.WriteString(fullHeader)
	content.WriteString("\n\n")

	return content.String()
}

// RenderFooter fills the remaining space and adds key help and the status
// line.
func RenderFooter(m *model.Model, contentLines int) string {
	styles := getCommonStyles()
	var content strings.Builder

	h := help.New()
	h.ShowAll = m.ShowHelp
	h.Width = m.TermWidth - 4
	helpView := h.View(input.Keys)

	headerLines := headerWaveRows + 2
	footerLines := lipgloss.Height(helpView) + 2

	// Account for container padding (2) as well
	maxContentLines := m.TermHeight - 2 - headerLines - footerLines
	if m.TermHeight > 0 && contentLines < maxContentLines {
		content.WriteString(strings.Repeat("\n", maxContentLines-contentLines))
	}

	content.WriteString("\n")
	if m.LastError != nil {
		content.WriteString(styles.Error.Render(m.Status))
	} else {
		content.WriteString(styles.Label.Render(m.Status))
	}
	content.WriteString("\n")
	content.WriteString(helpView)

	return content.String()
}

// modeText is the short label of a track's state.
func modeText(t track.Track, styles *ViewStyles) string {
	switch t.Mode() {
	case track.Recording:
		if w, ok := t.(interface{ Writing() bool }); ok && !w.Writing() {
			return styles.Recording.Render("prev")
		}
		return styles.Recording.Render("rec ")
	case track.Playing:
		return styles.Playback.Render("play")
	}
	return styles.Label.Render("idle")
}

// truncate cuts s to n runes, marking the cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// RenderTakesView lists every group and its takes.
func RenderTakesView(m *model.Model) string {
	groups := m.Ctl.Groups()
	lines := 0
	for _, g := range groups {
		lines += 1 + g.Len()
	}
	if lines == 0 {
		lines = 1
	}
	right := transportText(m)
	left := fmt.Sprintf("Takes (%d)", len(m.Tracks()))

	return renderViewWithCommonPattern(m, left, right, func(styles *ViewStyles) string {
		var content strings.Builder
		if len(groups) == 0 {
			content.WriteString(styles.Label.Render("no takes yet, press r to record"))
			content.WriteString("\n")
			return content.String()
		}

		selected := m.SelectedTrack()
		index := 0
		width := m.TermWidth - 4
		for _, g := range groups {
			content.WriteString(styles.Group.Render(fmt.Sprintf("%s  %+.2fs", g.Name(), g.Offset())))
			content.WriteString("\n")
			for _, t := range g.Tracks() {
				content.WriteString(renderTakeRow(m, t, index, t == selected, width, styles))
				content.WriteString("\n")
				index++
			}
		}
		return content.String()
	}, lines)
}

func renderTakeRow(m *model.Model, t track.Track, index int, selected bool, width int, styles *ViewStyles) string {
	arrow := " "
	if selected {
		arrow = "▶"
	}
	name := fmt.Sprintf("%-10s", t.Name())
	if selected {
		name = styles.Selected.Render(name)
	} else {
		name = styles.Normal.Render(name)
	}
	row := fmt.Sprintf("%s %s %s %-6s %s %5d %+7.2fs",
		arrow, colorDot(index), name, t.Kind(), modeText(t, styles), t.FrameCount(), t.Offset())

	mon := m.Registry.Monitor(t.Name())
	if mon == nil {
		return row
	}
	summary, _ := mon.Summary()
	if hex := mon.Color(); hex != "" {
		row += " " + swatch(hex)
	}
	if room := width - lipgloss.Width(row) - 2; room > 0 && summary != "" {
		row += "  " + styles.Label.Render(truncate(summary, room))
	}
	return row
}
