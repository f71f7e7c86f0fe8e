package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schollz/multitake/internal/model"
	"github.com/schollz/multitake/internal/track"
)

// labelWidth is the width of the track name column on the timeline.
const labelWidth = 11

// barSpan is the part of the timeline a track occupies: its recorded span
// when playing, or from its offset to the playhead while writing.
func barSpan(m *model.Model, t track.Track) (start, end float64, ok bool) {
	if start, end, ok = model.Span(t); ok {
		return start, end, true
	}
	if w, isRec := t.(interface{ Writing() bool }); isRec && w.Writing() {
		return t.Offset(), max(m.Ctl.Playhead(), t.Offset()), true
	}
	return 0, 0, false
}

// column maps a time to a bar column, or -1 when outside the window.
func column(t, start, end float64, width int) int {
	if width < 1 || end <= start || t < start || t > end {
		return -1
	}
	return min(int(float64(width)*(t-start)/(end-start)), width-1)
}

// renderBar draws one track row across the window.
func renderBar(m *model.Model, t track.Track, index, width int, styles *ViewStyles) string {
	start, end := m.TimelineStart, m.TimelineEnd
	cells := []rune(strings.Repeat("·", width))
	if s, e, ok := barSpan(m, t); ok {
		for x := range cells {
			at := start + (float64(x)+0.5)*(end-start)/float64(width)
			if at >= s && at <= e {
				cells[x] = '━'
			}
		}
		// Single-frame takes still get a mark
		if x := column(s, start, end, width); x >= 0 {
			cells[x] = '┣'
		}
	}

	bar := lipgloss.NewStyle().Foreground(TrackColor(index))
	if t.Mode() == track.Recording {
		bar = styles.Recording
	}
	playhead := column(m.Ctl.Playhead(), start, end, width)
	marker := -1
	if lm, ok := m.Ctl.Clock().LoopMarker(); ok {
		marker = column(lm, start, end, width)
	}

	var sb strings.Builder
	for x, r := range cells {
		switch {
		case x == playhead:
			sb.WriteString(styles.Playback.Render("│"))
		case x == marker:
			sb.WriteString(styles.Label.Render("┆"))
		case r == '·':
			sb.WriteString(styles.Label.Render(string(r)))
		default:
			sb.WriteString(bar.Render(string(r)))
		}
	}
	return sb.String()
}

// RenderTimelineView draws every take as a bar over the visible window.
func RenderTimelineView(m *model.Model) string {
	tracks := m.Tracks()
	lines := max(len(tracks), 1) + 2
	left := fmt.Sprintf("Timeline %.2fs - %.2fs", m.TimelineStart, m.TimelineEnd)

	return renderViewWithCommonPattern(m, left, transportText(m), func(styles *ViewStyles) string {
		var content strings.Builder
		width := max(m.TermWidth-4-labelWidth, 10)

		if len(tracks) == 0 {
			content.WriteString(styles.Label.Render("no takes yet, press r to record"))
			content.WriteString("\n")
		}
		selected := m.SelectedTrack()
		for i, t := range tracks {
			label := fmt.Sprintf("%-*s", labelWidth-1, truncate(t.Name(), labelWidth-1))
			if t == selected {
				label = styles.Selected.Render(label)
			} else {
				label = styles.Normal.Render(label)
			}
			content.WriteString(label + " ")
			content.WriteString(renderBar(m, t, i, width, styles))
			content.WriteString("\n")
		}

		ruler := generateTimestampRuler(width, m.TimelineStart, m.TimelineEnd)
		pad := strings.Repeat(" ", labelWidth)
		for _, line := range strings.Split(strings.TrimSuffix(ruler, "\n"), "\n") {
			content.WriteString(pad + styles.Label.Render(line) + "\n")
		}
		return content.String()
	}, lines)
}
