package model

// Timeline window helpers

// TimelineDuration is the total scrollable length: the end of the latest
// take, the loop marker or the playhead, whichever is furthest.
func (m *Model) TimelineDuration() float64 {
	d := m.Ctl.Playhead()
	if marker, ok := m.Ctl.Clock().LoopMarker(); ok {
		d = max(d, marker)
	}
	for _, t := range m.Tracks() {
		if _, end, ok := Span(t); ok {
			d = max(d, end)
		}
	}
	return max(d, 1)
}

// JogTimeline moves the window left or right
func (m *Model) JogTimeline(direction float64, fast bool) {
	duration := m.TimelineEnd - m.TimelineStart
	stepPercent := 0.05
	if fast {
		stepPercent = 0.25
	}
	step := duration * stepPercent * direction

	m.TimelineStart += step
	m.TimelineEnd += step
	m.clampTimeline(duration)
}

// ZoomTimeline zooms in or out (zoomIn = true for zoom in, false for zoom out)
func (m *Model) ZoomTimeline(zoomIn bool) {
	duration := m.TimelineEnd - m.TimelineStart
	center := (m.TimelineStart + m.TimelineEnd) / 2.0

	// Progressively move the center towards the selected take (30% per zoom)
	if tr := m.SelectedTrack(); tr != nil {
		if start, _, ok := Span(tr); ok {
			center = center + (start-center)*0.3
		}
	}

	var newDuration float64
	if zoomIn {
		newDuration = duration * 0.8
	} else {
		newDuration = duration * 1.25
	}
	newDuration = min(max(newDuration, 0.25), m.TimelineDuration())

	m.TimelineStart = center - newDuration/2.0
	m.TimelineEnd = center + newDuration/2.0
	m.clampTimeline(newDuration)
}

func (m *Model) clampTimeline(duration float64) {
	total := m.TimelineDuration()
	if m.TimelineStart < 0 {
		m.TimelineStart = 0
		m.TimelineEnd = duration
	}
	if m.TimelineEnd > total && total >= duration {
		m.TimelineEnd = total
		m.TimelineStart = m.TimelineEnd - duration
		if m.TimelineStart < 0 {
			m.TimelineStart = 0
		}
	}
}

// followPlayhead pages the window forward when the playhead runs off it.
func (m *Model) followPlayhead() {
	p := m.Ctl.Playhead()
	duration := m.TimelineEnd - m.TimelineStart
	if duration <= 0 {
		duration = 8
	}
	if p < m.TimelineStart || p > m.TimelineEnd {
		m.TimelineStart = p - duration*0.1
		if m.TimelineStart < 0 {
			m.TimelineStart = 0
		}
		m.TimelineEnd = m.TimelineStart + duration
	}
}
