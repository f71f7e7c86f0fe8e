package kinds

import "sync"

// waveLen is how many recent values a monitor keeps for drawing.
const waveLen = 256

// Monitor remembers what a track presented last, for the UI. Present
// callbacks write to it from the tick loop; views read it when rendering.
type Monitor struct {
	mu      sync.Mutex
	summary string
	hex     string
	count   int
	wave    []float64
}

func (m *Monitor) set(summary string) {
	m.mu.Lock()
	m.summary = summary
	m.count++
	m.mu.Unlock()
}

func (m *Monitor) setColor(hex string) {
	m.mu.Lock()
	m.hex = hex
	m.mu.Unlock()
}

// push appends values to the wave history, dropping the oldest.
func (m *Monitor) push(values ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wave = append(m.wave, values...)
	if over := len(m.wave) - waveLen; over > 0 {
		m.wave = append(m.wave[:0], m.wave[over:]...)
	}
}

// Summary returns the last presented value as text and how many values have
// been presented.
func (m *Monitor) Summary() (string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary, m.count
}

// Color is the "#rrggbb" colour of the last presented image, if any.
func (m *Monitor) Color() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hex
}

// Wave returns a copy of the recent value history in [-1, 1].
func (m *Monitor) Wave() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.wave))
	copy(out, m.wave)
	return out
}
