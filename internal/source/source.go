// Package source provides live capture sources and presentation sinks for
// the payload kinds multitake knows how to record.
package source

import (
	"math"
	"sync"

	"github.com/go-audio/audio"

	"github.com/schollz/multitake/internal/payload"
)

// Sine generates consecutive mono PCM chunks of a sine tone.
type Sine struct {
	mu         sync.Mutex
	freq       float64
	sampleRate int
	chunk      int
	phase      float64
}

// NewSine returns a tone generator emitting chunk samples per capture.
func NewSine(freq float64, sampleRate, chunk int) *Sine {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	if chunk <= 0 {
		chunk = sampleRate / 30
	}
	return &Sine{freq: freq, sampleRate: sampleRate, chunk: chunk}
}

// SetFreq retunes the generator without a phase jump.
func (s *Sine) SetFreq(freq float64) {
	s.mu.Lock()
	s.freq = freq
	s.mu.Unlock()
}

func (s *Sine) Capture() (*audio.IntBuffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.freq <= 0 {
		return nil, false
	}
	data := make([]int, s.chunk)
	step := 2 * math.Pi * s.freq / float64(s.sampleRate)
	for i := range data {
		data[i] = int(0.5 * math.MaxInt16 * math.Sin(s.phase))
		s.phase = math.Mod(s.phase+step, 2*math.Pi)
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: s.sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}, true
}

// Orbit moves n points around a circle, one step per capture.
type Orbit struct {
	mu     sync.Mutex
	n      int
	radius float64
	speed  float64 // radians per capture
	angle  float64
}

func NewOrbit(n int, radius, speed float64) *Orbit {
	if n <= 0 {
		n = 1
	}
	return &Orbit{n: n, radius: radius, speed: speed}
}

func (o *Orbit) Capture() (payload.PointCloud, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	pc := payload.PointCloud{Points: make([]payload.Point, o.n)}
	for i := range pc.Points {
		a := o.angle + 2*math.Pi*float64(i)/float64(o.n)
		pc.Points[i] = payload.Point{
			X: math.Round(o.radius*math.Cos(a)*1000) / 1000,
			Y: math.Round(o.radius*math.Sin(a)*1000) / 1000,
		}
	}
	o.angle = math.Mod(o.angle+o.speed, 2*math.Pi)
	return pc, true
}

// Level summarizes one audio chunk.
type Level struct {
	Peak float64 `json:"peak"`
	RMS  float64 `json:"rms"`
}

// Measure computes the normalized peak and RMS of buf.
func Measure(buf *audio.IntBuffer) Level {
	if buf == nil || len(buf.Data) == 0 {
		return Level{}
	}
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = 16
	}
	full := math.Pow(2, float64(depth-1))
	var peak, sum float64
	for _, v := range buf.Data {
		f := math.Abs(float64(v)) / full
		peak = math.Max(peak, f)
		sum += f * f
	}
	return Level{Peak: peak, RMS: math.Sqrt(sum / float64(len(buf.Data)))}
}

// Meter captures the level of whatever an audio source produces next.
type Meter struct {
	src *Sine
}

func NewMeter(src *Sine) *Meter {
	return &Meter{src: src}
}

func (m *Meter) Capture() (Level, bool) {
	buf, ok := m.src.Capture()
	if !ok {
		return Level{}, false
	}
	return Measure(buf), true
}
