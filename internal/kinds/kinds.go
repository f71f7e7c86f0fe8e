// Package kinds maps payload kind names to track bindings: which codec a
// kind uses, where it captures from and how it is presented.
package kinds

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/go-audio/audio"
	"github.com/hypebeast/go-osc/osc"
	"gitlab.com/gomidi/midi/v2"

	"github.com/schollz/multitake/internal/config"
	"github.com/schollz/multitake/internal/controller"
	"github.com/schollz/multitake/internal/payload"
	"github.com/schollz/multitake/internal/source"
	"github.com/schollz/multitake/internal/track"
)

const (
	Points = "points"
	Audio  = "audio"
	Levels = "levels"
	MIDI   = "midi"
	Image  = "image"
	OSC    = "osc"
)

var (
	// ErrUnknownKind is returned for kind names the registry cannot bind.
	ErrUnknownKind = errors.New("unknown kind")
	// ErrNoOSCInput is returned when recording osc without a listener.
	ErrNoOSCInput = errors.New("osc input disabled, set an osc port")
)

// Names lists every supported kind.
func Names() []string {
	names := []string{Points, Audio, Levels, MIDI, Image, OSC}
	sort.Strings(names)
	return names
}

// Sources are the live inputs shared by every take of a session.
type Sources struct {
	Sine     *source.Sine
	Meter    *source.Meter
	Orbit    *source.Orbit
	Arp      *source.Arpeggio
	Gradient *source.Gradient
	OSC      *source.OSCListener  // nil when no osc port is configured
	Forward  *source.OSCForwarder // nil when playback is not forwarded
}

// NewSources builds the generators from cfg and starts the OSC listener if a
// port is configured.
func NewSources(cfg config.Config) (*Sources, error) {
	fps := max(cfg.FPS, 1)
	s := &Sources{
		Sine:     source.NewSine(cfg.Tone, cfg.SampleRate, cfg.SampleRate/fps),
		Meter:    source.NewMeter(source.NewSine(cfg.Tone, cfg.SampleRate, cfg.SampleRate/fps)),
		Orbit:    source.NewOrbit(5, 1, 2*math.Pi/float64(fps*4)),
		Arp:      source.NewArpeggio(0, 60, max(fps/4, 1)),
		Gradient: source.NewGradient(16, 4, 360/float64(fps*8)),
	}
	if cfg.OSCPort > 0 {
		l, err := source.NewOSCListener(cfg.OSCAddress)
		if err != nil {
			return nil, err
		}
		if err := l.Listen(fmt.Sprintf(":%d", cfg.OSCPort)); err != nil {
			return nil, err
		}
		s.OSC = l
	}
	if cfg.OSCForward != "" {
		f, err := source.NewOSCForwarder(cfg.OSCForward)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Forward = f
	}
	return s, nil
}

func (s *Sources) Close() error {
	if s.OSC != nil {
		return s.OSC.Close()
	}
	return nil
}

// Registry creates tracks by kind name and keeps one Monitor per track.
type Registry struct {
	src *Sources

	mu       sync.Mutex
	monitors map[string]*Monitor
}

func NewRegistry(src *Sources) *Registry {
	return &Registry{src: src, monitors: make(map[string]*Monitor)}
}

// Monitor returns the monitor of a track, or nil if the registry did not
// create it.
func (r *Registry) Monitor(name string) *Monitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.monitors[name]
}

func (r *Registry) register(name string, m *Monitor) {
	r.mu.Lock()
	r.monitors[name] = m
	r.mu.Unlock()
}

// Record starts a take of kind in the controller's current group. A preview
// take monitors without writing.
func (r *Registry) Record(c *controller.Controller, kind string, preview bool) (track.Track, error) {
	m := &Monitor{}
	var (
		tr  track.Track
		err error
	)
	switch kind {
	case Points:
		tr, err = record(c, r.points(m), preview)
	case Audio:
		tr, err = record(c, r.audio(m), preview)
	case Levels:
		tr, err = record(c, r.levels(m), preview)
	case MIDI:
		tr, err = record(c, r.midi(m), preview)
	case Image:
		tr, err = record(c, r.image(m), preview)
	case OSC:
		if r.src.OSC == nil {
			return nil, ErrNoOSCInput
		}
		tr, err = record(c, r.osc(m), preview)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	r.register(tr.Name(), m)
	return tr, nil
}

// Open reopens a recorded take as a player. It satisfies controller.Opener.
func (r *Registry) Open(c *controller.Controller, kind, name string) (track.Track, error) {
	m := &Monitor{}
	var (
		tr  track.Track
		err error
	)
	switch kind {
	case Points:
		tr, err = open(c, name, r.points(m))
	case Audio:
		tr, err = open(c, name, r.audio(m))
	case Levels:
		tr, err = open(c, name, r.levels(m))
	case MIDI:
		tr, err = open(c, name, r.midi(m))
	case Image:
		tr, err = open(c, name, r.image(m))
	case OSC:
		tr, err = open(c, name, r.osc(m))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	r.register(name, m)
	return tr, nil
}

func record[T any](c *controller.Controller, b track.Binding[T], preview bool) (track.Track, error) {
	add := controller.AddRecorder[T]
	if preview {
		add = controller.AddPreview[T]
	}
	tr, err := add(c, b)
	if err != nil {
		return nil, err
	}
	return tr, nil
}

func open[T any](c *controller.Controller, name string, b track.Binding[T]) (track.Track, error) {
	tr, err := controller.AddPlayer(c, name, b)
	if err != nil {
		return nil, err
	}
	return tr, nil
}

func (r *Registry) points(m *Monitor) track.Binding[payload.PointCloud] {
	return track.Binding[payload.PointCloud]{
		Kind:    Points,
		Codec:   payload.PointCloudCodec{},
		Capture: r.src.Orbit.Capture,
		Present: func(v payload.PointCloud) {
			if len(v.Points) == 0 {
				m.set("no points")
				return
			}
			p := v.Points[0]
			m.set(fmt.Sprintf("%d pts  first (%+.2f, %+.2f)", len(v.Points), p.X, p.Y))
			m.push(p.Y)
		},
	}
}

func (r *Registry) audio(m *Monitor) track.Binding[*audio.IntBuffer] {
	return track.Binding[*audio.IntBuffer]{
		Kind:    Audio,
		Codec:   payload.WAV{},
		Capture: r.src.Sine.Capture,
		Present: func(v *audio.IntBuffer) {
			lvl := source.Measure(v)
			m.set(fmt.Sprintf("%d samples  peak %.2f", len(v.Data), lvl.Peak))
			m.push(downsample(v, 16)...)
		},
	}
}

func (r *Registry) levels(m *Monitor) track.Binding[source.Level] {
	return track.Binding[source.Level]{
		Kind:    Levels,
		Codec:   payload.JSON[source.Level]{},
		Capture: r.src.Meter.Capture,
		Present: func(v source.Level) {
			m.set(fmt.Sprintf("peak %.2f  rms %.2f", v.Peak, v.RMS))
			m.push(v.RMS, -v.RMS)
		},
	}
}

func (r *Registry) midi(m *Monitor) track.Binding[[]midi.Message] {
	return track.Binding[[]midi.Message]{
		Kind:    MIDI,
		Codec:   payload.MIDI{},
		Capture: r.src.Arp.Capture,
		Present: func(v []midi.Message) {
			if note := source.NoteName(v); note != "" {
				m.set(note)
				return
			}
			m.set(fmt.Sprintf("%d messages", len(v)))
		},
	}
}

func (r *Registry) image(m *Monitor) track.Binding[image.Image] {
	return track.Binding[image.Image]{
		Kind:    Image,
		Codec:   payload.PNG{},
		Capture: r.src.Gradient.Capture,
		Present: func(v image.Image) {
			hex := source.DominantHex(v)
			b := v.Bounds()
			m.setColor(hex)
			m.set(fmt.Sprintf("%dx%d  %s", b.Dx(), b.Dy(), hex))
		},
	}
}

func (r *Registry) osc(m *Monitor) track.Binding[*osc.Message] {
	b := track.Binding[*osc.Message]{
		Kind:  OSC,
		Codec: payload.OSC{},
		Present: func(v *osc.Message) {
			m.set(describeOSC(v))
			if r.src.Forward != nil {
				r.src.Forward.Present(v)
			}
		},
	}
	if r.src.OSC != nil {
		b.Capture = r.src.OSC.Capture
	}
	return b
}

func describeOSC(msg *osc.Message) string {
	if msg == nil {
		return ""
	}
	args := make([]string, len(msg.Arguments))
	for i, a := range msg.Arguments {
		args[i] = fmt.Sprint(a)
	}
	return strings.TrimSpace(msg.Address + " " + strings.Join(args, " "))
}

// downsample picks n evenly spaced samples of buf, normalized to [-1, 1].
func downsample(buf *audio.IntBuffer, n int) []float64 {
	if buf == nil || len(buf.Data) == 0 || n <= 0 {
		return nil
	}
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = 16
	}
	full := math.Pow(2, float64(depth-1))
	n = min(n, len(buf.Data))
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(buf.Data[i*len(buf.Data)/n]) / full
	}
	return out
}

// Forget drops the monitors of tracks that are no longer in use.
func (r *Registry) Forget(keep []track.Track) {
	live := make(map[string]bool, len(keep))
	for _, t := range keep {
		live[t.Name()] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range r.monitors {
		if !live[name] {
			delete(r.monitors, name)
		}
	}
	log.Printf("monitors: %d live", len(r.monitors))
}
