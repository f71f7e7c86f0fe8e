package source

import (
	"sync"

	"gitlab.com/gomidi/midi/v2"
)

// Arpeggio steps through a chord, emitting a note change every few captures.
// Captures in between report nothing, so a take only holds the changes.
type Arpeggio struct {
	mu       sync.Mutex
	channel  uint8
	notes    []uint8
	every    int
	velocity uint8

	tick    int
	step    int
	playing int // sounding key, -1 for none
}

// NewArpeggio plays a major seventh chord over root, changing every n
// captures.
func NewArpeggio(channel, root uint8, every int) *Arpeggio {
	if every <= 0 {
		every = 1
	}
	return &Arpeggio{
		channel:  channel,
		notes:    []uint8{root, root + 4, root + 7, root + 11},
		every:    every,
		velocity: 100,
		playing:  -1,
	}
}

func (a *Arpeggio) Capture() ([]midi.Message, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tick++
	if (a.tick-1)%a.every != 0 {
		return nil, false
	}
	var msgs []midi.Message
	if a.playing >= 0 {
		msgs = append(msgs, midi.NoteOff(a.channel, uint8(a.playing)))
	}
	key := a.notes[a.step%len(a.notes)]
	a.step++
	a.playing = int(key)
	msgs = append(msgs, midi.NoteOn(a.channel, key, a.velocity))
	return msgs, true
}

// NoteName describes the first note-on in msgs, or "" if there is none.
func NoteName(msgs []midi.Message) string {
	var ch, key, vel uint8
	for _, msg := range msgs {
		if msg.GetNoteOn(&ch, &key, &vel) {
			return midi.Note(key).String()
		}
	}
	return ""
}
