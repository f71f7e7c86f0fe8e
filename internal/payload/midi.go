package payload

import (
	"io"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDI stores the messages of one tick as a single-track standard MIDI file.
type MIDI struct{}

func (MIDI) Extension() string { return "mid" }

func (MIDI) Encode(w io.Writer, v []midi.Message) error {
	s := smf.New()
	var tr smf.Track
	for _, msg := range v {
		tr.Add(0, msg)
	}
	tr.Close(0)
	if err := s.Add(tr); err != nil {
		return err
	}
	_, err := s.WriteTo(w)
	return err
}

func (MIDI) Decode(r io.Reader) ([]midi.Message, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	var out []midi.Message
	for _, tr := range s.Tracks {
		for _, ev := range tr {
			if ev.Message.IsMeta() {
				continue
			}
			out = append(out, midi.Message(ev.Message))
		}
	}
	return out, nil
}
