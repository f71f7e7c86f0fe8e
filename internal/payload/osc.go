package payload

import (
	"fmt"
	"io"

	"github.com/hypebeast/go-osc/osc"
)

// OSC stores a single OSC message in its wire encoding.
type OSC struct{}

func (OSC) Extension() string { return "osc" }

func (OSC) Encode(w io.Writer, v *osc.Message) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (OSC) Decode(r io.Reader) (*osc.Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	pkt, err := osc.ParsePacket(string(data))
	if err != nil {
		return nil, err
	}
	msg, ok := pkt.(*osc.Message)
	if !ok {
		return nil, fmt.Errorf("osc: expected message, got %T", pkt)
	}
	return msg, nil
}
