package source

import (
	"image"
	"net"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/hypebeast/go-osc/osc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

func TestSine(t *testing.T) {
	s := NewSine(441, 44100, 100)
	buf, ok := s.Capture()
	require.True(t, ok)
	assert.Len(t, buf.Data, 100)
	assert.Equal(t, 44100, buf.Format.SampleRate)
	assert.Equal(t, 0, buf.Data[0])

	// one full period per 100 samples, so the next chunk starts at zero again
	next, ok := s.Capture()
	require.True(t, ok)
	assert.InDelta(t, 0, next.Data[0], 2)

	s.SetFreq(0)
	_, ok = s.Capture()
	assert.False(t, ok)
}

func TestMeasure(t *testing.T) {
	assert.Equal(t, Level{}, Measure(nil))

	buf := &audio.IntBuffer{Data: []int{16384, -16384}, SourceBitDepth: 16}
	lvl := Measure(buf)
	assert.InDelta(t, 0.5, lvl.Peak, 1e-9)
	assert.InDelta(t, 0.5, lvl.RMS, 1e-9)

	m := NewMeter(NewSine(100, 8000, 800))
	lvl, ok := m.Capture()
	require.True(t, ok)
	assert.InDelta(t, 0.5, lvl.Peak, 0.01)
	assert.InDelta(t, 0.5/1.4142, lvl.RMS, 0.01)
}

func TestOrbit(t *testing.T) {
	o := NewOrbit(4, 1, 0.1)
	pc, ok := o.Capture()
	require.True(t, ok)
	require.Len(t, pc.Points, 4)
	assert.Equal(t, 1.0, pc.Points[0].X)
	assert.Equal(t, 0.0, pc.Points[0].Y)
	assert.Equal(t, -1.0, pc.Points[2].X)

	pc2, _ := o.Capture()
	assert.NotEqual(t, pc.Points[0], pc2.Points[0])
}

func TestArpeggio(t *testing.T) {
	a := NewArpeggio(0, 60, 2)

	msgs, ok := a.Capture()
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, midi.Note(60).String(), NoteName(msgs))

	_, ok = a.Capture()
	assert.False(t, ok, "between steps")

	msgs, ok = a.Capture()
	require.True(t, ok)
	require.Len(t, msgs, 2)
	var ch, key, vel uint8
	assert.True(t, msgs[0].GetNoteOff(&ch, &key, &vel))
	assert.Equal(t, uint8(60), key)
	assert.Equal(t, midi.Note(64).String(), NoteName(msgs))
}

func TestGradient(t *testing.T) {
	g := NewGradient(8, 2, 30)
	img, ok := g.Capture()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 8, 2), img.Bounds())
	first := DominantHex(img)
	assert.Len(t, first, 7)

	img2, _ := g.Capture()
	assert.NotEqual(t, first, DominantHex(img2))
	assert.Equal(t, "", DominantHex(nil))
}

func TestOSCListenerAndForwarder(t *testing.T) {
	l, err := NewOSCListener("*")
	require.NoError(t, err)
	require.NoError(t, l.Listen("127.0.0.1:0"))
	defer l.Close()

	_, ok := l.Capture()
	assert.False(t, ok)

	addr := l.Addr().(*net.UDPAddr)
	fwd, err := NewOSCForwarder(addr.String())
	require.NoError(t, err)

	msg := osc.NewMessage("/fader/1")
	msg.Append(float32(0.25))
	fwd.Present(msg)

	var got *osc.Message
	require.Eventually(t, func() bool {
		got, ok = l.Capture()
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "/fader/1", got.Address)
	assert.Equal(t, []interface{}{float32(0.25)}, got.Arguments)

	// handed out once
	_, ok = l.Capture()
	assert.False(t, ok)
}

func TestOSCForwarderBadAddress(t *testing.T) {
	_, err := NewOSCForwarder("nope")
	assert.Error(t, err)
	_, err = NewOSCForwarder("localhost:port")
	assert.Error(t, err)
}
