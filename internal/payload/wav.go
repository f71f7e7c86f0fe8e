package payload

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV stores PCM chunks as self-describing wave files.
type WAV struct {
	BitDepth int // defaults to 16
}

func (WAV) Extension() string { return "wav" }

func (c WAV) Encode(w io.Writer, v *audio.IntBuffer) error {
	if v == nil || v.Format == nil {
		return errors.New("wav: buffer has no format")
	}
	bitDepth := c.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, v.Format.SampleRate, bitDepth, v.Format.NumChannels, 1)
	if err := enc.Write(v); err != nil {
		return fmt.Errorf("wav: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: close: %w", err)
	}
	_, err := w.Write(ws.buf)
	return err
}

func (WAV) Decode(r io.Reader) (*audio.IntBuffer, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, err
	}
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, errors.New("wav: invalid file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: decode: %w", err)
	}
	return buf, nil
}

// writeSeeker is the in-memory io.WriteSeeker the wav encoder needs to
// patch its header sizes on Close.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:], p)
	w.pos = end
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("wav: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("wav: negative position")
	}
	w.pos = int(abs)
	return abs, nil
}
