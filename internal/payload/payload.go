// Package payload holds the per-type codecs used to persist track frames.
package payload

import (
	"bytes"
	"io"
)

// Codec serializes one payload type to a frame file.
type Codec[T any] interface {
	// Extension is the frame file extension, without the dot.
	Extension() string
	Encode(w io.Writer, v T) error
	Decode(r io.Reader) (T, error)
}

// Marshal encodes v into a byte slice.
func Marshal[T any](c Codec[T], v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a frame from data.
func Unmarshal[T any](c Codec[T], data []byte) (T, error) {
	return c.Decode(bytes.NewReader(data))
}

func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
