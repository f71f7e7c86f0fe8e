package payload

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON stores any JSON-serializable payload.
type JSON[T any] struct{}

func (JSON[T]) Extension() string { return "json" }

func (JSON[T]) Encode(w io.Writer, v T) error {
	return json.NewEncoder(w).Encode(v)
}

func (JSON[T]) Decode(r io.Reader) (T, error) {
	var v T
	err := json.NewDecoder(r).Decode(&v)
	return v, err
}
