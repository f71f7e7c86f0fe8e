// Package framestore persists frame-indexed track data: one index file per
// track mapping timestamps to frame files, and the frame files themselves.
package framestore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNotDirectory is returned when a track directory path is occupied by
	// something that is not a directory.
	ErrNotDirectory = errors.New("framestore: path exists and is not a directory")
	// ErrMalformedIndex is returned for index lines without the
	// timestamp/filename delimiter or with an unparsable timestamp.
	ErrMalformedIndex = errors.New("framestore: malformed index line")
	// ErrNotFound is returned when an index or frame does not exist.
	ErrNotFound = errors.New("framestore: not found")
)

const indexSuffix = "_info.txt"

// Entry is one index line.
type Entry struct {
	Timestamp float64
	File      string // relative to the store base
}

// IndexWriter appends entries to an open index file.
type IndexWriter interface {
	Append(e Entry) error
	Close() error
}

// Store is the persistence boundary used by recorders and players. All paths
// are relative to the store base and use forward slashes.
type Store interface {
	// EnsureDir creates dir if absent and fails with ErrNotDirectory when
	// the path exists as a file.
	EnsureDir(dir string) error
	// CreateIndex opens the index for track, truncating any previous take.
	CreateIndex(track string) (IndexWriter, error)
	// ReadIndex loads the whole index for track.
	ReadIndex(track string) ([]Entry, error)
	WriteFrame(file string, data []byte) error
	ReadFrame(file string) ([]byte, error)
	// Tracks lists the names of all tracks that have an index file.
	Tracks() ([]string, error)
	Base() string
}

// IndexName returns the index file name for a track.
func IndexName(track string) string {
	return track + indexSuffix
}

// FrameName returns the relative frame file path for frame n of a track.
func FrameName(track string, n int, ext string) string {
	return path.Join(track, fmt.Sprintf("frame_%d.%s", n, ext))
}

// FormatEntry renders an entry as an index line including the newline.
func FormatEntry(e Entry) string {
	return strconv.FormatFloat(e.Timestamp, 'f', -1, 64) + " " + e.File + "\n"
}

// ParseIndex reads index lines. The filename is everything after the first
// space. Entries come back sorted by timestamp.
func ParseIndex(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		ts, file, ok := strings.Cut(text, " ")
		if !ok || file == "" {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedIndex, line, text)
		}
		t, err := strconv.ParseFloat(ts, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedIndex, line, err)
		}
		entries = append(entries, Entry{Timestamp: t, File: file})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp < entries[j].Timestamp
	})
	return entries, nil
}

func trackFromIndex(name string) (string, bool) {
	if !strings.HasSuffix(name, indexSuffix) {
		return "", false
	}
	track := strings.TrimSuffix(name, indexSuffix)
	return track, track != ""
}
