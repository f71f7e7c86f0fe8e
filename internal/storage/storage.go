// Package storage persists the session manifest next to the recorded takes
// so a session can be reopened after the process exits.
package storage

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileName is the manifest file inside the save folder.
const FileName = "session.json.gz"

const manifestVersion = 1

// AutoSaveDelay is the debounce window of AutoSave.
var AutoSaveDelay = time.Second

type TrackState struct {
	Name   string  `json:"name"`
	Kind   string  `json:"kind"`
	Offset float64 `json:"offset,omitempty"`
	Frames int     `json:"frames"`
}

type GroupState struct {
	Name   string       `json:"name"`
	Offset float64      `json:"offset,omitempty"`
	Tracks []TrackState `json:"tracks"`
}

// Manifest describes the completed takes of a session and how they are
// grouped. Pending takes are never part of it.
type Manifest struct {
	Version        int          `json:"version"`
	SavedAt        time.Time    `json:"saved_at"`
	UID            int          `json:"uid"`
	LoopMarker     float64      `json:"loop_marker,omitempty"`
	CompleteOnLoop bool         `json:"complete_on_loop,omitempty"`
	Groups         []GroupState `json:"groups"`
}

// TrackCount returns the number of tracks over all groups.
func (m Manifest) TrackCount() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Tracks)
	}
	return n
}

// Save writes the manifest gzipped to folder, creating folder if needed. The
// file is replaced atomically.
func Save(folder string, m Manifest) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return fmt.Errorf("create save folder: %w", err)
	}
	m.Version = manifestVersion
	if m.SavedAt.IsZero() {
		m.SavedAt = time.Now()
	}

	tmp, err := os.CreateTemp(folder, FileName+".*")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	defer os.Remove(tmp.Name())

	gz := gzip.NewWriter(tmp)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		tmp.Close()
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := gz.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("compress manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(folder, FileName))
}

// DoSave saves and logs failures instead of returning them.
func DoSave(folder string, m Manifest) {
	if err := Save(folder, m); err != nil {
		log.Printf("Error saving session: %v", err)
		return
	}
	log.Printf("Saved session with %d tracks to %s", m.TrackCount(), folder)
}

// Load reads the manifest from folder.
func Load(folder string) (Manifest, error) {
	var m Manifest
	f, err := os.Open(filepath.Join(folder, FileName))
	if err != nil {
		return m, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return m, fmt.Errorf("decompress manifest: %w", err)
	}
	defer gz.Close()

	if err := json.NewDecoder(gz).Decode(&m); err != nil {
		return m, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version > manifestVersion {
		return m, fmt.Errorf("manifest version %d is newer than supported %d", m.Version, manifestVersion)
	}
	return m, nil
}

var (
	autoSaveMu    sync.Mutex
	autoSaveTimer *time.Timer
)

// AutoSave schedules a save of m after AutoSaveDelay. Calls inside the
// window replace the pending manifest and restart the timer, so bursts of
// changes write once. m must not be mutated by the caller afterwards.
func AutoSave(folder string, m Manifest) {
	autoSaveMu.Lock()
	defer autoSaveMu.Unlock()
	if autoSaveTimer != nil {
		autoSaveTimer.Stop()
	}
	autoSaveTimer = time.AfterFunc(AutoSaveDelay, func() {
		DoSave(folder, m)
	})
}

// Flush cancels a scheduled autosave and saves m immediately.
func Flush(folder string, m Manifest) {
	autoSaveMu.Lock()
	if autoSaveTimer != nil {
		autoSaveTimer.Stop()
		autoSaveTimer = nil
	}
	autoSaveMu.Unlock()
	DoSave(folder, m)
}
