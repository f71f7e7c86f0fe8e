package main

import (
	"bytes"
	"io"
	"strings"
	"syscall"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/multitake/internal/framestore"
	"github.com/schollz/multitake/internal/storage"
)

func TestSeconds(t *testing.T) {
	d, err := seconds(nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)

	d, err = seconds([]string{"2.5"}, 5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, d)

	_, err = seconds([]string{"-1"}, 5)
	assert.Error(t, err)
	_, err = seconds([]string{"abc"}, 5)
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	cfg.Dir = dir
	opts.debug = ""

	store := framestore.NewFS(dir)
	require.NoError(t, store.EnsureDir("track_0"))
	idx, err := store.CreateIndex("track_0")
	require.NoError(t, err)
	for i, ts := range []float64{0.25, 1.5} {
		name := framestore.FrameName("track_0", i, "txt")
		require.NoError(t, store.WriteFrame(name, []byte("0 0 0")))
		require.NoError(t, idx.Append(framestore.Entry{Timestamp: ts, File: name}))
	}
	require.NoError(t, idx.Close())

	require.NoError(t, storage.Save(dir, storage.Manifest{
		UID: 1,
		Groups: []storage.GroupState{{
			Name:   "group_0",
			Tracks: []storage.TrackState{{Name: "track_0", Kind: "points", Frames: 2}},
		}},
	}))

	var out bytes.Buffer
	inspectCmd.SetOut(&out)
	require.NoError(t, runInspect(inspectCmd, nil))

	s := out.String()
	assert.Contains(t, s, "TAKE")
	assert.Contains(t, s, "│", "bordered table")
	assert.Contains(t, s, "track_0")
	assert.Contains(t, s, "0.250")
	assert.Contains(t, s, "1.500")
	assert.Contains(t, s, "1 groups, 1 takes")
	assert.Contains(t, s, "group_0")
}

func TestTakesTable(t *testing.T) {
	store := framestore.NewMemory()
	store.Put(framestore.IndexName("track_0"), []byte("0.5 track_0/frame_0.txt\n2 track_0/frame_1.txt\n"))
	store.Put(framestore.IndexName("track_1"), nil)
	store.Put(framestore.IndexName("track_2"), []byte("broken\n"))

	out := takesTable(store, []string{"track_0", "track_1", "track_2"})
	lines := strings.Split(out, "\n")

	row := func(name string) string {
		for _, l := range lines {
			if strings.Contains(l, name) {
				return l
			}
		}
		return ""
	}
	assert.Contains(t, lines[1], "FRAMES")
	assert.Regexp(t, `track_0\s*│\s*2\s*│\s*0\.500\s*│\s*2\.000`, row("track_0"))
	assert.Regexp(t, `track_1\s*│\s*0\s*│\s*-\s*│\s*-`, row("track_1"))
	assert.Contains(t, row("track_2"), "malformed")
}

type idleModel struct{}

func (idleModel) Init() tea.Cmd                       { return nil }
func (idleModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return idleModel{}, nil }
func (idleModel) View() string                        { return "" }

func TestTermSignalQuitsProgram(t *testing.T) {
	p := tea.NewProgram(idleModel{},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler())
	setupCleanupOnExit(p)

	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("program did not quit on SIGTERM")
	}
}
