package framestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndex(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		in := "0 track_0/frame_0.txt\n0.5 track_0/frame_1.txt\n1 track_0/frame_2.txt\n"
		entries, err := ParseIndex(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, []Entry{
			{0, "track_0/frame_0.txt"},
			{0.5, "track_0/frame_1.txt"},
			{1, "track_0/frame_2.txt"},
		}, entries)
	})

	t.Run("filename keeps spaces after first delimiter", func(t *testing.T) {
		entries, err := ParseIndex(strings.NewReader("1.25 my take/frame_0.png\n"))
		require.NoError(t, err)
		assert.Equal(t, "my take/frame_0.png", entries[0].File)
	})

	t.Run("missing delimiter", func(t *testing.T) {
		_, err := ParseIndex(strings.NewReader("0 a.txt\nbroken\n"))
		assert.ErrorIs(t, err, ErrMalformedIndex)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		_, err := ParseIndex(strings.NewReader("abc a.txt\n"))
		assert.ErrorIs(t, err, ErrMalformedIndex)
	})

	t.Run("empty index", func(t *testing.T) {
		entries, err := ParseIndex(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("out of order lines are sorted", func(t *testing.T) {
		entries, err := ParseIndex(strings.NewReader("2 b\n1 a\n"))
		require.NoError(t, err)
		assert.Equal(t, "a", entries[0].File)
	})
}

func TestFormatEntry(t *testing.T) {
	assert.Equal(t, "0.7 track_1/frame_3.json\n", FormatEntry(Entry{0.7, "track_1/frame_3.json"}))
	assert.Equal(t, "track_2/frame_10.wav", FrameName("track_2", 10, "wav"))
	assert.Equal(t, "track_2_info.txt", IndexName("track_2"))
}

// exerciseStore runs the same checks against any Store implementation.
func exerciseStore(t *testing.T, s Store) {
	require.NoError(t, s.EnsureDir("track_0"))
	require.NoError(t, s.EnsureDir("track_0"), "existing directory is fine")

	idx, err := s.CreateIndex("track_0")
	require.NoError(t, err)
	for i, ts := range []float64{0, 0.5, 1} {
		name := FrameName("track_0", i, "txt")
		require.NoError(t, s.WriteFrame(name, []byte{byte(i)}))
		require.NoError(t, idx.Append(Entry{ts, name}))
	}
	require.NoError(t, idx.Close())

	entries, err := s.ReadIndex("track_0")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 0.5, entries[1].Timestamp)

	data, err := s.ReadFrame(entries[2].File)
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, data)

	// A new take truncates the previous index
	idx, err = s.CreateIndex("track_0")
	require.NoError(t, err)
	require.NoError(t, idx.Close())
	entries, err = s.ReadIndex("track_0")
	require.NoError(t, err)
	assert.Empty(t, entries)

	tracks, err := s.Tracks()
	require.NoError(t, err)
	assert.Equal(t, []string{"track_0"}, tracks)

	_, err = s.ReadIndex("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ReadFrame("missing/frame_0.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFS(t *testing.T) {
	base := filepath.Join(t.TempDir(), "takes")
	s := NewFS(base)
	exerciseStore(t, s)

	t.Run("index lands next to the track directory", func(t *testing.T) {
		_, err := os.Stat(filepath.Join(base, "track_0_info.txt"))
		assert.NoError(t, err)
		info, err := os.Stat(filepath.Join(base, "track_0"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("file in the way", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(base, "blocked"), []byte("x"), 0644))
		err := s.EnsureDir("blocked")
		assert.ErrorIs(t, err, ErrNotDirectory)
	})

	t.Run("tracks of a missing base", func(t *testing.T) {
		tracks, err := NewFS(filepath.Join(base, "nope")).Tracks()
		require.NoError(t, err)
		assert.Empty(t, tracks)
	})
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)

	t.Run("file in the way", func(t *testing.T) {
		m.Put("blocked", []byte("x"))
		assert.ErrorIs(t, m.EnsureDir("blocked"), ErrNotDirectory)
	})

	t.Run("frame write needs its directory", func(t *testing.T) {
		assert.Error(t, m.WriteFrame("nodir/frame_0.txt", nil))
	})
}
