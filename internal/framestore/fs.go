package framestore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FS is a Store backed by a directory on disk.
type FS struct {
	base string
}

// NewFS returns a store rooted at base. The directory is created lazily.
func NewFS(base string) *FS {
	return &FS{base: base}
}

func (s *FS) Base() string {
	return s.base
}

func (s *FS) abs(rel string) string {
	return filepath.Join(s.base, filepath.FromSlash(rel))
}

func (s *FS) EnsureDir(dir string) error {
	p := s.abs(dir)
	info, err := os.Stat(p)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%w: %s", ErrNotDirectory, p)
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat %s: %w", p, err)
	}
	if err := os.MkdirAll(p, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", p, err)
	}
	return nil
}

type fileIndex struct {
	f *os.File
	w *bufio.Writer
}

func (x *fileIndex) Append(e Entry) error {
	_, err := x.w.WriteString(FormatEntry(e))
	return err
}

func (x *fileIndex) Close() error {
	if x.f == nil {
		return nil
	}
	flushErr := x.w.Flush()
	closeErr := x.f.Close()
	x.f = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func (s *FS) CreateIndex(track string) (IndexWriter, error) {
	if err := os.MkdirAll(s.base, 0755); err != nil {
		return nil, fmt.Errorf("create base %s: %w", s.base, err)
	}
	p := s.abs(IndexName(track))
	f, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", p, err)
	}
	return &fileIndex{f: f, w: bufio.NewWriter(f)}, nil
}

func (s *FS) ReadIndex(track string) ([]Entry, error) {
	p := s.abs(IndexName(track))
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", p, err)
	}
	defer f.Close()
	entries, err := ParseIndex(f)
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", p, err)
	}
	return entries, nil
}

func (s *FS) WriteFrame(file string, data []byte) error {
	return os.WriteFile(s.abs(file), data, 0644)
}

func (s *FS) ReadFrame(file string) ([]byte, error) {
	data, err := os.ReadFile(s.abs(file))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, file)
	}
	return data, err
}

func (s *FS) Tracks() ([]string, error) {
	entries, err := os.ReadDir(s.base)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	tracks := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := trackFromIndex(e.Name()); ok {
			tracks = append(tracks, name)
		}
	}
	sort.Strings(tracks)
	return tracks, nil
}
