package framestore

import (
	"bytes"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store for tests and dry runs.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *Memory) Base() string {
	return "mem://"
}

// Put stores raw bytes at a path, bypassing any checks.
func (m *Memory) Put(file string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(file)] = append([]byte(nil), data...)
}

// Files returns every stored file path, sorted.
func (m *Memory) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for f := range m.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (m *Memory) EnsureDir(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir = path.Clean(dir)
	if _, ok := m.files[dir]; ok {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	m.dirs[dir] = true
	return nil
}

type memoryIndex struct {
	m      *Memory
	name   string
	buf    bytes.Buffer
	closed bool
}

func (x *memoryIndex) Append(e Entry) error {
	if x.closed {
		return fmt.Errorf("append to closed index %s", x.name)
	}
	x.buf.WriteString(FormatEntry(e))
	return nil
}

func (x *memoryIndex) Close() error {
	if x.closed {
		return nil
	}
	x.closed = true
	x.m.Put(x.name, x.buf.Bytes())
	return nil
}

// CreateIndex truncates the index immediately; appended lines become visible
// on Close, mirroring a buffered writer.
func (m *Memory) CreateIndex(track string) (IndexWriter, error) {
	name := IndexName(track)
	m.Put(name, nil)
	return &memoryIndex{m: m, name: name}, nil
}

func (m *Memory) ReadIndex(track string) ([]Entry, error) {
	data, err := m.ReadFrame(IndexName(track))
	if err != nil {
		return nil, err
	}
	entries, err := ParseIndex(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", IndexName(track), err)
	}
	return entries, nil
}

func (m *Memory) WriteFrame(file string, data []byte) error {
	m.mu.Lock()
	dir := path.Dir(path.Clean(file))
	ok := dir == "." || m.dirs[dir]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("write %s: directory %s does not exist", file, dir)
	}
	m.Put(file, data)
	return nil
}

func (m *Memory) ReadFrame(file string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path.Clean(file)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, file)
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Tracks() ([]string, error) {
	tracks := []string{}
	for _, f := range m.Files() {
		if strings.Contains(f, "/") {
			continue
		}
		if name, ok := trackFromIndex(f); ok {
			tracks = append(tracks, name)
		}
	}
	return tracks, nil
}
