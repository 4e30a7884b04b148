package cache

import (
	"context"
	"strconv"
	"sync"
)

// Kind distinguishes the two cached result shapes
type Kind string

const (
	KindStats    Kind = "stats"
	KindChildren Kind = "children"
)

// Key addresses one cached result
type Key struct {
	Session string
	Window  string
	Kind    Kind
	NodeID  int64
}

func (k Key) String() string {
	return k.Session + ":" + k.Window + ":" + string(k.Kind) + ":" + strconv.FormatInt(k.NodeID, 10)
}

// Store is the backing storage for cached aggregations. Each session has one
// current window; switching it discards every entry of the previous window.
// The generation counter is shared by all sessions and only ever grows.
type Store interface {
	Window(ctx context.Context, session string) (string, error)
	SetWindow(ctx context.Context, session, window string) error
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, value []byte) error
	Generation(ctx context.Context) (int64, error)
	BumpGeneration(ctx context.Context) (int64, error)
	Purge(ctx context.Context) error
}

// MemoryStore keeps entries in process memory
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	gen      int64
}

type memorySession struct {
	window  string
	entries map[Key][]byte
}

// NewMemoryStore creates an empty in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memorySession)}
}

func (m *MemoryStore) Window(_ context.Context, session string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[session]; ok {
		return s.window, nil
	}
	return "", nil
}

func (m *MemoryStore) SetWindow(_ context.Context, session, window string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[session]
	if ok && s.window == window {
		return nil
	}
	m.sessions[session] = &memorySession{window: window, entries: make(map[Key][]byte)}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key Key) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key.Session]
	if !ok || s.window != key.Window {
		return nil, false, nil
	}
	v, ok := s.entries[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key Key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key.Session]
	if !ok || s.window != key.Window {
		return nil
	}
	s.entries[key] = value
	return nil
}

func (m *MemoryStore) Generation(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen, nil
}

func (m *MemoryStore) BumpGeneration(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	return m.gen, nil
}

// Purge drops every session
func (m *MemoryStore) Purge(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*memorySession)
	return nil
}

// Len returns the number of entries held for session
func (m *MemoryStore) Len(session string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[session]; ok {
		return len(s.entries)
	}
	return 0
}

var _ Store = (*MemoryStore)(nil)
