// Package session holds per-user conversation state. Each session owns its
// own history and transform settings; sessions never see each other.
package session

import (
	"sync"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/imageprep"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role Role
	Text string
}

type Session struct {
	ID string

	mu           sync.Mutex
	manual       string
	turns        []Turn
	spec         imageprep.Spec
	pendingPhoto []byte
}

func New(id string) *Session {
	return &Session{ID: id, spec: imageprep.DefaultSpec()}
}

func (s *Session) Manual() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manual
}

func (s *Session) SetManual(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual = name
}

// Append records a turn. History is append-only during a session; only Reset
// clears it.
func (s *Session) Append(role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Role: role, Text: text})
}

// Turns returns the full retained history, oldest first.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

// Recent returns at most n of the latest turns, oldest first.
func (s *Session) Recent(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.turns) == 0 {
		return nil
	}
	start := len(s.turns) - n
	if start < 0 {
		start = 0
	}
	return append([]Turn(nil), s.turns[start:]...)
}

// Reset drops the conversation and any pending photo. The manual selection
// and transform settings survive.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.pendingPhoto = nil
}

func (s *Session) Spec() imageprep.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

func (s *Session) SetSpec(spec imageprep.Spec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = spec.Clamp()
}

// SetPendingPhoto holds a photo until the next question consumes it.
func (s *Session) SetPendingPhoto(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingPhoto = b
}

// TakePendingPhoto returns and clears the held photo.
func (s *Session) TakePendingPhoto() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.pendingPhoto
	s.pendingPhoto = nil
	return b
}

// Manager hands out sessions by ID, creating them on first use.
type Manager struct {
	m sync.Map // id -> *Session
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Get(id string) *Session {
	if v, ok := m.m.Load(id); ok {
		return v.(*Session)
	}
	v, _ := m.m.LoadOrStore(id, New(id))
	return v.(*Session)
}

// Lookup returns an existing session without creating one.
func (m *Manager) Lookup(id string) (*Session, bool) {
	v, ok := m.m.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}
