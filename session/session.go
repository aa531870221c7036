// Package session holds the front end's login state: the token and the
// identifiers that views read. It is created once at start and shared.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// Роли, как их возвращает бэкенд.
const (
	RoleStudent   = "student"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// State is what gets persisted under the fixed keys token, studentId,
// organizerId and role.
type State struct {
	Token       string `json:"token,omitempty"`
	StudentID   string `json:"studentId,omitempty"`
	OrganizerID string `json:"organizerId,omitempty"`
	Role        string `json:"role,omitempty"`
}

func (s State) empty() bool {
	return s == State{}
}

var ErrMissingToken = errors.New("session: login requires a token")

// Session is the only writer of the store. Reads are served from memory.
type Session struct {
	mu    sync.RWMutex
	store Store
	state State
}

// New loads whatever the store already holds.
func New(store Store) (*Session, error) {
	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &Session{store: store, state: state}, nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Session) StudentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.StudentID
}

func (s *Session) OrganizerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.OrganizerID
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Role
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Login replaces the whole state, so identifiers from a previous user never leak.
func (s *Session) Login(state State) error {
	if state.Token == "" {
		return ErrMissingToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.state = state
	return nil
}

// Logout clears token and identifiers together.
func (s *Session) Logout() error {
	return s.clear()
}

// Expire is the forced logout after the backend rejected the token.
// It reports whether there was anything to clear.
func (s *Session) Expire() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := !s.state.empty()
	return had, s.clearLocked()
}

func (s *Session) clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

func (s *Session) clearLocked() error {
	// Память очищаем даже при ошибке хранилища: токен уже недействителен.
	s.state = State{}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
