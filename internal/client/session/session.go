package session

import (
	"sync"
)

// Principal is the authenticated user a session acts as.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// State is what survives a restart: the principal and its bearer token.
type State struct {
	Principal *Principal `json:"principal"`
	Token     string     `json:"token"`
}

// Slot is the durable storage for a session state. Load returns a zero
// State (not an error) when nothing has been saved yet.
type Slot interface {
	Load() (*State, error)
	Save(state *State) error
	Clear() error
}

// Session holds the process-wide auth state. It hydrates from the slot
// on construction so a restart resumes an authenticated session, and
// clears the slot on logout.
type Session struct {
	mu    sync.RWMutex
	state State
	slot  Slot
}

func NewSession(slot Slot) *Session {
	s := &Session{slot: slot}
	if slot != nil {
		if st, err := slot.Load(); err == nil && st != nil {
			s.state = *st
		}
	}
	return s
}

// Set records a successful login or registration and persists it.
func (s *Session) Set(p *Principal, token string) error {
	s.mu.Lock()
	s.state = State{Principal: p, Token: token}
	s.mu.Unlock()
	if s.slot == nil {
		return nil
	}
	return s.slot.Save(&State{Principal: p, Token: token})
}

// Clear drops the in-memory state and the durable slot.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()
	if s.slot == nil {
		return nil
	}
	return s.slot.Clear()
}

func (s *Session) Principal() *Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Principal
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token != "" && s.state.Principal != nil
}
