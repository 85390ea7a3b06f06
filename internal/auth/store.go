package auth

import (
	"sync"

	"github.com/snipted/snipterm/internal/api"
)

// State is a snapshot of who is logged in. Authenticated is true exactly
// when User is non-nil. Loading is true only before the bootstrap probe has
// resolved or while a login is in flight.
type State struct {
	User          *api.User
	Authenticated bool
	Loading       bool
}

// Store holds the process-wide auth state. It is constructed and passed by
// reference; views read it to decide what to render, and the bootstrap
// goroutine writes to it, hence the lock.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore starts in the "not yet determined" state, which is distinct
// from "determined to be logged out".
func NewStore() *Store {
	return &Store{state: State{Loading: true}}
}

// SetAuth replaces the current user. A nil user means "determined to be
// logged out". Loading always clears.
func (s *Store) SetAuth(user *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{
		User:          user,
		Authenticated: user != nil,
	}
}

// Clear is the local half of logout. It never talks to the server; that is
// the flow's job.
func (s *Store) Clear() {
	s.SetAuth(nil)
}

// SetLoading marks a login call as in flight.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
}

// State returns a snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the current user, or nil.
func (s *Store) User() *api.User {
	return s.State().User
}

// Authenticated reports whether a user is logged in.
func (s *Store) Authenticated() bool {
	return s.State().Authenticated
}
