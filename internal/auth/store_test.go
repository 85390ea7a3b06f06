package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/snipted/snipterm/internal/api"
)

func TestStoreInitialStateIsUndetermined(t *testing.T) {
	s := NewStore()
	state := s.State()
	assert.Nil(t, state.User)
	assert.False(t, state.Authenticated)
	assert.True(t, state.Loading, "startup state means 'not yet determined'")
}

func TestSetAuthDerivesAuthenticatedFromPresence(t *testing.T) {
	s := NewStore()

	user := &api.User{ID: 1, Username: "ada"}
	s.SetAuth(user)
	state := s.State()
	assert.Equal(t, user, state.User)
	assert.True(t, state.Authenticated)
	assert.False(t, state.Loading)

	s.SetAuth(nil)
	state = s.State()
	assert.Nil(t, state.User)
	assert.False(t, state.Authenticated)
	assert.False(t, state.Loading, "a nil resolution is 'determined to be logged out'")
}

func TestClearResetsToLoggedOut(t *testing.T) {
	s := NewStore()
	s.SetAuth(&api.User{ID: 1, Username: "ada"})
	s.Clear()

	state := s.State()
	assert.Nil(t, state.User)
	assert.False(t, state.Authenticated)
	assert.False(t, state.Loading)
}

func TestSetLoadingKeepsUser(t *testing.T) {
	s := NewStore()
	s.SetAuth(&api.User{ID: 1, Username: "ada"})
	s.SetLoading(true)

	state := s.State()
	assert.True(t, state.Loading)
	assert.True(t, state.Authenticated)

	s.SetLoading(false)
	assert.False(t, s.State().Loading)
}
