package auth

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapWithoutSavedSession(t *testing.T) {
	backend := newFakeBackend()
	_, store, session, _ := newTestFlows(t, backend)

	user := session.Bootstrap(context.Background())
	assert.Nil(t, user)

	state := store.State()
	assert.False(t, state.Loading, "bootstrap resolves the undetermined state")
	assert.False(t, state.Authenticated)
	assert.Zero(t, backend.hits.Load(), "no cookies on disk means no probe")
}

func TestBootstrapRestoresValidSession(t *testing.T) {
	backend := newFakeBackend()
	flows, _, _, path := newTestFlows(t, backend)

	_, err := flows.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	// A fresh process: new client, new store, same cookie file.
	_, store2, session2, _ := newTestFlows(t, backend)
	session2.path = path

	user := session2.Bootstrap(context.Background())
	require.NotNil(t, user)
	assert.Equal(t, "ada", user.Username)
	assert.True(t, store2.Authenticated())
}

func TestBootstrapDiscardsExpiredSession(t *testing.T) {
	backend := newFakeBackend()
	flows, _, _, path := newTestFlows(t, backend)

	_, err := flows.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	// Corrupt the cookie value so the server rejects the restored session.
	require.NoError(t, os.WriteFile(path, []byte(`{"cookies":[{"name":"access_token","value":"stale"}]}`), 0o600))

	_, store2, session2, _ := newTestFlows(t, backend)
	session2.path = path

	user := session2.Bootstrap(context.Background())
	assert.Nil(t, user)

	state := store2.State()
	assert.False(t, state.Authenticated, "a rejected probe ends logged out, not errored")
	assert.False(t, state.Loading)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "dead cookies are removed from disk")
}

func TestBootstrapRunsOnce(t *testing.T) {
	backend := newFakeBackend()
	flows, store, session, _ := newTestFlows(t, backend)

	session.Bootstrap(context.Background())
	before := backend.hits.Load()

	_, err := flows.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	user := session.Bootstrap(context.Background())
	require.NotNil(t, user, "later calls return the current user without re-probing")
	assert.Equal(t, store.User(), user)
	// Login accounts for two requests; Bootstrap itself added none.
	assert.Equal(t, before+2, backend.hits.Load())
}
