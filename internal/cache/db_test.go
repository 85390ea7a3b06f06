package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipted/snipterm/internal/api"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnippetRoundTrip(t *testing.T) {
	db := newTestDB(t)

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	in := &api.Snippet{
		ID:          42,
		Title:       "Binary search",
		Code:        "func search(xs []int, x int) int {\n\treturn 0\n}",
		Language:    "go",
		Description: "classic",
		Tags:        []api.Tag{{Name: "go"}, {Name: "algorithms"}},
		Author:      &api.User{ID: 9, Username: "ada"},
		LikesCount:  3,
		IsLiked:     true,
		CreatedAt:   api.Timestamp{Time: created},
		UpdatedAt:   api.Timestamp{Time: created},
	}
	require.NoError(t, db.PutSnippet(in))

	out, fresh, err := db.GetSnippet(42, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, fresh)

	assert.Equal(t, in.Title, out.Title)
	assert.Equal(t, in.Code, out.Code)
	assert.Equal(t, in.Description, out.Description)
	assert.Equal(t, []string{"go", "algorithms"}, out.TagNames())
	require.NotNil(t, out.Author)
	assert.Equal(t, "ada", out.Author.Username)
	assert.Equal(t, 3, out.LikesCount)
	assert.True(t, out.IsLiked)
	assert.True(t, out.CreatedAt.Equal(created))
}

func TestGetSnippetMissIsNotAnError(t *testing.T) {
	db := newTestDB(t)

	s, fresh, err := db.GetSnippet(999, time.Minute)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.False(t, fresh)
}

func TestSnippetFreshnessExpires(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.PutSnippet(&api.Snippet{ID: 1, Title: "t", Code: "c"}))

	_, fresh, err := db.GetSnippet(1, time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	// A zero TTL makes every entry stale but still readable.
	s, fresh, err := db.GetSnippet(1, 0)
	require.NoError(t, err)
	require.NotNil(t, s, "stale entries are served, just flagged")
	assert.False(t, fresh)
}

func TestPutSnippetReplacesExisting(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.PutSnippet(&api.Snippet{ID: 1, Title: "old", LikesCount: 1}))
	require.NoError(t, db.PutSnippet(&api.Snippet{ID: 1, Title: "new", LikesCount: 2}))

	s, _, err := db.GetSnippet(1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "new", s.Title)
	assert.Equal(t, 2, s.LikesCount)
}

func TestZeroTimestampsStayZeroAcrossRoundTrip(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.PutSnippet(&api.Snippet{ID: 8, Title: "t", Code: "c"}))

	s, _, err := db.GetSnippet(8, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.True(t, s.CreatedAt.IsZero(), "a missing created_at must not come back as year 1")
	assert.True(t, s.UpdatedAt.IsZero())

	require.NoError(t, db.PutUser(&api.User{ID: 3, Username: "ada"}))
	u, _, err := db.GetUser(3, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.CreatedAt.IsZero())
}

func TestDeleteSnippetRemovesRow(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.PutSnippet(&api.Snippet{ID: 8, Title: "t", Code: "c"}))
	require.NoError(t, db.DeleteSnippet(8))

	s, _, err := db.GetSnippet(8, time.Minute)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestListRoundTripAndInvalidate(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.PutList("all", []int64{3, 1, 2}))

	ids, fresh, err := db.GetList("all", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, []int64{3, 1, 2}, ids, "server ordering is preserved")

	require.NoError(t, db.InvalidateList("all"))
	ids, _, err = db.GetList("all", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestUserRoundTrip(t *testing.T) {
	db := newTestDB(t)

	in := &api.User{ID: 9, Username: "ada", Email: "a@b.com", ReputationStars: 4}
	require.NoError(t, db.PutUser(in))

	out, fresh, err := db.GetUser(9, time.Hour)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, fresh)
	assert.Equal(t, "ada", out.Username)
	assert.Equal(t, "a@b.com", out.Email)
	assert.Equal(t, 4, out.ReputationStars)
}

func TestLastUserMirror(t *testing.T) {
	db := newTestDB(t)

	assert.Nil(t, db.LastUser())

	require.NoError(t, db.SaveLastUser(&api.User{ID: 9, Username: "ada"}))
	u := db.LastUser()
	require.NotNil(t, u)
	assert.Equal(t, "ada", u.Username)

	require.NoError(t, db.SaveLastUser(nil))
	assert.Nil(t, db.LastUser(), "logout clears the mirror")
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	db1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db1.PutList("all", []int64{1}))
	require.NoError(t, db1.Close())

	db2, err := Open(path)
	require.NoError(t, err)
	defer db2.Close()

	ids, _, err := db2.GetList("all", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids, "data survives reopen and re-migration")
}
