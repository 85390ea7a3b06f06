package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL + "/api/v1")
	require.NoError(t, err)
	return client
}

type staticCreds struct {
	token string
}

func (s staticCreds) CSRFToken() (string, bool) {
	return s.token, s.token != ""
}

func TestCSRFHeaderOnMutatingRequests(t *testing.T) {
	var gotPost, gotGet string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			gotPost = r.Header.Get("X-CSRF-Token")
			w.Write([]byte(`{"is_liked": true}`))
		default:
			gotGet = r.Header.Get("X-CSRF-Token")
			w.Write([]byte(`[]`))
		}
	})
	client.SetCredentials(staticCreds{token: "tok123"})

	_, err := client.ListSnippets(context.Background(), ListOptions{})
	require.NoError(t, err)
	_, err = client.LikeSnippet(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "tok123", gotPost, "mutating request must echo the CSRF token")
	assert.Empty(t, gotGet, "GET must not carry a CSRF header")
}

func TestCSRFTokenReadFromCookieJar(t *testing.T) {
	var got string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "sess", Path: "/", HttpOnly: true})
			http.SetCookie(w, &http.Cookie{Name: "csrf_token", Value: "from-cookie", Path: "/"})
		case "/api/v1/auth/logout":
			got = r.Header.Get("X-CSRF-Token")
		}
	})

	require.NoError(t, client.Login(context.Background(), "a@b.com", "secret1"))
	require.NoError(t, client.Logout(context.Background()))
	assert.Equal(t, "from-cookie", got)
}

func TestLoginSendsFormEncodedCredentials(t *testing.T) {
	var contentType, username, password string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		username = r.PostFormValue("username")
		password = r.PostFormValue("password")
	})

	require.NoError(t, client.Login(context.Background(), "a@b.com", "secret1"))
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "a@b.com", username, "the email goes in the username form field")
	assert.Equal(t, "secret1", password)
}

func TestErrorCarriesStatusAndDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Not authenticated"}`))
	})

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, 401, StatusOf(err))
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Not authenticated")
}

func TestErrorDetailFromValidationArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [{"loc": ["body", "email"], "msg": "value is not a valid email address", "type": "value_error"}]}`))
	})

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
	assert.Contains(t, err.Error(), "not a valid email address")
}

func TestStatusOfNetworkErrorIsZero(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1")
	require.NoError(t, err)

	_, err = client.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
	assert.True(t, IsNetwork(err))
}

func TestListSnippetsDecodesBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/snippets", r.URL.Path)
		assert.Equal(t, "hello", r.URL.Query().Get("q"))
		assert.Equal(t, "go", r.URL.Query().Get("tag"))
		w.Write([]byte(`[
			{"id": 1, "title": "One", "code": "print(1)", "language": "python"},
			{"id": 0, "title": "malformed"},
			{"id": 2, "title": "Two", "code_content": "fmt.Println(2)", "language": "go", "user_id": 9}
		]`))
	})

	snippets, err := client.ListSnippets(context.Background(), ListOptions{Query: "hello", Tag: "go"})
	require.NoError(t, err)
	require.Len(t, snippets, 2, "malformed entries are dropped, not fatal")
	assert.Equal(t, "print(1)", snippets[0].Code)
	assert.Equal(t, "fmt.Println(2)", snippets[1].Code, "code_content is accepted as the body")
	require.NotNil(t, snippets[1].Author)
	assert.Equal(t, int64(9), snippets[1].Author.ID)
}

func TestListSnippetsDecodesPaginatedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"id": 3, "title": "Three", "code": "x"}], "total": 1, "page": 1}`))
	})

	snippets, err := client.ListSnippets(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, int64(3), snippets[0].ID)
}

func TestSearchSnippetsHitsSearchEndpoint(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/snippets/search", r.URL.Path)
		assert.Equal(t, "binary", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"id": 1, "title": "One", "code": "c"}]`))
	})

	snippets, err := client.SearchSnippets(context.Background(), "binary")
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, int64(1), snippets[0].ID)
}

func TestUpdateSnippetSendsOnlySetFields(t *testing.T) {
	var method, path string
	var body map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"id": 5, "title": "New title", "code": "x"}`))
	})

	title := "New title"
	snippet, err := client.UpdateSnippet(context.Background(), 5, SnippetUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/api/v1/snippets/5", path)
	assert.Equal(t, map[string]interface{}{"title": "New title"}, body, "nil fields stay out of the body")
	assert.Equal(t, "New title", snippet.Title)
}

func TestDeleteSnippetSendsCSRFToken(t *testing.T) {
	var method, path, token string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		token = r.Header.Get("X-CSRF-Token")
		w.WriteHeader(http.StatusNoContent)
	})
	client.SetCredentials(staticCreds{token: "tok123"})

	require.NoError(t, client.DeleteSnippet(context.Background(), 7))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/api/v1/snippets/7", path)
	assert.Equal(t, "tok123", token)
}

func TestLikeSnippetTogglesAndPosts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/snippets/42/like", r.URL.Path)
		w.Write([]byte(`{"is_liked": false}`))
	})

	liked, err := client.LikeSnippet(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestMeRejectsMalformedUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 5}`))
	})

	_, err := client.Me(context.Background())
	require.Error(t, err, "a user without a username fails boundary validation")
}

func TestListOptionsKey(t *testing.T) {
	assert.Equal(t, "all", ListOptions{}.Key())
	assert.Equal(t, ListOptions{Query: "x", Tag: "go"}.Key(), ListOptions{Tag: "go", Query: "x"}.Key())
	assert.NotEqual(t, ListOptions{Query: "x"}.Key(), ListOptions{Query: "y"}.Key())
}
