package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/snipted/snipterm/internal/api"
)

// Session owns cookie persistence and the one-time startup probe that
// resolves the Store. The server's HTTP-only cookie is the real session;
// the file here only lets it survive restarts.
type Session struct {
	client *api.Client
	store  *Store
	path   string

	bootstrapOnce sync.Once
}

// NewSession creates a session bound to a client, a store, and the file
// cookies are saved to.
func NewSession(client *api.Client, store *Store, path string) *Session {
	return &Session{client: client, store: store, path: path}
}

// savedSession is the JSON structure written to disk.
type savedSession struct {
	Cookies []savedCookie `json:"cookies"`
	SavedAt time.Time     `json:"saved_at"`
}

type savedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HttpOnly bool      `json:"http_only"`
}

// Save persists the current cookies to disk.
func (s *Session) Save() error {
	cookies := s.client.Cookies()
	if len(cookies) == 0 {
		return nil
	}

	sc := make([]savedCookie, len(cookies))
	for i, c := range cookies {
		sc[i] = savedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}

	data, err := json.MarshalIndent(savedSession{
		Cookies: sc,
		SavedAt: time.Now(),
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// restore loads saved cookies into the jar. Returns false when there is
// nothing usable on disk.
func (s *Session) restore() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var saved savedSession
	if err := json.Unmarshal(data, &saved); err != nil || len(saved.Cookies) == 0 {
		return false
	}

	cookies := make([]*http.Cookie, len(saved.Cookies))
	for i, sc := range saved.Cookies {
		cookies[i] = &http.Cookie{
			Name:     sc.Name,
			Value:    sc.Value,
			Domain:   sc.Domain,
			Path:     sc.Path,
			Expires:  sc.Expires,
			Secure:   sc.Secure,
			HttpOnly: sc.HttpOnly,
		}
	}
	s.client.SetCookies(cookies)
	return true
}

// Discard deletes the saved cookie file and clears the jar.
func (s *Session) Discard() {
	os.Remove(s.path)
	s.client.ClearCookies()
}

// Bootstrap resolves the initial auth state exactly once per process: it
// restores any saved cookies and asks the server who they belong to. Every
// failure, 401 or network, lands in the same place: logged out. Returns
// the resolved user, nil when anonymous.
func (s *Session) Bootstrap(ctx context.Context) *api.User {
	s.bootstrapOnce.Do(func() {
		if !s.restore() {
			s.store.SetAuth(nil)
			return
		}
		user, err := s.client.Me(ctx)
		if err != nil {
			// Stale or dead session. Not worth telling the user about.
			s.Discard()
			s.store.SetAuth(nil)
			return
		}
		s.store.SetAuth(user)
	})
	return s.store.User()
}
