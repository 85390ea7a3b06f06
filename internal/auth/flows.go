package auth

import (
	"context"
	"errors"
	"log"

	"github.com/snipted/snipterm/internal/api"
)

// Flow errors shown to the user when a request fails. Which one applies is
// decided from the HTTP status; the raw server error goes to the log.
var (
	ErrBadCredentials = errors.New("invalid email or password")
	ErrRateLimited    = errors.New("too many attempts, wait a minute and try again")
	ErrMalformedInput = errors.New("the server rejected the input, check the fields")
	ErrAlreadyExists  = errors.New("an account with this email or username already exists")
	ErrConnectivity   = errors.New("cannot reach the server, check your connection")
	ErrRequestFailed  = errors.New("something went wrong, try again")
)

// Flows runs the login, register and logout procedures: each one is an
// HTTP call or two followed by a Store update.
type Flows struct {
	client  *api.Client
	store   *Store
	session *Session
}

func NewFlows(client *api.Client, store *Store, session *Session) *Flows {
	return &Flows{client: client, store: store, session: session}
}

// Login validates locally, authenticates, then asks the server who the new
// cookie belongs to and populates the store. On failure the store is left
// unauthenticated with no partial user data.
func (f *Flows) Login(ctx context.Context, email, password string) (*api.User, error) {
	if err := ValidateLogin(email, password); err != nil {
		return nil, err
	}

	f.store.SetLoading(true)
	defer f.store.SetLoading(false)

	if err := f.client.Login(ctx, email, password); err != nil {
		log.Printf("login failed: %v", err)
		return nil, loginError(err)
	}

	user, err := f.client.Me(ctx)
	if err != nil {
		log.Printf("post-login identity fetch failed: %v", err)
		f.store.SetAuth(nil)
		return nil, flowError(err)
	}

	f.store.SetAuth(user)
	if err := f.session.Save(); err != nil {
		log.Printf("saving session: %v", err)
	}
	return user, nil
}

// Register validates locally, creates the account, then runs the login
// flow with the same credentials.
func (f *Flows) Register(ctx context.Context, username, email, password, confirm string) (*api.User, error) {
	if err := ValidateRegistration(username, email, password, confirm); err != nil {
		return nil, err
	}

	if _, err := f.client.Register(ctx, username, email, password); err != nil {
		log.Printf("registration failed: %v", err)
		return nil, registerError(err)
	}
	return f.Login(ctx, email, password)
}

// Logout tells the server to drop the session, best-effort, and always
// ends with a cleared store and no cookies on disk.
func (f *Flows) Logout(ctx context.Context) {
	if err := f.client.Logout(ctx); err != nil {
		log.Printf("server logout failed: %v", err)
	}
	f.session.Discard()
	f.store.Clear()
}

func loginError(err error) error {
	if api.IsBadCredentials(err) {
		return ErrBadCredentials
	}
	return flowError(err)
}

func registerError(err error) error {
	switch {
	case api.IsConflict(err):
		return ErrAlreadyExists
	case api.StatusOf(err) == 400:
		// The backend answers 400 for duplicate accounts.
		return ErrAlreadyExists
	default:
		return flowError(err)
	}
}

func flowError(err error) error {
	switch {
	case api.IsRateLimited(err):
		return ErrRateLimited
	case api.IsInvalidInput(err):
		return ErrMalformedInput
	case api.IsNetwork(err):
		return ErrConnectivity
	default:
		return ErrRequestFailed
	}
}
