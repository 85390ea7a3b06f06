package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Me returns the user the current session cookie belongs to, or a 401
// error when no valid session exists.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("identity response: %w", err)
	}
	return &user, nil
}

// Login exchanges credentials for a server-set session cookie. The backend
// takes the OAuth2 password form, with the email in the username field.
func (c *Client) Login(ctx context.Context, email, password string) error {
	form := url.Values{
		"username": {email},
		"password": {password},
	}
	return c.do(ctx, http.MethodPost, "/auth/login", nil, form, nil)
}

// Register creates an account and returns the new user. It does not log
// the user in; callers follow up with Login.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "/users/", nil, body, &user); err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("register response: %w", err)
	}
	return &user, nil
}

// Logout asks the server to clear the session cookies.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}
