package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	requestTimeout = 10 * time.Second
	userAgent      = "snipterm/1.0"

	csrfCookieName = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
)

// CredentialProvider supplies the CSRF token echoed back on mutating
// requests. The session cookie itself rides in the client's cookie jar; the
// provider exists so tests can inject a fixed token without a jar.
type CredentialProvider interface {
	CSRFToken() (string, bool)
}

// Client is the Snipted API client. Cookies set by the server (session and
// CSRF) are carried automatically on every request.
type Client struct {
	http  *http.Client
	base  *url.URL
	creds CredentialProvider
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	c := &Client{
		http: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
		base: base,
	}
	c.creds = &jarCredentials{client: c}
	return c, nil
}

// SetCredentials overrides the CSRF source. Used by tests.
func (c *Client) SetCredentials(creds CredentialProvider) {
	c.creds = creds
}

// Cookies returns the cookies currently held for the API origin, for
// session persistence across runs.
func (c *Client) Cookies() []*http.Cookie {
	return c.http.Jar.Cookies(c.base)
}

// SetCookies restores previously saved cookies for the API origin.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.http.Jar.SetCookies(c.base, cookies)
}

// ClearCookies drops every cookie for the API origin by expiring it.
func (c *Client) ClearCookies() {
	expired := make([]*http.Cookie, 0)
	for _, ck := range c.Cookies() {
		expired = append(expired, &http.Cookie{
			Name:    ck.Name,
			Value:   "",
			MaxAge:  -1,
			Expires: time.Unix(0, 0),
		})
	}
	c.http.Jar.SetCookies(c.base, expired)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do issues a request and decodes the JSON response into dst (when dst is
// non-nil). body may be nil, url.Values (form-encoded, the login endpoint's
// format) or any JSON-marshalable value. Non-2xx statuses come back as
// *Error with the server's detail message.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dst interface{}) error {
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method != http.MethodGet && method != http.MethodHead {
		if token, ok := c.creds.CSRFToken(); ok {
			req.Header.Set(csrfHeader, token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if dst == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, dst)
}

// readDetail extracts the backend's error message. FastAPI answers either
// {"detail": "text"} or, for validation errors, {"detail": [{"msg": ...}]}.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}

// jarCredentials reads the CSRF token the server set as a readable cookie.
type jarCredentials struct {
	client *Client
}

func (j *jarCredentials) CSRFToken() (string, bool) {
	for _, ck := range j.client.Cookies() {
		if ck.Name == csrfCookieName && ck.Value != "" {
			return ck.Value, true
		}
	}
	return "", false
}
