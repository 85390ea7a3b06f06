package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListOptions are the query filters for the snippet list endpoint.
type ListOptions struct {
	Query string // free-text search over title and code
	Tag   string // exact tag label
	Skip  int
	Limit int
}

// Key is a canonical cache key for this filter combination.
func (o ListOptions) Key() string {
	v := url.Values{}
	if o.Query != "" {
		v.Set("q", o.Query)
	}
	if o.Tag != "" {
		v.Set("tag", o.Tag)
	}
	if o.Skip > 0 {
		v.Set("skip", strconv.Itoa(o.Skip))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if len(v) == 0 {
		return "all"
	}
	return v.Encode()
}

// ListSnippets fetches snippets, newest first. The endpoint has returned
// both a bare array and a paginated {items: []} envelope across versions;
// both are accepted.
func (c *Client) ListSnippets(ctx context.Context, opts ListOptions) ([]*Snippet, error) {
	query := url.Values{}
	if opts.Query != "" {
		query.Set("q", opts.Query)
	}
	if opts.Tag != "" {
		query.Set("tag", opts.Tag)
	}
	if opts.Skip > 0 {
		query.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var raw json.RawMessage
	if err := c.get(ctx, "/snippets", query, &raw); err != nil {
		return nil, err
	}
	return decodeSnippetList(raw)
}

// SearchSnippets hits the dedicated search endpoint (no pagination).
func (c *Client) SearchSnippets(ctx context.Context, q string) ([]*Snippet, error) {
	query := url.Values{"q": {q}}
	var raw json.RawMessage
	if err := c.get(ctx, "/snippets/search", query, &raw); err != nil {
		return nil, err
	}
	return decodeSnippetList(raw)
}

func decodeSnippetList(raw json.RawMessage) ([]*Snippet, error) {
	var snippets []*Snippet
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &snippets); err != nil {
			return nil, fmt.Errorf("decoding snippet list: %w", err)
		}
	} else {
		var envelope struct {
			Items []*Snippet `json:"items"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("decoding snippet envelope: %w", err)
		}
		snippets = envelope.Items
	}

	// Drop entries the server sent malformed instead of failing the page.
	valid := snippets[:0]
	for _, s := range snippets {
		if s != nil && s.Validate() == nil {
			valid = append(valid, s)
		}
	}
	return valid, nil
}

// GetSnippet fetches a single snippet by ID.
func (c *Client) GetSnippet(ctx context.Context, id int64) (*Snippet, error) {
	var snippet Snippet
	if err := c.get(ctx, fmt.Sprintf("/snippets/%d", id), nil, &snippet); err != nil {
		return nil, err
	}
	if err := snippet.Validate(); err != nil {
		return nil, err
	}
	return &snippet, nil
}

// CreateSnippet publishes a new snippet and returns the created record.
func (c *Client) CreateSnippet(ctx context.Context, in SnippetCreate) (*Snippet, error) {
	var snippet Snippet
	if err := c.do(ctx, http.MethodPost, "/snippets/", nil, in, &snippet); err != nil {
		return nil, err
	}
	if err := snippet.Validate(); err != nil {
		return nil, fmt.Errorf("create response: %w", err)
	}
	return &snippet, nil
}

// UpdateSnippet edits an existing snippet the current user owns.
func (c *Client) UpdateSnippet(ctx context.Context, id int64, in SnippetUpdate) (*Snippet, error) {
	var snippet Snippet
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/snippets/%d", id), nil, in, &snippet); err != nil {
		return nil, err
	}
	if err := snippet.Validate(); err != nil {
		return nil, fmt.Errorf("update response: %w", err)
	}
	return &snippet, nil
}

// DeleteSnippet removes a snippet the current user owns.
func (c *Client) DeleteSnippet(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/snippets/%d", id), nil, nil, nil)
}

// LikeSnippet toggles the current user's like on a snippet and returns the
// resulting liked state.
func (c *Client) LikeSnippet(ctx context.Context, id int64) (bool, error) {
	var result struct {
		IsLiked bool `json:"is_liked"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/snippets/%d/like", id), nil, nil, &result); err != nil {
		return false, err
	}
	return result.IsLiked, nil
}
