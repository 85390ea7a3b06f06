package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamp parses the backend's datetime strings. FastAPI emits RFC 3339
// with or without a zone suffix depending on how the column was stored, so
// both forms are accepted.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

// User mirrors a server-owned user record.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	ReputationStars int       `json:"reputation_stars"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       Timestamp `json:"created_at"`
}

// Validate rejects responses missing the fields every user record must
// carry. The client never trusts response shape blindly.
func (u *User) Validate() error {
	if u.ID <= 0 {
		return fmt.Errorf("user response missing id")
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("user %d missing username", u.ID)
	}
	return nil
}

// Tag is a snippet label. The API has returned both bare strings and
// {id, name} objects across versions, so decoding accepts either.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		t.ID = 0
		return json.Unmarshal(data, &t.Name)
	}
	type tagAlias Tag
	return json.Unmarshal(data, (*tagAlias)(t))
}

// Snippet mirrors a server-owned snippet record. The client reads and
// renders these; it never mutates one locally except to reflect a like
// toggle the server has confirmed.
type Snippet struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Description string    `json:"description"`
	Tags        []Tag     `json:"tags"`
	Author      *User     `json:"author"`
	LikesCount  int       `json:"likes_count"`
	IsLiked     bool      `json:"is_liked"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

func (s *Snippet) UnmarshalJSON(data []byte) error {
	type snippetAlias Snippet
	aux := struct {
		*snippetAlias
		// Older API versions name the body code_content and flatten the
		// author to user_id.
		CodeContent string `json:"code_content"`
		UserID      int64  `json:"user_id"`
	}{snippetAlias: (*snippetAlias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.Code == "" {
		s.Code = aux.CodeContent
	}
	if s.Author == nil && aux.UserID > 0 {
		s.Author = &User{ID: aux.UserID}
	}
	return nil
}

func (s *Snippet) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("snippet response missing id")
	}
	if s.Title == "" {
		return fmt.Errorf("snippet %d missing title", s.ID)
	}
	return nil
}

// AuthorName returns the display name for the snippet's author, if the
// server included one.
func (s *Snippet) AuthorName() string {
	if s.Author != nil {
		return s.Author.Username
	}
	return ""
}

// TagNames flattens the tag set to labels.
func (s *Snippet) TagNames() []string {
	names := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}

// SnippetCreate is the request body for publishing a snippet.
type SnippetCreate struct {
	Title       string   `json:"title"`
	Code        string   `json:"code_content"`
	Language    string   `json:"language"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
}

// SnippetUpdate carries the fields to change; nil fields are left as-is.
type SnippetUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Code        *string   `json:"code_content,omitempty"`
	Language    *string   `json:"language,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}
