package cache

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/snipted/snipterm/internal/api"
)

// GetSnippet retrieves a cached snippet. Returns (snippet, isFresh, error);
// the snippet is nil on a cache miss.
func (d *DB) GetSnippet(id int64, ttl time.Duration) (*api.Snippet, bool, error) {
	row := d.db.QueryRow(`SELECT id, title, code, language, description, tags,
		author, likes_count, is_liked, created_at, updated_at, fetched_at
		FROM snippets WHERE id = ?`, id)

	var s api.Snippet
	var code, language, description, tags, author sql.NullString
	var createdAt, updatedAt sql.NullInt64
	var isLiked int
	var fetchedAt int64

	err := row.Scan(&s.ID, &s.Title, &code, &language, &description, &tags,
		&author, &s.LikesCount, &isLiked, &createdAt, &updatedAt, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.Code = code.String
	s.Language = language.String
	s.Description = description.String
	s.IsLiked = isLiked != 0
	if tags.Valid && tags.String != "" {
		json.Unmarshal([]byte(tags.String), &s.Tags)
	}
	if author.Valid && author.String != "" {
		var u api.User
		if json.Unmarshal([]byte(author.String), &u) == nil && u.ID > 0 {
			s.Author = &u
		}
	}
	if createdAt.Valid {
		s.CreatedAt.Time = time.Unix(createdAt.Int64, 0)
	}
	if updatedAt.Valid {
		s.UpdatedAt.Time = time.Unix(updatedAt.Int64, 0)
	}

	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return &s, isFresh, nil
}

// PutSnippet stores a snippet in the cache.
func (d *DB) PutSnippet(s *api.Snippet) error {
	now := time.Now().Unix()
	var isLiked int
	if s.IsLiked {
		isLiked = 1
	}
	tagsJSON, _ := json.Marshal(s.Tags)
	authorJSON := ""
	if s.Author != nil {
		if data, err := json.Marshal(s.Author); err == nil {
			authorJSON = string(data)
		}
	}

	_, err := d.db.Exec(`INSERT OR REPLACE INTO snippets
		(id, title, code, language, description, tags, author, likes_count, is_liked, created_at, updated_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Title, nullStr(s.Code), nullStr(s.Language), nullStr(s.Description),
		string(tagsJSON), nullStr(authorJSON), s.LikesCount, isLiked,
		nullTime(s.CreatedAt.Time), nullTime(s.UpdatedAt.Time), now)
	return err
}

// DeleteSnippet drops a snippet from the cache after a server-side delete.
func (d *DB) DeleteSnippet(id int64) error {
	_, err := d.db.Exec(`DELETE FROM snippets WHERE id = ?`, id)
	return err
}

// PutSnippets stores a page of snippets.
func (d *DB) PutSnippets(snippets []*api.Snippet) {
	for _, s := range snippets {
		if s != nil {
			d.PutSnippet(s)
		}
	}
}
