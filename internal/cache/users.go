package cache

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/snipted/snipterm/internal/api"
)

// GetUser retrieves a cached user profile.
func (d *DB) GetUser(id int64, ttl time.Duration) (*api.User, bool, error) {
	row := d.db.QueryRow(`SELECT id, username, email, reputation_stars, created_at, fetched_at FROM users WHERE id = ?`, id)

	var user api.User
	var email sql.NullString
	var createdAt sql.NullInt64
	var fetchedAt int64

	err := row.Scan(&user.ID, &user.Username, &email, &user.ReputationStars, &createdAt, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	user.Email = email.String
	if createdAt.Valid {
		user.CreatedAt.Time = time.Unix(createdAt.Int64, 0)
	}
	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return &user, isFresh, nil
}

// PutUser stores a user profile in the cache.
func (d *DB) PutUser(user *api.User) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO users (id, username, email, reputation_stars, created_at, fetched_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, nullStr(user.Email), user.ReputationStars,
		nullTime(user.CreatedAt.Time), time.Now().Unix())
	return err
}

const lastUserKey = "last_user"

// SaveLastUser mirrors the last known logged-in user. It is display cache
// only; the real session lives in the server-set cookie.
func (d *DB) SaveLastUser(user *api.User) error {
	if user == nil {
		_, err := d.db.Exec(`DELETE FROM session WHERE key = ?`, lastUserKey)
		return err
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT OR REPLACE INTO session (key, value) VALUES (?, ?)`,
		lastUserKey, string(data))
	return err
}

// LastUser returns the mirrored user, or nil when none is stored.
func (d *DB) LastUser() *api.User {
	row := d.db.QueryRow(`SELECT value FROM session WHERE key = ?`, lastUserKey)
	var value string
	if err := row.Scan(&value); err != nil {
		return nil
	}
	var user api.User
	if err := json.Unmarshal([]byte(value), &user); err != nil || user.ID <= 0 {
		return nil
	}
	return &user
}
