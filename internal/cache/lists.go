package cache

import (
	"database/sql"
	"encoding/json"
	"time"
)

// GetList retrieves cached snippet IDs for a query key. Returns
// (ids, isFresh, error); ids is nil on a cache miss.
func (d *DB) GetList(queryKey string, ttl time.Duration) ([]int64, bool, error) {
	row := d.db.QueryRow(`SELECT snippet_ids, fetched_at FROM snippet_lists WHERE query_key = ?`, queryKey)

	var idsJSON string
	var fetchedAt int64
	err := row.Scan(&idsJSON, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var ids []int64
	if err := json.Unmarshal([]byte(idsJSON), &ids); err != nil {
		return nil, false, err
	}

	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return ids, isFresh, nil
}

// PutList stores the snippet IDs returned for a query key.
func (d *DB) PutList(queryKey string, ids []int64) error {
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT OR REPLACE INTO snippet_lists (query_key, snippet_ids, fetched_at) VALUES (?, ?, ?)`,
		queryKey, string(idsJSON), time.Now().Unix())
	return err
}

// InvalidateList drops a cached query result, forcing the next load to hit
// the network.
func (d *DB) InvalidateList(queryKey string) error {
	_, err := d.db.Exec(`DELETE FROM snippet_lists WHERE query_key = ?`, queryKey)
	return err
}
