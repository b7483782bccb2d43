// internal/sessionlog/sqlite.go
//
// SQLite-backed BlobStore. Uses the blobs table created by the embedded
// migrations (see assets/sql); one row per key, value is the JSON text.

package sessionlog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// SQLiteBlobs stores blobs in the blobs table.
type SQLiteBlobs struct{ db *sqlx.DB }

func NewSQLiteBlobs(db *sqlx.DB) *SQLiteBlobs { return &SQLiteBlobs{db: db} }

func (s *SQLiteBlobs) GetBlob(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM blobs WHERE key=?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// PutBlob upserts the value for key.
func (s *SQLiteBlobs) PutBlob(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO blobs (key, value, updated_at)
        VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
        ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(value),
	)
	return err
}
