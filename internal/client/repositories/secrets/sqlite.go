package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ingeniuz/internal/cryptox"
	"github.com/dmitrijs2005/ingeniuz/internal/dbx"
)

type SQLiteRepository struct {
	db     dbx.DBTX
	sealer cryptox.Sealer
}

// NewSQLiteRepository works on a *sql.DB or on a *sql.Tx handed out by
// dbx.WithTx.
func NewSQLiteRepository(db dbx.DBTX, sealer cryptox.Sealer) *SQLiteRepository {
	return &SQLiteRepository{db: db, sealer: sealer}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var sealed []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}

	value, err := r.sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("credentials[%s]: %w: %v", key, ErrCorrupt, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := r.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("failed to seal credentials[%s]: %w", key, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, sealed)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete credentials[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM credentials ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan credentials row: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credentials rows: %w", err)
	}
	return keys, nil
}
