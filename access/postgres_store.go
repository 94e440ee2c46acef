package access

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresPreviewStore implements PreviewStore backed by PostgreSQL. The
// schema lives in migrations/ and is applied with cmd/migrate.
type PostgresPreviewStore struct {
	db *sql.DB
}

// NewPostgresPreviewStore wraps an open connection pool.
func NewPostgresPreviewStore(db *sql.DB) *PostgresPreviewStore {
	return &PostgresPreviewStore{db: db}
}

func (s *PostgresPreviewStore) Get(ctx context.Context, key string) (bool, error) {
	var used bool
	err := s.db.QueryRowContext(ctx, `
		SELECT used FROM preview_flags WHERE key = $1
	`, key).Scan(&used)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get preview flag: %w", err)
	}
	return used, nil
}

func (s *PostgresPreviewStore) Set(ctx context.Context, key string, used bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preview_flags (key, used, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET used = $2, updated_at = NOW()
	`, key, used)
	if err != nil {
		return fmt.Errorf("failed to set preview flag: %w", err)
	}
	return nil
}

func (s *PostgresPreviewStore) Clear(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM preview_flags WHERE key = $1
	`, key)
	if err != nil {
		return fmt.Errorf("failed to clear preview flag: %w", err)
	}
	return nil
}
