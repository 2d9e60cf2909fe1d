package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/socrp/internal/client/migrations"
	"github.com/dmitrijs2005/socrp/internal/dbx"
	"github.com/dmitrijs2005/socrp/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists tokens in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

// RunMigrations applies the embedded goose migrations. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenSQLiteStore opens (creating if needed) the database at dsn and
// migrates it.
func OpenSQLiteStore(ctx context.Context, dsn string, logger logging.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}

	return NewSQLiteStore(db, logger), nil
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB, logger logging.Logger) *SQLiteStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SQLiteStore{db: db, logger: logger}
}

func (s *SQLiteStore) SetToken(ctx context.Context, role Role, value string) error {
	key, err := role.StorageKey()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tokens (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set token[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) GetToken(ctx context.Context, role Role) (string, bool) {
	key, err := role.StorageKey()
	if err != nil {
		return "", false
	}

	var value string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM tokens WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.logger.Error(ctx, "failed to read token, treating as absent", "key", key, "error", err)
		return "", false
	}
	return value, true
}

func (s *SQLiteStore) Clear(ctx context.Context, role Role) error {
	key, err := role.StorageKey()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear token[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, role := range Roles {
			key, _ := role.StorageKey()
			if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE key = ?`, key); err != nil {
				return fmt.Errorf("failed to clear token[%s]: %w", key, err)
			}
		}
		return nil
	})
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
