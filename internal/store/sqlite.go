package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/notifyprefs/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertTypes inserts or replaces a batch of notification types as
// returned by the backend.
func (s *SQLiteStore) UpsertTypes(
	ctx context.Context,
	types []model.NotificationType,
) error {
	if len(types) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO notification_types (
			id, key, descriptions,
			available, deprecated, deprecated_reason,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, nt := range types {
		descriptions, err := json.Marshal(nt.Descriptions)
		if err != nil {
			return fmt.Errorf("marshaling descriptions for %q: %w", nt.Key, err)
		}

		var reason sql.NullString
		if nt.DeprecatedReason != nil {
			reason = sql.NullString{String: *nt.DeprecatedReason, Valid: true}
		}

		createdAt := nt.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		updatedAt := nt.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now()
		}

		_, err = stmt.ExecContext(ctx,
			nt.ID, nt.Key, string(descriptions),
			boolToInt(nt.Available), boolToInt(nt.Deprecated), reason,
			createdAt.UTC(), updatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting notification type %q: %w", nt.Key, err)
		}
	}

	return tx.Commit()
}

// GetTypes retrieves all cached notification types ordered by key.
func (s *SQLiteStore) GetTypes(
	ctx context.Context,
) ([]model.NotificationType, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM notification_types ORDER BY key",
	)
	if err != nil {
		return nil, fmt.Errorf("querying notification types: %w", err)
	}
	defer rows.Close()

	var types []model.NotificationType
	for rows.Next() {
		nt, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, nt)
	}

	return types, rows.Err()
}

// scanType scans a notification type row from a sqlx.Rows result set.
func scanType(rows *sqlx.Rows) (model.NotificationType, error) {
	var (
		nt           model.NotificationType
		descriptions string
		available    int
		deprecated   int
		reason       sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := rows.Scan(
		&nt.ID, &nt.Key, &descriptions,
		&available, &deprecated, &reason,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.NotificationType{}, fmt.Errorf("scanning notification type row: %w", err)
	}

	nt.Available = available != 0
	nt.Deprecated = deprecated != 0
	nt.CreatedAt = createdAt
	nt.UpdatedAt = updatedAt

	if reason.Valid {
		r := reason.String
		nt.DeprecatedReason = &r
	}

	if descriptions != "" {
		if err := json.Unmarshal([]byte(descriptions), &nt.Descriptions); err != nil {
			return model.NotificationType{}, fmt.Errorf("unmarshaling descriptions: %w", err)
		}
	}

	return nt, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
