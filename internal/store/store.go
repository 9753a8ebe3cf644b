// Package store persists supplemental-data documents in SQLite.
//
// One row per (asset UID, submission UUID) holds the full JSON document of
// action results for that submission. Writes are compare-and-swap on a
// per-row revision counter, so concurrent edits to the same submission
// fail cleanly instead of clobbering each other.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kobocore/supplemental/internal/router"
	"github.com/kobocore/supplemental/internal/schema"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for supplemental-data documents.
// Uses SQLite with WAL mode for concurrent read access.
//
// Store implements router.Store.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// GetOrCreate returns the document for (asset, submission), inserting an
// empty document at rev 0 on first access.
//
// Uses ON CONFLICT DO NOTHING for idempotency: concurrent first edits both
// observe rev 0 and the compare-and-swap in Update settles the race.
func (s *Store) GetOrCreate(ctx context.Context, assetUID, submissionUUID string) (router.Record, error) {
	now := time.Now().UTC().Format(schema.Timestamp)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO supplemental (asset_uid, submission_uuid, content, rev, created_at, updated_at)
		VALUES (?, ?, '{}', 0, ?, ?)
		ON CONFLICT(asset_uid, submission_uuid) DO NOTHING
	`, assetUID, submissionUUID, now, now)
	if err != nil {
		return router.Record{}, fmt.Errorf("get or create document: %w", err)
	}

	return s.Get(ctx, assetUID, submissionUUID)
}

// Get returns the stored document for (asset, submission).
// Returns sql.ErrNoRows if no document exists.
func (s *Store) Get(ctx context.Context, assetUID, submissionUUID string) (router.Record, error) {
	var (
		raw string
		rev int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT content, rev
		FROM supplemental
		WHERE asset_uid = ? AND submission_uuid = ?
	`, assetUID, submissionUUID).Scan(&raw, &rev)
	if err != nil {
		return router.Record{}, err
	}

	var content map[string]any
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return router.Record{}, fmt.Errorf("decode document: %w", err)
	}
	return router.Record{Content: content, Rev: rev}, nil
}

// Update replaces the document for (asset, submission) if and only if the
// stored revision still equals expectRev. Returns router.ErrConflict when
// a concurrent edit advanced the revision first.
func (s *Store) Update(ctx context.Context, assetUID, submissionUUID string, content map[string]any, expectRev int64) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	now := time.Now().UTC().Format(schema.Timestamp)

	res, err := s.db.ExecContext(ctx, `
		UPDATE supplemental
		SET content = ?, rev = rev + 1, updated_at = ?
		WHERE asset_uid = ? AND submission_uuid = ? AND rev = ?
	`, string(raw), now, assetUID, submissionUUID, expectRev)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update %s/%s at rev %d: %w", assetUID, submissionUUID, expectRev, router.ErrConflict)
	}
	return nil
}

// List returns the submission UUIDs with supplemental data for an asset,
// ordered deterministically.
//
// Returns an empty slice (not nil) if the asset has no documents.
func (s *Store) List(ctx context.Context, assetUID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT submission_uuid
		FROM supplemental
		WHERE asset_uid = ?
		ORDER BY submission_uuid ASC
	`, assetUID)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	submissions := []string{}
	for rows.Next() {
		var uuid string
		if err := rows.Scan(&uuid); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, uuid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return submissions, nil
}
