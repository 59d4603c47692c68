// Package storage persists ledger snapshots and the mutation audit trail
// in SQLite. The snapshot is a single JSON document per key; history and
// balances travel together, so a load can never observe one without the
// other.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/ledger"

	_ "modernc.org/sqlite"
)

// ErrSnapshotNotFound marks a key with no stored snapshot yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

type SQLiteRepository struct {
	db *sql.DB
}

// AuditEntry is one recorded mutation.
type AuditEntry struct {
	ID         int64     `json:"id"`
	Entity     string    `json:"entity"`
	Op         string    `json:"op"`
	EntityID   string    `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SaveSnapshot upserts the full ledger state under key.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, key string, s ledger.Store) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// LoadSnapshot reads the ledger state stored under key, backfilling
// fields that blobs from older versions lack. ErrSnapshotNotFound when
// the key has never been saved.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context, key string) (ledger.Store, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Store{}, ErrSnapshotNotFound
	}
	if err != nil {
		return ledger.Store{}, fmt.Errorf("load snapshot %s: %w", key, err)
	}

	var s ledger.Store
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return ledger.Store{}, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return s.WithDefaults(), nil
}

// AppendAudit records one mutation in the audit trail.
func (r *SQLiteRepository) AppendAudit(ctx context.Context, e AuditEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (entity, op, entity_id, occurred_at) VALUES (?, ?, ?, ?)`,
		e.Entity, e.Op, e.EntityID, e.OccurredAt.UTC())
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListAudit returns the most recent audit entries, newest first.
func (r *SQLiteRepository) ListAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entity, op, entity_id, occurred_at
		FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Entity, &e.Op, &e.EntityID, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return out, nil
}
