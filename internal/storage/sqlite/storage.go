package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/huntworks/trailhunt/internal/model"
	"github.com/huntworks/trailhunt/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface.
// Claims serialize on the database write lock, and the UNIQUE constraint
// on (participant_id, checkpoint_id) rejects duplicate claims even when
// two of them race.
type Storage struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS progress (
	participant_id TEXT PRIMARY KEY,
	updated_at_ms  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS cleared (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	participant_id TEXT    NOT NULL,
	checkpoint_id  INTEGER NOT NULL,
	UNIQUE (participant_id, checkpoint_id)
);`

// New opens (or creates) the database at path and applies the schema.
// Transactions start as immediate writers so concurrent claims queue on
// the busy timeout instead of failing outright.
func New(path string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetProgress(ctx context.Context, id model.ParticipantID) (*model.Progress, error) {
	prog, err := loadProgress(ctx, s.db, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return prog, nil
}

func (s *Storage) ApplyClaim(ctx context.Context, id model.ParticipantID, checkpoint model.CheckpointID, at time.Time) (*model.Progress, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cleared (participant_id, checkpoint_id) VALUES (?, ?)`,
		string(id), int(checkpoint))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrAlreadyCleared
		}
		return nil, storeErr(err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO progress (participant_id, updated_at_ms) VALUES (?, ?)
		 ON CONFLICT (participant_id) DO UPDATE SET updated_at_ms = excluded.updated_at_ms`,
		string(id), toMillis(at))
	if err != nil {
		return nil, storeErr(err)
	}

	// Read the record back inside the transaction so the caller sees
	// exactly the state this claim committed
	prog, err := loadProgress(ctx, tx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err)
	}
	return prog, nil
}

func (s *Storage) ListProgress(ctx context.Context) ([]*model.Progress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT participant_id, updated_at_ms FROM progress ORDER BY participant_id`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[model.ParticipantID]*model.Progress)
	order := make([]model.ParticipantID, 0)
	for rows.Next() {
		var rawID string
		var updatedMs int64
		if err := rows.Scan(&rawID, &updatedMs); err != nil {
			return nil, storeErr(err)
		}
		id := model.ParticipantID(rawID)
		prog := model.NewProgress(id)
		prog.UpdatedAt = fromMillis(updatedMs)
		byID[id] = prog
		order = append(order, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}

	// Global seq order preserves each participant's clear order
	clearedRows, err := s.db.QueryContext(ctx,
		`SELECT participant_id, checkpoint_id FROM cleared ORDER BY seq`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func() { _ = clearedRows.Close() }()

	for clearedRows.Next() {
		var rawID string
		var checkpoint int
		if err := clearedRows.Scan(&rawID, &checkpoint); err != nil {
			return nil, storeErr(err)
		}
		prog, ok := byID[model.ParticipantID(rawID)]
		if !ok {
			continue
		}
		prog.Cleared = append(prog.Cleared, model.CheckpointID(checkpoint))
		prog.ClearedCount = len(prog.Cleared)
	}
	if err := clearedRows.Err(); err != nil {
		return nil, storeErr(err)
	}

	records := make([]*model.Progress, 0, len(order))
	for _, id := range order {
		records = append(records, byID[id])
	}
	return records, nil
}

func (s *Storage) DeleteProgress(ctx context.Context, id model.ParticipantID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cleared WHERE participant_id = ?`, string(id)); err != nil {
		return storeErr(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM progress WHERE participant_id = ?`, string(id)); err != nil {
		return storeErr(err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storeErr(err)
	}
	return nil
}

// loadProgress assembles a participant's record from both tables. Works
// on the pool or inside a transaction.
func loadProgress(ctx context.Context, q querier, id model.ParticipantID) (*model.Progress, error) {
	prog := model.NewProgress(id)

	var updatedMs int64
	err := q.QueryRowContext(ctx,
		`SELECT updated_at_ms FROM progress WHERE participant_id = ?`, string(id)).Scan(&updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return prog, nil
	}
	if err != nil {
		return nil, err
	}
	prog.UpdatedAt = fromMillis(updatedMs)

	rows, err := q.QueryContext(ctx,
		`SELECT checkpoint_id FROM cleared WHERE participant_id = ? ORDER BY seq`, string(id))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var checkpoint int
		if err := rows.Scan(&checkpoint); err != nil {
			return nil, err
		}
		prog.Cleared = append(prog.Cleared, model.CheckpointID(checkpoint))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	prog.ClearedCount = len(prog.Cleared)

	return prog, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
}
