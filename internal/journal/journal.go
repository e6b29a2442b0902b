// Package journal records applied batches in SQLite so a session can be
// replayed or inspected later.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/livefir/livescene/protocol"
)

const (
	// Memory opens a private in-memory journal
	Memory = ":memory:"

	migrationsDir = "migrations"
)

// Modes a batch can be applied in
const (
	ModeRebuild = "rebuild"
	ModeUpdate  = "update"
)

// ErrMode is returned for a mode other than ModeRebuild or ModeUpdate
var ErrMode = errors.New("unknown batch mode")

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its dialect and filesystem in package state
var gooseMu sync.Mutex

// Entry is one recorded batch
type Entry struct {
	Seq        int64
	Mode       string
	Mutations  protocol.Mutations
	Error      string
	RecordedAt time.Time
}

// Failed reports whether applying the batch failed
func (e Entry) Failed() bool {
	return e.Error != ""
}

// Journal is an append-only batch log
type Journal struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens (creating if needed) the journal at path and migrates it
func Open(ctx context.Context, path string, log *zap.Logger) (*Journal, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// every connection to :memory: is a separate database
	if path == Memory {
		db.SetMaxOpenConns(1)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug("journal opened", zap.String("path", path))
	return &Journal{db: db, log: log}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("journal migration failed: %w", err)
	}
	return nil
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends a batch. failure is the error the reconciler returned for
// it, nil on success.
func (j *Journal) Record(ctx context.Context, mode string, m protocol.Mutations, failure error) error {
	if mode != ModeRebuild && mode != ModeUpdate {
		return fmt.Errorf("%w: %q", ErrMode, mode)
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}
	var reason string
	if failure != nil {
		reason = failure.Error()
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO batches (mode, payload, error, recorded_at) VALUES (?, ?, ?, ?)`,
		mode, string(payload), reason, time.Now().UnixNano())
	if err != nil {
		j.log.Error("failed to record batch", zap.String("mode", mode), zap.Error(err))
		return fmt.Errorf("failed to record batch: %w", err)
	}
	return nil
}

// Entries returns every recorded batch in sequence order
func (j *Journal) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT seq, mode, payload, error, recorded_at FROM batches ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			payload string
			nanos   int64
		)
		if err := rows.Scan(&e.Seq, &e.Mode, &payload, &e.Error, &nanos); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &e.Mutations); err != nil {
			return nil, fmt.Errorf("batch %d: failed to decode payload: %w", e.Seq, err)
		}
		e.RecordedAt = time.Unix(0, nanos)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return entries, nil
}

// Len returns the number of recorded batches
func (j *Journal) Len(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM batches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count batches: %w", err)
	}
	return n, nil
}

// Script returns the journal as a replayable script. Failed batches are
// kept so a replay stops where the recorded session did.
func (j *Journal) Script(ctx context.Context) (*protocol.Script, error) {
	entries, err := j.Entries(ctx)
	if err != nil {
		return nil, err
	}
	s := &protocol.Script{Batches: make([]protocol.Mutations, 0, len(entries))}
	for _, e := range entries {
		s.Batches = append(s.Batches, e.Mutations)
	}
	return s, nil
}
