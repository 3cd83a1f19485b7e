// Package store keeps a local library of named stacks in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/stackcost/internal/snapshot"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when no stack has the requested name.
var ErrNotFound = errors.New("store: stack not found")

// Store is a SQLite-backed stack library.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// StackInfo summarizes a stored stack.
type StackInfo struct {
	Name      string
	Client    string
	Apps      int
	UpdatedAt time.Time
}

// Open opens or creates the database at dbPath and applies migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveStack inserts or replaces the stack called name.
func (s *Store) SaveStack(ctx context.Context, name string, snap snapshot.Snapshot) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("store: stack name is required")
	}
	payload, err := snapshot.Serialize(snap)
	if err != nil {
		return err
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `INSERT INTO stacks
		(name, client_name, app_count, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			client_name = excluded.client_name,
			app_count   = excluded.app_count,
			payload     = excluded.payload,
			updated_at  = excluded.updated_at`,
		name, snap.ClientName, len(snap.TechStackIDs), payload, now, now,
	)
	if err != nil {
		return fmt.Errorf("store: saving %q: %w", name, err)
	}
	return nil
}

// LoadStack returns the stored snapshot for name.
func (s *Store) LoadStack(ctx context.Context, name string) (snapshot.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM stacks WHERE name = ?", strings.TrimSpace(name)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("store: loading %q: %w", name, err)
	}
	return snapshot.Deserialize(payload)
}

// ListStacks returns all stacks sorted by name.
func (s *Store) ListStacks(ctx context.Context) ([]StackInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, client_name, app_count, updated_at FROM stacks ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("store: listing: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []StackInfo
	for rows.Next() {
		var info StackInfo
		var updated string
		if err := rows.Scan(&info.Name, &info.Client, &info.Apps, &updated); err != nil {
			return nil, err
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteStack removes the stack called name.
func (s *Store) DeleteStack(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM stacks WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("store: deleting %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored stacks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stacks").Scan(&n)
	return n, err
}
