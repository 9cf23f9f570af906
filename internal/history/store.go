package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rebelice/opsgrid/internal/models"
)

//go:embed schema.sql
var schemaSQL string

const timeLayout = "2006-01-02 15:04:05"

// FileName is the history database inside the config directory
const FileName = "history.db"

// Entry is one distinct filter state that was applied to a table
type Entry struct {
	ID         int
	Table      string
	Account    string
	Descriptor models.FilterDescriptor
	Summary    string
	UseCount   int
	FirstUsed  time.Time
	LastUsed   time.Time
}

// Store records applied filter descriptors so the most used ones can be
// offered as popular filters
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates the history database
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Record counts one use of d on table. Empty descriptors are ignored.
func (s *Store) Record(ctx context.Context, table, account string, d models.FilterDescriptor, summary string) error {
	if d.IsEmpty() {
		return nil
	}
	key, err := encode(d)
	if err != nil {
		return err
	}

	now := s.now().UTC().Format(timeLayout)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO filter_history
		(table_name, account, descriptor, summary, use_count, first_used_at, last_used_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (table_name, account, descriptor) DO UPDATE SET
			use_count = use_count + 1,
			summary = excluded.summary,
			last_used_at = excluded.last_used_at`,
		table, account, key, summary, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to record filter: %w", err)
	}
	return nil
}

// Popular returns the most used descriptors for table, ties broken by recency
func (s *Store) Popular(ctx context.Context, table, account string, limit int) ([]Entry, error) {
	return s.query(ctx, `
		SELECT id, table_name, account, descriptor, summary, use_count, first_used_at, last_used_at
		FROM filter_history
		WHERE table_name = ? AND account = ?
		ORDER BY use_count DESC, last_used_at DESC, id DESC
		LIMIT ?`, table, account, limit)
}

// Recent returns the most recently used descriptors for table
func (s *Store) Recent(ctx context.Context, table, account string, limit int) ([]Entry, error) {
	return s.query(ctx, `
		SELECT id, table_name, account, descriptor, summary, use_count, first_used_at, last_used_at
		FROM filter_history
		WHERE table_name = ? AND account = ?
		ORDER BY last_used_at DESC, id DESC
		LIMIT ?`, table, account, limit)
}

// Forget removes one entry
func (s *Store) Forget(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM filter_history WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var descriptor, firstUsed, lastUsed string

		err := rows.Scan(
			&e.ID,
			&e.Table,
			&e.Account,
			&descriptor,
			&e.Summary,
			&e.UseCount,
			&firstUsed,
			&lastUsed,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(descriptor), &e.Descriptor); err != nil {
			return nil, fmt.Errorf("failed to decode history entry %d: %w", e.ID, err)
		}
		e.FirstUsed = parseTime(firstUsed)
		e.LastUsed = parseTime(lastUsed)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// encode gives equal descriptors equal text: map keys and set members are
// written in sorted order
func encode(d models.FilterDescriptor) (string, error) {
	d.Filters = models.Filters(activeOnly(d.Filters))
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to encode filter: %w", err)
	}
	return string(b), nil
}

func activeOnly(fs models.Filters) map[string]models.ColumnFilter {
	if len(fs) == 0 {
		return nil
	}
	out := make(map[string]models.ColumnFilter)
	for _, k := range fs.Active() {
		out[k] = fs[k]
	}
	return out
}

func parseTime(s string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
