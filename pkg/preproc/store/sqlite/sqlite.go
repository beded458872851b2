package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/preproc/pkg/preproc/internalerr"
	"github.com/cognicore/preproc/pkg/preproc/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode so readers do not block the writer
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	// SQLite allows one writer; a single connection serializes the CLI workers
	db.SetMaxOpenConns(1)

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS comments (
	run_id TEXT NOT NULL,
	id TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	subreddit TEXT,
	author TEXT,
	score INTEGER DEFAULT 0,
	controversiality INTEGER DEFAULT 0,
	ups INTEGER DEFAULT 0,
	downs INTEGER DEFAULT 0,
	body TEXT NOT NULL,
	normalized TEXT NOT NULL,
	PRIMARY KEY(run_id, id)
);

CREATE INDEX IF NOT EXISTS idx_comments_category ON comments(run_id, category);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertComment inserts or updates a comment
func (s *sqliteStore) UpsertComment(ctx context.Context, c store.Comment) error {
	if err := store.Validate(c); err != nil {
		return err
	}

	const stmt = `
INSERT INTO comments (run_id, id, category, subreddit, author, score, controversiality, ups, downs, body, normalized)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id, id) DO UPDATE SET
	category=excluded.category,
	subreddit=excluded.subreddit,
	author=excluded.author,
	score=excluded.score,
	controversiality=excluded.controversiality,
	ups=excluded.ups,
	downs=excluded.downs,
	body=excluded.body,
	normalized=excluded.normalized;
`

	_, err := s.db.ExecContext(
		ctx,
		stmt,
		c.RunID,
		c.ID,
		c.Category,
		c.Subreddit,
		c.Author,
		c.Score,
		c.Controversiality,
		c.Ups,
		c.Downs,
		c.Body,
		c.Normalized,
	)
	return err
}

const selectComment = `
SELECT run_id, id, category, COALESCE(subreddit, ''), COALESCE(author, ''),
	score, controversiality, ups, downs, body, normalized
FROM comments
`

// GetComment retrieves a comment by run and comment ID
func (s *sqliteStore) GetComment(ctx context.Context, runID, id string) (store.Comment, bool, error) {
	row := s.db.QueryRowContext(ctx, selectComment+`WHERE run_id = ? AND id = ?`, runID, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return store.Comment{}, false, nil
	}
	if err != nil {
		return store.Comment{}, false, err
	}
	return c, true, nil
}

// CommentsByCategory retrieves a run's comments in one category ordered by ID
func (s *sqliteStore) CommentsByCategory(ctx context.Context, runID, category string, limit int) ([]store.Comment, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}
	rows, err := s.db.QueryContext(ctx,
		selectComment+`WHERE run_id = ? AND category = ? ORDER BY id LIMIT ?`,
		runID, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountByCategory returns the number of comments per category in a run
func (s *sqliteStore) CountByCategory(ctx context.Context, runID string) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM comments WHERE run_id = ? GROUP BY category`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var cat string
		var n int64
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		counts[cat] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComment(row scanner) (store.Comment, error) {
	var c store.Comment
	err := row.Scan(
		&c.RunID,
		&c.ID,
		&c.Category,
		&c.Subreddit,
		&c.Author,
		&c.Score,
		&c.Controversiality,
		&c.Ups,
		&c.Downs,
		&c.Body,
		&c.Normalized,
	)
	return c, err
}
