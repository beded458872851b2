package store

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/preproc/pkg/preproc/internalerr"
)

// Store is the main interface for persisting normalized comments
type Store interface {
	Close() error

	UpsertComment(ctx context.Context, c Comment) error
	GetComment(ctx context.Context, runID, id string) (Comment, bool, error)
	CommentsByCategory(ctx context.Context, runID, category string, limit int) ([]Comment, error)
	CountByCategory(ctx context.Context, runID string) (map[string]int64, error)
}

// Comment is a processed comment. (RunID, ID) is unique.
type Comment struct {
	RunID            string
	ID               string
	Category         string
	Subreddit        string
	Author           string
	Score            int64
	Controversiality int64
	Ups              int64
	Downs            int64
	Body             string
	Normalized       string
}

// NewRunID returns a fresh, time-ordered run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// CheckRunID reports whether id is a well-formed run identifier.
func CheckRunID(id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return fmt.Errorf("%w: run id %q: %v", internalerr.ErrInvalidInput, id, err)
	}
	return nil
}

// Validate checks the key fields of c.
func Validate(c Comment) error {
	if err := CheckRunID(c.RunID); err != nil {
		return err
	}
	if c.ID == "" {
		return fmt.Errorf("%w: comment id required", internalerr.ErrInvalidInput)
	}
	return nil
}
