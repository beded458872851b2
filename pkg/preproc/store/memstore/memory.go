package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/preproc/pkg/preproc/store"
)

type key struct {
	runID string
	id    string
}

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	comments map[key]store.Comment
}

var _ store.Store = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{comments: make(map[key]store.Comment)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertComment inserts or replaces a comment, keyed by run and comment ID.
func (s *Store) UpsertComment(ctx context.Context, c store.Comment) error {
	if err := store.Validate(c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[key{c.RunID, c.ID}] = c
	return nil
}

// GetComment returns a comment by run and comment ID.
func (s *Store) GetComment(ctx context.Context, runID, id string) (store.Comment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[key{runID, id}]
	return c, ok, nil
}

// CommentsByCategory returns a run's comments in one category ordered by ID.
// A non-positive limit returns all of them.
func (s *Store) CommentsByCategory(ctx context.Context, runID, category string, limit int) ([]store.Comment, error) {
	s.mu.RLock()
	var out []store.Comment
	for k, c := range s.comments {
		if k.runID == runID && c.Category == category {
			out = append(out, c)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountByCategory returns the number of comments per category in a run.
func (s *Store) CountByCategory(ctx context.Context, runID string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for k, c := range s.comments {
		if k.runID == runID {
			counts[c.Category]++
		}
	}
	return counts, nil
}
