package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/preproc/pkg/preproc/internalerr"
	"github.com/cognicore/preproc/pkg/preproc/store"
)

func TestUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()
	runID := store.NewRunID()

	c := store.Comment{RunID: runID, ID: "a1", Category: "news", Body: "Hi.", Normalized: "hi/UH ./."}
	if err := s.UpsertComment(ctx, c); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.GetComment(ctx, runID, "a1")
	if err != nil || !ok {
		t.Fatalf("GetComment: ok=%v err=%v", ok, err)
	}
	if got != c {
		t.Errorf("expected %+v, got %+v", c, got)
	}

	if _, ok, _ := s.GetComment(ctx, store.NewRunID(), "a1"); ok {
		t.Error("comment should not be visible under another run")
	}
}

func TestCommentsByCategorySorted(t *testing.T) {
	ctx := context.Background()
	s := New()
	runID := store.NewRunID()

	for _, id := range []string{"c", "a", "b"} {
		s.UpsertComment(ctx, store.Comment{RunID: runID, ID: id, Category: "funny"})
	}
	s.UpsertComment(ctx, store.Comment{RunID: runID, ID: "z", Category: "news"})

	got, _ := s.CommentsByCategory(ctx, runID, "funny", 0)
	if len(got) != 3 || got[0].ID != "a" || got[2].ID != "c" {
		t.Errorf("expected sorted [a b c], got %+v", got)
	}
	if got, _ := s.CommentsByCategory(ctx, runID, "funny", 1); len(got) != 1 {
		t.Errorf("expected 1 with limit, got %d", len(got))
	}

	counts, _ := s.CountByCategory(ctx, runID)
	if counts["funny"] != 3 || counts["news"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestUpsertRejectsBadRunID(t *testing.T) {
	s := New()
	err := s.UpsertComment(context.Background(), store.Comment{RunID: "x", ID: "a"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
