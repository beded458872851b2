package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/cognicore/preproc/internal/corpus"
	"github.com/cognicore/preproc/pkg/preproc/internalerr"
	"github.com/cognicore/preproc/pkg/preproc/store/memstore"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func setup(t *testing.T) (dir string, opts options) {
	t.Helper()
	dir = t.TempDir()

	writeFile(t, filepath.Join(dir, "lists", "abbrev.english"), "e.g.\n")
	writeFile(t, filepath.Join(dir, "lists", "pn_abbrev.english"), "Dr.\n")
	writeFile(t, filepath.Join(dir, "lists", "StopWords"), "the\n")
	writeFile(t, filepath.Join(dir, "preproc.yaml"), `resources:
  dir: `+filepath.Join(dir, "lists")+`
annotator:
  backend: none
steps: [1, 2, 3, 4, 5, 7, 10]
workers: 2
`)
	writeFile(t, filepath.Join(dir, "data", "politics"),
		`["{\"id\":\"p1\",\"body\":\"Dr. Smith isn't here!\",\"score\":2}", "{\"id\":\"p2\",\"body\":\"\"}", "{\"id\":\"p3\",\"body\":\"See http://x.com &amp; the rest\"}"]`)
	writeFile(t, filepath.Join(dir, "data", "funny"), `[{"id":"f1","body":"LOL, the cat"}]`)

	opts = options{
		ID:         0,
		OutPath:    filepath.Join(dir, "out.json"),
		Max:        10,
		InputDir:   filepath.Join(dir, "data"),
		ConfigPath: filepath.Join(dir, "preproc.yaml"),
	}
	return dir, opts
}

func readOutput(t *testing.T, path string) []corpus.Comment {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out []corpus.Comment
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return out
}

func TestRunWritesNormalizedComments(t *testing.T) {
	_, opts := setup(t)

	if err := run(context.Background(), opts, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := readOutput(t, opts.OutPath)
	if len(out) != 3 {
		t.Fatalf("Expected 3 comments (empty body skipped), got %d: %+v", len(out), out)
	}

	want := map[string]struct{ body, cat string }{
		"f1": {"lol , cat", "funny"},
		"p1": {"dr. smith is n't here !", "politics"},
		"p3": {"see & rest", "politics"},
	}
	for _, c := range out {
		w, ok := want[c.ID]
		if !ok {
			t.Errorf("unexpected comment %q", c.ID)
			continue
		}
		if c.Body != w.body {
			t.Errorf("%s: expected body %q, got %q", c.ID, w.body, c.Body)
		}
		if c.Cat != w.cat {
			t.Errorf("%s: expected cat %q, got %q", c.ID, w.cat, c.Cat)
		}
	}
}

func TestRunStepsFlagOverridesConfig(t *testing.T) {
	_, opts := setup(t)
	opts.Steps = "1"

	if err := run(context.Background(), opts, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, c := range readOutput(t, opts.OutPath) {
		if c.ID == "p3" && c.Body != "See http://x.com &amp; the rest" {
			t.Errorf("only step 1 should run, got %q", c.Body)
		}
	}
}

func TestRunStoresToDatabase(t *testing.T) {
	dir, opts := setup(t)
	opts.DBPath = filepath.Join(dir, "out.db")

	if err := run(context.Background(), opts, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(opts.DBPath); err != nil {
		t.Errorf("database not created: %v", err)
	}
}

func TestRunUpsertsIntoStore(t *testing.T) {
	_, opts := setup(t)
	opts.RunID = "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	mem := memstore.New()
	opts.Store = mem

	ctx := context.Background()
	if err := run(ctx, opts, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("run: %v", err)
	}

	counts, err := mem.CountByCategory(ctx, opts.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if counts["politics"] != 2 || counts["funny"] != 1 || len(counts) != 2 {
		t.Errorf("Expected politics=2 funny=1, got %v", counts)
	}

	c, ok, err := mem.GetComment(ctx, opts.RunID, "p1")
	if err != nil || !ok {
		t.Fatalf("Expected stored p1, got ok=%v err=%v", ok, err)
	}
	if c.Body != "Dr. Smith isn't here!" {
		t.Errorf("Expected raw body kept, got %q", c.Body)
	}
	if c.Normalized != "dr. smith is n't here !" {
		t.Errorf("Expected normalized body, got %q", c.Normalized)
	}
	if c.Score != 2 {
		t.Errorf("Expected score 2, got %d", c.Score)
	}

	politics, err := mem.CommentsByCategory(ctx, opts.RunID, "politics", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(politics) != 2 || politics[0].ID != "p1" || politics[1].ID != "p3" {
		t.Errorf("Expected politics [p1 p3], got %+v", politics)
	}
}

func TestRunRejectsMalformedRunID(t *testing.T) {
	_, opts := setup(t)
	opts.RunID = "not-a-ulid"
	opts.Store = memstore.New()
	err := run(context.Background(), opts, zaptest.NewLogger(t))
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestRunSamplesWindow(t *testing.T) {
	_, opts := setup(t)
	opts.Max = 1
	opts.ID = 2

	if err := run(context.Background(), opts, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("run: %v", err)
	}
	// funny has one record and is taken whole; politics contributes p3.
	out := readOutput(t, opts.OutPath)
	if len(out) != 2 {
		t.Fatalf("Expected 2 comments, got %+v", out)
	}
}

func TestRunRejectsBadMax(t *testing.T) {
	_, opts := setup(t)
	opts.Max = corpus.MaxPerFile + 1
	if err := run(context.Background(), opts, zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error for max above the per-file limit")
	}
}
