package preproc

import (
	"context"
	"strings"
	"testing"
	"unicode"

	"github.com/cognicore/preproc/pkg/preproc/annotate"
	"github.com/cognicore/preproc/pkg/preproc/lexres"
)

// tableAnnotator tags and lemmatizes from fixed tables. Words missing from
// the lemma table are their own lemma.
type tableAnnotator struct {
	tags   map[string]string
	lemmas map[string]string
	calls  int
}

func (a *tableAnnotator) Tag(ctx context.Context, words []string) ([]annotate.Annotation, error) {
	a.calls++
	anns := make([]annotate.Annotation, len(words))
	offset := 0
	for i, w := range words {
		anns[i] = annotate.Annotation{Tag: a.tags[w], Offset: offset, Length: len(w)}
		offset += len(w) + 1
	}
	return anns, nil
}

func (a *tableAnnotator) Lemmatize(ctx context.Context, words []string) ([]string, error) {
	a.calls++
	out := make([]string, len(words))
	for i, w := range words {
		if l, ok := a.lemmas[w]; ok {
			out[i] = l
		} else {
			out[i] = w
		}
	}
	return out, nil
}

func testResources() *lexres.Resources {
	return lexres.New(
		[]string{"e.g.", "etc."},
		[]string{"Dr.", "Mr."},
		[]string{"the", "a"},
	)
}

func TestNormalizeScenarioStepsOneToFive(t *testing.T) {
	p := New(Options{Resources: testResources(), Steps: mustParse(t, "1-5")})

	got := p.Normalize(context.Background(), "Check http://x.com now!! Dr. Smith isn't here.")
	want := "Check now !! Dr. Smith is n't here ."
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeFullPipeline(t *testing.T) {
	ann := &tableAnnotator{
		tags: map[string]string{
			"He": "PRP", "left": "VBD", ".": ".", "She": "PRP", "arrived": "VBD", "!": ".",
			"the": "DT", "Dr.": "NNP", "Smith": "NNP",
		},
		lemmas: map[string]string{"left": "leave", "arrived": "arrive"},
	}
	p := New(Options{Resources: testResources(), Annotator: ann})

	got := p.Normalize(context.Background(), "He left the Dr. Smith.\nShe arrived!")
	want := "he/PRP leave/VBD dr./NNP smith/NNP ./. \nshe/PRP arrive/VBD !/."
	if got != want {
		t.Errorf("Normalize =\n %q\nwant\n %q", got, want)
	}
}

func TestNormalizeEmptyShortCircuits(t *testing.T) {
	ann := &tableAnnotator{}
	p := New(Options{Resources: testResources(), Annotator: ann})

	if got := p.Normalize(context.Background(), ""); got != "" {
		t.Errorf("Normalize(\"\") = %q", got)
	}
	if ann.calls != 0 {
		t.Errorf("annotator called %d times for empty input", ann.calls)
	}
}

func TestNormalizeSkipsAbsentSteps(t *testing.T) {
	p := New(Options{Resources: testResources()})
	ctx := context.Background()

	in := "Line one\nLine &amp; two"
	if got := p.NormalizeSteps(ctx, in, NewSteps(StepNewlines)); got != "Line one Line &amp; two" {
		t.Errorf("newlines only: got %q", got)
	}
	if got := p.NormalizeSteps(ctx, in, NewSteps(StepHTML)); got != "Line one\nLine & two" {
		t.Errorf("html only: got %q", got)
	}
	if got := p.NormalizeSteps(ctx, in, 0); got != in {
		t.Errorf("no steps: got %q", got)
	}
}

func TestNormalizeOrderIndependentOfSelection(t *testing.T) {
	p := New(Options{Resources: testResources()})
	ctx := context.Background()
	in := "I'm here, Mr. Jones!"

	a := p.NormalizeSteps(ctx, in, NewSteps(StepClitics, StepPunctuation, StepLowercase))
	b := p.NormalizeSteps(ctx, in, NewSteps(StepLowercase, StepPunctuation, StepClitics))
	if a != b {
		t.Errorf("selection order changed the result: %q vs %q", a, b)
	}
	if a != "i 'm here , mr. jones !" {
		t.Errorf("got %q", a)
	}
}

func TestNormalizeWithoutAnnotatorPassesThrough(t *testing.T) {
	p := New(Options{Resources: testResources(), Steps: NewSteps(StepTagging, StepLemmatize)})
	in := "left alone"
	if got := p.Normalize(context.Background(), in); got != in {
		t.Errorf("got %q, want %q", got, in)
	}
}

func TestTokenizationRoundTrip(t *testing.T) {
	p := New(Options{Resources: testResources()})
	ctx := context.Background()

	comments := []string{
		"Check http://x.com now!! Dr. Smith isn't here.",
		"I'm sure, e.g. the dogs' owner won't pay $1,000.50 (or 20%)...",
		"Fish &amp; chips\r\nare great; aren't they?",
	}
	for _, c := range comments {
		sanitized := p.NormalizeSteps(ctx, c, mustParse(t, "1-3"))
		tokenized := p.NormalizeSteps(ctx, c, mustParse(t, "1-5"))
		if stripSpace(sanitized) != stripSpace(tokenized) {
			t.Errorf("round trip mismatch:\n sanitized %q\n tokenized %q", sanitized, tokenized)
		}
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func mustParse(t *testing.T, spec string) Steps {
	t.Helper()
	s, err := ParseSteps(spec)
	if err != nil {
		t.Fatalf("ParseSteps(%q): %v", spec, err)
	}
	return s
}
