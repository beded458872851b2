// Package preproc normalizes social-media comments into a tagged, lemmatized,
// sentence-split token stream.
//
// A comment passes through up to ten stages in fixed order:
//
//	1 newlines  2 html  3 urls  4 punctuation  5 clitics
//	6 tagging   7 stopwords  8 lemmatize  9 sentences  10 lowercase
//
// Each stage reads the full output of the previous one and produces a new
// string. Stages not selected pass their input through unchanged.
package preproc

import (
	"context"

	"go.uber.org/zap"

	"github.com/cognicore/preproc/pkg/preproc/annotate"
	"github.com/cognicore/preproc/pkg/preproc/lexres"
	"github.com/cognicore/preproc/pkg/preproc/sanitize"
	"github.com/cognicore/preproc/pkg/preproc/segment"
	"github.com/cognicore/preproc/pkg/preproc/stopwords"
	"github.com/cognicore/preproc/pkg/preproc/tagged"
	"github.com/cognicore/preproc/pkg/preproc/tokenize"
)

// Options configures a Pipeline.
type Options struct {
	Resources *lexres.Resources
	// Annotator backs the tagging and lemmatization stages. When nil those
	// stages pass text through.
	Annotator annotate.Annotator
	// Steps selects the default stages for Normalize. Zero means all.
	Steps  Steps
	Logger *zap.Logger
}

// Pipeline normalizes comments. It holds only read-only state and is safe for
// concurrent use.
type Pipeline struct {
	steps     Steps
	tokenizer *tokenize.Tokenizer
	adapter   *annotate.Adapter
	stops     *stopwords.Filter
	segmenter *segment.Segmenter
	logger    *zap.Logger
}

type stage struct {
	step Step
	run  func(ctx context.Context, text string) string
}

// New builds a pipeline from resources and an annotator.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	res := opts.Resources
	if res == nil {
		res = lexres.New(nil, nil, nil)
	}
	steps := opts.Steps
	if steps == 0 {
		steps = AllSteps()
	}

	p := &Pipeline{
		steps:     steps,
		tokenizer: tokenize.New(res),
		stops:     stopwords.New(res),
		segmenter: segment.New(res),
		logger:    logger,
	}
	if opts.Annotator != nil {
		p.adapter = annotate.NewAdapter(opts.Annotator, logger)
	} else if steps.Has(StepTagging) || steps.Has(StepLemmatize) {
		logger.Warn("no annotator configured, tagging and lemmatization will pass text through")
	}
	return p
}

// Steps returns the default stage set.
func (p *Pipeline) Steps() Steps { return p.steps }

// Normalize runs the default stages over comment.
func (p *Pipeline) Normalize(ctx context.Context, comment string) string {
	return p.NormalizeSteps(ctx, comment, p.steps)
}

// NormalizeSteps runs the selected stages over comment in ascending order.
// An empty comment is returned as is.
func (p *Pipeline) NormalizeSteps(ctx context.Context, comment string, steps Steps) string {
	if comment == "" {
		return comment
	}
	text := comment
	for _, st := range p.stages() {
		if !steps.Has(st.step) {
			continue
		}
		text = st.run(ctx, text)
	}
	return text
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{StepNewlines, pure(sanitize.RemoveNewlines)},
		{StepHTML, pure(sanitize.RemoveHTMLCharCodes)},
		{StepURLs, pure(sanitize.RemoveURLs)},
		{StepPunctuation, pure(p.tokenizer.SplitPunctuation)},
		{StepClitics, pure(tokenize.SplitClitics)},
		{StepTagging, p.tag},
		{StepStopwords, pure(p.stops.Remove)},
		{StepLemmatize, p.lemmatize},
		{StepSentences, pure(p.segmenter.Separate)},
		{StepLowercase, pure(tagged.Lowercase)},
	}
}

func (p *Pipeline) tag(ctx context.Context, text string) string {
	if p.adapter == nil {
		return text
	}
	return p.adapter.Tag(ctx, text)
}

func (p *Pipeline) lemmatize(ctx context.Context, text string) string {
	if p.adapter == nil {
		return text
	}
	return p.adapter.Lemmatize(ctx, text)
}

func pure(fn func(string) string) func(context.Context, string) string {
	return func(_ context.Context, text string) string { return fn(text) }
}
