// Package annotate drives an external part-of-speech tagger and lemmatizer
// and stitches its judgments back onto the comment text.
//
// The annotator itself is opaque: anything that can tag and lemmatize an
// ordered word sequence satisfies Annotator. Adapter owns everything around
// the call, keeping the original surface text, pairing tags with lemmas and
// dropping tokens the annotator could not handle.
package annotate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/preproc/pkg/preproc/tagged"
)

// Annotation is the tag for one input word.
// Offset and Length locate the word in strings.Join(words, " "), in bytes.
type Annotation struct {
	Tag    string
	Offset int
	Length int
}

// Annotator tags and lemmatizes pre-tokenized words. Both calls return one
// entry per input word, in input order. An empty tag or lemma marks a word
// the annotator could not handle.
type Annotator interface {
	Tag(ctx context.Context, words []string) ([]Annotation, error)
	Lemmatize(ctx context.Context, words []string) ([]string, error)
}

// Adapter turns whitespace-tokenized text into "surface/TAG" text and
// lemmatizes already tagged text.
type Adapter struct {
	annotator Annotator
	logger    *zap.Logger
}

// NewAdapter wraps an annotator. A nil logger discards diagnostics.
func NewAdapter(a Annotator, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{annotator: a, logger: logger.Named("annotate")}
}

// Tag annotates every whitespace-separated token of text and returns the
// tokens as "surface/TAG" joined by single spaces. The surface is cut from
// text itself so casing and characters survive whatever the annotator does
// to its input. Tokens without a tag are dropped.
func (a *Adapter) Tag(ctx context.Context, text string) string {
	if text == "" {
		return text
	}
	spans := tagged.Spans(text)
	if len(spans) == 0 {
		return ""
	}

	words := make([]string, len(spans))
	byOffset := make(map[int]int, len(spans))
	offset := 0
	for i, sp := range spans {
		words[i] = sp.Text(text)
		byOffset[offset] = i
		offset += len(words[i]) + 1
	}

	anns, err := a.annotator.Tag(ctx, words)
	if err != nil {
		a.logger.Warn("tagging failed, dropping tokens", zap.Int("tokens", len(words)), zap.Error(err))
		return ""
	}
	if len(anns) != len(words) {
		a.logger.Warn("tag count does not match token count", zap.Int("want", len(words)), zap.Int("got", len(anns)))
	}

	out := make([]string, 0, len(anns))
	for i, ann := range anns {
		idx, ok := byOffset[ann.Offset]
		if !ok {
			a.logger.Warn("annotation offset does not start a token, skipping", zap.Int("index", i), zap.Int("offset", ann.Offset))
			continue
		}
		if ann.Tag == "" {
			a.logger.Warn("no tag produced for token, skipping", zap.String("token", words[idx]))
			continue
		}
		sp := spans[idx]
		if ann.Length > 0 && ann.Length < sp.End-sp.Start {
			sp.End = sp.Start + ann.Length
		}
		out = append(out, tagged.Join(sp.Text(text), ann.Tag))
	}
	return strings.Join(out, " ")
}

// Lemmatize replaces the surface of every "surface/TAG" unit with its lemma.
//
// Tags are stripped, the bare tokens are sent to the annotator, and lemmas
// are paired back with the tags by position. When the counts disagree only
// the common prefix is kept. A lemma that starts with "-" for a token that
// does not is a placeholder; the original token is kept in that case.
func (a *Adapter) Lemmatize(ctx context.Context, text string) string {
	if text == "" {
		return text
	}
	units := strings.Fields(text)
	if len(units) == 0 {
		return ""
	}
	bare := tagged.StripTags(text)

	lemmas, err := a.annotator.Lemmatize(ctx, bare)
	if err != nil {
		a.logger.Warn("lemmatization failed, dropping tokens", zap.Int("tokens", len(bare)), zap.Error(err))
		return ""
	}
	n := len(lemmas)
	if n != len(units) {
		a.logger.Warn("lemma count does not match token count", zap.Int("want", len(units)), zap.Int("got", n))
		if n > len(units) {
			n = len(units)
		}
	}

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lemma := lemmas[i]
		if lemma == "" {
			a.logger.Warn("no lemma produced for token, skipping", zap.String("token", bare[i]))
			continue
		}
		token, tag, ok := tagged.Split(units[i])
		if !ok {
			a.logger.Warn("token has no tag, skipping", zap.String("token", units[i]))
			continue
		}
		if strings.HasPrefix(lemma, "-") && !strings.HasPrefix(token, "-") {
			a.logger.Debug("keeping token over placeholder lemma", zap.String("token", token), zap.String("lemma", lemma))
			out = append(out, tagged.Join(token, tag))
			continue
		}
		out = append(out, tagged.Join(lemma, tag))
	}
	return strings.Join(out, " ")
}
