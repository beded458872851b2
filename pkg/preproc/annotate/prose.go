package annotate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// Prose is an in-process Annotator: prose's averaged perceptron tagger
// (Penn Treebank tags) and golem's English lemma dictionary.
type Prose struct {
	mu         sync.Mutex // guards model
	model      *prose.Model
	lemmatizer *golem.Lemmatizer
}

// NewProse loads the tagging model and the lemma dictionary once.
func NewProse() (*Prose, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemma dictionary: %w", err)
	}
	warm, err := prose.NewDocument("init",
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("load tagging model: %w", err)
	}
	return &Prose{model: warm.Model, lemmatizer: lemmatizer}, nil
}

// Tag implements Annotator. prose tokenizes on its own, so its tokens are
// located in the joined text and mapped back to the input words; a word
// takes the tag of its first prose token.
func (p *Prose) Tag(ctx context.Context, words []string) ([]Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	joined := strings.Join(words, " ")

	p.mu.Lock()
	doc, err := prose.NewDocument(joined,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
		prose.UsingModel(p.model),
	)
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("tag: %w", err)
	}

	anns := make([]Annotation, len(words))
	ends := make([]int, len(words))
	offset := 0
	for i, w := range words {
		anns[i] = Annotation{Offset: offset, Length: len(w)}
		ends[i] = offset + len(w)
		offset = ends[i] + 1
	}

	cursor, wi := 0, 0
	for _, tok := range doc.Tokens() {
		if tok.Text == "" {
			continue
		}
		pos := strings.Index(joined[cursor:], tok.Text)
		if pos < 0 {
			continue
		}
		start := cursor + pos
		cursor = start + len(tok.Text)
		for wi < len(words) && ends[wi] <= start {
			wi++
		}
		if wi == len(words) {
			break
		}
		if anns[wi].Tag == "" {
			anns[wi].Tag = tok.Tag
		}
	}
	return anns, nil
}

// Lemmatize implements Annotator. Words unknown to the dictionary are their
// own lemma.
func (p *Prose) Lemmatize(ctx context.Context, words []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lemmas := make([]string, len(words))
	for i, w := range words {
		lemmas[i] = p.lemmatizer.Lemma(w)
	}
	return lemmas, nil
}
