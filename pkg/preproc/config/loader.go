package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/preproc/internal/annotatorhttp"
	"github.com/cognicore/preproc/pkg/preproc"
	"github.com/cognicore/preproc/pkg/preproc/annotate"
	"github.com/cognicore/preproc/pkg/preproc/internalerr"
	"github.com/cognicore/preproc/pkg/preproc/lexres"
)

// Loader loads all word lists and constructs components
type Loader struct {
	AbbrevPaths           []string
	ProperNounAbbrevPaths []string
	StopwordPaths         []string
	Annotator             AnnotatorConfig
}

// Components holds everything a pipeline is built from
type Components struct {
	Resources *lexres.Resources
	// Annotator is nil for the "none" backend.
	Annotator annotate.Annotator
}

// Load reads every word list and returns initialized components
func (l *Loader) Load() (*Components, error) {
	res, err := lexres.Load(lexres.Paths{
		Abbreviations:           l.AbbrevPaths,
		ProperNounAbbreviations: l.ProperNounAbbrevPaths,
		Stopwords:               l.StopwordPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}

	ann, err := l.annotator()
	if err != nil {
		return nil, fmt.Errorf("load annotator: %w", err)
	}
	return &Components{Resources: res, Annotator: ann}, nil
}

func (l *Loader) annotator() (annotate.Annotator, error) {
	switch l.Annotator.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendProse:
		p, err := annotate.NewProse()
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendHTTP:
		if l.Annotator.URL == "" {
			return nil, fmt.Errorf("%w: annotator url required", internalerr.ErrInvalidConfig)
		}
		return annotatorhttp.New(l.Annotator.URL, l.Annotator.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: unknown annotator backend %q", internalerr.ErrInvalidConfig, l.Annotator.Backend)
	}
}

// Pipeline builds a pipeline over the loaded components.
func (c *Components) Pipeline(steps preproc.Steps, logger *zap.Logger) *preproc.Pipeline {
	return preproc.New(preproc.Options{
		Resources: c.Resources,
		Annotator: c.Annotator,
		Steps:     steps,
		Logger:    logger,
	})
}
