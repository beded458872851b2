package tokenize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cognicore/preproc/pkg/preproc/lexres"
	"github.com/cognicore/preproc/pkg/preproc/sanitize"
)

const (
	numberWithSeparators = `\d{1,3}(?:,\d{3})+(?:\.\d+)?`
	bareNumber           = `\b\d+\b`
	punctuationRun       = `[!"#$%&()*+,\-./:;<=>?@\[\\\]^_{|}~]+`
)

// Tokenizer inserts token boundaries around abbreviations, numbers and
// punctuation runs.
type Tokenizer struct {
	boundary *regexp.Regexp
}

// New compiles the boundary pattern for the abbreviations in res.
//
// The pattern is one alternation tried at every position, first match wins:
// abbreviations (literal, case-sensitive, longest first), numbers with
// thousands separators, bare integers, punctuation runs. Abbreviations come
// first so their periods are never split off as punctuation.
func New(res *lexres.Resources) *Tokenizer {
	return &Tokenizer{boundary: regexp.MustCompile(boundaryPattern(res.Abbreviations()))}
}

func boundaryPattern(abbreviations []string) string {
	var alts []string
	if len(abbreviations) > 0 {
		alts = append(alts, `\b(?:`+abbreviationAlternation(abbreviations)+`)`)
	}
	alts = append(alts, numberWithSeparators, bareNumber, punctuationRun)
	return strings.Join(alts, "|")
}

// abbreviationAlternation quotes every abbreviation and orders them longest
// first so that "e.g." is preferred over a shorter "e." at the same position.
func abbreviationAlternation(abbreviations []string) string {
	sorted := make([]string, len(abbreviations))
	copy(sorted, abbreviations)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	quoted := make([]string, len(sorted))
	for i, a := range sorted {
		quoted[i] = regexp.QuoteMeta(a)
	}
	return strings.Join(quoted, "|")
}

// SplitPunctuation surrounds every abbreviation, number and punctuation run
// with spaces, then collapses repeated whitespace and trims the result.
func (t *Tokenizer) SplitPunctuation(text string) string {
	if text == "" {
		return text
	}
	spaced := t.boundary.ReplaceAllString(text, " ${0} ")
	return sanitize.RemoveRepeatedWhitespace(spaced)
}
