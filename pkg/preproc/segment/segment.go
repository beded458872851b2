// Package segment marks sentence boundaries in tagged text by inserting a
// newline after sentence-final tokens.
package segment

import (
	"strings"
	"unicode"

	"github.com/cognicore/preproc/pkg/preproc/lexres"
	"github.com/cognicore/preproc/pkg/preproc/tagged"
)

// Boundary is the sentence boundary marker.
const Boundary = "\n"

const quote = `"`

// Segmenter inserts sentence boundaries into "surface/TAG" text.
type Segmenter struct {
	res *lexres.Resources
}

// New creates a segmenter that uses the abbreviation sets in res.
func New(res *lexres.Resources) *Segmenter {
	return &Segmenter{res: res}
}

// Separate runs both boundary passes over text.
//
// First pass, per token followed by whitespace, first rule wins:
//  1. a proper-noun abbreviation ("Dr./NNP") never ends a sentence;
//  2. any other abbreviation ends one only if the next token starts with an
//     uppercase letter;
//  3. a token ending in "." ends one, together with an optional following
//     quote token.
//
// The boundary goes after the whitespace that follows the sentence.
//
// Second pass: a token ending in "!" or "?" (plus an optional quote token)
// ends a sentence when the next token starts with an ASCII uppercase letter.
// Here the boundary goes directly after the token.
//
// The uppercase test is a heuristic and splits after an abbreviation that is
// followed by a capitalized common noun.
func (s *Segmenter) Separate(text string) string {
	if text == "" {
		return text
	}
	return s.exclamations(s.periods(text))
}

func (s *Segmenter) periods(text string) string {
	spans := tagged.Spans(text)
	var at []int

	for i := 0; i < len(spans); i++ {
		next := nextStart(text, spans, i)
		if next == spans[i].End {
			continue // no trailing whitespace
		}
		surface, _, ok := tagged.Split(spans[i].Text(text))
		if !ok {
			continue
		}

		switch {
		case s.res.IsProperNounAbbreviation(surface):
		case s.res.IsNonProperNounAbbreviation(surface):
			if tagged.StartsUpper(text[next:]) {
				at = append(at, next)
			}
		case strings.HasSuffix(surface, "."):
			if i+1 < len(spans) && isQuote(spans[i+1].Text(text)) {
				if after := nextStart(text, spans, i+1); after > spans[i+1].End {
					next = after
					i++
				}
			}
			at = append(at, next)
		}
	}
	return insert(text, at)
}

func (s *Segmenter) exclamations(text string) string {
	spans := tagged.Spans(text)
	var at []int

	for i := 0; i < len(spans); i++ {
		surface, _, ok := tagged.Split(spans[i].Text(text))
		if !ok || !strings.ContainsAny(surface[len(surface)-1:], "!?") {
			continue
		}
		if i+1 < len(spans) && isQuote(spans[i+1].Text(text)) && upperFollows(text[spans[i+1].End:]) {
			at = append(at, spans[i+1].End)
			i++
			continue
		}
		if upperFollows(text[spans[i].End:]) {
			at = append(at, spans[i].End)
		}
	}
	return insert(text, at)
}

// nextStart returns the offset where the whitespace after span i ends.
func nextStart(text string, spans []tagged.Span, i int) int {
	if i+1 < len(spans) {
		return spans[i+1].Start
	}
	return len(text)
}

func isQuote(unit string) bool {
	surface, _, ok := tagged.Split(unit)
	return ok && surface == quote
}

// upperFollows reports whether s is at least one whitespace character
// followed by an ASCII uppercase letter.
func upperFollows(s string) bool {
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	if len(rest) == len(s) || rest == "" {
		return false
	}
	return rest[0] >= 'A' && rest[0] <= 'Z'
}

// insert places a boundary at each offset; offsets are ascending.
func insert(text string, at []int) string {
	if len(at) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(at)*len(Boundary))
	prev := 0
	for _, off := range at {
		b.WriteString(text[prev:off])
		b.WriteString(Boundary)
		prev = off
	}
	b.WriteString(text[prev:])
	return b.String()
}
