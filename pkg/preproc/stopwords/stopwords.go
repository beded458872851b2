package stopwords

import (
	"strings"

	"github.com/cognicore/preproc/pkg/preproc/lexres"
	"github.com/cognicore/preproc/pkg/preproc/sanitize"
	"github.com/cognicore/preproc/pkg/preproc/tagged"
)

// Filter deletes whole tokens that are stopwords.
type Filter struct {
	res *lexres.Resources
}

// New creates a filter over the stopwords in res.
func New(res *lexres.Resources) *Filter {
	return &Filter{res: res}
}

// Remove deletes every token that equals a stopword, ignoring case, either
// bare or followed by a tag ("the", "The/DT"). Stopwords inside longer tokens
// are kept ("theme"). Whitespace is collapsed and trimmed afterwards.
func (f *Filter) Remove(text string) string {
	if text == "" {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, sp := range tagged.Spans(text) {
		if f.IsStop(sp.Text(text)) {
			b.WriteString(text[prev:sp.Start])
			prev = sp.End
		}
	}
	b.WriteString(text[prev:])
	return sanitize.RemoveRepeatedWhitespace(b.String())
}

// IsStop reports whether a single token is a stopword. Any slash followed by
// at least one character may start the tag, so "and/or/CC" is dropped when
// "and" is a stopword.
func (f *Filter) IsStop(token string) bool {
	if f.res.IsStopword(token) {
		return true
	}
	for i := 1; i < len(token)-1; i++ {
		if token[i] == tagged.Separator[0] && f.res.IsStopword(token[:i]) {
			return true
		}
	}
	return false
}
