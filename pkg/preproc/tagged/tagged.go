// Package tagged works on whitespace-separated "surface/TAG" units.
//
// A unit is split at its last slash, provided that slash has at least one
// character before and after it. Surfaces may themselves contain slashes
// ("and/or/CC" is surface "and/or", tag "CC"); tags never do.
package tagged

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator joins a surface form to its tag.
const Separator = "/"

// Span is a byte range [Start, End) of one unit within a text.
type Span struct {
	Start int
	End   int
}

// Text returns the substring of s covered by the span.
func (sp Span) Text(s string) string { return s[sp.Start:sp.End] }

// Split returns the surface and tag of unit. ok is false when the unit has no
// usable tag boundary.
func Split(unit string) (surface, tag string, ok bool) {
	p := strings.LastIndex(unit, Separator)
	if p <= 0 || p >= len(unit)-len(Separator) {
		return unit, "", false
	}
	return unit[:p], unit[p+len(Separator):], true
}

// Join attaches tag to surface.
func Join(surface, tag string) string {
	return surface + Separator + tag
}

// Surface returns the unit without its tag, or the unit itself when untagged.
func Surface(unit string) string {
	surface, _, _ := Split(unit)
	return surface
}

// Spans returns the byte spans of the whitespace-separated units of text.
func Spans(text string) []Span {
	var spans []Span
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, Span{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(text)})
	}
	return spans
}

// StripTags returns the bare surface of every unit in text.
func StripTags(text string) []string {
	units := strings.Fields(text)
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = Surface(u)
	}
	return out
}

// Lowercase lowercases the surface of every unit and leaves tags and all
// whitespace, including sentence-boundary newlines, exactly as they were.
func Lowercase(text string) string {
	if text == "" {
		return text
	}
	lower := cases.Lower(language.Und)

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, sp := range Spans(text) {
		b.WriteString(text[prev:sp.Start])
		unit := sp.Text(text)
		if surface, tag, ok := Split(unit); ok {
			b.WriteString(lower.String(surface))
			b.WriteString(Separator)
			b.WriteString(tag)
		} else {
			b.WriteString(lower.String(unit))
		}
		prev = sp.End
	}
	b.WriteString(text[prev:])
	return b.String()
}

// StartsUpper reports whether the first rune of s is an uppercase letter.
func StartsUpper(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && unicode.IsUpper(r)
}
