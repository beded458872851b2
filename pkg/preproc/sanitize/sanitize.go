// Package sanitize strips transport noise from raw comment text: line breaks,
// URLs and HTML character references. Every function is total on strings and
// returns empty input unchanged.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	// A scheme without the colon ("http//") is accepted, as seen in scraped text.
	reURL        = regexp.MustCompile(`(https?:?//[\p{L}\p{N}_./\-:]+)|(www\.[\p{L}\p{N}_./\-:]+)`)
	reRepeatedWS = regexp.MustCompile(`\s{2,}`)
	newlines     = strings.NewReplacer("\n", " ", "\r", " ")
)

// RemoveNewlines replaces every line feed and carriage return with a space.
func RemoveNewlines(text string) string {
	if text == "" {
		return text
	}
	return newlines.Replace(text)
}

// RemoveURLs deletes http(s) and www URLs. Surrounding whitespace is kept,
// so the result may contain doubled spaces.
func RemoveURLs(text string) string {
	if text == "" {
		return text
	}
	return reURL.ReplaceAllString(text, "")
}

// RemoveHTMLCharCodes decodes HTML character and entity references such as
// "&amp;" and "&#39;".
func RemoveHTMLCharCodes(text string) string {
	if text == "" {
		return text
	}
	return html.UnescapeString(text)
}

// RemoveRepeatedWhitespace collapses runs of two or more whitespace characters
// into one space and trims the ends.
func RemoveRepeatedWhitespace(text string) string {
	if text == "" {
		return text
	}
	return strings.TrimSpace(reRepeatedWS.ReplaceAllString(text, " "))
}
