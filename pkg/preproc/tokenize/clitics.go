package tokenize

import "regexp"

// word approximates a Unicode \w.
const word = `[\p{L}\p{N}_]`

type cliticRule struct {
	re   *regexp.Regexp
	repl string
}

// cliticRules run in order, each over the output of the previous one.
// The verb+n't rule must come first or "n't" would be left attached to the
// host by the later apostrophe rules. Matching is case-insensitive; the host
// keeps its casing and the clitic is always written in lowercase.
var cliticRules = []cliticRule{
	{regexp.MustCompile(`(?i)\b(ca|had|ai|am|are|could|dare|did|does|do|has|have|is|need|must|ought|should|was|were|wo|would)n't\b`), "${1} n't"},
	{regexp.MustCompile(`(?i)(` + word + `+)'s`), "${1} 's"},
	{regexp.MustCompile(`(?i)(` + word + `+s)'`), "${1} '"},
	{regexp.MustCompile(`(?i)(` + word + `*[a-z])'ve\b`), "${1} 've"},
	{regexp.MustCompile(`(?i)\b(i)'m\b`), "${1} 'm"},
	{regexp.MustCompile(`(?i)(` + word + `*[a-z])'re\b`), "${1} 're"},
	{regexp.MustCompile(`(?i)(` + word + `*[a-z])'ll\b`), "${1} 'll"},
	{regexp.MustCompile(`(?i)(` + word + `*[a-z])'d\b`), "${1} 'd"},
}

// SplitClitics separates English clitics from their host word:
//
//	don't  -> do n't
//	John's -> John 's
//	dogs'  -> dogs '
//	I'm    -> I 'm
//
// plus 've, 're, 'll and 'd. Text is expected to be whitespace-tokenized.
func SplitClitics(text string) string {
	if text == "" {
		return text
	}
	for _, rule := range cliticRules {
		text = rule.re.ReplaceAllString(text, rule.repl)
	}
	return text
}
