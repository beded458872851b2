package preproc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/preproc/pkg/preproc/internalerr"
)

// Step identifies one normalization stage. Stages always run in ascending
// order.
type Step int

const (
	StepNewlines    Step = iota + 1 // replace line breaks with spaces
	StepHTML                        // decode HTML character references
	StepURLs                        // remove URLs
	StepPunctuation                 // split punctuation, numbers, abbreviations
	StepClitics                     // split clitics
	StepTagging                     // attach part-of-speech tags
	StepStopwords                   // remove stopwords
	StepLemmatize                   // replace tokens with lemmas
	StepSentences                   // insert sentence boundaries
	StepLowercase                   // lowercase token text
)

// NumSteps is the number of defined stages.
const NumSteps = int(StepLowercase)

var stepNames = [...]string{
	StepNewlines:    "newlines",
	StepHTML:        "html",
	StepURLs:        "urls",
	StepPunctuation: "punctuation",
	StepClitics:     "clitics",
	StepTagging:     "tagging",
	StepStopwords:   "stopwords",
	StepLemmatize:   "lemmatize",
	StepSentences:   "sentences",
	StepLowercase:   "lowercase",
}

func (s Step) String() string {
	if s.Valid() {
		return stepNames[s]
	}
	return "step(" + strconv.Itoa(int(s)) + ")"
}

// Valid reports whether s is one of the defined stages.
func (s Step) Valid() bool {
	return s >= StepNewlines && s <= StepLowercase
}

// Steps is a set of stages.
type Steps uint16

// NewSteps builds a set from individual stages; invalid ones are ignored.
func NewSteps(steps ...Step) Steps {
	var s Steps
	for _, st := range steps {
		if st.Valid() {
			s |= 1 << uint(st)
		}
	}
	return s
}

// AllSteps returns the set of every stage.
func AllSteps() Steps {
	var s Steps
	for st := StepNewlines; st <= StepLowercase; st++ {
		s |= 1 << uint(st)
	}
	return s
}

// Has reports whether the set contains step.
func (s Steps) Has(step Step) bool {
	return step.Valid() && s&(1<<uint(step)) != 0
}

// List returns the stages in execution order.
func (s Steps) List() []Step {
	var out []Step
	for st := StepNewlines; st <= StepLowercase; st++ {
		if s.Has(st) {
			out = append(out, st)
		}
	}
	return out
}

// String formats the set with ranges, e.g. "1-5,7,9".
func (s Steps) String() string {
	list := s.List()
	var parts []string
	for i := 0; i < len(list); {
		j := i
		for j+1 < len(list) && list[j+1] == list[j]+1 {
			j++
		}
		if j > i {
			parts = append(parts, fmt.Sprintf("%d-%d", list[i], list[j]))
		} else {
			parts = append(parts, strconv.Itoa(int(list[i])))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

// ParseSteps parses a comma-separated list of stage numbers and ranges,
// e.g. "1-5,7,9". Order and duplicates do not matter.
func ParseSteps(spec string) (Steps, error) {
	var s Steps
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi := part, part
		if i := strings.Index(part, "-"); i > 0 {
			lo, hi = part[:i], part[i+1:]
		}
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return 0, fmt.Errorf("%w: step %q", internalerr.ErrInvalidInput, part)
		}
		b, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return 0, fmt.Errorf("%w: step %q", internalerr.ErrInvalidInput, part)
		}
		if a > b || !Step(a).Valid() || !Step(b).Valid() {
			return 0, fmt.Errorf("%w: step %q out of range 1-%d", internalerr.ErrInvalidInput, part, NumSteps)
		}
		for st := a; st <= b; st++ {
			s |= NewSteps(Step(st))
		}
	}
	return s, nil
}
