package lexres

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/preproc/pkg/preproc/internalerr"
)

// Resources holds the read-only word lists every stage is built from.
//
// The abbreviation set is partitioned into proper-noun abbreviations (titles
// such as "Mr." that never end a sentence) and everything else:
//
//	all        = abbreviations ∪ proper-noun abbreviations
//	non-proper = all − proper
//
// A Resources value is never mutated after construction, so it can be shared
// by any number of goroutines.
type Resources struct {
	all       map[string]struct{}
	proper    map[string]struct{}
	nonProper map[string]struct{}
	stops     map[string]struct{} // lowercased
}

// Paths lists the word-list files that make up a Resources value.
type Paths struct {
	Abbreviations           []string
	ProperNounAbbreviations []string
	Stopwords               []string
}

// New builds resources from in-memory lists.
// Proper-noun abbreviations are always members of the full set.
func New(abbreviations, properNoun, stopwords []string) *Resources {
	r := &Resources{
		all:       make(map[string]struct{}, len(abbreviations)+len(properNoun)),
		proper:    make(map[string]struct{}, len(properNoun)),
		nonProper: make(map[string]struct{}, len(abbreviations)),
		stops:     make(map[string]struct{}, len(stopwords)),
	}
	for _, a := range abbreviations {
		if a = strings.TrimSpace(a); a != "" {
			r.all[a] = struct{}{}
		}
	}
	for _, a := range properNoun {
		if a = strings.TrimSpace(a); a != "" {
			r.all[a] = struct{}{}
			r.proper[a] = struct{}{}
		}
	}
	for a := range r.all {
		if _, ok := r.proper[a]; !ok {
			r.nonProper[a] = struct{}{}
		}
	}
	for _, w := range stopwords {
		if w = strings.TrimSpace(w); w != "" {
			r.stops[strings.ToLower(w)] = struct{}{}
		}
	}
	return r
}

// Load reads every file in p and builds the resource sets.
// Proper-noun files also contribute to the full abbreviation set.
func Load(p Paths) (*Resources, error) {
	abbrevs, err := readAll(p.Abbreviations)
	if err != nil {
		return nil, fmt.Errorf("load abbreviations: %w", err)
	}
	proper, err := readAll(p.ProperNounAbbreviations)
	if err != nil {
		return nil, fmt.Errorf("load proper-noun abbreviations: %w", err)
	}
	stops, err := readAll(p.Stopwords)
	if err != nil {
		return nil, fmt.Errorf("load stopwords: %w", err)
	}
	return New(abbrevs, proper, stops), nil
}

func readAll(paths []string) ([]string, error) {
	var out []string
	for _, path := range paths {
		words, err := LoadWordList(path)
		if err != nil {
			return nil, err
		}
		out = append(out, words...)
	}
	return out, nil
}

// LoadWordList reads a word list. Files ending in .yaml or .yml are parsed as
// `terms: [...]`; anything else is read one entry per line.
func LoadWordList(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAMLTerms(path)
	default:
		return ReadLines(path)
	}
}

// ReadLines returns the whitespace-trimmed, non-blank lines of a file.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", internalerr.ErrResourceLoad, path, err)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan %s: %v", internalerr.ErrResourceLoad, path, err)
	}
	return lines, nil
}

func loadYAMLTerms(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", internalerr.ErrResourceLoad, path, err)
	}

	var list struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrResourceLoad, path, err)
	}
	return list.Terms, nil
}

// Abbreviations returns every known abbreviation, sorted.
func (r *Resources) Abbreviations() []string { return sortedKeys(r.all) }

// ProperNounAbbreviations returns the proper-noun subset, sorted.
func (r *Resources) ProperNounAbbreviations() []string { return sortedKeys(r.proper) }

// NonProperNounAbbreviations returns all abbreviations that are not proper-noun abbreviations, sorted.
func (r *Resources) NonProperNounAbbreviations() []string { return sortedKeys(r.nonProper) }

// Stopwords returns the lowercased stopword set, sorted.
func (r *Resources) Stopwords() []string { return sortedKeys(r.stops) }

// IsAbbreviation reports whether s is a known abbreviation (case-sensitive).
func (r *Resources) IsAbbreviation(s string) bool {
	_, ok := r.all[s]
	return ok
}

// IsProperNounAbbreviation reports whether s is a proper-noun abbreviation (case-sensitive).
func (r *Resources) IsProperNounAbbreviation(s string) bool {
	_, ok := r.proper[s]
	return ok
}

// IsNonProperNounAbbreviation reports whether s is an abbreviation outside the proper-noun subset.
func (r *Resources) IsNonProperNounAbbreviation(s string) bool {
	_, ok := r.nonProper[s]
	return ok
}

// IsStopword reports whether s is a stopword, ignoring case.
func (r *Resources) IsStopword(s string) bool {
	_, ok := r.stops[strings.ToLower(s)]
	return ok
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
