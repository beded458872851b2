package stats

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/cognicore/preproc/pkg/preproc/segment"
	"github.com/cognicore/preproc/pkg/preproc/tagged"
)

// Analyzer aggregates counts over normalized comments. Safe for concurrent use.
type Analyzer struct {
	mu        sync.Mutex
	total     CategoryStats
	cats      map[string]*CategoryStats
	tagFreq   map[string]int64
	tokenDF   map[string]int64
	tokenCats map[string]map[string]int64
}

// CategoryStats holds counts for one category, or for the whole corpus.
type CategoryStats struct {
	Comments  int64
	Empty     int64 // comments that normalized to nothing
	Tokens    int64
	Sentences int64
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		cats:      make(map[string]*CategoryStats),
		tagFreq:   make(map[string]int64),
		tokenDF:   make(map[string]int64),
		tokenCats: make(map[string]map[string]int64),
	}
}

// Process consumes one normalized comment.
func (a *Analyzer) Process(category, normalized string) {
	var sentences, tokens int64
	tags := make(map[string]int64)
	seen := make(map[string]struct{})
	for _, line := range strings.Split(normalized, segment.Boundary) {
		units := strings.Fields(line)
		if len(units) == 0 {
			continue
		}
		sentences++
		for _, unit := range units {
			tokens++
			surface, tag, ok := tagged.Split(unit)
			if ok {
				tags[tag]++
			} else {
				surface = unit
			}
			seen[strings.ToLower(surface)] = struct{}{}
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	cat := a.cats[category]
	if cat == nil {
		cat = &CategoryStats{}
		a.cats[category] = cat
	}
	for _, c := range []*CategoryStats{&a.total, cat} {
		c.Comments++
		c.Tokens += tokens
		c.Sentences += sentences
		if tokens == 0 {
			c.Empty++
		}
	}
	for tag, n := range tags {
		a.tagFreq[tag] += n
	}
	for tok := range seen {
		a.tokenDF[tok]++
		if a.tokenCats[tok] == nil {
			a.tokenCats[tok] = make(map[string]int64)
		}
		a.tokenCats[tok][category]++
	}
}

// Stats exposes the aggregated counts.
type Stats struct {
	Total      CategoryStats
	Categories map[string]CategoryStats
	TagFreq    map[string]int64
	TokenDF    map[string]int64 // comments containing each lowercased surface
	TokenCats  map[string]map[string]int64
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	cats := make(map[string]CategoryStats, len(a.cats))
	for name, c := range a.cats {
		cats[name] = *c
	}
	tags := make(map[string]int64, len(a.tagFreq))
	for tag, n := range a.tagFreq {
		tags[tag] = n
	}
	df := make(map[string]int64, len(a.tokenDF))
	for tok, n := range a.tokenDF {
		df[tok] = n
	}
	tokenCats := make(map[string]map[string]int64, len(a.tokenCats))
	for tok, m := range a.tokenCats {
		tokenCats[tok] = make(map[string]int64, len(m))
		for cat, n := range m {
			tokenCats[tok][cat] = n
		}
	}
	return Stats{
		Total:      a.total,
		Categories: cats,
		TagFreq:    tags,
		TokenDF:    df,
		TokenCats:  tokenCats,
	}
}

// TagCount is a tag and how often it was seen.
type TagCount struct {
	Tag   string
	Count int64
}

// TopTags returns the most frequent tags, ties broken by name.
func (s Stats) TopTags(limit int) []TagCount {
	out := make([]TagCount, 0, len(s.TagFreq))
	for tag, n := range s.TagFreq {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Tag < out[j].Tag
		}
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Candidate is a token that looks like a stopword.
type Candidate struct {
	Token      string
	DFPercent  float64
	CatEntropy float64
}

// StopwordCandidates suggests tokens that occur in at least minDFPercent of
// comments and are spread evenly across categories (normalized entropy at
// least minEntropy). Results are sorted by DFPercent, highest first.
func (s Stats) StopwordCandidates(minDFPercent, minEntropy float64) []Candidate {
	if s.Total.Comments == 0 {
		return nil
	}
	var out []Candidate
	for tok, df := range s.TokenDF {
		pct := 100 * float64(df) / float64(s.Total.Comments)
		if pct < minDFPercent {
			continue
		}
		h := entropy(s.TokenCats[tok])
		if h < minEntropy {
			continue
		}
		out = append(out, Candidate{Token: tok, DFPercent: pct, CatEntropy: h})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DFPercent == out[j].DFPercent {
			return out[i].Token < out[j].Token
		}
		return out[i].DFPercent > out[j].DFPercent
	})
	return out
}

func entropy(counts map[string]int64) float64 {
	if len(counts) == 0 {
		return 0
	}
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		p := float64(c) / total
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h / math.Log2(float64(len(counts))+1)
}
