package stopwords

import (
	"strings"
	"testing"

	"github.com/cognicore/preproc/pkg/preproc/lexres"
	"github.com/cognicore/preproc/pkg/preproc/tagged"
)

func newFilter(words ...string) *Filter {
	return New(lexres.New(nil, nil, words))
}

func TestRemove(t *testing.T) {
	f := newFilter("the", "a", "and", "is")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare tokens", "the cat is a pet", "cat pet"},
		{"tagged tokens", "The/DT cat/NN is/VBZ here/RB", "cat/NN here/RB"},
		{"case insensitive", "THE Cat AND dog", "Cat dog"},
		{"substring preserved", "theme atheist band", "theme atheist band"},
		{"consecutive stopwords", "and the a cat", "cat"},
		{"slash inside surface", "and/or/CC cats/NNS", "cats/NNS"},
		{"trailing slash is not a tag", "the/ cat", "the/ cat"},
		{"only stopwords", "the a and", ""},
		{"collapses whitespace", "  cat   the  dog ", "cat dog"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Remove(tt.in); got != tt.want {
				t.Errorf("Remove(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRemoveLeavesNoWholeTokenStopword(t *testing.T) {
	words := []string{"the", "of", "to", "it"}
	f := newFilter(words...)

	out := f.Remove("It/PRP went/VBD to/TO the/DT theatre/NN of/IN Tokyo/NNP")
	for _, unit := range strings.Fields(out) {
		surface := tagged.Surface(unit)
		for _, w := range words {
			if strings.EqualFold(surface, w) {
				t.Errorf("stopword %q survived in %q", w, out)
			}
		}
	}
	if !strings.Contains(out, "theatre/NN") || !strings.Contains(out, "Tokyo/NNP") {
		t.Errorf("content tokens were removed: %q", out)
	}
}

func TestIsStop(t *testing.T) {
	f := newFilter("the")
	if !f.IsStop("The/DT") {
		t.Error("The/DT should be a stopword token")
	}
	if f.IsStop("there/EX") {
		t.Error("there/EX should not be a stopword token")
	}
}
