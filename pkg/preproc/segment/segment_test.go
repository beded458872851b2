package segment

import (
	"strings"
	"testing"

	"github.com/cognicore/preproc/pkg/preproc/lexres"
)

func newSegmenter() *Segmenter {
	return New(lexres.New(
		[]string{"etc.", "e.g.", "approx."},
		[]string{"Dr.", "Mr."},
		nil,
	))
}

func TestSeparate(t *testing.T) {
	s := newSegmenter()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"sentence final period",
			"He/PRP left/VBD ./. She/PRP arrived/VBD ./.",
			"He/PRP left/VBD ./. \nShe/PRP arrived/VBD ./.",
		},
		{
			"proper-noun abbreviation never splits",
			"He/PRP left/VBD ./. Dr./NNP Smith/NNP arrived/VBD ./.",
			"He/PRP left/VBD ./. \nDr./NNP Smith/NNP arrived/VBD ./.",
		},
		{
			"non-proper abbreviation before uppercase",
			"apples/NNS etc./FW Then/RB we/PRP",
			"apples/NNS etc./FW \nThen/RB we/PRP",
		},
		{
			"non-proper abbreviation before lowercase",
			"apples/NNS etc./FW and/CC pears/NNS",
			"apples/NNS etc./FW and/CC pears/NNS",
		},
		{
			"period followed by quote",
			`He/PRP said/VBD ./. "/'' Then/RB`,
			"He/PRP said/VBD ./. \"/'' \nThen/RB",
		},
		{
			"period ends a token",
			"see/VB .../: more/JJR",
			"see/VB .../: \nmore/JJR",
		},
		{
			"exclamation before uppercase",
			"Wow/UH !/. She/PRP came/VBD",
			"Wow/UH !/.\n She/PRP came/VBD",
		},
		{
			"exclamation before lowercase",
			"wow/UH !!/. she/PRP came/VBD",
			"wow/UH !!/. she/PRP came/VBD",
		},
		{
			"question with quote",
			`really/RB ?/. "/'' He/PRP`,
			"really/RB ?/. \"/''\n He/PRP",
		},
		{
			"no trailing whitespace at end",
			"done/VBN ./.",
			"done/VBN ./.",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Separate(tt.in); got != tt.want {
				t.Errorf("Separate(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProperNounAbbreviationBeforeName(t *testing.T) {
	s := newSegmenter()
	out := s.Separate("I/PRP met/VBD Mr./NNP Jones/NNP today/NN ./. It/PRP rained/VBD")

	sentences := strings.Split(out, Boundary)
	if len(sentences) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %q", len(sentences), out)
	}
	if !strings.Contains(sentences[0], "Mr./NNP Jones/NNP") {
		t.Errorf("abbreviation was split from the name: %q", sentences[0])
	}
}

func TestAbbreviationWithoutProperNounListEndsSentence(t *testing.T) {
	s := New(lexres.New(nil, nil, nil))
	got := s.Separate("Dr./NNP Smith/NNP")
	if got != "Dr./NNP \nSmith/NNP" {
		t.Errorf("got %q", got)
	}
}

func TestUntaggedTextUnchanged(t *testing.T) {
	s := newSegmenter()
	in := "He left . She arrived ."
	if got := s.Separate(in); got != in {
		t.Errorf("untagged text should pass through, got %q", got)
	}
}
