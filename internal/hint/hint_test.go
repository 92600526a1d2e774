package hint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

var names = []string{"calc", "config", "greet", "hello", "help", "hi"}

type labels []string

func (l labels) Labels() []string { return l }

func TestDidYouMean(t *testing.T) {
	tests := []struct {
		name  string
		token string
		limit int
		want  []string
	}{
		{name: "dropped letter", token: "helo", limit: 2, want: []string{"hello", "help"}},
		{name: "ignores case", token: "HELO", limit: 2, want: []string{"hello", "help"}},
		{name: "missing vowel", token: "cnfig", limit: 0, want: []string{"config"}},
		{name: "exact name excluded", token: "hello", limit: 1, want: []string{"help"}},
		{name: "shared prefix breaks distance ties", token: "helo", limit: 3, want: []string{"hello", "help", "hi"}},
		{name: "nothing close", token: "zzzzzz", limit: 3, want: nil},
		{name: "blank token", token: "  ", limit: 3, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DidYouMean(tt.token, names, tt.limit)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("DidYouMean(%q) mismatch (-want +got):\n%s", tt.token, diff)
			}
		})
	}
}

func TestDidYouMeanDeduplicatesCase(t *testing.T) {
	got := DidYouMean("greeet", []string{"greet", "GREET"}, 0)
	assert.Equal(t, []string{"greet"}, got)
}

func TestDidYouMeanNoCandidates(t *testing.T) {
	assert.Empty(t, DidYouMean("x", nil, 0))
}

func TestFor(t *testing.T) {
	assert.Equal(t, []string{"config"}, For(labels(names), "confg", 1))
}

func TestMessage(t *testing.T) {
	tests := []struct {
		matches []string
		want    string
	}{
		{matches: nil, want: `unknown command "helo"`},
		{matches: []string{"hello"}, want: `unknown command "helo"; did you mean "hello"?`},
		{matches: []string{"hello", "help"}, want: `unknown command "helo"; did you mean "hello" or "help"?`},
		{matches: []string{"hello", "help", "hi"}, want: `unknown command "helo"; did you mean "hello", "help" or "hi"?`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Message("helo", tt.matches))
	}
}
