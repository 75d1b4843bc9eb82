package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mholzen/treegrid/pkg/hierarchy"
	"github.com/mholzen/treegrid/pkg/source"
)

func sampleForest() hierarchy.Forest {
	return hierarchy.BuildHierarchy(source.Sample())
}

func TestSearchForest_IgnoreCase(t *testing.T) {
	results, err := SearchForest(sampleForest(), "rack", Options{IgnoreCase: true})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "rack-1", results[0].ID)
	assert.Equal(t, "**Rack** 1", results[0].HighlightedName)
	assert.Equal(t, []string{"site-north", "bldg-a", "room-101", "rack-1"}, results[0].Route)
	assert.Equal(t, "site-north/bldg-a/room-101/rack-1\t**Rack** 1", results[0].String())
	assert.Equal(t, "rack-2", results[1].ID)
}

func TestSearchForest_CaseSensitive(t *testing.T) {
	results, err := SearchForest(sampleForest(), "rack", Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchForest_SkipsOrphans(t *testing.T) {
	results, err := SearchForest(sampleForest(), "Switch", Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchForest_Regexp(t *testing.T) {
	results, err := SearchForest(sampleForest(), `^Building [AB]$`, Options{UseRegexp: true})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "bldg-a", results[0].ID)
	assert.Equal(t, "bldg-b", results[1].ID)
}

func TestSearchForest_Limit(t *testing.T) {
	results, err := SearchForest(sampleForest(), "o", Options{IgnoreCase: true, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchForest_Errors(t *testing.T) {
	_, err := SearchForest(sampleForest(), "", Options{})
	assert.Error(t, err)

	_, err = SearchForest(sampleForest(), "([", Options{UseRegexp: true})
	assert.Error(t, err)
}

func TestFindMatches(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		pattern    string
		useRegexp  bool
		ignoreCase bool
		want       []MatchPosition
	}{
		{name: "plain", text: "rack rack", pattern: "rack", want: []MatchPosition{{0, 4}, {5, 9}}},
		{name: "no match", text: "lobby", pattern: "rack"},
		{name: "ignore case", text: "Rack", pattern: "rACK", ignoreCase: true, want: []MatchPosition{{0, 4}}},
		{name: "regexp", text: "room-101", pattern: `\d+`, useRegexp: true, want: []MatchPosition{{5, 8}}},
		{name: "empty regexp matches skipped", text: "abc", pattern: `x*`, useRegexp: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindMatches(tt.text, tt.pattern, tt.useRegexp, tt.ignoreCase)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHighlightMatches(t *testing.T) {
	assert.Equal(t, "plain", HighlightMatches("plain", nil))
	assert.Equal(t, "**a**b**c**", HighlightMatches("abc", []MatchPosition{{0, 1}, {2, 3}}))
}
