package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mholzen/treegrid/pkg/collections"
	"github.com/mholzen/treegrid/pkg/grid"
	"github.com/mholzen/treegrid/pkg/hierarchy"
)

// Result is a node whose name matched. Route is the chain of ids a grid has
// to expand to reach it.
type Result struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	HighlightedName string          `json:"highlighted_name"`
	Route           []string        `json:"route"`
	MatchPositions  []MatchPosition `json:"match_positions"`
}

func (r Result) String() string {
	return fmt.Sprintf("%s\t%s", grid.DataPathFormatter(r.Route), r.HighlightedName)
}

type MatchPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type Options struct {
	UseRegexp  bool
	IgnoreCase bool
	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// SearchForest walks the forest in pre-order and returns the nodes whose
// name matches pattern.
func SearchForest(forest hierarchy.Forest, pattern string, opts Options) ([]Result, error) {
	if pattern == "" {
		return nil, fmt.Errorf("pattern cannot be empty")
	}
	if opts.UseRegexp {
		if _, err := CompileRegexp(pattern, opts.IgnoreCase); err != nil {
			return nil, fmt.Errorf("cannot compile pattern: %w", err)
		}
	}

	var results []Result
	full := func() bool {
		return opts.Limit > 0 && len(results) >= opts.Limit
	}

	for _, root := range forest {
		if full() {
			break
		}
		collections.TraversePre(root, func(node *hierarchy.Node, _ int) bool {
			if full() {
				return false
			}
			positions := FindMatches(node.Name, pattern, opts.UseRegexp, opts.IgnoreCase)
			if len(positions) > 0 {
				results = append(results, Result{
					ID:              node.ID,
					Name:            node.Name,
					HighlightedName: HighlightMatches(node.Name, positions),
					Route:           append([]string(nil), node.Path...),
					MatchPositions:  positions,
				})
			}
			return true
		})
	}

	return results, nil
}

func FindMatches(text, pattern string, useRegexp, ignoreCase bool) []MatchPosition {
	var positions []MatchPosition

	if useRegexp {
		re, err := CompileRegexp(pattern, ignoreCase)
		if err != nil {
			return positions
		}

		for _, match := range re.FindAllStringIndex(text, -1) {
			if match[0] == match[1] {
				continue
			}
			positions = append(positions, MatchPosition{Start: match[0], End: match[1]})
		}
		return positions
	}

	if pattern == "" {
		return positions
	}

	searchText := text
	searchPattern := pattern
	if ignoreCase {
		searchText = strings.ToLower(text)
		searchPattern = strings.ToLower(pattern)
		// Lowercasing can change byte lengths outside ASCII.
		if len(searchText) != len(text) {
			return FindMatches(text, regexp.QuoteMeta(pattern), true, true)
		}
	}

	start := 0
	for {
		index := strings.Index(searchText[start:], searchPattern)
		if index == -1 {
			break
		}
		absIndex := start + index
		positions = append(positions, MatchPosition{
			Start: absIndex,
			End:   absIndex + len(searchPattern),
		})
		start = absIndex + len(searchPattern)
	}

	return positions
}

func CompileRegexp(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// HighlightMatches wraps each match in ** markers.
func HighlightMatches(text string, positions []MatchPosition) string {
	if len(positions) == 0 {
		return text
	}

	var result strings.Builder
	lastEnd := 0

	for _, pos := range positions {
		result.WriteString(text[lastEnd:pos.Start])
		result.WriteString("**")
		result.WriteString(text[pos.Start:pos.End])
		result.WriteString("**")
		lastEnd = pos.End
	}

	result.WriteString(text[lastEnd:])
	return result.String()
}
