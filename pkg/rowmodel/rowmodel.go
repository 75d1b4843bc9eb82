// Package rowmodel serves a forest to a tree-data grid through the grid's
// server-side row protocol: root pages are answered on request, and every
// group's children are pushed eagerly right after the first root page.
package rowmodel

import (
	"context"
	"errors"

	"github.com/mholzen/treegrid/pkg/hierarchy"
)

// ErrUnsupportedRequest is reported for any request below the root level.
// Children are pushed eagerly, so on-demand fetches are refused.
var ErrUnsupportedRequest = errors.New("group requests are not supported: children are pushed after the root page")

// Request asks for the rows in [StartIndex, EndIndex) under GroupPath.
// An empty GroupPath addresses the root level.
type Request struct {
	GroupPath  []string `json:"groupKeys"`
	StartIndex int      `json:"startRow"`
	EndIndex   int      `json:"endRow"`
}

func (r Request) IsRoot() bool {
	return len(r.GroupPath) == 0
}

// Result is a page of rows plus the size of the full level.
type Result struct {
	Rows       []*hierarchy.Node `json:"rowData"`
	TotalCount int               `json:"rowCount"`
}

// Sink receives the outcome of a GetRows call. Exactly one of Success or Fail
// is called per request; PushChildren may follow a Success.
type Sink interface {
	Success(result Result)
	Fail(err error)
	PushChildren(route []string, result Result)
}

// Source supplies the full ordered record list.
type Source interface {
	Records(ctx context.Context) ([]hierarchy.Record, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]hierarchy.Record, error)

func (f SourceFunc) Records(ctx context.Context) ([]hierarchy.Record, error) {
	return f(ctx)
}

// StaticSource serves a fixed record list.
type StaticSource []hierarchy.Record

func (s StaticSource) Records(_ context.Context) ([]hierarchy.Record, error) {
	return s, nil
}

// IsGroupNode reports whether the grid should render the node as expandable.
func IsGroupNode(node *hierarchy.Node) bool {
	return node != nil && node.HasChildren
}

// GroupKey is the key the grid uses to address a group in later requests.
func GroupKey(node *hierarchy.Node) string {
	return node.ID
}

// DataPath returns the path the grid uses to place the row in the tree.
func DataPath(node *hierarchy.Node) []string {
	return node.Path
}

// PageBounds clamps [start, end) to a sequence of length n. The result is
// always a valid slice range, possibly empty.
func PageBounds(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return start, end
}
