// Package hierarchy rebuilds a tree from flat records whose path lists the ids
// of their ancestors, ending with their own id.
package hierarchy

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/mholzen/treegrid/pkg/collections"
)

// Record is a flat input row. Path holds the ancestor ids, root first, and
// ends with the record's own id.
type Record struct {
	ID   string   `json:"id"`
	Path []string `json:"data_path"`
	Name string   `json:"name"`
}

// ParentID returns the second-to-last path element, or false for roots and
// records without a path.
func (r Record) ParentID() (string, bool) {
	if len(r.Path) < 2 {
		return "", false
	}
	return r.Path[len(r.Path)-2], true
}

// IsRoot reports whether the record sits at the top level.
func (r Record) IsRoot() bool {
	return len(r.Path) == 1
}

// Node is a Record placed in a Forest. Children are not serialized: a node
// sent to the grid carries only its record fields and HasChildren.
type Node struct {
	Record
	HasChildren bool `json:"hasChildren"`

	children  []*Node
	delivered bool
}

// Forest is the ordered list of root nodes.
type Forest []*Node

// BuildHierarchy links records into a forest in two passes over the input.
// Records whose parent id is unknown are orphans and are left out.
func BuildHierarchy(records []Record) Forest {
	nodes := make(map[string]*Node, len(records))

	for _, record := range records {
		if _, exists := nodes[record.ID]; exists {
			slog.Debug("duplicate record id, keeping first", "id", record.ID)
			continue
		}
		node := &Node{Record: record}
		node.Path = slices.Clone(record.Path)
		nodes[record.ID] = node
	}

	forest := Forest{}
	placed := make(map[*Node]bool, len(records))

	for _, record := range records {
		node := nodes[record.ID]
		if placed[node] {
			continue
		}
		placed[node] = true

		if record.IsRoot() {
			forest = append(forest, node)
			continue
		}

		parentID, ok := record.ParentID()
		if !ok {
			slog.Debug("record without path, dropping", "id", record.ID)
			continue
		}
		parent, exists := nodes[parentID]
		if !exists {
			slog.Debug("parent not found, dropping orphan", "id", record.ID, "parent_id", parentID)
			continue
		}
		parent.children = append(parent.children, node)
		parent.HasChildren = true
	}

	return forest
}

// ChildNodes returns the node's children, or nil once they were detached.
func (n *Node) ChildNodes() []*Node {
	return n.children
}

// DetachChildren moves the children out of the node and marks it delivered.
// Later calls return nil. HasChildren is left untouched so the grid still
// shows the node as a group.
func (n *Node) DetachChildren() []*Node {
	children := n.children
	n.children = nil
	n.delivered = true
	return children
}

// Delivered reports whether DetachChildren has been called.
func (n *Node) Delivered() bool {
	return n.delivered
}

// Node implements collections.TreeProvider
func (n *Node) Node() *Node {
	return n
}

// Children implements collections.TreeProvider
func (n *Node) Children() iter.Seq[collections.TreeProvider[*Node]] {
	return iter.Seq[collections.TreeProvider[*Node]](func(yield func(collections.TreeProvider[*Node]) bool) {
		for _, child := range n.children {
			if !yield(child) {
				break
			}
		}
	})
}

func (n *Node) String() string {
	return n.Name + " [" + n.ID + "]"
}
