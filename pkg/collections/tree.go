package collections

import (
	"iter"
)

type TreeProvider[T any] interface {
	Node() T
	Children() iter.Seq[TreeProvider[T]]
}

// TraversePre visits every node before its children, in child order.
// Returning false from visit skips the subtree below that node.
func TraversePre[T TreeProvider[T]](root T, visit func(node T, depth int) bool) {
	traversePre(root, 0, visit)
}

func traversePre[T TreeProvider[T]](node T, depth int, visit func(T, int) bool) {
	if !visit(node, depth) {
		return
	}
	for child := range node.Children() {
		traversePre(child.Node(), depth+1, visit)
	}
}

// TraversePost visits every node after its children. The callback receives
// the parent (nil for the root) and whether the node is its parent's last
// child. Returning false stops the walk, and TraversePost reports whether it
// ran to completion.
func TraversePost[T TreeProvider[T]](node T, visit func(node T, parent *T, last bool) bool) bool {
	return traversePost(node, nil, true, visit)
}

func traversePost[T TreeProvider[T]](node T, parent *T, last bool, visit func(T, *T, bool) bool) bool {
	var children []T
	for child := range node.Children() {
		children = append(children, child.Node())
	}

	for i, child := range children {
		if !traversePost(child, &node, i == len(children)-1, visit) {
			return false
		}
	}
	return visit(node, parent, last)
}

// Depth returns the number of levels in the tree rooted at node.
func Depth[T TreeProvider[T]](node T) int {
	deepest := 0
	TraversePre(node, func(_ T, depth int) bool {
		if depth+1 > deepest {
			deepest = depth + 1
		}
		return true
	})
	return deepest
}
