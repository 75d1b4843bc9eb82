package hierarchy

import (
	tp "github.com/xlab/treeprint"
)

// Render draws the forest as an indented tree, one node per line.
func Render(forest Forest) string {
	p := tp.New()
	for _, root := range forest {
		renderNode(p, root)
	}
	return p.String()
}

func renderNode(p tp.Tree, node *Node) {
	if len(node.children) == 0 {
		p.AddNode(node.String())
		return
	}
	branch := p.AddBranch(node.String())
	for _, child := range node.children {
		renderNode(branch, child)
	}
}
