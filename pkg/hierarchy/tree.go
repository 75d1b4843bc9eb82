package hierarchy

import "github.com/mholzen/treegrid/pkg/collections"

func FindByID(forest Forest, id string) *Node {
	for _, node := range forest {
		if node.ID == id {
			return node
		}
		if found := FindByID(node.children, id); found != nil {
			return found
		}
	}
	return nil
}

// FindByRoute follows a chain of ids from a root down to the addressed node.
func FindByRoute(forest Forest, route []string) *Node {
	if len(route) == 0 {
		return nil
	}
	level := []*Node(forest)
	var current *Node
	for _, id := range route {
		current = nil
		for _, node := range level {
			if node.ID == id {
				current = node
				break
			}
		}
		if current == nil {
			return nil
		}
		level = current.children
	}
	return current
}

// Flatten lists every reachable node in pre-order.
func Flatten(forest Forest) []*Node {
	var result []*Node
	for _, root := range forest {
		collections.TraversePre(root, func(node *Node, _ int) bool {
			result = append(result, node)
			return true
		})
	}
	return result
}

// Stats summarizes the shape of a forest.
type Stats struct {
	Roots    int `json:"roots"`
	Nodes    int `json:"nodes"`
	Groups   int `json:"groups"`
	Leaves   int `json:"leaves"`
	MaxDepth int `json:"max_depth"`
}

func CountStats(forest Forest) Stats {
	stats := Stats{Roots: len(forest)}
	for _, root := range forest {
		collections.TraversePost(root, func(node *Node, _ **Node, _ bool) bool {
			stats.Nodes++
			if len(node.children) > 0 {
				stats.Groups++
			} else {
				stats.Leaves++
			}
			return true
		})
		stats.MaxDepth = max(stats.MaxDepth, collections.Depth(root))
	}
	return stats
}
