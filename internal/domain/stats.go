package domain

import "strings"

// FlatNode is a node annotated with its distance from the flattening root
type FlatNode struct {
	Node  *Node
	Level int
}

// AllNodes flattens the subtree in pre-order with level annotations
func AllNodes(root *Node) []FlatNode {
	if root == nil {
		return nil
	}
	var result []FlatNode
	flatten(root, 0, &result, nil)
	return result
}

// flatten walks in pre-order; when expanded is non-nil, children are only
// visited for nodes whose ID is in the set.
func flatten(n *Node, level int, result *[]FlatNode, expanded map[string]bool) {
	*result = append(*result, FlatNode{Node: n, Level: level})
	if expanded != nil && !expanded[n.ID] {
		return
	}
	for _, child := range n.Children {
		flatten(child, level+1, result, expanded)
	}
}

// CountNodes returns the number of nodes in the subtree including root
func CountNodes(root *Node) int {
	if root == nil {
		return 0
	}
	count := 1
	for _, child := range root.Children {
		count += CountNodes(child)
	}
	return count
}

// CountNodesWithContent counts nodes whose trimmed content is non-empty
func CountNodesWithContent(root *Node) int {
	if root == nil {
		return 0
	}
	count := 0
	if strings.TrimSpace(root.Content) != "" {
		count = 1
	}
	for _, child := range root.Children {
		count += CountNodesWithContent(child)
	}
	return count
}

// TreeDepth returns the edge count from root to its deepest leaf
func TreeDepth(root *Node) int {
	if root == nil {
		return 0
	}
	depth := 0
	for _, child := range root.Children {
		depth = max(depth, TreeDepth(child)+1)
	}
	return depth
}

// Stats summarizes a tree for display
type Stats struct {
	Nodes            int
	NodesWithContent int
	Depth            int
}

// TreeStats computes the summary counters for a tree
func TreeStats(t *Tree) Stats {
	if t == nil {
		return Stats{}
	}
	return Stats{
		Nodes:            CountNodes(t.RootNode),
		NodesWithContent: CountNodesWithContent(t.RootNode),
		Depth:            TreeDepth(t.RootNode),
	}
}

// AsciiTree renders the subtree with box-drawing connectors:
//
//	R
//	├── A
//	└── B
//	    └── C
func AsciiTree(root *Node) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(root.Title)
	b.WriteString("\n")
	writeAsciiChildren(&b, root, "")
	return b.String()
}

func writeAsciiChildren(b *strings.Builder, n *Node, prefix string) {
	for i, child := range n.Children {
		last := i == len(n.Children)-1
		connector, extension := "├── ", "│   "
		if last {
			connector, extension = "└── ", "    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(child.Title)
		b.WriteString("\n")
		writeAsciiChildren(b, child, prefix+extension)
	}
}
