package domain

// FindNode returns the node with the given ID in a pre-order walk from root, or nil
func FindNode(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if found := FindNode(child, id); found != nil {
			return found
		}
	}
	return nil
}

// FindParent returns the parent of the node with the given ID.
// Returns nil for the root itself or an unknown ID.
func FindParent(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	for _, child := range root.Children {
		if child.ID == id {
			return root
		}
		if found := FindParent(child, id); found != nil {
			return found
		}
	}
	return nil
}

// ChildIndex returns the position of the child with the given ID, or -1
func (n *Node) ChildIndex(id string) int {
	for i, child := range n.Children {
		if child.ID == id {
			return i
		}
	}
	return -1
}

// FindNode looks up a node anywhere in the tree
func (t *Tree) FindNode(id string) *Node {
	return FindNode(t.RootNode, id)
}

// FindParent looks up the parent of a node anywhere in the tree
func (t *Tree) FindParent(id string) *Node {
	return FindParent(t.RootNode, id)
}

// AddNode appends node as the last child of parentID.
// An unknown parent, a nil node, or a node whose subtree reuses an ID
// already present in the tree leaves the tree unchanged.
func (t *Tree) AddNode(parentID string, node *Node) Status {
	if node == nil {
		return Rejected
	}
	parent := t.FindNode(parentID)
	if parent == nil {
		return NotFound
	}

	existing := collectIDs(t.RootNode, map[string]bool{})
	for _, n := range AllNodes(node) {
		if existing[n.Node.ID] {
			return Rejected
		}
		existing[n.Node.ID] = true
	}

	parent.Children = append(parent.Children, node)
	t.touch()
	return Applied
}

// DeleteNode removes the node and its subtree. The root is protected.
func (t *Tree) DeleteNode(id string) Status {
	if t.RootNode == nil || t.RootNode.ID == id {
		return Rejected
	}
	parent := t.FindParent(id)
	if parent == nil {
		return NotFound
	}
	idx := parent.ChildIndex(id)
	parent.Children = append(parent.Children[:idx:idx], parent.Children[idx+1:]...)
	t.touch()
	return Applied
}

// NodeUpdate carries the fields to merge into a node; nil fields are left as-is
type NodeUpdate struct {
	Title    *string
	Content  *string
	Examples *[]string
}

// UpdateNode merges the non-nil fields of u into the target node
func (t *Tree) UpdateNode(id string, u NodeUpdate) Status {
	node := t.FindNode(id)
	if node == nil {
		return NotFound
	}
	if u.Title != nil {
		node.Title = *u.Title
	}
	if u.Content != nil {
		node.Content = *u.Content
	}
	if u.Examples != nil {
		node.Examples = append([]string{}, (*u.Examples)...)
	}
	t.touch()
	return Applied
}

// MoveNode detaches a node and reinserts it under newParentID at index.
// A negative or out-of-range index appends. Moving the root, moving to an
// unknown parent, or moving a node into its own subtree is rejected.
func (t *Tree) MoveNode(id, newParentID string, index int) Status {
	if t.RootNode == nil {
		return NotFound
	}
	if t.RootNode.ID == id {
		return Rejected
	}
	node := t.FindNode(id)
	newParent := t.FindNode(newParentID)
	if node == nil || newParent == nil {
		return NotFound
	}
	// Cycle check before anything is detached
	if FindNode(node, newParentID) != nil {
		return Rejected
	}

	oldParent := t.FindParent(id)
	if oldParent == nil {
		return NotFound
	}
	idx := oldParent.ChildIndex(id)
	oldParent.Children = append(oldParent.Children[:idx:idx], oldParent.Children[idx+1:]...)

	if index < 0 || index > len(newParent.Children) {
		index = len(newParent.Children)
	}
	newParent.Children = insertAt(newParent.Children, index, node)
	t.touch()
	return Applied
}

// ReorderChildren moves the child at fromIndex to toIndex within the same
// parent, shifting siblings. toIndex is clamped to the child range.
func (t *Tree) ReorderChildren(parentID string, fromIndex, toIndex int) Status {
	parent := t.FindNode(parentID)
	if parent == nil {
		return NotFound
	}
	n := len(parent.Children)
	if fromIndex < 0 || fromIndex >= n {
		return Rejected
	}
	toIndex = max(0, min(toIndex, n-1))
	if fromIndex == toIndex {
		return Rejected
	}

	child := parent.Children[fromIndex]
	rest := append(parent.Children[:fromIndex:fromIndex], parent.Children[fromIndex+1:]...)
	parent.Children = insertAt(rest, toIndex, child)
	t.touch()
	return Applied
}

func insertAt(nodes []*Node, index int, node *Node) []*Node {
	out := make([]*Node, 0, len(nodes)+1)
	out = append(out, nodes[:index]...)
	out = append(out, node)
	return append(out, nodes[index:]...)
}

func collectIDs(n *Node, ids map[string]bool) map[string]bool {
	if n == nil {
		return ids
	}
	ids[n.ID] = true
	for _, child := range n.Children {
		collectIDs(child, ids)
	}
	return ids
}

// WellFormed reports whether t has a root, no nil nodes and unique ids.
// Trees read back from storage are checked before anything flattens them.
func (t *Tree) WellFormed() bool {
	if t == nil || t.RootNode == nil {
		return false
	}
	seen := map[string]bool{}
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == nil || seen[n.ID] {
			return false
		}
		seen[n.ID] = true
		for _, c := range n.Children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	return walk(t.RootNode)
}

// DuplicateIDs returns IDs that appear more than once in the subtree
func DuplicateIDs(root *Node) []string {
	seen := map[string]int{}
	var dups []string
	for _, fn := range AllNodes(root) {
		seen[fn.Node.ID]++
		if seen[fn.Node.ID] == 2 {
			dups = append(dups, fn.Node.ID)
		}
	}
	return dups
}
