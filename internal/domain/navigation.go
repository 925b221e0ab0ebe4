package domain

// RequestKind identifies what the UI should open a form for
type RequestKind int

const (
	RequestEdit RequestKind = iota + 1
	RequestAddChild
)

// Request asks the surrounding UI to focus a form on a node
type Request struct {
	Kind   RequestKind
	NodeID string
}

// Navigator tracks selection and expansion for one tree instance and
// resolves directional moves over the visible node list.
type Navigator struct {
	tree     *Tree
	selected string
	expanded map[string]bool
}

// NewNavigator creates navigation state for t with all branches expanded
// and the root selected.
func NewNavigator(t *Tree) *Navigator {
	nav := &Navigator{}
	nav.Reset(t)
	return nav
}

// Reset binds the navigator to t, expands every branching node and
// selects the root.
func (n *Navigator) Reset(t *Tree) {
	n.tree = t
	n.expanded = map[string]bool{}
	n.selected = ""
	if t == nil || t.RootNode == nil {
		return
	}
	n.ExpandAll()
	n.selected = t.RootNode.ID
}

// Sync re-derives state after a mutation. A different tree instance resets
// the navigator; otherwise expansion entries and the selection that no
// longer resolve are dropped.
func (n *Navigator) Sync(t *Tree) {
	if t != n.tree {
		n.Reset(t)
		return
	}
	if t == nil || t.RootNode == nil {
		return
	}
	for id := range n.expanded {
		if FindNode(t.RootNode, id) == nil {
			delete(n.expanded, id)
		}
	}
	if n.selected == "" || FindNode(t.RootNode, n.selected) == nil {
		n.selected = t.RootNode.ID
	}
}

// Tree returns the tree the navigator is bound to
func (n *Navigator) Tree() *Tree {
	return n.tree
}

// Selected returns the selected node ID, or "" when nothing is selected
func (n *Navigator) Selected() string {
	return n.selected
}

// SelectedNode resolves the selected node in the bound tree
func (n *Navigator) SelectedNode() *Node {
	if n.tree == nil {
		return nil
	}
	return FindNode(n.tree.RootNode, n.selected)
}

// Select selects a node by ID; unknown IDs are ignored
func (n *Navigator) Select(id string) bool {
	if n.tree == nil || FindNode(n.tree.RootNode, id) == nil {
		return false
	}
	n.selected = id
	return true
}

// Reveal expands every ancestor of id so it appears in the visible list,
// then selects it.
func (n *Navigator) Reveal(id string) bool {
	if n.tree == nil || FindNode(n.tree.RootNode, id) == nil {
		return false
	}
	for p := FindParent(n.tree.RootNode, id); p != nil; p = FindParent(n.tree.RootNode, p.ID) {
		n.expanded[p.ID] = true
	}
	n.selected = id
	return true
}

// IsExpanded reports whether a node currently shows its children
func (n *Navigator) IsExpanded(id string) bool {
	return n.expanded[id]
}

// Toggle flips the expansion of a branching node
func (n *Navigator) Toggle(id string) {
	node := n.find(id)
	if node == nil || node.IsLeaf() {
		return
	}
	n.expanded[id] = !n.expanded[id]
	if !n.expanded[id] {
		delete(n.expanded, id)
	}
}

// Expand marks a branching node as expanded
func (n *Navigator) Expand(id string) {
	if node := n.find(id); node != nil && !node.IsLeaf() {
		n.expanded[id] = true
	}
}

// ExpandAll expands every node that has at least one child
func (n *Navigator) ExpandAll() {
	if n.tree == nil {
		return
	}
	for _, fn := range AllNodes(n.tree.RootNode) {
		if !fn.Node.IsLeaf() {
			n.expanded[fn.Node.ID] = true
		}
	}
}

// Visible returns the pre-order flattening restricted to expanded branches
func (n *Navigator) Visible() []FlatNode {
	if n.tree == nil || n.tree.RootNode == nil {
		return nil
	}
	var result []FlatNode
	flatten(n.tree.RootNode, 0, &result, n.expanded)
	return result
}

// selectedIndex returns the selection's position in the visible list, or -1
func (n *Navigator) selectedIndex(visible []FlatNode) int {
	for i, fn := range visible {
		if fn.Node.ID == n.selected {
			return i
		}
	}
	return -1
}

// Up selects the previous visible entry
func (n *Navigator) Up() {
	visible := n.Visible()
	if i := n.selectedIndex(visible); i > 0 {
		n.selected = visible[i-1].Node.ID
	}
}

// Down selects the next visible entry
func (n *Navigator) Down() {
	visible := n.Visible()
	if i := n.selectedIndex(visible); i >= 0 && i < len(visible)-1 {
		n.selected = visible[i+1].Node.ID
	}
}

// First selects the first visible entry
func (n *Navigator) First() {
	if visible := n.Visible(); len(visible) > 0 {
		n.selected = visible[0].Node.ID
	}
}

// Last selects the last visible entry
func (n *Navigator) Last() {
	if visible := n.Visible(); len(visible) > 0 {
		n.selected = visible[len(visible)-1].Node.ID
	}
}

// Left collapses an expanded branch, otherwise selects the parent
func (n *Navigator) Left() {
	visible := n.Visible()
	i := n.selectedIndex(visible)
	if i < 0 {
		return
	}
	node := visible[i].Node
	if !node.IsLeaf() && n.expanded[node.ID] {
		delete(n.expanded, node.ID)
		return
	}
	if parent := FindParent(n.tree.RootNode, node.ID); parent != nil {
		n.selected = parent.ID
	}
}

// Right expands a collapsed branch, otherwise selects its first child
func (n *Navigator) Right() {
	visible := n.Visible()
	i := n.selectedIndex(visible)
	if i < 0 {
		return
	}
	node := visible[i].Node
	if node.IsLeaf() {
		return
	}
	if !n.expanded[node.ID] {
		n.expanded[node.ID] = true
		return
	}
	n.selected = node.Children[0].ID
}

// DeleteSelected removes the selected node from the tree and moves the
// selection to the entry before it in the visible list, or after it when it
// was first, or to the root when nothing else is visible.
func (n *Navigator) DeleteSelected() Status {
	if n.tree == nil {
		return NotFound
	}
	visible := n.Visible()
	i := n.selectedIndex(visible)
	if i < 0 {
		return NotFound
	}
	deleted := visible[i].Node

	var next string
	if i > 0 {
		next = visible[i-1].Node.ID
	} else {
		// Skip the deleted subtree when looking forward
		for _, fn := range visible[i+1:] {
			if FindNode(deleted, fn.Node.ID) == nil {
				next = fn.Node.ID
				break
			}
		}
	}

	status := n.tree.DeleteNode(deleted.ID)
	if !status.OK() {
		return status
	}
	n.Sync(n.tree)
	if next == "" || FindNode(n.tree.RootNode, next) == nil {
		next = n.tree.RootNode.ID
	}
	n.selected = next
	return status
}

// RequestEdit asks the UI to open the edit form on the selected node
func (n *Navigator) RequestEdit() (Request, bool) {
	if n.SelectedNode() == nil {
		return Request{}, false
	}
	return Request{Kind: RequestEdit, NodeID: n.selected}, true
}

// RequestAddChild asks the UI to open the add form under the selected node
func (n *Navigator) RequestAddChild() (Request, bool) {
	if n.SelectedNode() == nil {
		return Request{}, false
	}
	return Request{Kind: RequestAddChild, NodeID: n.selected}, true
}

func (n *Navigator) find(id string) *Node {
	if n.tree == nil {
		return nil
	}
	return FindNode(n.tree.RootNode, id)
}
