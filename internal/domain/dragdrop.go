package domain

// DropKind is how a drag gesture is resolved
type DropKind int

const (
	DropRejected DropKind = iota
	DropReorder
	DropMove
)

func (k DropKind) String() string {
	switch k {
	case DropReorder:
		return "reorder"
	case DropMove:
		return "move"
	default:
		return "rejected"
	}
}

// DropPlan is the mutation a drag gesture resolves to
type DropPlan struct {
	Kind     DropKind
	SourceID string
	// ParentID is the sibling list being reordered, or the new parent on a move
	ParentID  string
	FromIndex int
	// ToIndex is the target position in ParentID's children
	ToIndex int
}

// PlanDrop interprets dragging sourceID onto targetID.
//
// Siblings are reordered. Across parents the source becomes the first child
// of a target that has children, or the next sibling after a leaf target.
func PlanDrop(t *Tree, sourceID, targetID string) DropPlan {
	rejected := DropPlan{Kind: DropRejected, SourceID: sourceID}
	if t == nil || t.RootNode == nil || sourceID == targetID || sourceID == t.RootNode.ID {
		return rejected
	}
	target := t.FindNode(targetID)
	sourceParent := t.FindParent(sourceID)
	if target == nil || sourceParent == nil {
		return rejected
	}
	targetParent := t.FindParent(targetID)

	if targetParent != nil && targetParent.ID == sourceParent.ID {
		from := sourceParent.ChildIndex(sourceID)
		to := sourceParent.ChildIndex(targetID)
		if from < 0 || to < 0 || from == to {
			return rejected
		}
		return DropPlan{
			Kind:      DropReorder,
			SourceID:  sourceID,
			ParentID:  sourceParent.ID,
			FromIndex: from,
			ToIndex:   to,
		}
	}

	if !target.IsLeaf() {
		return DropPlan{Kind: DropMove, SourceID: sourceID, ParentID: target.ID, ToIndex: 0}
	}
	if targetParent == nil {
		return rejected
	}
	return DropPlan{
		Kind:     DropMove,
		SourceID: sourceID,
		ParentID: targetParent.ID,
		ToIndex:  targetParent.ChildIndex(targetID) + 1,
	}
}

// Drop resolves and applies a drag gesture. Moves are re-validated by
// MoveNode, so a drop into the source's own subtree is rejected.
func (t *Tree) Drop(sourceID, targetID string) (DropPlan, Status) {
	plan := PlanDrop(t, sourceID, targetID)
	switch plan.Kind {
	case DropReorder:
		return plan, t.ReorderChildren(plan.ParentID, plan.FromIndex, plan.ToIndex)
	case DropMove:
		return plan, t.MoveNode(plan.SourceID, plan.ParentID, plan.ToIndex)
	default:
		return plan, Rejected
	}
}
