package commands

import (
	"context"
	"fmt"

	"prompttree/internal/application"
	"prompttree/internal/domain"
)

// MoveResult contains the result of moving a node
type MoveResult struct {
	NodeID   string
	ParentID string
	Message  string
}

// MoveNodeCommand re-parents a node
type MoveNodeCommand struct {
	session  *application.Session
	SourceID string
	DestID   string
	// Index is the position among the destination's children; negative appends
	Index int
}

// NewMoveNodeCommand creates a new MoveNodeCommand
func NewMoveNodeCommand(session *application.Session, sourceID, destID string, index int) *MoveNodeCommand {
	return &MoveNodeCommand{
		session:  session,
		SourceID: sourceID,
		DestID:   destID,
		Index:    index,
	}
}

// Validate checks if the move operation is valid
func (c *MoveNodeCommand) Validate() error {
	if err := application.ValidateRequired("sourceID", c.SourceID); err != nil {
		return err
	}
	return application.ValidateRequired("targetID", c.DestID)
}

// Execute runs the move command
func (c *MoveNodeCommand) Execute(ctx context.Context) (*MoveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.session.HasTree() {
		return nil, application.ErrNoTree
	}
	if err := ValidateMoveDestination(c.session.Tree(), c.SourceID, c.DestID); err != nil {
		return nil, err
	}

	status, err := c.session.MoveNode(ctx, c.SourceID, c.DestID, c.Index)
	if serr := application.StatusError("move", c.SourceID, status); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}

	return &MoveResult{
		NodeID:   c.SourceID,
		ParentID: c.DestID,
		Message:  fmt.Sprintf("Moved %s under %s", c.SourceID, c.DestID),
	}, nil
}

// ValidateMoveDestination checks if a move is structurally valid without
// executing it
func ValidateMoveDestination(tree *domain.Tree, sourceID, destID string) error {
	moveErr := func(reason string) error {
		return &application.MoveError{SourceID: sourceID, DestID: destID, Reason: reason}
	}

	source := tree.FindNode(sourceID)
	switch {
	case source == nil:
		return fmt.Errorf("node %s: %w", sourceID, application.ErrNotFound)
	case tree.FindNode(destID) == nil:
		return fmt.Errorf("node %s: %w", destID, application.ErrNotFound)
	case sourceID == tree.RootNode.ID:
		return moveErr("the root node cannot be moved")
	case sourceID == destID:
		return moveErr("a node cannot become its own parent")
	case domain.FindNode(source, destID) != nil:
		return moveErr("destination is inside the node being moved")
	}
	return nil
}

// ReorderResult contains the result of reordering siblings
type ReorderResult struct {
	ParentID string
	Order    []string
	Message  string
}

// ReorderCommand moves a child within its parent's child list
type ReorderCommand struct {
	session  *application.Session
	ParentID string
	From     int
	To       int
}

// NewReorderCommand creates a new ReorderCommand
func NewReorderCommand(session *application.Session, parentID string, from, to int) *ReorderCommand {
	return &ReorderCommand{
		session:  session,
		ParentID: parentID,
		From:     from,
		To:       to,
	}
}

// Validate checks if the reorder operation is valid
func (c *ReorderCommand) Validate() error {
	if err := application.ValidateRequired("parentID", c.ParentID); err != nil {
		return err
	}
	if err := application.ValidateIndex("from", c.From); err != nil {
		return err
	}
	return application.ValidateIndex("to", c.To)
}

// Execute runs the reorder command
func (c *ReorderCommand) Execute(ctx context.Context) (*ReorderResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.session.HasTree() {
		return nil, application.ErrNoTree
	}

	status, err := c.session.ReorderChildren(ctx, c.ParentID, c.From, c.To)
	if serr := application.StatusError("reorder children of", c.ParentID, status); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}

	parent := c.session.Tree().FindNode(c.ParentID)
	order := make([]string, len(parent.Children))
	for i, child := range parent.Children {
		order[i] = child.Title
	}
	return &ReorderResult{
		ParentID: c.ParentID,
		Order:    order,
		Message:  fmt.Sprintf("Moved child %d to position %d", c.From, min(c.To, len(order)-1)),
	}, nil
}

// DropCommand resolves and applies a drag of one node onto another
type DropCommand struct {
	session  *application.Session
	SourceID string
	TargetID string
}

// NewDropCommand creates a new DropCommand
func NewDropCommand(session *application.Session, sourceID, targetID string) *DropCommand {
	return &DropCommand{session: session, SourceID: sourceID, TargetID: targetID}
}

// Validate checks if the drop operation is valid
func (c *DropCommand) Validate() error {
	if err := application.ValidateRequired("sourceID", c.SourceID); err != nil {
		return err
	}
	return application.ValidateRequired("targetID", c.TargetID)
}

// Execute runs the drop command
func (c *DropCommand) Execute(ctx context.Context) (*domain.DropPlan, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.session.HasTree() {
		return nil, application.ErrNoTree
	}

	plan, status, err := c.session.Drop(ctx, c.SourceID, c.TargetID)
	if !status.OK() {
		return nil, &application.MoveError{
			SourceID: c.SourceID,
			DestID:   c.TargetID,
			Reason:   fmt.Sprintf("drop %s", status),
		}
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
