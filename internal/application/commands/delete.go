package commands

import (
	"context"
	"fmt"

	"prompttree/internal/application"
	"prompttree/internal/domain"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedID string
	Removed   int
	Message   string
}

// DeleteCommand deletes a node and its subtree
type DeleteCommand struct {
	session *application.Session
	ID      string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(session *application.Session, id string) *DeleteCommand {
	return &DeleteCommand{
		session: session,
		ID:      id,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	return application.ValidateRequired("nodeID", c.ID)
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.session.HasTree() {
		return nil, application.ErrNoTree
	}

	tree := c.session.Tree()
	if tree.RootNode.ID == c.ID {
		return nil, &application.ValidationError{
			Field:   "nodeID",
			Message: "the root node cannot be deleted",
		}
	}

	removed := domain.CountNodes(tree.FindNode(c.ID))
	status, err := c.session.DeleteNode(ctx, c.ID)
	if serr := application.StatusError("delete", c.ID, status); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}

	return &DeleteResult{
		DeletedID: c.ID,
		Removed:   removed,
		Message:   fmt.Sprintf("Deleted %s (%d nodes)", c.ID, removed),
	}, nil
}
