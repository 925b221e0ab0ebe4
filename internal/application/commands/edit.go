package commands

import (
	"context"
	"fmt"
	"strings"

	"prompttree/internal/application"
	"prompttree/internal/domain"
)

// EditNodeResult contains the result of an edit
type EditNodeResult struct {
	Node    *domain.Node
	Message string
}

// EditNodeCommand applies a partial update to a node. Nil fields are left
// unchanged.
type EditNodeCommand struct {
	session  *application.Session
	NodeID   string
	Title    *string
	Content  *string
	Examples *[]string
}

// NewEditNodeCommand creates a new EditNodeCommand
func NewEditNodeCommand(session *application.Session, nodeID string) *EditNodeCommand {
	return &EditNodeCommand{session: session, NodeID: nodeID}
}

// Validate checks if the edit operation is valid
func (c *EditNodeCommand) Validate() error {
	if err := application.ValidateRequired("nodeID", c.NodeID); err != nil {
		return err
	}
	if c.Title == nil && c.Content == nil && c.Examples == nil {
		return &application.ValidationError{
			Field:   "update",
			Message: "nothing to change: set a title, content or examples",
		}
	}
	if c.Title != nil && strings.TrimSpace(*c.Title) == "" {
		return &application.ValidationError{
			Field:   "title",
			Message: "title cannot be blank",
		}
	}
	return nil
}

// Execute runs the edit command
func (c *EditNodeCommand) Execute(ctx context.Context) (*EditNodeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.session.HasTree() {
		return nil, application.ErrNoTree
	}

	status, err := c.session.UpdateNode(ctx, c.NodeID, domain.NodeUpdate{
		Title:    c.Title,
		Content:  c.Content,
		Examples: c.Examples,
	})
	if serr := application.StatusError("edit", c.NodeID, status); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}

	node := c.session.Tree().FindNode(c.NodeID)
	return &EditNodeResult{
		Node:    node,
		Message: fmt.Sprintf("Updated %s %s", node.ID, node.Title),
	}, nil
}
