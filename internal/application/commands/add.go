package commands

import (
	"context"
	"fmt"

	"prompttree/internal/application"
	"prompttree/internal/domain"
)

// AddNodeResult contains the result of adding a node
type AddNodeResult struct {
	Node    *domain.Node
	Message string
}

// AddNodeCommand appends a new node under a parent
type AddNodeCommand struct {
	session  *application.Session
	ParentID string
	Title    string
	Content  string
	Examples []string
}

// NewAddNodeCommand creates a new AddNodeCommand
func NewAddNodeCommand(session *application.Session, parentID, title, content string, examples []string) *AddNodeCommand {
	return &AddNodeCommand{
		session:  session,
		ParentID: parentID,
		Title:    title,
		Content:  content,
		Examples: examples,
	}
}

// Validate checks if the add operation is valid
func (c *AddNodeCommand) Validate() error {
	if err := application.ValidateRequired("parentID", c.ParentID); err != nil {
		return err
	}
	return application.ValidateRequired("title", c.Title)
}

// Execute runs the add command
func (c *AddNodeCommand) Execute(ctx context.Context) (*AddNodeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.session.HasTree() {
		return nil, application.ErrNoTree
	}

	node := domain.NewNode(c.Title, c.Content, c.Examples...)
	status, err := c.session.AddNode(ctx, c.ParentID, node)
	if serr := application.StatusError("add under", c.ParentID, status); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}

	return &AddNodeResult{
		Node:    node,
		Message: fmt.Sprintf("Added %s %s", node.ID, node.Title),
	}, nil
}
