package commands

import (
	"context"
	"fmt"

	"prompttree/internal/application"
	"prompttree/internal/domain"
)

// TreeResult contains the tree produced by a command
type TreeResult struct {
	Tree    *domain.Tree
	Message string
}

// CreateTreeCommand replaces the working tree with a new empty one
type CreateTreeCommand struct {
	session     *application.Session
	Title       string
	Description string
}

// NewCreateTreeCommand creates a new CreateTreeCommand
func NewCreateTreeCommand(session *application.Session, title, description string) *CreateTreeCommand {
	return &CreateTreeCommand{session: session, Title: title, Description: description}
}

// Validate checks if the create operation is valid
func (c *CreateTreeCommand) Validate() error {
	return application.ValidateRequired("title", c.Title)
}

// Execute runs the create command
func (c *CreateTreeCommand) Execute(ctx context.Context) (*TreeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	tree, err := c.session.Create(ctx, c.Title, c.Description)
	if err != nil {
		return nil, err
	}
	return &TreeResult{
		Tree:    tree,
		Message: fmt.Sprintf("Created tree %q", tree.Title),
	}, nil
}

// ImportCommand validates a JSON document and makes it the working tree
type ImportCommand struct {
	session *application.Session
	Data    []byte
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(session *application.Session, data []byte) *ImportCommand {
	return &ImportCommand{session: session, Data: data}
}

// Execute runs the import command
func (c *ImportCommand) Execute(ctx context.Context) (*TreeResult, error) {
	tree, err := c.session.Import(ctx, c.Data)
	if err != nil {
		return nil, err
	}
	return &TreeResult{
		Tree:    tree,
		Message: fmt.Sprintf("Imported %q (%d nodes)", tree.Title, domain.CountNodes(tree.RootNode)),
	}, nil
}

// UpdateMetadataCommand renames the tree and replaces its description
type UpdateMetadataCommand struct {
	session     *application.Session
	Title       string
	Description *string
}

// NewUpdateMetadataCommand creates a new UpdateMetadataCommand. A nil
// description keeps the current one.
func NewUpdateMetadataCommand(session *application.Session, title string, description *string) *UpdateMetadataCommand {
	return &UpdateMetadataCommand{session: session, Title: title, Description: description}
}

// Validate checks if the update is valid
func (c *UpdateMetadataCommand) Validate() error {
	return application.ValidateRequired("title", c.Title)
}

// Execute runs the update command
func (c *UpdateMetadataCommand) Execute(ctx context.Context) (*TreeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.session.HasTree() {
		return nil, application.ErrNoTree
	}

	description := c.session.Tree().Description
	if c.Description != nil {
		description = *c.Description
	}
	if _, err := c.session.UpdateMetadata(ctx, c.Title, description); err != nil {
		return nil, err
	}
	return &TreeResult{
		Tree:    c.session.Tree(),
		Message: fmt.Sprintf("Renamed tree to %q", c.Title),
	}, nil
}
