package commands

import (
	"context"
	"strings"

	"prompttree/internal/application"
	"prompttree/internal/domain"
)

// SearchCommand searches node titles and content
type SearchCommand struct {
	session *application.Session
	Query   string
	Scope   domain.SearchScope
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(session *application.Session, query string, scope domain.SearchScope) *SearchCommand {
	return &SearchCommand{
		session: session,
		Query:   query,
		Scope:   scope,
	}
}

// Execute runs the search command and returns matches in tree order.
// A blank query returns no results.
func (c *SearchCommand) Execute(ctx context.Context) ([]domain.SearchMatch, error) {
	if strings.TrimSpace(c.Query) == "" {
		return nil, nil
	}
	if !c.session.HasTree() {
		return nil, application.ErrNoTree
	}
	return c.session.Search(c.Query, c.Scope), nil
}
