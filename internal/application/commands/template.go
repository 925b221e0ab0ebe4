package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"prompttree/internal/application"
	"prompttree/internal/ports"
)

// UseTemplateCommand replaces the working tree with a fresh copy of a
// catalog template
type UseTemplateCommand struct {
	session *application.Session
	catalog ports.TemplateCatalog
	Name    string
}

// NewUseTemplateCommand creates a new UseTemplateCommand
func NewUseTemplateCommand(session *application.Session, catalog ports.TemplateCatalog, name string) *UseTemplateCommand {
	return &UseTemplateCommand{session: session, catalog: catalog, Name: name}
}

// Validate checks if the template name is usable
func (c *UseTemplateCommand) Validate() error {
	return application.ValidateRequired("template", c.Name)
}

// Execute runs the template command. The name may be abbreviated as long as
// it matches one template better than any other.
func (c *UseTemplateCommand) Execute(ctx context.Context) (*TreeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	name, err := ResolveTemplate(c.catalog, c.Name)
	if err != nil {
		return nil, err
	}

	tree, err := c.catalog.Create(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create template %s: %w", name, err)
	}
	if err := c.session.LoadTree(ctx, tree); err != nil {
		return nil, err
	}

	return &TreeResult{
		Tree:    tree,
		Message: fmt.Sprintf("Created %q from template", tree.Title),
	}, nil
}

// TemplateMatch is a catalog name scored against a query
type TemplateMatch struct {
	Name  string
	Score int
}

// ResolveTemplate maps a possibly abbreviated query to a template name
func ResolveTemplate(catalog ports.TemplateCatalog, query string) (string, error) {
	matches := RankTemplates(catalog.Names(), query)
	if len(matches) == 0 {
		return "", fmt.Errorf("template %q: %w", query, application.ErrNotFound)
	}
	if len(matches) > 1 && matches[0].Score == matches[1].Score {
		return "", &application.ValidationError{
			Field:   "template",
			Message: fmt.Sprintf("%q is ambiguous: %s or %s", query, matches[0].Name, matches[1].Name),
		}
	}
	return matches[0].Name, nil
}

// RankTemplates scores names against query, best first, dropping non-matches
func RankTemplates(names []string, query string) []TemplateMatch {
	var matches []TemplateMatch
	for _, name := range names {
		if strings.EqualFold(name, query) {
			return []TemplateMatch{{Name: name, Score: 1000}}
		}
		if score := FuzzyScore(name, query); score > 0 {
			matches = append(matches, TemplateMatch{Name: name, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Exact substring match ranks highest
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Otherwise every query char must appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && (target[i-1] == ' ' || target[i-1] == '-' || target[i-1] == '_') {
				score += 10 // word boundary
			}
			score++
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}
