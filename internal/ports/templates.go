package ports

import "prompttree/internal/domain"

// TemplateInfo describes a catalog entry
type TemplateInfo struct {
	Name        string
	Icon        string
	Category    string
	Description string
}

// TemplateCatalog creates trees from predefined outlines
type TemplateCatalog interface {
	Names() []string
	Info(name string) (TemplateInfo, bool)
	// Create returns a fresh tree with new IDs and timestamps
	Create(name string) (*domain.Tree, error)
}
