package application

import "prompttree/internal/domain"

// Storage keys. PendingKey holds the mutation count toward the next
// periodic auto-save so it survives process restarts.
const (
	TreeKey     = "prompt-factory-tree"
	VersionsKey = "prompt-factory-versions"
	PendingKey  = "prompttree-autosave"
)

// Re-export domain types for use by adapters
type (
	Tree           = domain.Tree
	Node           = domain.Node
	FlatNode       = domain.FlatNode
	Status         = domain.Status
	Stats          = domain.Stats
	Version        = domain.Version
	VersionSummary = domain.VersionSummary
	Comparison     = domain.Comparison
	SearchMatch    = domain.SearchMatch
	SearchScope    = domain.SearchScope
	DropPlan       = domain.DropPlan
)

// Re-export search scopes
const (
	ScopeAll     = domain.ScopeAll
	ScopeTitles  = domain.ScopeTitles
	ScopeContent = domain.ScopeContent
)

// ParseSearchScope converts a scope name into a SearchScope
func ParseSearchScope(s string) (SearchScope, error) {
	return domain.ParseSearchScope(s)
}
