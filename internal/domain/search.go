package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// SnippetContext is the number of characters kept on each side of a content match
const SnippetContext = 50

// SearchScope restricts which node fields a query is matched against
type SearchScope int

const (
	ScopeAll SearchScope = iota
	ScopeTitles
	ScopeContent
)

func (s SearchScope) String() string {
	switch s {
	case ScopeTitles:
		return "titles"
	case ScopeContent:
		return "content"
	default:
		return "all"
	}
}

// Next cycles all -> titles -> content -> all
func (s SearchScope) Next() SearchScope {
	return (s + 1) % 3
}

// ParseSearchScope converts "all", "titles" or "content" to a SearchScope
func ParseSearchScope(s string) (SearchScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ScopeAll, nil
	case "titles", "title":
		return ScopeTitles, nil
	case "content":
		return ScopeContent, nil
	default:
		return ScopeAll, fmt.Errorf("unknown search scope %q (expected all, titles or content)", s)
	}
}

// MatchType tells where a search hit was found
type MatchType string

const (
	MatchTitle   MatchType = "title"
	MatchContent MatchType = "content"
)

// Span is a half-open rune range [Start, End) inside a string
type Span struct {
	Start int
	End   int
}

// SearchMatch is a single hit of a tree search
type SearchMatch struct {
	Node      *Node
	Level     int
	MatchType MatchType
	// Snippet is a window around the first content occurrence, empty when
	// the content does not contain the query.
	Snippet string
}

// Search scans the flattened tree for case-insensitive substring matches.
// An empty or whitespace-only query yields no results.
func Search(t *Tree, query string, scope SearchScope) []SearchMatch {
	if t == nil || strings.TrimSpace(query) == "" {
		return nil
	}

	var matches []SearchMatch
	for _, fn := range AllNodes(t.RootNode) {
		titleHit := foldIndex(fn.Node.Title, query) >= 0
		contentHit := foldIndex(fn.Node.Content, query) >= 0

		var keep bool
		switch scope {
		case ScopeTitles:
			keep = titleHit
		case ScopeContent:
			keep = contentHit
		default:
			keep = titleHit || contentHit
		}
		if !keep {
			continue
		}

		m := SearchMatch{
			Node:      fn.Node,
			Level:     fn.Level,
			MatchType: MatchContent,
			Snippet:   Snippet(fn.Node.Content, query, SnippetContext),
		}
		if titleHit {
			m.MatchType = MatchTitle
		}
		matches = append(matches, m)
	}
	return matches
}

// Snippet extracts up to contextLen characters on each side of the first
// case-insensitive occurrence of query, with "..." marking truncated ends.
// Returns "" when there is no occurrence.
func Snippet(content, query string, contextLen int) string {
	runes := []rune(content)
	idx := foldIndex(content, query)
	if idx < 0 {
		return ""
	}
	start := max(0, idx-contextLen)
	end := min(len(runes), idx+len([]rune(query))+contextLen)

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet += "..."
	}
	return snippet
}

// HighlightSpans returns every non-overlapping case-insensitive occurrence of
// query in text, as rune spans.
func HighlightSpans(text, query string) []Span {
	q := []rune(query)
	if len(q) == 0 {
		return nil
	}
	r := []rune(text)
	var spans []Span
	for i := 0; i+len(q) <= len(r); {
		if runesFoldEqual(r[i:i+len(q)], q) {
			spans = append(spans, Span{Start: i, End: i + len(q)})
			i += len(q)
			continue
		}
		i++
	}
	return spans
}

// foldIndex returns the rune index of the first case-insensitive occurrence
// of substr in s, or -1.
func foldIndex(s, substr string) int {
	q := []rune(substr)
	if len(q) == 0 {
		return -1
	}
	r := []rune(s)
	for i := 0; i+len(q) <= len(r); i++ {
		if runesFoldEqual(r[i:i+len(q)], q) {
			return i
		}
	}
	return -1
}

func runesFoldEqual(a, b []rune) bool {
	for i := range a {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

// SearchSession holds the state of an interactive search overlay
type SearchSession struct {
	query   string
	scope   SearchScope
	results []SearchMatch
	cursor  int
}

// NewSearchSession creates an empty search session
func NewSearchSession() *SearchSession {
	return &SearchSession{}
}

// Run re-executes the search against t with the given query and scope,
// resetting the cursor to the first result.
func (s *SearchSession) Run(t *Tree, query string, scope SearchScope) {
	s.query = query
	s.scope = scope
	s.results = Search(t, query, scope)
	s.cursor = 0
}

// Query returns the current query
func (s *SearchSession) Query() string { return s.query }

// Scope returns the current scope filter
func (s *SearchSession) Scope() SearchScope { return s.scope }

// Results returns the current matches
func (s *SearchSession) Results() []SearchMatch { return s.results }

// Cursor returns the index of the highlighted result
func (s *SearchSession) Cursor() int { return s.cursor }

// Up moves the cursor up, clamped at the first result
func (s *SearchSession) Up() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// Down moves the cursor down, clamped at the last result
func (s *SearchSession) Down() {
	if s.cursor < len(s.results)-1 {
		s.cursor++
	}
}

// Commit returns the node ID under the cursor
func (s *SearchSession) Commit() (string, bool) {
	if s.cursor < 0 || s.cursor >= len(s.results) {
		return "", false
	}
	return s.results[s.cursor].Node.ID, true
}

// Highlighted returns the set of matched node IDs
func (s *SearchSession) Highlighted() map[string]bool {
	if len(s.results) == 0 {
		return nil
	}
	ids := make(map[string]bool, len(s.results))
	for _, m := range s.results {
		ids[m.Node.ID] = true
	}
	return ids
}

// Reset clears query, results and highlights
func (s *SearchSession) Reset() {
	s.query = ""
	s.results = nil
	s.cursor = 0
}
