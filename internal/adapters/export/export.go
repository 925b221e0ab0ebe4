package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"prompttree/internal/domain"
)

// Format selects an export rendering
type Format string

const (
	Markdown Format = "markdown"
	JSON     Format = "json"
	ASCII    Format = "ascii"
)

// Formats lists the supported formats in menu order
var Formats = []Format{Markdown, JSON, ASCII}

// ParseFormat accepts a format name or common alias
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	case "ascii", "txt", "tree":
		return ASCII, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected markdown, json or ascii)", s)
	}
}

// Extension returns the file extension for f, including the dot
func (f Format) Extension() string {
	switch f {
	case JSON:
		return ".json"
	case ASCII:
		return ".txt"
	default:
		return ".md"
	}
}

// Render produces the export of t in format f
func Render(t *domain.Tree, f Format) (string, error) {
	if t == nil {
		return "", fmt.Errorf("nothing to export: no tree")
	}
	switch f {
	case Markdown:
		return ToMarkdown(t), nil
	case JSON:
		return ToJSON(t)
	case ASCII:
		return domain.AsciiTree(t.RootNode), nil
	default:
		return "", fmt.Errorf("unknown export format %q", f)
	}
}

// ToMarkdown renders the tree as a document: the tree title as an H1, the
// description and root content as paragraphs, then each non-root node as a
// heading one level deeper than its depth, capped at H6.
func ToMarkdown(t *domain.Tree) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	if d := strings.TrimSpace(t.Description); d != "" {
		b.WriteString(d)
		b.WriteString("\n\n")
	}
	if t.RootNode == nil {
		return b.String()
	}
	if c := strings.TrimSpace(t.RootNode.Content); c != "" {
		b.WriteString(c)
		b.WriteString("\n\n")
	}

	for _, fn := range domain.AllNodes(t.RootNode)[1:] {
		level := min(fn.Level+1, 6)
		fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", level), fn.Node.Title)

		if c := strings.TrimSpace(fn.Node.Content); c != "" {
			b.WriteString(c)
			b.WriteString("\n\n")
		}
		if len(fn.Node.Examples) > 0 {
			b.WriteString("**Examples:**\n\n")
			for _, ex := range fn.Node.Examples {
				fmt.Fprintf(&b, "- %s\n", ex)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// ToJSON serializes the tree with two-space indentation
func ToJSON(t *domain.Tree) (string, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tree: %w", err)
	}
	return string(data) + "\n", nil
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename derives the download name: the lowercased title with whitespace
// runs replaced by "-", plus the format's extension
func Filename(t *domain.Tree, f Format) string {
	title := "prompt-tree"
	if t != nil && strings.TrimSpace(t.Title) != "" {
		title = t.Title
	}
	name := whitespace.ReplaceAllString(strings.ToLower(title), "-")
	return name + f.Extension()
}
