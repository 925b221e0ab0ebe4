// Package templates provides the built-in catalog of prompt tree outlines.
package templates

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"prompttree/internal/domain"
	"prompttree/internal/ports"
)

// BlankTemplate is the empty starter outline
const BlankTemplate = "Blank"

//go:embed catalog.yaml
var catalogYAML []byte

type outline struct {
	Title    string    `yaml:"title"`
	Content  string    `yaml:"content"`
	Examples []string  `yaml:"examples"`
	Children []outline `yaml:"children"`
}

type entry struct {
	Name            string    `yaml:"name"`
	Icon            string    `yaml:"icon"`
	Category        string    `yaml:"category"`
	Description     string    `yaml:"description"`
	TreeTitle       string    `yaml:"tree_title"`
	TreeDescription string    `yaml:"tree_description"`
	Nodes           []outline `yaml:"nodes"`
}

// Category groups template names for display
type Category struct {
	Name      string   `yaml:"name"`
	Templates []string `yaml:"templates"`
}

type document struct {
	Categories []Category `yaml:"categories"`
	Templates  []entry    `yaml:"templates"`
}

// Catalog is an immutable set of templates keyed by name
type Catalog struct {
	categories []Category
	names      []string
	entries    map[string]entry
}

var _ ports.TemplateCatalog = (*Catalog)(nil)

// Load parses the embedded catalog
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// MustLoad is Load for callers that treat a broken embedded catalog as fatal
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template catalog: %w", err)
	}

	c := &Catalog{
		categories: doc.Categories,
		entries:    make(map[string]entry, len(doc.Templates)),
	}
	for _, e := range doc.Templates {
		if e.Name == "" {
			return nil, fmt.Errorf("template catalog: entry without a name")
		}
		if _, dup := c.entries[e.Name]; dup {
			return nil, fmt.Errorf("template catalog: duplicate template %q", e.Name)
		}
		c.entries[e.Name] = e
		c.names = append(c.names, e.Name)
	}
	for _, cat := range doc.Categories {
		for _, name := range cat.Templates {
			if _, ok := c.entries[name]; !ok {
				return nil, fmt.Errorf("template catalog: category %s lists unknown template %q", cat.Name, name)
			}
		}
	}
	return c, nil
}

// Names returns template names in catalog order
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Categories returns the category groupings in display order
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Info returns the display metadata for a template
func (c *Catalog) Info(name string) (ports.TemplateInfo, bool) {
	e, ok := c.entries[name]
	if !ok {
		return ports.TemplateInfo{}, false
	}
	return ports.TemplateInfo{
		Name:        e.Name,
		Icon:        e.Icon,
		Category:    e.Category,
		Description: e.Description,
	}, true
}

// Create instantiates a template. Every call yields fresh IDs and timestamps.
func (c *Catalog) Create(name string) (*domain.Tree, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	t := domain.NewTree(e.TreeTitle, e.TreeDescription)
	for _, o := range e.Nodes {
		t.RootNode.Children = append(t.RootNode.Children, build(o))
	}
	return t, nil
}

func build(o outline) *domain.Node {
	n := domain.NewNode(o.Title, o.Content, o.Examples...)
	for _, child := range o.Children {
		n.Children = append(n.Children, build(child))
	}
	return n
}
