package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	// RootTitle is the reserved title of a tree's synthetic root node
	RootTitle = "Root"

	// DefaultTreeVersion is stamped on new trees and never incremented by edits
	DefaultTreeVersion = "1.0.0"
)

// Node is a titled, content-bearing element with ordered children
type Node struct {
	ID       string   `json:"id" yaml:"id" validate:"required"`
	Title    string   `json:"title" yaml:"title"`
	Content  string   `json:"content" yaml:"content"`
	Examples []string `json:"examples" yaml:"examples"`
	Children []*Node  `json:"children" yaml:"children" validate:"dive,required"`
}

// Metadata holds tree timestamps and free-form tags
type Metadata struct {
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Tags      []string  `json:"tags" yaml:"tags"`
}

// Tree is the top-level document: metadata plus one root node
type Tree struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Version     string   `json:"version" yaml:"version"`
	Metadata    Metadata `json:"metadata" yaml:"metadata"`
	RootNode    *Node    `json:"root_node" yaml:"root_node" validate:"required"`
}

// now is the clock used for timestamps
var now = func() time.Time {
	return time.Now().UTC()
}

// NewID returns a short opaque identifier (first 8 hex chars of a v4 UUID)
func NewID() string {
	return uuid.NewString()[:8]
}

// NewNode creates a leaf node with a fresh ID
func NewNode(title, content string, examples ...string) *Node {
	if examples == nil {
		examples = []string{}
	}
	return &Node{
		ID:       NewID(),
		Title:    title,
		Content:  content,
		Examples: examples,
		Children: []*Node{},
	}
}

// NewTree creates an empty tree with a root node titled "Root"
func NewTree(title, description string) *Tree {
	ts := now()
	return &Tree{
		ID:          NewID(),
		Title:       title,
		Description: description,
		Version:     DefaultTreeVersion,
		Metadata: Metadata{
			CreatedAt: ts,
			UpdatedAt: ts,
			Tags:      []string{},
		},
		RootNode: NewNode(RootTitle, ""),
	}
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Clone returns a deep copy of the node and its subtree
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		ID:       n.ID,
		Title:    n.Title,
		Content:  n.Content,
		Examples: append([]string{}, n.Examples...),
		Children: make([]*Node, len(n.Children)),
	}
	for i, child := range n.Children {
		c.Children[i] = child.Clone()
	}
	return c
}

// MarshalJSON encodes nil slices as empty arrays so serialized trees always
// carry "examples" and "children" sequences.
func (n *Node) MarshalJSON() ([]byte, error) {
	type plain Node
	p := plain(*n)
	if p.Examples == nil {
		p.Examples = []string{}
	}
	if p.Children == nil {
		p.Children = []*Node{}
	}
	return json.Marshal(p)
}

// Clone returns a fully independent deep copy of the tree
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	c := *t
	c.Metadata.Tags = append([]string{}, t.Metadata.Tags...)
	c.RootNode = t.RootNode.Clone()
	return &c
}

// MarshalJSON keeps the tags list non-null
func (t *Tree) MarshalJSON() ([]byte, error) {
	type plain Tree
	p := plain(*t)
	if p.Metadata.Tags == nil {
		p.Metadata.Tags = []string{}
	}
	return json.Marshal(p)
}

// touch refreshes the updated_at timestamp
func (t *Tree) touch() {
	t.Metadata.UpdatedAt = now()
}

// UpdateMetadata replaces the tree title and description
func (t *Tree) UpdateMetadata(title, description string) Status {
	t.Title = title
	t.Description = description
	t.touch()
	return Applied
}

// Status reports the outcome of a mutating primitive
type Status int

const (
	// Applied means the tree was changed
	Applied Status = iota + 1
	// NotFound means a referenced node or version does not exist; nothing changed
	NotFound
	// Rejected means the change would break a structural invariant; nothing changed
	Rejected
)

// OK reports whether the mutation was applied
func (s Status) OK() bool {
	return s == Applied
}

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case NotFound:
		return "not found"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}
