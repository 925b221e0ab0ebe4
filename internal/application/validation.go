package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"prompttree/internal/domain"
)

var validate = validator.New()

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "parentID" -> "parent ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"nodeID":    "node ID",
		"parentID":  "parent ID",
		"sourceID":  "source ID",
		"targetID":  "target ID",
		"versionID": "version ID",
		"title":     "title",
		"query":     "query",
		"template":  "template",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateIndex checks that an index is not negative
func ValidateIndex(fieldName string, index int) error {
	if index < 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not be negative, got %d", fieldName, index),
		}
	}
	return nil
}

// ParseTree decodes and validates an imported tree document. A tree is
// accepted when it decodes, carries a root node whose children are a
// sequence, every node has an id, and ids are unique.
func ParseTree(raw []byte) (*domain.Tree, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &ImportError{Reason: "empty document"}
	}

	var tree domain.Tree
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, &ImportError{Reason: "malformed JSON", Err: err}
	}

	if ierr := checkTree(&tree); ierr != nil {
		return nil, ierr
	}
	if err := requireChildren(raw); err != nil {
		return nil, err
	}

	normalize(tree.RootNode)
	if tree.Version == "" {
		tree.Version = domain.DefaultTreeVersion
	}
	return &tree, nil
}

// checkTree applies the structural rules shared by imports and stored
// blobs: validator tags (root present, node ids set, no null children)
// then unique ids.
func checkTree(t *domain.Tree) *ImportError {
	if err := validate.Struct(t); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &ImportError{Reason: describeFieldError(fieldErrs[0])}
		}
		return &ImportError{Reason: "validation failed", Err: err}
	}
	if dups := domain.DuplicateIDs(t.RootNode); len(dups) > 0 {
		return &ImportError{Reason: fmt.Sprintf("duplicate node ids: %s", strings.Join(dups, ", "))}
	}
	return nil
}

// requireChildren rejects documents whose root node lacks a children array.
// Decoding into the typed tree cannot tell a missing list from an empty one.
func requireChildren(raw []byte) error {
	var probe struct {
		RootNode struct {
			Children json.RawMessage `json:"children"`
		} `json:"root_node"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return &ImportError{Reason: "malformed JSON", Err: err}
	}
	children := bytes.TrimSpace(probe.RootNode.Children)
	if len(children) == 0 || children[0] != '[' {
		return &ImportError{Reason: "root_node.children must be a list"}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Tree.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	default:
		return fmt.Sprintf("%s failed %s check", field, fe.Tag())
	}
}

// normalize replaces nil slices so every node carries examples and children
func normalize(n *domain.Node) {
	if n == nil {
		return
	}
	if n.Examples == nil {
		n.Examples = []string{}
	}
	if n.Children == nil {
		n.Children = []*domain.Node{}
	}
	for _, c := range n.Children {
		normalize(c)
	}
}
