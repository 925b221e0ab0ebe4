package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"prompttree/internal/application"
	"prompttree/internal/domain"
)

// ResolveVersion maps a version reference to a version ID. A reference is a
// full ID, a unique ID prefix, or a 1-based position in the newest-first
// list ("1" is the newest).
func ResolveVersion(session *application.Session, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if err := application.ValidateRequired("versionID", ref); err != nil {
		return "", err
	}
	list := session.Versions().List()

	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil && len(ref) < 4 {
		if n < 1 || n > len(list) {
			return "", fmt.Errorf("version #%d: %w", n, application.ErrNotFound)
		}
		return list[n-1].ID, nil
	}

	var found []string
	for _, v := range list {
		if v.ID == ref {
			return v.ID, nil
		}
		if strings.HasPrefix(v.ID, ref) {
			found = append(found, v.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("version %s: %w", ref, application.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return "", &application.ValidationError{
			Field:   "versionID",
			Message: fmt.Sprintf("version prefix %q matches %d versions", ref, len(found)),
		}
	}
}

// VersionResult contains the version affected by a command
type VersionResult struct {
	Version domain.VersionSummary
	Message string
}

// SaveVersionCommand captures the working tree
type SaveVersionCommand struct {
	session *application.Session
	Label   string
}

// NewSaveVersionCommand creates a new SaveVersionCommand
func NewSaveVersionCommand(session *application.Session, label string) *SaveVersionCommand {
	return &SaveVersionCommand{session: session, Label: label}
}

// Execute runs the save command
func (c *SaveVersionCommand) Execute(ctx context.Context) (*VersionResult, error) {
	v, err := c.session.SaveVersion(ctx, strings.TrimSpace(c.Label))
	if v == nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return &VersionResult{
		Version: v.Summary(),
		Message: fmt.Sprintf("Saved %q (%d nodes)", v.Label, v.NodeCount),
	}, nil
}

// RestoreVersionCommand replaces the working tree with a snapshot
type RestoreVersionCommand struct {
	session *application.Session
	Ref     string
}

// NewRestoreVersionCommand creates a new RestoreVersionCommand
func NewRestoreVersionCommand(session *application.Session, ref string) *RestoreVersionCommand {
	return &RestoreVersionCommand{session: session, Ref: ref}
}

// Execute runs the restore command
func (c *RestoreVersionCommand) Execute(ctx context.Context) (*VersionResult, error) {
	id, err := ResolveVersion(c.session, c.Ref)
	if err != nil {
		return nil, err
	}
	v, _ := c.session.Versions().Get(id)

	status, err := c.session.RestoreVersion(ctx, id)
	if serr := application.StatusError("restore version", id, status); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}
	return &VersionResult{
		Version: v.Summary(),
		Message: fmt.Sprintf("Restored %q", v.Label),
	}, nil
}

// RenameVersionCommand relabels a version
type RenameVersionCommand struct {
	session *application.Session
	Ref     string
	Label   string
}

// NewRenameVersionCommand creates a new RenameVersionCommand
func NewRenameVersionCommand(session *application.Session, ref, label string) *RenameVersionCommand {
	return &RenameVersionCommand{session: session, Ref: ref, Label: label}
}

// Validate checks if the rename is valid
func (c *RenameVersionCommand) Validate() error {
	return application.ValidateRequired("label", c.Label)
}

// Execute runs the rename command
func (c *RenameVersionCommand) Execute(ctx context.Context) (*VersionResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	id, err := ResolveVersion(c.session, c.Ref)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(c.Label)
	status, err := c.session.RenameVersion(ctx, id, label)
	if serr := application.StatusError("rename version", id, status); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}
	v, _ := c.session.Versions().Get(id)
	return &VersionResult{
		Version: v.Summary(),
		Message: fmt.Sprintf("Renamed version to %q", label),
	}, nil
}

// DeleteVersionCommand removes a version
type DeleteVersionCommand struct {
	session *application.Session
	Ref     string
}

// NewDeleteVersionCommand creates a new DeleteVersionCommand
func NewDeleteVersionCommand(session *application.Session, ref string) *DeleteVersionCommand {
	return &DeleteVersionCommand{session: session, Ref: ref}
}

// Execute runs the delete command
func (c *DeleteVersionCommand) Execute(ctx context.Context) (*VersionResult, error) {
	id, err := ResolveVersion(c.session, c.Ref)
	if err != nil {
		return nil, err
	}
	v, _ := c.session.Versions().Get(id)

	status, err := c.session.DeleteVersion(ctx, id)
	if serr := application.StatusError("delete version", id, status); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}
	return &VersionResult{
		Version: v.Summary(),
		Message: fmt.Sprintf("Deleted version %q", v.Label),
	}, nil
}

// CompareVersionsCommand compares two versions by node count
type CompareVersionsCommand struct {
	session *application.Session
	RefA    string
	RefB    string
}

// NewCompareVersionsCommand creates a new CompareVersionsCommand
func NewCompareVersionsCommand(session *application.Session, refA, refB string) *CompareVersionsCommand {
	return &CompareVersionsCommand{session: session, RefA: refA, RefB: refB}
}

// Execute runs the compare command
func (c *CompareVersionsCommand) Execute(ctx context.Context) (*domain.Comparison, error) {
	a, err := ResolveVersion(c.session, c.RefA)
	if err != nil {
		return nil, err
	}
	b, err := ResolveVersion(c.session, c.RefB)
	if err != nil {
		return nil, err
	}
	cmp, ok := c.session.CompareVersions(a, b)
	if !ok {
		return nil, fmt.Errorf("compare %s %s: %w", a, b, application.ErrNotFound)
	}
	return &cmp, nil
}
