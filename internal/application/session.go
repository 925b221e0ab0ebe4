package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"prompttree/internal/domain"
)

// SessionOptions tunes a Session
type SessionOptions struct {
	// MaxVersions bounds the version log; non-positive uses domain.MaxVersions
	MaxVersions int
	// AutoSaveEvery is the number of applied mutations between auto-save
	// attempts; zero disables periodic auto-save
	AutoSaveEvery int
	Logger        *zap.Logger
}

// Session owns the working tree, its navigation state and version log, and
// persists every applied change through a Repository.
//
// Mutations return the primitive's Status plus any persistence error. A
// persistence error never rolls back the in-memory change.
type Session struct {
	repo     *Repository
	tree     *domain.Tree
	nav      *domain.Navigator
	versions *domain.VersionStore
	log      *zap.Logger

	maxVersions   int
	autoSaveEvery int
	pending       int
}

// NewSession creates an empty session. Call Load to read persisted state.
func NewSession(repo *Repository, opts SessionOptions) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		repo:          repo,
		nav:           domain.NewNavigator(nil),
		versions:      domain.NewVersionStore(opts.MaxVersions, nil),
		log:           log,
		maxVersions:   opts.MaxVersions,
		autoSaveEvery: opts.AutoSaveEvery,
	}
}

// Load reads the tree and version list from the repository. Corrupt blobs
// are logged and treated as absent.
func (s *Session) Load(ctx context.Context) error {
	tree, err := s.repo.LoadTree(ctx)
	if err != nil && !errors.Is(err, ErrCorruptData) {
		return fmt.Errorf("failed to load tree: %w", err)
	}
	if err != nil {
		s.log.Warn("ignoring stored tree", zap.Error(err))
	}

	versions, err := s.repo.LoadVersions(ctx)
	if err != nil && !errors.Is(err, ErrCorruptData) {
		return fmt.Errorf("failed to load versions: %w", err)
	}
	if err != nil {
		s.log.Warn("ignoring stored versions", zap.Error(err))
	}

	pending := 0
	if tree != nil {
		if pending, err = s.repo.LoadPending(ctx, tree.ID); err != nil {
			s.log.Warn("ignoring stored auto-save counter", zap.Error(err))
			pending = 0
		}
	}

	s.tree = tree
	s.versions = domain.NewVersionStore(s.maxVersions, versions)
	s.nav.Reset(tree)
	s.pending = pending

	s.log.Debug("session loaded",
		zap.Bool("has_tree", tree != nil),
		zap.Int("pending", pending),
		zap.Int("versions", s.versions.Len()),
	)
	return nil
}

// Tree returns the working tree, or nil when none exists
func (s *Session) Tree() *domain.Tree {
	return s.tree
}

// HasTree reports whether a working tree exists
func (s *Session) HasTree() bool {
	return s.tree != nil
}

// Navigator returns the selection and expansion state
func (s *Session) Navigator() *domain.Navigator {
	return s.nav
}

// Versions returns the version log
func (s *Session) Versions() *domain.VersionStore {
	return s.versions
}

// Create replaces the working tree with a new empty tree
func (s *Session) Create(ctx context.Context, title, description string) (*domain.Tree, error) {
	t := domain.NewTree(title, description)
	return t, s.LoadTree(ctx, t)
}

// LoadTree replaces the working tree and resets navigation
func (s *Session) LoadTree(ctx context.Context, t *domain.Tree) error {
	s.tree = t
	s.nav.Reset(t)
	s.pending = 0
	s.log.Debug("tree replaced", zap.String("tree_id", t.ID), zap.String("title", t.Title))
	return s.persistTree(ctx)
}

// Clear drops the working tree and its stored blob. Versions are kept.
func (s *Session) Clear(ctx context.Context) error {
	s.tree = nil
	s.nav.Reset(nil)
	s.pending = 0
	if err := s.repo.ClearTree(ctx); err != nil {
		s.log.Warn("failed to clear stored tree", zap.Error(err))
		return fmt.Errorf("failed to clear tree: %w", err)
	}
	s.log.Debug("tree cleared")
	return nil
}

// ClearAll drops the working tree and the version log in one write
func (s *Session) ClearAll(ctx context.Context) error {
	s.tree = nil
	s.nav.Reset(nil)
	s.pending = 0
	s.versions.Clear()
	s.log.Debug("tree and versions cleared")
	return s.Flush(ctx)
}

// AddNode appends n under parentID and expands the parent
func (s *Session) AddNode(ctx context.Context, parentID string, n *domain.Node) (domain.Status, error) {
	if s.tree == nil {
		return domain.NotFound, nil
	}
	id := ""
	if n != nil {
		id = n.ID
	}
	status := s.tree.AddNode(parentID, n)
	if status.OK() {
		s.nav.Expand(parentID)
	}
	return s.apply(ctx, "add_node", id, status)
}

// DeleteNode removes a node and its subtree. A selection inside the removed
// subtree moves to the root.
func (s *Session) DeleteNode(ctx context.Context, id string) (domain.Status, error) {
	if s.tree == nil {
		return domain.NotFound, nil
	}
	return s.apply(ctx, "delete_node", id, s.tree.DeleteNode(id))
}

// UpdateNode applies a partial update to a node
func (s *Session) UpdateNode(ctx context.Context, id string, u domain.NodeUpdate) (domain.Status, error) {
	if s.tree == nil {
		return domain.NotFound, nil
	}
	return s.apply(ctx, "update_node", id, s.tree.UpdateNode(id, u))
}

// MoveNode re-parents a node at index; out-of-range indexes append
func (s *Session) MoveNode(ctx context.Context, id, newParentID string, index int) (domain.Status, error) {
	if s.tree == nil {
		return domain.NotFound, nil
	}
	status := s.tree.MoveNode(id, newParentID, index)
	if status.OK() {
		s.nav.Expand(newParentID)
	}
	return s.apply(ctx, "move_node", id, status)
}

// ReorderChildren moves a child of parentID from one index to another
func (s *Session) ReorderChildren(ctx context.Context, parentID string, from, to int) (domain.Status, error) {
	if s.tree == nil {
		return domain.NotFound, nil
	}
	return s.apply(ctx, "reorder_children", parentID, s.tree.ReorderChildren(parentID, from, to))
}

// Drop resolves and applies a drag of sourceID onto targetID
func (s *Session) Drop(ctx context.Context, sourceID, targetID string) (domain.DropPlan, domain.Status, error) {
	if s.tree == nil {
		return domain.DropPlan{Kind: domain.DropRejected, SourceID: sourceID}, domain.NotFound, nil
	}
	plan, status := s.tree.Drop(sourceID, targetID)
	if status.OK() {
		s.nav.Reveal(sourceID)
	}
	_, err := s.apply(ctx, "drop_"+plan.Kind.String(), sourceID, status)
	return plan, status, err
}

// UpdateMetadata replaces the tree title and description
func (s *Session) UpdateMetadata(ctx context.Context, title, description string) (domain.Status, error) {
	if s.tree == nil {
		return domain.NotFound, nil
	}
	return s.apply(ctx, "update_metadata", s.tree.ID, s.tree.UpdateMetadata(title, description))
}

// DeleteSelected removes the selected node and moves the selection to the
// neighbouring visible entry
func (s *Session) DeleteSelected(ctx context.Context) (domain.Status, error) {
	if s.tree == nil {
		return domain.NotFound, nil
	}
	id := s.nav.Selected()
	return s.apply(ctx, "delete_selected", id, s.nav.DeleteSelected())
}

// SaveVersion captures the working tree under label
func (s *Session) SaveVersion(ctx context.Context, label string) (*domain.Version, error) {
	if s.tree == nil {
		return nil, ErrNoTree
	}
	v := s.versions.Save(s.tree, label)
	s.log.Debug("version saved", zap.String("version_id", v.ID), zap.String("label", v.Label))
	return v, s.persistVersions(ctx)
}

// AutoSaveVersion captures the working tree unless it matches the newest
// version or a restore is in progress. Returns nil when nothing was saved.
func (s *Session) AutoSaveVersion(ctx context.Context) (*domain.Version, error) {
	s.pending = 0
	if s.tree == nil {
		return nil, nil
	}
	v := s.versions.AutoSave(s.tree)
	if v == nil {
		return nil, nil
	}
	s.log.Debug("auto-saved version", zap.String("version_id", v.ID))
	return v, s.persistVersions(ctx)
}

// RestoreVersion replaces the working tree with a copy of a snapshot
func (s *Session) RestoreVersion(ctx context.Context, id string) (domain.Status, error) {
	snapshot, ok := s.versions.Snapshot(id)
	if !ok {
		return domain.NotFound, nil
	}

	s.versions.SetRestoring(true)
	defer s.versions.SetRestoring(false)

	s.log.Debug("restoring version", zap.String("version_id", id))
	return domain.Applied, s.LoadTree(ctx, snapshot)
}

// DeleteVersion removes a version from the log
func (s *Session) DeleteVersion(ctx context.Context, id string) (domain.Status, error) {
	status := s.versions.Delete(id)
	if !status.OK() {
		return status, nil
	}
	return status, s.persistVersions(ctx)
}

// RenameVersion changes a version's label
func (s *Session) RenameVersion(ctx context.Context, id, label string) (domain.Status, error) {
	status := s.versions.Rename(id, label)
	if !status.OK() {
		return status, nil
	}
	return status, s.persistVersions(ctx)
}

// CompareVersions summarizes two versions and their node count delta
func (s *Session) CompareVersions(a, b string) (domain.Comparison, bool) {
	return s.versions.Compare(a, b)
}

// ClearVersions drops the whole version log
func (s *Session) ClearVersions(ctx context.Context) error {
	s.versions.Clear()
	return s.persistVersions(ctx)
}

// Import validates raw JSON and makes it the working tree. On error the
// working tree is untouched.
func (s *Session) Import(ctx context.Context, raw []byte) (*domain.Tree, error) {
	t, err := ParseTree(raw)
	if err != nil {
		s.log.Debug("import rejected", zap.Error(err))
		return nil, err
	}
	return t, s.LoadTree(ctx, t)
}

// Stats returns node count, content count and depth of the working tree
func (s *Session) Stats() domain.Stats {
	return domain.TreeStats(s.tree)
}

// Search runs a one-shot search against the working tree
func (s *Session) Search(query string, scope domain.SearchScope) []domain.SearchMatch {
	return domain.Search(s.tree, query, scope)
}

// Flush writes the tree, its auto-save counter and the version list
// together
func (s *Session) Flush(ctx context.Context) error {
	if err := s.repo.SaveAll(ctx, s.tree, s.versions, s.pending); err != nil {
		s.log.Warn("failed to flush session", zap.Error(err))
		return fmt.Errorf("failed to flush: %w", err)
	}
	return nil
}

// apply records the outcome of a primitive, persisting and re-syncing
// navigation when it was applied
func (s *Session) apply(ctx context.Context, op, id string, status domain.Status) (domain.Status, error) {
	s.log.Debug("mutation",
		zap.String("op", op),
		zap.String("node_id", id),
		zap.Stringer("status", status),
	)
	if !status.OK() {
		return status, nil
	}

	s.nav.Sync(s.tree)
	s.pending++
	var verr error
	if s.autoSaveEvery > 0 && s.pending >= s.autoSaveEvery {
		_, verr = s.AutoSaveVersion(ctx)
	}

	// the tree write also records the counter reset by an auto-save
	if err := s.persistTree(ctx); err != nil {
		return status, err
	}
	return status, verr
}

func (s *Session) persistTree(ctx context.Context) error {
	if s.tree == nil {
		return nil
	}
	if err := s.repo.SaveTree(ctx, s.tree, s.pending); err != nil {
		s.log.Warn("failed to persist tree", zap.Error(err))
		return fmt.Errorf("failed to save tree: %w", err)
	}
	return nil
}

func (s *Session) persistVersions(ctx context.Context) error {
	if err := s.repo.SaveVersions(ctx, s.versions); err != nil {
		s.log.Warn("failed to persist versions", zap.Error(err))
		return fmt.Errorf("failed to save versions: %w", err)
	}
	return nil
}
