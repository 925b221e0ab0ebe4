package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxVersions is the default number of snapshots retained
	MaxVersions = 50

	// AutoSaveLabel labels versions captured by AutoSave
	AutoSaveLabel = "Auto-save"
)

// Version is an immutable point-in-time capture of a tree
type Version struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Label        string    `json:"label"`
	TreeSnapshot *Tree     `json:"treeSnapshot"`
	NodeCount    int       `json:"nodeCount"`
	TreeTitle    string    `json:"treeTitle"`
}

// VersionSummary is the display-only part of a version
type VersionSummary struct {
	ID        string
	Label     string
	Timestamp time.Time
	NodeCount int
	TreeTitle string
}

// Summary returns the denormalized display fields
func (v Version) Summary() VersionSummary {
	return VersionSummary{
		ID:        v.ID,
		Label:     v.Label,
		Timestamp: v.Timestamp,
		NodeCount: v.NodeCount,
		TreeTitle: v.TreeTitle,
	}
}

// Comparison is the result of comparing two versions
type Comparison struct {
	A             VersionSummary
	B             VersionSummary
	NodeCountDiff int // B.NodeCount - A.NodeCount
}

// VersionStore is a bounded, newest-first log of tree snapshots
type VersionStore struct {
	versions  []Version
	max       int
	restoring bool
}

// NewVersionStore creates a store retaining at most max versions.
// A non-positive max uses MaxVersions. existing is assumed newest-first;
// entries whose snapshot is not WellFormed are dropped.
func NewVersionStore(max int, existing []Version) *VersionStore {
	if max <= 0 {
		max = MaxVersions
	}
	s := &VersionStore{max: max}
	for _, v := range existing {
		if !v.TreeSnapshot.WellFormed() {
			continue
		}
		s.versions = append(s.versions, v)
	}
	s.truncate()
	return s
}

// Len returns the number of stored versions
func (s *VersionStore) Len() int {
	return len(s.versions)
}

// Save captures a deep copy of t and prepends it. An empty label defaults
// to "Version N" where N is the current count plus one.
func (s *VersionStore) Save(t *Tree, label string) *Version {
	if t == nil {
		return nil
	}
	if label == "" {
		label = fmt.Sprintf("Version %d", len(s.versions)+1)
	}
	snapshot := t.Clone()
	v := Version{
		ID:           uuid.NewString(),
		Timestamp:    now(),
		Label:        label,
		TreeSnapshot: snapshot,
		NodeCount:    CountNodes(snapshot.RootNode),
		TreeTitle:    snapshot.Title,
	}
	s.versions = append([]Version{v}, s.versions...)
	s.truncate()

	out := v
	out.TreeSnapshot = snapshot.Clone()
	return &out
}

// AutoSave saves an "Auto-save" version unless a restore is in progress or
// t serializes identically to the newest snapshot.
func (s *VersionStore) AutoSave(t *Tree) *Version {
	if t == nil || s.restoring {
		return nil
	}
	if len(s.versions) > 0 {
		current, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		latest, err := json.Marshal(s.versions[0].TreeSnapshot)
		if err == nil && bytes.Equal(current, latest) {
			return nil
		}
	}
	return s.Save(t, AutoSaveLabel)
}

// SetRestoring toggles the flag that suppresses AutoSave
func (s *VersionStore) SetRestoring(restoring bool) {
	s.restoring = restoring
}

// IsRestoring reports whether a restore is in progress
func (s *VersionStore) IsRestoring() bool {
	return s.restoring
}

// Get returns a copy of the version with an independent snapshot
func (s *VersionStore) Get(id string) (Version, bool) {
	for _, v := range s.versions {
		if v.ID == id {
			v.TreeSnapshot = v.TreeSnapshot.Clone()
			return v, true
		}
	}
	return Version{}, false
}

// Snapshot returns a deep copy of the tree captured by version id
func (s *VersionStore) Snapshot(id string) (*Tree, bool) {
	v, ok := s.Get(id)
	if !ok {
		return nil, false
	}
	return v.TreeSnapshot, true
}

// List returns version summaries newest-first
func (s *VersionStore) List() []VersionSummary {
	out := make([]VersionSummary, len(s.versions))
	for i, v := range s.versions {
		out[i] = v.Summary()
	}
	return out
}

// Delete removes a version; unknown IDs are a no-op
func (s *VersionStore) Delete(id string) Status {
	for i, v := range s.versions {
		if v.ID == id {
			s.versions = append(s.versions[:i:i], s.versions[i+1:]...)
			return Applied
		}
	}
	return NotFound
}

// Rename changes a version label; unknown IDs are a no-op
func (s *VersionStore) Rename(id, label string) Status {
	for i := range s.versions {
		if s.versions[i].ID == id {
			s.versions[i].Label = label
			return Applied
		}
	}
	return NotFound
}

// Compare summarizes two versions and the node count delta from a to b
func (s *VersionStore) Compare(a, b string) (Comparison, bool) {
	va, okA := s.find(a)
	vb, okB := s.find(b)
	if !okA || !okB {
		return Comparison{}, false
	}
	return Comparison{
		A:             va.Summary(),
		B:             vb.Summary(),
		NodeCountDiff: vb.NodeCount - va.NodeCount,
	}, true
}

// Clear drops every version
func (s *VersionStore) Clear() {
	s.versions = nil
}

// MarshalJSON encodes the store as a newest-first array of versions
func (s *VersionStore) MarshalJSON() ([]byte, error) {
	if s.versions == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.versions)
}

func (s *VersionStore) find(id string) (Version, bool) {
	for _, v := range s.versions {
		if v.ID == id {
			return v, true
		}
	}
	return Version{}, false
}

func (s *VersionStore) truncate() {
	if len(s.versions) > s.max {
		s.versions = s.versions[:s.max]
	}
}
