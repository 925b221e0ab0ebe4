package domain

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionSaveRestoreScenario(t *testing.T) {
	tree := newTestTree(node("a", "A"), node("b", "B"))
	store := NewVersionStore(0, nil)

	v1 := store.Save(tree, "")
	require.NotNil(t, v1)
	assert.Equal(t, "Version 1", v1.Label)
	assert.Equal(t, 3, v1.NodeCount)

	tree.AddNode("root", node("c", "C"))
	tree.AddNode("c", node("d", "D"))
	require.Equal(t, 5, CountNodes(tree.RootNode))

	restored, ok := store.Snapshot(v1.ID)
	require.True(t, ok)
	assert.Equal(t, 3, CountNodes(restored.RootNode))
	assert.Nil(t, restored.FindNode("c"))

	restored.DeleteNode("a")
	again, _ := store.Snapshot(v1.ID)
	assert.Equal(t, 3, CountNodes(again.RootNode), "restored trees are independent copies")
}

func TestVersionSnapshotsAreIsolated(t *testing.T) {
	tree := newTestTree(node("a", "A"))
	store := NewVersionStore(0, nil)
	v := store.Save(tree, "before")

	title := "mutated"
	tree.UpdateNode("a", NodeUpdate{Title: &title})

	got, ok := store.Get(v.ID)
	require.True(t, ok)
	assert.Equal(t, "A", got.TreeSnapshot.FindNode("a").Title)

	got.TreeSnapshot.FindNode("a").Title = "changed through copy"
	again, _ := store.Get(v.ID)
	assert.Equal(t, "A", again.TreeSnapshot.FindNode("a").Title)
}

func TestVersionStoreBounded(t *testing.T) {
	tree := newTestTree()
	store := NewVersionStore(MaxVersions, nil)

	for i := 1; i <= MaxVersions+1; i++ {
		store.Save(tree, fmt.Sprintf("v%d", i))
	}

	list := store.List()
	require.Len(t, list, MaxVersions)
	assert.Equal(t, fmt.Sprintf("v%d", MaxVersions+1), list[0].Label, "newest first")
	assert.Equal(t, "v2", list[len(list)-1].Label, "oldest dropped")
}

func TestVersionDefaultLabelCountsExisting(t *testing.T) {
	tree := newTestTree()
	store := NewVersionStore(0, nil)
	store.Save(tree, "first")

	v := store.Save(tree, "")
	assert.Equal(t, "Version 2", v.Label)
}

func TestAutoSave(t *testing.T) {
	t.Run("skips identical tree", func(t *testing.T) {
		tree := newTestTree(node("a", "A"))
		store := NewVersionStore(0, nil)

		require.NotNil(t, store.AutoSave(tree))
		assert.Nil(t, store.AutoSave(tree))
		assert.Equal(t, 1, store.Len())
		assert.Equal(t, AutoSaveLabel, store.List()[0].Label)
	})

	t.Run("saves after change", func(t *testing.T) {
		tree := newTestTree(node("a", "A"))
		store := NewVersionStore(0, nil)
		store.AutoSave(tree)

		tree.AddNode("root", node("b", "B"))
		require.NotNil(t, store.AutoSave(tree))
		assert.Equal(t, 2, store.Len())
	})

	t.Run("suppressed while restoring", func(t *testing.T) {
		tree := newTestTree()
		store := NewVersionStore(0, nil)
		store.SetRestoring(true)

		assert.True(t, store.IsRestoring())
		assert.Nil(t, store.AutoSave(tree))
		assert.Equal(t, 0, store.Len())
	})
}

func TestVersionDeleteRenameCompare(t *testing.T) {
	tree := newTestTree(node("a", "A"))
	store := NewVersionStore(0, nil)
	v1 := store.Save(tree, "one")
	tree.AddNode("root", node("b", "B"))
	tree.AddNode("root", node("c", "C"))
	v2 := store.Save(tree, "two")

	cmp, ok := store.Compare(v1.ID, v2.ID)
	require.True(t, ok)
	assert.Equal(t, 2, cmp.NodeCountDiff)
	assert.Equal(t, "one", cmp.A.Label)

	cmp, _ = store.Compare(v2.ID, v1.ID)
	assert.Equal(t, -2, cmp.NodeCountDiff)

	_, ok = store.Compare(v1.ID, "missing")
	assert.False(t, ok)

	assert.Equal(t, Applied, store.Rename(v1.ID, "renamed"))
	assert.Equal(t, NotFound, store.Rename("missing", "x"))
	got, _ := store.Get(v1.ID)
	assert.Equal(t, "renamed", got.Label)

	assert.Equal(t, Applied, store.Delete(v1.ID))
	assert.Equal(t, NotFound, store.Delete(v1.ID))
	assert.Equal(t, 1, store.Len())

	store.Clear()
	assert.Equal(t, 0, store.Len())
}

func TestVersionStoreJSON(t *testing.T) {
	store := NewVersionStore(0, nil)
	data, err := json.Marshal(store)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	tree := newTestTree(node("a", "A"))
	store.Save(tree, "one")
	data, err = json.Marshal(store)
	require.NoError(t, err)

	var decoded []Version
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "one", decoded[0].Label)
	assert.Equal(t, 2, decoded[0].NodeCount)
	assert.Contains(t, string(data), `"treeSnapshot"`)

	reloaded := NewVersionStore(0, decoded)
	assert.Equal(t, 1, reloaded.Len())
}

func TestVersionStoreDropsMalformedSnapshots(t *testing.T) {
	good := NewVersionStore(0, nil).Save(newTestTree(node("a", "A")), "good")
	existing := []Version{
		{ID: "no-root", Label: "broken", TreeSnapshot: &Tree{ID: "t", Title: "T"}},
		*good,
		{ID: "nil-child", Label: "broken", TreeSnapshot: newTestTree(nil)},
		{ID: "dup", Label: "broken", TreeSnapshot: newTestTree(node("x", "X"), node("x", "X"))},
		{ID: "empty", Label: "broken"},
	}

	store := NewVersionStore(0, existing)

	require.Equal(t, 1, store.Len())
	assert.Equal(t, "good", store.List()[0].Label)
	_, ok := store.Snapshot("no-root")
	assert.False(t, ok)
}
