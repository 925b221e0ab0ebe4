package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func navTree() *Tree {
	return newTestTree(
		node("a", "A", node("a1", "A1"), node("a2", "A2")),
		node("b", "B"),
	)
}

func visibleIDs(nav *Navigator) []string {
	var ids []string
	for _, fn := range nav.Visible() {
		ids = append(ids, fn.Node.ID)
	}
	return ids
}

func TestNavigatorStartsExpandedAtRoot(t *testing.T) {
	nav := NewNavigator(navTree())

	assert.Equal(t, "root", nav.Selected())
	assert.Equal(t, []string{"root", "a", "a1", "a2", "b"}, visibleIDs(nav))
	assert.True(t, nav.IsExpanded("a"))
	assert.False(t, nav.IsExpanded("b"), "leaves are never expanded")
}

func TestNavigatorUpDownClamp(t *testing.T) {
	nav := NewNavigator(navTree())

	nav.Up()
	assert.Equal(t, "root", nav.Selected())

	nav.Down()
	nav.Down()
	assert.Equal(t, "a1", nav.Selected())

	nav.Last()
	nav.Down()
	assert.Equal(t, "b", nav.Selected())

	nav.First()
	assert.Equal(t, "root", nav.Selected())
}

func TestNavigatorLeftRight(t *testing.T) {
	nav := NewNavigator(navTree())
	require.True(t, nav.Select("a"))

	nav.Left()
	assert.False(t, nav.IsExpanded("a"), "left collapses an expanded branch")
	assert.Equal(t, []string{"root", "a", "b"}, visibleIDs(nav))

	nav.Left()
	assert.Equal(t, "root", nav.Selected(), "left on a collapsed node goes to the parent")

	nav.Select("a")
	nav.Right()
	assert.True(t, nav.IsExpanded("a"), "right expands")
	assert.Equal(t, "a", nav.Selected())

	nav.Right()
	assert.Equal(t, "a1", nav.Selected(), "right on expanded selects first child")

	nav.Right()
	assert.Equal(t, "a1", nav.Selected(), "right on a leaf does nothing")
}

func TestNavigatorDownSkipsCollapsed(t *testing.T) {
	nav := NewNavigator(navTree())
	nav.Toggle("a")
	nav.Select("a")

	nav.Down()
	assert.Equal(t, "b", nav.Selected())
}

func TestNavigatorDeleteSelected(t *testing.T) {
	t.Run("selects previous visible entry", func(t *testing.T) {
		nav := NewNavigator(navTree())
		nav.Select("a2")

		require.Equal(t, Applied, nav.DeleteSelected())
		assert.Equal(t, "a1", nav.Selected())
		assert.Nil(t, nav.Tree().FindNode("a2"))
	})

	t.Run("root is protected", func(t *testing.T) {
		nav := NewNavigator(navTree())

		assert.Equal(t, Rejected, nav.DeleteSelected())
		assert.Equal(t, "root", nav.Selected())
		assert.Equal(t, 5, CountNodes(nav.Tree().RootNode))
	})

	t.Run("last remaining child falls back to root", func(t *testing.T) {
		nav := NewNavigator(newTestTree(node("only", "Only")))
		nav.Select("only")

		require.Equal(t, Applied, nav.DeleteSelected())
		assert.Equal(t, "root", nav.Selected())
	})
}

func TestNavigatorSync(t *testing.T) {
	tree := navTree()
	nav := NewNavigator(tree)
	nav.Select("a1")

	tree.DeleteNode("a")
	nav.Sync(tree)
	assert.Equal(t, "root", nav.Selected(), "selection is reset when its node disappears")
	assert.False(t, nav.IsExpanded("a"))

	other := newTestTree(node("x", "X", node("y", "Y")))
	nav.Sync(other)
	assert.Equal(t, "root", nav.Selected())
	assert.True(t, nav.IsExpanded("x"), "a new tree instance resets expansion")
}

func TestNavigatorReveal(t *testing.T) {
	nav := NewNavigator(navTree())
	nav.Toggle("a")
	nav.Toggle("root")
	assert.Equal(t, []string{"root"}, visibleIDs(nav))

	require.True(t, nav.Reveal("a2"))
	assert.Equal(t, "a2", nav.Selected())
	assert.Contains(t, visibleIDs(nav), "a2")

	assert.False(t, nav.Reveal("missing"))
	assert.False(t, nav.Select("missing"))
	assert.Equal(t, "a2", nav.Selected())
}

func TestNavigatorRequests(t *testing.T) {
	nav := NewNavigator(navTree())
	nav.Select("b")

	req, ok := nav.RequestEdit()
	require.True(t, ok)
	assert.Equal(t, Request{Kind: RequestEdit, NodeID: "b"}, req)

	req, ok = nav.RequestAddChild()
	require.True(t, ok)
	assert.Equal(t, Request{Kind: RequestAddChild, NodeID: "b"}, req)

	empty := NewNavigator(nil)
	_, ok = empty.RequestEdit()
	assert.False(t, ok)
}
