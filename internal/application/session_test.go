package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompttree/internal/domain"
	"prompttree/internal/ports"
)

// memStore is an in-memory ports.BlobStore
type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failPut bool
	puts    int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ports.ErrBlobNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memStore) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("disk full")
	}
	m.puts++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Close() error { return nil }

// batchStore is a memStore that also implements ports.BatchWriter
type batchStore struct {
	*memStore
	batches int
}

func newBatchStore() *batchStore {
	return &batchStore{memStore: newMemStore()}
}

func (b *batchStore) PutBatch(ctx context.Context, entries map[string][]byte) error {
	b.batches++
	for key, value := range entries {
		var err error
		if value == nil {
			err = b.Delete(ctx, key)
		} else {
			err = b.Put(ctx, key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func newTestSession(t *testing.T, store *memStore, opts SessionOptions) *Session {
	t.Helper()
	s := NewSession(NewRepository(store), opts)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestSessionOnboardingWithoutTree(t *testing.T) {
	s := newTestSession(t, newMemStore(), SessionOptions{})

	assert.False(t, s.HasTree())
	assert.Equal(t, domain.Stats{}, s.Stats())

	status, err := s.AddNode(context.Background(), "x", domain.NewNode("A", ""))
	assert.NoError(t, err)
	assert.Equal(t, domain.NotFound, status)

	_, err = s.SaveVersion(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoTree)
}

func TestSessionPersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newTestSession(t, store, SessionOptions{})

	tree, err := s.Create(ctx, "Prompts", "desc")
	require.NoError(t, err)

	a := domain.NewNode("A", "alpha")
	status, err := s.AddNode(ctx, tree.RootNode.ID, a)
	require.NoError(t, err)
	require.Equal(t, domain.Applied, status)

	reloaded := newTestSession(t, store, SessionOptions{})
	require.True(t, reloaded.HasTree())
	assert.Equal(t, "Prompts", reloaded.Tree().Title)
	assert.Equal(t, "alpha", reloaded.Tree().FindNode(a.ID).Content)
	assert.Equal(t, reloaded.Tree().RootNode.ID, reloaded.Navigator().Selected())
}

func TestSessionCorruptBlobFallsBackToOnboarding(t *testing.T) {
	store := newMemStore()
	store.data[TreeKey] = []byte("{not json")
	store.data[VersionsKey] = []byte("nope")

	s := newTestSession(t, store, SessionOptions{})

	assert.False(t, s.HasTree())
	assert.Equal(t, 0, s.Versions().Len())
}

func TestSessionPersistenceFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newTestSession(t, store, SessionOptions{})
	tree, err := s.Create(ctx, "T", "")
	require.NoError(t, err)

	store.failPut = true
	n := domain.NewNode("Kept", "")
	status, err := s.AddNode(ctx, tree.RootNode.ID, n)

	assert.Equal(t, domain.Applied, status)
	assert.Error(t, err)
	assert.NotNil(t, s.Tree().FindNode(n.ID))
}

func TestSessionNoOpDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newTestSession(t, store, SessionOptions{})
	_, err := s.Create(ctx, "T", "")
	require.NoError(t, err)
	puts := store.puts

	status, err := s.DeleteNode(ctx, s.Tree().RootNode.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.Rejected, status)
	assert.Equal(t, puts, store.puts)
}

func TestSessionDeleteNodeResetsSelection(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newMemStore(), SessionOptions{})
	tree, _ := s.Create(ctx, "T", "")

	a := domain.NewNode("A", "")
	b := domain.NewNode("B", "")
	s.AddNode(ctx, tree.RootNode.ID, a)
	s.AddNode(ctx, a.ID, b)
	require.True(t, s.Navigator().Select(b.ID))

	status, err := s.DeleteNode(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.Applied, status)
	assert.Equal(t, tree.RootNode.ID, s.Navigator().Selected())
	assert.Equal(t, 1, s.Stats().Nodes)
}

func TestSessionDeleteSelectedUsesVisibleNeighbour(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newMemStore(), SessionOptions{})
	tree, _ := s.Create(ctx, "T", "")

	a := domain.NewNode("A", "")
	b := domain.NewNode("B", "")
	s.AddNode(ctx, tree.RootNode.ID, a)
	s.AddNode(ctx, tree.RootNode.ID, b)
	s.Navigator().Sync(s.Tree())
	s.Navigator().Select(b.ID)

	status, err := s.DeleteSelected(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Applied, status)
	assert.Equal(t, a.ID, s.Navigator().Selected())
}

func TestSessionVersionRestoreScenario(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newTestSession(t, store, SessionOptions{})
	tree, _ := s.Create(ctx, "T", "")
	s.AddNode(ctx, tree.RootNode.ID, domain.NewNode("A", ""))
	s.AddNode(ctx, tree.RootNode.ID, domain.NewNode("B", ""))
	require.Equal(t, 3, s.Stats().Nodes)

	v1, err := s.SaveVersion(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Version 1", v1.Label)

	c := domain.NewNode("C", "")
	s.AddNode(ctx, tree.RootNode.ID, c)
	s.AddNode(ctx, c.ID, domain.NewNode("D", ""))
	require.Equal(t, 5, s.Stats().Nodes)

	status, err := s.RestoreVersion(ctx, v1.ID)
	require.NoError(t, err)
	require.Equal(t, domain.Applied, status)
	assert.Equal(t, 3, s.Stats().Nodes)
	assert.False(t, s.Versions().IsRestoring())

	// restoring again yields a fresh copy
	s.AddNode(ctx, s.Tree().RootNode.ID, domain.NewNode("E", ""))
	s.RestoreVersion(ctx, v1.ID)
	assert.Equal(t, 3, s.Stats().Nodes)

	reloaded := newTestSession(t, store, SessionOptions{})
	assert.Equal(t, 1, reloaded.Versions().Len())
	assert.Equal(t, 3, reloaded.Stats().Nodes)

	status, _ = s.RestoreVersion(ctx, "missing")
	assert.Equal(t, domain.NotFound, status)
}

func TestSessionPeriodicAutoSave(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newMemStore(), SessionOptions{AutoSaveEvery: 2})
	tree, _ := s.Create(ctx, "T", "")

	s.AddNode(ctx, tree.RootNode.ID, domain.NewNode("A", ""))
	assert.Equal(t, 0, s.Versions().Len())

	s.AddNode(ctx, tree.RootNode.ID, domain.NewNode("B", ""))
	require.Equal(t, 1, s.Versions().Len())
	assert.Equal(t, domain.AutoSaveLabel, s.Versions().List()[0].Label)

	v, err := s.AutoSaveVersion(ctx)
	assert.NoError(t, err)
	assert.Nil(t, v, "unchanged tree is not saved again")
}

func TestSessionImport(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newMemStore(), SessionOptions{})
	original, _ := s.Create(ctx, "Original", "")

	_, err := s.Import(ctx, []byte(`{"root_node":{"id":"r"}}`))
	assert.ErrorIs(t, err, ErrInvalidImport)
	assert.Same(t, original, s.Tree())

	imported, err := s.Import(ctx, []byte(`{"id":"t","title":"Imported","root_node":{"id":"r","title":"Root","children":[{"id":"x","title":"X"}]}}`))
	require.NoError(t, err)
	assert.Same(t, imported, s.Tree())
	assert.Equal(t, 2, s.Stats().Nodes)
	assert.Equal(t, "r", s.Navigator().Selected())
}

func TestSessionDropAndVersionsHousekeeping(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newMemStore(), SessionOptions{})
	tree, _ := s.Create(ctx, "T", "")
	a := domain.NewNode("A", "")
	b := domain.NewNode("B", "")
	s.AddNode(ctx, tree.RootNode.ID, a)
	s.AddNode(ctx, tree.RootNode.ID, b)

	plan, status, err := s.Drop(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DropReorder, plan.Kind)
	assert.Equal(t, domain.Applied, status)
	assert.Equal(t, b.ID, s.Tree().RootNode.Children[0].ID)
	assert.Equal(t, b.ID, s.Navigator().Selected())

	v1, _ := s.SaveVersion(ctx, "one")
	s.UpdateMetadata(ctx, "Renamed", "")
	v2, _ := s.SaveVersion(ctx, "two")

	cmp, ok := s.CompareVersions(v1.ID, v2.ID)
	require.True(t, ok)
	assert.Equal(t, 0, cmp.NodeCountDiff)
	assert.Equal(t, "Renamed", cmp.B.TreeTitle)

	status, err = s.RenameVersion(ctx, v1.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, domain.Applied, status)

	status, _ = s.DeleteVersion(ctx, v2.ID)
	assert.Equal(t, domain.Applied, status)
	assert.Equal(t, 1, s.Versions().Len())

	require.NoError(t, s.ClearVersions(ctx))
	assert.Equal(t, 0, s.Versions().Len())

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.HasTree())
}

func TestRepositorySaveAll(t *testing.T) {
	ctx := context.Background()
	store := newBatchStore()
	repo := NewRepository(store)
	tree := domain.NewTree("T", "")
	vs := domain.NewVersionStore(0, nil)
	vs.Save(tree, "")

	require.NoError(t, repo.SaveAll(ctx, tree, vs, 3))
	assert.Equal(t, 1, store.batches)

	loaded, err := repo.LoadTree(ctx)
	require.NoError(t, err)
	assert.Equal(t, tree.ID, loaded.ID)

	versions, err := repo.LoadVersions(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, 1)

	pending, err := repo.LoadPending(ctx, tree.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, pending)

	require.NoError(t, repo.SaveAll(ctx, nil, vs, 0))
	loaded, err = repo.LoadTree(ctx)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
	assert.NotContains(t, store.data, PendingKey)
}

func TestSessionRejectsMalformedStoredTree(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"null child", `{"id":"t","root_node":{"id":"r","children":[null]}}`},
		{"nested null child", `{"id":"t","root_node":{"id":"r","children":[{"id":"a","children":[null]}]}}`},
		{"duplicate ids", `{"id":"t","root_node":{"id":"r","children":[{"id":"a"},{"id":"a"}]}}`},
		{"node without id", `{"id":"t","root_node":{"id":"r","children":[{"title":"A"}]}}`},
		{"missing root", `{"id":"t","title":"T"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.data[TreeKey] = []byte(tt.blob)
			s := NewSession(NewRepository(store), SessionOptions{})

			require.NotPanics(t, func() {
				assert.NoError(t, s.Load(context.Background()))
			})
			assert.False(t, s.HasTree())

			_, err := NewRepository(store).LoadTree(context.Background())
			assert.ErrorIs(t, err, ErrCorruptData)
		})
	}
}

func TestSessionSkipsVersionWithoutRoot(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.data[VersionsKey] = []byte(`[{"id":"v1","label":"broken","treeSnapshot":{"id":"t","title":"T"}}]`)

	s := newTestSession(t, store, SessionOptions{})
	assert.Equal(t, 0, s.Versions().Len())

	status, err := s.RestoreVersion(ctx, "v1")
	assert.NoError(t, err)
	assert.Equal(t, domain.NotFound, status)
	assert.False(t, s.HasTree())
}

func TestSessionAutoSaveCountsAcrossReloads(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	opts := SessionOptions{AutoSaveEvery: 2}

	s := newTestSession(t, store, opts)
	tree, err := s.Create(ctx, "T", "")
	require.NoError(t, err)

	// reload before every mutation, the way one-shot CLI and MCP calls run
	for i := 0; i < 6; i++ {
		s = newTestSession(t, store, opts)
		_, err := s.AddNode(ctx, tree.RootNode.ID, domain.NewNode(fmt.Sprintf("N%d", i), ""))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, newTestSession(t, store, opts).Versions().Len())
}

func TestSessionCounterResetsForNewTree(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	opts := SessionOptions{AutoSaveEvery: 2}

	s := newTestSession(t, store, opts)
	tree, _ := s.Create(ctx, "First", "")
	s.AddNode(ctx, tree.RootNode.ID, domain.NewNode("A", ""))

	s = newTestSession(t, store, opts)
	second, _ := s.Create(ctx, "Second", "")

	s = newTestSession(t, store, opts)
	s.AddNode(ctx, second.RootNode.ID, domain.NewNode("B", ""))
	assert.Equal(t, 0, s.Versions().Len())
}

func TestSessionClearAllUsesOneBatch(t *testing.T) {
	ctx := context.Background()
	store := newBatchStore()
	s := NewSession(NewRepository(store), SessionOptions{})
	require.NoError(t, s.Load(ctx))
	_, err := s.Create(ctx, "T", "")
	require.NoError(t, err)
	_, err = s.SaveVersion(ctx, "kept")
	require.NoError(t, err)

	before := store.batches
	require.NoError(t, s.ClearAll(ctx))
	assert.Equal(t, before+1, store.batches)

	reloaded := NewSession(NewRepository(store), SessionOptions{})
	require.NoError(t, reloaded.Load(ctx))
	assert.False(t, reloaded.HasTree())
	assert.Equal(t, 0, reloaded.Versions().Len())
}

func TestSessionFlushWritesEverything(t *testing.T) {
	ctx := context.Background()
	store := newBatchStore()
	s := NewSession(NewRepository(store), SessionOptions{})
	require.NoError(t, s.Load(ctx))
	tree, _ := s.Create(ctx, "T", "")
	s.AddNode(ctx, tree.RootNode.ID, domain.NewNode("A", ""))
	_, err := s.AutoSaveVersion(ctx)
	require.NoError(t, err)

	delete(store.data, VersionsKey)
	require.NoError(t, s.Flush(ctx))

	reloaded := NewSession(NewRepository(store), SessionOptions{})
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 1, reloaded.Versions().Len())
	assert.Equal(t, 2, reloaded.Stats().Nodes)
}
