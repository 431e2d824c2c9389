package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/geoquiz-bot/internal/repository"
	"github.com/aliskhannn/geoquiz-bot/internal/storage"
)

// fakeKV records every write and can be told to fail.
type fakeKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	writes  []string
	failPut error
	failGet error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string][]byte{}}
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	v, ok := f.data[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) Put(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return f.failPut
	}
	f.data[key] = value
	f.writes = append(f.writes, string(value))
	return nil
}

func newTestCatalog(t *testing.T) *repository.CatalogRepository {
	t.Helper()
	catalog, err := repository.NewCatalogFromEntities(threeCountries())
	require.NoError(t, err)
	return catalog
}

func TestMemorizedKey(t *testing.T) {
	assert.Equal(t, "geoquiz-memorized:42", MemorizedKey(42))
}

func TestMemorizationService_ToggleAndPersist(t *testing.T) {
	kv := newFakeKV()
	svc := NewMemorizationService(newTestCatalog(t), kv, zap.NewNop())
	ctx := context.Background()

	on, err := svc.Toggle(ctx, 1, "IT")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = svc.Toggle(ctx, 1, "FR")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = svc.Toggle(ctx, 1, "IT")
	require.NoError(t, err)
	assert.False(t, on)

	assert.Equal(t, []string{`["IT"]`, `["FR","IT"]`, `["FR"]`}, kv.writes,
		"every mutation rewrites the full set in catalog order")

	memorized, err := svc.IsMemorized(ctx, 1, "FR")
	require.NoError(t, err)
	assert.True(t, memorized)

	all, err := svc.All(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"FR"}, all)

	count, err := svc.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemorizationService_LoadsPersistedState(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, MemorizedKey(7), []byte(`["DE","FR"]`)))

	svc := NewMemorizationService(newTestCatalog(t), kv, zap.NewNop())

	all, err := svc.All(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"FR", "DE"}, all)

	empty, err := svc.All(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, empty, "missing key means empty set")
}

func TestMemorizationService_UsersAreIsolated(t *testing.T) {
	svc := NewMemorizationService(newTestCatalog(t), storage.NewMemoryKV(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 1, "FR")
	require.NoError(t, err)

	memorized, err := svc.IsMemorized(ctx, 2, "FR")
	require.NoError(t, err)
	assert.False(t, memorized)
}

func TestMemorizationService_UnknownEntity(t *testing.T) {
	kv := newFakeKV()
	svc := NewMemorizationService(newTestCatalog(t), kv, zap.NewNop())

	_, err := svc.Toggle(context.Background(), 1, "XX")
	require.ErrorIs(t, err, ErrUnknownEntity)
	assert.Empty(t, kv.writes)
}

func TestMemorizationService_RollbackOnWriteFailure(t *testing.T) {
	kv := newFakeKV()
	svc := NewMemorizationService(newTestCatalog(t), kv, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 1, "FR")
	require.NoError(t, err)

	kv.failPut = errors.New("disk full")
	state, err := svc.Toggle(ctx, 1, "FR")
	require.Error(t, err)
	assert.True(t, state, "failed toggle reports the unchanged state")

	memorized, err := svc.IsMemorized(ctx, 1, "FR")
	require.NoError(t, err)
	assert.True(t, memorized)

	_, err = svc.Toggle(ctx, 1, "DE")
	require.Error(t, err)
	memorized, err = svc.IsMemorized(ctx, 1, "DE")
	require.NoError(t, err)
	assert.False(t, memorized)
}

func TestMemorizationService_LoadFailure(t *testing.T) {
	kv := newFakeKV()
	kv.failGet = errors.New("connection refused")
	svc := NewMemorizationService(newTestCatalog(t), kv, zap.NewNop())

	_, err := svc.All(context.Background(), 1)
	assert.Error(t, err)
}

func TestMemorizationService_Clear(t *testing.T) {
	kv := newFakeKV()
	svc := NewMemorizationService(newTestCatalog(t), kv, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 1, "FR")
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, 1))

	count, err := svc.Count(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, `[]`, kv.writes[len(kv.writes)-1])
}

func TestMemorizationService_ConcurrentTogglesAreSerialized(t *testing.T) {
	kv := newFakeKV()
	svc := NewMemorizationService(newTestCatalog(t), kv, zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []string{"FR", "DE", "IT"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Toggle(ctx, 1, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, `["FR","DE","IT"]`, kv.writes[len(kv.writes)-1], "no update is lost")
}
