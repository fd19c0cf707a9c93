package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-advisor-engine/internal/models"
)

// countingSource records how many times the catalog was loaded.
type countingSource struct {
	policies []*models.Policy
	err      error
	calls    int
}

func (s *countingSource) GetAll(_ context.Context) ([]*models.Policy, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.policies, nil
}

func testCatalog() []*models.Policy {
	return []*models.Policy{
		{ID: 1, Name: "Premium Health Insurance", Category: models.CategoryHealth, Provider: "InsureTech"},
		{ID: 2, Name: "Pradhan Mantri Suraksha Bima Yojana (PMSBY)", Category: models.CategoryAccident, IsGovernmentPolicy: true},
	}
}

func newTestCache(t *testing.T, source CatalogSource) (*PolicyCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client, source, time.Minute), mr
}

func TestCatalog_MissLoadsFromSourceAndStores(t *testing.T) {
	source := &countingSource{policies: testCatalog()}
	cache, mr := newTestCache(t, source)

	policies, err := cache.Catalog(context.Background())

	require.NoError(t, err)
	assert.Len(t, policies, 2)
	assert.Equal(t, 1, source.calls)
	assert.True(t, mr.Exists("policy:catalog"))
}

func TestCatalog_HitSkipsSource(t *testing.T) {
	source := &countingSource{policies: testCatalog()}
	cache, _ := newTestCache(t, source)

	ctx := context.Background()
	_, err := cache.Catalog(ctx)
	require.NoError(t, err)

	policies, err := cache.Catalog(ctx)
	require.NoError(t, err)

	assert.Len(t, policies, 2)
	assert.Equal(t, "Premium Health Insurance", policies[0].Name)
	assert.Equal(t, 1, source.calls, "second read should come from cache")
}

func TestCatalog_CorruptCacheFallsBackToSource(t *testing.T) {
	source := &countingSource{policies: testCatalog()}
	cache, mr := newTestCache(t, source)

	require.NoError(t, mr.Set("policy:catalog", "{{{not json"))

	policies, err := cache.Catalog(context.Background())

	require.NoError(t, err)
	assert.Len(t, policies, 2)
	assert.Equal(t, 1, source.calls)

	// The bad entry gets overwritten with a good one
	stored, err := mr.Get("policy:catalog")
	require.NoError(t, err)
	assert.Contains(t, stored, "Premium Health Insurance")
}

func TestCatalog_UnreachableRedisFallsBackToSource(t *testing.T) {
	source := &countingSource{policies: testCatalog()}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := New(client, source, time.Minute)

	mr.Close()

	policies, err := cache.Catalog(context.Background())

	require.NoError(t, err)
	assert.Len(t, policies, 2)
	assert.Equal(t, 1, source.calls)
}

func TestCatalog_SourceErrorPropagates(t *testing.T) {
	source := &countingSource{err: errors.New("connection refused")}
	cache, _ := newTestCache(t, source)

	policies, err := cache.Catalog(context.Background())

	assert.Error(t, err)
	assert.Nil(t, policies)
}

func TestCatalog_EntryExpiresAfterTTL(t *testing.T) {
	source := &countingSource{policies: testCatalog()}
	cache, mr := newTestCache(t, source)

	ctx := context.Background()
	_, err := cache.Catalog(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestInvalidate_ForcesReload(t *testing.T) {
	source := &countingSource{policies: testCatalog()}
	cache, mr := newTestCache(t, source)

	ctx := context.Background()
	_, err := cache.Catalog(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists("policy:catalog"))

	cache.Invalidate(ctx)
	assert.False(t, mr.Exists("policy:catalog"))

	_, err = cache.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestNilClientDisablesCaching(t *testing.T) {
	source := &countingSource{policies: testCatalog()}
	cache := New(nil, source, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		policies, err := cache.Catalog(ctx)
		require.NoError(t, err)
		assert.Len(t, policies, 2)
	}

	assert.Equal(t, 3, source.calls)
	cache.Invalidate(ctx) // no-op, must not panic
}
