package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"metrics-intake/internal/domain"
)

func TestMemoryStore_StoreAndGet(t *testing.T) {
	store := NewMemoryStore()
	err := store.Init()
	assert.NoError(t, err, "Init should not return an error")
	defer store.Close()

	record := domain.MetricRecord{
		Key:        "test-key",
		Value:      10.52,
		OccurredAt: 1700000000,
	}

	ctx := context.Background()
	err = store.StoreMetric(ctx, record)
	assert.NoError(t, err, "StoreMetric should not return an error")

	retrieved, err := store.GetMetrics(ctx, "test-key", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 1, "Should find the stored record")
	assert.Equal(t, record, retrieved[0], "Retrieved record should match stored record")

	count, err := store.CountMetrics(ctx, "test-key")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStore_PerKeyOrderAndPagination(t *testing.T) {
	store := NewMemoryStore()
	store.Init()
	defer store.Close()

	ctx := context.Background()

	for i := 0; i < 6; i++ {
		err := store.StoreMetric(ctx, domain.MetricRecord{
			Key:        "ordered",
			Value:      float64(i * 10),
			OccurredAt: 1700000000 + int64(i),
		})
		assert.NoError(t, err)
	}

	// case 1: full sequence, insertion order preserved
	retrieved, err := store.GetMetrics(ctx, "ordered", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 6)
	for i, r := range retrieved {
		assert.Equal(t, float64(i*10), r.Value, "Records should come back in insertion order")
	}

	// case 2: limit 2, offset 2
	retrieved, err = store.GetMetrics(ctx, "ordered", 2, 2)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 2)
	assert.Equal(t, float64(20), retrieved[0].Value)
	assert.Equal(t, float64(30), retrieved[1].Value)

	// case 3: offset beyond available data
	retrieved, err = store.GetMetrics(ctx, "ordered", 2, 10)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 0)

	// case 4: negative offset treated as 0
	retrieved, err = store.GetMetrics(ctx, "ordered", 2, -5)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 2)
	assert.Equal(t, float64(0), retrieved[0].Value)

	// case 5: unknown key
	retrieved, err = store.GetMetrics(ctx, "missing", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 0)

	// case 6: cancelled context
	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.GetMetrics(cancelledCtx, "ordered", 0, 0)
	assert.Error(t, err, "GetMetrics should return an error when context is cancelled")
}

func TestMemoryStore_ConcurrentAppendsSameKey(t *testing.T) {
	store := NewMemoryStore()
	store.Init()
	defer store.Close()

	ctx := context.Background()

	const callers = 10
	const perCaller = 100

	var wg sync.WaitGroup
	for c := 0; c < callers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perCaller; i++ {
				err := store.StoreMetric(ctx, domain.MetricRecord{
					Key:        "contended",
					Value:      10.52,
					OccurredAt: 1700000000,
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	count, err := store.CountMetrics(ctx, "contended")
	assert.NoError(t, err)
	assert.Equal(t, callers*perCaller, count, "No append may be lost under contention")

	retrieved, err := store.GetMetrics(ctx, "contended", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, retrieved, callers*perCaller)
	for _, r := range retrieved {
		assert.Equal(t, 10.52, r.Value)
	}
}

func TestMemoryStore_ConcurrentAppendsManyKeys(t *testing.T) {
	store := NewMemoryStore()
	store.Init()
	defer store.Close()

	ctx := context.Background()

	const keys = 64
	const perKey = 50

	var wg sync.WaitGroup
	for k := 0; k < keys; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", k)
			for i := 0; i < perKey; i++ {
				store.StoreMetric(ctx, domain.MetricRecord{
					Key:        key,
					Value:      float64(i),
					OccurredAt: 1700000000 + int64(i),
				})
			}
		}(k)
	}
	wg.Wait()

	for k := 0; k < keys; k++ {
		key := fmt.Sprintf("key-%d", k)

		retrieved, err := store.GetMetrics(ctx, key, 0, 0)
		assert.NoError(t, err)
		assert.Len(t, retrieved, perKey)
		for i, r := range retrieved {
			assert.Equal(t, float64(i), r.Value, "Per-key order must survive cross-key contention")
		}
	}
}

func TestSQLiteStore_Init(t *testing.T) {

	testDBPath := "./test_metrics_init.db"

	os.Remove(testDBPath)
	defer os.Remove(testDBPath)

	store := NewSQLiteStore(testDBPath)
	err := store.Init()
	assert.NoError(t, err, "Init should not return an error")

	store.Close()
}

func TestSQLiteStore_StoreMetric(t *testing.T) {
	testDBPath := "./test_metrics_store.db"
	os.Remove(testDBPath)
	defer os.Remove(testDBPath)

	sqliteStore := NewSQLiteStore(testDBPath)
	sqliteStore.Init()
	defer sqliteStore.Close()

	record := domain.MetricRecord{
		Key:        "test-key",
		Value:      75.0,
		OccurredAt: 1700000000,
	}

	ctx := context.Background()
	err := sqliteStore.StoreMetric(ctx, record)
	assert.NoError(t, err, "StoreMetric should not return an error")

	retrieved, err := sqliteStore.GetMetrics(ctx, "test-key", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 1, "Should find the stored record")
	assert.Equal(t, record, retrieved[0], "Retrieved record should match stored record")

	count, err := sqliteStore.CountMetrics(ctx, "test-key")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteStore_GetMetrics(t *testing.T) {
	testDBPath := "./test_metrics_get.db"
	os.Remove(testDBPath)
	defer os.Remove(testDBPath)

	sqliteStore := NewSQLiteStore(testDBPath)
	sqliteStore.Init()
	defer sqliteStore.Close()

	recordsToStore := []domain.MetricRecord{
		{Key: "cpu", Value: 10.0, OccurredAt: 1700000000},
		{Key: "cpu", Value: 20.0, OccurredAt: 1700000010},
		{Key: "cpu", Value: 30.0, OccurredAt: 1700000020},
		{Key: "mem", Value: 40.0, OccurredAt: 1700000030},
		{Key: "cpu", Value: 50.0, OccurredAt: 1700000040},
	}

	ctx := context.Background()
	for _, r := range recordsToStore {
		err := sqliteStore.StoreMetric(ctx, r)
		assert.NoError(t, err)
	}

	// case 1: all records under one key, insertion order
	retrieved, err := sqliteStore.GetMetrics(ctx, "cpu", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 4)
	assert.Equal(t, 10.0, retrieved[0].Value)
	assert.Equal(t, 50.0, retrieved[3].Value)

	// case 2: other key is unaffected
	retrieved, err = sqliteStore.GetMetrics(ctx, "mem", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 1)

	// case 3: limit/offset pagination
	retrieved, err = sqliteStore.GetMetrics(ctx, "cpu", 2, 1)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 2)
	assert.Equal(t, 20.0, retrieved[0].Value)
	assert.Equal(t, 30.0, retrieved[1].Value)

	// case 4: offset beyond available data
	retrieved, err = sqliteStore.GetMetrics(ctx, "cpu", 2, 10)
	assert.NoError(t, err)
	assert.Len(t, retrieved, 0)

	// case 5: context cancellation during query
	ctxWithCancel, cancel := context.WithCancel(context.Background())
	cancel()
	retrieved, err = sqliteStore.GetMetrics(ctxWithCancel, "cpu", 0, 0)
	assert.Error(t, err, "GetMetrics should return an error when context is cancelled")
	assert.Len(t, retrieved, 0)
}
