package repository

import (
	"context"
	"hash/fnv"
	"sync"

	"metrics-intake/internal/domain"
)

const shardCount = 32

// memoryShard owns a slice of the key space. Appends to a single key always
// land on the same shard, so per-key insertion order follows lock
// acquisition order on that shard.
type memoryShard struct {
	mu      sync.RWMutex
	records map[string][]domain.MetricRecord
}

type MemoryStore struct {
	shards [shardCount]*memoryShard
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init() error {
	for i := range s.shards {
		s.shards[i] = &memoryShard{records: make(map[string][]domain.MetricRecord)}
	}
	return nil
}

func (s *MemoryStore) shardFor(key string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return s.shards[h.Sum32()%shardCount]
}

func (s *MemoryStore) StoreMetric(ctx context.Context, record domain.MetricRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	shard := s.shardFor(record.Key)
	shard.mu.Lock()
	shard.records[record.Key] = append(shard.records[record.Key], record)
	shard.mu.Unlock()

	return nil
}

func (s *MemoryStore) GetMetrics(ctx context.Context, key string, limit, offset int) ([]domain.MetricRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}

	shard := s.shardFor(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	stored := shard.records[key]
	if offset >= len(stored) {
		return []domain.MetricRecord{}, nil
	}

	stored = stored[offset:]
	if limit > 0 && limit < len(stored) {
		stored = stored[:limit]
	}

	// Copy so callers never alias the shard's backing array.
	fetched := make([]domain.MetricRecord, len(stored))
	copy(fetched, stored)
	return fetched, nil
}

func (s *MemoryStore) CountMetrics(ctx context.Context, key string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	shard := s.shardFor(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	return len(shard.records[key]), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
