package domain

import "context"

// MaxKeyBytes bounds the length of a caller-chosen metric key.
const MaxKeyBytes = 4096

type MetricRecord struct {
	Key        string  `json:"key"`
	Value      float64 `json:"value"`
	OccurredAt int64   `json:"occurred_at"`
}

type MetricStore interface {
	Init() error
	StoreMetric(ctx context.Context, record MetricRecord) error
	GetMetrics(ctx context.Context, key string, limit, offset int) ([]MetricRecord, error)
	CountMetrics(ctx context.Context, key string) (int, error)
	Close() error
}
