package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching serialized analyses
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// BarcodeLookup resolves a barcode into a raw product record
type BarcodeLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (*RawProductRecord, error)
}

// ProductSearcher resolves a free-text product name into a raw product record
type ProductSearcher interface {
	SearchProduct(ctx context.Context, name string) (*RawProductRecord, error)
}

// AdvisoryProvider optionally supplies a health-score hint for a product.
// A nil hint or an error means no hint; the score stays fully deterministic.
type AdvisoryProvider interface {
	HealthScoreHint(ctx context.Context, product *NormalizedProductRecord) (*AdvisoryHint, error)
}

// HistoryRepository persists finished analyses
type HistoryRepository interface {
	Save(ctx context.Context, analysis *Analysis) error
	List(ctx context.Context, limit int) ([]HistoryEntry, error)
}
