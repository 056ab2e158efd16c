package ports

import (
	"context"
	"tsgpt/internal/domain"
)

type CacheRepository interface {
	Get(ctx context.Context, src, tgtLang, provider, model string) (*domain.CacheEntry, error)
	Put(ctx context.Context, entry *domain.CacheEntry) error
}
