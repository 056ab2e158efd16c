package translator

import (
	"context"
	"log/slog"

	"tsgpt/internal/domain"
	"tsgpt/internal/ports"
)

// Memory answers phrases from a translation cache and forwards only the
// misses to the wrapped translator. Cache failures are logged and otherwise
// ignored; they never fail a batch.
type Memory struct {
	Next   ports.Translator
	Cache  ports.CacheRepository
	Logger *slog.Logger

	provider, model string
}

func NewMemory(next ports.Translator, cache ports.CacheRepository, logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Memory{Next: next, Cache: cache, Logger: logger.With(slog.String("component", "memory")), provider: "unknown"}
	if d, ok := next.(ports.Describer); ok {
		m.provider, m.model = d.Describe()
	}
	return m
}

func (m *Memory) Describe() (string, string) { return m.provider, m.model }

func (m *Memory) TranslateBatch(ctx context.Context, phrases []string, targetLang, targetCode, contextHint string) (map[string]string, error) {
	out := make(map[string]string, len(phrases))
	var misses []string
	for _, p := range phrases {
		ce, err := m.Cache.Get(ctx, p, targetCode, m.provider, m.model)
		if err != nil {
			m.Logger.Warn("cache lookup failed", "error", err)
		}
		if ce != nil && ce.Translation != "" {
			out[p] = ce.Translation
			continue
		}
		misses = append(misses, p)
	}
	if len(misses) == 0 {
		m.Logger.Debug("batch served from cache", "phrases", len(phrases))
		return out, nil
	}
	got, err := m.Next.TranslateBatch(ctx, misses, targetLang, targetCode, contextHint)
	if err != nil {
		return nil, err
	}
	for _, p := range misses {
		tr, ok := got[p]
		if !ok || tr == "" {
			continue
		}
		out[p] = tr
		if err := m.Cache.Put(ctx, &domain.CacheEntry{
			SourceText:  p,
			TgtLang:     targetCode,
			Provider:    m.provider,
			Model:       m.model,
			Translation: tr,
		}); err != nil {
			m.Logger.Warn("cache store failed", "error", err)
		}
	}
	return out, nil
}
