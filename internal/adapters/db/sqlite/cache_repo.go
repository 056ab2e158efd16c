package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"tsgpt/internal/domain"
)

// CacheRepo is the translation memory: one row per (source, target, provider, model).
type CacheRepo struct{ *Repo }

func NewCacheRepo(db *sql.DB) *CacheRepo { return &CacheRepo{NewRepo(db)} }

func (r *CacheRepo) Get(ctx context.Context, src, tgtLang, provider, model string) (*domain.CacheEntry, error) {
	q := r.SQ.Select(
		"id",
		"source_text",
		"tgt_lang",
		"provider",
		"model",
		"translation",
		"created_at",
	).
		From("cache").
		Where(sq.Eq{
			"source_text": src,
			"tgt_lang":    tgtLang,
			"provider":    provider,
			"model":       model,
		}).
		Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var e domain.CacheEntry
	var created string
	if err := row.Scan(
		&e.ID,
		&e.SourceText,
		&e.TgtLang,
		&e.Provider,
		&e.Model,
		&e.Translation,
		&created,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &e, nil
}

func (r *CacheRepo) Put(ctx context.Context, entry *domain.CacheEntry) error {
	q := r.SQ.
		Insert("cache").
		Columns(
			"source_text",
			"tgt_lang",
			"provider",
			"model",
			"translation",
			"created_at",
		).
		Values(
			entry.SourceText,
			entry.TgtLang,
			entry.Provider,
			entry.Model,
			entry.Translation,
			time.Now().UTC().Format(time.RFC3339),
		).
		Suffix("ON CONFLICT(source_text, tgt_lang, provider, model) DO UPDATE SET translation=excluded.translation")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

// Count returns the number of remembered translations.
func (r *CacheRepo) Count(ctx context.Context) (int, error) {
	sqlStr, args, err := r.SQ.Select("COUNT(*)").From("cache").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&n)
	return n, err
}
