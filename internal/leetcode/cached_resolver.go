package leetcode

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/leetcode-bot/internal/domain/repository"
	apperrors "github.com/yourusername/leetcode-bot/internal/pkg/errors"
)

const submissionCachePrefix = "leetcode:submission:"

// SubmissionResolver определяет поиск задачи по идентификатору отправки
type SubmissionResolver interface {
	ResolveSubmission(ctx context.Context, submissionID string) (string, error)
}

// CachedResolver кеширует соответствие отправка → задача. Оно не меняется,
// поэтому повторная проверка той же ссылки не ходит в LeetCode.
// Ошибки кеша не мешают проверке, запрос просто уходит дальше.
type CachedResolver struct {
	next  SubmissionResolver
	cache repository.CacheRepository
	ttl   time.Duration
	log   logrus.FieldLogger
}

// NewCachedResolver оборачивает next кешем
func NewCachedResolver(next SubmissionResolver, cache repository.CacheRepository, ttl time.Duration, log logrus.FieldLogger) *CachedResolver {
	return &CachedResolver{next: next, cache: cache, ttl: ttl, log: log}
}

// ResolveSubmission реализует SubmissionResolver
func (r *CachedResolver) ResolveSubmission(ctx context.Context, submissionID string) (string, error) {
	key := submissionCachePrefix + submissionID

	slug, err := r.cache.Get(ctx, key)
	if err == nil && slug != "" {
		return slug, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		r.log.WithError(err).WithField("submission_id", submissionID).Warn("Ошибка чтения кеша отправок")
	}

	slug, err = r.next.ResolveSubmission(ctx, submissionID)
	if err != nil {
		return "", err
	}

	if err := r.cache.Set(ctx, key, slug, r.ttl); err != nil {
		r.log.WithError(err).WithField("submission_id", submissionID).Warn("Ошибка записи в кеш отправок")
	}
	return slug, nil
}
