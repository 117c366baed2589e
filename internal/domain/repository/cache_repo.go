package repository

import (
	"context"
	"time"
)

// CacheRepository определяет работу с кешем: кеш отправок LeetCode
// и распределенная блокировка публикации
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	// AcquireLock ставит блокировку key с владельцем owner, если ее еще нет
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	// ReleaseLock снимает блокировку, только если она все еще принадлежит owner
	ReleaseLock(ctx context.Context, key, owner string) (bool, error)
}
