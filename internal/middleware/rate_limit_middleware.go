package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests — максимальное количество запросов за Window
	MaxRequests int
	// Window — временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix — префикс для ключей в Redis
	KeyPrefix string
}

// DefaultAPIRateLimitConfig возвращает конфигурацию для публичного API
func DefaultAPIRateLimitConfig(perMinute int) RateLimitConfig {
	if perMinute <= 0 {
		perMinute = 60
	}
	return RateLimitConfig{
		MaxRequests: perMinute,
		Window:      time.Minute,
		KeyPrefix:   "rl:api",
	}
}

// HitCounter считает обращения по ключу в пределах окна
type HitCounter interface {
	// Hit увеличивает счётчик и возвращает новое значение и оставшееся время окна
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisHitCounter хранит счётчики в Redis (INCR + EXPIRE)
type RedisHitCounter struct {
	client redis.UniversalClient
}

// NewRedisHitCounter создает счётчик поверх клиента Redis
func NewRedisHitCounter(client redis.UniversalClient) *RedisHitCounter {
	return &RedisHitCounter{client: client}
}

// Hit реализует HitCounter
func (r *RedisHitCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	// Первый запрос в окне — устанавливаем TTL
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, err
		}
	}
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return count, ttl, nil
}

// RateLimiter создаёт middleware для rate limiting
type RateLimiter struct {
	counter HitCounter
	log     logrus.FieldLogger
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(counter HitCounter, log logrus.FieldLogger) *RateLimiter {
	return &RateLimiter{counter: counter, log: log}
}

// LimitByIP ограничивает количество запросов с одного IP ко всей группе маршрутов
func (rl *RateLimiter) LimitByIP(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := fmt.Sprintf("%s:%s", cfg.KeyPrefix, clientIP)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, ttl, err := rl.counter.Hit(ctx, key, cfg.Window)
		if err != nil && count == 0 {
			// При ошибке Redis пропускаем запрос (fail-open), но логируем
			rl.log.WithError(err).WithField("key", key).Warn("Rate limiter недоступен, запрос пропущен")
			c.Next()
			return
		}
		if err != nil {
			rl.log.WithError(err).WithField("key", key).Warn("Не удалось установить TTL счётчика")
		}

		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		retryAfter := int(ttl.Seconds())

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", retryAfter))

		if int(count) > cfg.MaxRequests {
			rl.log.WithFields(logrus.Fields{"ip": clientIP, "count": count, "limit": cfg.MaxRequests}).
				Info("Превышен лимит запросов")

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"error_type":  "rate_limited",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
