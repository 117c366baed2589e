package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourusername/leetcode-bot/internal/middleware"
)

// RouterDeps содержит зависимости HTTP API
type RouterDeps struct {
	Health      *HealthHandler
	Leaderboard *LeaderboardHandler
	// Admin и AdminAuth могут быть nil, тогда admin API не регистрируется
	Admin     *AdminHandler
	AdminAuth *middleware.AdminAuth
	// RateLimiter может быть nil (Redis выключен)
	RateLimiter *middleware.RateLimiter
	RateLimit   middleware.RateLimitConfig
	Gatherer    prometheus.Gatherer

	AllowOrigins   []string
	DefaultLimit   int
	MaxLimit       int
	TrustedProxies []string
}

// NewRouter собирает маршруты HTTP API
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies(deps.TrustedProxies)

	router.GET("/healthz", deps.Health.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	if len(deps.AllowOrigins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.LimitByIP(deps.RateLimit))
	}

	leaderboard := api.Group("/leaderboard")
	leaderboard.Use(middleware.ExtractLimitQuery("limit", LimitContextKey, deps.DefaultLimit, deps.MaxLimit))
	{
		leaderboard.GET("", deps.Leaderboard.GetLeaderboard)
		leaderboard.GET("/export", deps.Leaderboard.ExportLeaderboard)
	}

	if deps.Admin != nil && deps.AdminAuth != nil {
		admin := api.Group("/admin")
		admin.Use(deps.AdminAuth.RequireAdmin())
		{
			admin.POST("/posts", deps.Admin.PublishPost)
		}
	}

	return router
}
