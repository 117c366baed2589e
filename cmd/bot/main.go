package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/leetcode-bot/internal/config"
	"github.com/yourusername/leetcode-bot/internal/domain/repository"
	"github.com/yourusername/leetcode-bot/internal/handler"
	"github.com/yourusername/leetcode-bot/internal/leetcode"
	"github.com/yourusername/leetcode-bot/internal/metrics"
	"github.com/yourusername/leetcode-bot/internal/middleware"
	pgRepo "github.com/yourusername/leetcode-bot/internal/repository/postgres"
	redisRepo "github.com/yourusername/leetcode-bot/internal/repository/redis"
	"github.com/yourusername/leetcode-bot/internal/scheduler"
	"github.com/yourusername/leetcode-bot/internal/service"
	"github.com/yourusername/leetcode-bot/internal/service/submission"
	"github.com/yourusername/leetcode-bot/internal/telegram"
	"github.com/yourusername/leetcode-bot/pkg/database"
	"github.com/yourusername/leetcode-bot/pkg/logger"
)

func main() {
	postNow := flag.Bool("post-now", false, "опубликовать задачи сразу после запуска")
	issueToken := flag.String("issue-admin-token", "", "выпустить токен администратора для указанного субъекта и выйти")
	tokenTTL := flag.Duration("admin-token-ttl", 30*24*time.Hour, "срок действия токена администратора")
	flag.Parse()

	bootLog := logger.New("info", "json")

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	bootLog.Infof("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath, bootLog)
	if err != nil {
		bootLog.WithError(err).Fatal("Failed to load config")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if *issueToken != "" {
		if err := printAdminToken(cfg.Admin, *issueToken, *tokenTTL); err != nil {
			log.WithError(err).Fatal("Failed to issue admin token")
		}
		return
	}

	if err := run(cfg, log, *postNow); err != nil {
		log.WithError(err).Fatal("Bot stopped with error")
	}
	log.Info("Bot exited properly")
}

func printAdminToken(cfg config.AdminConfig, subject string, ttl time.Duration) error {
	if cfg.JWTSecret == "" {
		return errors.New("admin.jwt_secret is not set")
	}
	token, err := middleware.NewAdminAuth(cfg.JWTSecret).IssueToken(subject, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func run(cfg *config.Config, log *logrus.Logger, postNow bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Инициализируем подключение к базе
	db, err := database.Open(cfg.Database, logger.Component(log, "database"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := database.GetSQLDB(db)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// Redis необязателен: без него нет кеша отправок, распределенной блокировки и rate limit
	var (
		redisClient redis.UniversalClient
		cacheRepo   repository.CacheRepository
	)
	if cfg.Redis.Enabled {
		redisClient, err = database.NewUniversalRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()

		repo, err := redisRepo.NewCacheRepo(redisClient)
		if err != nil {
			return fmt.Errorf("failed to initialize cache repo: %w", err)
		}
		cacheRepo = repo
		log.Info("Successfully connected to Redis")
	}

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Репозитории
	postRepo := pgRepo.NewPostRepo(db)
	userRepo := pgRepo.NewUserRepo(db)
	solutionRepo := pgRepo.NewSolutionRepo(db)

	// Клиент LeetCode
	lc := leetcode.NewClient(&http.Client{Timeout: cfg.LeetCode.Timeout}, leetcode.Options{
		GraphQLURL:  cfg.LeetCode.GraphQLURL,
		BaseURL:     cfg.LeetCode.BaseURL,
		CSRFToken:   cfg.LeetCode.CSRFToken,
		Session:     cfg.LeetCode.Session,
		UserAgent:   cfg.LeetCode.UserAgent,
		Timeout:     cfg.LeetCode.Timeout,
		MinInterval: cfg.LeetCode.MinInterval,
	}, m)
	var resolver submission.Resolver = lc
	if cacheRepo != nil {
		resolver = leetcode.NewCachedResolver(lc, cacheRepo, cfg.LeetCode.SlugCacheTTL, logger.Component(log, "leetcode"))
	}

	// Telegram
	bot, err := telegram.New(cfg.Bot.Token, telegram.Options{
		ChatID:       cfg.Bot.ChatID,
		PollTimeout:  cfg.Bot.PollTimeout,
		ReplyTimeout: cfg.Bot.ReplyTimeout,
	}, logger.Component(log, "telegram"))
	if err != nil {
		return err
	}
	log.WithField("username", bot.Username()).Info("Authorized in Telegram")

	// Сервисы
	validator := submission.NewValidator(resolver, solutionRepo, submission.Config{
		LookupTimeout: cfg.LeetCode.Timeout,
	}, logger.Component(log, "validator"))
	leaderboard := service.NewLeaderboardService(solutionRepo, service.LeaderboardConfig{
		Window: cfg.Scoring.Window,
		Size:   cfg.Scoring.LeaderboardSize,
	})
	posting := service.NewPostingService(lc, bot, postRepo, userRepo, validator, leaderboard, cacheRepo, m,
		service.PostingConfig{
			Messages:       cfg.Bot.Messages,
			MaxPaidRetries: cfg.LeetCode.MaxPaidRetries,
			MaxCandidates:  cfg.Scoring.MaxCandidates,
			LockTTL:        cfg.Bot.PostTimeout,
		}, logger.Component(log, "posting"))

	// Планировщик
	loc, err := cfg.Bot.Location()
	if err != nil {
		return err
	}
	sched, err := scheduler.New(cfg.Bot.Schedule, loc, posting, cfg.Bot.PostTimeout, logger.Component(log, "scheduler"))
	if err != nil {
		return err
	}
	sched.Start()

	// HTTP API
	var srv *http.Server
	if cfg.Server.Enabled {
		srv = newHTTPServer(cfg, log, sqlDB, leaderboard, posting, redisClient, registry)
		go func() {
			log.WithField("port", cfg.Server.Port).Info("HTTP server started")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("HTTP server failed")
				cancel()
			}
		}()
	}

	if postNow {
		go func() {
			postCtx, postCancel := context.WithTimeout(ctx, cfg.Bot.PostTimeout)
			defer postCancel()
			if _, err := posting.PublishPost(postCtx); err != nil {
				log.WithError(err).Error("Startup post failed")
			}
		}()
	}

	// Прием ответов блокирует до сигнала остановки
	bot.Run(ctx, posting)
	log.Info("Shutting down...")

	// Создаем контекст с таймаутом для graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	sched.Stop(shutdownCtx)
	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}
	return nil
}

func newHTTPServer(
	cfg *config.Config,
	log *logrus.Logger,
	db handler.Pinger,
	leaderboard *service.LeaderboardService,
	posting *service.PostingService,
	redisClient redis.UniversalClient,
	registry *prometheus.Registry,
) *http.Server {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpLog := logger.Component(log, "http")

	deps := handler.RouterDeps{
		Health:       handler.NewHealthHandler(db),
		Leaderboard:  handler.NewLeaderboardHandler(leaderboard, httpLog),
		Gatherer:     registry,
		AllowOrigins: cfg.Server.AllowOrigins,
		DefaultLimit: cfg.Scoring.LeaderboardSize,
		MaxLimit:     100,
		RateLimit:    middleware.DefaultAPIRateLimitConfig(cfg.Server.RateLimit),
	}
	if redisClient != nil {
		deps.RateLimiter = middleware.NewRateLimiter(middleware.NewRedisHitCounter(redisClient), httpLog)
	}
	if cfg.Admin.JWTSecret != "" {
		deps.Admin = handler.NewAdminHandler(posting, httpLog)
		deps.AdminAuth = middleware.NewAdminAuth(cfg.Admin.JWTSecret)
	}

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler.NewRouter(deps),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
}
