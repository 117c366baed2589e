package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Драйверы базы данных
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config хранит все настройки приложения
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	LeetCode LeetCodeConfig `mapstructure:"leetcode"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   ServerConfig   `mapstructure:"server"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`
}

// BotConfig содержит настройки Telegram-бота и расписания публикаций
type BotConfig struct {
	Token  string `mapstructure:"token" validate:"required"`
	ChatID int64  `mapstructure:"chat_id" validate:"required"`
	// Messages — вступительные фразы анонса, выбирается случайная
	Messages []string `mapstructure:"messages" validate:"min=1,dive,required"`
	// Schedule — cron-выражение публикаций (по умолчанию понедельник и четверг в 7:00)
	Schedule     string        `mapstructure:"schedule" validate:"required"`
	Timezone     string        `mapstructure:"timezone"`
	ReplyTimeout time.Duration `mapstructure:"reply_timeout" validate:"gt=0"`
	PostTimeout  time.Duration `mapstructure:"post_timeout" validate:"gt=0"`
	// PollTimeout — таймаут long polling getUpdates в секундах
	PollTimeout int `mapstructure:"poll_timeout" validate:"gte=0"`
}

// LeetCodeConfig содержит настройки клиента банка задач
type LeetCodeConfig struct {
	GraphQLURL string `mapstructure:"graphql_url" validate:"required,url"`
	BaseURL    string `mapstructure:"base_url" validate:"required,url"`
	// CSRFToken и Session нужны для чтения отправок (submissionDetails)
	CSRFToken string        `mapstructure:"csrf_token"`
	Session   string        `mapstructure:"session"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	// MaxPaidRetries — сколько раз перезапрашивать задачу, если попалась платная
	MaxPaidRetries int           `mapstructure:"max_paid_retries" validate:"gte=0"`
	SlugCacheTTL   time.Duration `mapstructure:"slug_cache_ttl"`
	// MinInterval — минимальная пауза между запросами к LeetCode
	MinInterval time.Duration `mapstructure:"min_interval" validate:"gte=0"`
}

// ScoringConfig содержит настройки подсчета очков
type ScoringConfig struct {
	Window          time.Duration `mapstructure:"window" validate:"gt=0"`
	MaxCandidates   int           `mapstructure:"max_candidates" validate:"gt=0"`
	LeaderboardSize int           `mapstructure:"leaderboard_size" validate:"gt=0"`
}

// DatabaseConfig содержит настройки подключения к базе
type DatabaseConfig struct {
	Driver        string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	Host          string `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user" validate:"required_if=Driver postgres"`
	Password      string `mapstructure:"password"`
	DBName        string `mapstructure:"dbname" validate:"required_if=Driver postgres"`
	SSLMode       string `mapstructure:"sslmode"`
	SQLitePath    string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
	MigrationsDir string `mapstructure:"migrations_dir"`
	LogSQL        bool   `mapstructure:"log_sql"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Enabled: без Redis бот работает, но без кеша отправок, блокировки публикации и rate limit
	Enabled bool `mapstructure:"enabled"`

	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Для 'single' используется первый адрес.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс

	// PingTimeout ограничивает проверку соединения при старте
	PingTimeout time.Duration `mapstructure:"ping_timeout"`
}

// ServerConfig содержит настройки HTTP сервера (health, метрики, API лидерборда)
type ServerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	// AllowOrigins — источники CORS для /api
	AllowOrigins []string `mapstructure:"allow_origins"`
	// RateLimit — запросов в минуту с одного IP к /api
	RateLimit int `mapstructure:"rate_limit"`
}

// AdminConfig содержит настройки административного API
type AdminConfig struct {
	// JWTSecret — ключ HS256 для токенов администратора. Пустой ключ отключает admin API.
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Location возвращает часовой пояс расписания (UTC, если не задан)
func (b *BotConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Timezone)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("bot.messages", []string{
		"Are you up for the today's challenge?",
		"Finished your morning coffee? How about a leetcode problem?",
	})
	vip.SetDefault("bot.schedule", "0 7 * * 1,4")
	vip.SetDefault("bot.timezone", "UTC")
	vip.SetDefault("bot.reply_timeout", "2m")
	vip.SetDefault("bot.post_timeout", "5m")
	vip.SetDefault("bot.poll_timeout", 60)

	vip.SetDefault("leetcode.graphql_url", "https://leetcode.com/graphql/")
	vip.SetDefault("leetcode.base_url", "https://leetcode.com")
	vip.SetDefault("leetcode.timeout", "60s")
	vip.SetDefault("leetcode.max_paid_retries", 10)
	vip.SetDefault("leetcode.slug_cache_ttl", "168h")
	vip.SetDefault("leetcode.min_interval", "500ms")

	vip.SetDefault("scoring.window", "2160h") // 90 дней
	vip.SetDefault("scoring.max_candidates", 3)
	vip.SetDefault("scoring.leaderboard_size", 10)

	vip.SetDefault("database.driver", DriverPostgres)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.sqlite_path", "data/db.sqlite3")
	vip.SetDefault("database.migrations_dir", "migrations")

	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.ping_timeout", "5s")

	vip.SetDefault("server.enabled", true)
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 10)
	vip.SetDefault("server.write_timeout", 30)
	vip.SetDefault("server.rate_limit", 60)

	vip.SetDefault("log.level", "info")
	vip.SetDefault("log.format", "json")
}

func bindEnv(vip *viper.Viper) {
	// Привязка для секции Bot
	vip.BindEnv("bot.token", "BOT_TOKEN")
	vip.BindEnv("bot.chat_id", "CHAT_ID")
	vip.BindEnv("bot.schedule", "BOT_SCHEDULE")
	vip.BindEnv("bot.timezone", "BOT_TIMEZONE")

	// Привязка для секции LeetCode
	vip.BindEnv("leetcode.csrf_token", "LEETCODE_CSRF")
	vip.BindEnv("leetcode.session", "LEETCODE_SESSION")
	vip.BindEnv("leetcode.user_agent", "LEETCODE_USER_AGENT")

	// Привязка для секции Scoring
	vip.BindEnv("scoring.window", "SCORING_WINDOW")

	// Привязка для секции Database
	vip.BindEnv("database.driver", "DATABASE_DRIVER")
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")
	vip.BindEnv("database.sqlite_path", "DATABASE_SQLITE_PATH")

	// Привязка для секции Redis
	vip.BindEnv("redis.enabled", "REDIS_ENABLED")
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Привязка для Server и Admin
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("admin.jwt_secret", "ADMIN_JWT_SECRET")

	vip.BindEnv("log.level", "LOG_LEVEL")
	vip.BindEnv("log.format", "LOG_FORMAT")
}

// Load загружает конфигурацию: .env (если есть), затем файл, затем переменные окружения
func Load(configPath string, log logrus.FieldLogger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Не удалось прочитать .env: %v", err)
	}

	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния
	setDefaults(vip)
	bindEnv(vip)

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Файла может не быть: тогда работают переменные окружения и значения по умолчанию
		if err := vip.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
				log.Infof("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Warnf("Не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"chat_id":         cfg.Bot.ChatID,
		"schedule":        cfg.Bot.Schedule,
		"timezone":        cfg.Bot.Timezone,
		"database_driver": cfg.Database.Driver,
		"redis_enabled":   cfg.Redis.Enabled,
		"scoring_window":  cfg.Scoring.Window.String(),
		"server_enabled":  cfg.Server.Enabled,
		"admin_api":       cfg.Admin.JWTSecret != "",
	}).Debug("Загруженные значения конфигурации")

	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Bot.Location(); err != nil {
		return fmt.Errorf("invalid config: bot.timezone: %w", err)
	}
	return nil
}
