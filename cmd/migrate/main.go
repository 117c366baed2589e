package main

import (
	"flag"
	"os"

	gormlogger "gorm.io/gorm/logger"

	"github.com/yourusername/leetcode-bot/internal/config"
	"github.com/yourusername/leetcode-bot/pkg/database"
	"github.com/yourusername/leetcode-bot/pkg/logger"
)

// Утилита обслуживания схемы PostgreSQL: применить миграции, показать версию
// или сбросить dirty-состояние после неудачной миграции.
func main() {
	force := flag.Int("force", -1, "выставить версию схемы вручную (сбрасывает dirty-состояние)")
	showVersion := flag.Bool("version", false, "показать текущую версию схемы")
	flag.Parse()

	log := logger.New("info", "text")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("Миграции нужны только для PostgreSQL, текущий драйвер: %s", cfg.Database.Driver)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), gormlogger.Warn)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	dir := cfg.Database.MigrationsDir

	switch {
	case *force >= 0:
		log.Infof("Принудительно выставляем версию миграций %d...", *force)
		if err := database.ForceMigrationVersion(db, dir, *force); err != nil {
			log.WithError(err).Fatal("Failed to force version")
		}
		log.Info("Dirty-состояние сброшено, можно запускать бота.")
	case *showVersion:
		version, dirty, err := database.MigrationVersion(db, dir)
		if err != nil {
			log.WithError(err).Fatal("Failed to read version")
		}
		log.WithField("dirty", dirty).Infof("Текущая версия схемы: %d", version)
	default:
		if err := database.MigrateDB(db, dir, log); err != nil {
			log.WithError(err).Fatal("Failed to migrate database")
		}
	}
}
