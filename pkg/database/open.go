package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/leetcode-bot/internal/config"
)

// Open подключается к базе, выбранной в конфигурации, и приводит схему к актуальной
func Open(cfg config.DatabaseConfig, log logrus.FieldLogger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.LogSQL {
		logLevel = logger.Info
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		log.WithField("path", cfg.SQLitePath).Info("Используется SQLite")
		return NewSQLiteDB(cfg.SQLitePath, logLevel)
	case config.DriverPostgres, "":
		db, err := NewPostgresDB(cfg.PostgresConnectionString(), logLevel)
		if err != nil {
			return nil, err
		}
		if err := MigrateDB(db, cfg.MigrationsDir, log); err != nil {
			return nil, err
		}
		return db, nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
}
