package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
)

// NewSQLiteDB открывает базу SQLite (файл или ":memory:") и создает схему.
// Используется для локального запуска и тестов репозиториев.
func NewSQLiteDB(path string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}

	sqlDB, err := GetSQLDB(db)
	if err != nil {
		return nil, err
	}
	// SQLite не любит параллельных писателей, а ":memory:" живет только в одном соединении
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate создает таблицы по тегам сущностей. Для PostgreSQL схемой владеют
// SQL-миграции, см. MigrateDB.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.Post{},
		&entity.PostQuestion{},
		&entity.User{},
		&entity.Solution{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate schema: %w", err)
	}
	return nil
}
