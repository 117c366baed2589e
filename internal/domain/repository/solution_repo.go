package repository

import (
	"context"
	"time"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
)

// SolutionRepository определяет методы для работы с засчитанными решениями
type SolutionRepository interface {
	// GetBySubmissionID возвращает решение вместе с его владельцем
	GetBySubmissionID(ctx context.Context, submissionID string) (*entity.Solution, error)
	ExistsForUserQuestion(ctx context.Context, userID uint, questionSlug string) (bool, error)
	// CreateBatch сохраняет все решения в одной транзакции: либо все, либо ни одного
	CreateBatch(ctx context.Context, solutions []entity.Solution) error

	// Запросы лидерборда. Учитываются решения строго после since.
	CountByUserSince(ctx context.Context, userID uint, since time.Time) (int64, error)
	TopSolversSince(ctx context.Context, since time.Time, limit int) ([]entity.SolverScore, error)
}
