package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
)

// SolutionRepo реализует repository.SolutionRepository
type SolutionRepo struct {
	db *gorm.DB
}

// NewSolutionRepo создает новый репозиторий решений
func NewSolutionRepo(db *gorm.DB) *SolutionRepo {
	return &SolutionRepo{db: db}
}

// GetBySubmissionID возвращает решение по идентификатору отправки вместе с владельцем
func (r *SolutionRepo) GetBySubmissionID(ctx context.Context, submissionID string) (*entity.Solution, error) {
	var solution entity.Solution
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("submission_id = ?", submissionID).
		First(&solution).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &solution, nil
}

// ExistsForUserQuestion проверяет, засчитана ли пользователю задача в любом из постов
func (r *SolutionRepo) ExistsForUserQuestion(ctx context.Context, userID uint, questionSlug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Solution{}).
		Where("user_id = ? AND question_slug = ?", userID, questionSlug).
		Count(&count).Error
	return count > 0, err
}

// CreateBatch сохраняет пакет решений в одной транзакции.
// Нарушение уникальности откатывает весь пакет и возвращается как ErrConflict.
func (r *SolutionRepo) CreateBatch(ctx context.Context, solutions []entity.Solution) error {
	if len(solutions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range solutions {
			// Связанные User и PostQuestion уже существуют, пересохранять их не нужно
			if err := tx.Omit(clause.Associations).Create(&solutions[i]).Error; err != nil {
				return translateError(err)
			}
		}
		return nil
	})
}

// CountByUserSince считает решения пользователя, принятые строго после since
func (r *SolutionRepo) CountByUserSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Solution{}).
		Where("user_id = ? AND accepted_at > ?", userID, since).
		Count(&count).Error
	return count, err
}

type solverRow struct {
	UserID uint
	Solved int64
}

// TopSolversSince возвращает лучших участников по числу решений после since.
// При равенстве выше тот, кто раньше принес первое решение в окне, затем меньший ID.
func (r *SolutionRepo) TopSolversSince(ctx context.Context, since time.Time, limit int) ([]entity.SolverScore, error) {
	db := r.db.WithContext(ctx)

	var rows []solverRow
	err := db.Model(&entity.Solution{}).
		Select("user_id, COUNT(*) AS solved").
		Where("accepted_at > ?", since).
		Group("user_id").
		Having("COUNT(*) > 0").
		Order("solved DESC, MIN(accepted_at) ASC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []entity.SolverScore{}, nil
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.UserID
	}
	var users []entity.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	scores := make([]entity.SolverScore, 0, len(rows))
	for _, row := range rows {
		user, ok := byID[row.UserID]
		if !ok {
			continue
		}
		scores = append(scores, entity.SolverScore{User: user, Solved: row.Solved})
	}
	return scores, nil
}
