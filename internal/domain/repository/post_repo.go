package repository

import (
	"context"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
)

// PostRepository определяет методы для работы с публикациями
type PostRepository interface {
	// CreateWithQuestions атомарно сохраняет пост вместе со всеми его задачами
	CreateWithQuestions(ctx context.Context, post *entity.Post) error
	SetMessageID(ctx context.Context, postID uint, messageID string) error
	Delete(ctx context.Context, postID uint) error
	// GetByMessageID возвращает доставленный пост с задачами
	GetByMessageID(ctx context.Context, messageID string) (*entity.Post, error)
}
