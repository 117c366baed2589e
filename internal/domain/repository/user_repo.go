package repository

import (
	"context"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
)

// UserRepository определяет методы для работы с участниками чата
type UserRepository interface {
	// Ensure возвращает пользователя по идентификатору в чате, создавая его при первом
	// появлении. Имя обновляется, если изменилось.
	Ensure(ctx context.Context, chatID, name string) (*entity.User, error)
	GetByID(ctx context.Context, id uint) (*entity.User, error)
}
