package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Ensure возвращает пользователя по chatID, создавая его при необходимости.
// Если имя в чате изменилось, оно обновляется на месте.
func (r *UserRepo) Ensure(ctx context.Context, chatID, name string) (*entity.User, error) {
	db := r.db.WithContext(ctx)

	var user entity.User
	err := db.Where("chat_id = ?", chatID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = entity.User{ChatID: chatID, Name: name}
		if err := db.Create(&user).Error; err != nil {
			return nil, translateError(err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	if user.Name != name {
		if err := db.Model(&entity.User{}).Where("id = ?", user.ID).Update("name", name).Error; err != nil {
			return nil, err
		}
		user.Name = name
	}
	return &user, nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}
