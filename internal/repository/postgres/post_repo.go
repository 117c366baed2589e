package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	apperrors "github.com/yourusername/leetcode-bot/internal/pkg/errors"
)

// PostRepo реализует repository.PostRepository
type PostRepo struct {
	db *gorm.DB
}

// NewPostRepo создает новый репозиторий постов
func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db: db}
}

// CreateWithQuestions сохраняет пост и его задачи в одной транзакции,
// чтобы конкурентный читатель никогда не увидел пост без части уровней
func (r *PostRepo) CreateWithQuestions(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translateError(tx.Create(post).Error)
	})
}

// SetMessageID записывает идентификатор доставленного сообщения
func (r *PostRepo) SetMessageID(ctx context.Context, postID uint, messageID string) error {
	result := r.db.WithContext(ctx).Model(&entity.Post{}).
		Where("id = ?", postID).
		Update("message_id", messageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет пост вместе с задачами. Используется только для постов,
// анонс которых так и не был отправлен.
func (r *PostRepo) Delete(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&entity.PostQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Post{}, postID).Error
	})
}

// GetByMessageID возвращает доставленный пост вместе с задачами
func (r *PostRepo) GetByMessageID(ctx context.Context, messageID string) (*entity.Post, error) {
	if messageID == "" {
		return nil, apperrors.ErrNotFound
	}

	var post entity.Post
	err := r.db.WithContext(ctx).
		Preload("Questions").
		Where("message_id = ?", messageID).
		First(&post).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}
