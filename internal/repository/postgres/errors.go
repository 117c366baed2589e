package postgres

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/yourusername/leetcode-bot/internal/pkg/errors"
)

// translateError приводит ошибки GORM к общим ошибкам приложения
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrConflict
	}
	return err
}
