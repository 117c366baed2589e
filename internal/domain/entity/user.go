package entity

import (
	"time"
)

// User представляет участника чата
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// ChatID — идентификатор пользователя в Telegram
	ChatID    string    `gorm:"size:64;not null;uniqueIndex" json:"chat_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}
