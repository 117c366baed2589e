package entity

import (
	"time"
)

// Post представляет одну публикацию с набором задач в чате
type Post struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// MessageID — идентификатор сообщения в Telegram. Пустой, пока анонс не доставлен.
	MessageID string         `gorm:"size:64;not null;default:'';index" json:"message_id"`
	Questions []PostQuestion `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Post) TableName() string {
	return "posts"
}

// FindQuestion ищет задачу поста по slug
func (p *Post) FindQuestion(slug string) *PostQuestion {
	for i := range p.Questions {
		if p.Questions[i].Slug == slug {
			return &p.Questions[i]
		}
	}
	return nil
}

// IsDelivered проверяет, что анонс поста был отправлен в чат
func (p *Post) IsDelivered() bool {
	return p.MessageID != ""
}

// PostQuestion — задача, предложенная в конкретном посте
type PostQuestion struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PostID     uint       `gorm:"not null;uniqueIndex:idx_post_difficulty" json:"post_id"`
	Slug       string     `gorm:"column:question_slug;size:255;not null;index" json:"question_slug"`
	Title      string     `gorm:"size:255;not null;default:''" json:"title"`
	Difficulty Difficulty `gorm:"size:10;not null;uniqueIndex:idx_post_difficulty" json:"difficulty"`
}

// TableName определяет имя таблицы для GORM
func (PostQuestion) TableName() string {
	return "post_questions"
}
