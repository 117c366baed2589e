package dto

import "time"

// PostQuestionDTO — задача опубликованного поста
type PostQuestionDTO struct {
	Difficulty string `json:"difficulty"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
}

// PostDTO — ответ на ручную публикацию
type PostDTO struct {
	ID        uint              `json:"id"`
	MessageID string            `json:"message_id"`
	CreatedAt time.Time         `json:"created_at"`
	Questions []PostQuestionDTO `json:"questions"`
}
