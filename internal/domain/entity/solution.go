package entity

import (
	"time"
)

// Solution — засчитанное решение задачи из поста.
// Одна отправка (SubmissionID) засчитывается один раз на всю систему,
// а одна задача (QuestionSlug) — один раз на пользователя.
type Solution struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uint          `gorm:"not null;uniqueIndex:idx_user_question" json:"user_id"`
	User           *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SubmissionID   string        `gorm:"size:64;not null;uniqueIndex" json:"submission_id"`
	PostQuestionID uint          `gorm:"not null;index" json:"post_question_id"`
	PostQuestion   *PostQuestion `gorm:"foreignKey:PostQuestionID" json:"post_question,omitempty"`
	QuestionSlug   string        `gorm:"size:255;not null;uniqueIndex:idx_user_question" json:"question_slug"`
	AcceptedAt     time.Time     `gorm:"not null;index" json:"accepted_at"`
}

// TableName определяет имя таблицы для GORM
func (Solution) TableName() string {
	return "solutions"
}

// SolverScore — строка лидерборда: пользователь и число решений в окне
type SolverScore struct {
	User   User
	Solved int64
}
