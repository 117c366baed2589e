package service

import "errors"

// Ошибки сервисов, которые проверяются вызывающей стороной через errors.Is
var (
	// ErrNoFreeQuestion — банк задач раз за разом отдает платные задачи
	ErrNoFreeQuestion = errors.New("no free question found")
	// ErrPostInProgress — другой процесс уже публикует пост
	ErrPostInProgress = errors.New("post is already being published")
)
