package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrConflict используется при нарушении уникальности (например, отправка уже засчитана).
	ErrConflict = errors.New("resource state conflict")

	// ErrUnavailable используется, когда внешний сервис не ответил или ответил ошибкой.
	ErrUnavailable = errors.New("upstream unavailable")
)
