package entity

import (
	"fmt"
	"strings"
)

// Difficulty — уровень сложности задачи на LeetCode
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Difficulties возвращает уровни в порядке публикации
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty разбирает строку без учета регистра ("Easy", "easy", "EASY")
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// IsValid проверяет, что уровень входит в список известных
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Marker возвращает медаль, которой помечается кнопка задачи
func (d Difficulty) Marker() string {
	switch d {
	case DifficultyEasy:
		return "🥉"
	case DifficultyMedium:
		return "🥈"
	case DifficultyHard:
		return "🥇"
	}
	return "❔"
}
