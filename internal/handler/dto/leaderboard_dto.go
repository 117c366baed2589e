package dto

import "time"

// LeaderboardEntryDTO — строка лидерборда
type LeaderboardEntryDTO struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"user_id"`
	ChatID string `json:"chat_id"`
	Name   string `json:"name"`
	Solved int64  `json:"solved"`
}

// LeaderboardResponse — ответ GET /api/leaderboard
type LeaderboardResponse struct {
	Window  string                `json:"window"`
	Since   time.Time             `json:"since"`
	Entries []LeaderboardEntryDTO `json:"entries"`
}
