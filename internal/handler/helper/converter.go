package helper

import (
	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/handler/dto"
)

// ToLeaderboardEntries преобразует строки лидерборда в DTO, места начинаются с 1
func ToLeaderboardEntries(top []entity.SolverScore) []dto.LeaderboardEntryDTO {
	entries := make([]dto.LeaderboardEntryDTO, len(top))
	for i, s := range top {
		entries[i] = dto.LeaderboardEntryDTO{
			Rank:   i + 1,
			UserID: s.User.ID,
			ChatID: s.User.ChatID,
			Name:   s.User.Name,
			Solved: s.Solved,
		}
	}
	return entries
}

// ToPostDTO преобразует пост в DTO
func ToPostDTO(post *entity.Post) dto.PostDTO {
	questions := make([]dto.PostQuestionDTO, len(post.Questions))
	for i, q := range post.Questions {
		questions[i] = dto.PostQuestionDTO{
			Difficulty: string(q.Difficulty),
			Slug:       q.Slug,
			Title:      q.Title,
		}
	}
	return dto.PostDTO{
		ID:        post.ID,
		MessageID: post.MessageID,
		CreatedAt: post.CreatedAt,
		Questions: questions,
	}
}
