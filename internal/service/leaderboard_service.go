package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/domain/repository"
)

// DefaultLeaderboardWindow — окно подсчета очков, три месяца
const DefaultLeaderboardWindow = 90 * 24 * time.Hour

// LeaderboardConfig содержит параметры лидерборда
type LeaderboardConfig struct {
	Window time.Duration
	// Size — сколько строк показывать по умолчанию
	Size int
}

// LeaderboardService считает очки участников за скользящее окно
type LeaderboardService struct {
	solutions repository.SolutionRepository
	config    LeaderboardConfig
	now       func() time.Time
}

// NewLeaderboardService создает сервис лидерборда
func NewLeaderboardService(solutions repository.SolutionRepository, config LeaderboardConfig) *LeaderboardService {
	if config.Window <= 0 {
		config.Window = DefaultLeaderboardWindow
	}
	if config.Size <= 0 {
		config.Size = 10
	}
	return &LeaderboardService{
		solutions: solutions,
		config:    config,
		now:       time.Now,
	}
}

// Size возвращает размер лидерборда по умолчанию
func (s *LeaderboardService) Size() int {
	return s.config.Size
}

// Window возвращает окно подсчета очков
func (s *LeaderboardService) Window() time.Duration {
	return s.config.Window
}

// since — левая граница окна. Решения ровно на границе не учитываются.
func (s *LeaderboardService) since() time.Time {
	return s.now().UTC().Add(-s.config.Window)
}

// UserScore возвращает число решений пользователя в окне
func (s *LeaderboardService) UserScore(ctx context.Context, userID uint) (int64, error) {
	score, err := s.solutions.CountByUserSince(ctx, userID, s.since())
	if err != nil {
		return 0, fmt.Errorf("count solutions of user %d: %w", userID, err)
	}
	return score, nil
}

// TopSolvers возвращает не больше limit участников с ненулевым счетом,
// по убыванию числа решений. При limit <= 0 используется размер из конфигурации.
func (s *LeaderboardService) TopSolvers(ctx context.Context, limit int) ([]entity.SolverScore, error) {
	if limit <= 0 {
		limit = s.config.Size
	}
	top, err := s.solutions.TopSolversSince(ctx, s.since(), limit)
	if err != nil {
		return nil, fmt.Errorf("get top solvers: %w", err)
	}
	return top, nil
}
