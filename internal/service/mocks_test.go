package service

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
)

// ============================================================================
// Моки зависимостей сервисов
// ============================================================================

// MockQuestionSource реализует QuestionSource
type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) FetchRandomQuestion(ctx context.Context, difficulty entity.Difficulty) (*entity.Question, error) {
	args := m.Called(ctx, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

// MockTransport реализует Transport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) SendAnnouncement(ctx context.Context, text string, buttons []Button) (string, error) {
	args := m.Called(ctx, text, buttons)
	return args.String(0), args.Error(1)
}

func (m *MockTransport) SendReply(ctx context.Context, replyToMessageID string, text string) error {
	args := m.Called(ctx, replyToMessageID, text)
	return args.Error(0)
}

// MockPostRepository реализует repository.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreateWithQuestions(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) SetMessageID(ctx context.Context, postID uint, messageID string) error {
	args := m.Called(ctx, postID, messageID)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, postID uint) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostRepository) GetByMessageID(ctx context.Context, messageID string) (*entity.Post, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

// MockSolutionRepository реализует repository.SolutionRepository
type MockSolutionRepository struct {
	mock.Mock
}

func (m *MockSolutionRepository) GetBySubmissionID(ctx context.Context, submissionID string) (*entity.Solution, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Solution), args.Error(1)
}

func (m *MockSolutionRepository) ExistsForUserQuestion(ctx context.Context, userID uint, questionSlug string) (bool, error) {
	args := m.Called(ctx, userID, questionSlug)
	return args.Bool(0), args.Error(1)
}

func (m *MockSolutionRepository) CreateBatch(ctx context.Context, solutions []entity.Solution) error {
	args := m.Called(ctx, solutions)
	return args.Error(0)
}

func (m *MockSolutionRepository) CountByUserSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSolutionRepository) TopSolversSince(ctx context.Context, since time.Time, limit int) ([]entity.SolverScore, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SolverScore), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, owner, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) ReleaseLock(ctx context.Context, key, owner string) (bool, error) {
	args := m.Called(ctx, key, owner)
	return args.Bool(0), args.Error(1)
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Ensure(ctx context.Context, chatID, name string) (*entity.User, error) {
	args := m.Called(ctx, chatID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
