package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/service"
)

// MockPublisher реализует Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPost(ctx context.Context) (*entity.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("every monday", time.UTC, new(MockPublisher), time.Minute, silentLogger())
	assert.Error(t, err)
}

func TestScheduler_NextRunInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	s, err := New("0 7 * * 1,4", loc, new(MockPublisher), time.Minute, silentLogger())
	require.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	next := s.Next().In(loc)
	assert.Equal(t, 7, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.Contains(t, []time.Weekday{time.Monday, time.Thursday}, next.Weekday())
}

func TestScheduler_TickPublishesWithTimeout(t *testing.T) {
	publisher := new(MockPublisher)
	s, err := New("@daily", time.UTC, publisher, time.Minute, silentLogger())
	require.NoError(t, err)

	publisher.On("PublishPost", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return hasDeadline
	})).Return(&entity.Post{ID: 1, MessageID: "5"}, nil).Once()

	s.tick()
	publisher.AssertExpectations(t)
}

func TestScheduler_TickSurvivesErrors(t *testing.T) {
	publisher := new(MockPublisher)
	s, err := New("@daily", time.UTC, publisher, 0, silentLogger())
	require.NoError(t, err)

	publisher.On("PublishPost", mock.Anything).Return(nil, errors.New("leetcode down")).Once()
	publisher.On("PublishPost", mock.Anything).Return(nil, service.ErrPostInProgress).Once()

	assert.NotPanics(t, s.tick)
	assert.NotPanics(t, s.tick)
	publisher.AssertNumberOfCalls(t, "PublishPost", 2)
}

func TestScheduler_StopCancelsRunningPublish(t *testing.T) {
	publisher := new(MockPublisher)
	s, err := New("@daily", time.UTC, publisher, 0, silentLogger())
	require.NoError(t, err)

	started := make(chan struct{})
	publisher.On("PublishPost", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled)

	done := make(chan struct{})
	go func() {
		s.tick()
		close(done)
	}()

	<-started
	s.Stop(context.Background())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tick did not stop after cancellation")
	}
}
