package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/service"
)

// Publisher публикует очередной набор задач
type Publisher interface {
	PublishPost(ctx context.Context) (*entity.Post, error)
}

// Scheduler запускает публикацию по cron-расписанию
type Scheduler struct {
	cron      *cron.Cron
	publisher Publisher
	timeout   time.Duration
	log       logrus.FieldLogger

	// ctx отменяется при остановке, чтобы прервать публикацию в процессе
	ctx    context.Context
	cancel context.CancelFunc
}

// New создает планировщик. spec — стандартное cron-выражение из пяти полей
// или дескриптор вида "@daily".
func New(spec string, loc *time.Location, publisher Publisher, timeout time.Duration, log logrus.FieldLogger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	cronLog := cron.PrintfLogger(log)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		publisher: publisher,
		timeout:   timeout,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}

	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	if next := s.Next(); !next.IsZero() {
		s.log.WithField("next_run", next).Info("Планировщик публикаций запущен")
	}
}

// Next возвращает время следующей публикации
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop останавливает планировщик и ждет завершения текущей публикации
// или отмены ctx
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Публикация не завершилась до остановки")
	}
}

func (s *Scheduler) tick() {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	post, err := s.publisher.PublishPost(ctx)
	switch {
	case errors.Is(err, service.ErrPostInProgress):
		s.log.Info("Публикация уже выполняется, пропускаем")
	case err != nil:
		// Следующий запуск по расписанию не зависит от этой ошибки
		s.log.WithError(err).Error("Не удалось опубликовать задачи")
	default:
		s.log.WithFields(logrus.Fields{"post_id": post.ID, "message_id": post.MessageID}).Info("Задачи опубликованы по расписанию")
	}
}
