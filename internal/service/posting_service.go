package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/domain/repository"
	"github.com/yourusername/leetcode-bot/internal/metrics"
	apperrors "github.com/yourusername/leetcode-bot/internal/pkg/errors"
	"github.com/yourusername/leetcode-bot/internal/service/submission"
)

const (
	// Ключ распределенной блокировки публикации
	postLockKey        = "leetcode:post:lock"
	lockReleaseTimeout = 5 * time.Second
)

// QuestionSource определяет источник случайных задач
type QuestionSource interface {
	FetchRandomQuestion(ctx context.Context, difficulty entity.Difficulty) (*entity.Question, error)
}

// Button — кнопка-ссылка под анонсом
type Button struct {
	Text string
	URL  string
}

// Transport определяет отправку сообщений в чат
type Transport interface {
	// SendAnnouncement отправляет анонс и возвращает идентификатор сообщения
	SendAnnouncement(ctx context.Context, text string, buttons []Button) (string, error)
	SendReply(ctx context.Context, replyToMessageID string, text string) error
}

// Reply — входящий ответ участника на сообщение в чате
type Reply struct {
	ChatID           int64
	MessageID        string
	ReplyToMessageID string
	SenderID         string
	SenderName       string
	Text             string
}

// PostingConfig содержит параметры публикации и обработки ответов
type PostingConfig struct {
	// Messages — вступительные фразы анонса
	Messages       []string
	MaxPaidRetries int
	MaxCandidates  int
	// LockTTL — время жизни блокировки публикации, не меньше длительности одного цикла
	LockTTL time.Duration
}

// PostingService публикует наборы задач и засчитывает решения из ответов
type PostingService struct {
	questions   QuestionSource
	transport   Transport
	posts       repository.PostRepository
	users       repository.UserRepository
	validator   *submission.Validator
	leaderboard *LeaderboardService
	// cache может быть nil, тогда блокировка действует только внутри процесса
	cache   repository.CacheRepository
	metrics *metrics.Metrics
	config  PostingConfig
	log     logrus.FieldLogger

	localLock sync.Mutex
	randIntn  func(n int) int
}

// NewPostingService создает сервис публикаций
func NewPostingService(
	questions QuestionSource,
	transport Transport,
	posts repository.PostRepository,
	users repository.UserRepository,
	validator *submission.Validator,
	leaderboard *LeaderboardService,
	cache repository.CacheRepository,
	m *metrics.Metrics,
	config PostingConfig,
	log logrus.FieldLogger,
) *PostingService {
	if config.LockTTL <= 0 {
		config.LockTTL = 5 * time.Minute
	}
	return &PostingService{
		questions:   questions,
		transport:   transport,
		posts:       posts,
		users:       users,
		validator:   validator,
		leaderboard: leaderboard,
		cache:       cache,
		metrics:     m,
		config:      config,
		log:         log,
		randIntn:    rand.Intn,
	}
}

// PublishPost выбирает по одной бесплатной задаче каждого уровня, сохраняет пост
// и отправляет анонс. Ошибка источника задач прерывает цикл до записи в базу.
func (s *PostingService) PublishPost(ctx context.Context) (*entity.Post, error) {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	post, err := s.publish(ctx)
	if err != nil {
		s.metrics.PostFailures.Inc()
		return nil, err
	}
	s.metrics.PostsPublished.Inc()
	return post, nil
}

func (s *PostingService) publish(ctx context.Context) (*entity.Post, error) {
	difficulties := entity.Difficulties()
	post := &entity.Post{Questions: make([]entity.PostQuestion, 0, len(difficulties))}
	buttons := make([]Button, 0, len(difficulties))

	for _, d := range difficulties {
		q, err := s.fetchFreeQuestion(ctx, d)
		if err != nil {
			return nil, err
		}
		post.Questions = append(post.Questions, entity.PostQuestion{
			Slug:       q.Slug,
			Title:      q.Title,
			Difficulty: d,
		})
		buttons = append(buttons, Button{Text: d.Marker() + " " + q.Title, URL: q.URL})
	}

	top, err := s.leaderboard.TopSolvers(ctx, 0)
	if err != nil {
		return nil, err
	}
	text := renderAnnouncement(s.pickIntro(), top, s.leaderboard.Window())

	if err := s.posts.CreateWithQuestions(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}

	messageID, err := s.transport.SendAnnouncement(ctx, text, buttons)
	if err != nil {
		// Неотправленный пост никому не виден, ответить на него нельзя
		if delErr := s.posts.Delete(context.WithoutCancel(ctx), post.ID); delErr != nil {
			s.log.WithError(delErr).WithField("post_id", post.ID).Error("Не удалось удалить неотправленный пост")
		}
		return nil, fmt.Errorf("send announcement: %w", err)
	}

	if err := s.posts.SetMessageID(ctx, post.ID, messageID); err != nil {
		// Анонс уже в чате, но ответы на него не найдут пост, пока message_id не записан
		s.log.WithError(err).WithFields(logrus.Fields{
			"post_id":    post.ID,
			"message_id": messageID,
		}).Error("Анонс отправлен, но не привязан к посту")
		return nil, fmt.Errorf("link post %d to message %s: %w", post.ID, messageID, err)
	}
	post.MessageID = messageID

	s.log.WithFields(logrus.Fields{"post_id": post.ID, "message_id": messageID}).Info("Пост опубликован")
	return post, nil
}

// fetchFreeQuestion запрашивает задачу, пока не попадется бесплатная,
// но не больше MaxPaidRetries повторов
func (s *PostingService) fetchFreeQuestion(ctx context.Context, d entity.Difficulty) (*entity.Question, error) {
	for attempt := 0; attempt <= s.config.MaxPaidRetries; attempt++ {
		q, err := s.questions.FetchRandomQuestion(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("fetch %s question: %w", d, err)
		}
		if !q.PaidOnly {
			return q, nil
		}
		s.log.WithFields(logrus.Fields{"difficulty": d, "slug": q.Slug}).Debug("Платная задача, запрашиваем другую")
	}
	return nil, fmt.Errorf("%w: %s after %d retries", ErrNoFreeQuestion, d, s.config.MaxPaidRetries)
}

func (s *PostingService) pickIntro() string {
	if len(s.config.Messages) == 0 {
		return ""
	}
	return s.config.Messages[s.randIntn(len(s.config.Messages))]
}

// acquireLock захватывает блокировку публикации в Redis (или в процессе, если Redis нет)
func (s *PostingService) acquireLock(ctx context.Context) (func(), error) {
	if s.cache == nil {
		if !s.localLock.TryLock() {
			return nil, ErrPostInProgress
		}
		return s.localLock.Unlock, nil
	}

	owner := uuid.NewString()
	ok, err := s.cache.AcquireLock(ctx, postLockKey, owner, s.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire post lock: %w", err)
	}
	if !ok {
		return nil, ErrPostInProgress
	}

	return func() {
		// Снимаем блокировку и после отмены ctx, иначе она провисит весь TTL
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lockReleaseTimeout)
		defer cancel()

		released, err := s.cache.ReleaseLock(releaseCtx, postLockKey, owner)
		if err != nil {
			s.log.WithError(err).Warn("Не удалось снять блокировку публикации")
			return
		}
		if !released {
			s.log.Warn("Блокировка публикации истекла до конца цикла")
		}
	}, nil
}

// HandleReply обрабатывает ответ участника на анонс. Ответы не на анонс
// и ответы без ссылок на отправки игнорируются без ответа.
func (s *PostingService) HandleReply(ctx context.Context, reply Reply) error {
	if reply.ReplyToMessageID == "" {
		return nil
	}

	post, err := s.posts.GetByMessageID(ctx, reply.ReplyToMessageID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.metrics.ReplyErrors.Inc()
		return fmt.Errorf("find post by message %s: %w", reply.ReplyToMessageID, err)
	}

	candidates := submission.ExtractCandidates(reply.Text, s.config.MaxCandidates)
	if len(candidates) == 0 {
		return nil
	}

	log := s.log.WithFields(logrus.Fields{
		"post_id":    post.ID,
		"message_id": reply.MessageID,
		"sender_id":  reply.SenderID,
	})

	user, err := s.users.Ensure(ctx, reply.SenderID, reply.SenderName)
	if err != nil {
		return s.fail(ctx, reply, log, fmt.Errorf("ensure user %s: %w", reply.SenderID, err))
	}

	result, err := s.validator.Validate(ctx, post, user, candidates)
	if err != nil {
		return s.fail(ctx, reply, log, err)
	}
	for _, o := range result.Outcomes {
		s.metrics.SubmissionOutcomes.WithLabelValues(string(o.Verdict)).Inc()
	}

	board, err := s.scoreboard(ctx, user.ID)
	if err != nil {
		// Решения уже сохранены, отвечаем хотя бы результатами проверки
		log.WithError(err).Error("Не удалось посчитать очки")
		s.metrics.ReplyErrors.Inc()
	}

	if err := s.transport.SendReply(ctx, reply.MessageID, renderReply(result, board)); err != nil {
		s.metrics.ReplyErrors.Inc()
		return fmt.Errorf("send reply: %w", err)
	}

	log.WithField("accepted", len(result.Solutions)).Info("Ответ обработан")
	return nil
}

func (s *PostingService) scoreboard(ctx context.Context, userID uint) (*scoreboard, error) {
	score, err := s.leaderboard.UserScore(ctx, userID)
	if err != nil {
		return nil, err
	}
	top, err := s.leaderboard.TopSolvers(ctx, 0)
	if err != nil {
		return nil, err
	}
	return &scoreboard{window: s.leaderboard.Window(), score: score, top: top}, nil
}

// fail сообщает участнику, что ничего не засчитано, и возвращает исходную ошибку
func (s *PostingService) fail(ctx context.Context, reply Reply, log logrus.FieldLogger, cause error) error {
	s.metrics.ReplyErrors.Inc()
	log.WithError(cause).Error("Не удалось обработать ответ")
	if err := s.transport.SendReply(ctx, reply.MessageID, failureNotice); err != nil {
		log.WithError(err).Warn("Не удалось отправить уведомление об ошибке")
	}
	return cause
}
