package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/domain/repository"
	apperrors "github.com/yourusername/leetcode-bot/internal/pkg/errors"
)

// ErrPersist — решения не удалось сохранить, ни одно не засчитано
var ErrPersist = errors.New("failed to persist solutions")

// Resolver определяет поиск задачи по идентификатору отправки
type Resolver interface {
	ResolveSubmission(ctx context.Context, submissionID string) (string, error)
}

// Config содержит настройки проверки
type Config struct {
	// LookupTimeout ограничивает один запрос к банку задач
	LookupTimeout time.Duration
}

// Validator решает, какие отправки из ответа засчитать
type Validator struct {
	resolver  Resolver
	solutions repository.SolutionRepository
	config    Config
	now       func() time.Time
	log       logrus.FieldLogger
}

// NewValidator создает валидатор отправок
func NewValidator(resolver Resolver, solutions repository.SolutionRepository, config Config, log logrus.FieldLogger) *Validator {
	return &Validator{
		resolver:  resolver,
		solutions: solutions,
		config:    config,
		now:       time.Now,
		log:       log,
	}
}

// Validate проверяет кандидатов по очереди и атомарно сохраняет принятые.
// Ошибка одного кандидата не прерывает проверку остальных.
// Ошибка возвращается только если не удалось прочитать или записать хранилище,
// в этом случае ни одно решение не засчитано.
func (v *Validator) Validate(ctx context.Context, post *entity.Post, user *entity.User, candidates []string) (*Result, error) {
	result := &Result{Outcomes: make([]Outcome, 0, len(candidates))}
	// staged — slug задач, уже принятых в этом же ответе
	staged := make(map[string]bool)

	for _, id := range candidates {
		outcome, solution, err := v.check(ctx, post, user, id, staged)
		if err != nil {
			return nil, err
		}
		result.Outcomes = append(result.Outcomes, outcome)
		if solution != nil {
			staged[solution.QuestionSlug] = true
			result.Solutions = append(result.Solutions, *solution)
		}
	}

	if err := v.solutions.CreateBatch(ctx, result.Solutions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return result, nil
}

func (v *Validator) check(ctx context.Context, post *entity.Post, user *entity.User, id string, staged map[string]bool) (Outcome, *entity.Solution, error) {
	log := v.log.WithFields(logrus.Fields{"submission_id": id, "user_id": user.ID, "post_id": post.ID})

	slug, err := v.resolve(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить отправку")
		return Outcome{SubmissionID: id, Verdict: VerdictLookupFailed}, nil, nil
	}

	question := post.FindQuestion(slug)
	if question == nil {
		return Outcome{SubmissionID: id, Verdict: VerdictWrongQuestion}, nil, nil
	}

	if staged[slug] {
		return Outcome{SubmissionID: id, Verdict: VerdictAlreadySolved}, nil, nil
	}
	solvedBefore, err := v.solutions.ExistsForUserQuestion(ctx, user.ID, slug)
	if err != nil {
		return Outcome{}, nil, fmt.Errorf("check solved question %s: %w", slug, err)
	}
	if solvedBefore {
		return Outcome{SubmissionID: id, Verdict: VerdictAlreadySolved}, nil, nil
	}

	existing, err := v.solutions.GetBySubmissionID(ctx, id)
	switch {
	case err == nil:
		return Outcome{SubmissionID: id, Verdict: VerdictTaken, TakenBy: existing.User}, nil, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return Outcome{}, nil, fmt.Errorf("check submission %s: %w", id, err)
	}

	solution := &entity.Solution{
		UserID:         user.ID,
		SubmissionID:   id,
		PostQuestionID: question.ID,
		QuestionSlug:   question.Slug,
		AcceptedAt:     v.now().UTC(),
	}
	log.WithField("question_slug", slug).Info("Отправка принята")
	return Outcome{SubmissionID: id, Verdict: VerdictAccepted}, solution, nil
}

// resolve ограничивает запрос к банку задач таймаутом. Повторов нет:
// истекший таймаут — это просто VerdictLookupFailed.
func (v *Validator) resolve(ctx context.Context, id string) (string, error) {
	if v.config.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.config.LookupTimeout)
		defer cancel()
	}
	return v.resolver.ResolveSubmission(ctx, id)
}
