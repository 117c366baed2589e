package submission

import "github.com/yourusername/leetcode-bot/internal/domain/entity"

// Verdict — итог проверки одной отправки
type Verdict string

const (
	VerdictAccepted      Verdict = "accepted"
	VerdictLookupFailed  Verdict = "lookup_failed"
	VerdictWrongQuestion Verdict = "wrong_question"
	VerdictAlreadySolved Verdict = "already_solved"
	VerdictTaken         Verdict = "taken"
)

// Outcome — результат проверки одного кандидата
type Outcome struct {
	SubmissionID string
	Verdict      Verdict
	// TakenBy заполняется только для VerdictTaken
	TakenBy *entity.User
}

// Result — результат проверки всего ответа
type Result struct {
	// Outcomes идут в порядке ссылок в сообщении, по одному на кандидата
	Outcomes []Outcome
	// Solutions — сохраненные решения
	Solutions []entity.Solution
}

// Accepted возвращает принятые отправки
func (r *Result) Accepted() []Outcome {
	return r.filter(func(o Outcome) bool { return o.Verdict == VerdictAccepted })
}

// Rejected возвращает все непринятые отправки
func (r *Result) Rejected() []Outcome {
	return r.filter(func(o Outcome) bool { return o.Verdict != VerdictAccepted })
}

func (r *Result) filter(keep func(Outcome) bool) []Outcome {
	out := make([]Outcome, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
