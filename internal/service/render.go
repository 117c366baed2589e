package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/service/submission"
)

// Текст ответа на случай, когда решения не удалось сохранить
const failureNotice = "⚠️ Could not record your submissions right now, please try again later."

// scoreboard — блок очков под результатами проверки
type scoreboard struct {
	window time.Duration
	score  int64
	top    []entity.SolverScore
}

// renderReply формирует ответ на сообщение с решениями:
// принятые, отклоненные, очки пользователя, общий лидерборд.
// Без scoreboard выводятся только результаты проверки.
func renderReply(result *submission.Result, board *scoreboard) string {
	var lines []string

	accepted := result.Accepted()
	for _, o := range accepted {
		lines = append(lines, fmt.Sprintf("✅ Submission <b>%s</b> accepted.", html.EscapeString(o.SubmissionID)))
	}
	if len(accepted) > 0 {
		lines = append(lines, "")
	}

	rejected := result.Rejected()
	for _, o := range rejected {
		lines = append(lines, renderRejection(o))
	}
	if len(rejected) > 0 {
		lines = append(lines, "")
	}

	if board == nil {
		return strings.TrimRight(strings.Join(lines, "\n"), "\n")
	}

	period := windowLabel(board.window)
	lines = append(lines,
		fmt.Sprintf("<b>Your score for the past %s:</b>", period),
		fmt.Sprintf("%d solution(s)!", board.score),
	)
	if top := renderTop(board.top, period); len(top) > 0 {
		lines = append(lines, "")
		lines = append(lines, top...)
	}
	return strings.Join(lines, "\n")
}

func renderRejection(o submission.Outcome) string {
	id := html.EscapeString(o.SubmissionID)
	switch o.Verdict {
	case submission.VerdictWrongQuestion:
		return fmt.Sprintf("⚠️ Submission <b>%s</b> belongs to a different problem.", id)
	case submission.VerdictAlreadySolved:
		return fmt.Sprintf("⚠️ Submission <b>%s</b> refused as you have already solved that problem.", id)
	case submission.VerdictTaken:
		if o.TakenBy == nil {
			return fmt.Sprintf("⚠️ Submission <b>%s</b> was already submitted by someone else.", id)
		}
		return fmt.Sprintf("⚠️ Submission <b>%s</b> was already submitted by %s.", id, mention(*o.TakenBy))
	default:
		return fmt.Sprintf("⚠️ Could not load submission <b>%s</b>.", id)
	}
}

// renderTop формирует заголовок и строки лидерборда. Пустой лидерборд не выводится.
func renderTop(top []entity.SolverScore, period string) []string {
	if len(top) == 0 {
		return nil
	}
	lines := make([]string, 0, len(top)+1)
	lines = append(lines, fmt.Sprintf("<b>Top scores for the past %s:</b>", period))
	for i, s := range top {
		lines = append(lines, fmt.Sprintf("%d. %s: %d", i+1, mention(s.User), s.Solved))
	}
	return lines
}

// renderAnnouncement формирует текст анонса: приветствие и текущий лидерборд
func renderAnnouncement(intro string, top []entity.SolverScore, window time.Duration) string {
	lines := renderTop(top, windowLabel(window))
	if len(lines) == 0 {
		return intro
	}
	return intro + "\n\n" + strings.Join(lines, "\n")
}

func mention(u entity.User) string {
	return fmt.Sprintf(`<a href="tg://user?id=%s">%s</a>`, html.EscapeString(u.ChatID), html.EscapeString(u.Name))
}

// windowLabel переводит окно в человеческий вид: 2160h -> "3 months"
func windowLabel(window time.Duration) string {
	days := int(window.Hours() / 24)
	switch {
	case days >= 30 && days%30 == 0:
		if days == 30 {
			return "month"
		}
		return fmt.Sprintf("%d months", days/30)
	case days == 7:
		return "week"
	case days > 1 && days%7 == 0:
		return fmt.Sprintf("%d weeks", days/7)
	case days > 1:
		return fmt.Sprintf("%d days", days)
	case days == 1:
		return "day"
	}
	return window.String()
}
