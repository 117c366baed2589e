package submission

import "regexp"

// DefaultMaxCandidates — сколько ссылок из одного ответа проверяется.
// Остальные отбрасываются молча, иначе одним сообщением можно вызвать сотни запросов к LeetCode.
const DefaultMaxCandidates = 3

var submissionURLRe = regexp.MustCompile(`https://leetcode\.com/submissions/detail/(\d+)/`)

// ExtractCandidates возвращает идентификаторы отправок из текста в порядке появления,
// не больше max штук. При max <= 0 используется DefaultMaxCandidates.
func ExtractCandidates(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxCandidates
	}

	matches := submissionURLRe.FindAllStringSubmatch(text, max)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}
