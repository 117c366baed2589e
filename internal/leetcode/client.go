package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/metrics"
)

// ErrSubmissionNotFound — LeetCode не вернул отправку с таким идентификатором
var ErrSubmissionNotFound = errors.New("submission not found")

const randomQuestionQuery = `
query randomQuestion($filters: QuestionListFilterInput) {
    randomQuestion(categorySlug: "", filters: $filters) {
        title
        titleSlug
        difficulty
        isPaidOnly
    }
}`

const submissionDetailsQuery = `
query submissionDetails($submissionId: Int!) {
    submissionDetails(submissionId: $submissionId) {
        question {
            titleSlug
        }
    }
}`

// Options содержит параметры клиента
type Options struct {
	GraphQLURL string
	BaseURL    string
	CSRFToken  string
	Session    string
	UserAgent  string
	Timeout    time.Duration
	// MinInterval — минимальная пауза между запросами, LeetCode ограничивает частоту
	MinInterval time.Duration
}

// Client — клиент GraphQL API LeetCode
type Client struct {
	httpClient *http.Client
	opts       Options
	metrics    *metrics.Metrics
	// limiter выдерживает MinInterval между запросами, при MinInterval <= 0 не ограничивает
	limiter *rate.Limiter
}

// NewClient создает клиент. httpClient может быть nil, тогда используется http.DefaultClient.
func NewClient(httpClient *http.Client, opts Options, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		httpClient: httpClient,
		opts:       opts,
		metrics:    m,
		limiter:    rate.NewLimiter(rate.Every(opts.MinInterval), 1),
	}
}

// ProblemURL возвращает ссылку на страницу задачи
func (c *Client) ProblemURL(slug string) string {
	return fmt.Sprintf("%s/problems/%s/", c.opts.BaseURL, slug)
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type rawQuestion struct {
	Title      string `json:"title"`
	TitleSlug  string `json:"titleSlug"`
	Difficulty string `json:"difficulty"`
	IsPaidOnly bool   `json:"isPaidOnly"`
}

// FetchRandomQuestion возвращает случайную задачу заданной сложности.
// Платные задачи не отфильтровываются, это решает вызывающий.
func (c *Client) FetchRandomQuestion(ctx context.Context, difficulty entity.Difficulty) (*entity.Question, error) {
	var data struct {
		RandomQuestion *rawQuestion `json:"randomQuestion"`
	}
	err := c.query(ctx, "random_question", randomQuestionQuery, map[string]interface{}{
		"filters": map[string]interface{}{"difficulty": string(difficulty)},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.RandomQuestion == nil || data.RandomQuestion.TitleSlug == "" {
		return nil, fmt.Errorf("leetcode: empty randomQuestion for %s", difficulty)
	}

	d, err := entity.ParseDifficulty(data.RandomQuestion.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("leetcode: %w", err)
	}
	return &entity.Question{
		Title:      strings.TrimSpace(data.RandomQuestion.Title),
		Slug:       data.RandomQuestion.TitleSlug,
		Difficulty: d,
		PaidOnly:   data.RandomQuestion.IsPaidOnly,
		URL:        c.ProblemURL(data.RandomQuestion.TitleSlug),
	}, nil
}

// ResolveSubmission возвращает slug задачи, к которой относится отправка
func (c *Client) ResolveSubmission(ctx context.Context, submissionID string) (string, error) {
	id, err := strconv.ParseInt(submissionID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("leetcode: invalid submission id %q: %w", submissionID, err)
	}

	var data struct {
		SubmissionDetails *struct {
			Question *struct {
				TitleSlug string `json:"titleSlug"`
			} `json:"question"`
		} `json:"submissionDetails"`
	}
	err = c.query(ctx, "submission_details", submissionDetailsQuery, map[string]interface{}{
		"submissionId": id,
	}, &data)
	if err != nil {
		return "", err
	}

	details := data.SubmissionDetails
	if details == nil || details.Question == nil || details.Question.TitleSlug == "" {
		return "", ErrSubmissionNotFound
	}
	return details.Question.TitleSlug, nil
}

func (c *Client) query(ctx context.Context, operation, query string, variables map[string]interface{}, dest interface{}) (err error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("leetcode %s: wait for rate limit: %w", operation, err)
	}

	start := time.Now()
	defer func() {
		if c.metrics == nil {
			return
		}
		status := "ok"
		if err != nil {
			status = "error"
		}
		c.metrics.LookupDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.GraphQLURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("leetcode %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("leetcode %s: HTTP %d: %s", operation, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var payload graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("leetcode %s: decode response: %w", operation, err)
	}
	if len(payload.Errors) > 0 {
		return fmt.Errorf("leetcode %s: %s", operation, payload.Errors[0].Message)
	}
	if len(payload.Data) == 0 || string(payload.Data) == "null" {
		return fmt.Errorf("leetcode %s: empty data", operation)
	}
	if err := json.Unmarshal(payload.Data, dest); err != nil {
		return fmt.Errorf("leetcode %s: decode data: %w", operation, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.opts.BaseURL+"/")
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}
	if c.opts.CSRFToken != "" {
		req.Header.Set("X-CSRFToken", c.opts.CSRFToken)
		req.AddCookie(&http.Cookie{Name: "csrftoken", Value: c.opts.CSRFToken})
	}
	if c.opts.Session != "" {
		req.AddCookie(&http.Cookie{Name: "LEETCODE_SESSION", Value: c.opts.Session})
	}
}
