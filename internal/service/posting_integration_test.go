package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/metrics"
	"github.com/yourusername/leetcode-bot/internal/repository/postgres"
	"github.com/yourusername/leetcode-bot/internal/service/submission"
	"github.com/yourusername/leetcode-bot/pkg/database"
)

// replyRecorder запоминает отправленные ответы
type replyRecorder struct {
	replies map[string]string
}

func (r *replyRecorder) SendAnnouncement(context.Context, string, []Button) (string, error) {
	return "", nil
}

func (r *replyRecorder) SendReply(_ context.Context, replyTo string, text string) error {
	r.replies[replyTo] = text
	return nil
}

type chatHarness struct {
	service   *PostingService
	transport *replyRecorder
	post      *entity.Post
}

// newChatHarness поднимает сервис на SQLite в памяти с опубликованным постом
func newChatHarness(t *testing.T) *chatHarness {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:", gormlogger.Silent)
	require.NoError(t, err)

	posts := postgres.NewPostRepo(db)
	solutions := postgres.NewSolutionRepo(db)
	users := postgres.NewUserRepo(db)

	ctx := context.Background()
	post := &entity.Post{Questions: []entity.PostQuestion{
		{Slug: "two-sum", Title: "Two Sum", Difficulty: entity.DifficultyEasy},
		{Slug: "lru-cache", Title: "LRU Cache", Difficulty: entity.DifficultyMedium},
		{Slug: "n-queens", Title: "N-Queens", Difficulty: entity.DifficultyHard},
	}}
	require.NoError(t, posts.CreateWithQuestions(ctx, post))
	require.NoError(t, posts.SetMessageID(ctx, post.ID, "500"))

	resolver := staticResolver{
		"101": "two-sum",
		"102": "lru-cache",
		"103": "n-queens",
		"104": "valid-parentheses",
		"105": "two-sum",
	}
	log := silentLogger()
	validator := submission.NewValidator(resolver, solutions, submission.Config{LookupTimeout: time.Second}, log)
	leaderboard := NewLeaderboardService(solutions, LeaderboardConfig{Window: DefaultLeaderboardWindow, Size: 10})
	transport := &replyRecorder{replies: make(map[string]string)}

	svc := NewPostingService(new(MockQuestionSource), transport, posts, users, validator, leaderboard, nil,
		metrics.New(prometheus.NewRegistry()), PostingConfig{MaxCandidates: 3}, log)

	return &chatHarness{service: svc, transport: transport, post: post}
}

func (h *chatHarness) reply(t *testing.T, messageID, senderID, senderName, text string) string {
	t.Helper()
	err := h.service.HandleReply(context.Background(), Reply{
		MessageID:        messageID,
		ReplyToMessageID: h.post.MessageID,
		SenderID:         senderID,
		SenderName:       senderName,
		Text:             text,
	})
	require.NoError(t, err)
	return h.transport.replies[messageID]
}

func link(id string) string {
	return "https://leetcode.com/submissions/detail/" + id + "/"
}

func TestHandleReply_TwoValidOneUnrelated(t *testing.T) {
	h := newChatHarness(t)

	text := h.reply(t, "1", "1001", "Alice", link("101")+" "+link("104")+" "+link("102"))

	lines := strings.Split(text, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "✅ Submission <b>101</b> accepted.", lines[0])
	assert.Equal(t, "✅ Submission <b>102</b> accepted.", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "⚠️ Submission <b>104</b> belongs to a different problem.", lines[3])
	assert.Contains(t, text, "2 solution(s)!")
	assert.Contains(t, text, `1. <a href="tg://user?id=1001">Alice</a>: 2`)
}

func TestHandleReply_SameSubmissionTwoUsers(t *testing.T) {
	h := newChatHarness(t)

	first := h.reply(t, "1", "1001", "Alice", link("103"))
	assert.Contains(t, first, "✅ Submission <b>103</b> accepted.")

	second := h.reply(t, "2", "1002", "Bob", link("103"))
	assert.Contains(t, second, `⚠️ Submission <b>103</b> was already submitted by <a href="tg://user?id=1001">Alice</a>.`)
	assert.Contains(t, second, "0 solution(s)!")
}

func TestHandleReply_SameQuestionTwice(t *testing.T) {
	h := newChatHarness(t)

	h.reply(t, "1", "1001", "Alice", link("101"))
	second := h.reply(t, "2", "1001", "Alice", link("105"))

	assert.Contains(t, second, "⚠️ Submission <b>105</b> refused as you have already solved that problem.")
	assert.Contains(t, second, "1 solution(s)!")
}

func TestHandleReply_ReplayIsNeverAcceptedTwice(t *testing.T) {
	h := newChatHarness(t)

	h.reply(t, "1", "1001", "Alice", link("101"))
	replay := h.reply(t, "2", "1001", "Alice", link("101"))

	assert.NotContains(t, replay, "accepted.")
	assert.Contains(t, replay, "1 solution(s)!")
}

func TestHandleReply_ExtraLinksIgnored(t *testing.T) {
	h := newChatHarness(t)

	text := h.reply(t, "1", "1001", "Alice",
		link("101")+" "+link("102")+" "+link("104")+" "+link("103"))

	assert.Equal(t, 2, strings.Count(text, "accepted."))
	assert.NotContains(t, text, "<b>103</b>")
}

func TestHandleReply_RefreshesUserName(t *testing.T) {
	h := newChatHarness(t)

	h.reply(t, "1", "1001", "Alice", link("101"))
	text := h.reply(t, "2", "1001", "Alice Cooper", link("102"))

	assert.Contains(t, text, `<a href="tg://user?id=1001">Alice Cooper</a>: 2`)
}

func TestHandleReply_ReplyToOtherMessageIgnored(t *testing.T) {
	h := newChatHarness(t)

	err := h.service.HandleReply(context.Background(), Reply{
		MessageID:        "1",
		ReplyToMessageID: "999",
		SenderID:         "1001",
		SenderName:       "Alice",
		Text:             link("101"),
	})
	require.NoError(t, err)
	assert.Empty(t, h.transport.replies)
}
