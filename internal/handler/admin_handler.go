package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/handler/helper"
	"github.com/yourusername/leetcode-bot/internal/service"
)

// Publisher определяет ручную публикацию поста
type Publisher interface {
	PublishPost(ctx context.Context) (*entity.Post, error)
}

// AdminHandler обрабатывает административные запросы
type AdminHandler struct {
	publisher Publisher
	log       logrus.FieldLogger
}

// NewAdminHandler создает обработчик административных запросов
func NewAdminHandler(publisher Publisher, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{publisher: publisher, log: log}
}

// PublishPost обрабатывает POST /api/admin/posts: публикует задачи вне расписания
func (h *AdminHandler) PublishPost(c *gin.Context) {
	post, err := h.publisher.PublishPost(c.Request.Context())
	if err != nil {
		h.handlePublishError(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"post_id": post.ID,
		"admin":   c.GetString("admin_subject"),
	}).Info("Пост опубликован вручную")
	c.JSON(http.StatusCreated, helper.ToPostDTO(post))
}

func (h *AdminHandler) handlePublishError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Post is already being published"})
	case errors.Is(err, service.ErrNoFreeQuestion):
		c.JSON(http.StatusBadGateway, gin.H{"error": "No free question available"})
	default:
		h.log.WithError(err).Error("Ошибка ручной публикации")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish post"})
	}
}
