package handler

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/leetcode-bot/internal/domain/entity"
	"github.com/yourusername/leetcode-bot/internal/handler/dto"
	"github.com/yourusername/leetcode-bot/internal/handler/helper"
)

// LimitContextKey — ключ, под которым ExtractLimitQuery сохраняет limit
const LimitContextKey = "limit"

// LeaderboardReader определяет чтение лидерборда
type LeaderboardReader interface {
	TopSolvers(ctx context.Context, limit int) ([]entity.SolverScore, error)
	Window() time.Duration
}

// LeaderboardHandler отдает лидерборд в JSON и выгрузкой
type LeaderboardHandler struct {
	leaderboard LeaderboardReader
	now         func() time.Time
	log         logrus.FieldLogger
}

// NewLeaderboardHandler создает обработчик лидерборда
func NewLeaderboardHandler(leaderboard LeaderboardReader, log logrus.FieldLogger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard, now: time.Now, log: log}
}

// GetLeaderboard обрабатывает GET /api/leaderboard
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	top, ok := h.load(c)
	if !ok {
		return
	}

	window := h.leaderboard.Window()
	c.JSON(http.StatusOK, dto.LeaderboardResponse{
		Window:  window.String(),
		Since:   h.now().UTC().Add(-window),
		Entries: helper.ToLeaderboardEntries(top),
	})
}

// ExportLeaderboard обрабатывает GET /api/leaderboard/export?format=xlsx|csv
func (h *LeaderboardHandler) ExportLeaderboard(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")
	if format != "xlsx" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, use xlsx or csv"})
		return
	}

	top, ok := h.load(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("leaderboard_%s", h.now().UTC().Format("2006-01-02"))
	entries := helper.ToLeaderboardEntries(top)
	if format == "csv" {
		h.exportCSV(c, entries, filename)
		return
	}
	h.exportXLSX(c, entries, filename)
}

func (h *LeaderboardHandler) load(c *gin.Context) ([]entity.SolverScore, bool) {
	limit := c.GetInt(LimitContextKey)
	top, err := h.leaderboard.TopSolvers(c.Request.Context(), limit)
	if err != nil {
		h.log.WithError(err).Error("Ошибка получения лидерборда")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting leaderboard"})
		return nil, false
	}
	return top, true
}

var exportHeaders = []string{"Place", "Name", "Telegram ID", "Solved"}

func (h *LeaderboardHandler) exportCSV(c *gin.Context, entries []dto.LeaderboardEntryDTO, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, e := range entries {
		writer.Write([]string{
			strconv.Itoa(e.Rank),
			sanitizeForExcel(e.Name),
			e.ChatID,
			strconv.FormatInt(e.Solved, 10),
		})
	}
}

// exportXLSX выгружает лидерборд в Excel
func (h *LeaderboardHandler) exportXLSX(c *gin.Context, entries []dto.LeaderboardEntryDTO, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leaderboard"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		h.log.WithError(err).Error("Ошибка переименования листа")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		h.log.WithError(err).Error("Ошибка создания StreamWriter")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, header := range exportHeaders {
		headers[i] = header
	}
	if err := sw.SetRow("A1", headers); err != nil {
		h.log.WithError(err).Warn("Ошибка записи заголовков")
	}

	for i, e := range entries {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{e.Rank, sanitizeForExcel(e.Name), e.ChatID, e.Solved}
		if err := sw.SetRow(cell, row); err != nil {
			h.log.WithError(err).WithField("row", i+2).Warn("Ошибка записи строки")
		}
	}

	if err := sw.Flush(); err != nil {
		h.log.WithError(err).Error("Ошибка при Flush")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		h.log.WithError(err).Error("Ошибка записи Excel в response")
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
