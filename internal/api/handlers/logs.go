package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/luo-one/inbox-agent/internal/services"
)

// LogHandler exposes stored operational logs
type LogHandler struct {
	logService *services.LogService
}

// NewLogHandler creates a new LogHandler instance
func NewLogHandler(logService *services.LogService) *LogHandler {
	return &LogHandler{logService: logService}
}

// LogListResponse represents one page of logs
type LogListResponse struct {
	Logs  []models.Log `json:"logs"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// ListLogs returns logs filtered by level, module and action
// GET /api/logs?level=&module=&action=&since=&page=&limit=
func (h *LogHandler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	query := services.LogQuery{
		Level:  c.Query("level"),
		Module: c.Query("module"),
		Action: c.Query("action"),
		Page:   page,
		Limit:  limit,
	}
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondValidationError(c, "since must be an RFC 3339 timestamp", err)
			return
		}
		query.StartTime = &t
	}

	result, err := h.logService.QueryLogs(query)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query logs")
		return
	}

	respondOK(c, http.StatusOK, LogListResponse{
		Logs:  result.Logs,
		Total: result.Total,
		Page:  page,
		Limit: limit,
	})
}
