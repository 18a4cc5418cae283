package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/luo-one/inbox-agent/internal/services"
)

// InboxHandler handles inbox listing and editing
type InboxHandler struct {
	inboxService *services.InboxService
}

// NewInboxHandler creates a new InboxHandler instance
func NewInboxHandler(inboxService *services.InboxService) *InboxHandler {
	return &InboxHandler{inboxService: inboxService}
}

// InjectEmailRequest represents a message typed in by the user
type InjectEmailRequest struct {
	Sender          string `json:"sender" binding:"required"`
	Subject         string `json:"subject" binding:"required"`
	Body            string `json:"body" binding:"required"`
	UnsubscribeLink string `json:"unsubscribeLink"`
}

// InboxResponse represents the current inbox
type InboxResponse struct {
	Emails     []models.Email `json:"emails"`
	Total      int            `json:"total"`
	Unresolved int            `json:"unresolved"`
	Running    bool           `json:"running"`
}

// ListEmails returns the inbox, newest first
// GET /api/inbox
func (h *InboxHandler) ListEmails(c *gin.Context) {
	emails := h.inboxService.Emails()
	respondOK(c, http.StatusOK, InboxResponse{
		Emails:     emails,
		Total:      len(emails),
		Unresolved: h.inboxService.UnresolvedCount(),
		Running:    h.inboxService.IsRunning(),
	})
}

// InjectEmail adds a pending email to the top of the inbox
// POST /api/inbox
func (h *InboxHandler) InjectEmail(c *gin.Context) {
	var req InjectEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request body", err)
		return
	}

	email, err := h.inboxService.Inject(services.InjectEmailInput{
		Sender:          req.Sender,
		Subject:         req.Subject,
		Body:            req.Body,
		UnsubscribeLink: req.UnsubscribeLink,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmailData) {
			respondValidationError(c, "Sender, subject and body are required", err)
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to add email")
		return
	}

	respondOK(c, http.StatusCreated, email)
}

// DeleteEmail removes an email from the inbox
// DELETE /api/inbox/:id
func (h *InboxHandler) DeleteEmail(c *gin.Context) {
	if err := h.inboxService.Remove(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Email not found")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to remove email")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email removed",
	})
}
