package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luo-one/inbox-agent/internal/functions"
	"github.com/luo-one/inbox-agent/internal/services"
)

// AgentHandler triggers processing runs and manages run defaults
type AgentHandler struct {
	inboxService *services.InboxService
}

// NewAgentHandler creates a new AgentHandler instance
func NewAgentHandler(inboxService *services.InboxService) *AgentHandler {
	return &AgentHandler{inboxService: inboxService}
}

// bindOptions reads optional agent options; an empty body means none
func bindOptions(c *gin.Context) (*functions.AgentOptions, error) {
	var opts functions.AgentOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if opts.FormalToneLevel != "" && !opts.FormalToneLevel.IsValid() {
		return nil, errors.New("formalToneLevel must be balanced or very_formal")
	}
	if opts.UnsubscribeAggressiveness != "" && !opts.UnsubscribeAggressiveness.IsValid() {
		return nil, errors.New("unsubscribeAggressiveness must be conservative, balanced or aggressive")
	}
	return &opts, nil
}

// Run processes the whole inbox
// POST /api/agent/run
func (h *AgentHandler) Run(c *gin.Context) {
	opts, err := bindOptions(c)
	if err != nil {
		respondValidationError(c, "Invalid agent options", err)
		return
	}

	result, err := h.inboxService.Run(opts)
	if err != nil {
		if errors.Is(err, services.ErrRunInProgress) {
			respondError(c, http.StatusConflict, CodeConflict, "A run is already in progress")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to process inbox")
		return
	}

	respondOK(c, http.StatusOK, result)
}

// GetResult returns the latest run result while it still matches the inbox
// GET /api/agent/result
func (h *AgentHandler) GetResult(c *gin.Context) {
	result, ok := h.inboxService.LastResult()
	if !ok {
		respondError(c, http.StatusNotFound, CodeNotFound, "No current run result")
		return
	}
	respondOK(c, http.StatusOK, result)
}

// GetSettings returns the run defaults
// GET /api/agent/settings
func (h *AgentHandler) GetSettings(c *gin.Context) {
	respondOK(c, http.StatusOK, h.inboxService.Defaults())
}

// UpdateSettings changes the run defaults; omitted fields are kept
// PUT /api/agent/settings
func (h *AgentHandler) UpdateSettings(c *gin.Context) {
	var req functions.AgentOptions
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request body", err)
		return
	}

	defaults, err := h.inboxService.UpdateDefaults(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOptions) {
			respondValidationError(c, "Invalid agent options", err)
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to update settings")
		return
	}

	respondOK(c, http.StatusOK, defaults)
}
