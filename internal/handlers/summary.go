// summary.go handles the AI study-summary endpoint.
//
// POST /api/v1/ai/summary: JSON or form body {prompt, class, subject?, chapter?}
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/summary"
)

// CreateStudySummary generates an exam-focused study summary, grounded in
// the matching NCERT chapter when one can be found.
// POST /api/v1/ai/summary
func (h *Handler) CreateStudySummary(c *gin.Context) {
	var req models.StudySummaryRequest
	// ShouldBind picks JSON or form binding from the Content-Type header.
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Prompt) == "" || strings.TrimSpace(req.Class) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Prompt and class are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if h.Study == nil || !h.Study.Configured() {
		c.JSON(http.StatusServiceUnavailable, notConfiguredResponse())
		return
	}

	resp, err := h.Study.Summarize(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, summary.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, notConfiguredResponse())
			return
		}
		log.Printf("❌ Study summary failed (class=%q subject=%q chapter=%q): %v", req.Class, req.Subject, req.Chapter, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "generation_failed",
			Message: "Failed to generate summary. Please try again.",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func notConfiguredResponse() models.ErrorResponse {
	return models.ErrorResponse{
		Error:   "ai_not_configured",
		Message: "AI service is not configured. Set OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY.",
		Code:    http.StatusServiceUnavailable,
	}
}
