package handlers

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

// ServeFile downloads an object from local storage. The token query
// parameter must match the one issued when the object was saved.
// GET /files/*path?token=...
func (h *Handler) ServeFile(c *gin.Context) {
	objectPath := c.Param("path")
	full, err := h.Bucket.Open(objectPath, c.Query("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "File not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	switch path.Ext(objectPath) {
	case ".pdf":
		c.Header("Content-Type", "application/pdf")
	case ".txt":
		c.Header("Content-Type", "text/plain; charset=utf-8")
	}
	c.File(full)
}
