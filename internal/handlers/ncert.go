// ncert.go serves the NCERT textbook catalog.
//
// GET /api/v1/ncert/chapters: resolve one book and list its chapters
// GET /api/v1/ncert/options: enumerate class → subject → book
package handlers

import (
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

// GetChapters resolves a book and returns it with its chapters.
// GET /api/v1/ncert/chapters?bookId=... or ?class=...&subject=...
//
// Pass derive_titles=true to replace bundled chapter names with the titles
// printed on each chapter's first page (static books only; live titles are
// already derived by the scraper).
func (h *Handler) GetChapters(c *gin.Context) {
	var q models.BookQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid query parameters: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	if q.BookID == "" && q.Class == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Either bookId or class is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	resp := h.Catalog.ResolveBook(c.Request.Context(), q)
	if resp == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "No NCERT book found for the provided class and subject",
			Code:    http.StatusNotFound,
		})
		return
	}

	chapters := make([]models.ChapterRecord, len(resp.Chapters))
	copy(chapters, resp.Chapters)
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number < chapters[j].Number
	})

	if c.Query("derive_titles") == "true" && resp.Source == models.SourceStatic && h.Titles != nil {
		chapters = h.Titles.WithDerivedTitles(c.Request.Context(), chapters)
	}

	c.JSON(http.StatusOK, models.BookResponse{
		Source:   resp.Source,
		Book:     resp.Book,
		Chapters: chapters,
	})
}

// GetOptions enumerates every class, subject and book in the active catalog.
// GET /api/v1/ncert/options
func (h *Handler) GetOptions(c *gin.Context) {
	opts := h.Catalog.ListOptions(c.Request.Context())
	if opts == nil {
		log.Println("⚠️  Library options came back empty")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "catalog_unavailable",
			Message: "Unable to load NCERT library options",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.JSON(http.StatusOK, opts)
}
