// pdf.go proxies NCERT chapter PDFs through the local PDF cache, so the web
// client can embed them without cross-origin trouble.
//
// GET /api/v1/pdf-proxy?url=<ncert pdf url>
package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
)

// ProxyPDF serves an allowlisted PDF from the cache, downloading it on a miss.
// GET /api/v1/pdf-proxy?url=...
func (h *Handler) ProxyPDF(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "PDF URL is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	target, err := url.Parse(raw)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Hostname() == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_url",
			Message: "Invalid URL format",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if !hostAllowed(target.Hostname(), h.AllowedHosts) {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "forbidden_host",
			Message: "Only NCERT PDFs are allowed",
			Code:    http.StatusForbidden,
		})
		return
	}

	data, err := h.Cache.GetOrFetch(c.Request.Context(), raw, h.FetchPDF)
	if err != nil {
		log.Printf("❌ PDF proxy failed for %s: %v", raw, err)
		status, resp := proxyError(err)
		c.JSON(status, resp)
		return
	}

	c.Header("Content-Disposition", `inline; filename="document.pdf"`)
	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// proxyError maps a cache/fetch failure to an HTTP status and body.
func proxyError(err error) (int, models.ErrorResponse) {
	switch {
	case fetch.IsTimeout(err):
		return http.StatusGatewayTimeout, models.ErrorResponse{
			Error:   "upstream_timeout",
			Message: "Request timeout - PDF took too long to load",
			Code:    http.StatusGatewayTimeout,
		}
	case fetch.StatusCode(err) != 0:
		status := fetch.StatusCode(err)
		return status, models.ErrorResponse{
			Error:   "upstream_error",
			Message: "Failed to fetch PDF: " + http.StatusText(status),
			Code:    status,
		}
	}

	var fe *fetch.Error
	if errors.As(err, &fe) {
		return http.StatusBadGateway, models.ErrorResponse{
			Error:   "upstream_error",
			Message: "Failed to fetch PDF",
			Code:    http.StatusBadGateway,
		}
	}
	return http.StatusInternalServerError, models.ErrorResponse{
		Error:   "proxy_error",
		Message: "Failed to proxy PDF",
		Code:    http.StatusInternalServerError,
	}
}

// hostAllowed matches host exactly or as a subdomain of an allowed host.
func hostAllowed(host string, allowed []string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}
