// docs.go serves the OpenAPI document and Swagger UI.
//
// The OpenAPI 3.0 document is hand-written YAML, embedded into the binary,
// and rendered by Swagger UI loaded from a CDN.
package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

// openAPIDoc is embedded at compile time.
//
//go:embed openapi.yaml
var openAPIDoc []byte

// ServeOpenAPIDoc returns the raw OpenAPI YAML document.
// GET /api/docs/openapi.yaml
func (h *Handler) ServeOpenAPIDoc(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openAPIDoc)
}

// ServeSwaggerUI returns an HTML page that loads Swagger UI from a CDN
// and points it at the OpenAPI document.
// GET /api/docs
func (h *Handler) ServeSwaggerUI(c *gin.Context) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Study Circle API Documentation</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>
    body { margin: 0; background: #fafafa; }
    .swagger-ui .topbar { display: none; }
    .swagger-ui .info { margin: 20px 0; }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/api/docs/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [
        SwaggerUIBundle.presets.apis,
        SwaggerUIBundle.SwaggerUIStandalonePreset
      ],
      layout: 'BaseLayout',
      deepLinking: true,
      defaultModelsExpandDepth: 2,
      defaultModelExpandDepth: 2,
    });
  </script>
</body>
</html>`

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
