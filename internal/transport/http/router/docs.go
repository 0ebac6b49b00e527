package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-mongo-blog/internal/transport/http/ez"
)

// MountDocs 挂载 Swagger UI（/api-docs）与由路由目录生成的 OpenAPI JSON
func MountDocs(r *gin.Engine, cat *ez.Catalog, title, version string) {
	r.GET("/api-docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})
	r.GET("/api-docs/doc.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, cat.OpenAPI(title, version))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Blog API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/api-docs/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`
