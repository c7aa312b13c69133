package root

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var schemaYAML []byte

const docsPage = `<!DOCTYPE html>
<html>
<head>
  <title>Recipe API</title>
  <meta charset="utf-8">
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: "/api/schema?format=json", dom_id: "#swagger-ui" });
  </script>
</body>
</html>`

// SchemaJSON converts the embedded OpenAPI document to JSON
func SchemaJSON() ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(schemaYAML, &doc); err != nil {
		return nil, err
	}

	return json.Marshal(doc)
}

// Schema serves the OpenAPI document as YAML, or JSON with ?format=json
func Schema(c *gin.Context) {
	if c.Query("format") != "json" {
		c.Data(http.StatusOK, "application/vnd.oai.openapi; charset=utf-8", schemaYAML)
		return
	}

	b, err := SchemaJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": c.GetString("requestID"),
		})

		zap.L().Error("Failed to convert schema", zap.Error(err))
		return
	}

	c.Data(http.StatusOK, "application/vnd.oai.openapi+json; charset=utf-8", b)
}

// Docs serves a Swagger UI page for the schema
func Docs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
}
