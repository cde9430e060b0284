package handlers

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html"

	"github.com/gofiber/fiber/v3"
	"gopkg.in/yaml.v3"
)

// ============================================================
// API Docs
// ============================================================

//go:embed openapi.yaml
var openAPIDocument []byte

// Docs раздает встроенный OpenAPI-документ (YAML и JSON) и страницу Swagger UI.
// Документ разбирается один раз при старте: битый YAML — ошибка запуска, а не 500.
type Docs struct {
	yamlDoc []byte
	jsonDoc []byte
	page    string
}

type openAPIInfo struct {
	Info struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
}

func NewDocs() (*Docs, error) {
	return newDocs(openAPIDocument)
}

func newDocs(doc []byte) (*Docs, error) {
	var info openAPIInfo
	if err := yaml.Unmarshal(doc, &info); err != nil {
		return nil, fmt.Errorf("parse openapi: %w", err)
	}
	if info.Info.Title == "" {
		return nil, fmt.Errorf("parse openapi: info.title is empty")
	}

	var tree any
	if err := yaml.Unmarshal(doc, &tree); err != nil {
		return nil, fmt.Errorf("parse openapi: %w", err)
	}
	jsonDoc, err := json.Marshal(jsonKeys(tree))
	if err != nil {
		return nil, fmt.Errorf("convert openapi: %w", err)
	}

	title := info.Info.Title
	if info.Info.Version != "" {
		title += " " + info.Info.Version
	}
	return &Docs{yamlDoc: doc, jsonDoc: jsonDoc, page: swaggerPage(title)}, nil
}

// Register вешает /docs, /docs/openapi.yaml и /docs/openapi.json.
func (d *Docs) Register(router fiber.Router) {
	router.Get("/docs", d.UI)
	router.Get("/docs/openapi.yaml", d.YAML)
	router.Get("/docs/openapi.json", d.JSON)
}

func (d *Docs) YAML(c fiber.Ctx) error {
	c.Type("yaml")
	return c.Send(d.yamlDoc)
}

func (d *Docs) JSON(c fiber.Ctx) error {
	c.Type("json")
	return c.Send(d.jsonDoc)
}

func (d *Docs) UI(c fiber.Ctx) error {
	c.Type("html")
	return c.SendString(d.page)
}

// jsonKeys приводит ключи YAML-отображений к строкам (коды ответов могут быть числами).
func jsonKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = jsonKeys(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = jsonKeys(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = jsonKeys(item)
		}
		return t
	}
	return v
}

func swaggerPage(title string) string {
	return fmt.Sprintf(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '/docs/openapi.json',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
    });
  };
</script>
</body>
</html>`, html.EscapeString(title))
}
