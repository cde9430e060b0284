package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadinessProbe(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"alive"}`))
	}))
	defer up.Close()
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	app := fiber.New()
	app.Get("/ok", ReadinessProbe(map[string]string{"sheets": up.URL}))
	app.Get("/degraded", ReadinessProbe(map[string]string{"sheets": up.URL, "solver": downURL}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/degraded", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Services map[string]string `json:"services"`
	}
	data, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, map[string]string{"sheets": "up", "solver": "down"}, body.Services)
}

func TestDocsServeEmbeddedDocument(t *testing.T) {
	docs, err := NewDocs()
	require.NoError(t, err)

	app := fiber.New()
	docs.Register(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "/sessions/{sid}/pointer")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))
	require.NoError(t, err)
	var doc struct {
		Info  map[string]string `json:"info"`
		Paths map[string]any    `json:"paths"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "Frame Sketch API", doc.Info["title"])
	assert.Contains(t, doc.Paths, "/sheets/{id}/actions")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.NoError(t, err)
	data, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(data), "<title>Frame Sketch API 1.0</title>")
}

func TestDocsRejectBrokenDocument(t *testing.T) {
	_, err := newDocs([]byte("openapi: [3.0"))
	assert.Error(t, err)

	_, err = newDocs([]byte("openapi: 3.0.3\ninfo: {}\n"))
	assert.Error(t, err)
}

func TestDocsNumericResponseCodes(t *testing.T) {
	docs, err := newDocs([]byte("info: {title: T}\npaths:\n  /x:\n    get:\n      responses:\n        200: {description: ok}\n"))
	require.NoError(t, err)
	assert.Contains(t, string(docs.jsonDoc), `"200":{"description":"ok"}`)
}
