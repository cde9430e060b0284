package proxy

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyToKeepsPathQueryAndBody(t *testing.T) {
	var gotPath, gotQuery, gotType string
	var gotBody []byte
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"s1"}`))
	}))
	defer upstream.Close()

	app := fiber.New()
	app.All("/api/v1/sessions/*", ProxyTo(upstream.URL+"/", "/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/pointer?debug=1", bytes.NewBufferString(`{"type":"down"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"s1"}`, string(body))
	assert.Equal(t, "/sessions/abc/pointer", gotPath)
	assert.Equal(t, "debug=1", gotQuery)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, `{"type":"down"}`, string(gotBody))
}

func TestProxyUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	app := fiber.New()
	app.Get("/api/v1/sheets", ProxyTo(url, "/api/v1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/sheets", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestCopyResponseSkipsConnectionHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return copyResponse(c, &http.Response{
			StatusCode: http.StatusOK,
			Header: http.Header{
				"Content-Length":    {"999"},
				"Transfer-Encoding": {"chunked"},
				"Connection":        {"keep-alive"},
				"X-Trace":           {"t1"},
			},
			Body: io.NopCloser(bytes.NewBufferString("ok")),
		})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int64(2), resp.ContentLength)
	assert.Empty(t, resp.TransferEncoding)
	assert.Equal(t, "t1", resp.Header.Get("X-Trace"))
}
