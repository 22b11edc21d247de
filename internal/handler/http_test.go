package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/promptproxy/internal/handler"
)

func TestServeHTTP_Post(t *testing.T) {
	stub := &stubCompleter{result: "served"}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"prompt":"hi","max_tokens":2000}`))

	handler.New(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "served", body["result"])
	assert.Equal(t, []call{{"hi", 1024}}, stub.calls)
}

func TestServeHTTP_OverServer(t *testing.T) {
	srv := httptest.NewServer(handler.AccessLog(handler.New(&stubCompleter{result: "served"})))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(`{"prompt":"hi"}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "served", body["result"])
}

func TestServeHTTP_GetQuery(t *testing.T) {
	stub := &stubCompleter{result: "ok"}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?prompt=from+query&max_tokens=12", nil)

	handler.New(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []call{{"from query", 12}}, stub.calls)
}

func TestServeHTTP_Options(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)

	handler.New(&stubCompleter{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestServeHTTP_MissingPrompt(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))

	handler.New(&stubCompleter{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing 'prompt'")
}

func TestServeHTTP_BodyTooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	big := bytes.Repeat([]byte("a"), (1<<20)+10)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(big))

	stub := &stubCompleter{}
	handler.New(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, stub.calls)
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := handler.AccessLog(handler.New(&stubCompleter{result: "ok"}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/complete", strings.NewReader(`{"prompt":"hi"}`)).WithContext(context.Background())

	h.ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, "msg=request")
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "path=/complete")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "bytes=")
}
