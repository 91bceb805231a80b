// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatview/internal/model"
	"github.com/jeranaias/chatview/internal/render"
	"github.com/jeranaias/chatview/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "messages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewServer(0).
		WithStore(store).
		WithRenderDefaults(&render.Options{}, &render.ChannelContext{
			Config: render.ChannelConfig{MarkdownEnabled: true},
		})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// RENDER ENDPOINT TESTS
// =============================================================================

func TestHandleRender(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/render", RenderRequest{
		Message: &model.Message{Text: "hello **world**"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Empty)
	assert.Contains(t, resp.HTML, "message-text-inner-wrapper")
	assert.Contains(t, resp.HTML, "<strong>world</strong>")
}

func TestHandleRenderEmptyMessage(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/render", RenderRequest{
		Message: &model.Message{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Empty)
	assert.Empty(t, resp.HTML)
}

func TestHandleRenderValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"no message", RenderRequest{}},
		{"bad type", RenderRequest{Message: &model.Message{Text: "x", Type: "bogus"}}},
		{"bad status", RenderRequest{Message: &model.Message{Text: "x", Status: "bogus"}}},
		{"text too long", RenderRequest{Message: &model.Message{Text: strings.Repeat("a", MaxTextLength+1)}}},
	}

	for _, tc := range tests {
		rec := doJSON(t, s, http.MethodPost, "/v1/render", tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
	}
}

func TestHandleRenderOverrides(t *testing.T) {
	s := newTestServer(t)

	theme := "dark"
	rec := doJSON(t, s, http.MethodPost, "/v1/render", RenderRequest{
		Message: &model.Message{Text: "hi"},
		Options: &RenderOverrides{Theme: &theme},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.HTML, "message-dark-text-inner")
}

func TestHandleRenderUnsafeHTML(t *testing.T) {
	s := newTestServer(t)

	unsafe := true
	raw := `<span data-testid="x" />`
	rec := doJSON(t, s, http.MethodPost, "/v1/render", RenderRequest{
		Message: &model.Message{HTML: raw},
		Options: &RenderOverrides{UnsafeHTML: &unsafe},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.HTML, raw)
}

// =============================================================================
// MESSAGE ENDPOINT TESTS
// =============================================================================

func TestHandleCreateAndListMessages(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/messages", RenderRequest{
		Message: &model.Message{User: model.User{ID: "u1", Name: "maria"}, Text: "first"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Message)
	assert.NotEmpty(t, created.Message.ID)
	assert.Contains(t, created.HTML, "first")

	rec = doJSON(t, s, http.MethodGet, "/v1/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Messages []RenderResponse `json:"messages"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Contains(t, list.Messages[0].HTML, "first")
}

func TestHandleRetry(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/messages", RenderRequest{
		Message: &model.Message{
			User:   model.User{ID: "u1"},
			Text:   "didn't go through",
			Status: model.StatusFailed,
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Contains(t, created.HTML, "Message Failed · Click to try again")

	rec = doJSON(t, s, http.MethodPost, "/v1/messages/"+created.Message.ID+"/retry", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var retried RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &retried))
	assert.Equal(t, model.StatusSending, retried.Message.Status)
	assert.NotContains(t, retried.HTML, "Message Failed")
}

func TestHandleRetryErrors(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/messages/nope/retry", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/v1/messages", RenderRequest{
		Message: &model.Message{User: model.User{ID: "u1"}, Text: "fine"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, s, http.MethodPost, "/v1/messages/"+created.Message.ID+"/retry", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// =============================================================================
// PAGE / HEALTH / STATS TESTS
// =============================================================================

func TestHandlePage(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/v1/messages", RenderRequest{
		Message: &model.Message{User: model.User{Name: "maria"}, Text: "on the page"},
	})

	rec := doJSON(t, s, http.MethodGet, "/v1/page", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "on the page")
	assert.Contains(t, rec.Body.String(), "message-options-slot")
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.StorageStatus)
}

func TestHandleStats(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/v1/render", RenderRequest{
		Message: &model.Message{Text: "hi"},
	})
	doJSON(t, s, http.MethodPost, "/v1/render", RenderRequest{
		Message: &model.Message{Text: "oops", Status: model.StatusFailed},
	})

	rec := doJSON(t, s, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(2), stats.RenderCount)
	assert.Equal(t, int64(1), stats.AffordancesShown)
}
