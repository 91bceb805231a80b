// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeranaias/chatview/internal/model"
	"github.com/jeranaias/chatview/internal/page"
	"github.com/jeranaias/chatview/internal/render"
	"github.com/jeranaias/chatview/internal/storage"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the HTTP server.
	DefaultPort = 8420

	// MaxRequestBodySize is the maximum size for request body (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxTextLength is the maximum message text length accepted over the API.
	MaxTextLength = 100000

	// Version is the server version.
	Version = "0.1.0"
)

// ============================================================================
// SERVER STATS
// ============================================================================

// RenderStats tracks server usage statistics.
type RenderStats struct {
	TotalRequests    int64     `json:"total_requests"`
	RenderCount      int64     `json:"render_count"`
	EmptyRenders     int64     `json:"empty_renders"`
	AffordancesShown int64     `json:"affordances_shown"`
	MessagesStored   int64     `json:"messages_stored"`
	RetryCount       int64     `json:"retry_count"`
	StartTime        time.Time `json:"start_time"`
}

// NewRenderStats creates a new RenderStats instance.
func NewRenderStats() *RenderStats {
	return &RenderStats{StartTime: time.Now()}
}

// Snapshot returns a copy of the current stats.
func (s *RenderStats) Snapshot() RenderStats {
	return RenderStats{
		TotalRequests:    atomic.LoadInt64(&s.TotalRequests),
		RenderCount:      atomic.LoadInt64(&s.RenderCount),
		EmptyRenders:     atomic.LoadInt64(&s.EmptyRenders),
		AffordancesShown: atomic.LoadInt64(&s.AffordancesShown),
		MessagesStored:   atomic.LoadInt64(&s.MessagesStored),
		RetryCount:       atomic.LoadInt64(&s.RetryCount),
		StartTime:        s.StartTime,
	}
}

// Uptime returns the server uptime duration.
func (s *RenderStats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the chatview preview HTTP server.
type Server struct {
	port   int
	router *http.ServeMux
	server *http.Server

	store *storage.MessageStore
	hub   *Hub
	stats *RenderStats
	auth  *AuthConfig

	rateLimitPerMinute int

	// Default render behavior; per-request options layer on top.
	opts    *render.Options
	chanCtx *render.ChannelContext

	mu sync.RWMutex
}

// NewServer creates a new Server with the specified port.
// If port is 0, the default port (8420) is used.
func NewServer(port int) *Server {
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		port:               port,
		router:             http.NewServeMux(),
		hub:                NewHub(),
		stats:              NewRenderStats(),
		auth:               DefaultAuthConfig(),
		rateLimitPerMinute: 120,
		opts:               &render.Options{},
		chanCtx:            &render.ChannelContext{},
	}

	s.setupRoutes()
	return s
}

// WithStore sets the message store.
func (s *Server) WithStore(store *storage.MessageStore) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
	return s
}

// WithAuth sets the authentication configuration.
func (s *Server) WithAuth(config *AuthConfig) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = config
	return s
}

// WithRenderDefaults sets the default render options and channel context.
func (s *Server) WithRenderDefaults(opts *render.Options, chanCtx *render.ChannelContext) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts != nil {
		s.opts = opts
	}
	if chanCtx != nil {
		s.chanCtx = chanCtx
	}
	return s
}

// WithRateLimit sets the per-IP request rate limit.
func (s *Server) WithRateLimit(perMinute int) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if perMinute > 0 {
		s.rateLimitPerMinute = perMinute
	}
	return s
}

// Port returns the server port.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the fully wrapped HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	handler := Chain(
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(log.Default()),
		RateLimitMiddleware(NewRateLimiter(s.rateLimitPerMinute)),
	)(s.router)

	if s.auth != nil && s.auth.Enabled {
		handler = AuthMiddleware(s.auth)(handler)
	}

	return handler
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /v1/render", s.handleRender)
	s.router.HandleFunc("POST /v1/messages", s.handleCreateMessage)
	s.router.HandleFunc("GET /v1/messages", s.handleListMessages)
	s.router.HandleFunc("POST /v1/messages/{id}/retry", s.handleRetry)
	s.router.HandleFunc("GET /v1/page", s.handlePage)

	s.router.HandleFunc("GET /ws", s.handleWS)

	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /stats", s.handleStats)
}

// ============================================================================
// REQUEST/RESPONSE TYPES
// ============================================================================

// RenderOverrides are the per-request knobs layered on the server defaults.
type RenderOverrides struct {
	UnsafeHTML         *bool   `json:"unsafe_html,omitempty"`
	Theme              *string `json:"theme,omitempty"`
	DisplayIconOnError *bool   `json:"display_icon_on_error,omitempty"`
	CustomWrapperClass *string `json:"custom_wrapper_class,omitempty"`
	CustomInnerClass   *string `json:"custom_inner_class,omitempty"`
}

// RenderRequest is the body of POST /v1/render and POST /v1/messages.
type RenderRequest struct {
	Message *model.Message   `json:"message"`
	Options *RenderOverrides `json:"options,omitempty"`
}

// RenderResponse carries a rendered message back to the caller.
type RenderResponse struct {
	Message *model.Message `json:"message,omitempty"`
	HTML    string         `json:"html"`
	Empty   bool           `json:"empty"`
}

// ============================================================================
// RENDER HANDLERS
// ============================================================================

// effectiveOptions merges per-request overrides onto the server defaults.
func (s *Server) effectiveOptions(overrides *RenderOverrides) *render.Options {
	s.mu.RLock()
	base := *s.opts
	s.mu.RUnlock()

	if overrides == nil {
		return &base
	}
	if overrides.UnsafeHTML != nil {
		base.UnsafeHTML = *overrides.UnsafeHTML
	}
	if overrides.Theme != nil {
		base.Theme = *overrides.Theme
	}
	if overrides.DisplayIconOnError != nil {
		base.DisplayIconOnError = *overrides.DisplayIconOnError
	}
	if overrides.CustomWrapperClass != nil {
		base.CustomWrapperClass = *overrides.CustomWrapperClass
	}
	if overrides.CustomInnerClass != nil {
		base.CustomInnerClass = *overrides.CustomInnerClass
	}
	return &base
}

func (s *Server) decodeRenderRequest(w http.ResponseWriter, r *http.Request) (*RenderRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("REQUEST_DECODE_FAILED | path=%s err=%v", r.URL.Path, err)
		s.writeError(w, http.StatusBadRequest, "Invalid request format")
		return nil, false
	}
	if req.Message == nil {
		s.writeError(w, http.StatusBadRequest, "Request must contain a message")
		return nil, false
	}
	if len(req.Message.Text) > MaxTextLength {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Message text exceeds maximum length of %d", MaxTextLength))
		return nil, false
	}
	if req.Message.Type != "" && !req.Message.Type.IsValid() {
		s.writeError(w, http.StatusBadRequest, "Invalid message type")
		return nil, false
	}
	if req.Message.Status != "" && !req.Message.Status.IsValid() {
		s.writeError(w, http.StatusBadRequest, "Invalid message status")
		return nil, false
	}
	return &req, true
}

// renderMessage runs the renderer and updates stats.
func (s *Server) renderMessage(msg *model.Message, overrides *RenderOverrides) string {
	atomic.AddInt64(&s.stats.RenderCount, 1)

	s.mu.RLock()
	chanCtx := s.chanCtx
	s.mu.RUnlock()

	rendered := render.Render(msg, s.effectiveOptions(overrides), chanCtx)
	if rendered == nil {
		atomic.AddInt64(&s.stats.EmptyRenders, 1)
		return ""
	}
	if msg.Type == model.TypeError || msg.Status == model.StatusFailed {
		atomic.AddInt64(&s.stats.AffordancesShown, 1)
	}
	return rendered.HTML()
}

// handleRender handles POST /v1/render: render without storing.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.stats.TotalRequests, 1)

	req, ok := s.decodeRenderRequest(w, r)
	if !ok {
		return
	}

	html := s.renderMessage(req.Message, req.Options)
	s.writeJSON(w, http.StatusOK, RenderResponse{
		HTML:  html,
		Empty: html == "",
	})
}

// ============================================================================
// MESSAGE HANDLERS
// ============================================================================

// handleCreateMessage handles POST /v1/messages: store, render, broadcast.
func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.stats.TotalRequests, 1)

	req, ok := s.decodeRenderRequest(w, r)
	if !ok {
		return
	}

	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Message storage not configured")
		return
	}

	if err := store.Add(r.Context(), req.Message); err != nil {
		log.Printf("MESSAGE_STORE_FAILED | err=%v", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to store message")
		return
	}
	atomic.AddInt64(&s.stats.MessagesStored, 1)

	html := s.renderMessage(req.Message, req.Options)
	s.hub.Broadcast(PreviewEvent{
		Type:      "message.new",
		MessageID: req.Message.ID,
		HTML:      html,
	})

	s.writeJSON(w, http.StatusCreated, RenderResponse{
		Message: req.Message,
		HTML:    html,
		Empty:   html == "",
	})
}

// handleListMessages handles GET /v1/messages.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.stats.TotalRequests, 1)

	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Message storage not configured")
		return
	}

	messages, err := store.List(r.Context(), 0)
	if err != nil {
		log.Printf("MESSAGE_LIST_FAILED | err=%v", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	responses := make([]RenderResponse, 0, len(messages))
	for _, msg := range messages {
		html := s.renderMessage(msg, nil)
		responses = append(responses, RenderResponse{
			Message: msg,
			HTML:    html,
			Empty:   html == "",
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": responses,
		"count":    len(responses),
	})
}

// handleRetry handles POST /v1/messages/{id}/retry. The failed affordance is
// clicked programmatically so the retry callback fires exactly as it would
// from the rendered view, then the message moves back to sending.
func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.stats.TotalRequests, 1)

	s.mu.RLock()
	store := s.store
	chanCtx := s.chanCtx
	s.mu.RUnlock()
	if store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Message storage not configured")
		return
	}

	id := r.PathValue("id")
	msg, err := store.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to load message")
		return
	}
	if msg.Status != model.StatusFailed {
		s.writeError(w, http.StatusConflict, "Message is not in the failed state")
		return
	}

	retried := false
	opts := s.effectiveOptions(nil)
	opts.OnRetryClick = func(ev render.Event, m *model.Message) {
		retried = true
	}
	if rendered := render.Render(msg, opts, chanCtx); rendered != nil {
		rendered.Click(render.TestIDFailed)
	}
	if !retried {
		s.writeError(w, http.StatusInternalServerError, "Retry affordance did not fire")
		return
	}

	if err := store.UpdateStatus(r.Context(), id, model.StatusSending); err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to update message status")
		return
	}
	msg.Status = model.StatusSending
	atomic.AddInt64(&s.stats.RetryCount, 1)

	html := s.renderMessage(msg, nil)
	s.hub.Broadcast(PreviewEvent{
		Type:      "message.retry",
		MessageID: msg.ID,
		HTML:      html,
	})

	log.Printf("MESSAGE_RETRY | id=%s", id)
	s.writeJSON(w, http.StatusOK, RenderResponse{
		Message: msg,
		HTML:    html,
		Empty:   html == "",
	})
}

// ============================================================================
// PAGE HANDLER
// ============================================================================

// handlePage handles GET /v1/page: the full standalone preview document.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.stats.TotalRequests, 1)

	s.mu.RLock()
	store := s.store
	opts := s.opts
	chanCtx := s.chanCtx
	s.mu.RUnlock()

	var messages []*model.Message
	if store != nil {
		var err error
		messages, err = store.List(r.Context(), 0)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "Failed to list messages")
			return
		}
	}

	doc := page.Build(page.Params{
		Title:    "chatview preview",
		Theme:    opts.Theme,
		Messages: messages,
		Options:  opts,
		Context:  chanCtx,
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, doc)
}

// ============================================================================
// HEALTH AND STATS HANDLERS
// ============================================================================

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	StorageStatus string `json:"storage_status"`
	MessageCount  int    `json:"message_count"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:  "ok",
		Version: Version,
	}

	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()

	if store == nil {
		health.StorageStatus = "not_configured"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		n, err := store.Count(ctx)
		if err != nil {
			health.StorageStatus = "unavailable"
			health.Status = "degraded"
		} else {
			health.StorageStatus = "ok"
			health.MessageCount = n
		}
	}

	s.writeJSON(w, http.StatusOK, health)
}

// StatsResponse represents the usage statistics response.
type StatsResponse struct {
	TotalRequests    int64 `json:"total_requests"`
	RenderCount      int64 `json:"render_count"`
	EmptyRenders     int64 `json:"empty_renders"`
	AffordancesShown int64 `json:"affordances_shown"`
	MessagesStored   int64 `json:"messages_stored"`
	RetryCount       int64 `json:"retry_count"`
	PreviewClients   int64 `json:"preview_clients"`
	UptimeSeconds    int64 `json:"uptime_seconds"`
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.stats.Snapshot()

	s.writeJSON(w, http.StatusOK, StatsResponse{
		TotalRequests:    stats.TotalRequests,
		RenderCount:      stats.RenderCount,
		EmptyRenders:     stats.EmptyRenders,
		AffordancesShown: stats.AffordancesShown,
		MessagesStored:   stats.MessagesStored,
		RetryCount:       stats.RetryCount,
		PreviewClients:   s.hub.ClientCount(),
		UptimeSeconds:    int64(s.stats.Uptime().Seconds()),
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start starts the HTTP server and the preview hub. Blocks until the server
// stops.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	go s.hub.Run(ctx)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("SERVER_START | addr=%s version=%s", addr, Version)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Printf("SERVER_SHUTDOWN | starting graceful shutdown")
	return s.server.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"code":    status,
		},
	})
}
