// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 64
)

// ============================================================================
// LIVE PREVIEW EVENTS
// ============================================================================

// PreviewEvent is pushed to live preview clients whenever a message is
// stored, retried, or re-rendered.
type PreviewEvent struct {
	Type      string    `json:"type"` // "message.new", "message.retry"
	MessageID string    `json:"message_id"`
	HTML      string    `json:"html"`
	Timestamp time.Time `json:"timestamp"`
}

// ============================================================================
// HUB
// ============================================================================

// Hub manages live preview WebSocket clients and fans events out to them.
type Hub struct {
	clients map[uuid.UUID]*wsClient
	count   int64

	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte
}

// NewHub creates a preview hub. Call Run in a goroutine before use.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*wsClient),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, 256),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.send)
				atomic.AddInt64(&h.count, -1)
			}
			return

		case client := <-h.register:
			h.clients[client.id] = client
			atomic.AddInt64(&h.count, 1)
			log.Printf("WS_CONNECT | client=%s total=%d", client.id, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
				atomic.AddInt64(&h.count, -1)
				log.Printf("WS_DISCONNECT | client=%s total=%d", client.id, len(h.clients))
			}

		case data := <-h.broadcast:
			for id, client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Client buffer full - disconnect
					delete(h.clients, id)
					close(client.send)
					atomic.AddInt64(&h.count, -1)
				}
			}
		}
	}
}

// ClientCount returns the number of connected preview clients.
func (h *Hub) ClientCount() int64 {
	return atomic.LoadInt64(&h.count)
}

// Broadcast sends an event to every connected preview client.
func (h *Hub) Broadcast(event PreviewEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("WS_MARSHAL_ERROR | err=%v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("WS_BROADCAST_DROPPED | reason=queue_full")
	}
}

// ============================================================================
// CLIENT
// ============================================================================

type wsClient struct {
	id   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// handleWS handles GET /ws by upgrading the connection and streaming preview
// events until the client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("WS_ACCEPT_FAILED | err=%v", err)
		return
	}

	client := &wsClient{
		id:   uuid.New(),
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	s.hub.register <- client

	go client.readPump(r.Context())
	client.writePump(r.Context())
}

// readPump drains client frames. Preview clients are receive-only; any read
// error tears the connection down.
func (c *wsClient) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writePump pushes broadcast events to the client and keeps the connection
// alive with pings.
func (c *wsClient) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case data, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
