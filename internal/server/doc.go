// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the chatview preview HTTP server.
//
// Endpoints:
//   - POST /v1/render             - Render a message to HTML without storing it
//   - POST /v1/messages           - Store a message and broadcast its HTML
//   - GET  /v1/messages           - List stored messages with rendered HTML
//   - POST /v1/messages/{id}/retry - Retry a failed message
//   - GET  /v1/page               - Full HTML page with all stored messages
//   - GET  /ws                    - WebSocket live preview stream
//   - GET  /health                - Health check
//   - GET  /stats                 - Usage statistics
package server
