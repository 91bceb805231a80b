// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides message persistence for chatview.
//
// Messages are stored in a local SQLite database (pure Go driver, no cgo).
// The store is safe for concurrent use by the HTTP server.
package storage
