// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package page builds standalone HTML preview documents from stored messages.
//
// The document embeds its own CSS, styled against the renderer's class
// vocabulary, so it can be opened directly in a browser with no asset
// pipeline.
package page
