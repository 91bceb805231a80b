// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns a chat message into the HTML for its text body.
//
// The entry point is Render, which composes four independent, pure
// transforms over the same message:
//
//   - status classification: CSS modifier tokens derived from message state
//     (attachments present, emoji-only text)
//   - content selection: raw-HTML passthrough vs mention-aware text
//     processing
//   - mention interaction binding: delegated hover/click handlers resolved
//     from per-call options or channel-wide defaults
//   - status affordances: the "Error · Unsent" banner and the
//     "Message Failed · Click to try again" retry element
//
// Rendering is idempotent and allocation-only: identical inputs always
// produce byte-identical HTML, and the input message is never mutated.
// Event handlers are the only asynchronous-facing boundary; they are plain
// fire-and-forget callbacks dispatched through Rendered.Click and
// Rendered.Hover.
package render
