// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages.
//
// This package defines the core domain types used throughout chatview
// for representing messages, their attachments, and mentioned users.
//
// # Key Types
//
//   - Message: Single message with text, optional raw HTML, type, status,
//     attachments, and mentioned users
//   - MessageType: Message type enumeration (regular, error, system, deleted)
//   - MessageStatus: Transmission status enumeration (received, sending, failed)
//   - Attachment: File or media descriptor attached to a message
//   - User: A chat participant that can be mentioned in message text
//
// # Usage
//
// Create a new message:
//
//	msg := model.NewMessage("hello @maria", model.User{ID: "u1", Name: "maria"})
//	msg.Status = model.StatusFailed
//
// Messages are read-only to the rendering layer; nothing in chatview
// mutates a Message after construction.
package model
