// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// MESSAGE TYPE ENUM
// =============================================================================

// MessageType categorizes a message for display purposes.
type MessageType string

const (
	TypeRegular MessageType = "regular"
	TypeError   MessageType = "error"
	TypeSystem  MessageType = "system"
	TypeDeleted MessageType = "deleted"
)

// String returns the string representation of the message type.
func (t MessageType) String() string {
	return string(t)
}

// IsValid reports whether the type is one of the known values.
func (t MessageType) IsValid() bool {
	switch t {
	case TypeRegular, TypeError, TypeSystem, TypeDeleted:
		return true
	}
	return false
}

// =============================================================================
// MESSAGE STATUS ENUM
// =============================================================================

// MessageStatus describes the transmission state of a message.
type MessageStatus string

const (
	StatusReceived MessageStatus = "received"
	StatusSending  MessageStatus = "sending"
	StatusFailed   MessageStatus = "failed"
)

// String returns the string representation of the status.
func (s MessageStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is one of the known values.
func (s MessageStatus) IsValid() bool {
	switch s {
	case StatusReceived, StatusSending, StatusFailed:
		return true
	}
	return false
}

// =============================================================================
// USER TYPE
// =============================================================================

// User is a chat participant. Only the fields the renderer needs are
// carried here; the full profile lives upstream.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DisplayName returns the name to show for the user, falling back to the ID.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// =============================================================================
// ATTACHMENT TYPE
// =============================================================================

// Attachment describes a file or media item attached to a message.
// The renderer only cares about presence; attachment bodies are rendered
// by a separate gallery component.
type Attachment struct {
	Type  string `json:"type"` // "image", "file", "video", ...
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a channel.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`

	// Content. Text is the plain body; HTML is an optional pre-sanitized
	// markup alternative that takes priority when the caller opts into
	// unsafe HTML rendering.
	Text string `json:"text,omitempty"`
	HTML string `json:"html,omitempty"`

	// Display state. Type and Status are independent signals: an error
	// message can also be in the failed state.
	Type   MessageType   `json:"type"`
	Status MessageStatus `json:"status"`

	// Attachments carried with the message (0..n).
	Attachments []Attachment `json:"attachments,omitempty"`

	// MentionedUsers are the users referenced within Text.
	MentionedUsers []User `json:"mentioned_users,omitempty"`
}

// NewMessage creates a regular, received message with a generated ID.
func NewMessage(text string, user User) *Message {
	return &Message{
		ID:        generateID(),
		User:      user,
		CreatedAt: time.Now(),
		Text:      text,
		Type:      TypeRegular,
		Status:    StatusReceived,
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// IsEmpty reports whether the message has neither text nor HTML content.
func (m *Message) IsEmpty() bool {
	return m == nil || (m.Text == "" && m.HTML == "")
}

// HasAttachments reports whether the message carries at least one attachment.
func (m *Message) HasAttachments() bool {
	return m != nil && len(m.Attachments) > 0
}

// MentionedIDs returns the IDs of all mentioned users, in order.
func (m *Message) MentionedIDs() []string {
	if m == nil || len(m.MentionedUsers) == 0 {
		return nil
	}
	ids := make([]string, len(m.MentionedUsers))
	for i, u := range m.MentionedUsers {
		ids[i] = u.ID
	}
	return ids
}

// Preview returns a truncated preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Text)
	if len(runes) <= maxLen {
		return m.Text
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
