// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	msg := NewMessage("hello", User{ID: "u1", Name: "maria"})

	if msg.Text != "hello" {
		t.Errorf("Text = %q, want %q", msg.Text, "hello")
	}
	if msg.Type != TypeRegular {
		t.Errorf("Type = %q, want %q", msg.Type, TypeRegular)
	}
	if msg.Status != StatusReceived {
		t.Errorf("Status = %q, want %q", msg.Status, StatusReceived)
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("ID = %q, want msg_ prefix", msg.ID)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMessageIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want bool
	}{
		{"nil message", nil, true},
		{"no content", &Message{}, true},
		{"text only", &Message{Text: "hi"}, false},
		{"html only", &Message{HTML: "<p>hi</p>"}, false},
		{"both", &Message{Text: "hi", HTML: "<p>hi</p>"}, false},
	}

	for _, tc := range tests {
		if got := tc.msg.IsEmpty(); got != tc.want {
			t.Errorf("%s: IsEmpty() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMessageHasAttachments(t *testing.T) {
	msg := &Message{}
	if msg.HasAttachments() {
		t.Error("empty message should have no attachments")
	}

	msg.Attachments = []Attachment{{Type: "image"}}
	if !msg.HasAttachments() {
		t.Error("message with one attachment should report attachments")
	}
}

func TestMentionedIDs(t *testing.T) {
	msg := &Message{
		MentionedUsers: []User{
			{ID: "u1", Name: "maria"},
			{ID: "u2", Name: "jo"},
		},
	}

	ids := msg.MentionedIDs()
	if len(ids) != 2 || ids[0] != "u1" || ids[1] != "u2" {
		t.Errorf("MentionedIDs() = %v, want [u1 u2]", ids)
	}

	var empty *Message
	if empty.MentionedIDs() != nil {
		t.Error("nil message should return nil IDs")
	}
}

func TestMessagePreview(t *testing.T) {
	msg := &Message{Text: "こんにちは世界、これはテストです"}
	got := msg.Preview(10)
	if len([]rune(got)) != 10 {
		t.Errorf("Preview(10) rune length = %d, want 10", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Preview(10) = %q, want ... suffix", got)
	}

	short := &Message{Text: "hi"}
	if short.Preview(10) != "hi" {
		t.Errorf("short Preview = %q, want %q", short.Preview(10), "hi")
	}
}

// =============================================================================
// ENUM TESTS
// =============================================================================

func TestMessageTypeIsValid(t *testing.T) {
	valid := []MessageType{TypeRegular, TypeError, TypeSystem, TypeDeleted}
	for _, mt := range valid {
		if !mt.IsValid() {
			t.Errorf("%q should be valid", mt)
		}
	}
	if MessageType("bogus").IsValid() {
		t.Error("bogus type should be invalid")
	}
}

func TestMessageStatusIsValid(t *testing.T) {
	valid := []MessageStatus{StatusReceived, StatusSending, StatusFailed}
	for _, ms := range valid {
		if !ms.IsValid() {
			t.Errorf("%q should be valid", ms)
		}
	}
	if MessageStatus("bogus").IsValid() {
		t.Error("bogus status should be invalid")
	}
}

func TestUserDisplayName(t *testing.T) {
	if (User{ID: "u1", Name: "maria"}).DisplayName() != "maria" {
		t.Error("DisplayName should prefer Name")
	}
	if (User{ID: "u1"}).DisplayName() != "u1" {
		t.Error("DisplayName should fall back to ID")
	}
}
