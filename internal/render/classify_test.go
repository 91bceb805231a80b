// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"

	"github.com/jeranaias/chatview/internal/model"
)

// =============================================================================
// STATUS CLASSIFIER TESTS
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  *model.Message
		want []string
	}{
		{"nil message", nil, nil},
		{"plain text", &model.Message{Text: "hi"}, nil},
		{
			"one attachment",
			&model.Message{Text: "hi", Attachments: []model.Attachment{{Type: "image"}}},
			[]string{ModifierHasAttachment},
		},
		{
			"many attachments of any type",
			&model.Message{Text: "hi", Attachments: []model.Attachment{{Type: "file"}, {Type: "video"}}},
			[]string{ModifierHasAttachment},
		},
		{"emoji only", &model.Message{Text: "🤖🤖🤖🤖"}, []string{ModifierIsEmoji}},
		{"emoji and letters", &model.Message{Text: "🤖 beep"}, nil},
		{
			"attachment and emoji combine",
			&model.Message{Text: "🎉", Attachments: []model.Attachment{{Type: "image"}}},
			[]string{ModifierHasAttachment, ModifierIsEmoji},
		},
	}

	for _, tc := range tests {
		got := Classify(tc.msg)
		if strings.Join(got, " ") != strings.Join(tc.want, " ") {
			t.Errorf("%s: Classify() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestThemeToken(t *testing.T) {
	if got := themeToken(""); got != "message-simple-text-inner" {
		t.Errorf("default theme token = %q", got)
	}
	if got := themeToken("custom"); got != "message-custom-text-inner" {
		t.Errorf("custom theme token = %q", got)
	}
}

func TestInnerClassTokens(t *testing.T) {
	msg := &model.Message{Text: "🎉", Attachments: []model.Attachment{{Type: "image"}}}

	got := innerClassTokens(msg, &Options{})
	want := []string{
		"message-text-inner",
		"message-simple-text-inner",
		"message-text-inner--has-attachment",
		"message-text-inner--is-emoji",
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("innerClassTokens = %v, want %v", got, want)
	}

	// A custom inner class replaces the base tokens but keeps modifiers.
	got = innerClassTokens(msg, &Options{CustomInnerClass: "my-inner"})
	if got[0] != "my-inner" {
		t.Errorf("custom inner class not honored: %v", got)
	}
	if !strings.Contains(strings.Join(got, " "), "message-text-inner--is-emoji") {
		t.Errorf("modifiers dropped with custom inner class: %v", got)
	}
}

func TestWrapperClassToken(t *testing.T) {
	if got := wrapperClassToken(&Options{}); got != "message-text" {
		t.Errorf("default wrapper class = %q", got)
	}
	if got := wrapperClassToken(&Options{CustomWrapperClass: "my-wrap"}); got != "my-wrap" {
		t.Errorf("custom wrapper class = %q", got)
	}
}
