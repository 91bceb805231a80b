// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package page

import (
	"strings"
	"testing"

	"github.com/jeranaias/chatview/internal/model"
	"github.com/jeranaias/chatview/internal/render"
)

// =============================================================================
// PAGE BUILD TESTS
// =============================================================================

func TestBuildBasicDocument(t *testing.T) {
	msgs := []*model.Message{
		{User: model.User{Name: "maria"}, Text: "hello there"},
		{User: model.User{Name: "dana"}, Text: "🎉"},
	}

	doc := Build(Params{Title: "team chat", Messages: msgs})

	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Error("missing doctype")
	}
	if !strings.Contains(doc, "<title>team chat</title>") {
		t.Errorf("title missing: %s", doc[:200])
	}
	if !strings.Contains(doc, `class="simple-theme"`) {
		t.Error("default theme class missing on body")
	}
	if !strings.Contains(doc, "hello there") {
		t.Error("first message body missing")
	}
	if !strings.Contains(doc, "message-text-inner--is-emoji") {
		t.Error("emoji modifier missing for emoji-only message")
	}
	if strings.Count(doc, `class="message-options-slot"`) != 2 {
		t.Error("each message row should carry an options slot")
	}
}

func TestBuildEscapesTitleAndAuthor(t *testing.T) {
	msgs := []*model.Message{
		{User: model.User{Name: "<script>"}, Text: "hi"},
	}

	doc := Build(Params{Title: `<b>x</b>`, Messages: msgs})

	if strings.Contains(doc, "<title><b>") {
		t.Error("title not escaped")
	}
	if strings.Contains(doc, `<span class="message-author"><script>`) {
		t.Error("author name not escaped")
	}
}

func TestBuildSkipsEmptyMessages(t *testing.T) {
	msgs := []*model.Message{
		{User: model.User{Name: "maria"}},
		{User: model.User{Name: "dana"}, Text: "only me"},
	}

	doc := Build(Params{Messages: msgs})

	if strings.Count(doc, `class="message-row"`) != 1 {
		t.Errorf("empty message should be skipped: %s", doc)
	}
}

func TestBuildEmptyList(t *testing.T) {
	doc := Build(Params{})
	if !strings.Contains(doc, "message-list-empty") {
		t.Error("empty list placeholder missing")
	}
}

func TestBuildCustomTheme(t *testing.T) {
	doc := Build(Params{
		Theme:    "dark",
		Messages: []*model.Message{{Text: "hi"}},
		Options:  &render.Options{Theme: "dark"},
	})

	if !strings.Contains(doc, `class="dark-theme"`) {
		t.Error("theme class missing on body")
	}
	if !strings.Contains(doc, "message-dark-text-inner") {
		t.Error("themed inner class missing on message")
	}
}
