// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"github.com/jeranaias/chatview/internal/model"
)

// =============================================================================
// STATUS CLASSIFIER
// =============================================================================

// Base class tokens. Modifiers attach to the inner base with a "--"
// separator; the theme token is derived from the theme name.
const (
	// BaseWrapperClass is the default class of the outer wrapper element.
	BaseWrapperClass = "message-text"
	// BaseInnerClass is the default class of the inner content element
	// and the base all modifiers attach to.
	BaseInnerClass = "message-text-inner"
	// DefaultTheme is used when the caller supplies no theme.
	DefaultTheme = "simple"
)

// Modifier tokens derived from message state.
const (
	// ModifierHasAttachment marks messages carrying at least one attachment.
	ModifierHasAttachment = "has-attachment"
	// ModifierIsEmoji marks messages whose text is emoji glyphs only.
	ModifierIsEmoji = "is-emoji"
)

// Classify derives the CSS modifier tokens for a message. The rules are
// independent and additive; the returned order is fixed so that class
// strings are deterministic.
func Classify(msg *model.Message) []string {
	if msg == nil {
		return nil
	}

	var modifiers []string
	if msg.HasAttachments() {
		modifiers = append(modifiers, ModifierHasAttachment)
	}
	if IsOnlyEmoji(msg.Text) {
		modifiers = append(modifiers, ModifierIsEmoji)
	}
	return modifiers
}

// themeToken builds the themed inner class token, "message-{theme}-text-inner".
func themeToken(theme string) string {
	if theme == "" {
		theme = DefaultTheme
	}
	return "message-" + theme + "-text-inner"
}

// innerClassTokens assembles the full class list of the inner element:
// the base tokens (or the caller's replacement) followed by the
// "{base}--{modifier}" tokens for every active modifier.
func innerClassTokens(msg *model.Message, opts *Options) []string {
	var tokens []string
	if opts.CustomInnerClass != "" {
		tokens = append(tokens, opts.CustomInnerClass)
	} else {
		tokens = append(tokens, BaseInnerClass, themeToken(opts.Theme))
	}
	for _, mod := range Classify(msg) {
		tokens = append(tokens, BaseInnerClass+"--"+mod)
	}
	return tokens
}

// wrapperClassToken returns the outer wrapper class, honoring the caller's
// override.
func wrapperClassToken(opts *Options) string {
	if opts.CustomWrapperClass != "" {
		return opts.CustomWrapperClass
	}
	return BaseWrapperClass
}
