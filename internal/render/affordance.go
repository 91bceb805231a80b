// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"github.com/jeranaias/chatview/internal/model"
)

// =============================================================================
// STATUS AFFORDANCES
// =============================================================================

// User-visible copy for transmission problems. Tests and downstream
// styling match on these strings, so they are fixed.
const (
	// ErrorUnsentCopy is shown for messages of type "error".
	ErrorUnsentCopy = "Error · Unsent"
	// FailedRetryCopy is shown for messages with status "failed".
	FailedRetryCopy = "Message Failed · Click to try again"
)

// warningGlyph is the fixed icon prepended to the error banner when
// DisplayIconOnError is set.
const warningGlyph = "⚠️"

// TestIDFailed identifies the retry element of a failed message.
const TestIDFailed = "message-text-failed"

// errorBanner renders the "Error · Unsent" banner for error-type messages,
// or nil. The banner sits above the normal content inside the inner
// wrapper; it supplements the text, never replaces it.
func errorBanner(msg *model.Message, opts *Options) *Node {
	if msg.Type != model.TypeError {
		return nil
	}

	banner := NewElement("div").SetClass(BaseWrapperClass + "--error")
	if opts.DisplayIconOnError {
		banner.Append(
			NewElement("span").
				SetClass("message-warning-icon").
				Append(TextNode(warningGlyph)),
		)
		banner.Append(TextNode(" "))
	}
	banner.Append(TextNode(ErrorUnsentCopy))
	return banner
}

// failedRetry renders the retry element for failed messages, or nil. The
// element always exists for a failed message so callers can locate it
// deterministically; with no OnRetryClick supplied, clicking it is a
// silent no-op.
func failedRetry(msg *model.Message, opts *Options) *Node {
	if msg.Status != model.StatusFailed {
		return nil
	}

	retry := opts.OnRetryClick
	node := NewElement("p").
		SetTestID(TestIDFailed).
		SetClass(BaseWrapperClass + "--failed").
		Append(TextNode(FailedRetryCopy))

	node.OnClick(func(ev Event) {
		if retry != nil {
			retry(ev, msg)
		}
	})
	return node
}
