// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"github.com/jeranaias/chatview/internal/model"
)

// =============================================================================
// RENDER OPTIONS
// =============================================================================

// TestIDInnerWrapper identifies the inner content wrapper of every
// rendered message.
const TestIDInnerWrapper = "message-text-inner-wrapper"

// Options are the caller-supplied, per-render settings. All fields are
// optional; the zero value renders with defaults.
type Options struct {
	// UnsafeHTML injects the message's raw HTML verbatim instead of the
	// processed text. The upstream sanitizer is trusted.
	UnsafeHTML bool

	// CustomWrapperClass replaces the default outer wrapper class.
	CustomWrapperClass string

	// CustomInnerClass replaces the default inner base classes. Modifier
	// tokens still apply.
	CustomInnerClass string

	// Theme names the themed inner class token; defaults to "simple".
	Theme string

	// DisplayIconOnError prepends a warning glyph to the error banner.
	DisplayIconOnError bool

	// Per-call mention handlers. When set they take precedence over the
	// channel context defaults.
	OnMentionsHoverMessage MentionHandler
	OnMentionsClickMessage MentionHandler

	// OnRetryClick fires when the retry element of a failed message is
	// clicked. Unset means the click is a silent no-op.
	OnRetryClick RetryHandler

	// Transformer overrides the mention-aware text transformer. Unset
	// uses the shared StandardTransformer.
	Transformer TextTransformer
}

// defaultTransformer is shared across render calls; it is stateless after
// construction.
var defaultTransformer = NewStandardTransformer()

// =============================================================================
// RENDERED OUTPUT
// =============================================================================

// Rendered is the output of one render pass: the content tree plus the
// event dispatch surface tests and embedding callers interact with.
type Rendered struct {
	root *Node
}

// Node returns the root of the rendered tree.
func (r *Rendered) Node() *Node {
	if r == nil {
		return nil
	}
	return r.root
}

// HTML serializes the rendered tree. Rendering is idempotent, so repeated
// calls return identical markup.
func (r *Rendered) HTML() string {
	if r == nil || r.root == nil {
		return ""
	}
	return r.root.HTML()
}

// Find returns the node with the given data-testid, or nil.
func (r *Rendered) Find(testID string) *Node {
	if r == nil {
		return nil
	}
	path := r.root.find(testID)
	if path == nil {
		return nil
	}
	return path[len(path)-1]
}

// Click dispatches a click event to the element with the given
// data-testid. The event bubbles to the container, so delegated handlers
// fire regardless of which descendant was hit. Each bound handler fires
// exactly once. Returns false when no such element exists.
func (r *Rendered) Click(testID string) bool {
	return r.fire(EventClick, testID)
}

// Hover dispatches a hover event, with the same delegation semantics as
// Click.
func (r *Rendered) Hover(testID string) bool {
	return r.fire(EventHover, testID)
}

func (r *Rendered) fire(typ EventType, testID string) bool {
	if r == nil || r.root == nil {
		return false
	}
	path := r.root.find(testID)
	if path == nil {
		return false
	}
	dispatch(path, Event{Type: typ, Target: testID})
	return true
}

// =============================================================================
// RENDER
// =============================================================================

// Render produces the text body of a message.
//
// The output shape is:
//
//	<div class="{wrapper}">
//	  <div data-testid="message-text-inner-wrapper" class="{inner tokens}">
//	    [error banner]
//	    [failed retry element]
//	    {content}
//	  </div>
//	</div>
//
// A nil message, or a message with neither text nor HTML content, renders
// nothing: the return value is nil and callers must treat that as "no
// content". Degenerate inputs never panic.
func Render(msg *model.Message, opts *Options, chanCtx *ChannelContext) *Rendered {
	if msg.IsEmpty() {
		return nil
	}
	if opts == nil {
		opts = &Options{}
	}

	transformer := opts.Transformer
	if transformer == nil {
		transformer = defaultTransformer
	}

	content := selectContent(msg, opts, chanCtx.GetConfig(), transformer)
	if content == nil {
		return nil
	}

	inner := NewElement("div").
		SetTestID(TestIDInnerWrapper).
		SetClass(innerClassTokens(msg, opts)...)

	hover, click := resolveMentionHandlers(opts, chanCtx)
	bindMentions(inner, msg, hover, click)

	inner.Append(
		errorBanner(msg, opts),
		failedRetry(msg, opts),
		content,
	)

	wrapper := NewElement("div").
		SetClass(wrapperClassToken(opts)).
		Append(inner)

	return &Rendered{root: wrapper}
}
