// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"github.com/jeranaias/chatview/internal/model"
)

// =============================================================================
// CONTENT SELECTOR
// =============================================================================

// selectContent chooses between raw-HTML passthrough and processed text.
//
// With UnsafeHTML set and HTML present, the markup is injected verbatim;
// no additional sanitization happens here, the upstream sanitizer is
// trusted. Otherwise the text goes through the mention-aware transformer.
// A nil return means the message yields no visible content at all.
func selectContent(msg *model.Message, opts *Options, cfg ChannelConfig, transformer TextTransformer) *Node {
	if opts.UnsafeHTML && msg.HTML != "" {
		return NewElement("div").Append(RawNode(msg.HTML))
	}
	return transformer.Transform(msg.Text, msg.MentionedUsers, cfg)
}
