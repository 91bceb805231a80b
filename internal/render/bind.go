// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"github.com/jeranaias/chatview/internal/model"
)

// =============================================================================
// MENTION INTERACTION BINDER
// =============================================================================

// MentionHandler is invoked when the user hovers or clicks anywhere inside
// the rendered container of a message with mentions wired. It receives the
// interaction event and the message's mentioned users.
type MentionHandler func(ev Event, mentioned []model.User)

// RetryHandler is invoked when the user clicks the retry element of a
// failed message.
type RetryHandler func(ev Event, msg *model.Message)

// ChannelContext carries the channel-wide defaults a render call falls
// back to. It is passed explicitly into Render; there is no ambient
// singleton.
type ChannelContext struct {
	// Config controls mention/markdown processing for the channel.
	Config ChannelConfig

	// Default mention handlers, used when the per-call options supply none.
	OnMentionsHover MentionHandler
	OnMentionsClick MentionHandler
}

// GetConfig returns the channel configuration, nil-safe.
func (c *ChannelContext) GetConfig() ChannelConfig {
	if c == nil {
		return ChannelConfig{}
	}
	return c.Config
}

// resolveMentionHandlers picks the effective hover and click handlers:
// the per-call option wins, the channel default is the fallback, and
// either may end up nil (a no-op).
func resolveMentionHandlers(opts *Options, chanCtx *ChannelContext) (hover, click MentionHandler) {
	hover = opts.OnMentionsHoverMessage
	click = opts.OnMentionsClickMessage
	if chanCtx != nil {
		if hover == nil {
			hover = chanCtx.OnMentionsHover
		}
		if click == nil {
			click = chanCtx.OnMentionsClick
		}
	}
	return hover, click
}

// bindMentions attaches the resolved handlers to the container node.
// Delegation is container-level on purpose: any interaction inside the
// wrapper fires the handler, whether or not it landed on a mention span.
func bindMentions(container *Node, msg *model.Message, hover, click MentionHandler) {
	mentioned := msg.MentionedUsers

	if hover != nil {
		container.OnHover(func(ev Event) {
			hover(ev, mentioned)
		})
	}
	if click != nil {
		container.OnClick(func(ev Event) {
			click(ev, mentioned)
		})
	}
}
