// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package page

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/chatview/internal/model"
	"github.com/jeranaias/chatview/internal/render"
)

// =============================================================================
// PAGE BUILDER
// =============================================================================

// Params configures a preview page build.
type Params struct {
	// Title is the document title.
	Title string

	// Theme names the page theme; also applied as a body class.
	// Empty means the default theme.
	Theme string

	// Messages to render, in order.
	Messages []*model.Message

	// Options are the render options applied to every message.
	Options *render.Options

	// Context is the channel context applied to every message.
	Context *render.ChannelContext
}

// Build renders a complete HTML document containing the message list.
// Messages with no renderable content are skipped.
func Build(p Params) string {
	theme := p.Theme
	if theme == "" {
		theme = render.DefaultTheme
	}
	title := p.Title
	if title == "" {
		title = "chatview preview"
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString("    <meta name=\"generator\" content=\"chatview\">\n")
	sb.WriteString(getCSS())
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", html.EscapeString(theme)))
	sb.WriteString("    <div class=\"container\">\n")
	sb.WriteString("        <main class=\"message-list\">\n")

	count := 0
	for _, msg := range p.Messages {
		row := renderRow(msg, p.Options, p.Context)
		if row == "" {
			continue
		}
		sb.WriteString(row)
		count++
	}

	if count == 0 {
		sb.WriteString("            <p class=\"message-list-empty\">No messages yet.</p>\n")
	}

	sb.WriteString("        </main>\n")
	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Rendered by <strong>chatview</strong> on %s</p>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return sb.String()
}

// renderRow renders one message row: author header, message body, and the
// options-menu slot that host applications hang their per-message menu on.
func renderRow(msg *model.Message, opts *render.Options, chanCtx *render.ChannelContext) string {
	rendered := render.Render(msg, opts, chanCtx)
	if rendered == nil {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("            <div class=\"message-row\">\n")

	sb.WriteString("                <div class=\"message-row-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"message-author\">%s</span>\n",
		html.EscapeString(msg.User.DisplayName())))
	if !msg.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("                    <span class=\"message-timestamp\">%s</span>\n",
			msg.CreatedAt.Format("15:04")))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                ")
	sb.WriteString(rendered.HTML())
	sb.WriteString("\n")

	sb.WriteString("                <div class=\"message-options-slot\"></div>\n")
	sb.WriteString("            </div>\n")

	return sb.String()
}
