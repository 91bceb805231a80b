// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"html"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	emojiext "github.com/yuin/goldmark-emoji"

	"github.com/jeranaias/chatview/internal/model"
)

// =============================================================================
// CHANNEL CONFIG
// =============================================================================

// ChannelConfig enumerates the channel-level options the text transformer
// recognizes. It is passed explicitly rather than inferred from ambient
// state.
type ChannelConfig struct {
	// MarkdownEnabled runs message text through the markdown renderer.
	MarkdownEnabled bool `json:"markdown_enabled" toml:"markdown_enabled"`
	// HTMLTrusted marks the channel's raw HTML as upstream-sanitized.
	HTMLTrusted bool `json:"html_trusted" toml:"html_trusted"`
}

// =============================================================================
// TEXT TRANSFORMER
// =============================================================================

// MentionClass is the class of the interactive span a mention renders as.
const MentionClass = "message-mention"

// TextTransformer converts message text into a content tree, marking
// recognized mention tokens as interactive spans.
type TextTransformer interface {
	Transform(text string, mentioned []model.User, cfg ChannelConfig) *Node
}

// StandardTransformer is the default TextTransformer. Markdown text goes
// through goldmark (with emoji shortcode support) and is then sanitized
// with bluemonday; plain text is escaped, paragraph-wrapped, and fenced
// code blocks are syntax-highlighted with chroma.
type StandardTransformer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewStandardTransformer creates the default transformer.
func NewStandardTransformer() *StandardTransformer {
	return &StandardTransformer{
		md: goldmark.New(
			goldmark.WithExtensions(emojiext.Emoji),
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
		policy: mentionPolicy(),
	}
}

// mentionPolicy extends the bluemonday UGC policy so that mention spans
// and highlighted code survive sanitization.
func mentionPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("span", "code", "pre", "div", "p")
	p.AllowAttrs("data-user-id").OnElements("span")
	return p
}

// Transform implements TextTransformer.
func (t *StandardTransformer) Transform(text string, mentioned []model.User, cfg ChannelConfig) *Node {
	if text == "" {
		return nil
	}

	if cfg.MarkdownEnabled {
		return t.markdown(text, mentioned)
	}
	return t.plain(text, mentioned)
}

// markdown renders text as markdown with mention spans injected before
// conversion. The combined output is sanitized; the mention policy keeps
// the spans and their data-user-id hooks.
func (t *StandardTransformer) markdown(text string, mentioned []model.User) *Node {
	source := injectMentions(text, mentioned, false)

	var buf bytes.Buffer
	if err := t.md.Convert([]byte(source), &buf); err != nil {
		// Conversion never fails on valid UTF-8, but degrade to the
		// plain path rather than dropping the message.
		return t.plain(text, mentioned)
	}

	clean := strings.TrimSpace(t.policy.Sanitize(buf.String()))
	if clean == "" {
		return nil
	}
	return NewElement("div").Append(RawNode(clean))
}

// plain renders text without markdown: fenced code blocks become
// highlighted blocks, everything else becomes escaped paragraphs with
// mention spans.
func (t *StandardTransformer) plain(text string, mentioned []model.User) *Node {
	container := NewElement("div")

	for _, seg := range splitFences(text) {
		if seg.code {
			container.Append(RawNode(highlightCode(seg.body, seg.lang)))
			continue
		}
		for _, para := range splitParagraphs(seg.body) {
			markup := injectMentions(escapeLines(para), mentioned, true)
			container.Append(RawNode("<p>" + markup + "</p>"))
		}
	}

	if len(container.Children) == 0 {
		return nil
	}
	return container
}

// =============================================================================
// MENTION INJECTION
// =============================================================================

// mentionSpan builds the interactive span markup for one user.
func mentionSpan(u model.User) string {
	return `<span class="` + MentionClass + `" data-user-id="` +
		html.EscapeString(u.ID) + `">@` + html.EscapeString(u.DisplayName()) + `</span>`
}

// injectMentions replaces "@name" tokens for every mentioned user with the
// interactive span markup. When escaped is true the text has already been
// HTML-escaped, so the token is matched in its escaped form. Longer names
// are replaced first so that "@joanna" never matches a "@jo" mention.
func injectMentions(text string, mentioned []model.User, escaped bool) string {
	if len(mentioned) == 0 {
		return text
	}

	users := make([]model.User, len(mentioned))
	copy(users, mentioned)
	sort.SliceStable(users, func(i, j int) bool {
		return len(users[i].DisplayName()) > len(users[j].DisplayName())
	})

	for _, u := range users {
		name := u.DisplayName()
		if name == "" {
			continue
		}
		token := "@" + name
		if escaped {
			token = "@" + html.EscapeString(name)
		}
		text = strings.ReplaceAll(text, token, mentionSpan(u))
	}
	return text
}

// =============================================================================
// PLAIN TEXT HELPERS
// =============================================================================

// fenceSegment is one run of either prose or fenced code.
type fenceSegment struct {
	body string
	lang string
	code bool
}

// splitFences splits text on ``` fences, line-based.
func splitFences(text string) []fenceSegment {
	lines := strings.Split(text, "\n")

	var segments []fenceSegment
	var current []string
	var lang string
	inCode := false

	flush := func(code bool) {
		body := strings.Join(current, "\n")
		if strings.TrimSpace(body) != "" {
			segments = append(segments, fenceSegment{body: body, lang: lang, code: code})
		}
		current = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inCode {
				flush(true)
				lang = ""
				inCode = false
			} else {
				flush(false)
				lang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
				inCode = true
			}
			continue
		}
		current = append(current, line)
	}
	// An unterminated fence still renders as code.
	flush(inCode)

	return segments
}

// splitParagraphs splits prose on blank lines.
func splitParagraphs(text string) []string {
	var paras []string
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) != "" {
			paras = append(paras, strings.TrimSpace(block))
		}
	}
	return paras
}

// escapeLines escapes a paragraph and turns its internal line breaks into
// <br> tags.
func escapeLines(para string) string {
	lines := strings.Split(para, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(strings.TrimSpace(line))
	}
	return strings.Join(lines, "<br>")
}

// =============================================================================
// CODE HIGHLIGHTING
// =============================================================================

// codeStyleName is the chroma style used for highlighted blocks.
const codeStyleName = "github-dark"

// highlightCode renders one fenced code block with chroma. Highlighting
// failures fall back to an escaped <pre> block; the message always renders.
func highlightCode(code, lang string) string {
	code = strings.TrimSpace(code)

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get(codeStyleName)
	if style == nil {
		style = chromastyles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainCodeBlock(code, lang)
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return plainCodeBlock(code, lang)
	}

	var sb strings.Builder
	sb.WriteString(`<div class="message-code">`)
	if lang != "" {
		sb.WriteString(`<div class="message-code-lang">`)
		sb.WriteString(html.EscapeString(lang))
		sb.WriteString(`</div>`)
	}
	sb.WriteString(buf.String())
	sb.WriteString(`</div>`)
	return sb.String()
}

// plainCodeBlock is the unhighlighted fallback.
func plainCodeBlock(code, lang string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="message-code"><pre><code class="language-`)
	sb.WriteString(html.EscapeString(lang))
	sb.WriteString(`">`)
	sb.WriteString(html.EscapeString(code))
	sb.WriteString(`</code></pre></div>`)
	return sb.String()
}
