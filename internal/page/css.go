// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package page

// getCSS returns the embedded CSS for the preview page. Selectors mirror the
// class vocabulary the renderer emits.
func getCSS() string {
	return `    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", "Source Code Pro", monospace;
        }

        .simple-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --bg-code: #f6f8fa;
            --text-primary: #24292e;
            --text-secondary: #586069;
            --border-color: #e1e4e8;
            --accent-blue: #0366d6;
            --accent-red: #d73a49;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --bg-code: #1a1b26;
            --text-primary: #c0caf5;
            --text-secondary: #a9b1d6;
            --border-color: #414868;
            --accent-blue: #7aa2f7;
            --accent-red: #f7768e;
        }

        body {
            font-family: var(--font-sans);
            font-size: 15px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 720px;
            margin: 0 auto;
        }

        .message-list {
            display: flex;
            flex-direction: column;
            gap: 16px;
        }

        .message-list-empty {
            color: var(--text-secondary);
            text-align: center;
            padding: 40px 0;
        }

        .message-row {
            position: relative;
            padding: 12px 16px;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
        }

        .message-row-header {
            display: flex;
            gap: 8px;
            align-items: baseline;
            margin-bottom: 4px;
        }

        .message-author {
            font-weight: 600;
        }

        .message-timestamp {
            font-size: 12px;
            color: var(--text-secondary);
        }

        .message-options-slot {
            position: absolute;
            top: 8px;
            right: 8px;
        }

        /* Renderer classes */
        .message-text p {
            margin: 0 0 4px 0;
        }

        .message-text-inner--is-emoji {
            font-size: 32px;
            line-height: 1.2;
        }

        .message-text-inner--has-attachment {
            padding-bottom: 8px;
        }

        .message-mention {
            color: var(--accent-blue);
            background: rgba(3, 102, 214, 0.08);
            border-radius: 3px;
            padding: 0 2px;
            cursor: pointer;
        }

        .message-text--error {
            color: var(--accent-red);
            font-size: 13px;
            margin-bottom: 4px;
        }

        .message-text--failed {
            color: var(--accent-red);
            font-size: 13px;
            cursor: pointer;
            text-decoration: underline;
        }

        .message-code {
            background: var(--bg-code);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            margin: 8px 0;
            overflow-x: auto;
        }

        .message-code-lang {
            font-family: var(--font-mono);
            font-size: 11px;
            color: var(--text-secondary);
            padding: 4px 8px;
            border-bottom: 1px solid var(--border-color);
        }

        .message-code pre {
            font-family: var(--font-mono);
            font-size: 13px;
            padding: 8px;
        }

        .footer {
            margin-top: 24px;
            text-align: center;
            font-size: 12px;
            color: var(--text-secondary);
        }
    </style>
`
}
