// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import "testing"

// =============================================================================
// EMOJI-ONLY DETECTION TESTS
// =============================================================================

func TestIsOnlyEmoji(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"robots", "🤖🤖🤖🤖", true},
		{"single emoji", "😀", true},
		{"emoji with spaces", "  🎉 🎊  ", true},
		{"heart with variation selector", "❤️", true},
		{"thumbs up with skin tone", "👍🏽", true},
		{"flag sequence", "🇺🇸", true},
		{"zwj family", "👨‍👩‍👧", true},
		{"keycap one", "1️⃣", true},
		{"plain text", "hello", false},
		{"emoji plus letters", "🤖 robot", false},
		{"letters plus emoji", "gg 🎉", false},
		{"bare digit", "1", false},
		{"digits", "123", false},
		{"empty", "", false},
		{"whitespace only", "   \n\t", false},
		{"punctuation", "!!", false},
		{"emoji then punctuation", "🎉!", false},
	}

	for _, tc := range tests {
		if got := IsOnlyEmoji(tc.text); got != tc.want {
			t.Errorf("%s: IsOnlyEmoji(%q) = %v, want %v", tc.name, tc.text, got, tc.want)
		}
	}
}

func TestIsEmojiClusterRejectsMixed(t *testing.T) {
	if isEmojiCluster("a") {
		t.Error("letter should not be an emoji cluster")
	}
	if isEmojiCluster("") {
		t.Error("empty cluster should not be an emoji cluster")
	}
}
