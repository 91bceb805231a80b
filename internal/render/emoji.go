// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// =============================================================================
// EMOJI-ONLY DETECTION
// =============================================================================

// emojiRanges covers the Unicode blocks that make up pictographic emoji.
// Joiners, variation selectors, skin tone modifiers, and keycap marks are
// handled separately because they only ever appear inside a cluster.
var emojiRanges = [][2]rune{
	{0x1F300, 0x1F5FF}, // Miscellaneous Symbols and Pictographs
	{0x1F600, 0x1F64F}, // Emoticons
	{0x1F680, 0x1F6FF}, // Transport and Map Symbols
	{0x1F900, 0x1F9FF}, // Supplemental Symbols and Pictographs
	{0x1FA70, 0x1FAFF}, // Symbols and Pictographs Extended-A
	{0x1F1E6, 0x1F1FF}, // Regional Indicator Symbols (flags)
	{0x2600, 0x26FF},   // Miscellaneous Symbols
	{0x2700, 0x27BF},   // Dingbats
	{0x2B00, 0x2BFF},   // Miscellaneous Symbols and Arrows (stars, shapes)
	{0x1F3FB, 0x1F3FF}, // Emoji skin tone modifiers
}

// emojiSingles are individual code points rendered as emoji that fall
// outside the contiguous blocks above.
var emojiSingles = map[rune]bool{
	0x203C: true, // double exclamation
	0x2049: true, // exclamation question
	0x2122: true, // trade mark
	0x2139: true, // information source
	0x3030: true, // wavy dash
	0x303D: true, // part alternation mark
	0x3297: true, // circled congratulations
	0x3299: true, // circled secret
	0x00A9: true, // copyright
	0x00AE: true, // registered
}

// cluster-internal joining characters.
const (
	runeZWJ                = 0x200D
	runeVariationSelector  = 0xFE0F
	runeVariationSelector2 = 0xFE0E
	runeKeycap             = 0x20E3
)

// isEmojiRune reports whether a single rune may appear in an emoji cluster.
func isEmojiRune(r rune) bool {
	if r == runeZWJ || r == runeVariationSelector || r == runeVariationSelector2 || r == runeKeycap {
		return true
	}
	if emojiSingles[r] {
		return true
	}
	// Keycap sequences start with a digit or '#'/'*' followed by U+20E3;
	// the base character is accepted here and validated by cluster shape.
	if (r >= '0' && r <= '9') || r == '#' || r == '*' {
		return true
	}
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// isEmojiCluster reports whether one grapheme cluster is an emoji glyph.
func isEmojiCluster(cluster string) bool {
	runes := []rune(cluster)
	if len(runes) == 0 {
		return false
	}

	// A bare digit, '#', or '*' is only an emoji as part of a keycap
	// sequence (e.g. "1" + U+FE0F + U+20E3).
	if len(runes) == 1 {
		r := runes[0]
		if (r >= '0' && r <= '9') || r == '#' || r == '*' {
			return false
		}
	}

	for _, r := range runes {
		if !isEmojiRune(r) {
			return false
		}
	}
	return true
}

// IsOnlyEmoji reports whether text, after stripping whitespace, consists
// exclusively of emoji glyphs. The whole string is examined; a single
// non-emoji, non-whitespace character disqualifies the text. Empty or
// all-whitespace text does not qualify.
func IsOnlyEmoji(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	gr := uniseg.NewGraphemes(trimmed)
	for gr.Next() {
		cluster := gr.Str()
		if isWhitespaceCluster(cluster) {
			continue
		}
		if !isEmojiCluster(cluster) {
			return false
		}
	}
	return true
}

// isWhitespaceCluster reports whether a grapheme cluster is whitespace only.
func isWhitespaceCluster(cluster string) bool {
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
