package strutils

import (
	"regexp"
	"strings"
)

const ELLIPSIS = "…"

// Titles derived from a body keep at most this many words
const TITLE_FALLBACK_WORD_COUNT = 55

var tagRx = regexp.MustCompile(`<[^>]*>`)

// StripTags removes markup from s and collapses the surrounding whitespace.
func StripTags(s string) string {
	return strings.Join(strings.Fields(tagRx.ReplaceAllString(s, " ")), " ")
}

// Returns the first count words of s, with markup removed. Appends an
// ellipsis when words were dropped.
func TrimWords(s string, count int) string {
	words := strings.Fields(StripTags(s))
	if len(words) <= count {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:count], " ") + ELLIPSIS
}

// Truncates s to limit-3 characters and appends an ellipsis. Titles within
// the limit are returned unchanged. A limit of 0 disables truncation.
func TruncateEllipsis(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}

	cut := limit - 3
	if cut < 0 {
		cut = 0
	}

	// Don't cut multi-byte characters in half
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}

	return strings.TrimRight(s[:cut], " ") + ELLIPSIS
}

func isRuneStart(b byte) bool {
	return b&0xc0 != 0x80
}
