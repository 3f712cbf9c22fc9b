package chat

import (
	"strings"
	"unicode/utf8"
)

// Split breaks text into chunks of at most max runes, preferring to break at
// spaces. Words longer than max are broken mid-word. Leading and trailing
// spaces of each chunk are dropped.
//
// Precondition: max >= 1.
// Postcondition: Every chunk is non-empty and at most max runes; an
// all-space text yields no chunks.
func Split(text string, max int) []string {
	var chunks []string
	text = strings.TrimSpace(text)
	for text != "" {
		if utf8.RuneCountInString(text) <= max {
			chunks = append(chunks, text)
			break
		}
		cut := byteOffset(text, max)
		// Break at the last space within the limit, or just past it.
		if i := strings.LastIndexByte(text[:cut+1], ' '); i > 0 {
			cut = i
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}

// byteOffset returns the byte index of rune n in s, or len(s).
func byteOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}
