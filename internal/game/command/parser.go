package command

import (
	"strings"
	"unicode"
)

// ParseResult holds the parsed command name and arguments from a chat line.
type ParseResult struct {
	// Command is the first word of the line with the prefix removed, lowercased.
	Command string
	// Args are the remaining whitespace-separated words.
	Args []string
	// RawArgs is the raw text after the command word.
	RawArgs string
}

// Parse splits a chat line into a command and arguments.
//
// Precondition: prefix is non-empty.
// Postcondition: Returns (result, true) iff the line's first word starts with
// prefix and has at least one character after it.
func Parse(prefix, line string) (ParseResult, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, prefix) {
		return ParseResult{}, false
	}
	line = line[len(prefix):]

	word, rest := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		word, rest = line[:i], line[i+1:]
	}
	if word == "" {
		return ParseResult{}, false
	}
	rest = strings.TrimSpace(rest)

	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	return ParseResult{
		Command: strings.ToLower(word),
		Args:    args,
		RawArgs: rest,
	}, true
}
