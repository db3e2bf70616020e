// Package words splits one command line into whitespace-delimited tokens.
package words

import (
	"strings"
	"unicode"
)

// Words is a forward-only view over the unread part of a line.
type Words struct {
	remaining string
}

// New returns a Words positioned at the start of line.
func New(line string) *Words {
	return &Words{remaining: line}
}

// Next returns the next token. ok is false once the line is exhausted.
func (w *Words) Next() (token string, ok bool) {
	s := strings.TrimLeftFunc(w.remaining, unicode.IsSpace)
	if s == "" {
		w.remaining = ""
		return "", false
	}

	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		w.remaining = ""
		return s, true
	}

	w.remaining = s[end:]
	return s[:end], true
}

// Rest consumes and returns everything left on the line, trimmed.
// ok is false when nothing but white space remains.
func (w *Words) Rest() (rest string, ok bool) {
	rest = strings.TrimSpace(w.remaining)
	w.remaining = ""
	return rest, rest != ""
}
