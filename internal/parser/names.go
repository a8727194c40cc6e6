package parser

import (
	"strings"
	"unicode"
)

// ParseNames splits raw check-in text on commas and whitespace, dropping
// empty tokens. Order and duplicates are preserved.
func ParseNames(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// JoinArgs rebuilds check-in text from shell arguments so that
// `checkin Alice, Bob` and `checkin "Alice,Bob"` parse the same.
func JoinArgs(args []string) string {
	return strings.Join(args, " ")
}
