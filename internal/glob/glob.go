// Package glob translates a small wildcard grammar into regular expressions
// for matching JSON Pointer paths.
//
// Supported wildcards: '*' matches any run of characters within a single
// segment, '**' matches across segment boundaries, '?' matches a single
// character within a segment.
package glob

import (
	"regexp"
	"strings"
)

// Compile translates a glob into an anchored regular expression that must
// match the entire path.
func Compile(pattern string) *regexp.Regexp {
	// The translation output is always a valid expression.
	return regexp.MustCompile("^(?:" + Translate(pattern) + ")$")
}

// Translate converts a glob into an unanchored regular expression body.
func Translate(pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; {
		case c == '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case c == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}
