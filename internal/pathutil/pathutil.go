// Package pathutil builds and normalizes RFC 6901 style JSON Pointer paths.
package pathutil

import "strings"

// Escape escapes a segment for use in a JSON Pointer: a literal "~" becomes
// "~0" and a literal "/" becomes "~1", per RFC 6901.
func Escape(raw string) string {
	raw = strings.ReplaceAll(raw, "~", "~0")
	return strings.ReplaceAll(raw, "/", "~1")
}

// Unescape reverses Escape. Order matters: "~1" first would corrupt "~01".
func Unescape(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}

// Child appends an escaped segment to a base path.
func Child(base, key string) string {
	if strings.HasSuffix(base, "/") {
		return base + Escape(key)
	}
	return base + "/" + Escape(key)
}

// NormalizePrefix ensures a prefix ends with a slash so that prefix matching
// respects segment boundaries.
func NormalizePrefix(prefix string) string {
	if strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}

// HasPrefix reports whether path falls under prefix. Matching is segment
// aware: prefix "/meta" matches "/meta" and "/meta/x" but not "/metadata".
func HasPrefix(path, prefix string) bool {
	trimmed := strings.TrimSuffix(prefix, "/")
	if trimmed == "" {
		return true
	}
	return path == trimmed || strings.HasPrefix(path, trimmed+"/")
}

// Normalize strips numeric index segments and "{...}" identity segments from
// a path, converting instance-specific paths to structure-based paths. A rule
// declared once for "/items/name" then applies to "/items/0/name" and
// "/items/{abc}/name" alike.
func Normalize(path string) string {
	if path == "" || path == "/" {
		return "/"
	}

	var b strings.Builder
	for _, segment := range strings.Split(path, "/") {
		if isStructural(segment) {
			b.WriteByte('/')
			b.WriteString(segment)
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

func isStructural(segment string) bool {
	return segment != "" && !isNumericIndex(segment) && !isIdentitySegment(segment)
}

func isNumericIndex(segment string) bool {
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return len(segment) > 0
}

func isIdentitySegment(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}
