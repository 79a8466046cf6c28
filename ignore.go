package treediff

import (
	"regexp"

	"github.com/pojotools/treediff/internal/pathutil"
)

// ignoreFilter suppresses paths by exact match, segment-aware prefix, or
// full-match pattern. The three categories are OR-combined.
type ignoreFilter struct {
	exact    map[string]struct{}
	prefixes []string
	patterns []*regexp.Regexp
}

func (f *ignoreFilter) shouldIgnore(path string) bool {
	if _, ok := f.exact[path]; ok {
		return true
	}
	for _, prefix := range f.prefixes {
		if pathutil.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, re := range f.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
