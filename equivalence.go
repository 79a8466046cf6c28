package treediff

import (
	"regexp"
	"sort"

	"github.com/pojotools/treediff/internal/pathutil"
)

// Equivalence reports whether two values at a path should be treated as
// equal despite literal inequality. Either argument may be nil (absent).
// Predicates must not retain their arguments.
type Equivalence func(left, right *Node) bool

type patternEquivalence struct {
	re *regexp.Regexp
	eq Equivalence
}

type prefixEquivalence struct {
	prefix string
	eq     Equivalence
}

// equivalenceRegistry resolves the equivalence predicate for a path in
// strict precedence: exact path, first matching pattern in declaration
// order, longest matching prefix, type label, then fallback. The first tier
// that yields a predicate wins; later tiers are never consulted.
type equivalenceRegistry struct {
	exact    map[string]Equivalence
	patterns []patternEquivalence
	prefixes []prefixEquivalence
	byType   map[string]Equivalence
	fallback Equivalence
}

func newEquivalenceRegistry(
	exact map[string]Equivalence,
	patterns []patternEquivalence,
	prefixes []prefixEquivalence,
	byType map[string]Equivalence,
	fallback Equivalence,
) *equivalenceRegistry {
	// Longest prefix wins; ties cannot overlap the same path.
	sorted := make([]prefixEquivalence, len(prefixes))
	copy(sorted, prefixes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].prefix) > len(sorted[j].prefix)
	})
	return &equivalenceRegistry{
		exact:    exact,
		patterns: patterns,
		prefixes: sorted,
		byType:   byType,
		fallback: fallback,
	}
}

func (r *equivalenceRegistry) resolve(path, typeLabel string) (Equivalence, bool) {
	if eq, ok := r.exact[path]; ok {
		return eq, true
	}
	for _, pe := range r.patterns {
		if pe.re.MatchString(path) {
			return pe.eq, true
		}
	}
	for _, pe := range r.prefixes {
		if pathutil.HasPrefix(path, pe.prefix) {
			return pe.eq, true
		}
	}
	if typeLabel != "" {
		if eq, ok := r.byType[typeLabel]; ok {
			return eq, true
		}
	}
	if r.fallback != nil {
		return r.fallback, true
	}
	return nil, false
}
