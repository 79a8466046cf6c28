package treediff

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/pojotools/treediff/internal/glob"
	"github.com/pojotools/treediff/internal/pathutil"
)

const defaultRootPath = "/"

var (
	// ErrEmptyPath indicates a rule registered with an empty path or prefix.
	ErrEmptyPath = errors.New("path must not be empty")
	// ErrNilPredicate indicates a nil equivalence predicate.
	ErrNilPredicate = errors.New("equivalence predicate must not be nil")
	// ErrNilPattern indicates a nil path pattern.
	ErrNilPattern = errors.New("pattern must not be nil")
	// ErrBlankTypeLabel indicates an empty or whitespace-only type label.
	ErrBlankTypeLabel = errors.New("type label must not be blank")
)

// Config aggregates every comparison rule: array pairing rules, ignored
// paths, equivalence predicates, type labels, and the root path. Immutable
// once built; safe to share across concurrent Compare calls.
type Config struct {
	listRules    map[string]ListRule
	ignores      ignoreFilter
	equivalences *equivalenceRegistry
	typeHints    map[string]string
	rootPath     string
}

// ListRuleFor returns the pairing rule declared for the normalized form of
// path. Lookup is by exact normalized path only; no prefix or pattern tiers
// exist for this category.
func (c *Config) ListRuleFor(path string) (ListRule, bool) {
	rule, ok := c.listRules[pathutil.Normalize(path)]
	return rule, ok
}

// IsIgnored reports whether the path is suppressed by any ignore category.
func (c *Config) IsIgnored(path string) bool {
	return c.ignores.shouldIgnore(path)
}

// EquivalenceAt resolves the equivalence predicate for a path, if any. The
// type-label tier consults the normalized form of path so a label declared
// once covers every instance of a repeated array shape.
func (c *Config) EquivalenceAt(path string) (Equivalence, bool) {
	return c.equivalences.resolve(path, c.typeHints[pathutil.Normalize(path)])
}

// RootPath returns the path comparison starts from, "/" by default.
func (c *Config) RootPath() string {
	return c.rootPath
}

// Builder accumulates comparison rules and produces an immutable Config.
// Every registration is validated at call time; the first failure is
// retained and reported by Build, and later registrations are still
// validated but not applied. Builders are not safe for concurrent use.
type Builder struct {
	listRules    map[string]ListRule
	ignoreExact  map[string]struct{}
	ignorePrefix []string
	ignoreRegex  []*regexp.Regexp
	eqExact      map[string]Equivalence
	eqPatterns   []patternEquivalence
	eqPrefixes   []prefixEquivalence
	eqByType     map[string]Equivalence
	eqFallback   Equivalence
	typeHints    map[string]string
	rootPath     string
	err          error
}

// NewBuilder returns an empty configuration builder.
func NewBuilder() *Builder {
	return &Builder{
		listRules:   make(map[string]ListRule),
		ignoreExact: make(map[string]struct{}),
		eqExact:     make(map[string]Equivalence),
		eqByType:    make(map[string]Equivalence),
		typeHints:   make(map[string]string),
		rootPath:    defaultRootPath,
	}
}

// List declares the pairing rule for the array at the given normalized path.
func (b *Builder) List(path string, rule ListRule) *Builder {
	if !b.validPath("list", path) {
		return b
	}
	b.listRules[pathutil.Normalize(path)] = rule
	return b
}

// Ignore suppresses a single exact path.
func (b *Builder) Ignore(path string) *Builder {
	if !b.validPath("ignore", path) {
		return b
	}
	b.ignoreExact[path] = struct{}{}
	return b
}

// IgnorePrefix suppresses a path and everything beneath it.
func (b *Builder) IgnorePrefix(prefix string) *Builder {
	if !b.validPath("ignore prefix", prefix) {
		return b
	}
	b.ignorePrefix = append(b.ignorePrefix, prefix)
	return b
}

// IgnorePattern suppresses every path the pattern fully matches.
func (b *Builder) IgnorePattern(re *regexp.Regexp) *Builder {
	if !b.validPattern("ignore pattern", re) {
		return b
	}
	b.ignoreRegex = append(b.ignoreRegex, anchored(re))
	return b
}

// IgnoreGlob suppresses every path the glob fully matches. The grammar
// supports '*' (within a segment), '**' (across segments), and '?'.
func (b *Builder) IgnoreGlob(pattern string) *Builder {
	if pattern == "" {
		b.record(fmt.Errorf("ignore glob: %w", ErrEmptyPath))
		return b
	}
	b.ignoreRegex = append(b.ignoreRegex, glob.Compile(pattern))
	return b
}

// EquivalentAt registers a predicate for one exact path.
func (b *Builder) EquivalentAt(path string, eq Equivalence) *Builder {
	if !b.validPath("equivalence", path) || !b.validPredicate("equivalence", eq) {
		return b
	}
	b.eqExact[path] = eq
	return b
}

// EquivalentUnder registers a predicate for a path and everything beneath
// it. When several registered prefixes match a path the longest one wins.
func (b *Builder) EquivalentUnder(prefix string, eq Equivalence) *Builder {
	if !b.validPath("equivalence prefix", prefix) || !b.validPredicate("equivalence prefix", eq) {
		return b
	}
	b.eqPrefixes = append(b.eqPrefixes, prefixEquivalence{prefix: prefix, eq: eq})
	return b
}

// EquivalentPattern registers a predicate for every path the pattern fully
// matches. Patterns are tried in declaration order.
func (b *Builder) EquivalentPattern(re *regexp.Regexp, eq Equivalence) *Builder {
	if !b.validPattern("equivalence pattern", re) || !b.validPredicate("equivalence pattern", eq) {
		return b
	}
	b.eqPatterns = append(b.eqPatterns, patternEquivalence{re: anchored(re), eq: eq})
	return b
}

// EquivalentForType registers a predicate for every path whose type hint
// carries the given label.
func (b *Builder) EquivalentForType(label string, eq Equivalence) *Builder {
	if !b.validLabel("equivalence type", label) || !b.validPredicate("equivalence type", eq) {
		return b
	}
	b.eqByType[label] = eq
	return b
}

// EquivalentFallback registers the predicate used when no other tier
// resolves.
func (b *Builder) EquivalentFallback(eq Equivalence) *Builder {
	if !b.validPredicate("equivalence fallback", eq) {
		return b
	}
	b.eqFallback = eq
	return b
}

// TypeHint labels the normalized path with a type, connecting it to
// EquivalentForType registrations.
func (b *Builder) TypeHint(path, label string) *Builder {
	if !b.validPath("type hint", path) || !b.validLabel("type hint", label) {
		return b
	}
	b.typeHints[path] = label
	return b
}

// RootPath sets the path comparison starts from. Blank resets the default.
func (b *Builder) RootPath(path string) *Builder {
	if strings.TrimSpace(path) == "" {
		b.rootPath = defaultRootPath
		return b
	}
	b.rootPath = path
	return b
}

// Build freezes the accumulated rules into a Config. It fails with the
// first registration error recorded, so a misconfigured comparison can never
// run.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Config{
		listRules: maps.Clone(b.listRules),
		ignores: ignoreFilter{
			exact:    maps.Clone(b.ignoreExact),
			prefixes: append([]string(nil), b.ignorePrefix...),
			patterns: append([]*regexp.Regexp(nil), b.ignoreRegex...),
		},
		equivalences: newEquivalenceRegistry(
			maps.Clone(b.eqExact),
			append([]patternEquivalence(nil), b.eqPatterns...),
			append([]prefixEquivalence(nil), b.eqPrefixes...),
			maps.Clone(b.eqByType),
			b.eqFallback,
		),
		typeHints: maps.Clone(b.typeHints),
		rootPath:  b.rootPath,
	}, nil
}

func (b *Builder) validPath(what, path string) bool {
	if path == "" {
		b.record(fmt.Errorf("%s: %w", what, ErrEmptyPath))
		return false
	}
	return b.err == nil
}

func (b *Builder) validPattern(what string, re *regexp.Regexp) bool {
	if re == nil {
		b.record(fmt.Errorf("%s: %w", what, ErrNilPattern))
		return false
	}
	return b.err == nil
}

func (b *Builder) validPredicate(what string, eq Equivalence) bool {
	if eq == nil {
		b.record(fmt.Errorf("%s: %w", what, ErrNilPredicate))
		return false
	}
	return b.err == nil
}

func (b *Builder) validLabel(what, label string) bool {
	if strings.TrimSpace(label) == "" {
		b.record(fmt.Errorf("%s: %w", what, ErrBlankTypeLabel))
		return false
	}
	return b.err == nil
}

func (b *Builder) record(err error) {
	if b.err == nil {
		b.err = err
	}
}

// anchored forces full-path matching on a registered pattern.
func anchored(re *regexp.Regexp) *regexp.Regexp {
	expr := re.String()
	if strings.HasPrefix(expr, "^") && strings.HasSuffix(expr, "$") {
		return re
	}
	return regexp.MustCompile("^(?:" + expr + ")$")
}
