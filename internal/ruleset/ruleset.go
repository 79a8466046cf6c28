// Package ruleset loads declarative comparison rules from YAML files and
// builds treediff configurations from them.
package ruleset

import (
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pojotools/treediff"
	"github.com/pojotools/treediff/equivalence"
)

// ErrRuleset is the sentinel error for all ruleset loading failures.
var ErrRuleset = fmt.Errorf("ruleset error")

// File is the top-level shape of a ruleset document.
type File struct {
	Root         string            `yaml:"root,omitempty"`
	Ignore       IgnoreRules       `yaml:"ignore,omitempty"`
	Lists        []ListDecl        `yaml:"lists,omitempty"`
	Equivalences []EquivalenceDecl `yaml:"equivalences,omitempty"`
	Types        []TypeDecl        `yaml:"types,omitempty"`
}

// IgnoreRules groups the three ignore categories.
type IgnoreRules struct {
	Paths    []string `yaml:"paths,omitempty"`    // exact paths
	Prefixes []string `yaml:"prefixes,omitempty"` // path subtrees
	Globs    []string `yaml:"globs,omitempty"`    // '*', '**', '?' wildcards
	Patterns []string `yaml:"patterns,omitempty"` // full-match regular expressions
}

// ListDecl declares identity-based pairing for one array path.
type ListDecl struct {
	Path     string `yaml:"path"`
	Identity string `yaml:"identity"` // field name, /pointer, or $.jsonpath
}

// EquivalenceDecl binds a named predicate to exactly one target: an exact
// path, a prefix, a pattern, a type label, or the fallback slot.
type EquivalenceDecl struct {
	At       string `yaml:"at,omitempty"`
	Under    string `yaml:"under,omitempty"`
	Pattern  string `yaml:"pattern,omitempty"`
	Type     string `yaml:"type,omitempty"`
	Fallback bool   `yaml:"fallback,omitempty"`

	Rule      string  `yaml:"rule"`
	Epsilon   float64 `yaml:"epsilon,omitempty"`   // numeric-within
	Tolerance string  `yaml:"tolerance,omitempty"` // time-within
	Truncate  string  `yaml:"truncate,omitempty"`  // time-truncated
}

// TypeDecl labels a normalized path with a type.
type TypeDecl struct {
	Path  string `yaml:"path"`
	Label string `yaml:"label"`
}

// Load decodes a ruleset document.
func Load(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrRuleset, err)
	}
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrRuleset, err)
	}
	return &f, nil
}

// Build validates the declarations and produces an immutable configuration.
func (f *File) Build() (*treediff.Config, error) {
	b := treediff.NewBuilder()

	if f.Root != "" {
		b.RootPath(f.Root)
	}
	for _, path := range f.Ignore.Paths {
		b.Ignore(path)
	}
	for _, prefix := range f.Ignore.Prefixes {
		b.IgnorePrefix(prefix)
	}
	for _, pattern := range f.Ignore.Globs {
		b.IgnoreGlob(pattern)
	}
	for _, expr := range f.Ignore.Patterns {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: ignore pattern %q: %v", ErrRuleset, expr, err)
		}
		b.IgnorePattern(re)
	}

	for _, decl := range f.Lists {
		rule, err := treediff.Identity(decl.Identity)
		if err != nil {
			return nil, fmt.Errorf("%w: list %q: %v", ErrRuleset, decl.Path, err)
		}
		b.List(decl.Path, rule)
	}

	for i, decl := range f.Equivalences {
		if err := applyEquivalence(b, decl); err != nil {
			return nil, fmt.Errorf("%w: equivalence %d: %v", ErrRuleset, i, err)
		}
	}

	for _, decl := range f.Types {
		b.TypeHint(decl.Path, decl.Label)
	}

	cfg, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuleset, err)
	}
	return cfg, nil
}

func applyEquivalence(b *treediff.Builder, decl EquivalenceDecl) error {
	eq, err := buildPredicate(decl)
	if err != nil {
		return err
	}

	targets := 0
	for _, set := range []bool{decl.At != "", decl.Under != "", decl.Pattern != "", decl.Type != "", decl.Fallback} {
		if set {
			targets++
		}
	}
	if targets != 1 {
		return fmt.Errorf("exactly one of at, under, pattern, type, fallback must be set")
	}

	switch {
	case decl.At != "":
		b.EquivalentAt(decl.At, eq)
	case decl.Under != "":
		b.EquivalentUnder(decl.Under, eq)
	case decl.Pattern != "":
		re, err := regexp.Compile(decl.Pattern)
		if err != nil {
			return fmt.Errorf("pattern %q: %v", decl.Pattern, err)
		}
		b.EquivalentPattern(re, eq)
	case decl.Type != "":
		b.EquivalentForType(decl.Type, eq)
	case decl.Fallback:
		b.EquivalentFallback(eq)
	}
	return nil
}

func buildPredicate(decl EquivalenceDecl) (treediff.Equivalence, error) {
	switch decl.Rule {
	case "numeric-within":
		if decl.Epsilon < 0 {
			return nil, fmt.Errorf("numeric-within epsilon must not be negative")
		}
		return equivalence.NumericWithin(decl.Epsilon), nil
	case "case-insensitive":
		return equivalence.CaseInsensitive(), nil
	case "punctuation-insensitive":
		return equivalence.PunctuationInsensitive(), nil
	case "time-within":
		tolerance, err := time.ParseDuration(decl.Tolerance)
		if err != nil {
			return nil, fmt.Errorf("time-within tolerance %q: %v", decl.Tolerance, err)
		}
		return equivalence.TimeWithin(tolerance), nil
	case "time-truncated":
		unit, err := time.ParseDuration(decl.Truncate)
		if err != nil {
			return nil, fmt.Errorf("time-truncated unit %q: %v", decl.Truncate, err)
		}
		return equivalence.TimeTruncatedTo(unit), nil
	case "uuid":
		return equivalence.UUID(), nil
	case "":
		return nil, fmt.Errorf("missing rule name")
	default:
		return nil, fmt.Errorf("unknown rule %q", decl.Rule)
	}
}
