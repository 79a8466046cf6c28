package ruleset_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/pojotools/treediff"
	"github.com/pojotools/treediff/internal/ruleset"
)

const fullDocument = `
root: /snapshot
ignore:
  paths:
    - /snapshot/meta
  prefixes:
    - /snapshot/audit
  globs:
    - "/snapshot/**/updatedAt"
  patterns:
    - "/snapshot/items/[0-9]+/etag"
lists:
  - path: /snapshot/items
    identity: id
  - path: /snapshot/refs
    identity: /link/id
equivalences:
  - at: /snapshot/price
    rule: numeric-within
    epsilon: 0.01
  - under: /snapshot/labels
    rule: case-insensitive
  - type: timestamp
    rule: time-within
    tolerance: 2s
  - fallback: true
    rule: punctuation-insensitive
types:
  - path: /snapshot/createdAt
    label: timestamp
`

func TestLoadAndBuild(t *testing.T) {
	t.Parallel()

	f, err := ruleset.Load(strings.NewReader(fullDocument))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg, err := f.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := cfg.RootPath(); got != "/snapshot" {
		t.Errorf("RootPath() = %q, want %q", got, "/snapshot")
	}
	for _, path := range []string{
		"/snapshot/meta",
		"/snapshot/audit/log",
		"/snapshot/a/b/updatedAt",
		"/snapshot/items/3/etag",
	} {
		if !cfg.IsIgnored(path) {
			t.Errorf("IsIgnored(%q) = false, want true", path)
		}
	}
	if cfg.IsIgnored("/snapshot/items/x/etag") {
		t.Error("regex ignore matched a non-numeric index")
	}

	rule, ok := cfg.ListRuleFor("/snapshot/items/0")
	if !ok || rule.IsPositional() {
		t.Errorf("ListRuleFor(/snapshot/items/0) = (%v, %v), want identity rule", rule, ok)
	}
	if _, ok := cfg.EquivalenceAt("/snapshot/price"); !ok {
		t.Error("EquivalenceAt(/snapshot/price) not resolved")
	}
	if _, ok := cfg.EquivalenceAt("/snapshot/createdAt"); !ok {
		t.Error("type-labelled path did not resolve an equivalence")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := ruleset.Load(strings.NewReader("bogus: true\n"))
	if !errors.Is(err, ruleset.ErrRuleset) {
		t.Fatalf("Load() error = %v, want ErrRuleset", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := ruleset.Load(strings.NewReader("ignore: [\n"))
	if !errors.Is(err, ruleset.ErrRuleset) {
		t.Fatalf("Load() error = %v, want ErrRuleset", err)
	}
}

func TestBuildFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{
			"bad ignore regex",
			"ignore:\n  patterns:\n    - \"[\"\n",
		},
		{
			"empty list identity",
			"lists:\n  - path: /items\n    identity: \"\"\n",
		},
		{
			"bad jsonpath identity",
			"lists:\n  - path: /items\n    identity: \"$.[\"\n",
		},
		{
			"equivalence with no target",
			"equivalences:\n  - rule: uuid\n",
		},
		{
			"equivalence with two targets",
			"equivalences:\n  - at: /a\n    under: /b\n    rule: uuid\n",
		},
		{
			"unknown rule name",
			"equivalences:\n  - at: /a\n    rule: fuzzy\n",
		},
		{
			"missing rule name",
			"equivalences:\n  - at: /a\n",
		},
		{
			"negative epsilon",
			"equivalences:\n  - at: /a\n    rule: numeric-within\n    epsilon: -1\n",
		},
		{
			"bad tolerance",
			"equivalences:\n  - at: /a\n    rule: time-within\n    tolerance: sometime\n",
		},
		{
			"bad truncate unit",
			"equivalences:\n  - at: /a\n    rule: time-truncated\n    truncate: daily\n",
		},
		{
			"blank type label",
			"types:\n  - path: /a\n    label: \"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := ruleset.Load(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if _, err := f.Build(); !errors.Is(err, ruleset.ErrRuleset) {
				t.Errorf("Build() error = %v, want ErrRuleset", err)
			}
		})
	}
}

func TestBuildAppliesRules(t *testing.T) {
	t.Parallel()

	doc := `
lists:
  - path: /items
    identity: id
equivalences:
  - at: /name
    rule: case-insensitive
`
	f, err := ruleset.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg, err := f.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	left := treediff.Object(map[string]*treediff.Node{
		"name": treediff.String("Alice"),
		"items": treediff.Array(
			treediff.Object(map[string]*treediff.Node{"id": treediff.String("1"), "v": treediff.Number(1)}),
			treediff.Object(map[string]*treediff.Node{"id": treediff.String("2"), "v": treediff.Number(2)}),
		),
	})
	right := treediff.Object(map[string]*treediff.Node{
		"name": treediff.String("ALICE"),
		"items": treediff.Array(
			treediff.Object(map[string]*treediff.Node{"id": treediff.String("2"), "v": treediff.Number(2)}),
			treediff.Object(map[string]*treediff.Node{"id": treediff.String("1"), "v": treediff.Number(1)}),
		),
	})

	if got := treediff.Compare(left, right, cfg); len(got) != 0 {
		t.Fatalf("Compare() = %v, want empty", got)
	}
}
