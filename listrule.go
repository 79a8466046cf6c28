package treediff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theory/jsonpath"
)

// ErrEmptyIdentity indicates an identity rule declared without a path.
var ErrEmptyIdentity = errors.New("identity path must not be empty")

type listRuleKind uint8

const (
	rulePositional listRuleKind = iota
	ruleField
	rulePointer
	ruleJSONPath
)

// ListRule declares how elements of an array are paired across the two
// sides: by position (the zero value), or by an identity extracted from each
// element. Immutable value object.
type ListRule struct {
	identifier string
	kind       listRuleKind
	query      *jsonpath.Path
}

// Positional returns the rule that pairs array elements by index.
func Positional() ListRule { return ListRule{} }

// Identity returns a rule that pairs array elements by an extracted identity
// value. The identifier form is detected from its shape:
//
//   - "id": a direct field name
//   - "/nested/id": an RFC 6901 JSON Pointer into each element
//   - "$.meta.id": an RFC 9535 JSONPath expression, compiled eagerly
func Identity(identifier string) (ListRule, error) {
	if identifier == "" {
		return ListRule{}, ErrEmptyIdentity
	}
	switch {
	case strings.HasPrefix(identifier, "/"):
		return ListRule{identifier: identifier, kind: rulePointer}, nil
	case strings.HasPrefix(identifier, "$"):
		query, err := jsonpath.Parse(identifier)
		if err != nil {
			return ListRule{}, fmt.Errorf("invalid identity query %q: %w", identifier, err)
		}
		return ListRule{identifier: identifier, kind: ruleJSONPath, query: query}, nil
	default:
		return ListRule{identifier: identifier, kind: ruleField}, nil
	}
}

// IsPositional reports whether the rule pairs by index.
func (r ListRule) IsPositional() bool { return r.kind == rulePositional }

// Identifier returns the declared identity path, or "" for positional rules.
func (r ListRule) Identifier() string { return r.identifier }
