package treediff

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/pojotools/treediff/internal/pathutil"
)

// NodeType enumerates the closed set of tree value kinds.
type NodeType uint8

const (
	TypeNull NodeType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

func (t NodeType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Node is an immutable tree value: null, bool, number, string, array, or
// object. A nil *Node represents an absent value, which the engine treats as
// a leaf. Nodes are safe to share across concurrent comparisons.
type Node struct {
	kind   NodeType
	b      bool
	num    float64
	str    string
	elems  []*Node
	fields map[string]*Node
}

var nullNode = &Node{kind: TypeNull}

// Null returns the null node.
func Null() *Node { return nullNode }

// Bool returns a boolean node.
func Bool(v bool) *Node { return &Node{kind: TypeBool, b: v} }

// Number returns a numeric node.
func Number(v float64) *Node { return &Node{kind: TypeNumber, num: v} }

// String returns a string node.
func String(v string) *Node { return &Node{kind: TypeString, str: v} }

// Array returns an array node holding the given elements in order.
func Array(elems ...*Node) *Node {
	return &Node{kind: TypeArray, elems: slices.Clone(elems)}
}

// Object returns an object node holding a copy of the given fields.
// Field insertion order is irrelevant; traversal is always sorted.
func Object(fields map[string]*Node) *Node {
	copied := make(map[string]*Node, len(fields))
	for name, child := range fields {
		copied[name] = child
	}
	return &Node{kind: TypeObject, fields: copied}
}

// Type returns the node kind. A nil node reports TypeNull.
func (n *Node) Type() NodeType {
	if n == nil {
		return TypeNull
	}
	return n.kind
}

// IsLeaf reports whether the node is absent, null, or a scalar.
func (n *Node) IsLeaf() bool {
	return n == nil || (n.kind != TypeArray && n.kind != TypeObject)
}

// IsObject reports whether the node is an object container.
func (n *Node) IsObject() bool { return n != nil && n.kind == TypeObject }

// IsArray reports whether the node is an array container.
func (n *Node) IsArray() bool { return n != nil && n.kind == TypeArray }

// IsNull reports whether the node is absent or null.
func (n *Node) IsNull() bool { return n == nil || n.kind == TypeNull }

// BoolValue returns the boolean payload, or false for other kinds.
func (n *Node) BoolValue() bool {
	if n == nil || n.kind != TypeBool {
		return false
	}
	return n.b
}

// NumberValue returns the numeric payload, or 0 for other kinds.
func (n *Node) NumberValue() float64 {
	if n == nil || n.kind != TypeNumber {
		return 0
	}
	return n.num
}

// StringValue returns the string payload, or "" for other kinds.
func (n *Node) StringValue() string {
	if n == nil || n.kind != TypeString {
		return ""
	}
	return n.str
}

// Text returns the textual form of a leaf value: the string itself, a
// formatted number, "true"/"false", or "null". Containers yield "".
func (n *Node) Text() string {
	switch n.Type() {
	case TypeString:
		return n.str
	case TypeNumber:
		return strconv.FormatFloat(n.num, 'f', -1, 64)
	case TypeBool:
		return strconv.FormatBool(n.b)
	case TypeNull:
		return "null"
	default:
		return ""
	}
}

// Len returns the number of array elements or object fields.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case TypeArray:
		return len(n.elems)
	case TypeObject:
		return len(n.fields)
	default:
		return 0
	}
}

// Elem returns the i-th array element, or nil when out of bounds or not an
// array.
func (n *Node) Elem(i int) *Node {
	if n == nil || n.kind != TypeArray || i < 0 || i >= len(n.elems) {
		return nil
	}
	return n.elems[i]
}

// Field returns the named object field, or nil when absent or not an object.
func (n *Node) Field(name string) *Node {
	if n == nil || n.kind != TypeObject {
		return nil
	}
	return n.fields[name]
}

// Fields returns the object field names in sorted order.
func (n *Node) Fields() []string {
	if n == nil || n.kind != TypeObject {
		return nil
	}
	names := make([]string, 0, len(n.fields))
	for name := range n.fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// At resolves an RFC 6901 JSON Pointer against the node. Reference tokens
// use "~0"/"~1" escaping; array elements are addressed by decimal index.
// Returns nil when the pointer does not resolve.
func (n *Node) At(pointer string) *Node {
	if pointer == "" {
		return n
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil
	}
	current := n
	for _, token := range strings.Split(pointer[1:], "/") {
		current = current.step(pathutil.Unescape(token))
		if current == nil {
			return nil
		}
	}
	return current
}

func (n *Node) step(token string) *Node {
	switch n.Type() {
	case TypeObject:
		return n.fields[token]
	case TypeArray:
		i, err := strconv.Atoi(token)
		if err != nil {
			return nil
		}
		return n.Elem(i)
	default:
		return nil
	}
}

// Equal reports deep structural equality. Absent and null are distinct.
func (n *Node) Equal(o *Node) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil || n.kind != o.kind {
		return false
	}
	switch n.kind {
	case TypeNull:
		return true
	case TypeBool:
		return n.b == o.b
	case TypeNumber:
		return n.num == o.num
	case TypeString:
		return n.str == o.str
	case TypeArray:
		if len(n.elems) != len(o.elems) {
			return false
		}
		for i, elem := range n.elems {
			if !elem.Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		if len(n.fields) != len(o.fields) {
			return false
		}
		for name, child := range n.fields {
			other, ok := o.fields[name]
			if !ok || !child.Equal(other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Interface converts the node to plain Go values: nil, bool, float64,
// string, []any, or map[string]any.
func (n *Node) Interface() any {
	switch n.Type() {
	case TypeBool:
		return n.b
	case TypeNumber:
		return n.num
	case TypeString:
		return n.str
	case TypeArray:
		out := make([]any, len(n.elems))
		for i, elem := range n.elems {
			out[i] = elem.Interface()
		}
		return out
	case TypeObject:
		out := make(map[string]any, len(n.fields))
		for name, child := range n.fields {
			out[name] = child.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON renders the node as its plain JSON value.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Interface())
}

// String returns a compact JSON rendering, for debugging output.
func (n *Node) String() string {
	data, err := n.MarshalJSON()
	if err != nil {
		return "<invalid>"
	}
	return string(data)
}
