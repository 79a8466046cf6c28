package treediff

import (
	"slices"
	"strconv"

	"github.com/pojotools/treediff/internal/pathutil"
)

// walker carries the state of a single comparison: the shared immutable
// configuration and the private entry accumulator.
type walker struct {
	cfg     *Config
	entries []Entry
}

func (w *walker) walk(path string, left, right *Node) {
	if w.shouldSkip(path, left, right) {
		return
	}

	if left.IsLeaf() || right.IsLeaf() {
		w.addChange(path, left, right)
		return
	}

	if left.IsObject() && right.IsObject() {
		w.walkObject(path, left, right)
		return
	}
	if left.IsArray() && right.IsArray() {
		w.walkArray(path, left, right)
		return
	}

	// Mismatched container kinds surface as a single change at this path.
	w.addChange(path, left, right)
}

func (w *walker) shouldSkip(path string, left, right *Node) bool {
	if w.cfg.IsIgnored(path) {
		return true
	}
	if left == right {
		return true
	}
	if leafEqual(left, right) {
		return true
	}
	if eq, ok := w.cfg.EquivalenceAt(path); ok {
		return eq(left, right)
	}
	return false
}

// leafEqual reports literal equality of two present scalar values.
// Containers always recurse; absent values never compare equal here.
func leafEqual(left, right *Node) bool {
	if left == nil || right == nil {
		return false
	}
	if !left.IsLeaf() || !right.IsLeaf() {
		return false
	}
	return left.Equal(right)
}

func (w *walker) walkObject(path string, left, right *Node) {
	for _, name := range fieldUnion(left, right) {
		childPath := pathutil.Child(path, name)
		w.walk(childPath, left.Field(name), right.Field(name))
	}
}

// fieldUnion returns the lexicographically sorted union of field names on
// both sides. Sorted traversal is what makes the output deterministic.
func fieldUnion(left, right *Node) []string {
	names := left.Fields()
	for _, name := range right.Fields() {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (w *walker) walkArray(path string, left, right *Node) {
	rule, ok := w.cfg.ListRuleFor(path)
	if !ok || rule.IsPositional() {
		w.pairByIndex(path, left, right)
		return
	}
	w.pairByIdentity(path, left, right, rule)
}

func (w *walker) pairByIndex(path string, left, right *Node) {
	for i := 0; i < max(left.Len(), right.Len()); i++ {
		childPath := pathutil.Child(path, strconv.Itoa(i))
		w.pair(childPath, left.Elem(i), right.Elem(i))
	}
}

func (w *walker) pairByIdentity(path string, left, right *Node, rule ListRule) {
	leftIndex := indexElements(left, rule)
	rightIndex := indexElements(right, rule)
	for _, key := range keyUnion(leftIndex, rightIndex) {
		// Identity keys are wrapped in braces to distinguish them from
		// field names and positional indexes.
		childPath := pathutil.Child(path, "{"+key+"}")
		w.pair(childPath, leftIndex[key], rightIndex[key])
	}
}

func keyUnion(left, right map[string]*Node) []string {
	keys := make([]string, 0, len(left)+len(right))
	for key := range left {
		keys = append(keys, key)
	}
	for key := range right {
		if _, ok := left[key]; !ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// pair handles one element slot produced by either pairing strategy.
func (w *walker) pair(path string, left, right *Node) {
	switch {
	case left == nil:
		w.entries = append(w.entries, Entry{Path: path, Kind: Added, New: right})
	case right == nil:
		w.entries = append(w.entries, Entry{Path: path, Kind: Removed, Old: left})
	default:
		w.walk(path, left, right)
	}
}

func (w *walker) addChange(path string, left, right *Node) {
	w.entries = append(w.entries, Entry{Path: path, Kind: Changed, Old: left, New: right})
}
