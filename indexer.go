package treediff

import "strconv"

// nullKey is the index key for elements whose identity value is missing or
// null.
const nullKey = "<null>"

// indexElements builds a lookup from extracted identity key to array
// element. Only object elements carry an identity; other elements are
// invisible to identity-based pairing. On duplicate keys the last occurrence
// wins. Keys are stored unescaped; callers escape when building child paths.
func indexElements(array *Node, rule ListRule) map[string]*Node {
	index := make(map[string]*Node, array.Len())
	for i := 0; i < array.Len(); i++ {
		elem := array.Elem(i)
		if !elem.IsObject() {
			continue
		}
		index[identityKey(elem, rule)] = elem
	}
	return index
}

func identityKey(elem *Node, rule ListRule) string {
	switch rule.kind {
	case ruleField:
		return keyText(elem.Field(rule.identifier))
	case rulePointer:
		return keyText(elem.At(rule.identifier))
	case ruleJSONPath:
		results := rule.query.Select(elem.Interface())
		if len(results) == 0 {
			return nullKey
		}
		return valueText(results[0])
	default:
		return nullKey
	}
}

func keyText(id *Node) string {
	if id.IsNull() {
		return nullKey
	}
	return id.Text()
}

// valueText renders a plain Go value selected by a JSONPath query in the
// same textual form Node.Text uses. Containers cannot serve as identity
// keys.
func valueText(v any) string {
	switch x := v.(type) {
	case nil:
		return nullKey
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	default:
		return nullKey
	}
}
