// Package adapter converts host representations into treediff node trees.
// It is the tree factory collaborator of the comparison core: the engine
// itself consumes only ready-made trees.
package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/pojotools/treediff"
)

// ErrUnsupportedValue indicates a Go value with no tree representation.
var ErrUnsupportedValue = fmt.Errorf("unsupported value")

// FromJSON decodes a JSON document into a node tree.
func FromJSON(data []byte) (*treediff.Node, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	return FromValue(v)
}

// FromYAML decodes a YAML document into a node tree. JSON documents decode
// too, YAML being a superset.
func FromYAML(data []byte) (*treediff.Node, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	return FromValue(v)
}

// FromValue converts decoded plain Go values (nil, bool, numbers, string,
// []any, map[string]any) into a node tree.
func FromValue(v any) (*treediff.Node, error) {
	switch x := v.(type) {
	case nil:
		return treediff.Null(), nil
	case bool:
		return treediff.Bool(x), nil
	case float64:
		return treediff.Number(x), nil
	case float32:
		return treediff.Number(float64(x)), nil
	case int:
		return treediff.Number(float64(x)), nil
	case int32:
		return treediff.Number(float64(x)), nil
	case int64:
		return treediff.Number(float64(x)), nil
	case uint64:
		return treediff.Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrUnsupportedValue, x)
		}
		return treediff.Number(f), nil
	case string:
		return treediff.String(x), nil
	case []any:
		elems := make([]*treediff.Node, len(x))
		for i, item := range x {
			node, err := FromValue(item)
			if err != nil {
				return nil, err
			}
			elems[i] = node
		}
		return treediff.Array(elems...), nil
	case map[string]any:
		fields := make(map[string]*treediff.Node, len(x))
		for name, item := range x {
			node, err := FromValue(item)
			if err != nil {
				return nil, err
			}
			fields[name] = node
		}
		return treediff.Object(fields), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
