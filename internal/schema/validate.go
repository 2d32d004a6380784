package schema

import (
	"encoding/json"
	"fmt"
	"math"
)

// Result is the outcome of a single validation pass.
type Result struct {
	Valid  bool
	Errors []string
}

// Validate checks value against node and collects every mismatch instead of
// stopping at the first one. For objects it reports missing required fields
// in the order the required set declares them, then descends into present
// properties in declaration order. Array element errors are concatenated in
// element order and carry no index; nested messages are not prefixed with a
// field path.
func Validate(value any, node *Node) Result {
	var errs []string
	walk(value, node, &errs)
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func walk(value any, node *Node, errs *[]string) {
	switch node.Kind {
	case KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			*errs = append(*errs, mismatch(KindObject, KindOf(value)))
			return
		}
		for _, name := range node.Required {
			if _, present := obj[name]; !present {
				*errs = append(*errs, "Missing required field: "+name)
			}
		}
		for _, p := range node.Properties {
			if v, present := obj[p.Name]; present {
				walk(v, p.Node, errs)
			}
		}
	case KindArray:
		arr, ok := value.([]any)
		if !ok {
			*errs = append(*errs, mismatch(KindArray, KindOf(value)))
			return
		}
		if node.Elem == nil {
			return
		}
		for _, el := range arr {
			walk(el, node.Elem, errs)
		}
	case KindInteger:
		if k := KindOf(value); k != KindInteger {
			*errs = append(*errs, mismatch(KindInteger, k))
		}
	case KindNumber:
		// integer is a number
		if k := KindOf(value); k != KindNumber && k != KindInteger {
			*errs = append(*errs, mismatch(KindNumber, k))
		}
	default:
		if k := KindOf(value); k != node.Kind {
			*errs = append(*errs, mismatch(node.Kind, k))
		}
	}
}

func mismatch(want, got Kind) string {
	return fmt.Sprintf("Expected %s but got %s", want, got)
}

// KindOf reports the runtime kind of a decoded JSON value. Whole-number
// numerics read as integer; arrays read as array, never as a generic object.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return KindNull
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	case string:
		return KindString
	case bool:
		return KindBoolean
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return KindInteger
		}
		return KindNumber
	case float32:
		f := float64(t)
		if f == math.Trunc(f) {
			return KindInteger
		}
		return KindNumber
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return KindInteger
		}
		return KindNumber
	default:
		return KindObject
	}
}
