package definition

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"wizard-cli/internal/wizard"
)

// toCty converts an answer or setting into a cty value.
func toCty(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return x, nil
	case string:
		return cty.StringVal(x), nil
	case bool:
		return cty.BoolVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case []string:
		if len(x) == 0 {
			return cty.ListValEmpty(cty.String), nil
		}
		vals := make([]cty.Value, len(x))
		for i, s := range x {
			vals[i] = cty.StringVal(s)
		}
		return cty.ListVal(vals), nil
	case []any:
		vals := make([]cty.Value, len(x))
		for i, item := range x {
			val, err := toCty(item)
			if err != nil {
				return cty.NilVal, err
			}
			vals[i] = val
		}
		return cty.TupleVal(vals), nil
	case wizard.Answers:
		return mapToCty(x)
	case map[string]any:
		return mapToCty(x)
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", v)
	}
}

func mapToCty(m map[string]any) (cty.Value, error) {
	attrs := make(map[string]cty.Value, len(m))
	for k, item := range m {
		val, err := toCty(item)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s: %w", k, err)
		}
		attrs[k] = val
	}
	return cty.ObjectVal(attrs), nil
}

// fromCty converts a known cty value into plain Go values: string, bool,
// int or float64, []string for string lists, []any for other sequences
// and map[string]any for objects and maps.
func fromCty(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return int(i), nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		var items []any
		var strs []string
		allStrings := true
		for it := val.ElementIterator(); it.Next(); {
			_, item := it.Element()
			goItem, err := fromCty(item)
			if err != nil {
				return nil, err
			}
			items = append(items, goItem)
			if s, ok := goItem.(string); ok {
				strs = append(strs, s)
			} else {
				allStrings = false
			}
		}
		if allStrings {
			if strs == nil {
				strs = []string{}
			}
			return strs, nil
		}
		return items, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := map[string]any{}
		for it := val.ElementIterator(); it.Next(); {
			key, item := it.Element()
			goItem, err := fromCty(item)
			if err != nil {
				return nil, err
			}
			out[key.AsString()] = goItem
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", ty.FriendlyName())
	}
}

func stringList(val cty.Value) []string {
	out := []string{}
	for it := val.ElementIterator(); it.Next(); {
		_, item := it.Element()
		out = append(out, item.AsString())
	}
	return out
}

// answerFor converts an expression result into the answer type of kind.
// A null result means "no value".
func answerFor(kind wizard.Kind, val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	switch kind {
	case wizard.KindConfirm:
		b, err := convert.Convert(val, cty.Bool)
		if err != nil {
			return nil, fmt.Errorf("%s needs a bool: %w", kind, err)
		}
		return b.True(), nil
	case wizard.KindCheckbox:
		list, err := convert.Convert(val, cty.List(cty.String))
		if err != nil {
			return nil, fmt.Errorf("%s needs a list of strings: %w", kind, err)
		}
		if list.IsNull() {
			return nil, nil
		}
		return stringList(list), nil
	default:
		s, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("%s needs a string: %w", kind, err)
		}
		return s.AsString(), nil
	}
}

// answersFromCty converts a pre-seeded answers object.
func answersFromCty(val cty.Value) (wizard.Answers, error) {
	goVal, err := fromCty(val)
	if err != nil {
		return nil, err
	}
	if goVal == nil {
		return nil, nil
	}
	m, ok := goVal.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("answers must be an object, got %s", val.Type().FriendlyName())
	}
	return wizard.Answers(m), nil
}
