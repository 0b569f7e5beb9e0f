package expr

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindNull is the zero Value. It only comes from nil context data.
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	// KindMap only comes from context data; dotted paths walk into it.
	KindMap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a runtime value produced by evaluation.
//
// The zero Value is Null. Values are treated as immutable: the slices and
// maps returned by AsList and AsMap must not be modified.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool returns a Bool Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an Int Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a Float Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a String Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a List Value holding elems.
func List(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindList, list: elems}
}

// Map returns a Map Value holding m.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, m: m}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNumber reports whether v is an Int or a Float.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns v as a float64. Ints are converted.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsList returns the elements held by v.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsMap returns the entries held by v.
func (v Value) AsMap() (map[string]Value, bool) { return v.m, v.kind == KindMap }

// Truthy returns the boolean interpretation of v.
// Bools are themselves, numbers are true when non-zero, strings, lists and
// maps are true when non-empty. Null has no boolean interpretation.
func (v Value) Truthy() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i != 0, nil
	case KindFloat:
		return v.f != 0, nil
	case KindString:
		return v.s != "", nil
	case KindList:
		return len(v.list) > 0, nil
	case KindMap:
		return len(v.m) > 0, nil
	default:
		return false, typeErrorf("%s value is not boolean-coercible", v.kind)
	}
}

// Interface converts v back to plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders v in expression-literal form: strings are quoted, bools
// are True/False, lists use brackets. Maps render with sorted keys.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindBool:
		if v.b {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		sb.WriteString(s)
	case KindString:
		sb.WriteString(strconv.Quote(v.s))
	case KindList:
		sb.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb)
		}
		sb.WriteByte(']')
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			v.m[k].write(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("null")
	}
}

// ValueOf converts a Go value to a Value.
//
// Accepts:
//   - nil and nil pointers: Null
//   - Value: used directly
//   - bool, all int, uint and float widths, string (including named types)
//   - slices and arrays: List, converted element-wise
//   - maps with string keys: Map, converted entry-wise
//   - structs: Map of exported fields
//   - pointers to any of the above
func ValueOf(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case []any:
		elems := make([]Value, len(val))
		for i, e := range val {
			ev, err := ValueOf(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return List(elems...), nil
	case map[string]any:
		m := make(map[string]Value, len(val))
		for k, e := range val {
			ev, err := ValueOf(e)
			if err != nil {
				return Value{}, err
			}
			m[k] = ev
		}
		return Map(m), nil
	}
	return valueOfReflect(reflect.ValueOf(v))
}

var valueType = reflect.TypeOf(Value{})

func valueOfReflect(rv reflect.Value) (Value, error) {
	if rv.IsValid() && rv.Type() == valueType && rv.CanInterface() {
		return rv.Interface().(Value), nil
	}
	switch rv.Kind() {
	case reflect.Invalid:
		return Null(), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return valueOfReflect(rv.Elem())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Float(float64(u)), nil
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List(), nil
		}
		elems := make([]Value, rv.Len())
		for i := range elems {
			ev, err := valueOfReflect(rv.Index(i))
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return List(elems...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, typeErrorf("map key type %s is not string", rv.Type().Key())
		}
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := valueOfReflect(iter.Value())
			if err != nil {
				return Value{}, err
			}
			m[iter.Key().String()] = ev
		}
		return Map(m), nil
	case reflect.Struct:
		t := rv.Type()
		m := make(map[string]Value, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			ev, err := valueOfReflect(rv.Field(i))
			if err != nil {
				return Value{}, err
			}
			m[t.Field(i).Name] = ev
		}
		return Map(m), nil
	default:
		return Value{}, typeErrorf("unsupported value type %s", rv.Type())
	}
}
