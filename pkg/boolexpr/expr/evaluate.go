package expr

import (
	"reflect"
	"strings"
)

// evaluate computes the value of n against vars.
// Evaluation is a pure walk of the tree; vars is only read.
func evaluate(n Node, vars map[string]any) (Value, error) {
	switch n := n.(type) {
	case *Constant:
		return n.Value, nil

	case *Variable:
		v, err := resolve(n, vars)
		if err != nil {
			return Value{}, withNode(err, n)
		}
		return v, nil

	case *Array:
		elems := make([]Value, len(n.Elements))
		for i, e := range n.Elements {
			v, err := evaluate(e, vars)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return List(elems...), nil

	case *Not:
		v, err := evaluate(n.Operand, vars)
		if err != nil {
			return Value{}, err
		}
		b, err := v.Truthy()
		if err != nil {
			return Value{}, withNode(err, n)
		}
		return Bool(!b), nil

	case *Binary:
		// No short-circuit: the right side is evaluated even when the left
		// side already decides an and/or.
		left, err := evaluate(n.Left, vars)
		if err != nil {
			return Value{}, err
		}
		right, err := evaluate(n.Right, vars)
		if err != nil {
			return Value{}, err
		}
		v, err := applyBinary(n.Op, left, right)
		if err != nil {
			return Value{}, withNode(err, n)
		}
		return v, nil

	case *Modifier:
		v, err := evaluate(n.Operand, vars)
		if err != nil {
			return Value{}, err
		}
		v, err = applyModifier(n, v)
		if err != nil {
			return Value{}, withNode(err, n)
		}
		return v, nil

	default:
		return Value{}, typeErrorf("unknown node type %T", n)
	}
}

// resolve walks a variable path through vars.
func resolve(v *Variable, vars map[string]any) (Value, error) {
	if len(v.Path) == 0 || v.Path[0].IsIndex {
		return Value{}, lookupErrorf("variable path must start with a name")
	}
	name := v.Path[0].Name
	cur, ok := vars[name]
	if !ok {
		return Value{}, lookupErrorf("undefined variable %q", name)
	}
	for _, seg := range v.Path[1:] {
		var err error
		if seg.IsIndex {
			cur, err = index(cur, seg.Index)
		} else {
			cur, err = field(cur, seg.Name)
		}
		if err != nil {
			return Value{}, err
		}
	}
	return ValueOf(cur)
}

// index returns element i of a list-like value. Negative indices count
// from the end.
func index(cur any, i int) (any, error) {
	switch c := cur.(type) {
	case Value:
		list, ok := c.AsList()
		if !ok {
			return nil, typeErrorf("index into non-indexable value of kind %s", c.Kind())
		}
		pos, err := normalizeIndex(i, len(list))
		if err != nil {
			return nil, err
		}
		return list[pos], nil
	case []any:
		pos, err := normalizeIndex(i, len(c))
		if err != nil {
			return nil, err
		}
		return c[pos], nil
	}

	rv := indirect(reflect.ValueOf(cur))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, typeErrorf("index into non-indexable value of type %s", typeName(rv))
	}
	pos, err := normalizeIndex(i, rv.Len())
	if err != nil {
		return nil, err
	}
	return rv.Index(pos).Interface(), nil
}

func normalizeIndex(i, n int) (int, error) {
	pos := i
	if pos < 0 {
		pos += n
	}
	if pos < 0 || pos >= n {
		return 0, lookupErrorf("index %d out of range for length %d", i, n)
	}
	return pos, nil
}

// field returns the entry name of a mapping-like value: a Map Value, a map
// with string keys or a struct with an exported field of that name.
func field(cur any, name string) (any, error) {
	switch c := cur.(type) {
	case Value:
		m, ok := c.AsMap()
		if !ok {
			return nil, typeErrorf("field %q of non-mapping value of kind %s", name, c.Kind())
		}
		v, ok := m[name]
		if !ok {
			return nil, lookupErrorf("missing field %q", name)
		}
		return v, nil
	case map[string]any:
		v, ok := c[name]
		if !ok {
			return nil, lookupErrorf("missing field %q", name)
		}
		return v, nil
	}

	rv := indirect(reflect.ValueOf(cur))
	switch rv.Kind() {
	case reflect.Map:
		keyType := rv.Type().Key()
		if keyType.Kind() != reflect.String {
			return nil, typeErrorf("field %q of map with %s keys", name, keyType)
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(keyType))
		if !v.IsValid() {
			return nil, lookupErrorf("missing field %q", name)
		}
		return v.Interface(), nil
	case reflect.Struct:
		sf, ok := rv.Type().FieldByName(name)
		if !ok || !sf.IsExported() {
			return nil, lookupErrorf("missing field %q", name)
		}
		return rv.FieldByIndex(sf.Index).Interface(), nil
	default:
		return nil, typeErrorf("field %q of non-mapping value of type %s", name, typeName(rv))
	}
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func typeName(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}
	return rv.Type().String()
}

// applyModifier applies a string modifier to an evaluated operand.
func applyModifier(m *Modifier, v Value) (Value, error) {
	s, ok := v.AsString()
	if !ok {
		return Value{}, typeErrorf("%s requires a string operand, got %s", m.Kind, v.Kind())
	}
	switch m.Kind {
	case ModUpper:
		return String(strings.ToUpper(s)), nil
	case ModLower:
		return String(strings.ToLower(s)), nil
	case ModSplit:
		sep := " "
		if m.HasArg {
			sep = m.Arg
		}
		if sep == "" {
			return Value{}, typeErrorf("split delimiter must not be empty")
		}
		parts := strings.Split(s, sep)
		elems := make([]Value, len(parts))
		for i, p := range parts {
			elems[i] = String(p)
		}
		return List(elems...), nil
	case ModStrip:
		if m.HasArg {
			return String(strings.Trim(s, m.Arg)), nil
		}
		return String(strings.TrimSpace(s)), nil
	default:
		return Value{}, typeErrorf("unknown modifier %d", int(m.Kind))
	}
}
