package template

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ErrUnsupportedLiteral is returned by Literal for values with no literal
// form in the expression grammar.
var ErrUnsupportedLiteral = errors.New("no expression literal for value")

// Literal renders v as an expression literal.
//
//   - strings are double-quoted; backslash, quote, newline, tab and
//     carriage return are escaped
//   - bools become True or False
//   - integers are printed in decimal; floats always carry a fraction
//   - slices and arrays become [a, b, ...] of scalar literals
//
// nil, maps, structs, nested lists and non-finite floats are rejected
// with ErrUnsupportedLiteral.
func Literal(v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: nil", ErrUnsupportedLiteral)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			return "", fmt.Errorf("%w: []byte", ErrUnsupportedLiteral)
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			elem := rv.Index(i)
			if elem.Kind() == reflect.Interface && !elem.IsNil() {
				elem = elem.Elem()
			}
			if elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array {
				return "", fmt.Errorf("%w: nested list", ErrUnsupportedLiteral)
			}
			s, err := scalarLiteral(elem)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	}
	return scalarLiteral(rv)
}

func scalarLiteral(rv reflect.Value) (string, error) {
	switch rv.Kind() {
	case reflect.String:
		return quote(rv.String()), nil
	case reflect.Bool:
		if rv.Bool() {
			return "True", nil
		}
		return "False", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return "", fmt.Errorf("%w: %d overflows int64", ErrUnsupportedLiteral, u)
		}
		return strconv.FormatUint(u, 10), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedLiteral, f)
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s, nil
	case reflect.Invalid:
		return "", fmt.Errorf("%w: nil", ErrUnsupportedLiteral)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedLiteral, rv.Type())
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
