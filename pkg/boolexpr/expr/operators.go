package expr

import (
	"fmt"
	"math"
	"strings"
)

// applyBinary applies op to two evaluated operands.
func applyBinary(op Operator, left, right Value) (Value, error) {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return arithmetic(op, left, right)
	case OpEq:
		return Bool(Equal(left, right)), nil
	case OpNe:
		return Bool(!Equal(left, right)), nil
	case OpLt, OpGt, OpLe, OpGe:
		b, err := ordered(op, left, right)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case OpIn:
		b, err := contains(right, left)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case OpAnd, OpOr:
		l, err := left.Truthy()
		if err != nil {
			return Value{}, err
		}
		r, err := right.Truthy()
		if err != nil {
			return Value{}, err
		}
		if op == OpAnd {
			return Bool(l && r), nil
		}
		return Bool(l || r), nil
	default:
		return Value{}, &EvalError{
			Kind: ErrUnsupportedOperator,
			Msg:  fmt.Sprintf("unsupported operator: %s", op),
		}
	}
}

// arithmetic applies + - * / %. Int op Int stays Int, except for an inexact
// division which yields a Float. % is floored: the result has the sign of
// the divisor.
func arithmetic(op Operator, left, right Value) (Value, error) {
	if !left.IsNumber() || !right.IsNumber() {
		return Value{}, typeErrorf("both operands of %s must be numeric, got %s and %s",
			op, left.Kind(), right.Kind())
	}

	if left.kind == KindInt && right.kind == KindInt {
		a, b := left.i, right.i
		switch op {
		case OpAdd:
			c := a + b
			if (c > a) != (b > 0) {
				return Value{}, overflowError(op, a, b)
			}
			return Int(c), nil
		case OpSub:
			c := a - b
			if (c < a) != (b > 0) {
				return Value{}, overflowError(op, a, b)
			}
			return Int(c), nil
		case OpMul:
			c := a * b
			if a != 0 && (c/a != b || (a == -1 && b == math.MinInt64)) {
				return Value{}, overflowError(op, a, b)
			}
			return Int(c), nil
		case OpDiv:
			if b == 0 {
				return Value{}, arithmeticErrorf("division by zero")
			}
			if a == math.MinInt64 && b == -1 {
				return Value{}, overflowError(op, a, b)
			}
			if a%b == 0 {
				return Int(a / b), nil
			}
			return Float(float64(a) / float64(b)), nil
		case OpMod:
			if b == 0 {
				return Value{}, arithmeticErrorf("modulo by zero")
			}
			m := a % b
			if m != 0 && (m < 0) != (b < 0) {
				m += b
			}
			return Int(m), nil
		}
	}

	a, _ := left.AsFloat()
	b, _ := right.AsFloat()
	switch op {
	case OpAdd:
		return Float(a + b), nil
	case OpSub:
		return Float(a - b), nil
	case OpMul:
		return Float(a * b), nil
	case OpDiv:
		if b == 0 {
			return Value{}, arithmeticErrorf("division by zero")
		}
		return Float(a / b), nil
	case OpMod:
		if b == 0 {
			return Value{}, arithmeticErrorf("modulo by zero")
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return Float(m), nil
	}
	return Value{}, &EvalError{Kind: ErrUnsupportedOperator, Msg: fmt.Sprintf("unsupported operator: %s", op)}
}

// number is the numeric view of a Value used by comparisons.
// Bools count as 0 and 1.
type number struct {
	i     int64
	f     float64
	isInt bool
}

func asNumber(v Value) (number, bool) {
	switch v.kind {
	case KindInt:
		return number{i: v.i, f: float64(v.i), isInt: true}, true
	case KindFloat:
		return number{f: v.f}, true
	case KindBool:
		if v.b {
			return number{i: 1, f: 1, isInt: true}, true
		}
		return number{isInt: true}, true
	default:
		return number{}, false
	}
}

// Equal reports whether two values are equal. Numbers (and bools, as 0/1)
// compare numerically across Int and Float; strings, lists and maps compare
// structurally. Values of unrelated kinds are unequal.
func Equal(a, b Value) bool {
	if x, ok := asNumber(a); ok {
		y, ok := asNumber(b)
		if !ok {
			return false
		}
		if x.isInt && y.isInt {
			return x.i == y.i
		}
		return x.f == y.f
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindString:
		return a.s == b.s
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare returns -1, 0 or 1 as a is less than, equal to or greater than b.
// Numbers compare numerically, strings by bytes and lists element-wise.
// Other combinations are not ordered and return an ErrType error.
func Compare(a, b Value) (int, error) {
	if x, ok := asNumber(a); ok {
		if y, ok := asNumber(b); ok {
			if x.isInt && y.isInt {
				return cmp3(x.i < y.i, x.i > y.i), nil
			}
			return cmp3(x.f < y.f, x.f > y.f), nil
		}
	}
	switch {
	case a.kind == KindString && b.kind == KindString:
		return strings.Compare(a.s, b.s), nil
	case a.kind == KindList && b.kind == KindList:
		for i := 0; i < len(a.list) && i < len(b.list); i++ {
			c, err := Compare(a.list[i], b.list[i])
			if err != nil {
				return 0, err
			}
			if c != 0 {
				return c, nil
			}
		}
		return cmp3(len(a.list) < len(b.list), len(a.list) > len(b.list)), nil
	}
	return 0, typeErrorf("cannot compare %s with %s", a.kind, b.kind)
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	default:
		return 0
	}
}

// ordered applies one of < > <= >=.
func ordered(op Operator, left, right Value) (bool, error) {
	// Floats are compared directly so NaN orders false against everything.
	if x, ok := asNumber(left); ok && !x.isInt {
		if y, ok := asNumber(right); ok {
			return orderFloat(op, x.f, y.f), nil
		}
	}
	if y, ok := asNumber(right); ok && !y.isInt {
		if x, ok := asNumber(left); ok {
			return orderFloat(op, x.f, y.f), nil
		}
	}

	c, err := Compare(left, right)
	if err != nil {
		return false, err
	}
	switch op {
	case OpLt:
		return c < 0, nil
	case OpGt:
		return c > 0, nil
	case OpLe:
		return c <= 0, nil
	default:
		return c >= 0, nil
	}
}

func orderFloat(op Operator, a, b float64) bool {
	switch op {
	case OpLt:
		return a < b
	case OpGt:
		return a > b
	case OpLe:
		return a <= b
	default:
		return a >= b
	}
}

// contains reports whether needle is in haystack: an element of a list, a
// substring of a string or a key of a map.
func contains(haystack, needle Value) (bool, error) {
	switch haystack.kind {
	case KindList:
		for _, e := range haystack.list {
			if Equal(needle, e) {
				return true, nil
			}
		}
		return false, nil
	case KindString:
		s, ok := needle.AsString()
		if !ok {
			return false, typeErrorf("in <string> requires a string left operand, got %s", needle.kind)
		}
		return strings.Contains(haystack.s, s), nil
	case KindMap:
		s, ok := needle.AsString()
		if !ok {
			return false, typeErrorf("in <map> requires a string left operand, got %s", needle.kind)
		}
		_, found := haystack.m[s]
		return found, nil
	default:
		return false, typeErrorf("right operand of in must be a list, string or map, got %s", haystack.kind)
	}
}

func overflowError(op Operator, a, b int64) error {
	return arithmeticErrorf("integer overflow in %d %s %d", a, op, b)
}
