package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status string

type record struct {
	ID     int
	Labels map[string]string
	hidden bool
}

func TestValueOf(t *testing.T) {
	n := 4
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"int", 3, Int(3)},
		{"int32", int32(-2), Int(-2)},
		{"uint8", uint8(200), Int(200)},
		{"huge uint64", uint64(math.MaxUint64), Float(float64(uint64(math.MaxUint64)))},
		{"float32", float32(1.5), Float(1.5)},
		{"named string", status("ok"), String("ok")},
		{"pointer", &n, Int(4)},
		{"nil pointer", (*int)(nil), Null()},
		{"string slice", []string{"a", "b"}, List(String("a"), String("b"))},
		{"nil slice", []int(nil), List()},
		{"any slice", []any{1, "x", nil}, List(Int(1), String("x"), Null())},
		{"value slice", []Value{Int(1)}, List(Int(1))},
		{"typed map", map[string]int{"k": 1}, Map(map[string]Value{"k": Int(1)})},
		{"struct", record{ID: 7, Labels: map[string]string{"a": "b"}, hidden: true},
			Map(map[string]Value{"ID": Int(7), "Labels": Map(map[string]Value{"a": String("b")})})},
		{"value", String("v"), String("v")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind(), got.Kind())
			assert.True(t, Equal(tt.want, got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestValueOf_Unsupported(t *testing.T) {
	for name, in := range map[string]any{
		"chan":        make(chan int),
		"func":        func() {},
		"int key map": map[int]string{1: "a"},
		"nested chan": []any{make(chan int)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ValueOf(in)
			assert.ErrorIs(t, err, ErrType)
		})
	}
}

func TestValue_Interface(t *testing.T) {
	v := List(Int(1), Float(2.5), String("s"), Bool(true), Null(), Map(map[string]Value{"k": Int(2)}))
	assert.Equal(t, []any{int64(1), 2.5, "s", true, nil, map[string]any{"k": int64(2)}}, v.Interface())
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Bool(true), "True"},
		{Bool(false), "False"},
		{Int(-3), "-3"},
		{Float(2), "2.0"},
		{Float(0.5), "0.5"},
		{Float(1e21), "1e+21"},
		{Float(math.Inf(1)), "+Inf"},
		{String(`a"b`), `"a\"b"`},
		{List(Int(1), String("x")), `[1, "x"]`},
		{List(), "[]"},
		{Map(map[string]Value{"b": Int(2), "a": Int(1)}), `{"a": 1, "b": 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Bool(true), true},
		{Bool(false), false},
		{Int(0), false},
		{Int(-1), true},
		{Float(0), false},
		{Float(0.1), true},
		{String(""), false},
		{String("x"), true},
		{List(), false},
		{List(Int(0)), true},
		{Map(nil), false},
		{Map(map[string]Value{"a": Null()}), true},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			got, err := tt.v.Truthy()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Null().Truthy()
	assert.ErrorIs(t, err, ErrType)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"ints", Int(1), Int(2), -1},
		{"int float", Int(2), Float(1.5), 1},
		{"equal across kinds", Int(2), Float(2), 0},
		{"bools", Bool(true), Bool(false), 1},
		{"strings", String("b"), String("a"), 1},
		{"lists", List(Int(1), Int(2)), List(Int(1), Int(3)), -1},
		{"list prefix", List(Int(1)), List(Int(1), Int(0)), -1},
		{"equal lists", List(String("a")), List(String("a")), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Compare(Int(1), String("1"))
	assert.ErrorIs(t, err, ErrType)
	_, err = Compare(Map(nil), Map(nil))
	assert.ErrorIs(t, err, ErrType)
	_, err = Compare(List(Int(1)), List(String("a")))
	assert.ErrorIs(t, err, ErrType)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Null(), Null()))
	assert.True(t, Equal(Bool(false), Int(0)))
	assert.False(t, Equal(String("1"), Int(1)))
	assert.False(t, Equal(Null(), Int(0)))
	assert.False(t, Equal(List(Int(1)), List(Int(1), Int(2))))
	assert.True(t, Equal(
		Map(map[string]Value{"a": List(Float(1))}),
		Map(map[string]Value{"a": List(Int(1))}),
	))
	assert.False(t, Equal(
		Map(map[string]Value{"a": Int(1)}),
		Map(map[string]Value{"b": Int(1)}),
	))
	assert.False(t, Equal(Float(math.NaN()), Float(math.NaN())))
}

func TestOrdered_NaN(t *testing.T) {
	nan := map[string]any{"x": math.NaN()}
	for _, src := range []string{"x < 1", "x > 1", "x <= 1", "x >= 1", "1 <= x"} {
		got, err := Eval(src, nan)
		require.NoError(t, err)
		assert.True(t, Equal(Bool(false), got), "%s with NaN = %v", src, got)
	}
}
