package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		vars     map[string]any
		expected string
	}{
		{"simple", "score >= ${min}", map[string]any{"min": 80}, "score >= 80"},
		{"repeated", "${a} + ${a}", map[string]any{"a": 1}, "1 + 1"},
		{"adjacent", "${a}${b}", map[string]any{"a": "x", "b": "y"}, "xy"},
		{"missing kept", "a == ${b}", nil, "a == ${b}"},
		{"no placeholders", "a == 1", map[string]any{"a": 2}, "a == 1"},
		{"empty input", "", map[string]any{"a": 1}, ""},
		{"invalid name ignored", "${1a} ${}", map[string]any{"1a": 1}, "${1a} ${}"},
		{"bare dollar ignored", "$a", map[string]any{"a": 1}, "$a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Expand(tt.input, tt.vars))
		})
	}
}

func TestExpander_MissingActions(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		exp := NewExpander(WithMissingAction(MissingEmpty))
		got, err := exp.Expand("[${a}]", nil)
		require.NoError(t, err)
		assert.Equal(t, "[]", got)
	})

	t.Run("error lists every name", func(t *testing.T) {
		exp := NewExpander(WithMissingAction(MissingError))
		_, err := exp.Expand("${a} and ${b} or ${c}", map[string]any{"b": 1})
		var uerr *UndefinedVariableError
		require.True(t, errors.As(err, &uerr))
		assert.Equal(t, []string{"a", "c"}, uerr.Names)
		assert.Equal(t, "undefined parameters: a, c", err.Error())
	})

	t.Run("single name message", func(t *testing.T) {
		err := (&UndefinedVariableError{Names: []string{"x"}}).Error()
		assert.Equal(t, "undefined parameter: x", err)
	})
}

func TestExpander_LiteralRenderer(t *testing.T) {
	exp := NewExpander(WithMissingAction(MissingError), WithRenderer(Literal))

	got, err := exp.Expand("region in ${regions} and name == ${name} and vip == ${vip}", map[string]any{
		"regions": []string{"eu", "us"},
		"name":    `O"Brien`,
		"vip":     true,
	})
	require.NoError(t, err)
	assert.Equal(t, `region in ["eu", "us"] and name == "O\"Brien" and vip == True`, got)

	_, err = exp.Expand("a == ${m}", map[string]any{"m": map[string]any{}})
	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "m", rerr.Name)
	assert.ErrorIs(t, err, ErrUnsupportedLiteral)
}

func TestWithRenderer_NilIgnored(t *testing.T) {
	exp := NewExpander(WithRenderer(nil))
	got, err := exp.Expand("${a}", map[string]any{"a": 1.5})
	require.NoError(t, err)
	assert.Equal(t, "1.5", got)
}

func TestMustExpand(t *testing.T) {
	exp := NewExpander(WithMissingAction(MissingError))
	assert.Equal(t, "x", exp.MustExpand("${a}", map[string]any{"a": "x"}))
	assert.Panics(t, func() { exp.MustExpand("${a}", nil) })
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Placeholders("${a} > ${b} or ${a} < 0"))
	assert.Nil(t, Placeholders("a > b"))
}
