package template

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches ${name}. Names are identifiers.
var placeholderPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Renderer turns a parameter value into replacement text.
type Renderer func(v any) (string, error)

// Expander expands ${name} placeholders in strings.
//
// Create with NewExpander() and configure with Option functions.
// Expander is safe for concurrent use after construction.
type Expander struct {
	missingAction MissingAction
	render        Renderer
}

// NewExpander creates a new Expander with the given options.
//
// Default configuration:
//   - MissingAction: MissingKeep (keep placeholders as-is)
//   - Renderer: fmt.Sprint
//
// Expression templates use Literal so parameters become grammar literals:
//
//	exp := NewExpander(
//	    WithMissingAction(MissingError),
//	    WithRenderer(Literal),
//	)
func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		missingAction: MissingKeep,
		render:        func(v any) (string, error) { return fmt.Sprint(v), nil },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand replaces every ${name} in s with the rendered value of vars[name].
//
// With MissingError, all undefined names are reported together in an
// *UndefinedVariableError. A render failure is returned as a *RenderError
// for the first offending name.
//
// Example:
//
//	exp := NewExpander(WithRenderer(Literal))
//	result, err := exp.Expand("region == ${region}", map[string]any{"region": "eu"})
//	// result: `region == "eu"`
func (e *Expander) Expand(s string, vars map[string]any) (string, error) {
	if s == "" {
		return "", nil
	}

	var (
		missing   []string
		renderErr error
	)
	result := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		val, ok := vars[name]
		if !ok {
			switch e.missingAction {
			case MissingEmpty:
				return ""
			case MissingError:
				missing = append(missing, name)
			}
			return match
		}
		text, err := e.render(val)
		if err != nil {
			if renderErr == nil {
				renderErr = &RenderError{Name: name, Err: err}
			}
			return match
		}
		return text
	})

	if len(missing) > 0 {
		return result, &UndefinedVariableError{Names: missing}
	}
	if renderErr != nil {
		return result, renderErr
	}
	return result, nil
}

// MustExpand expands placeholders in s and panics on error.
func (e *Expander) MustExpand(s string, vars map[string]any) string {
	result, err := e.Expand(s, vars)
	if err != nil {
		panic(fmt.Sprintf("template: %v", err))
	}
	return result
}

// Placeholders returns the distinct names referenced by s in order of
// first appearance.
func Placeholders(s string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// UndefinedVariableError is returned when MissingError is set and
// one or more variables are not found.
type UndefinedVariableError struct {
	// Names is the list of undefined variable names.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined parameter: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined parameters: %s", strings.Join(e.Names, ", "))
}

// RenderError is returned when a parameter value cannot be rendered.
type RenderError struct {
	Name string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("parameter %s: %v", e.Name, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// defaultExpander is the package-level expander with default settings.
var defaultExpander = NewExpander()

// Expand expands placeholders in s using the default expander.
// Missing variables stay as-is and values are rendered with fmt.Sprint.
func Expand(s string, vars map[string]any) string {
	result, _ := defaultExpander.Expand(s, vars)
	return result
}
