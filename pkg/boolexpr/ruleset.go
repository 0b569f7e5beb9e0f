package boolexpr

import (
	"context"
	"fmt"
	"sort"

	"github.com/randalmurphal/boolexpr/pkg/boolexpr/config"
	"github.com/randalmurphal/boolexpr/pkg/boolexpr/expr"
	"github.com/randalmurphal/boolexpr/pkg/boolexpr/observability"
	"github.com/randalmurphal/boolexpr/pkg/boolexpr/registry"
	"github.com/randalmurphal/boolexpr/pkg/boolexpr/template"
)

// Rule is a named, compiled expression from a rule set.
type Rule struct {
	// Name is the key the rule was declared under.
	Name string
	// Description is optional free text.
	Description string
	// Tags are optional labels for grouping rules.
	Tags []string
	// Template is the expression as written, before parameter expansion.
	Template string
	// Expression is the compiled rule.
	Expression *expr.Expression
}

// Source returns the expanded expression text.
func (r Rule) Source() string {
	if r.Expression == nil {
		return ""
	}
	return r.Expression.Source()
}

// RuleSet is an immutable collection of compiled rules.
type RuleSet struct {
	rules *registry.Registry[string, Rule]
	names []string
}

// Names returns the rule names in sorted order.
func (rs *RuleSet) Names() []string {
	return append([]string(nil), rs.names...)
}

// Rule returns the named rule.
func (rs *RuleSet) Rule(name string) (Rule, bool) {
	return rs.rules.Get(name)
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.names)
}

// Tagged returns the sorted names of the rules carrying tag.
func (rs *RuleSet) Tagged(tag string) []string {
	var names []string
	for _, name := range rs.names {
		rule, _ := rs.rules.Get(name)
		for _, t := range rule.Tags {
			if t == tag {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

// Result is the outcome of one rule in EvaluateRuleSet.
type Result struct {
	Rule  string
	Value expr.Value
	Err   error
}

// ruleDef is a rule as declared, before expansion.
type ruleDef struct {
	name        string
	description string
	tags        []string
	template    string
}

// LoadRuleSet compiles the rules of a rule-set document:
//
//	params:
//	  min_score: 80
//	rules:
//	  approved: "score >= ${min_score}"
//	  vip:
//	    expr: "'vip' in tags"
//	    description: VIP customers
//	    tags: [marketing]
//
// ${name} placeholders are replaced with params rendered as expression
// literals: a string param already carries its own quotes, so write
// region == ${region}, not region == '${region}'. A placeholder inside a
// string literal is rejected with ErrInvalidRule. Any rule that fails to
// expand or compile fails the whole load with a *RuleError.
func (e *Engine) LoadRuleSet(ctx context.Context, cfg config.Config) (*RuleSet, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	done := observability.TimedOperation()

	defs, err := ruleDefinitions(cfg)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, ErrNoRules
	}

	params := cfg.Sub("params").Raw()
	expander := template.NewExpander(
		template.WithMissingAction(template.MissingError),
		template.WithRenderer(template.Literal),
	)

	rs := &RuleSet{
		rules: registry.New[string, Rule](),
		names: make([]string, 0, len(defs)),
	}
	for _, def := range defs {
		if name, ok := quotedPlaceholder(def.template); ok {
			return nil, &RuleError{Rule: def.name, Err: fmt.Errorf(
				"%w: placeholder ${%s} inside a string literal", ErrInvalidRule, name)}
		}
		source, err := expander.Expand(def.template, params)
		if err != nil {
			return nil, &RuleError{Rule: def.name, Err: err}
		}
		compiled, err := e.Compile(ctx, source)
		if err != nil {
			return nil, &RuleError{Rule: def.name, Err: err}
		}
		rs.rules.Register(def.name, Rule{
			Name:        def.name,
			Description: def.description,
			Tags:        def.tags,
			Template:    def.template,
			Expression:  compiled,
		})
		rs.names = append(rs.names, def.name)
	}

	observability.LogRuleSetLoaded(e.logger, rs.Len(), done())
	return rs, nil
}

// LoadRuleSetFile reads a YAML or JSON rule-set document and loads it.
func (e *Engine) LoadRuleSetFile(ctx context.Context, path string) (*RuleSet, error) {
	cfg, err := config.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rule set: %w", err)
	}
	return e.LoadRuleSet(ctx, cfg)
}

// ruleDefinitions reads the rules section, sorted by name.
func ruleDefinitions(cfg config.Config) ([]ruleDef, error) {
	if !cfg.Has("rules") {
		return nil, nil
	}

	var defs []ruleDef
	if simple := cfg.StringMap("rules", nil); simple != nil {
		for name, tmpl := range simple {
			defs = append(defs, ruleDef{name: name, template: tmpl})
		}
	} else {
		if _, ok := cfg.Raw()["rules"].(map[string]any); !ok {
			return nil, fmt.Errorf("%w: rules must map names to expressions", ErrInvalidRuleSet)
		}
		rules := cfg.Sub("rules")
		for _, name := range rules.Keys() {
			def := ruleDef{name: name, template: rules.String(name, "")}
			if def.template == "" {
				entry := rules.Sub(name)
				def.template = entry.String("expr", "")
				def.description = entry.String("description", "")
				def.tags = entry.StringSlice("tags", nil)
			}
			if def.template == "" {
				return nil, &RuleError{Rule: name, Err: ErrInvalidRule}
			}
			defs = append(defs, def)
		}
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].name < defs[j].name })
	return defs, nil
}

// quotedPlaceholder returns the first ${name} that appears inside a quoted
// string of tmpl.
func quotedPlaceholder(tmpl string) (string, bool) {
	var quote byte
	start := 0
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case quote == 0:
			if c == '\'' || c == '"' {
				quote, start = c, i+1
			}
		case c == '\\':
			i++
		case c == quote:
			if names := template.Placeholders(tmpl[start:i]); len(names) > 0 {
				return names[0], true
			}
			quote = 0
		}
	}
	if quote != 0 {
		if names := template.Placeholders(tmpl[start:]); len(names) > 0 {
			return names[0], true
		}
	}
	return "", false
}

// EvaluateRule evaluates one rule. Evaluation errors are wrapped in a
// *RuleError; an unknown name returns ErrRuleNotFound.
func (e *Engine) EvaluateRule(ctx context.Context, rs *RuleSet, name string, vars map[string]any) (expr.Value, error) {
	if rs == nil {
		return expr.Value{}, fmt.Errorf("%w: nil rule set", ErrInvalidRuleSet)
	}
	rule, ok := rs.Rule(name)
	if !ok {
		return expr.Value{}, fmt.Errorf("%w: %s", ErrRuleNotFound, name)
	}
	v, err := e.evaluate(ctx, rule.Expression, vars, newEvalID(), name)
	if err != nil {
		return expr.Value{}, &RuleError{Rule: name, Err: err}
	}
	return v, nil
}

// EvaluateRuleSet evaluates every rule in name order against the same vars.
// A failing rule does not stop the others; its Result carries the error.
// Once ctx is done, remaining rules fail with the context error.
//
// The error is non-nil only when nothing could be evaluated: a nil ctx
// (ErrNilContext) or a nil rs (ErrInvalidRuleSet).
func (e *Engine) EvaluateRuleSet(ctx context.Context, rs *RuleSet, vars map[string]any) ([]Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if rs == nil {
		return nil, fmt.Errorf("%w: nil rule set", ErrInvalidRuleSet)
	}

	results := make([]Result, 0, rs.Len())
	evalID := newEvalID()
	done := observability.TimedOperation()
	ctx, span := e.spans.StartRuleSetSpan(ctx, evalID, rs.Len())

	failed := 0
	for _, name := range rs.names {
		res := Result{Rule: name}
		rule, _ := rs.Rule(name)
		res.Value, res.Err = e.evaluate(ctx, rule.Expression, vars, evalID, name)
		if res.Err != nil {
			res.Err = &RuleError{Rule: name, Err: res.Err}
			failed++
		}
		results = append(results, res)
	}

	var spanErr error
	if failed > 0 {
		spanErr = fmt.Errorf("%d of %d rules failed", failed, rs.Len())
	}
	e.spans.EndSpanWithError(span, spanErr)
	observability.LogRuleSetEvaluated(e.logger, evalID, rs.Len(), failed, done())
	return results, nil
}
