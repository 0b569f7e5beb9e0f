/*
Package boolexpr evaluates boolean and arithmetic condition expressions
against runtime data.

# Overview

The expression language lives in package expr. This package wraps it in an
Engine that adds structured logging, OpenTelemetry metrics and tracing, a
compiled-expression cache, and named rule sets loaded from YAML or JSON.

	engine := boolexpr.New(boolexpr.WithCache(256))

	ok, err := engine.EvaluateBool(ctx, "user.age >= 18 and user.country in ['de', 'fr']",
	    map[string]any{"user": map[string]any{"age": 30, "country": "de"}})

# Rule Sets

A rule set is a document of named expressions with shared parameters:

	params:
	  min_score: 80
	  regions: [eu, us]
	rules:
	  approved: "score >= ${min_score} and region in ${regions}"
	  vip:
	    expr: "'vip' in tags"
	    description: Customers tagged VIP

	rs, err := engine.LoadRuleSetFile(ctx, "rules.yaml")
	results, err := engine.EvaluateRuleSet(ctx, rs, vars)
	for _, res := range results {
	    fmt.Println(res.Rule, res.Value, res.Err)
	}

Parameters are substituted as expression literals before compilation, so
the rules above compile once and evaluate many times. A string parameter
is rendered with its own quotes and must not be placed inside a quoted
string in the rule text.

# Observability

	engine := boolexpr.New(
	    boolexpr.WithLogger(logger),  // slog; compile/eval at DEBUG, rule sets at INFO
	    boolexpr.WithMetrics(true),   // OTel counters and latency histograms
	    boolexpr.WithTracing(true),   // boolexpr.compile / evaluate / ruleset spans
	)

Every evaluation carries an ID of the form eval-xxxxxxxx in its log
records and span attributes. Rules evaluated by EvaluateRuleSet share the
rule set's ID.

# Errors

Errors from package expr pass through unchanged, so errors.Is works with
expr.ErrSyntax, expr.ErrLookup, expr.ErrType and expr.ErrArithmetic. Rule
errors are wrapped in *RuleError, which names the rule.
*/
package boolexpr
