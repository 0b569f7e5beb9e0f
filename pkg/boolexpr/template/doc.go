/*
Package template expands ${name} placeholders in expression sources.

Rule sets keep parameters apart from the rules that use them:

	params:
	  min_score: 80
	  regions: [eu, us]
	rules:
	  approved: "score >= ${min_score} and region in ${regions}"

The rule-set loader expands each rule with an Expander that renders values
through Literal, so the rule above compiles as

	score >= 80 and region in ["eu", "us"]

Literal quotes strings, so a parameter value can never inject operators
into the expression.

# Missing Parameters

By default, missing parameters are kept as-is. Configure with
WithMissingAction:

	exp := template.NewExpander(template.WithMissingAction(template.MissingError))
	_, err := exp.Expand("a == ${b}", nil)
	// err: undefined parameter: b

# Thread Safety

Expander is immutable after construction and safe for concurrent use.
*/
package template
