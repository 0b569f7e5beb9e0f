package expr

import (
	"fmt"
	"strconv"
)

// Binding levels, lowest first:
//
//	logical        := not (('and' | 'or' | 'AND' | 'OR') not)*
//	not            := ('not' | 'NOT')? comparison
//	comparison     := additive (('==' | '!=' | '<' | '>' | '<=' | '>=' | 'in') additive)*
//	additive       := multiplicative (('+' | '-') multiplicative)*
//	multiplicative := atom (('*' | '/' | '%') atom)*
//
// With right associativity each level is level := next (op level)? instead.
var (
	logicalOps = map[string]Operator{
		"and": OpAnd, "AND": OpAnd,
		"or": OpOr, "OR": OpOr,
	}
	comparisonOps = map[string]Operator{
		"==": OpEq, "!=": OpNe,
		"<": OpLt, ">": OpGt,
		"<=": OpLe, ">=": OpGe,
		"in": OpIn,
	}
	additiveOps = map[string]Operator{
		"+": OpAdd, "-": OpSub,
	}
	multiplicativeOps = map[string]Operator{
		"*": OpMul, "/": OpDiv, "%": OpMod,
	}
)

type parser struct {
	src   string
	toks  []token
	pos   int
	depth int
	cfg   compileConfig
}

// parse compiles src into a tree. The whole input must be consumed.
func parse(src string, cfg compileConfig) (Node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks, cfg: cfg}

	root, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorAt(tok, "unexpected %s after expression", describe(tok))
	}
	return root, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return tok, p.errorAt(tok, "expected %s, found %s", what, describe(tok))
	}
	return p.advance(), nil
}

// enter guards recursion depth for nested sub-expressions.
func (p *parser) enter() error {
	p.depth++
	if p.depth > p.cfg.maxDepth {
		return p.errorAt(p.peek(), "expression nested deeper than %d levels", p.cfg.maxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// binary parses one precedence level. ops maps token text to the level's
// operators.
func (p *parser) binary(next func() (Node, error), ops map[string]Operator) (Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchOperator(ops)
		if !ok {
			return left, nil
		}
		p.advance()

		if p.cfg.rightAssociative {
			if err := p.enter(); err != nil {
				return nil, err
			}
			right, err := p.binary(next, ops)
			p.leave()
			if err != nil {
				return nil, err
			}
			return &Binary{Op: op, Left: left, Right: right}, nil
		}

		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) matchOperator(ops map[string]Operator) (Operator, bool) {
	tok := p.peek()
	if tok.kind != tokOperator && tok.kind != tokKeyword {
		return "", false
	}
	op, ok := ops[tok.text]
	return op, ok
}

func (p *parser) parseLogical() (Node, error) {
	return p.binary(p.parseNot, logicalOps)
}

func (p *parser) parseNot() (Node, error) {
	tok := p.peek()
	if tok.kind == tokKeyword && (tok.text == "not" || tok.text == "NOT") {
		p.advance()
		operand, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		return &Not{Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Node, error) {
	return p.binary(p.parseAdditive, comparisonOps)
}

func (p *parser) parseAdditive() (Node, error) {
	return p.binary(p.parseMultiplicative, additiveOps)
}

func (p *parser) parseMultiplicative() (Node, error) {
	return p.binary(p.parseAtom, multiplicativeOps)
}

// parseAtom parses an operand: a modified string or variable, a constant,
// a variable, an array literal or a parenthesized expression.
func (p *parser) parseAtom() (Node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokString, tokPath:
		p.advance()
		var operand Node
		if tok.kind == tokString {
			operand = &Constant{Value: String(tok.val)}
		} else {
			operand = &Variable{Path: tok.path}
		}
		if p.peek().kind == tokPipe {
			return p.parseModifier(operand)
		}
		return operand, nil

	case tokNumber, tokKeyword, tokOperator:
		if tok.kind == tokKeyword && tok.text != "True" && tok.text != "False" {
			break
		}
		if tok.kind == tokOperator && tok.text != "+" && tok.text != "-" {
			break
		}
		v, err := p.parseConstant()
		if err != nil {
			return nil, err
		}
		return &Constant{Value: v}, nil

	case tokLBracket:
		return p.parseArray()

	case tokLParen:
		p.advance()
		if err := p.enter(); err != nil {
			return nil, err
		}
		inner, err := p.parseLogical()
		p.leave()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, p.errorAt(tok, "expected operand, found %s", describe(tok))
}

// parseConstant parses a signed number, True, False or a string.
func (p *parser) parseConstant() (Value, error) {
	tok := p.advance()
	switch tok.kind {
	case tokString:
		return String(tok.val), nil
	case tokKeyword:
		switch tok.text {
		case "True":
			return Bool(true), nil
		case "False":
			return Bool(false), nil
		}
	case tokNumber:
		return p.number(tok, "")
	case tokOperator:
		if tok.text == "+" || tok.text == "-" {
			num, err := p.expect(tokNumber, "number after sign")
			if err != nil {
				return Value{}, err
			}
			return p.number(num, tok.text)
		}
	}
	return Value{}, p.errorAt(tok, "expected constant, found %s", describe(tok))
}

func (p *parser) number(tok token, sign string) (Value, error) {
	text := sign + tok.text
	if isFloatLiteral(tok.text) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, p.errorAt(tok, "invalid number %s", text)
		}
		return Float(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, p.errorAt(tok, "integer %s out of range", text)
	}
	return Int(i), nil
}

func isFloatLiteral(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

// parseArray parses '[' constant (',' constant)* ','? ']' or '[' ']'.
func (p *parser) parseArray() (Node, error) {
	p.advance()
	elems := []Node{}
	for p.peek().kind != tokRBracket {
		v, err := p.parseConstant()
		if err != nil {
			return nil, err
		}
		elems = append(elems, &Constant{Value: v})

		if p.peek().kind != tokComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tokRBracket, "',' or ']'"); err != nil {
		return nil, err
	}
	return &Array{Elements: elems}, nil
}

// parseModifier parses '|' followed by upper, lower, split(...) or strip(...).
func (p *parser) parseModifier(operand Node) (Node, error) {
	p.advance()
	name, err := p.expect(tokPath, "modifier name")
	if err != nil {
		return nil, err
	}

	m := &Modifier{Operand: operand}
	switch name.text {
	case "upper":
		m.Kind = ModUpper
		return m, nil
	case "lower":
		m.Kind = ModLower
		return m, nil
	case "split":
		m.Kind = ModSplit
	case "strip":
		m.Kind = ModStrip
	default:
		return nil, p.errorAt(name, "unknown modifier %q", name.text)
	}

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	if arg := p.peek(); arg.kind == tokString {
		p.advance()
		if m.Kind == ModSplit && arg.val == "" {
			return nil, p.errorAt(arg, "split delimiter must not be empty")
		}
		m.Arg, m.HasArg = arg.val, true
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *parser) errorAt(tok token, format string, args ...any) error {
	return newParseError(p.src, tok.pos, format, args...)
}

func describe(tok token) string {
	if tok.kind == tokEOF {
		return "end of input"
	}
	return strconv.Quote(tok.text)
}

const nearLen = 20

func newParseError(src string, pos int, format string, args ...any) *ParseError {
	near := ""
	if pos < len(src) {
		near = src[pos:]
		if len(near) > nearLen {
			near = near[:nearLen]
		}
	}
	return &ParseError{Pos: pos, Near: near, Msg: fmt.Sprintf(format, args...)}
}
