package expr

import (
	"strconv"
	"strings"
)

// Node is an expression tree node. The set of node types is closed:
// Constant, Variable, Array, Not, Binary and Modifier.
//
// Nodes are immutable once built and own their children exclusively.
type Node interface {
	// String renders the node fully parenthesized, for diagnostics.
	String() string
	node()
}

// Operator is a binary operator symbol.
type Operator string

// Built-in operators. Keyword operators are normalized to lower case.
const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpMod Operator = "%"
	OpEq  Operator = "=="
	OpNe  Operator = "!="
	OpLt  Operator = "<"
	OpGt  Operator = ">"
	OpLe  Operator = "<="
	OpGe  Operator = ">="
	OpIn  Operator = "in"
	OpAnd Operator = "and"
	OpOr  Operator = "or"
)

// ModifierKind selects the string transformation applied by a Modifier.
type ModifierKind int

const (
	ModUpper ModifierKind = iota
	ModLower
	ModSplit
	ModStrip
)

// String returns the modifier name as written after '|'.
func (k ModifierKind) String() string {
	switch k {
	case ModUpper:
		return "upper"
	case ModLower:
		return "lower"
	case ModSplit:
		return "split"
	case ModStrip:
		return "strip"
	default:
		return "unknown"
	}
}

// Constant is a literal value.
type Constant struct {
	Value Value
}

// Segment is one step of a variable path: a name lookup or an index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// Variable is a reference into the evaluation context, resolved segment by
// segment. The first segment is always a name.
type Variable struct {
	Path []Segment
}

// Array is an array literal.
type Array struct {
	Elements []Node
}

// Not negates the truthiness of its operand.
type Not struct {
	Operand Node
}

// Binary applies Op to Left and Right. Both sides are always evaluated.
type Binary struct {
	Op    Operator
	Left  Node
	Right Node
}

// Modifier applies a string transformation to its operand.
// Arg is only meaningful for ModSplit and ModStrip when HasArg is set.
type Modifier struct {
	Kind    ModifierKind
	Arg     string
	HasArg  bool
	Operand Node
}

func (*Constant) node() {}
func (*Variable) node() {}
func (*Array) node()    {}
func (*Not) node()      {}
func (*Binary) node()   {}
func (*Modifier) node() {}

func (c *Constant) String() string { return c.Value.String() }

func (v *Variable) String() string {
	var sb strings.Builder
	for i, seg := range v.Path {
		switch {
		case seg.IsIndex:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.Index))
			sb.WriteByte(']')
		case i > 0:
			sb.WriteByte('.')
			sb.WriteString(seg.Name)
		default:
			sb.WriteString(seg.Name)
		}
	}
	return sb.String()
}

func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (n *Not) String() string { return "(not " + n.Operand.String() + ")" }

func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + string(b.Op) + " " + b.Right.String() + ")"
}

func (m *Modifier) String() string {
	s := m.Operand.String() + "|" + m.Kind.String()
	if m.Kind == ModSplit || m.Kind == ModStrip {
		if m.HasArg {
			s += "(" + strconv.Quote(m.Arg) + ")"
		} else {
			s += "()"
		}
	}
	return s
}
