package sparql

import "github.com/kgforge-labs/kgforge/pkg/kg"

// Query is a parsed SPARQL query: a SelectQuery or an AskQuery.
type Query interface {
	queryNode()
	Prologue() Prologue
}

// Prologue holds the BASE and PREFIX declarations of a query.
type Prologue struct {
	Base     string
	Prefixes map[string]string
	order    []string
}

// Namespaces returns the prologue's prefix declarations as a namespace
// map, in declaration order. Callers merge it into a document's map so
// query prefixes participate in CURIE rendering.
func (p Prologue) Namespaces() *kg.Namespaces {
	ns := kg.NewNamespaces()
	for _, prefix := range p.order {
		ns.Bind(prefix, p.Prefixes[prefix])
	}
	return ns
}

func (p *Prologue) bind(prefix, base string) {
	if p.Prefixes == nil {
		p.Prefixes = make(map[string]string)
	}
	if _, ok := p.Prefixes[prefix]; !ok {
		p.order = append(p.order, prefix)
	}
	p.Prefixes[prefix] = base
}

// SelectQuery is a SELECT query form.
type SelectQuery struct {
	Prolog   Prologue
	Distinct bool
	Star     bool
	Vars     []string // projection order, names without the '?' sigil
	Where    GroupGraphPattern
	OrderBy  []OrderCondition
	Limit    int // -1 when absent
	Offset   int
}

func (*SelectQuery) queryNode()          {}
func (q *SelectQuery) Prologue() Prologue { return q.Prolog }

// AskQuery is an ASK query form.
type AskQuery struct {
	Prolog Prologue
	Where  GroupGraphPattern
}

func (*AskQuery) queryNode()          {}
func (q *AskQuery) Prologue() Prologue { return q.Prolog }

// GroupGraphPattern is a simplified group: a basic graph pattern plus
// OPTIONAL sub-groups and FILTER constraints. Filters apply to the
// whole group after optionals, which covers the SELECT subset this
// engine evaluates.
type GroupGraphPattern struct {
	Patterns  []TriplePattern
	Optionals []GroupGraphPattern
	Filters   []Expr
}

// OrderCondition is one ORDER BY criterion.
type OrderCondition struct {
	Var  string
	Desc bool
}

// TriplePattern is one subject-predicate-object pattern.
type TriplePattern struct {
	S, P, O Term
}

// Term is a pattern term: a variable, IRI, literal, or blank node.
type Term interface {
	termNode()
}

// Var is a query variable.
type Var struct {
	Name string
}

func (Var) termNode() {}

// IRITerm is an IRI with prefixes expanded and base resolved.
type IRITerm struct {
	Value string
}

func (IRITerm) termNode() {}

// LiteralTerm is an RDF literal with optional language tag or datatype.
type LiteralTerm struct {
	Value    string
	Lang     string
	DataType string
}

func (LiteralTerm) termNode() {}

// BlankTerm is a blank node label; in a pattern it behaves as a
// variable that is never projected.
type BlankTerm struct {
	ID string
}

func (BlankTerm) termNode() {}

// Expr is a FILTER expression node.
type Expr interface {
	exprNode()
}

// BinaryExpr is a logical or comparison expression.
type BinaryExpr struct {
	Op          TokenType // TOKEN_AND, TOKEN_OR, TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is a logical negation. Numeric negation is folded into the
// literal by the parser.
type UnaryExpr struct {
	Op TokenType // TOKEN_BANG
	X  Expr
}

func (*UnaryExpr) exprNode() {}

// FuncCall is a builtin call such as BOUND, REGEX or STR. Name is
// lowercased by the parser.
type FuncCall struct {
	Name string
	Args []Expr
	Pos  Position
}

func (*FuncCall) exprNode() {}

// TermExpr wraps a pattern term appearing in an expression.
type TermExpr struct {
	Term Term
}

func (*TermExpr) exprNode() {}
