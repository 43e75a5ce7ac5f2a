package sparql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/knakk/rdf"

	"github.com/kgforge-labs/kgforge/pkg/kg"
)

// errExprType marks recoverable expression errors: type mismatches and
// unbound variables. Per SPARQL semantics they make the enclosing
// FILTER reject the solution instead of aborting the query.
var errExprType = errors.New("expression type error")

// filterPasses evaluates a FILTER constraint to its effective boolean
// value. Recoverable errors reject the solution; anything else aborts.
func (e *evaluator) filterPasses(x Expr, sol Solution) (bool, error) {
	v, err := e.evalExpr(x, sol)
	if err != nil {
		if errors.Is(err, errExprType) {
			return false, nil
		}
		return false, err
	}
	b, err := ebv(v)
	if err != nil {
		return false, nil
	}
	return b, nil
}

// evalExpr evaluates an expression to a bool or an rdf.Term.
func (e *evaluator) evalExpr(x Expr, sol Solution) (any, error) {
	switch expr := x.(type) {
	case *TermExpr:
		return e.evalTerm(expr.Term, sol)
	case *UnaryExpr:
		v, err := e.evalExpr(expr.X, sol)
		if err != nil {
			return nil, err
		}
		b, err := ebv(v)
		if err != nil {
			return nil, err
		}
		return !b, nil
	case *BinaryExpr:
		return e.evalBinary(expr, sol)
	case *FuncCall:
		return e.evalFunc(expr, sol)
	default:
		return nil, &EvalError{Message: fmt.Sprintf("unsupported expression %T", x)}
	}
}

func (e *evaluator) evalTerm(term Term, sol Solution) (any, error) {
	switch t := term.(type) {
	case Var:
		bound, ok := sol[t.Name]
		if !ok {
			return nil, fmt.Errorf("unbound variable ?%s: %w", t.Name, errExprType)
		}
		return bound, nil
	case IRITerm:
		iri, err := rdf.NewIRI(t.Value)
		if err != nil {
			return nil, &EvalError{Message: fmt.Sprintf("invalid IRI <%s>", t.Value), Err: err}
		}
		return iri, nil
	case LiteralTerm:
		lit, err := makeLiteral(t)
		if err != nil {
			return nil, err
		}
		return lit, nil
	default:
		return nil, &EvalError{Message: fmt.Sprintf("unsupported expression term %T", term)}
	}
}

func (e *evaluator) evalBinary(expr *BinaryExpr, sol Solution) (any, error) {
	switch expr.Op {
	case TOKEN_AND, TOKEN_OR:
		return e.evalLogical(expr, sol)
	}

	lv, err := e.evalExpr(expr.Left, sol)
	if err != nil {
		return nil, err
	}
	rv, err := e.evalExpr(expr.Right, sol)
	if err != nil {
		return nil, err
	}
	cmp, err := compareValues(lv, rv)
	if err != nil {
		return nil, err
	}
	switch expr.Op {
	case TOKEN_EQ:
		return cmp == 0, nil
	case TOKEN_NE:
		return cmp != 0, nil
	case TOKEN_LT:
		return cmp < 0, nil
	case TOKEN_LE:
		return cmp <= 0, nil
	case TOKEN_GT:
		return cmp > 0, nil
	case TOKEN_GE:
		return cmp >= 0, nil
	default:
		return nil, &EvalError{Message: "unsupported operator " + expr.Op.String()}
	}
}

// evalLogical implements || and && with SPARQL's error tolerance: a
// side that errors recoverably can still be outvoted by the other.
func (e *evaluator) evalLogical(expr *BinaryExpr, sol Solution) (any, error) {
	lb, lerr := e.boolOperand(expr.Left, sol)
	rb, rerr := e.boolOperand(expr.Right, sol)

	if lerr != nil && !errors.Is(lerr, errExprType) {
		return nil, lerr
	}
	if rerr != nil && !errors.Is(rerr, errExprType) {
		return nil, rerr
	}

	if expr.Op == TOKEN_OR {
		if lerr == nil && lb || rerr == nil && rb {
			return true, nil
		}
		if lerr != nil || rerr != nil {
			return nil, errExprType
		}
		return false, nil
	}

	// TOKEN_AND
	if lerr == nil && !lb || rerr == nil && !rb {
		return false, nil
	}
	if lerr != nil || rerr != nil {
		return nil, errExprType
	}
	return true, nil
}

func (e *evaluator) boolOperand(x Expr, sol Solution) (bool, error) {
	v, err := e.evalExpr(x, sol)
	if err != nil {
		return false, err
	}
	return ebv(v)
}

func (e *evaluator) evalFunc(call *FuncCall, sol Solution) (any, error) {
	switch call.Name {
	case "bound":
		v, ok := call.Args[0].(*TermExpr)
		if !ok {
			return nil, &EvalError{Message: "BOUND requires a variable argument"}
		}
		vr, ok := v.Term.(Var)
		if !ok {
			return nil, &EvalError{Message: "BOUND requires a variable argument"}
		}
		_, bound := sol[vr.Name]
		return bound, nil

	case "str":
		t, err := e.termArg(call.Args[0], sol)
		if err != nil {
			return nil, err
		}
		return plainLiteral(stringValue(t))

	case "lang":
		lit, err := e.literalArg(call.Args[0], sol)
		if err != nil {
			return nil, err
		}
		return plainLiteral(lit.Lang())

	case "datatype":
		lit, err := e.literalArg(call.Args[0], sol)
		if err != nil {
			return nil, err
		}
		return lit.DataType, nil

	case "regex":
		return e.evalRegex(call, sol)

	case "contains", "strstarts", "strends":
		s1, err := e.stringArg(call.Args[0], sol)
		if err != nil {
			return nil, err
		}
		s2, err := e.stringArg(call.Args[1], sol)
		if err != nil {
			return nil, err
		}
		switch call.Name {
		case "contains":
			return strings.Contains(s1, s2), nil
		case "strstarts":
			return strings.HasPrefix(s1, s2), nil
		default:
			return strings.HasSuffix(s1, s2), nil
		}

	case "isiri", "isuri":
		t, err := e.termArg(call.Args[0], sol)
		if err != nil {
			return nil, err
		}
		return t.Type() == rdf.TermIRI, nil

	case "isliteral":
		t, err := e.termArg(call.Args[0], sol)
		if err != nil {
			return nil, err
		}
		return t.Type() == rdf.TermLiteral, nil

	case "isblank":
		t, err := e.termArg(call.Args[0], sol)
		if err != nil {
			return nil, err
		}
		return t.Type() == rdf.TermBlank, nil

	default:
		// Unreachable: the parser validates builtin names.
		return nil, &EvalError{Message: "unknown builtin " + call.Name}
	}
}

func (e *evaluator) evalRegex(call *FuncCall, sol Solution) (any, error) {
	text, err := e.stringArg(call.Args[0], sol)
	if err != nil {
		return nil, err
	}
	pattern, err := e.stringArg(call.Args[1], sol)
	if err != nil {
		return nil, err
	}
	if len(call.Args) == 3 {
		flags, err := e.stringArg(call.Args[2], sol)
		if err != nil {
			return nil, err
		}
		if strings.Contains(flags, "i") {
			pattern = "(?i)" + pattern
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &EvalError{Message: fmt.Sprintf("invalid REGEX pattern %q", pattern), Err: err}
	}
	return re.MatchString(text), nil
}

func (e *evaluator) termArg(x Expr, sol Solution) (rdf.Term, error) {
	v, err := e.evalExpr(x, sol)
	if err != nil {
		return nil, err
	}
	t, ok := v.(rdf.Term)
	if !ok {
		return nil, fmt.Errorf("expected a term: %w", errExprType)
	}
	return t, nil
}

func (e *evaluator) literalArg(x Expr, sol Solution) (rdf.Literal, error) {
	t, err := e.termArg(x, sol)
	if err != nil {
		return rdf.Literal{}, err
	}
	lit, ok := t.(rdf.Literal)
	if !ok {
		return rdf.Literal{}, fmt.Errorf("expected a literal: %w", errExprType)
	}
	return lit, nil
}

func (e *evaluator) stringArg(x Expr, sol Solution) (string, error) {
	t, err := e.termArg(x, sol)
	if err != nil {
		return "", err
	}
	if t.Type() == rdf.TermBlank {
		return "", fmt.Errorf("expected a string value: %w", errExprType)
	}
	return stringValue(t), nil
}

func plainLiteral(s string) (any, error) {
	lit, err := rdf.NewLiteral(s)
	if err != nil {
		return nil, &EvalError{Message: "invalid literal", Err: err}
	}
	return lit, nil
}

// stringValue is the STR() mapping: the lexical form of a literal or
// the string of an IRI.
func stringValue(t rdf.Term) string {
	if t.Type() == rdf.TermBlank {
		return t.Serialize(rdf.NTriples)
	}
	return t.String()
}

// ebv computes the effective boolean value.
func ebv(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case rdf.Literal:
		if val.DataType.String() == XSDBoolean {
			return val.String() == "true" || val.String() == "1", nil
		}
		if n, ok := numericValue(val); ok {
			return n != 0, nil
		}
		return val.String() != "", nil
	default:
		return false, fmt.Errorf("no boolean value: %w", errExprType)
	}
}

// compareValues compares two expression values. Numeric literals
// compare by value; other terms compare by their canonical form, which
// makes '=' term equality.
func compareValues(a, b any) (int, error) {
	ab, aok := a.(bool)
	bb, bok := b.(bool)
	if aok && bok {
		switch {
		case ab == bb:
			return 0, nil
		case !ab:
			return -1, nil
		default:
			return 1, nil
		}
	}

	at, aok := a.(rdf.Term)
	bt, bok := b.(rdf.Term)
	if !aok || !bok {
		return 0, fmt.Errorf("incomparable values: %w", errExprType)
	}

	na, anum := numericValue(at)
	nb, bnum := numericValue(bt)
	if anum && bnum {
		switch {
		case na < nb:
			return -1, nil
		case na > nb:
			return 1, nil
		default:
			return 0, nil
		}
	}

	if kg.TermKey(at) == kg.TermKey(bt) {
		return 0, nil
	}
	cmp := strings.Compare(at.String(), bt.String())
	if cmp == 0 {
		// Same lexical form but different terms (e.g. language tags).
		cmp = strings.Compare(kg.TermKey(at), kg.TermKey(bt))
	}
	return cmp, nil
}
