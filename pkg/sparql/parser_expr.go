package sparql

import "strings"

// builtins recognized in FILTER expressions, by lowercased name.
var builtins = map[string]struct {
	minArgs int
	maxArgs int
}{
	"bound":     {1, 1},
	"str":       {1, 1},
	"lang":      {1, 1},
	"datatype":  {1, 1},
	"regex":     {2, 3},
	"contains":  {2, 2},
	"strstarts": {2, 2},
	"strends":   {2, 2},
	"isiri":     {1, 1},
	"isuri":     {1, 1},
	"isliteral": {1, 1},
	"isblank":   {1, 1},
}

// parseConstraint parses a FILTER constraint: a parenthesized
// expression or a bare builtin call.
func (p *Parser) parseConstraint() (Expr, error) {
	if p.check(TOKEN_LPAREN) {
		p.nextToken()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}
	if p.check(TOKEN_IDENT) {
		return p.parseFuncCall()
	}
	return nil, p.errorf("expected '(' or builtin call after FILTER, got %s", p.token)
}

// parseExpr parses an expression with || precedence.
func (p *Parser) parseExpr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(TOKEN_OR) {
		p.nextToken()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: TOKEN_OR, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.check(TOKEN_AND) {
		p.nextToken()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: TOKEN_AND, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseRelational() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	switch p.token.Type {
	case TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE:
		op := p.token.Type
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op, Left: left, Right: right}, nil
	default:
		return left, nil
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.check(TOKEN_BANG) {
		p.nextToken()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: TOKEN_BANG, X: x}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch p.token.Type {
	case TOKEN_LPAREN:
		p.nextToken()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case TOKEN_IDENT:
		if strings.EqualFold(p.token.Literal, "true") || strings.EqualFold(p.token.Literal, "false") {
			term, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			return &TermExpr{Term: term}, nil
		}
		return p.parseFuncCall()
	case TOKEN_VAR, TOKEN_IRIREF, TOKEN_PNAME, TOKEN_STRING, TOKEN_INTEGER, TOKEN_DECIMAL, TOKEN_DOUBLE:
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return &TermExpr{Term: term}, nil
	default:
		return nil, p.errorf("unexpected token %s in expression", p.token)
	}
}

func (p *Parser) parseFuncCall() (Expr, error) {
	name := strings.ToLower(p.token.Literal)
	pos := p.token.Pos
	sig, ok := builtins[name]
	if !ok {
		return nil, &ParseError{Pos: pos, Message: "unknown function " + p.token.Literal}
	}
	p.nextToken()

	if err := p.expect(TOKEN_LPAREN); err != nil {
		return nil, err
	}
	var args []Expr
	if !p.check(TOKEN_RPAREN) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}
	if err := p.expect(TOKEN_RPAREN); err != nil {
		return nil, err
	}
	if len(args) < sig.minArgs || len(args) > sig.maxArgs {
		return nil, &ParseError{Pos: pos, Message: "wrong number of arguments to " + name}
	}
	return &FuncCall{Name: name, Args: args, Pos: pos}, nil
}
