// Package sparql provides a SPARQL SELECT/ASK subset: a hand-written
// lexer and recursive descent parser, and an in-memory evaluator over
// a kg.Graph.
//
// # Grammar Overview
//
//	query          → prologue (select_query | ask_query)
//	prologue       → (PREFIX PNAME IRIREF | BASE IRIREF)*
//	select_query   → SELECT [DISTINCT] (var+ | *) [WHERE] group
//	                 [ORDER BY order_cond+] [LIMIT n] [OFFSET n]
//	ask_query      → ASK [WHERE] group
//	group          → '{' (triples | FILTER constraint | OPTIONAL group)* '}'
//	triples        → term pred_obj_list ('.' | &'}')
//	pred_obj_list  → verb obj (',' obj)* (';' pred_obj_list)?
//
// Expressions support || && comparison operators, logical negation and
// the builtins BOUND, STR, LANG, DATATYPE, REGEX, CONTAINS, STRSTARTS,
// STRENDS, ISIRI, ISURI, ISLITERAL and ISBLANK.
package sparql

import (
	"fmt"
	"strings"
)

const rdfTypeIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// XSD datatype IRIs assigned to numeric and boolean literals.
const (
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDDouble  = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
)

// Parser parses SPARQL into a Query.
type Parser struct {
	lexer    *Lexer
	token    Token // current token
	peek     Token // lookahead token
	prologue Prologue
}

// Parse parses a SPARQL SELECT or ASK query.
func Parse(input string) (Query, error) {
	p := &Parser{lexer: NewLexer(input)}
	// Read two tokens to initialize current and peek.
	p.nextToken()
	p.nextToken()
	return p.parseQuery()
}

func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

func (p *Parser) match(t TokenType) bool {
	if p.token.Type == t {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) expect(t TokenType) error {
	if p.token.Type != t {
		return p.errorf(errUnexpectedToken, p.token, t)
	}
	p.nextToken()
	return nil
}

// keyword reports whether the current token is the given bare keyword,
// case-insensitively.
func (p *Parser) keyword(kw string) bool {
	return p.token.Type == TOKEN_IDENT && strings.EqualFold(p.token.Literal, kw)
}

func (p *Parser) matchKeyword(kw string) bool {
	if p.keyword(kw) {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.token.Pos, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) parseQuery() (Query, error) {
	if err := p.parsePrologue(); err != nil {
		return nil, err
	}

	switch {
	case p.keyword("SELECT"):
		return p.parseSelect()
	case p.keyword("ASK"):
		return p.parseAsk()
	default:
		return nil, p.errorf("expected SELECT or ASK, got %s", p.token)
	}
}

func (p *Parser) parsePrologue() error {
	for {
		switch {
		case p.keyword("PREFIX"):
			p.nextToken()
			if !p.check(TOKEN_PNAME) {
				return p.errorf("expected prefixed name after PREFIX, got %s", p.token)
			}
			pname := p.token.Literal
			if !strings.HasSuffix(pname, ":") {
				return p.errorf("PREFIX declaration must end with ':', got %q", pname)
			}
			p.nextToken()
			if !p.check(TOKEN_IRIREF) {
				return p.errorf("expected IRI after PREFIX %s, got %s", pname, p.token)
			}
			p.prologue.bind(strings.TrimSuffix(pname, ":"), p.resolveIRI(p.token.Literal))
			p.nextToken()
		case p.keyword("BASE"):
			p.nextToken()
			if !p.check(TOKEN_IRIREF) {
				return p.errorf("expected IRI after BASE, got %s", p.token)
			}
			p.prologue.Base = p.token.Literal
			p.nextToken()
		default:
			return nil
		}
	}
}

// resolveIRI resolves a relative IRI reference against the query base.
func (p *Parser) resolveIRI(iri string) string {
	if p.prologue.Base == "" || hasScheme(iri) {
		return iri
	}
	return p.prologue.Base + iri
}

func hasScheme(iri string) bool {
	for i := 0; i < len(iri); i++ {
		c := iri[i]
		if c == ':' {
			return i > 0
		}
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return false
		}
	}
	return false
}

func (p *Parser) parseSelect() (*SelectQuery, error) {
	p.nextToken() // consume SELECT

	q := &SelectQuery{Prolog: p.prologue, Limit: -1}

	if p.matchKeyword("DISTINCT") {
		q.Distinct = true
	} else if p.matchKeyword("REDUCED") {
		// Treated as DISTINCT: the engine may, and here does, eliminate
		// duplicates.
		q.Distinct = true
	}

	switch {
	case p.check(TOKEN_STAR):
		q.Star = true
		p.nextToken()
	case p.check(TOKEN_VAR):
		for p.check(TOKEN_VAR) {
			q.Vars = append(q.Vars, p.token.Literal)
			p.nextToken()
		}
	default:
		return nil, p.errorf("expected projection variables or '*', got %s", p.token)
	}

	p.matchKeyword("WHERE")
	where, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	q.Where = where

	if err := p.parseSolutionModifiers(q); err != nil {
		return nil, err
	}
	if !p.check(TOKEN_EOF) {
		return nil, p.errorf("unexpected trailing input: %s", p.token)
	}
	return q, nil
}

func (p *Parser) parseAsk() (*AskQuery, error) {
	p.nextToken() // consume ASK
	p.matchKeyword("WHERE")

	where, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	if !p.check(TOKEN_EOF) {
		return nil, p.errorf("unexpected trailing input: %s", p.token)
	}
	return &AskQuery{Prolog: p.prologue, Where: where}, nil
}

func (p *Parser) parseSolutionModifiers(q *SelectQuery) error {
	if p.matchKeyword("ORDER") {
		if !p.matchKeyword("BY") {
			return p.errorf("expected BY after ORDER")
		}
		for {
			cond, ok, err := p.parseOrderCondition()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			q.OrderBy = append(q.OrderBy, cond)
		}
		if len(q.OrderBy) == 0 {
			return p.errorf("expected order condition after ORDER BY")
		}
	}

	// LIMIT and OFFSET may appear in either order.
	for {
		switch {
		case p.matchKeyword("LIMIT"):
			n, err := p.parseNonNegativeInt("LIMIT")
			if err != nil {
				return err
			}
			q.Limit = n
		case p.matchKeyword("OFFSET"):
			n, err := p.parseNonNegativeInt("OFFSET")
			if err != nil {
				return err
			}
			q.Offset = n
		default:
			return nil
		}
	}
}

func (p *Parser) parseOrderCondition() (OrderCondition, bool, error) {
	switch {
	case p.check(TOKEN_VAR):
		cond := OrderCondition{Var: p.token.Literal}
		p.nextToken()
		return cond, true, nil
	case p.keyword("ASC"), p.keyword("DESC"):
		desc := strings.EqualFold(p.token.Literal, "DESC")
		p.nextToken()
		if err := p.expect(TOKEN_LPAREN); err != nil {
			return OrderCondition{}, false, err
		}
		if !p.check(TOKEN_VAR) {
			return OrderCondition{}, false, p.errorf("expected variable in order condition, got %s", p.token)
		}
		cond := OrderCondition{Var: p.token.Literal, Desc: desc}
		p.nextToken()
		if err := p.expect(TOKEN_RPAREN); err != nil {
			return OrderCondition{}, false, err
		}
		return cond, true, nil
	default:
		return OrderCondition{}, false, nil
	}
}

func (p *Parser) parseNonNegativeInt(clause string) (int, error) {
	if !p.check(TOKEN_INTEGER) {
		return 0, p.errorf("expected integer after %s, got %s", clause, p.token)
	}
	var n int
	if _, err := fmt.Sscanf(p.token.Literal, "%d", &n); err != nil || n < 0 {
		return 0, p.errorf("invalid %s value %q", clause, p.token.Literal)
	}
	p.nextToken()
	return n, nil
}

func (p *Parser) parseGroup() (GroupGraphPattern, error) {
	var group GroupGraphPattern
	if err := p.expect(TOKEN_LBRACE); err != nil {
		return group, err
	}

	for !p.check(TOKEN_RBRACE) {
		switch {
		case p.check(TOKEN_EOF):
			return group, p.errorf("unexpected end of query, expected '}'")
		case p.keyword("FILTER"):
			p.nextToken()
			expr, err := p.parseConstraint()
			if err != nil {
				return group, err
			}
			group.Filters = append(group.Filters, expr)
		case p.keyword("OPTIONAL"):
			p.nextToken()
			sub, err := p.parseGroup()
			if err != nil {
				return group, err
			}
			group.Optionals = append(group.Optionals, sub)
		default:
			if err := p.parseTriples(&group); err != nil {
				return group, err
			}
		}
		p.match(TOKEN_DOT)
	}
	p.nextToken() // consume '}'
	return group, nil
}

// parseTriples parses one subject with its predicate-object list.
func (p *Parser) parseTriples(group *GroupGraphPattern) error {
	subj, err := p.parseTerm()
	if err != nil {
		return err
	}
	for {
		pred, err := p.parseVerb()
		if err != nil {
			return err
		}
		for {
			obj, err := p.parseTerm()
			if err != nil {
				return err
			}
			group.Patterns = append(group.Patterns, TriplePattern{S: subj, P: pred, O: obj})
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
		if !p.match(TOKEN_SEMICOLON) {
			return nil
		}
		// A dangling ';' before '.' or '}' is permitted.
		if p.check(TOKEN_DOT) || p.check(TOKEN_RBRACE) {
			return nil
		}
	}
}

// parseVerb parses a predicate: a variable, IRI, or the 'a' keyword.
func (p *Parser) parseVerb() (Term, error) {
	if p.keyword("a") {
		p.nextToken()
		return IRITerm{Value: rdfTypeIRI}, nil
	}
	term, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	switch term.(type) {
	case Var, IRITerm:
		return term, nil
	default:
		return nil, p.errorf("predicate must be a variable or IRI")
	}
}

// parseTerm parses a graph term.
func (p *Parser) parseTerm() (Term, error) {
	tok := p.token
	switch tok.Type {
	case TOKEN_VAR:
		p.nextToken()
		return Var{Name: tok.Literal}, nil
	case TOKEN_IRIREF:
		p.nextToken()
		return IRITerm{Value: p.resolveIRI(tok.Literal)}, nil
	case TOKEN_PNAME:
		p.nextToken()
		return p.expandPName(tok)
	case TOKEN_STRING:
		p.nextToken()
		return p.parseLiteralSuffix(tok.Literal)
	case TOKEN_INTEGER:
		p.nextToken()
		return LiteralTerm{Value: tok.Literal, DataType: XSDInteger}, nil
	case TOKEN_DECIMAL:
		p.nextToken()
		return LiteralTerm{Value: tok.Literal, DataType: XSDDecimal}, nil
	case TOKEN_DOUBLE:
		p.nextToken()
		return LiteralTerm{Value: tok.Literal, DataType: XSDDouble}, nil
	case TOKEN_IDENT:
		if strings.EqualFold(tok.Literal, "true") || strings.EqualFold(tok.Literal, "false") {
			p.nextToken()
			return LiteralTerm{Value: strings.ToLower(tok.Literal), DataType: XSDBoolean}, nil
		}
		return nil, p.errorf("unexpected identifier %q in pattern", tok.Literal)
	default:
		return nil, p.errorf("unexpected token %s in pattern", tok)
	}
}

// expandPName expands a prefixed name. Blank node labels (the "_"
// prefix) become BlankTerms.
func (p *Parser) expandPName(tok Token) (Term, error) {
	idx := strings.Index(tok.Literal, ":")
	prefix, local := tok.Literal[:idx], tok.Literal[idx+1:]

	if prefix == "_" {
		return BlankTerm{ID: local}, nil
	}
	base, ok := p.prologue.Prefixes[prefix]
	if !ok {
		return nil, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf(errUnknownPrefix, prefix)}
	}
	return IRITerm{Value: base + local}, nil
}

// parseLiteralSuffix attaches an optional language tag or datatype to
// a string literal.
func (p *Parser) parseLiteralSuffix(value string) (Term, error) {
	switch p.token.Type {
	case TOKEN_LANGTAG:
		lang := p.token.Literal
		p.nextToken()
		return LiteralTerm{Value: value, Lang: lang}, nil
	case TOKEN_HATHAT:
		p.nextToken()
		switch p.token.Type {
		case TOKEN_IRIREF:
			dt := p.resolveIRI(p.token.Literal)
			p.nextToken()
			return LiteralTerm{Value: value, DataType: dt}, nil
		case TOKEN_PNAME:
			term, err := p.expandPName(p.token)
			if err != nil {
				return nil, err
			}
			iri, ok := term.(IRITerm)
			if !ok {
				return nil, p.errorf("datatype must be an IRI")
			}
			p.nextToken()
			return LiteralTerm{Value: value, DataType: iri.Value}, nil
		default:
			return nil, p.errorf("expected datatype IRI after '^^', got %s", p.token)
		}
	default:
		return LiteralTerm{Value: value}, nil
	}
}
