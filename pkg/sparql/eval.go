package sparql

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/knakk/rdf"

	"github.com/kgforge-labs/kgforge/pkg/kg"
)

// Solution maps variable names (without sigil) to bound terms.
// A missing key means the variable is unbound in this solution.
type Solution map[string]rdf.Term

// Results is a SELECT result table. Vars fixes the column order;
// Solutions are in engine evaluation order unless the query ordered
// them.
type Results struct {
	Vars      []string
	Solutions []Solution
}

// Select evaluates a SELECT query against the graph.
func Select(g *kg.Graph, q *SelectQuery) (*Results, error) {
	e := &evaluator{graph: g}

	sols, err := e.solveGroup(&q.Where, Solution{})
	if err != nil {
		return nil, err
	}

	vars := q.Vars
	if q.Star {
		vars = patternVars(&q.Where)
	}

	if q.Distinct {
		sols = distinct(sols, vars)
	}
	if len(q.OrderBy) > 0 {
		orderSolutions(sols, q.OrderBy)
	}
	sols = sliceWindow(sols, q.Offset, q.Limit)

	return &Results{Vars: vars, Solutions: sols}, nil
}

// Ask evaluates an ASK query against the graph.
func Ask(g *kg.Graph, q *AskQuery) (bool, error) {
	e := &evaluator{graph: g}
	sols, err := e.solveGroup(&q.Where, Solution{})
	if err != nil {
		return false, err
	}
	return len(sols) > 0, nil
}

// evaluator holds per-query evaluation state.
type evaluator struct {
	graph *kg.Graph
}

// solveGroup evaluates a group against a starting binding: the basic
// graph pattern first, then each OPTIONAL as a left join, then the
// group's filters.
func (e *evaluator) solveGroup(gp *GroupGraphPattern, start Solution) ([]Solution, error) {
	sols, err := e.matchPatterns(gp.Patterns, start)
	if err != nil {
		return nil, err
	}

	for i := range gp.Optionals {
		var next []Solution
		for _, sol := range sols {
			extended, err := e.solveGroup(&gp.Optionals[i], sol)
			if err != nil {
				return nil, err
			}
			if len(extended) > 0 {
				next = append(next, extended...)
			} else {
				next = append(next, sol)
			}
		}
		sols = next
	}

	if len(gp.Filters) > 0 {
		var kept []Solution
		for _, sol := range sols {
			ok := true
			for _, f := range gp.Filters {
				pass, err := e.filterPasses(f, sol)
				if err != nil {
					return nil, err
				}
				if !pass {
					ok = false
					break
				}
			}
			if ok {
				kept = append(kept, sol)
			}
		}
		sols = kept
	}
	return sols, nil
}

// matchPatterns joins the basic graph pattern by backtracking in
// pattern order. Candidate triples come back in insertion order, which
// makes evaluation deterministic for a fixed graph.
func (e *evaluator) matchPatterns(patterns []TriplePattern, binding Solution) ([]Solution, error) {
	if len(patterns) == 0 {
		return []Solution{binding.clone()}, nil
	}

	pat := patterns[0]
	s, sVar, err := e.resolve(pat.S, binding)
	if err != nil {
		return nil, err
	}
	p, pVar, err := e.resolve(pat.P, binding)
	if err != nil {
		return nil, err
	}
	o, oVar, err := e.resolve(pat.O, binding)
	if err != nil {
		return nil, err
	}

	var out []Solution
	for _, t := range e.graph.Match(s, p, o) {
		extended := binding.clone()
		if !bindTerm(extended, sVar, t.Subj) {
			continue
		}
		if !bindTerm(extended, pVar, t.Pred) {
			continue
		}
		if !bindTerm(extended, oVar, t.Obj) {
			continue
		}
		rest, err := e.matchPatterns(patterns[1:], extended)
		if err != nil {
			return nil, err
		}
		out = append(out, rest...)
	}
	return out, nil
}

// resolve maps a pattern term to either a concrete term for index
// lookup (with empty var name) or a wildcard with the variable to bind.
// Blank node labels act as variables under a reserved name.
func (e *evaluator) resolve(term Term, binding Solution) (rdf.Term, string, error) {
	switch t := term.(type) {
	case Var:
		if bound, ok := binding[t.Name]; ok {
			return bound, "", nil
		}
		return nil, t.Name, nil
	case BlankTerm:
		name := "_:" + t.ID
		if bound, ok := binding[name]; ok {
			return bound, "", nil
		}
		return nil, name, nil
	case IRITerm:
		iri, err := rdf.NewIRI(t.Value)
		if err != nil {
			return nil, "", &EvalError{Message: fmt.Sprintf("invalid IRI <%s>", t.Value), Err: err}
		}
		return iri, "", nil
	case LiteralTerm:
		lit, err := makeLiteral(t)
		if err != nil {
			return nil, "", err
		}
		return lit, "", nil
	default:
		return nil, "", &EvalError{Message: fmt.Sprintf("unsupported pattern term %T", term)}
	}
}

func makeLiteral(t LiteralTerm) (rdf.Literal, error) {
	switch {
	case t.Lang != "":
		lit, err := rdf.NewLangLiteral(t.Value, t.Lang)
		if err != nil {
			return rdf.Literal{}, &EvalError{Message: "invalid literal", Err: err}
		}
		return lit, nil
	case t.DataType != "":
		dt, err := rdf.NewIRI(t.DataType)
		if err != nil {
			return rdf.Literal{}, &EvalError{Message: fmt.Sprintf("invalid datatype IRI <%s>", t.DataType), Err: err}
		}
		return rdf.NewTypedLiteral(t.Value, dt), nil
	default:
		lit, err := rdf.NewLiteral(t.Value)
		if err != nil {
			return rdf.Literal{}, &EvalError{Message: "invalid literal", Err: err}
		}
		return lit, nil
	}
}

// bindTerm binds name to term, or verifies an existing binding when a
// variable repeats within one pattern. Empty name means the position
// was concrete.
func bindTerm(sol Solution, name string, term rdf.Term) bool {
	if name == "" {
		return true
	}
	if existing, ok := sol[name]; ok {
		return kg.TermKey(existing) == kg.TermKey(term)
	}
	sol[name] = term
	return true
}

func (s Solution) clone() Solution {
	out := make(Solution, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// patternVars returns the variables of a group in first-appearance
// order, for SELECT * projection. Blank node labels are excluded.
func patternVars(gp *GroupGraphPattern) []string {
	var vars []string
	seen := make(map[string]bool)

	add := func(term Term) {
		if v, ok := term.(Var); ok && !seen[v.Name] {
			seen[v.Name] = true
			vars = append(vars, v.Name)
		}
	}
	var walk func(g *GroupGraphPattern)
	walk = func(g *GroupGraphPattern) {
		for _, pat := range g.Patterns {
			add(pat.S)
			add(pat.P)
			add(pat.O)
		}
		for i := range g.Optionals {
			walk(&g.Optionals[i])
		}
	}
	walk(gp)
	return vars
}

// distinct removes duplicate solutions under the projected variables,
// keeping the first occurrence.
func distinct(sols []Solution, vars []string) []Solution {
	seen := make(map[string]bool, len(sols))
	var out []Solution
	for _, sol := range sols {
		var sb strings.Builder
		for _, v := range vars {
			if t, ok := sol[v]; ok {
				sb.WriteString(kg.TermKey(t))
			}
			sb.WriteByte(0)
		}
		key := sb.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sol)
	}
	return out
}

func orderSolutions(sols []Solution, conds []OrderCondition) {
	sort.SliceStable(sols, func(i, j int) bool {
		for _, c := range conds {
			cmp := compareTerms(sols[i][c.Var], sols[j][c.Var])
			if cmp == 0 {
				continue
			}
			if c.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// compareTerms implements the SPARQL ordering: unbound < blank nodes <
// IRIs < literals; numeric literals compare by value, all other
// comparisons are lexical.
func compareTerms(a, b rdf.Term) int {
	ra, rb := termRank(a), termRank(b)
	if ra != rb {
		return ra - rb
	}
	if a == nil {
		return 0
	}
	if a.Type() == rdf.TermLiteral {
		na, aok := numericValue(a)
		nb, bok := numericValue(b)
		if aok && bok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(a.String(), b.String())
}

func termRank(t rdf.Term) int {
	if t == nil {
		return 0
	}
	switch t.Type() {
	case rdf.TermBlank:
		return 1
	case rdf.TermIRI:
		return 2
	default:
		return 3
	}
}

var numericDatatypes = map[string]bool{
	"http://www.w3.org/2001/XMLSchema#integer":            true,
	"http://www.w3.org/2001/XMLSchema#decimal":            true,
	"http://www.w3.org/2001/XMLSchema#double":             true,
	"http://www.w3.org/2001/XMLSchema#float":              true,
	"http://www.w3.org/2001/XMLSchema#int":                true,
	"http://www.w3.org/2001/XMLSchema#long":               true,
	"http://www.w3.org/2001/XMLSchema#short":              true,
	"http://www.w3.org/2001/XMLSchema#byte":               true,
	"http://www.w3.org/2001/XMLSchema#nonNegativeInteger": true,
	"http://www.w3.org/2001/XMLSchema#positiveInteger":    true,
	"http://www.w3.org/2001/XMLSchema#unsignedInt":        true,
	"http://www.w3.org/2001/XMLSchema#unsignedLong":       true,
}

// numericValue extracts the numeric value of a literal term.
func numericValue(t rdf.Term) (float64, bool) {
	lit, ok := t.(rdf.Literal)
	if !ok {
		return 0, false
	}
	if !numericDatatypes[lit.DataType.String()] {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(lit.String()), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func sliceWindow(sols []Solution, offset, limit int) []Solution {
	if offset > 0 {
		if offset >= len(sols) {
			return nil
		}
		sols = sols[offset:]
	}
	if limit >= 0 && limit < len(sols) {
		sols = sols[:limit]
	}
	return sols
}
