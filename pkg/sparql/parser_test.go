package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSelect(t *testing.T, input string) *SelectQuery {
	t.Helper()
	q, err := Parse(input)
	require.NoError(t, err)
	sel, ok := q.(*SelectQuery)
	require.True(t, ok, "expected SELECT query")
	return sel
}

func TestParseSelectBasic(t *testing.T) {
	q := parseSelect(t, `SELECT ?s ?p ?o WHERE { ?s ?p ?o }`)

	assert.Equal(t, []string{"s", "p", "o"}, q.Vars)
	assert.False(t, q.Distinct)
	assert.False(t, q.Star)
	assert.Equal(t, -1, q.Limit)
	require.Len(t, q.Where.Patterns, 1)
	assert.Equal(t, Var{Name: "s"}, q.Where.Patterns[0].S)
	assert.Equal(t, Var{Name: "p"}, q.Where.Patterns[0].P)
	assert.Equal(t, Var{Name: "o"}, q.Where.Patterns[0].O)
}

func TestParseSelectStar(t *testing.T) {
	q := parseSelect(t, `SELECT * { ?s ?p ?o }`)
	assert.True(t, q.Star)
	assert.Empty(t, q.Vars)
}

func TestParsePrefixExpansion(t *testing.T) {
	q := parseSelect(t, `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX : <http://example.org/>
		SELECT ?name WHERE { :alice foaf:name ?name }
	`)

	require.Len(t, q.Where.Patterns, 1)
	assert.Equal(t, IRITerm{Value: "http://example.org/alice"}, q.Where.Patterns[0].S)
	assert.Equal(t, IRITerm{Value: "http://xmlns.com/foaf/0.1/name"}, q.Where.Patterns[0].P)
}

func TestParseUnknownPrefix(t *testing.T) {
	_, err := Parse(`SELECT ?s WHERE { ?s unknown:p ?o }`)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "unknown prefix")
}

func TestParseBaseResolution(t *testing.T) {
	q := parseSelect(t, `
		BASE <http://example.org/>
		SELECT ?o WHERE { <alice> <knows> ?o }
	`)
	assert.Equal(t, IRITerm{Value: "http://example.org/alice"}, q.Where.Patterns[0].S)
}

func TestParsePredicateObjectLists(t *testing.T) {
	q := parseSelect(t, `
		PREFIX : <http://example.org/>
		SELECT ?x WHERE { ?x :p :a , :b ; :q :c . }
	`)
	require.Len(t, q.Where.Patterns, 3)
	assert.Equal(t, IRITerm{Value: "http://example.org/a"}, q.Where.Patterns[0].O)
	assert.Equal(t, IRITerm{Value: "http://example.org/b"}, q.Where.Patterns[1].O)
	assert.Equal(t, IRITerm{Value: "http://example.org/q"}, q.Where.Patterns[2].P)
}

func TestParseAKeyword(t *testing.T) {
	q := parseSelect(t, `PREFIX : <http://example.org/> SELECT ?x WHERE { ?x a :Person }`)
	assert.Equal(t, IRITerm{Value: rdfTypeIRI}, q.Where.Patterns[0].P)
}

func TestParseLiterals(t *testing.T) {
	q := parseSelect(t, `
		PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
		PREFIX : <http://example.org/>
		SELECT ?x WHERE {
			?x :name "Alice" .
			?x :greeting "bonjour"@fr .
			?x :age 42 .
			?x :height 1.7 .
			?x :active true .
			?x :code "7"^^xsd:byte .
		}
	`)
	require.Len(t, q.Where.Patterns, 6)
	assert.Equal(t, LiteralTerm{Value: "Alice"}, q.Where.Patterns[0].O)
	assert.Equal(t, LiteralTerm{Value: "bonjour", Lang: "fr"}, q.Where.Patterns[1].O)
	assert.Equal(t, LiteralTerm{Value: "42", DataType: XSDInteger}, q.Where.Patterns[2].O)
	assert.Equal(t, LiteralTerm{Value: "1.7", DataType: XSDDecimal}, q.Where.Patterns[3].O)
	assert.Equal(t, LiteralTerm{Value: "true", DataType: XSDBoolean}, q.Where.Patterns[4].O)
	assert.Equal(t, LiteralTerm{Value: "7", DataType: "http://www.w3.org/2001/XMLSchema#byte"}, q.Where.Patterns[5].O)
}

func TestParseOptionalAndFilter(t *testing.T) {
	q := parseSelect(t, `
		PREFIX : <http://example.org/>
		SELECT ?x ?email WHERE {
			?x :name ?name .
			OPTIONAL { ?x :email ?email }
			FILTER (?name != "Bob")
		}
	`)
	require.Len(t, q.Where.Optionals, 1)
	require.Len(t, q.Where.Optionals[0].Patterns, 1)
	require.Len(t, q.Where.Filters, 1)

	bin, ok := q.Where.Filters[0].(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, TOKEN_NE, bin.Op)
}

func TestParseFilterBareBuiltin(t *testing.T) {
	q := parseSelect(t, `SELECT ?s WHERE { ?s ?p ?o FILTER regex(?o, "^a", "i") }`)
	require.Len(t, q.Where.Filters, 1)
	call, ok := q.Where.Filters[0].(*FuncCall)
	require.True(t, ok)
	assert.Equal(t, "regex", call.Name)
	assert.Len(t, call.Args, 3)
}

func TestParseFilterUnknownFunction(t *testing.T) {
	_, err := Parse(`SELECT ?s WHERE { ?s ?p ?o FILTER frobnicate(?o) }`)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "unknown function")
}

func TestParseSolutionModifiers(t *testing.T) {
	q := parseSelect(t, `
		SELECT DISTINCT ?s WHERE { ?s ?p ?o }
		ORDER BY DESC(?s) ?p
		LIMIT 10 OFFSET 5
	`)
	assert.True(t, q.Distinct)
	require.Len(t, q.OrderBy, 2)
	assert.Equal(t, OrderCondition{Var: "s", Desc: true}, q.OrderBy[0])
	assert.Equal(t, OrderCondition{Var: "p"}, q.OrderBy[1])
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 5, q.Offset)
}

func TestParseAsk(t *testing.T) {
	q, err := Parse(`PREFIX : <http://example.org/> ASK { :a :p :b }`)
	require.NoError(t, err)
	ask, ok := q.(*AskQuery)
	require.True(t, ok)
	require.Len(t, ask.Where.Patterns, 1)
}

func TestParseCaseInsensitiveKeywords(t *testing.T) {
	q := parseSelect(t, `select distinct ?s where { ?s ?p ?o } limit 1`)
	assert.True(t, q.Distinct)
	assert.Equal(t, 1, q.Limit)
}

func TestParseBlankNodeLabel(t *testing.T) {
	q := parseSelect(t, `PREFIX : <http://example.org/> SELECT ?o WHERE { _:b :p ?o }`)
	assert.Equal(t, BlankTerm{ID: "b"}, q.Where.Patterns[0].S)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty query", ``},
		{"missing where clause", `SELECT ?s`},
		{"missing close brace", `SELECT ?s WHERE { ?s ?p ?o`},
		{"literal predicate", `SELECT ?s WHERE { ?s "p" ?o }`},
		{"no projection", `SELECT WHERE { ?s ?p ?o }`},
		{"trailing garbage", `SELECT ?s WHERE { ?s ?p ?o } nonsense`},
		{"construct unsupported", `CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr, "input: %s", tt.input)
		})
	}
}

func TestPrologueNamespaces(t *testing.T) {
	q := parseSelect(t, `
		PREFIX a: <http://a.org/>
		PREFIX b: <http://b.org/>
		SELECT ?s WHERE { ?s ?p ?o }
	`)
	ns := q.Prologue().Namespaces()
	assert.Equal(t, []string{"a", "b"}, ns.Prefixes())
}
