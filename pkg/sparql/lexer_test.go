package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(input string) []Token {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TOKEN_EOF || tok.Type == TOKEN_ILLEGAL {
			return toks
		}
	}
}

func TestLexerBasicQuery(t *testing.T) {
	toks := lexAll(`SELECT ?s WHERE { ?s ?p ?o . }`)

	want := []struct {
		typ TokenType
		lit string
	}{
		{TOKEN_IDENT, "SELECT"},
		{TOKEN_VAR, "s"},
		{TOKEN_IDENT, "WHERE"},
		{TOKEN_LBRACE, "{"},
		{TOKEN_VAR, "s"},
		{TOKEN_VAR, "p"},
		{TOKEN_VAR, "o"},
		{TOKEN_DOT, "."},
		{TOKEN_RBRACE, "}"},
		{TOKEN_EOF, ""},
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equal(t, w.typ, toks[i].Type, "token %d", i)
		assert.Equal(t, w.lit, toks[i].Literal, "token %d", i)
	}
}

func TestLexerIRIVersusLessThan(t *testing.T) {
	toks := lexAll(`<http://example.org/a>`)
	require.Equal(t, TOKEN_IRIREF, toks[0].Type)
	assert.Equal(t, "http://example.org/a", toks[0].Literal)

	toks = lexAll(`?x < 5`)
	require.Equal(t, TOKEN_VAR, toks[0].Type)
	assert.Equal(t, TOKEN_LT, toks[1].Type)
	assert.Equal(t, TOKEN_INTEGER, toks[2].Type)

	toks = lexAll(`?x <= 5`)
	assert.Equal(t, TOKEN_LE, toks[1].Type)
}

func TestLexerPrefixedNames(t *testing.T) {
	toks := lexAll(`foaf:name :a rdf:type`)
	require.Equal(t, TOKEN_PNAME, toks[0].Type)
	assert.Equal(t, "foaf:name", toks[0].Literal)
	require.Equal(t, TOKEN_PNAME, toks[1].Type)
	assert.Equal(t, ":a", toks[1].Literal)
	assert.Equal(t, "rdf:type", toks[2].Literal)
}

func TestLexerPNameDotTermination(t *testing.T) {
	// The trailing dot terminates the triple, not the local name.
	toks := lexAll(`:a :p :b.`)
	require.Len(t, toks, 5)
	assert.Equal(t, ":b", toks[2].Literal)
	assert.Equal(t, TOKEN_DOT, toks[3].Type)

	// A dot inside the local name is kept.
	toks = lexAll(`:a.b`)
	assert.Equal(t, ":a.b", toks[0].Literal)
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double quoted", `"hello"`, "hello"},
		{"single quoted", `'hello'`, "hello"},
		{"escapes", `"tab\there"`, "tab\there"},
		{"escaped quote", `"say \"hi\""`, `say "hi"`},
		{"unicode escape", `"é"`, "é"},
		{"long string", `"""multi
line"""`, "multi\nline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(tt.input)
			require.Equal(t, TOKEN_STRING, toks[0].Type)
			assert.Equal(t, tt.want, toks[0].Literal)
		})
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	toks := lexAll(`"oops`)
	assert.Equal(t, TOKEN_ILLEGAL, toks[0].Type)
}

func TestLexerNumbers(t *testing.T) {
	toks := lexAll(`42 4.2 4e2 -7`)
	assert.Equal(t, TOKEN_INTEGER, toks[0].Type)
	assert.Equal(t, "42", toks[0].Literal)
	assert.Equal(t, TOKEN_DECIMAL, toks[1].Type)
	assert.Equal(t, "4.2", toks[1].Literal)
	assert.Equal(t, TOKEN_DOUBLE, toks[2].Type)
	assert.Equal(t, TOKEN_INTEGER, toks[3].Type)
	assert.Equal(t, "-7", toks[3].Literal)
}

func TestLexerLangTagAndDatatype(t *testing.T) {
	toks := lexAll(`"chat"@fr "1"^^xsd:integer`)
	assert.Equal(t, TOKEN_STRING, toks[0].Type)
	require.Equal(t, TOKEN_LANGTAG, toks[1].Type)
	assert.Equal(t, "fr", toks[1].Literal)
	assert.Equal(t, TOKEN_STRING, toks[2].Type)
	assert.Equal(t, TOKEN_HATHAT, toks[3].Type)
	assert.Equal(t, TOKEN_PNAME, toks[4].Type)
}

func TestLexerOperatorsAndComments(t *testing.T) {
	toks := lexAll("?a = ?b && ?c != ?d # trailing comment\n || !?e >= 1")
	types := make([]TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		TOKEN_VAR, TOKEN_EQ, TOKEN_VAR, TOKEN_AND, TOKEN_VAR, TOKEN_NE, TOKEN_VAR,
		TOKEN_OR, TOKEN_BANG, TOKEN_VAR, TOKEN_GE, TOKEN_INTEGER, TOKEN_EOF,
	}, types)
}

func TestLexerPositions(t *testing.T) {
	l := NewLexer("SELECT ?s\nWHERE")
	tok := l.NextToken()
	assert.Equal(t, 1, tok.Pos.Line)
	assert.Equal(t, 1, tok.Pos.Column)

	tok = l.NextToken() // ?s
	assert.Equal(t, 1, tok.Pos.Line)
	assert.Equal(t, 8, tok.Pos.Column)

	tok = l.NextToken() // WHERE
	assert.Equal(t, 2, tok.Pos.Line)
	assert.Equal(t, 1, tok.Pos.Column)
}
