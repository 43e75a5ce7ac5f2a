package sparql

import "fmt"

// TokenType identifies the lexical class of a token.
type TokenType int

//nolint:revive // TOKEN_* names follow the query-token convention.
const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_ILLEGAL

	// Terms and literals
	TOKEN_VAR     // ?name or $name; Literal holds the bare name
	TOKEN_IRIREF  // <iri>; Literal holds the iri without brackets
	TOKEN_PNAME   // prefix:local, :local or prefix:
	TOKEN_IDENT   // bare identifier: keywords, function names, 'a', booleans
	TOKEN_STRING  // string literal; Literal holds the unescaped value
	TOKEN_INTEGER // 42
	TOKEN_DECIMAL // 4.2
	TOKEN_DOUBLE  // 4.2e1
	TOKEN_LANGTAG // @en; Literal holds the tag without '@'
	TOKEN_HATHAT  // ^^

	// Punctuation
	TOKEN_LBRACE    // {
	TOKEN_RBRACE    // }
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_DOT       // .
	TOKEN_SEMICOLON // ;
	TOKEN_COMMA     // ,
	TOKEN_STAR      // *

	// Operators
	TOKEN_EQ   // =
	TOKEN_NE   // !=
	TOKEN_LT   // <
	TOKEN_GT   // >
	TOKEN_LE   // <=
	TOKEN_GE   // >=
	TOKEN_AND  // &&
	TOKEN_OR   // ||
	TOKEN_BANG // !
)

var tokenNames = map[TokenType]string{
	TOKEN_EOF:       "EOF",
	TOKEN_ILLEGAL:   "ILLEGAL",
	TOKEN_VAR:       "VAR",
	TOKEN_IRIREF:    "IRIREF",
	TOKEN_PNAME:     "PNAME",
	TOKEN_IDENT:     "IDENT",
	TOKEN_STRING:    "STRING",
	TOKEN_INTEGER:   "INTEGER",
	TOKEN_DECIMAL:   "DECIMAL",
	TOKEN_DOUBLE:    "DOUBLE",
	TOKEN_LANGTAG:   "LANGTAG",
	TOKEN_HATHAT:    "^^",
	TOKEN_LBRACE:    "{",
	TOKEN_RBRACE:    "}",
	TOKEN_LPAREN:    "(",
	TOKEN_RPAREN:    ")",
	TOKEN_DOT:       ".",
	TOKEN_SEMICOLON: ";",
	TOKEN_COMMA:     ",",
	TOKEN_STAR:      "*",
	TOKEN_EQ:        "=",
	TOKEN_NE:        "!=",
	TOKEN_LT:        "<",
	TOKEN_GT:        ">",
	TOKEN_LE:        "<=",
	TOKEN_GE:        ">=",
	TOKEN_AND:       "&&",
	TOKEN_OR:        "||",
	TOKEN_BANG:      "!",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Position is a location in the query source (1-based line and column).
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token is a lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) String() string {
	if t.Literal == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
}
