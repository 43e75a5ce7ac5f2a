package sparql

import (
	"strconv"
	"strings"
)

// Lexer tokenizes SPARQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) newToken(t TokenType, literal string) Token {
	tok := Token{Type: t, Literal: literal, Pos: l.currentPos()}
	l.readChar()
	return tok
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	switch l.ch {
	case 0:
		return Token{Type: TOKEN_EOF, Pos: pos}
	case '{':
		return l.newToken(TOKEN_LBRACE, "{")
	case '}':
		return l.newToken(TOKEN_RBRACE, "}")
	case '(':
		return l.newToken(TOKEN_LPAREN, "(")
	case ')':
		return l.newToken(TOKEN_RPAREN, ")")
	case ';':
		return l.newToken(TOKEN_SEMICOLON, ";")
	case ',':
		return l.newToken(TOKEN_COMMA, ",")
	case '*':
		return l.newToken(TOKEN_STAR, "*")
	case '=':
		return l.newToken(TOKEN_EQ, "=")
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber(pos)
		}
		return l.newToken(TOKEN_DOT, ".")
	case '-':
		if isDigit(l.peekChar()) {
			return l.readNumber(pos)
		}
		return l.newToken(TOKEN_ILLEGAL, "-")
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok := Token{Type: TOKEN_NE, Literal: "!=", Pos: pos}
			l.readChar()
			return tok
		}
		return l.newToken(TOKEN_BANG, "!")
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok := Token{Type: TOKEN_AND, Literal: "&&", Pos: pos}
			l.readChar()
			return tok
		}
		return l.newToken(TOKEN_ILLEGAL, "&")
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok := Token{Type: TOKEN_OR, Literal: "||", Pos: pos}
			l.readChar()
			return tok
		}
		return l.newToken(TOKEN_ILLEGAL, "|")
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok := Token{Type: TOKEN_GE, Literal: ">=", Pos: pos}
			l.readChar()
			return tok
		}
		return l.newToken(TOKEN_GT, ">")
	case '<':
		return l.readLessOrIRI(pos)
	case '^':
		if l.peekChar() == '^' {
			l.readChar()
			tok := Token{Type: TOKEN_HATHAT, Literal: "^^", Pos: pos}
			l.readChar()
			return tok
		}
		return l.newToken(TOKEN_ILLEGAL, "^")
	case '?', '$':
		return l.readVar(pos)
	case '@':
		return l.readLangTag(pos)
	case '"', '\'':
		return l.readString(pos)
	case ':':
		return l.readPName(pos, "")
	default:
		switch {
		case isDigit(l.ch):
			return l.readNumber(pos)
		case isPNameStart(l.ch):
			return l.readIdentOrPName(pos)
		default:
			return l.newToken(TOKEN_ILLEGAL, string(l.ch))
		}
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readLessOrIRI disambiguates '<' between a less-than operator and an
// IRI reference: an IRIREF closes with '>' before any whitespace or
// quote character.
func (l *Lexer) readLessOrIRI(pos Position) Token {
	if l.peekChar() == '=' {
		l.readChar()
		tok := Token{Type: TOKEN_LE, Literal: "<=", Pos: pos}
		l.readChar()
		return tok
	}

	for i := l.readPos; i < len(l.input); i++ {
		c := l.input[i]
		if c == '>' {
			iri := l.input[l.readPos:i]
			for l.pos <= i {
				l.readChar()
			}
			return Token{Type: TOKEN_IRIREF, Literal: iri, Pos: pos}
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '"' || c == '{' {
			break
		}
	}
	return l.newToken(TOKEN_LT, "<")
}

func (l *Lexer) readVar(pos Position) Token {
	l.readChar() // consume ? or $
	start := l.pos
	for isPNameChar(l.ch) {
		l.readChar()
	}
	name := l.input[start:l.pos]
	if name == "" {
		return Token{Type: TOKEN_ILLEGAL, Literal: "?", Pos: pos}
	}
	return Token{Type: TOKEN_VAR, Literal: name, Pos: pos}
}

func (l *Lexer) readLangTag(pos Position) Token {
	l.readChar() // consume @
	start := l.pos
	for isLetter(l.ch) || l.ch == '-' {
		l.readChar()
	}
	tag := l.input[start:l.pos]
	if tag == "" {
		return Token{Type: TOKEN_ILLEGAL, Literal: "@", Pos: pos}
	}
	return Token{Type: TOKEN_LANGTAG, Literal: tag, Pos: pos}
}

// readString reads a short or long (triple-quoted) string literal,
// decoding escape sequences.
func (l *Lexer) readString(pos Position) Token {
	quote := l.ch
	long := false
	l.readChar()
	if l.ch == quote && l.peekChar() == quote {
		long = true
		l.readChar()
		l.readChar()
	}

	var sb strings.Builder
	for {
		if l.ch == 0 {
			return Token{Type: TOKEN_ILLEGAL, Literal: "unterminated string", Pos: pos}
		}
		if l.ch == quote {
			if !long {
				l.readChar()
				break
			}
			if l.peekChar() == quote && l.peekAt(2) == quote {
				l.readChar()
				l.readChar()
				l.readChar()
				break
			}
			sb.WriteByte(l.ch)
			l.readChar()
			continue
		}
		if !long && (l.ch == '\n' || l.ch == '\r') {
			return Token{Type: TOKEN_ILLEGAL, Literal: "unterminated string", Pos: pos}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 't':
				sb.WriteByte('\t')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '"', '\'', '\\':
				sb.WriteByte(l.ch)
			case 'u', 'U':
				width := 4
				if l.ch == 'U' {
					width = 8
				}
				if l.readPos+width > len(l.input) {
					return Token{Type: TOKEN_ILLEGAL, Literal: "invalid unicode escape", Pos: pos}
				}
				hex := l.input[l.readPos : l.readPos+width]
				code, err := strconv.ParseUint(hex, 16, 32)
				if err != nil {
					return Token{Type: TOKEN_ILLEGAL, Literal: "invalid unicode escape", Pos: pos}
				}
				sb.WriteRune(rune(code))
				for i := 0; i < width; i++ {
					l.readChar()
				}
			default:
				return Token{Type: TOKEN_ILLEGAL, Literal: "invalid escape sequence", Pos: pos}
			}
			l.readChar()
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return Token{Type: TOKEN_STRING, Literal: sb.String(), Pos: pos}
}

// peekAt returns the character n positions ahead of the current one.
func (l *Lexer) peekAt(n int) byte {
	idx := l.pos + n
	if idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

func (l *Lexer) readNumber(pos Position) Token {
	start := l.pos
	typ := TOKEN_INTEGER
	if l.ch == '-' {
		l.readChar()
	}
	if l.ch == '.' {
		typ = TOKEN_DECIMAL
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		typ = TOKEN_DECIMAL
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		typ = TOKEN_DOUBLE
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return Token{Type: typ, Literal: l.input[start:l.pos], Pos: pos}
}

// readIdentOrPName reads a bare identifier; when it is immediately
// followed by ':' it continues as a prefixed name.
func (l *Lexer) readIdentOrPName(pos Position) Token {
	start := l.pos
	for isPNameChar(l.ch) {
		l.readChar()
	}
	if l.ch == ':' {
		return l.readPName(pos, l.input[start:l.pos])
	}
	return Token{Type: TOKEN_IDENT, Literal: l.input[start:l.pos], Pos: pos}
}

// readPName reads the colon and local part of a prefixed name. A dot
// is part of the local name only when followed by another name char,
// so a trailing triple terminator is never swallowed.
func (l *Lexer) readPName(pos Position, prefix string) Token {
	l.readChar() // consume ':'
	start := l.pos
	for {
		if isPNameChar(l.ch) || l.ch == '%' {
			l.readChar()
			continue
		}
		if l.ch == '.' && (isPNameChar(l.peekChar()) || l.peekChar() == '%') {
			l.readChar()
			continue
		}
		break
	}
	return Token{Type: TOKEN_PNAME, Literal: prefix + ":" + l.input[start:l.pos], Pos: pos}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isPNameStart(ch byte) bool {
	return isLetter(ch) || ch == '_' || ch >= 0x80
}

func isPNameChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '-' || ch >= 0x80
}
