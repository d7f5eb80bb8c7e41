package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/objrepl/internal/token"
)

// Lexer splits one command line into tokens. Quoted text is kept raw,
// quotes included, because literal conversion happens later.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	col := l.column
	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Line: 1, Column: col}
	case '=':
		l.readChar()
		return newToken(token.ASSIGN, "=", col)
	case '.':
		l.readChar()
		return newToken(token.DOT, ".", col)
	case ',':
		l.readChar()
		return newToken(token.COMMA, ",", col)
	case '(':
		l.readChar()
		return newToken(token.LPAREN, "(", col)
	case ')':
		l.readChar()
		return newToken(token.RPAREN, ")", col)
	case ':':
		l.readChar()
		return newToken(token.COLON, ":", col)
	case '"':
		raw, ok := l.readString()
		if !ok {
			return token.Token{Type: token.ILLEGAL, Lexeme: raw, Literal: "unterminated string", Line: 1, Column: col}
		}
		return token.Token{Type: token.STRING, Lexeme: raw, Literal: raw[1 : len(raw)-1], Line: 1, Column: col}
	case '-', '+':
		if isDigit(l.peekChar()) {
			start := l.position
			l.readChar()
			l.readNumber()
			return l.numberToken(start, col)
		}
	}

	if isDigit(l.ch) {
		start := l.position
		l.readNumber()
		return l.numberToken(start, col)
	}
	if isIdentStart(l.ch) {
		start := l.position
		for isIdentPart(l.ch) {
			l.readChar()
		}
		ident := l.input[start:l.position]
		return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: 1, Column: col}
	}

	ch := l.ch
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Lexeme: string(ch), Literal: "unexpected character", Line: 1, Column: col}
}

// numberToken also swallows trailing identifier characters so that "12ab"
// stays one token; literal conversion decides later that it is not a number.
func (l *Lexer) numberToken(start, col int) token.Token {
	typ := token.INT
	for isIdentPart(l.ch) {
		typ = token.IDENT
		l.readChar()
	}
	lit := l.input[start:l.position]
	return token.Token{Type: typ, Lexeme: lit, Literal: lit, Line: 1, Column: col}
}

func (l *Lexer) readNumber() {
	for isDigit(l.ch) {
		l.readChar()
	}
}

// readString consumes a double-quoted string without escape processing.
func (l *Lexer) readString() (string, bool) {
	start := l.position
	l.readChar() // opening quote
	for l.ch != '"' {
		if l.ch == 0 {
			return l.input[start:], false
		}
		l.readChar()
	}
	l.readChar() // closing quote
	return l.input[start:l.position], true
}

func (l *Lexer) skipWhitespace() {
	for l.ch != 0 && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// Tokens lexes the whole input, EOF included.
func (l *Lexer) Tokens() []token.Token {
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func newToken(t token.TokenType, lexeme string, col int) token.Token {
	return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: 1, Column: col}
}

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}
