package token

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string // raw text, quotes included for STRING
	Literal string
	Line    int
	Column  int
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	STRING TokenType = "STRING"

	ASSIGN TokenType = "="
	DOT    TokenType = "."
	COMMA  TokenType = ","
	LPAREN TokenType = "("
	RPAREN TokenType = ")"
	COLON  TokenType = ":"

	NEW TokenType = "NEW"
)

var keywords = map[string]TokenType{
	"new": NEW,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
