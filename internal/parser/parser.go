// Package parser turns one input line into an ast.Command.
//
// Accepted forms:
//
//	name = new pkg.Class(arg, ...)
//	pkg.Class name = new pkg.Class(arg, ...)
//	name.method(arg, ...)
//
// An argument is a double-quoted string, an integer, or a name.
package parser

import (
	"fmt"
	"strings"

	"github.com/funvibe/objrepl/internal/ast"
	"github.com/funvibe/objrepl/internal/lexer"
	"github.com/funvibe/objrepl/internal/token"
)

// ParseError points at the offending column of the line.
type ParseError struct {
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("column %d: %s", e.Column, e.Msg)
}

type Parser struct {
	tokens []token.Token
	pos    int
}

func New(line string) *Parser {
	return &Parser{tokens: lexer.New(line).Tokens()}
}

// Parse parses a single command line.
func Parse(line string) (*ast.Command, error) {
	return New(line).ParseCommand()
}

func (p *Parser) cur() token.Token { return p.tokens[p.pos] }

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) error {
	if tok.Type == token.ILLEGAL {
		return &ParseError{Column: tok.Column, Msg: fmt.Sprintf("%s %s", tok.Literal, tok.Lexeme)}
	}
	return &ParseError{Column: tok.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(t token.TokenType, what string) (token.Token, error) {
	tok := p.cur()
	if tok.Type != t {
		return tok, p.errorf(tok, "expected %s, found %s", what, describe(tok))
	}
	return p.advance(), nil
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of line"
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}

// qualifiedName reads IDENT (. IDENT)*.
func (p *Parser) qualifiedName() ([]string, token.Token, error) {
	first, err := p.expect(token.IDENT, "a name")
	if err != nil {
		return nil, first, err
	}
	parts := []string{first.Literal}
	for p.cur().Type == token.DOT {
		p.advance()
		seg, err := p.expect(token.IDENT, "a name after '.'")
		if err != nil {
			return nil, first, err
		}
		parts = append(parts, seg.Literal)
	}
	return parts, first, nil
}

func (p *Parser) ParseCommand() (*ast.Command, error) {
	parts, first, err := p.qualifiedName()
	if err != nil {
		return nil, err
	}

	switch p.cur().Type {
	case token.LPAREN:
		if len(parts) != 2 {
			return nil, p.errorf(first, "method calls take the form name.method(...)")
		}
		args, err := p.arguments()
		if err != nil {
			return nil, err
		}
		return p.finish(&ast.Command{IsMethodCall: true, ObjectName: parts[0], MethodName: parts[1], Arguments: args})

	case token.IDENT:
		// declared type in front of the binding name; informational only
		name := p.advance()
		return p.construction(name.Literal)

	case token.ASSIGN:
		if len(parts) != 1 {
			return nil, p.errorf(first, "binding name %q cannot be qualified", strings.Join(parts, "."))
		}
		return p.construction(parts[0])
	}
	return nil, p.errorf(p.cur(), "expected '(', '=' or a binding name, found %s", describe(p.cur()))
}

func (p *Parser) construction(objectName string) (*ast.Command, error) {
	if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.NEW, "'new'"); err != nil {
		return nil, err
	}
	class, _, err := p.qualifiedName()
	if err != nil {
		return nil, err
	}
	args, err := p.arguments()
	if err != nil {
		return nil, err
	}
	return p.finish(&ast.Command{ClassName: strings.Join(class, "."), ObjectName: objectName, Arguments: args})
}

func (p *Parser) arguments() ([]string, error) {
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	args := []string{}
	if p.cur().Type == token.RPAREN {
		p.advance()
		return args, nil
	}
	for {
		tok := p.cur()
		switch tok.Type {
		case token.STRING, token.INT, token.IDENT:
			args = append(args, tok.Lexeme)
			p.advance()
		default:
			return nil, p.errorf(tok, "expected an argument, found %s", describe(tok))
		}
		switch p.cur().Type {
		case token.COMMA:
			p.advance()
		case token.RPAREN:
			p.advance()
			return args, nil
		default:
			return nil, p.errorf(p.cur(), "expected ',' or ')', found %s", describe(p.cur()))
		}
	}
}

func (p *Parser) finish(cmd *ast.Command) (*ast.Command, error) {
	if tok := p.cur(); tok.Type != token.EOF {
		return nil, p.errorf(tok, "unexpected %s after command", describe(tok))
	}
	return cmd, nil
}
