package gonewton

import (
	"fmt"
	"math/big"
	"strings"
)

// MaxExpressionLength bounds the function text accepted by Parse.
const MaxExpressionLength = 4096

const (
	_ int = iota
	LOWEST
	SUM     // + -
	PRODUCT // * / and juxtaposition
	PREFIX  // -x
	POWER   // ^ **
)

var precedences = map[TokenType]int{
	PLUS:  SUM,
	MINUS: SUM,
	STAR:  PRODUCT,
	SLASH: PRODUCT,
	CARET: POWER,
}

type (
	prefixParseFn func() Expr
	infixParseFn  func(Expr) Expr
)

// Parser is a Pratt parser for single-variable real expressions.
type Parser struct {
	l     *Lexer
	input string

	curToken  Token
	peekToken Token

	err *ParseError

	prefixParseFns map[TokenType]prefixParseFn
	infixParseFns  map[TokenType]infixParseFn
}

func NewParser(input string) *Parser {
	p := &Parser{
		l:     NewLexer(input),
		input: input,
	}

	p.prefixParseFns = map[TokenType]prefixParseFn{
		NUMBER: p.parseNumber,
		IDENT:  p.parseIdentifier,
		MINUS:  p.parsePrefixExpression,
		PLUS:   p.parsePrefixExpression,
		LPAREN: p.parseGroupedExpression,
	}
	p.infixParseFns = map[TokenType]infixParseFn{
		PLUS:  p.parseInfixExpression,
		MINUS: p.parseInfixExpression,
		STAR:  p.parseInfixExpression,
		SLASH: p.parseInfixExpression,
		CARET: p.parsePowerExpression,
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse turns function text into an expression in the variable x.
func Parse(text string) (Expr, error) {
	if len(text) > MaxExpressionLength {
		return nil, &ParseError{Input: text, Pos: MaxExpressionLength,
			Msg: fmt.Sprintf("expression longer than %d bytes", MaxExpressionLength)}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Input: text, Msg: "empty expression"}
	}
	return NewParser(text).Parse()
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *Parser) Parse() (Expr, error) {
	expr := p.parseExpression(LOWEST)
	if p.err == nil && !p.peekTokenIs(EOF) {
		p.fail(p.peekToken, fmt.Sprintf("unexpected %s", describe(p.peekToken)))
	}
	if p.err != nil {
		return nil, p.err
	}
	return expr.Simplify(), nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) parseExpression(precedence int) Expr {
	if p.err != nil {
		return nil
	}
	if p.curToken.Type == ILLEGAL {
		p.fail(p.curToken, fmt.Sprintf("unexpected character or malformed number %q", p.curToken.Literal))
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.fail(p.curToken, fmt.Sprintf("unexpected %s", describe(p.curToken)))
		return nil
	}
	leftExp := prefix()

	for p.err == nil && precedence < p.peekPrecedence() {
		if p.startsOperand(p.peekToken) {
			// Juxtaposition: 2x, x cos(x), (x+1)(x-1).
			p.nextToken()
			right := p.parseExpression(PRODUCT)
			leftExp = MulOf(leftExp, right)
			continue
		}
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	if p.err != nil {
		return nil
	}
	return leftExp
}

func (p *Parser) parseNumber() Expr {
	lit := p.curToken.Literal
	if strings.HasPrefix(lit, ".") {
		lit = "0" + lit
	}
	if strings.HasSuffix(lit, ".") {
		lit += "0"
	}
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		p.fail(p.curToken, fmt.Sprintf("malformed number %q", p.curToken.Literal))
		return nil
	}
	return &Num{val: r}
}

func (p *Parser) parseIdentifier() Expr {
	name := p.curToken.Literal
	switch name {
	case Var:
		return S(Var)
	case "pi":
		return Pi
	case "e":
		return E
	}
	fn, ok := functions[name]
	if !ok {
		p.fail(p.curToken, fmt.Sprintf("unknown identifier %q (the variable is %q)", name, Var))
		return nil
	}
	if !p.startsOperand(p.peekToken) {
		p.fail(p.peekToken, fmt.Sprintf("function %s needs an argument, e.g. %s(x)", name, name))
		return nil
	}
	p.nextToken()
	var arg Expr
	if p.curTokenIs(LPAREN) {
		arg = p.parseGroupedExpression()
	} else {
		// sin x^2 reads as sin(x^2).
		arg = p.parseExpression(PREFIX)
	}
	if p.err != nil {
		return nil
	}
	return fn(arg)
}

func (p *Parser) parsePrefixExpression() Expr {
	op := p.curToken
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if p.err != nil {
		return nil
	}
	if op.Type == MINUS {
		return MulOf(N(-1), right)
	}
	return right
}

func (p *Parser) parseInfixExpression(left Expr) Expr {
	op := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if p.err != nil {
		return nil
	}
	switch op.Type {
	case PLUS:
		return AddOf(left, right)
	case MINUS:
		return AddOf(left, MulOf(N(-1), right))
	case STAR:
		return MulOf(left, right)
	default:
		return MulOf(left, PowOf(right, N(-1)))
	}
}

// parsePowerExpression is right-associative: 2^3^2 is 2^(3^2).
func (p *Parser) parsePowerExpression(base Expr) Expr {
	p.nextToken()
	exp := p.parseExpression(POWER - 1)
	if p.err != nil {
		return nil
	}
	return PowOf(base, exp)
}

func (p *Parser) parseGroupedExpression() Expr {
	open := p.curToken
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}

	if !p.peekTokenIs(RPAREN) {
		p.fail(p.peekToken, fmt.Sprintf("expected %q to close %q at position %d, got %s",
			closing(open.Literal), open.Literal, open.Position, describe(p.peekToken)))
		return nil
	}
	p.nextToken()
	if p.curToken.Literal != closing(open.Literal) {
		p.fail(p.curToken, fmt.Sprintf("mismatched %q closing %q", p.curToken.Literal, open.Literal))
		return nil
	}
	return exp
}

func (p *Parser) startsOperand(t Token) bool {
	return t.Type == NUMBER || t.Type == IDENT || t.Type == LPAREN
}

func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) peekPrecedence() int {
	if p.startsOperand(p.peekToken) {
		return PRODUCT
	}
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) fail(at Token, msg string) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{Input: p.input, Pos: at.Position, Msg: msg}
}

func describe(t Token) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case NUMBER, IDENT:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}

func closing(open string) string {
	switch open {
	case "[":
		return "]"
	case "{":
		return "}"
	}
	return ")"
}
