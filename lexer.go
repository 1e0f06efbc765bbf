package gonewton

import "sort"

type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	NUMBER // 2, 0.5, 1e-3
	IDENT  // x, pi, e, function names

	// Operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /
	CARET // ^ or **

	// Delimiters
	LPAREN // ( [ {
	RPAREN // ) ] }
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int
}

// Lexer splits function text into tokens. Runs of letters that are not a
// known name are split into known names ("xcos" reads as x cos).
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	pending      []Token
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekCharAt(offset int) byte {
	i := l.readPosition + offset
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) NextToken() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	l.skipWhitespace()

	var tok Token
	switch l.ch {
	case '+':
		tok = newToken(PLUS, "+", l.position)
	case '-':
		tok = newToken(MINUS, "-", l.position)
	case '*':
		if l.peekChar() == '*' {
			tok = newToken(CARET, "**", l.position)
			l.readChar()
		} else {
			tok = newToken(STAR, "*", l.position)
		}
	case '/':
		tok = newToken(SLASH, "/", l.position)
	case '^':
		tok = newToken(CARET, "^", l.position)
	case '(', '[', '{':
		tok = newToken(LPAREN, string(l.ch), l.position)
	case ')', ']', '}':
		tok = newToken(RPAREN, string(l.ch), l.position)
	case 0:
		if l.position < len(l.input) {
			// NUL inside the input is not end of input.
			tok = newToken(ILLEGAL, "\\x00", l.position)
			break
		}
		return newToken(EOF, "", len(l.input))
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		} else if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
			return l.readNumber()
		}
		tok = newToken(ILLEGAL, string(l.ch), l.position)
	}

	l.readChar()
	return tok
}

func newToken(tokenType TokenType, literal string, position int) Token {
	return Token{Type: tokenType, Literal: literal, Position: position}
}

func (l *Lexer) readIdentifier() Token {
	position := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	word := l.input[position:l.position]
	parts, ok := splitIdentifier(word)
	if !ok {
		return newToken(IDENT, word, position)
	}
	offset := position
	toks := make([]Token, len(parts))
	for i, p := range parts {
		toks[i] = newToken(IDENT, p, offset)
		offset += len(p)
	}
	l.pending = append(l.pending, toks[1:]...)
	return toks[0]
}

// readNumber reads a decimal numeral with optional fraction and exponent.
// An 'e' only starts an exponent when digits follow it, so "2e" is 2*e.
func (l *Lexer) readNumber() Token {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(1))) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	if l.ch == '.' {
		for l.ch == '.' || isDigit(l.ch) {
			l.readChar()
		}
		return newToken(ILLEGAL, l.input[position:l.position], position)
	}
	return newToken(NUMBER, l.input[position:l.position], position)
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// names lists every identifier the grammar knows, longest first.
var names = func() []string {
	out := []string{Var, "pi", "e"}
	for name := range functions {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// splitIdentifier splits word into known names by greedy longest match.
func splitIdentifier(word string) ([]string, bool) {
	var parts []string
	for len(word) > 0 {
		matched := false
		for _, name := range names {
			if len(name) <= len(word) && word[:len(name)] == name {
				parts = append(parts, name)
				word = word[len(name):]
				matched = true
				break
			}
		}
		if !matched {
			return nil, false
		}
	}
	return parts, true
}

func (t TokenType) String() string {
	switch t {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "end of input"
	case NUMBER:
		return "number"
	case IDENT:
		return "identifier"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case CARET:
		return "^"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	default:
		return "UNKNOWN"
	}
}
