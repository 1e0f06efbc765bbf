package gonewton_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/njchilds90/gonewton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// Lexer tests
// ============================================================

func TestLexer_Tokens(t *testing.T) {
	input := "2.5x**2 - sin(x)/[e+pi]"
	want := []struct {
		typ gonewton.TokenType
		lit string
	}{
		{gonewton.NUMBER, "2.5"},
		{gonewton.IDENT, "x"},
		{gonewton.CARET, "**"},
		{gonewton.NUMBER, "2"},
		{gonewton.MINUS, "-"},
		{gonewton.IDENT, "sin"},
		{gonewton.LPAREN, "("},
		{gonewton.IDENT, "x"},
		{gonewton.RPAREN, ")"},
		{gonewton.SLASH, "/"},
		{gonewton.LPAREN, "["},
		{gonewton.IDENT, "e"},
		{gonewton.PLUS, "+"},
		{gonewton.IDENT, "pi"},
		{gonewton.RPAREN, "]"},
		{gonewton.EOF, ""},
	}

	l := gonewton.NewLexer(input)
	for i, tt := range want {
		tok := l.NextToken()
		assert.Equal(t, tt.typ, tok.Type, "token %d", i)
		assert.Equal(t, tt.lit, tok.Literal, "token %d", i)
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		input string
		typ   gonewton.TokenType
		lit   string
	}{
		{"1e-3", gonewton.NUMBER, "1e-3"},
		{"1E+3", gonewton.NUMBER, "1E+3"},
		{".5", gonewton.NUMBER, ".5"},
		{"2.", gonewton.NUMBER, "2."},
		{"2e", gonewton.NUMBER, "2"},
		{"1.2.3", gonewton.ILLEGAL, "1.2.3"},
		{"1..5", gonewton.ILLEGAL, "1..5"},
	}
	for _, tt := range tests {
		tok := gonewton.NewLexer(tt.input).NextToken()
		assert.Equal(t, tt.typ, tok.Type, tt.input)
		assert.Equal(t, tt.lit, tok.Literal, tt.input)
	}
}

func TestLexer_SplitsIdentifiers(t *testing.T) {
	l := gonewton.NewLexer("xcos")
	first, second := l.NextToken(), l.NextToken()

	assert.Equal(t, "x", first.Literal)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, "cos", second.Literal)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, gonewton.EOF, l.NextToken().Type)
}

// ============================================================
// Parser tests
// ============================================================

func TestParse_Canonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x^2 - 4x - 7", "x^2 - 4*x - 7"},
		{"2x", "2*x"},
		{"2 * x", "2*x"},
		{"x**2", "x^2"},
		{"-x^2", "-x^2"},
		{"(-x)^2", "(-x)^2"},
		{"2^3^2", "512"},
		{"2^100", "2^100"},
		{"2^18446744073709551616", "2^18446744073709551616"},
		{"x - 2^18446744073709551616", "x - 2^18446744073709551616"},
		{"x - 2^18446744073709551617", "x - 2^18446744073709551617"},
		{"2^-1", "1/2"},
		{"x/2", "1/2*x"},
		{"1/2x", "1/2*x"},
		{"(x+1)(x-1)", "(x + 1)*(x - 1)"},
		{"x cos(x) - x^2", "x*cos(x) - x^2"},
		{"xcos(x)", "x*cos(x)"},
		{"0.05 sin(x)", "1/20*sin(x)"},
		{"sin x", "sin(x)"},
		{"sin x^2", "sin(x^2)"},
		{"2(x+1)", "2*(x + 1)"},
		{"[x+1]*{x}", "(x + 1)*x"},
		{"2e", "2*e"},
		{"2e3", "2000"},
		{"e^x", "exp(x)"},
		{"log(x)", "ln(x)"},
		{"sqrt(x)", "x^(1/2)"},
		{"+x", "x"},
		{"1e-3x", "1/1000*x"},
		{".5x", "1/2*x"},
		{"ln(x) - (0.10 * x^2) + (0.05 * sin(x)) - 0.05", "ln(x) - 1/10*x^2 + 1/20*sin(x) - 1/20"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := gonewton.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		msg   string
	}{
		{"", 0, "empty expression"},
		{"   ", 0, "empty expression"},
		{"y + 1", 0, `unknown identifier "y"`},
		{"X", 0, `unknown identifier "X"`},
		{"x +", 3, "end of input"},
		{"(x + 1", 6, `expected ")"`},
		{"(x + 1]", 6, "mismatched"},
		{"x + 1)", 5, `unexpected ")"`},
		{"1.2.3 + x", 0, "malformed number"},
		{"x ^^ 2", 3, `unexpected "^"`},
		{"sin", 3, "needs an argument"},
		{"x = 2", 2, `unexpected "="`},
		{"x\x00", 1, "unexpected"},
		{"__import__('os')", 0, "malformed"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := gonewton.Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, gonewton.ErrParse))

			var pe *gonewton.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.pos, pe.Pos)
			assert.Contains(t, pe.Msg, tt.msg)
			assert.Equal(t, tt.input, pe.Input)
		})
	}
}

func TestParse_LengthLimit(t *testing.T) {
	long := strings.Repeat("x+", gonewton.MaxExpressionLength/2) + "x"
	_, err := gonewton.Parse(long)
	assert.ErrorIs(t, err, gonewton.ErrParse)

	ok := strings.Repeat("x+", gonewton.MaxExpressionLength/2-1) + "x"
	_, err = gonewton.Parse(ok)
	assert.NoError(t, err)
}

func TestParse_NoSharedState(t *testing.T) {
	a := gonewton.MustParse("x^2")
	b := gonewton.MustParse("x^2")
	assert.True(t, a.Equal(b))
	assert.NotSame(t, a, b)
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { gonewton.MustParse("x +") })
}
