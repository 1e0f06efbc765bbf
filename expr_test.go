package gonewton_test

import (
	"math"
	"testing"

	"github.com/njchilds90/gonewton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

var symX = gonewton.S(gonewton.Var)

// ============================================================
// Num tests
// ============================================================

func TestNum_Rational(t *testing.T) {
	assert.Equal(t, "1/3", gonewton.F(1, 3).String())
	assert.Equal(t, "\\frac{1}{3}", gonewton.F(1, 3).LaTeX())
	assert.Equal(t, "-\\frac{1}{2}", gonewton.F(-1, 2).LaTeX())
}

func TestNum_RatIsACopy(t *testing.T) {
	n := gonewton.F(2, 4)
	r := n.Rat()
	assert.Equal(t, "1/2", r.RatString())
	r.SetInt64(7)
	assert.Equal(t, "1/2", n.String())
}

func TestNum_Folding(t *testing.T) {
	assert.Equal(t, "5", gonewton.AddOf(gonewton.N(2), gonewton.N(3)).String())
	assert.Equal(t, "0", gonewton.MulOf(gonewton.N(0), symX).String())
	assert.Equal(t, "x", gonewton.MulOf(gonewton.N(1), symX).String())
	assert.Equal(t, "1/4", gonewton.PowOf(gonewton.N(2), gonewton.N(-2)).String())
}

func TestF_ZeroDenominatorPanics(t *testing.T) {
	assert.Panics(t, func() { gonewton.F(1, 0) })
}

// ============================================================
// Simplification tests
// ============================================================

func TestSimplify_Identities(t *testing.T) {
	tests := []struct {
		name string
		expr gonewton.Expr
		want string
	}{
		{"pow zero", gonewton.PowOf(symX, gonewton.N(0)), "1"},
		{"pow one", gonewton.PowOf(symX, gonewton.N(1)), "x"},
		{"nested pow", gonewton.PowOf(gonewton.PowOf(symX, gonewton.N(2)), gonewton.N(3)), "x^6"},
		{"e base", gonewton.PowOf(gonewton.E, symX), "exp(x)"},
		{"exp ln", gonewton.ExpOf(gonewton.LnOf(symX)), "x"},
		{"ln exp", gonewton.LnOf(gonewton.ExpOf(symX)), "x"},
		{"ln one", gonewton.LnOf(gonewton.N(1)), "0"},
		{"ln e", gonewton.LnOf(gonewton.E), "1"},
		{"sin zero", gonewton.SinOf(gonewton.N(0)), "0"},
		{"cos zero", gonewton.CosOf(gonewton.N(0)), "1"},
		{"abs num", gonewton.AbsOf(gonewton.N(-4)), "4"},
		{"flatten add", gonewton.AddOf(symX, gonewton.AddOf(symX, gonewton.N(1)), gonewton.N(2)), "x + x + 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestSimplify_ZeroPowerStaysSymbolic(t *testing.T) {
	e := gonewton.PowOf(gonewton.N(0), gonewton.N(-1))
	_, err := gonewton.Evaluate(e, 0, gonewton.DefaultPrecision)
	assert.ErrorIs(t, err, gonewton.ErrEvaluation)
}

func TestEqual(t *testing.T) {
	a := gonewton.MustParse("x^2 + sin(x)")
	b := gonewton.MustParse("x**2 + sin x")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(gonewton.MustParse("x^2 + cos(x)")))
}

func TestSub(t *testing.T) {
	e := gonewton.MustParse("x^2 + 1")
	assert.Equal(t, "10", gonewton.Sub(e, gonewton.Var, gonewton.N(3)).String())
}

func TestToJSON(t *testing.T) {
	got := gonewton.ToJSON(gonewton.MustParse("2x"))
	assert.Equal(t, "mul", got["type"])
	factors, ok := got["factors"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, factors, 2)
	assert.Equal(t, "2", factors[0]["value"])
	assert.Equal(t, "x", factors[1]["name"])
}

// ============================================================
// Differentiation tests
// ============================================================

func TestDifferentiate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x^2 - 4x - 7", "2*x - 4"},
		{"x^2 - 2", "2*x"},
		{"x^3", "3*x^2"},
		{"5", "0"},
		{"pi", "0"},
		{"sin(x)", "cos(x)"},
		{"cos(x)", "-sin(x)"},
		{"exp(x)", "exp(x)"},
		{"ln(x)", "x^(-1)"},
		{"sqrt(x)", "1/2*x^(-1/2)"},
		{"x cos(x)", "cos(x) - sin(x)*x"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := gonewton.Differentiate(gonewton.MustParse(tt.input))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDifferentiate_LaTeX(t *testing.T) {
	d := gonewton.Differentiate(gonewton.MustParse("x^3"))
	assert.Equal(t, "3 x^{2}", d.LaTeX())
}

// The symbolic derivative must agree with a central finite difference.
func TestDifferentiate_MatchesFiniteDifference(t *testing.T) {
	tests := []struct {
		input string
		at    float64
	}{
		{"sin(x)", 0.7},
		{"ln(x) - 0.1x^2 + 0.05 sin(x) - 0.05", 1.3},
		{"x^3 - 2x - 5", 2},
		{"x cos(x) - x^2", 0.5},
		{"exp(2x) / (1 + x^2)", 0.4},
		{"sqrt(x + 1)", 2},
		{"atan(x^2)", 0.9},
		{"tan(x) + asin(x/2)", 0.3},
		{"acos(x) * cosh(x)", 0.2},
		{"tanh(x) - sinh(x)", 1.1},
		{"abs(x)^3", -1.5},
		{"x^x", 1.5},
		{"2^x", 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			fn, err := gonewton.Compile(tt.input)
			require.NoError(t, err)

			f := func(v float64) float64 {
				y, err := fn.Expr.Eval(gonewton.At(v))
				if err != nil {
					return math.NaN()
				}
				return y
			}
			want := fd.Derivative(f, tt.at, &fd.Settings{Formula: fd.Central})
			got, err := gonewton.Evaluate(fn.Derivative, tt.at, 17)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-5)
		})
	}
}

func TestCompile(t *testing.T) {
	fn, err := gonewton.Compile("x^2 - 4x - 7")
	require.NoError(t, err)
	assert.Equal(t, "x^2 - 4*x - 7", fn.Source)
	assert.Equal(t, "2*x - 4", fn.Derivative.String())

	fx, dfx, err := fn.At(1, gonewton.DefaultPrecision)
	require.NoError(t, err)
	assert.Equal(t, -10.0, fx)
	assert.Equal(t, -2.0, dfx)

	_, err = gonewton.Compile("x +")
	assert.ErrorIs(t, err, gonewton.ErrParse)
}

func TestNewFunction(t *testing.T) {
	fn := gonewton.NewFunction(gonewton.MulOf(gonewton.N(3), gonewton.PowOf(symX, gonewton.N(2))))
	assert.Equal(t, "3*x^2", fn.Source)
	assert.Equal(t, "6*x", fn.Derivative.String())
}

// ============================================================
// Accessor tests
// ============================================================

func TestAccessors(t *testing.T) {
	sum, ok := gonewton.AddOf(gonewton.MulOf(gonewton.N(2), symX), gonewton.N(3)).(*gonewton.Add)
	require.True(t, ok)
	require.Len(t, sum.Terms(), 2)
	assert.Equal(t, "3", sum.Terms()[1].String())

	prod, ok := sum.Terms()[0].(*gonewton.Mul)
	require.True(t, ok)
	require.Len(t, prod.Factors(), 2)
	coeff, ok := prod.Factors()[0].(*gonewton.Num)
	require.True(t, ok)
	assert.Equal(t, int64(2), coeff.Rat().Num().Int64())
	v, ok := prod.Factors()[1].(*gonewton.Sym)
	require.True(t, ok)
	assert.Equal(t, gonewton.Var, v.Name())

	pow, ok := gonewton.PowOf(symX, gonewton.N(3)).(*gonewton.Pow)
	require.True(t, ok)
	assert.True(t, pow.Base().Equal(symX))
	assert.True(t, pow.ExpExpr().Equal(gonewton.N(3)))

	fn, ok := gonewton.SinOf(symX).(*gonewton.Func)
	require.True(t, ok)
	assert.Equal(t, "sin", fn.FuncName())
	assert.True(t, fn.Arg().Equal(symX))
}
