// Package gonewton finds real roots of single-variable functions with the
// Newton-Raphson method.
//
// Design goals:
//   - Functions arrive as text and are parsed against a closed grammar
//   - Derivatives are symbolic, built once per request
//   - Evaluation is rounded to a fixed number of significant digits
//   - Every run yields a full iteration trace and a typed verdict
//   - Embeddable in Go services, CLI tools, and agent backends
package gonewton

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Var is the name of the free variable of every parsed function.
const Var = "x"

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable symbolic expression.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval(b Binding) (float64, error)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// Binding assigns a value to the free variable during evaluation.
type Binding struct {
	Name  string
	Value float64
}

// At binds the package variable x to v.
func At(v float64) Binding { return Binding{Name: Var, Value: v} }

// ============================================================
// Num: exact rational number
// ============================================================

// Num is an exact rational constant. Arithmetic on Nums never rounds.
type Num struct{ val *big.Rat }

// N returns the integer n.
func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// F returns the fraction p/q in lowest terms. It panics if q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("gonewton: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

func (n *Num) Simplify() Expr                { return n }
func (n *Num) Sub(string, Expr) Expr         { return n }
func (n *Num) Diff(string) Expr              { return N(0) }
func (n *Num) Eval(Binding) (float64, error) { return n.Float64(), nil }
func (n *Num) Equal(other Expr) bool         { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string              { return "num" }
func (n *Num) IsZero() bool                  { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool                   { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool                { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool               { return n.val.IsInt() }
func (n *Num) IsNegative() bool              { return n.val.Sign() < 0 }

// Float64 returns the nearest float64.
func (n *Num) Float64() float64 { f, _ := n.val.Float64(); return f }

// Rat returns a copy of the exact value.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.val) }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }

// ============================================================
// Sym: the free variable
// ============================================================

// Sym is a named variable. Only Var is bound during evaluation.
type Sym struct{ name string }

// S returns the variable called name.
func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }

// Eval fails unless b binds this variable.
func (s *Sym) Eval(b Binding) (float64, error) {
	if b.Name != s.name {
		return 0, &EvaluationError{Reason: fmt.Sprintf("unbound variable %q", s.name)}
	}
	return b.Value, nil
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }

// Name returns the variable name.
func (s *Sym) Name() string { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const: named irrational constant
// ============================================================

// Const is a named constant such as pi. It stays symbolic until Eval.
type Const struct {
	name  string
	value float64
}

// The constants recognized by the parser.
var (
	Pi = &Const{name: "pi", value: math.Pi}
	E  = &Const{name: "e", value: math.E}
)

func (c *Const) Simplify() Expr                { return c }
func (c *Const) String() string                { return c.name }
func (c *Const) Sub(string, Expr) Expr         { return c }
func (c *Const) Diff(string) Expr              { return N(0) }
func (c *Const) Eval(Binding) (float64, error) { return c.value, nil }
func (c *Const) Equal(other Expr) bool         { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string              { return "const" }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}
func (c *Const) LaTeX() string {
	if c == Pi {
		return "\\pi"
	}
	return c.name
}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums and folds numeric terms into one trailing
// constant. Term order is otherwise preserved.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	acc := N(0)
	result := make([]Expr, 0, len(flat))
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			acc = numAdd(acc, v)
			continue
		}
		result = append(result, t)
	}
	if !acc.IsZero() {
		result = append(result, acc)
	}
	switch len(result) {
	case 0:
		return N(0)
	case 1:
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.String()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.LaTeX()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval(b Binding) (float64, error) {
	acc := 0.0
	for _, t := range a.terms {
		v, err := t.Eval(b)
		if err != nil {
			return 0, err
		}
		acc += v
	}
	return acc, nil
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalAll(a.terms, o.terms)
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "add", "terms": listJSON(a.terms)}
}

// Terms returns the summands. The slice must not be modified.
func (a *Add) Terms() []Expr { return a.terms }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products and folds numeric factors into a leading
// coefficient. A zero coefficient collapses the product.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	others := make([]Expr, 0, len(flat))
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
		} else {
			others = append(others, f)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}
	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	parts := make([]string, 0, len(m.factors))
	start := 0
	prefix := ""
	if c, ok := m.factors[0].(*Num); ok && c.IsNegOne() && len(m.factors) > 1 {
		prefix = "-"
		start = 1
	}
	for _, f := range m.factors[start:] {
		switch f.(type) {
		case *Add:
			parts = append(parts, "("+f.String()+")")
		default:
			parts = append(parts, f.String())
		}
	}
	return prefix + strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	parts := make([]string, 0, len(m.factors))
	start := 0
	prefix := ""
	if c, ok := m.factors[0].(*Num); ok && c.IsNegOne() && len(m.factors) > 1 {
		prefix = "-"
		start = 1
	}
	for _, f := range m.factors[start:] {
		if _, isAdd := f.(*Add); isAdd {
			parts = append(parts, "\\left("+f.LaTeX()+"\\right)")
		} else {
			parts = append(parts, f.LaTeX())
		}
	}
	return prefix + strings.Join(parts, " ")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

// Diff applies the product rule across all factors.
func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		factors := make([]Expr, 0, len(m.factors))
		factors = append(factors, fi.Diff(varName))
		for j, fj := range m.factors {
			if j != i {
				factors = append(factors, fj)
			}
		}
		terms[i] = MulOf(factors...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval(b Binding) (float64, error) {
	acc := 1.0
	for _, f := range m.factors {
		v, err := f.Eval(b)
		if err != nil {
			return 0, err
		}
		acc *= v
	}
	return acc, nil
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalAll(m.factors, o.factors)
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "mul", "factors": listJSON(m.factors)}
}

// Factors returns the factors, numeric coefficient first. The slice must not
// be modified.
func (m *Mul) Factors() []Expr { return m.factors }

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}
	if base == E {
		return ExpOf(exp)
	}
	bn, baseIsNum := base.(*Num)
	if baseIsNum && bn.IsZero() {
		// 0^0 and 0^negative stay symbolic so evaluation can report them.
		if expIsNum && !en.IsNegative() {
			return N(0)
		}
		return &Pow{base: base, exp: exp}
	}
	if baseIsNum && bn.IsOne() {
		return N(1)
	}
	// Exponents outside [-20, 20] stay symbolic; Eval reports any overflow.
	if baseIsNum && expIsNum && en.IsInteger() && en.val.Num().IsInt64() {
		e := en.val.Num().Int64()
		if e >= -20 && e <= 20 {
			result := new(big.Rat).SetInt64(1)
			for i := int64(0); i < abs64(e); i++ {
				result.Mul(result, bn.val)
			}
			if e < 0 {
				result.Inv(result)
			}
			return &Num{val: result}
		}
	}
	if inner, ok := base.(*Pow); ok && expIsNum && en.IsInteger() {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (p *Pow) String() string {
	return wrapOperand(p.base) + "^" + wrapOperand(p.exp)
}

func wrapOperand(e Expr) string {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return "(" + e.String() + ")"
	case *Num:
		if !v.IsInteger() || v.IsNegative() {
			return "(" + e.String() + ")"
		}
	}
	return e.String()
}

func (p *Pow) LaTeX() string {
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

// Diff uses the power rule for constant exponents, the exponential rule for
// constant bases, and d(u^v) = u^v (v' ln u + v u'/u) otherwise.
func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if isZeroNum(dv) {
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	if isZeroNum(du) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval(b Binding) (float64, error) {
	bf, err := p.base.Eval(b)
	if err != nil {
		return 0, err
	}
	ef, err := p.exp.Eval(b)
	if err != nil {
		return 0, err
	}
	switch {
	case bf == 0 && ef < 0:
		return 0, &EvaluationError{Reason: "division by zero"}
	case bf == 0 && ef == 0:
		return 0, &EvaluationError{Reason: "0^0 is undefined"}
	case bf < 0 && ef != math.Trunc(ef):
		return 0, &EvaluationError{Reason: "non-integer power of a negative value is not real"}
	}
	v := math.Pow(bf, ef)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &EvaluationError{Reason: "power overflows"}
	}
	return v, nil
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}

func (p *Pow) Base() Expr { return p.base }

// ExpExpr returns the exponent.
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr  { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr   { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr  { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }

// functions is the allow-list of names the parser accepts.
var functions = map[string]func(Expr) Expr{
	"sin":  SinOf,
	"cos":  CosOf,
	"tan":  TanOf,
	"asin": AsinOf,
	"acos": AcosOf,
	"atan": AtanOf,
	"sinh": SinhOf,
	"cosh": CoshOf,
	"tanh": TanhOf,
	"exp":  ExpOf,
	"ln":   LnOf,
	"log":  LnOf,
	"sqrt": SqrtOf,
	"abs":  AbsOf,
}

// Simplify folds only exact identities; other constant arguments are left for
// Eval so that domain errors surface there.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	switch f.name {
	case "sin", "tan", "asin", "atan", "sinh", "tanh":
		if isZeroNum(arg) {
			return N(0)
		}
	case "cos", "cosh":
		if isZeroNum(arg) {
			return N(1)
		}
	case "exp":
		if isZeroNum(arg) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "ln":
		if n, ok := arg.(*Num); ok && n.IsOne() {
			return N(0)
		}
		if arg == E {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "abs":
		if n, ok := arg.(*Num); ok {
			return &Num{val: new(big.Rat).Abs(n.val)}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

// Diff applies the chain rule: d f(u) = f'(u) du.
func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if isZeroNum(du) {
		return N(0)
	}
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	case "abs":
		outer = MulOf(f.arg, PowOf(AbsOf(f.arg), N(-1)))
	default:
		panic("gonewton: no derivative rule for " + f.name)
	}
	return MulOf(outer, du)
}

func (f *Func) Eval(b Binding) (float64, error) {
	v, err := f.arg.Eval(b)
	if err != nil {
		return 0, err
	}
	switch f.name {
	case "sin":
		return math.Sin(v), nil
	case "cos":
		return math.Cos(v), nil
	case "tan":
		return math.Tan(v), nil
	case "exp":
		return math.Exp(v), nil
	case "ln":
		if v <= 0 {
			return 0, &EvaluationError{Reason: "logarithm of a non-positive value"}
		}
		return math.Log(v), nil
	case "abs":
		return math.Abs(v), nil
	case "asin":
		if v < -1 || v > 1 {
			return 0, &EvaluationError{Reason: "asin argument outside [-1, 1]"}
		}
		return math.Asin(v), nil
	case "acos":
		if v < -1 || v > 1 {
			return 0, &EvaluationError{Reason: "acos argument outside [-1, 1]"}
		}
		return math.Acos(v), nil
	case "atan":
		return math.Atan(v), nil
	case "sinh":
		return math.Sinh(v), nil
	case "cosh":
		return math.Cosh(v), nil
	case "tanh":
		return math.Tanh(v), nil
	}
	return 0, &EvaluationError{Reason: "unknown function " + f.name}
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}

// FuncName returns the function name as written, e.g. "sin".
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

// ============================================================
// Helpers
// ============================================================

func isZeroNum(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func listJSON(es []Expr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(es))
	for i, e := range es {
		out[i] = e.toJSON()
	}
	return out
}

func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

// ToJSON returns the expression tree as a generic JSON object.
func ToJSON(e Expr) map[string]interface{} { return e.toJSON() }
