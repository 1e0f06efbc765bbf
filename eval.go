package gonewton

import (
	"errors"
	"math"
)

// Differentiate returns the symbolic first derivative of e with respect to x.
func Differentiate(e Expr) Expr {
	return e.Diff(Var).Simplify()
}

// Evaluate computes e at x = at, rounded to p significant digits.
// Non-finite or non-real results are reported as *EvaluationError.
func Evaluate(e Expr, at float64, p Precision) (float64, error) {
	v, err := e.Eval(At(at))
	if err != nil {
		var ee *EvaluationError
		if errors.As(err, &ee) && ee.Expr == "" {
			return 0, &EvaluationError{Expr: e.String(), At: at, Reason: ee.Reason}
		}
		return 0, err
	}
	v = p.Round(v)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &EvaluationError{Expr: e.String(), At: at, Reason: "result is not a finite real number"}
	}
	return v, nil
}

// Function is a parsed expression paired with its derivative. The derivative
// is built once, at compile time.
type Function struct {
	Source     string
	Expr       Expr
	Derivative Expr
}

// Compile parses text and differentiates it.
func Compile(text string) (Function, error) {
	e, err := Parse(text)
	if err != nil {
		return Function{}, err
	}
	return NewFunction(e), nil
}

// NewFunction pairs an already-built expression with its derivative.
func NewFunction(e Expr) Function {
	return Function{Source: e.String(), Expr: e, Derivative: Differentiate(e)}
}

// At returns f(x) and f'(x) at precision p.
func (f Function) At(x float64, p Precision) (fx, dfx float64, err error) {
	if fx, err = Evaluate(f.Expr, x, p); err != nil {
		return 0, 0, err
	}
	if dfx, err = Evaluate(f.Derivative, x, p); err != nil {
		return 0, 0, err
	}
	return fx, dfx, nil
}
