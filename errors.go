package gonewton

import (
	"errors"
	"fmt"
)

// Sentinel errors for the gonewton package.
// Use errors.Is to check: errors.Is(err, gonewton.ErrParse)
var (
	ErrParse              = errors.New("gonewton: invalid function expression")
	ErrEvaluation         = errors.New("gonewton: expression cannot be evaluated")
	ErrSingularDerivative = errors.New("gonewton: derivative is zero")
	ErrInput              = errors.New("gonewton: invalid input")
	ErrBudgetExceeded     = errors.New("gonewton: time budget exceeded")
)

// ErrorKind names the class of a failed run in serialized results.
type ErrorKind string

const (
	KindParse              ErrorKind = "parse"
	KindEvaluation         ErrorKind = "evaluation"
	KindSingularDerivative ErrorKind = "singular_derivative"
	KindInput              ErrorKind = "input"
	KindBudget             ErrorKind = "budget"
	KindInternal           ErrorKind = "internal"
)

// ParseError reports malformed function text. Pos is a byte offset into Input.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gonewton: parse error at position %d: %s", e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// EvaluationError reports an expression that is undefined or non-finite at a point.
type EvaluationError struct {
	Expr   string
	At     float64
	Reason string
}

func (e *EvaluationError) Error() string {
	if e.Expr == "" {
		return "gonewton: evaluation failed: " + e.Reason
	}
	return fmt.Sprintf("gonewton: cannot evaluate %s at x = %g: %s", e.Expr, e.At, e.Reason)
}

func (e *EvaluationError) Unwrap() error { return ErrEvaluation }

// SingularDerivativeError reports that the Newton step at Iteration cannot be
// taken because f'(At) is zero, or because f' cannot be evaluated there (Cause).
type SingularDerivativeError struct {
	Iteration int
	At        float64
	Cause     error
}

func (e *SingularDerivativeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gonewton: derivative undefined at x = %g (iteration %d): %v", e.At, e.Iteration, e.Cause)
	}
	return fmt.Sprintf("gonewton: derivative is zero at x = %g (iteration %d)", e.At, e.Iteration)
}

func (e *SingularDerivativeError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrSingularDerivative, e.Cause}
	}
	return []error{ErrSingularDerivative}
}

// InputError reports a caller-supplied value rejected before iterating.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("gonewton: invalid %s: %s", e.Field, e.Msg)
}

func (e *InputError) Unwrap() error { return ErrInput }

// KindOf maps an error onto the kind reported to callers.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrSingularDerivative):
		return KindSingularDerivative
	case errors.Is(err, ErrEvaluation):
		return KindEvaluation
	case errors.Is(err, ErrInput):
		return KindInput
	case errors.Is(err, ErrBudgetExceeded):
		return KindBudget
	}
	return KindInternal
}

// guidance returns the human-readable hint appended to error messages.
func guidance(kind ErrorKind) string {
	switch kind {
	case KindParse:
		return "check the function syntax, e.g. x^2 - 4x - 7 or ln(x) - 0.1*x^2"
	case KindEvaluation:
		return "the function is undefined at a visited point; try another initial guess"
	case KindSingularDerivative:
		return "the derivative vanished; try another initial guess"
	case KindInput:
		return "the initial guess must be a real number and the tolerance a positive real number"
	case KindBudget:
		return "the computation took too long; simplify the function or loosen the tolerance"
	}
	return ""
}
