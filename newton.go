package gonewton

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxIterations is the hard cap on Newton steps per run.
const MaxIterations = 1000

// Option configures a single FindRoot call.
type Option func(*options)

type options struct {
	precision Precision
	observer  func(IterationRecord)
	budget    time.Duration
}

// WithPrecision sets the number of significant digits used for every
// evaluation. Valid values are 1 through 17.
func WithPrecision(p Precision) Option {
	return func(o *options) { o.precision = p }
}

// WithObserver registers fn to be called synchronously with each trace record
// as it is appended, the seed included.
func WithObserver(fn func(IterationRecord)) Option {
	return func(o *options) { o.observer = fn }
}

// WithBudget bounds the wall-clock time of a run. Zero means no budget.
func WithBudget(d time.Duration) Option {
	return func(o *options) { o.budget = d }
}

// Request is the input collected by every front end.
type Request struct {
	Function     string  `json:"function"`
	InitialGuess float64 `json:"initial_guess"`
	Tolerance    float64 `json:"tolerance"`
}

// UnmarshalJSON accepts initial_guess and tolerance as JSON numbers or as
// numeric strings. A missing or non-numeric value is an *InputError.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw struct {
		Function     string          `json:"function"`
		InitialGuess json.RawMessage `json:"initial_guess"`
		Tolerance    json.RawMessage `json:"tolerance"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	x0, err := rawNumber("initial_guess", raw.InitialGuess)
	if err != nil {
		return err
	}
	tol, err := rawNumber("tolerance", raw.Tolerance)
	if err != nil {
		return err
	}
	*r = Request{Function: raw.Function, InitialGuess: x0, Tolerance: tol}
	return nil
}

func rawNumber(field string, raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, &InputError{Field: field, Msg: "is required"}
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}
	return numberParam(field, v)
}

// Validate checks the numeric inputs without touching the function text.
func (r Request) Validate() error {
	return validateInputs(r.InitialGuess, r.Tolerance)
}

// Solve parses req.Function and runs FindRoot. Failures are folded into a
// StatusError result, so Solve always returns a result.
func Solve(ctx context.Context, req Request, opts ...Option) Result {
	if err := req.Validate(); err != nil {
		return ResultFromError(err)
	}
	fn, err := Compile(req.Function)
	if err != nil {
		return ResultFromError(err)
	}
	res, err := FindRoot(ctx, fn, req.InitialGuess, req.Tolerance, opts...)
	if err != nil {
		return ResultFromError(err)
	}
	return res
}

// FindRoot runs the Newton-Raphson recurrence x_{n+1} = x_n - f(x_n)/f'(x_n)
// from x0 until two successive iterates are closer than tolerance, or until
// MaxIterations steps have been taken.
//
// Steps are rounded to the working precision before the tolerance test.
// Reaching the cap is a StatusNotConverged result, not an error. A zero or
// undefined derivative stops the run with *SingularDerivativeError; an
// undefined f stops it with *EvaluationError.
func FindRoot(ctx context.Context, fn Function, x0, tolerance float64, opts ...Option) (Result, error) {
	o := options{precision: DefaultPrecision}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateInputs(x0, tolerance); err != nil {
		return Result{}, err
	}
	if !o.precision.valid() {
		return Result{}, &InputError{Field: "precision", Msg: fmt.Sprintf("%d significant digits is outside 1..17", o.precision)}
	}
	var deadline time.Time
	if o.budget > 0 {
		deadline = time.Now().Add(o.budget)
	}
	p := o.precision

	x := x0
	fx, err := Evaluate(fn.Expr, x, p)
	if err != nil {
		return Result{}, err
	}
	dfx, err := Evaluate(fn.Derivative, x, p)
	if err != nil {
		return Result{}, &SingularDerivativeError{Iteration: 1, At: x, Cause: err}
	}

	trace := make([]IterationRecord, 0, 16)
	record := func(r IterationRecord) {
		trace = append(trace, r)
		if o.observer != nil {
			o.observer(r)
		}
	}
	record(IterationRecord{Index: 0, X: x, FX: fx, DFX: dfx})

	for i := 1; i <= MaxIterations; i++ {
		if err := checkBudget(ctx, deadline); err != nil {
			return Result{}, err
		}
		if dfx == 0 {
			return Result{}, &SingularDerivativeError{Iteration: i, At: x}
		}
		next := p.Round(x - fx/dfx)
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return Result{}, &EvaluationError{Expr: fn.Source, At: x, Reason: "Newton step is not finite"}
		}
		nfx, err := Evaluate(fn.Expr, next, p)
		if err != nil {
			return Result{}, err
		}
		ndfx, err := Evaluate(fn.Derivative, next, p)
		if err != nil {
			return Result{}, &SingularDerivativeError{Iteration: i + 1, At: next, Cause: err}
		}
		step := p.Round(math.Abs(next - x))
		record(IterationRecord{Index: i, X: next, FX: nfx, DFX: ndfx, Step: step})

		if step < tolerance {
			return Result{
				Status:     StatusConverged,
				Function:   fn.Source,
				Derivative: fn.Derivative.String(),
				Iterations: i,
				Root:       next,
				FRoot:      nfx,
				DFRoot:     ndfx,
				Trace:      trace,
			}, nil
		}
		x, fx, dfx = next, nfx, ndfx
	}

	return Result{
		Status:     StatusNotConverged,
		Function:   fn.Source,
		Derivative: fn.Derivative.String(),
		Iterations: MaxIterations,
		Message:    fmt.Sprintf("Maximum iterations (%d) reached without convergence.", MaxIterations),
	}, nil
}

func validateInputs(x0, tolerance float64) error {
	if math.IsNaN(x0) || math.IsInf(x0, 0) {
		return &InputError{Field: "initial_guess", Msg: "must be a finite real number"}
	}
	if math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
		return &InputError{Field: "tolerance", Msg: "must be a finite real number"}
	}
	if tolerance <= 0 {
		return &InputError{Field: "tolerance", Msg: fmt.Sprintf("must be positive, got %g", tolerance)}
	}
	return nil
}

func checkBudget(ctx context.Context, deadline time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrBudgetExceeded, err)
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		return ErrBudgetExceeded
	}
	return nil
}

// ParseNumber reads a numeric form field. Failures are *InputError for field.
func ParseNumber(field, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, &InputError{Field: field, Msg: fmt.Sprintf("%q is not a number", text)}
	}
	return v, nil
}
