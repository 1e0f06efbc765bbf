package gonewton

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Status names the terminal condition of a run.
type Status string

const (
	StatusConverged    Status = "converged"
	StatusNotConverged Status = "not_converged"
	StatusError        Status = "error"
)

// IterationRecord is one row of the trace. Index 0 is the initial guess.
type IterationRecord struct {
	Index int
	X     float64
	FX    float64
	DFX   float64
	Step  float64
}

// MarshalJSON renders the record with its index under "iteration". The keys
// f(x) and f'(x) are not expressible as struct tags.
func (r IterationRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"iteration":`)
	buf.WriteString(strconv.Itoa(r.Index))
	buf.WriteByte(',')
	if err := writeRow(&buf, r); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeRow writes the x, f(x), f'(x) and step members without braces.
func writeRow(buf *bytes.Buffer, r IterationRecord) error {
	fields := []struct {
		key string
		val float64
	}{{"x", r.X}, {"f(x)", r.FX}, {"f'(x)", r.DFX}, {"step", r.Step}}
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		v, err := json.Marshal(f.val)
		if err != nil {
			return err
		}
		buf.WriteString(strconv.Quote(f.key))
		buf.WriteByte(':')
		buf.Write(v)
	}
	return nil
}

// Result is the outcome of a run. Which fields are meaningful depends on
// Status: Root, FRoot, DFRoot and Trace only for StatusConverged, ErrorKind
// only for StatusError.
type Result struct {
	Status     Status
	Function   string
	Derivative string
	Iterations int
	Root       float64
	FRoot      float64
	DFRoot     float64
	Trace      []IterationRecord
	Message    string
	ErrorKind  ErrorKind
}

// Converged reports whether the run met the tolerance.
func (r Result) Converged() bool { return r.Status == StatusConverged }

// ResultFromError maps a failed run onto a StatusError result.
func ResultFromError(err error) Result {
	kind := KindOf(err)
	msg := err.Error()
	if g := guidance(kind); g != "" {
		msg += "; " + g
	}
	return Result{Status: StatusError, ErrorKind: kind, Message: msg}
}

type convergedJSON struct {
	Converged      bool            `json:"converged"`
	Function       string          `json:"function"`
	Derivative     string          `json:"derivative"`
	Iterations     int             `json:"iterations"`
	Root           float64         `json:"root_approximation"`
	FRoot          float64         `json:"function_value_at_root"`
	DFRoot         float64         `json:"derivative_value_at_root"`
	IterationTable json.RawMessage `json:"iteration_table"`
}

type notConvergedJSON struct {
	Converged  bool   `json:"converged"`
	Message    string `json:"message"`
	Iterations int    `json:"iterations"`
}

type errorJSON struct {
	Status  string    `json:"status"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// MarshalJSON renders the key-value form served to front ends. The iteration
// table is an object keyed by iteration index, in ascending order.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Status {
	case StatusConverged:
		table, err := marshalTrace(r.Trace)
		if err != nil {
			return nil, err
		}
		return json.Marshal(convergedJSON{
			Converged:      true,
			Function:       r.Function,
			Derivative:     r.Derivative,
			Iterations:     r.Iterations,
			Root:           r.Root,
			FRoot:          r.FRoot,
			DFRoot:         r.DFRoot,
			IterationTable: table,
		})
	case StatusNotConverged:
		return json.Marshal(notConvergedJSON{Message: r.Message, Iterations: r.Iterations})
	}
	return json.Marshal(errorJSON{Status: "error", Kind: r.ErrorKind, Message: r.Message})
}

func marshalTrace(trace []IterationRecord) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rec := range trace {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(rec.Index)))
		buf.WriteString(":{")
		if err := writeRow(&buf, rec); err != nil {
			return nil, err
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
