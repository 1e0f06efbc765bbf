package gonewton

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ============================================================
// Tool Interface
// ============================================================

// ToolRequest is a named call with loosely typed parameters, as received from
// agents and JSON front ends.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Version is reported by the CLI and the MCP servers.
const Version = "0.1.0"

// ToolNames lists the tools HandleToolCall understands.
var ToolNames = []string{"find_root", "parse", "differentiate", "evaluate", "mcp_spec"}

// HandleToolCall dispatches req. Failures are reported in ToolResponse.Error;
// a non-converged or failed find_root is a successful call whose Result says so.
func HandleToolCall(ctx context.Context, req ToolRequest, opts ...Option) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, &InputError{Field: key, Msg: "is required"}
		}
		return numberParam(key, v)
	}
	errResp := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }
	// find_root reports bad numbers in its result, like any other failed run.
	inputResp := func(err error) ToolResponse {
		res := ResultFromError(err)
		return ToolResponse{Result: res, String: res.Message}
	}

	switch req.Tool {
	case "find_root":
		text, err := getString("function")
		if err != nil {
			return errResp(err)
		}
		x0, err := getNumber("initial_guess")
		if err != nil {
			return inputResp(err)
		}
		tol, err := getNumber("tolerance")
		if err != nil {
			return inputResp(err)
		}
		if _, ok := req.Params["precision"]; ok {
			digits, err := getNumber("precision")
			if err != nil {
				return inputResp(err)
			}
			if math.IsNaN(digits) || math.IsInf(digits, 0) || digits != math.Trunc(digits) {
				return inputResp(&InputError{Field: "precision", Msg: fmt.Sprintf("must be a whole number of digits, got %v", digits)})
			}
			if digits < 1 || digits > 17 {
				return inputResp(&InputError{Field: "precision", Msg: fmt.Sprintf("%v significant digits is outside 1..17", digits)})
			}
			opts = append(opts[:len(opts):len(opts)], WithPrecision(Precision(digits)))
		}
		res := Solve(ctx, Request{Function: text, InitialGuess: x0, Tolerance: tol}, opts...)
		return ToolResponse{Result: res, String: summarize(res)}

	case "parse":
		text, err := getString("function")
		if err != nil {
			return errResp(err)
		}
		e, err := Parse(text)
		if err != nil {
			return errResp(err)
		}
		return ToolResponse{Result: ToJSON(e), String: e.String(), LaTeX: e.LaTeX()}

	case "differentiate":
		text, err := getString("function")
		if err != nil {
			return errResp(err)
		}
		fn, err := Compile(text)
		if err != nil {
			return errResp(err)
		}
		return ToolResponse{Result: ToJSON(fn.Derivative), String: fn.Derivative.String(), LaTeX: fn.Derivative.LaTeX()}

	case "evaluate":
		text, err := getString("function")
		if err != nil {
			return errResp(err)
		}
		at, err := getNumber("at")
		if err != nil {
			return errResp(err)
		}
		fn, err := Compile(text)
		if err != nil {
			return errResp(err)
		}
		fx, dfx, err := fn.At(at, DefaultPrecision)
		if err != nil {
			return errResp(err)
		}
		return ToolResponse{
			Result: map[string]interface{}{"x": at, "f(x)": fx, "f'(x)": dfx},
			String: fmt.Sprintf("f(%g) = %g, f'(%g) = %g", at, fx, at, dfx),
		}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// numberParam accepts JSON numbers and numeric strings, the forms web forms
// and agents send.
func numberParam(key string, v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, &InputError{Field: key, Msg: fmt.Sprintf("%q is not a number", n.String())}
		}
		return f, nil
	case string:
		return ParseNumber(key, n)
	}
	return 0, &InputError{Field: key, Msg: fmt.Sprintf("must be a number, got %T", v)}
}

func summarize(r Result) string {
	if r.Converged() {
		return "converged after " + strconv.Itoa(r.Iterations) + " iterations: x = " +
			strconv.FormatFloat(r.Root, 'g', -1, 64)
	}
	return r.Message
}

// MCPToolSpec returns the tool schema for agent registration, as JSON.
func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("find_root", "Find a root of f(x) with Newton-Raphson. Optional: precision (significant digits, default 11)",
			[]string{"function", "initial_guess", "tolerance"},
			map[string]string{"function": "string", "initial_guess": "number", "tolerance": "number", "precision": "integer"}),
		ts("parse", "Parse f(x) and return its expression tree, text and LaTeX forms",
			[]string{"function"}, map[string]string{"function": "string"}),
		ts("differentiate", "First derivative d/dx of f(x)",
			[]string{"function"}, map[string]string{"function": "string"}),
		ts("evaluate", "Evaluate f(x) and f'(x) at a point",
			[]string{"function", "at"}, map[string]string{"function": "string", "at": "number"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
