// Package render formats solver results for a terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/njchilds90/gonewton"
)

// Markdown returns the result as a Markdown report: a summary followed by the
// iteration table.
func Markdown(res gonewton.Result) string {
	var sb strings.Builder
	switch res.Status {
	case gonewton.StatusConverged:
		fmt.Fprintf(&sb, "## Root of f(x) = %s\n\n", res.Function)
		fmt.Fprintf(&sb, "- f'(x) = %s\n", res.Derivative)
		fmt.Fprintf(&sb, "- Root: **%s**\n", num(res.Root))
		fmt.Fprintf(&sb, "- f(root): %s\n", num(res.FRoot))
		fmt.Fprintf(&sb, "- f'(root): %s\n", num(res.DFRoot))
		fmt.Fprintf(&sb, "- Iterations: %d\n\n", res.Iterations)

		sb.WriteString("| n | x | f(x) | f'(x) | step |\n")
		sb.WriteString("|---:|---:|---:|---:|---:|\n")
		for _, r := range res.Trace {
			fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n",
				r.Index, num(r.X), num(r.FX), num(r.DFX), num(r.Step))
		}
	case gonewton.StatusNotConverged:
		fmt.Fprintf(&sb, "## No root found for f(x) = %s\n\n", res.Function)
		fmt.Fprintf(&sb, "%s\n\nTry another initial guess.\n", res.Message)
	default:
		fmt.Fprintf(&sb, "## Error (%s)\n\n%s\n", res.ErrorKind, res.Message)
	}
	return sb.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Verdict is a one-line coloured summary.
func Verdict(res gonewton.Result, p termenv.Profile) string {
	switch res.Status {
	case gonewton.StatusConverged:
		return p.String(fmt.Sprintf("converged: x = %s after %d iterations", num(res.Root), res.Iterations)).
			Foreground(p.Color("#34d399")).Bold().String()
	case gonewton.StatusNotConverged:
		return p.String("not converged: " + res.Message).Foreground(p.Color("#fbbf24")).String()
	}
	return p.String("error: " + res.Message).Foreground(p.Color("#f87171")).String()
}

// Renderer writes results to a terminal.
type Renderer struct {
	out     io.Writer
	profile termenv.Profile
	md      func(string) (string, error)
}

// New returns a renderer for w. With plain set, Markdown is written as is and
// no colour is used.
func New(w io.Writer, plain bool) (*Renderer, error) {
	r := &Renderer{out: w, profile: termenv.Ascii}
	if plain {
		return r, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	r.md = tr.Render
	r.profile = termenv.NewOutput(w).Profile
	return r, nil
}

// Result writes the report and the verdict line.
func (r *Renderer) Result(res gonewton.Result) error {
	report := Markdown(res)
	if r.md != nil {
		out, err := r.md(report)
		if err != nil {
			return fmt.Errorf("failed to render result: %w", err)
		}
		report = out
	}
	if _, err := io.WriteString(r.out, report); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.out, Verdict(res, r.profile))
	return err
}
