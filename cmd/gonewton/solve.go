package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/njchilds90/gonewton"
	"github.com/njchilds90/gonewton/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Prompt defaults, offered when a value is left blank.
const (
	defaultFunction  = "x^2 - 4x - 7"
	defaultTolerance = "0.0001"
	defaultGuess     = "0"
)

var errSolveFailed = errors.New("solve failed")

// isTerminal reports whether v is a file attached to a terminal.
var isTerminal = func(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newSolveCmd(a *app) *cobra.Command {
	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Find a root of f(x)",
		Long: `Runs Newton-Raphson on f(x) from an initial guess until two successive
iterates differ by less than the tolerance, or 1000 iterations have been taken.

Inputs missing from the flags are prompted for when stdin is a terminal.`,
		Example: `  gonewton solve -f "x^2 - 2" -g 1 -t 1e-6
  gonewton solve -f "ln(x) - 0.1x^2 + 0.05 sin(x) - 0.05" -g 1 -t 1e-4 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, _ := cmd.Flags().GetString("function")
			guess, _ := cmd.Flags().GetString("guess")
			tol, _ := cmd.Flags().GetString("tolerance")
			asJSON, _ := cmd.Flags().GetBool("json")
			plain, _ := cmd.Flags().GetBool("plain")

			precision := a.cfg.Solver.Precision
			if cmd.Flags().Changed("precision") {
				precision, _ = cmd.Flags().GetInt("precision")
			}

			if fn == "" || guess == "" || tol == "" {
				if !isTerminal(cmd.InOrStdin()) {
					return missingInput(fn, guess, tol)
				}
				p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()}
				var err error
				if fn, err = p.askIfEmpty(fn, "Function f(x)", defaultFunction); err != nil {
					return err
				}
				if tol, err = p.askIfEmpty(tol, "Tolerance", defaultTolerance); err != nil {
					return err
				}
				if guess, err = p.askIfEmpty(guess, "Initial guess", defaultGuess); err != nil {
					return err
				}
			}

			resp := gonewton.HandleToolCall(cmd.Context(), gonewton.ToolRequest{
				Tool: "find_root",
				Params: map[string]interface{}{
					"function":      fn,
					"initial_guess": guess,
					"tolerance":     tol,
					"precision":     precision,
				},
			}, gonewton.WithBudget(a.cfg.Solver.Budget))
			if resp.Error != "" {
				return errors.New(resp.Error)
			}
			res, ok := resp.Result.(gonewton.Result)
			if !ok {
				return fmt.Errorf("unexpected find_root result %T", resp.Result)
			}
			a.logger.Debug("solve finished", "status", res.Status, "iterations", res.Iterations)

			out := cmd.OutOrStdout()
			if asJSON {
				body, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(body))
			} else {
				r, err := render.New(out, plain || !isTerminal(out))
				if err != nil {
					return err
				}
				if err := r.Result(res); err != nil {
					return err
				}
			}

			if res.Status == gonewton.StatusError {
				// Already reported above.
				cmd.SilenceErrors = true
				return errSolveFailed
			}
			return nil
		},
	}

	solveCmd.Flags().StringP("function", "f", "", "The function of x, e.g. \"x^2 - 4x - 7\"")
	solveCmd.Flags().StringP("guess", "g", "", "Initial guess x0")
	solveCmd.Flags().StringP("tolerance", "t", "", "Convergence tolerance, e.g. 0.0001")
	solveCmd.Flags().Int("precision", int(gonewton.DefaultPrecision), "Significant digits used in evaluation (1-17)")
	solveCmd.Flags().Bool("json", false, "Print the result as JSON")
	solveCmd.Flags().Bool("plain", false, "Disable styled output")
	return solveCmd
}

func missingInput(fn, guess, tol string) error {
	var missing []string
	if fn == "" {
		missing = append(missing, "--function")
	}
	if guess == "" {
		missing = append(missing, "--guess")
	}
	if tol == "" {
		missing = append(missing, "--tolerance")
	}
	return &gonewton.InputError{
		Field: "arguments",
		Msg:   strings.Join(missing, ", ") + " required when stdin is not a terminal",
	}
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// askIfEmpty prompts for label unless current is already set. A blank answer
// selects def.
func (p *prompter) askIfEmpty(current, label, def string) (string, error) {
	if current != "" {
		return current, nil
	}
	fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	if line = strings.TrimSpace(line); line == "" {
		return def, nil
	}
	return line, nil
}
