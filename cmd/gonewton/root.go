package main

import (
	"log/slog"
	"os"

	"github.com/njchilds90/gonewton/internal/config"
	"github.com/njchilds90/gonewton/internal/logging"
	"github.com/spf13/cobra"
)

// app carries what PersistentPreRunE resolves for the subcommands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "gonewton",
		Short: "Newton-Raphson root finder",
		Long: `gonewton finds a root of a single-variable real function f(x) with the
Newton-Raphson method, starting from an initial guess and stopping once two
successive iterates differ by less than a tolerance.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				cfg.Log.Level = lvl
			}
			level, err := logging.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.NewWriter(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default "+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newSolveCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
