package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/njchilds90/gonewton"
	"github.com/njchilds90/gonewton/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes find_root, differentiate and evaluate as MCP tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			transport := a.cfg.MCP.Transport
			if cmd.Flags().Changed("transport") {
				transport, _ = cmd.Flags().GetString("transport")
			}
			port := a.cfg.MCP.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}

			srv := mcpserver.New(a.logger,
				gonewton.WithBudget(a.cfg.Solver.Budget),
				gonewton.WithPrecision(gonewton.Precision(a.cfg.Solver.Precision)),
			)

			switch transport {
			case "stdio":
				// Logs go to stderr so they never corrupt JSON-RPC on stdout.
				a.logger.Info("starting MCP server (stdio)")
				return srv.ServeStdio()
			case "sse":
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return srv.ServeSSE(ctx, port)
			}
			return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
		},
	}
	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8081, "Port for the sse transport")
	return mcpCmd
}
