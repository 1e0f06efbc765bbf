package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/njchilds90/gonewton"
	"github.com/njchilds90/gonewton/internal/cache"
	"github.com/njchilds90/gonewton/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Starts the JSON API:

  POST /api/newton-raphson/root
  GET  /ws        (streams the iteration table)
  GET  /healthz
  GET  /metrics

Results are cached in Redis when redis.addr is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				a.cfg.Server.Addr = addr
			}
			cfg := a.cfg

			opts := []server.Option{
				server.WithLogger(a.logger),
				server.WithBudget(cfg.Solver.Budget),
				server.WithPrecision(gonewton.Precision(cfg.Solver.Precision)),
				server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
				server.WithReadTimeout(cfg.Server.ReadTimeout),
			}
			if cfg.Redis.Addr != "" {
				c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
					cache.WithPrefix(cfg.Redis.Prefix),
					cache.WithTTL(cfg.Redis.TTL),
				)
				defer c.Close()
				if err := c.Ping(cmd.Context()); err != nil {
					a.logger.Warn("redis unavailable, results will not be cached until it recovers", "addr", cfg.Redis.Addr, "error", err)
				}
				opts = append(opts, server.WithCache(c))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(opts...).ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
		},
	}
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides server.addr)")
	return serveCmd
}

