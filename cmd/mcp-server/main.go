// cmd/mcp-server: Standalone tool server for gonewton
//
// Exposes the gonewton tools to AI agent frameworks, either as a plain HTTP
// endpoint or as a Model Context Protocol server.
//
// Usage:
//
//	go run ./cmd/mcp-server -transport http -port 8080
//	go run ./cmd/mcp-server -transport stdio
//	go run ./cmd/mcp-server -transport sse -port 8081
//
// HTTP transport:
//
//	POST /tool    execute a tool call
//	GET  /schema  tool schema for agent registration
//	GET  /health  health check
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/njchilds90/gonewton"
	"github.com/njchilds90/gonewton/internal/logging"
	"github.com/njchilds90/gonewton/internal/mcpserver"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	transport := flag.String("transport", "http", "Transport: http, stdio or sse")
	port := flag.Int("port", 8080, "Port to listen on (http and sse)")
	budget := flag.Duration("budget", 5*time.Second, "Wall-clock budget per find_root call")
	level := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	lvl, err := logging.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.New(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []gonewton.Option{gonewton.WithBudget(*budget)}

	switch *transport {
	case "http":
		err = serveHTTP(ctx, logger, *port, opts)
	case "stdio":
		err = mcpserver.New(logger, opts...).ServeStdio()
	case "sse":
		err = mcpserver.New(logger, opts...).ServeSSE(ctx, *port)
	default:
		err = fmt.Errorf("unknown transport %q", *transport)
	}
	if err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, opts []gonewton.Option) *http.ServeMux {
	mux := http.NewServeMux()

	// POST /tool: handle a tool call
	mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in /tool", "panic", rec, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		dec.UseNumber()

		var req gonewton.ToolRequest
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		// Ensure there's no trailing junk.
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return
		}

		writeJSON(w, http.StatusOK, gonewton.HandleToolCall(r.Context(), req, opts...))
	})

	// GET /schema: return tool schema for agent registration
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, gonewton.MCPToolSpec())
	})

	// GET /health: liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"version": gonewton.Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
	return mux
}

func serveHTTP(ctx context.Context, logger *slog.Logger, port int, opts []gonewton.Option) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(logger, opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("gonewton tool server listening", "address", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
