// Package mcpserver exposes the root finder as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/njchilds90/gonewton"
)

// Server wraps the tool surface of package gonewton.
type Server struct {
	mcpServer *server.MCPServer
	logger    *slog.Logger
	opts      []gonewton.Option
}

// New creates the MCP server. opts apply to every find_root call.
func New(logger *slog.Logger, opts ...gonewton.Option) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("gonewton-mcp", gonewton.Version),
		logger:    logger,
		opts:      opts,
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx
// is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
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
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: find_root
	s.mcpServer.AddTool(mcp.NewTool("find_root",
		mcp.WithDescription("Find a root of a single-variable real function f(x) with the Newton-Raphson method. Returns the root, f and f' at the root, and the iteration table."),
		mcp.WithString("function", mcp.Required(), mcp.Description("The function of x, e.g. x^2 - 2 or ln(x) - 0.1*x^2")),
		mcp.WithNumber("initial_guess", mcp.Required(), mcp.Description("Starting point x0")),
		mcp.WithNumber("tolerance", mcp.Required(), mcp.Description("Stop when two successive iterates differ by less than this (must be > 0)")),
		mcp.WithNumber("precision", mcp.Description("Significant digits used in evaluation, 1 to 17 (default 11)")),
	), s.handle("find_root"))

	// TOOL: differentiate
	s.mcpServer.AddTool(mcp.NewTool("differentiate",
		mcp.WithDescription("Return the symbolic first derivative d/dx of f(x)."),
		mcp.WithString("function", mcp.Required(), mcp.Description("The function of x")),
	), s.handle("differentiate"))

	// TOOL: evaluate
	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate f(x) and f'(x) at a point."),
		mcp.WithString("function", mcp.Required(), mcp.Description("The function of x")),
		mcp.WithNumber("at", mcp.Required(), mcp.Description("The value of x")),
	), s.handle("evaluate"))
}

// handle adapts a gonewton tool to an MCP handler. Failed runs are reported as
// tool errors so the calling model sees the guidance text.
func (s *Server) handle(tool string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := gonewton.HandleToolCall(ctx, gonewton.ToolRequest{
			Tool:   tool,
			Params: request.GetArguments(),
		}, s.opts...)

		if resp.Error != "" {
			s.logger.Debug("MCP tool failed", "tool", tool, "error", resp.Error)
			return mcp.NewToolResultError(resp.Error), nil
		}
		if res, ok := resp.Result.(gonewton.Result); ok && res.Status == gonewton.StatusError {
			s.logger.Debug("MCP tool failed", "tool", tool, "kind", res.ErrorKind)
			return mcp.NewToolResultError(res.Message), nil
		}

		body, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s result: %w", tool, err)
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
