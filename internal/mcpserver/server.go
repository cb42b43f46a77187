// Package mcpserver exposes the DDALAB manager operations as MCP tools so
// that an assistant can inspect and drive an installation.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"ddalabctl/internal/backend"
	"ddalabctl/pkg/logging"
)

const subsystem = "MCPServer"

// Transport selects how the tool server is reached.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportSSE   Transport = "sse"
)

// ParseTransport validates a transport name.
func ParseTransport(s string) (Transport, error) {
	switch Transport(s) {
	case TransportStdio, TransportSSE:
		return Transport(s), nil
	}
	return "", fmt.Errorf("unknown transport %q (want stdio or sse)", s)
}

// Server serves the DDALAB tools over one transport.
type Server struct {
	mcp   *server.MCPServer
	tools *Tools
}

// New creates a tool server backed by b.
func New(b backend.Backend, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"ddalabctl",
		version,
		server.WithToolCapabilities(true),
	)
	t := NewTools(b)
	s.AddTools(t.ServerTools()...)
	return &Server{mcp: s, tools: t}
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve blocks until the transport stops or ctx is cancelled. addr is only
// used by the SSE transport.
func (s *Server) Serve(ctx context.Context, transport Transport, addr string) error {
	switch transport {
	case TransportStdio:
		logging.Info(subsystem, "Serving %d tools on stdio", len(s.tools.ServerTools()))
		return server.ServeStdio(s.mcp)
	case TransportSSE:
		return s.serveSSE(ctx, addr)
	}
	return fmt.Errorf("unknown transport %q", transport)
}

func (s *Server) serveSSE(ctx context.Context, addr string) error {
	sse := server.NewSSEServer(
		s.mcp,
		server.WithBaseURL("http://"+addr),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)

	errCh := make(chan error, 1)
	go func() {
		logging.Info(subsystem, "Serving tools over SSE on %s", addr)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			logging.Error(subsystem, err, "Failed to stop SSE server")
			return err
		}
		return nil
	}
}
