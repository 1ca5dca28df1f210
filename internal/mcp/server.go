// ABOUTME: MCP server setup for the training coach.
// ABOUTME: Wraps the MCP server around a coach service bound to one user.
package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/trainer/internal/coach"
	"github.com/harperreed/trainer/internal/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Options configures NewServer.
type Options struct {
	UserID string
	Logger *log.Logger
}

// Server wraps the MCP server with coach access.
type Server struct {
	mcpServer *mcp.Server
	svc       *coach.Service
	userID    string
	logger    *log.Logger
}

// NewServer creates a new MCP server over svc.
func NewServer(svc *coach.Service, opts Options) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "trainer",
			Version: Version,
		},
		nil,
	)

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		userID:    opts.UserID,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting", "user", s.userID)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
