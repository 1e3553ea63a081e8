package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/voltray/internal/ipc"
)

const (
	ServerName    = "voltray"
	ServerVersion = "0.1.0"
)

// Daemon is the IPC surface the tools delegate to. *ipc.Client satisfies it.
type Daemon interface {
	Toggle() (string, error)
	Close() (bool, error)
	GetStatus() (*ipc.StatusData, error)
}

// Server is the MCP server that lets agents drive the running daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server backed by daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_mixer",
		Description: "Open the volume mixer next to the screen corner under the pointer, or close it if voltray already has it open. Returns \"opened\" or \"closed\".",
	}, s.handleToggleMixer)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_mixer",
		Description: "Close the volume mixer if voltray has it open. Does nothing when no mixer is open.",
	}, s.handleCloseMixer)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "mixer_status",
		Description: "Report whether the volume mixer is open, which display it is on, where it is anchored and how long it has been open.",
	}, s.handleMixerStatus)
}
