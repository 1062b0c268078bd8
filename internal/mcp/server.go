package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ylchen07/jflow/internal/state"
	"github.com/ylchen07/jflow/internal/workflow"
)

// Dependencies bundles what the MCP server needs.
type Dependencies struct {
	Engine  *workflow.Engine
	Session *state.Session
	SiteURL string
	Version string
	Logger  *slog.Logger
}

// NewServer builds an MCP server exposing the workflow engine as tools.
func NewServer(deps Dependencies) *server.MCPServer {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}

	srv := server.NewMCPServer(
		"jflow",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithInstructions("Jira issue workflow tools. Projects, issue types, components, "+
			"priorities, versions and transitions are given by name. Tools cannot prompt, so "+
			"required transition fields must be passed in the fields argument or configured."),
		server.WithRecovery(),
	)

	if deps.Session == nil {
		deps.Session = state.NewSession()
	}

	if deps.Engine != nil {
		NewWorkflowTools(srv, deps.Engine, deps.Session, deps.SiteURL, deps.Logger)
	}

	return srv
}
