package main

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpserver "github.com/ylchen07/jflow/internal/mcp"
	"github.com/ylchen07/jflow/internal/state"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the issue workflow as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := o.load(cmd)
			if err != nil {
				return err
			}

			engine, err := newEngine(cfg, logger, false)
			if err != nil {
				return err
			}

			srv := mcpserver.NewServer(mcpserver.Dependencies{
				Engine:  engine,
				Session: state.NewSession(),
				SiteURL: cfg.Atlassian.Site,
				Version: version,
				Logger:  logger,
			})

			if err := server.ServeStdio(srv); err != nil {
				logger.Error("stdio server terminated", slog.Any("error", err))
				return err
			}
			return nil
		},
	}
}
