package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/helixml/newsdesk"
	"github.com/helixml/newsdesk/internal/log"
	"github.com/helixml/newsdesk/internal/mcp"
)

func stdioCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants list the tracked industries and keywords and filter
stored articles. Configuration is loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(*envFile)
		},
	}
}

func runStdio(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// stdout carries the protocol
	logger := log.New(os.Stderr, cfg.LogFormat(), cfg.LogLevel())
	logger.Info("starting MCP server",
		slog.String("version", version),
		slog.String("data_dir", cfg.DataDir()),
	)

	client, err := newsdesk.New(clientOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("create newsdesk client: %w", err)
	}
	defer closeClient(client)

	server := mcp.NewServer(client.Entities, client.Filter, client.PageSize(), version, logger)
	return server.ServeStdio()
}
