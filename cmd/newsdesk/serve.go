package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/helixml/newsdesk/infrastructure/api"
	"github.com/helixml/newsdesk/internal/config"
)

const shutdownTimeout = 15 * time.Second

func serveCmd(envFile *string) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                    Server host to bind to (default: 0.0.0.0)
  PORT                    Server port to listen on (default: 8080)
  DATA_DIR                Data directory (default: ~/.newsdesk)
  DB_URL                  Database URL (default: sqlite:///{data_dir}/newsdesk.db)
  LOG_LEVEL               Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT              Log format: pretty, json (default: pretty)
  API_KEYS                Comma-separated keys required for write requests
  CORS_ALLOWED_ORIGINS    Comma-separated allowed origins (default: *)
  PAGE_SIZE               Articles per page (default: 10, max: 100)

  NEWS_API_*              News source configuration
    KEY                   API key
    URL                   Endpoint (default: https://newsapi.org/v2/everything)
    LANGUAGE              Article language (default: zh)
    TIMEOUT               Request timeout in seconds (default: 30)
    RATE                  Requests per second (default: 1)

  FETCH_LIMIT             Articles requested per keyword (default: 5)
  FETCH_CONCURRENCY       Keywords fetched in parallel (default: 4)
  FETCH_INTERVAL          Minutes between background refreshes of every keyword (default: 0, disabled)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	client, cfg, err := openClient(envFile, serveOverrides(host, port)...)
	if err != nil {
		return err
	}
	defer closeClient(client)

	logger := client.Logger()
	logger.LogAttrs(context.Background(), slog.LevelInfo, "starting newsdesk",
		append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)...)

	api.Version = version
	server := api.NewAPIServer(client, cfg.CORSOrigins())

	fetchCtx, stopFetch := context.WithCancel(context.Background())
	defer stopFetch()
	client.Periodic.Start(fetchCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ListenAndServe(cfg.Addr())
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-sigChan:
		logger.Info("received signal", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}
	return <-errChan
}

// serveOverrides turns command line flags into config overrides.
func serveOverrides(host string, port int) []config.AppConfigOption {
	var opts []config.AppConfigOption
	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}
	return opts
}
