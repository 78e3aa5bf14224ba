package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/evcraddock/emprende-tacna/internal/logging"
	"github.com/evcraddock/emprende-tacna/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and API",
		Long: `Start an HTTP server for the map page and the JSON API.

Environment (a .env file in the working directory is loaded first):
  ET_DEV_MODE=true               text logs at debug level
  ET_REQUIRE_AUTH=true           writes need an API key (et keys create)
  ET_BASE_URL                    public URL of the server
  ET_AUTH_FAILURES_PER_MIN       invalid keys allowed per client per minute`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, port int) error {
	envErr := godotenv.Load(".env")
	cfg := web.ConfigFromEnv()
	logging.Setup(cfg.DevMode)
	if envErr == nil {
		slog.Debug("loaded .env")
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(cmd.ErrOrStderr(), database)

	srv, err := web.NewServer(database, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, port)
}
