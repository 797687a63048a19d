package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/feedbox/internal/api"
	"github.com/jon4hz/feedbox/internal/config"
	"github.com/jon4hz/feedbox/internal/database"
	"github.com/jon4hz/feedbox/internal/engine"
	"github.com/jon4hz/feedbox/internal/gravatar"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Feedbox server",
	Long:  `Start the Feedbox web server together with its background jobs.`,
	Example: `feedbox serve --config config.yml
feedbox serve -c /path/to/config.yml --log-level debug
`,
	RunE: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := gravatar.Validate(cfg.Gravatar); err != nil {
		return fmt.Errorf("invalid gravatar config: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close() //nolint: errcheck

	engine, err := engine.New(cfg, db)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	server, err := api.New(cfg, engine)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	g.Go(server.Run)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down gracefully...")
		return server.Shutdown(context.WithoutCancel(gctx))
	})

	log.Info("feedbox started successfully")
	return g.Wait()
}

// openDatabase creates the database directory if needed and opens the store.
func openDatabase(cfg *config.Config) (*database.Client, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}
