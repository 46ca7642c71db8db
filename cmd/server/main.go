// Package main implements the lingo API server and its operator commands:
// serving HTTP, running schema migrations, creating users and minting
// bearer tokens.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(newCLI()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// cli carries the collaborators shared by every command. The function
// fields are replaced in tests.
type cli struct {
	loadConfig func() (*config.Config, error)
	openDB     func(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error)
	setupLog   func(cfg config.ServerConfig) (*slog.Logger, error)
	out        io.Writer

	// Populated by the root command before any subcommand runs.
	cfg    *config.Config
	logger *slog.Logger
}

func newCLI() *cli {
	return &cli{
		loadConfig: config.Load,
		openDB: func(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
			return postgres.Open(ctx, cfg.URL, cfg.MaxOpenConns)
		},
		setupLog: logger.Setup,
		out:      os.Stdout,
	}
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "lingo-api",
		Short:         "Vocabulary learning API with LLM enrichment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load()
		},
	}
	root.SetOut(c.out)

	root.AddCommand(
		newServeCommand(c),
		newMigrateCommand(c),
		newUserCommand(c),
		newTokenCommand(c),
	)
	return root
}

// load reads configuration and installs the logger.
func (c *cli) load() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := c.setupLog(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"environment", cfg.Server.Environment,
		"llm_provider", cfg.LLM.Provider)

	c.cfg = cfg
	c.logger = log
	return nil
}

// withDB opens the database for the duration of fn.
func (c *cli) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	db, err := c.openDB(ctx, c.cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			c.logger.Error("error closing database connection", "error", err)
		}
	}()
	return fn(db)
}
