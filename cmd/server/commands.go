package main

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/auth"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/spf13/cobra"
)

func newServeCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background task runner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.Run(cmd.Context())
		},
	}
}

var migrateCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateStatus,
	postgres.MigrateVersion,
}

func newMigrateCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate {" + strings.Join(migrateCommands, "|") + "}",
		Short: "Apply, roll back or inspect database migrations",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), validMigrateCommand),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := args[0]
			c.logger.Info("running migrations", "command", command)
			return c.withDB(cmd.Context(), func(db *sql.DB) error {
				return postgres.Migrate(cmd.Context(), db, command, c.logger)
			})
		},
	}
}

func validMigrateCommand(_ *cobra.Command, args []string) error {
	if !slices.Contains(migrateCommands, args[0]) {
		return fmt.Errorf("unknown migration command %q", args[0])
	}
	return nil
}

func newUserCommand(c *cli) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var email string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDB(cmd.Context(), func(db *sql.DB) error {
				users := service.NewUserService(postgres.NewPostgresUserStore(db, c.logger), c.logger)
				user, err := users.CreateUser(cmd.Context(), email)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), user.ID)
				return err
			})
		},
	}
	createCmd.Flags().StringVar(&email, "email", "", "email address of the new user")
	_ = createCmd.MarkFlagRequired("email")

	userCmd.AddCommand(createCmd)
	return userCmd
}

func newTokenCommand(c *cli) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user-id: %w", err)
			}

			jwtService, err := auth.NewJWTService(c.cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to create JWT service: %w", err)
			}

			token, err := jwtService.GenerateToken(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "id of the user the token authenticates")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
