package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/d-krupke/thesis-manager/config"
	"github.com/d-krupke/thesis-manager/internal/repositories/apitoken"
	"github.com/d-krupke/thesis-manager/pkg/database"
	"github.com/d-krupke/thesis-manager/pkg/logging"
)

func main() {
	root := &cobra.Command{
		Use:          "tokens",
		Short:        "Manage API tokens for the thesis manager",
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "create <username>",
		Short: "Issue a new API token and print the key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, repo *apitoken.Repository) error {
				key, token, err := repo.Create(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Token %s issued for %s.\n", token.ID, token.Username)
				fmt.Printf("Key (shown only once): %s\n", key)
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "revoke <token-id>",
		Short: "Revoke an API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, repo *apitoken.Repository) error {
				if err := repo.Revoke(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Token %s revoked.\n", args[0])
				return nil
			})
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func withRepository(ctx context.Context, fn func(context.Context, *apitoken.Repository) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.PrettyLogs)

	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return fn(ctx, apitoken.NewRepository(db, logger))
}
