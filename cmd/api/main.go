package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crm-commerce/internal/config"
)

func main() {
	cfg := config.LoadConfig()

	rootCmd := &cobra.Command{
		Use:           "api",
		Short:         "CRM and storefront API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	rootCmd.AddCommand(
		serveCommand(cfg),
		migrateCommand(cfg),
		tokenCommand(cfg),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
}
