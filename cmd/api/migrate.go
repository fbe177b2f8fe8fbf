package main

import (
	"github.com/spf13/cobra"

	"crm-commerce/internal/config"
	"crm-commerce/internal/database"
	"crm-commerce/internal/logging"
)

func migrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update the relational schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New(cfg.LogLevel, cfg.LogPretty)

			db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info().Str("driver", cfg.DBDriver).Msg("schema migrated")
			return nil
		},
	}
}
