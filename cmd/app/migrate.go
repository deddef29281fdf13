package main

import (
	"lifequest/internal/infrastructure/database"
	"lifequest/internal/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer database.Close(db)
		logger.Info("migrations applied")
		return nil
	},
}
