package main

import (
	"fmt"

	"lifequest/internal/infrastructure/database"
	"lifequest/internal/infrastructure/repository"
	"lifequest/internal/infrastructure/security"
	"lifequest/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the demo account with fresh sample data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer database.Close(db)

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		cal, err := newCalendar(cfg)
		if err != nil {
			return err
		}

		s := seed.New(repository.NewStore(db), security.NewPasswordHasher(), engine, cal)
		if _, err := s.Run(cmd.Context()); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sample data seeded. Login with: %s / %s\n", seed.DemoEmail, seed.DemoPassword)
		return nil
	},
}
