package main

import (
	"fmt"
	"os"

	"lifequest/config"
	"lifequest/internal/infrastructure/database"
	"lifequest/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "lifequest",
	Short: "Self-improvement tracker API",
	Long: `lifequest serves the habit, task and journal API with streaks,
points, badges and analytics.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing app.env")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, starts logging and opens the migrated
// database shared by every command.
func bootstrap() (config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.LogDir}); err != nil {
		return cfg, nil, fmt.Errorf("failed to init logger: %w", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return cfg, nil, err
	}
	logger.Info("running migrations", "driver", cfg.DBDriver)
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return cfg, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return cfg, db, nil
}
