package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"location-pages/internal/location_pages/helper"
	"location-pages/internal/middleware/logger"
	"location-pages/pkg/config"
)

var (
	configPath string
	envFile    string

	cfg *config.Config
	log *zap.Logger
)

// rootCmd loads .env, the YAML config and the logger before any subcommand runs.
var rootCmd = &cobra.Command{
	Use:          "location-pages",
	Short:        "Serve location-based service pages",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}

		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log, err = logger.NewLogger(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if err := helper.ConfigureTimeLocation(cfg.Content.Timezone); err != nil {
			log.Warn("Unknown timezone, using server local time",
				zap.String("timezone", cfg.Content.Timezone),
				zap.Error(err),
			)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the config")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}
