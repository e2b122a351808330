package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/toria/internal/cli"
	"github.com/aretw0/toria/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "toria",
	Short: "Toria is a conversational travel assistant",
	Long: `Toria answers travel questions in three modes (profile_dayplans, start_my_day
and general), plans day trips, curates reels and schedules trip notifications.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML configuration file (default \"toria.yaml\" if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Override log format (pretty, text, json)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the file, the environment and the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.LogFormat = format
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	return cfg, cli.NewLogger(cfg, debug), nil
}
