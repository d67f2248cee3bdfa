package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"relicpanel/internal/app"
	"relicpanel/internal/config"
	"relicpanel/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "relicpanel",
	Short: "Rust-Relics feature showcase with a spoken AI panel discussion",
	Long: `relicpanel presents the Rust-Relics feature cards and runs a simulated
panel discussion about them. Each line is generated by Gemini and spoken
through a local text-to-speech engine.

Without a subcommand the terminal UI starts.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/relicpanel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// setup loads configuration, configures logging and builds the app.
// logFile forces file logging, used when the TUI owns the terminal.
func setup(ctx context.Context, logFile string) (*app.App, zerolog.Logger, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	file := cfg.Log.File
	if file == "" {
		file = logFile
	}
	logger, closeLog, err := logging.Setup(logging.Options{Level: cfg.Log.Level, File: file})
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, zerolog.Nop(), nil, err
	}
	a.Start(ctx)

	cleanup := func() {
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("shutdown")
		}
		_ = closeLog()
	}
	return a, logger, cleanup, nil
}
