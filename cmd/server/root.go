package main

import (
	"log"

	"resume-screener/internal/config"
	"resume-screener/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "resume-screener",
	Short: "resume-screener serves the HR screening API",
	// Running the binary without a subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}
}

// loadConfig reads the environment and builds the logger. The --debug and
// --json flags win over LOG_DEBUG and LOG_JSON.
func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if viper.GetBool("debug") {
		cfg.App.LogDebug = true
	}
	if viper.GetBool("json") {
		cfg.App.LogJSON = true
	}

	l, err := logger.New(cfg.App.LogJSON, cfg.App.LogDebug)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, l.With(zap.String("app", cfg.App.AppName), zap.String("env", cfg.App.Environment)), nil
}
