package main

import (
	"context"
	"fmt"
	"time"

	dbpostgres "resume-screener/internal/database/postgres"
	"resume-screener/internal/database/seeder"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo accounts and job postings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		password, _ := cmd.Flags().GetString("password")
		return seed(cmd.Context(), password)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("password", "password123", "password for the demo accounts")
}

func seed(parent context.Context, password string) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(parent, time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Error("connect database", zap.Error(err))
		return err
	}
	defer db.Close()

	if err := (seeder.Runner{Seeders: seeder.Defaults(password), Logger: log}).Run(ctx, db); err != nil {
		log.Error("seed failed", zap.Error(err))
		return err
	}
	log.Info("seed complete",
		zap.String("hr_email", seeder.DemoHREmail),
		zap.String("job_seeker_email", seeder.DemoJobSeekerEmail),
	)
	return nil
}
