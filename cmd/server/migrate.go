package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resume-screener/internal/database/migration"
	dbpostgres "resume-screener/internal/database/postgres"
	"resume-screener/migrations"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: "Apply pending database migrations. The SQL files compiled into the binary " +
		"are used unless --dir or MIGRATIONS_DIR points at a directory of V<n>__<name>.sql files.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return migrate(cmd.Context(), dir)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().String("dir", "", "read migrations from this directory instead of the embedded set")
}

func migrate(parent context.Context, dir string) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Error("connect database", zap.Error(err))
		return err
	}
	defer db.Close()

	if dir = strings.TrimSpace(dir); dir == "" {
		dir = cfg.Database.MigrationsDir
	}
	r := migration.Runner{FS: migrations.FS, Logger: log.Named("migrate")}
	if dir != "" {
		r = migration.Runner{Dir: dir, Logger: log.Named("migrate")}
	}

	n, err := r.Run(ctx, db.SQLDB())
	if err != nil {
		log.Error("migration failed", zap.Error(err))
		return err
	}
	log.Info("migrations complete", zap.Int("applied", n))
	return nil
}
