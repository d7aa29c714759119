// Command screen runs one screening batch over a directory of resumes and
// prints the batch report as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"resume-screener/internal/app"
	"resume-screener/internal/config"
	"resume-screener/internal/gateway"
	"resume-screener/internal/logger"
	"resume-screener/internal/usecase"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const maxFileSize = 10 << 20

var rootCmd = &cobra.Command{
	Use:          "screen",
	Short:        "Screen every resume in a directory against one job",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().String("job", "", "job id to screen against")
	rootCmd.Flags().String("user", "", "id of the HR user who owns the job")
	rootCmd.Flags().String("dir", ".", "directory containing resumes")
	rootCmd.Flags().BoolP("debug", "d", false, "verbose/debug output")
	_ = rootCmd.MarkFlagRequired("job")
	_ = rootCmd.MarkFlagRequired("user")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	jobRaw, _ := cmd.Flags().GetString("job")
	userRaw, _ := cmd.Flags().GetString("user")
	dir, _ := cmd.Flags().GetString("dir")
	debug, _ := cmd.Flags().GetBool("debug")

	jobID, err := uuid.Parse(strings.TrimSpace(jobRaw))
	if err != nil {
		return fmt.Errorf("invalid --job: %w", err)
	}
	userID, err := uuid.Parse(strings.TrimSpace(userRaw))
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(true, debug || cfg.App.LogDebug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	uploads, err := readDir(dir, log)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		return fmt.Errorf("no resumes found in %s", dir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("close container", zap.Error(err))
		}
	}()

	report, err := c.Screening.Run(ctx, gateway.Identity{UserID: userID, Role: "hr"}, jobID, uploads)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if report.Outcome == usecase.OutcomeFailed {
		return errors.New("no resume in the batch was screened successfully")
	}
	return nil
}

func readDir(dir string, log *zap.Logger) ([]usecase.Upload, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	uploads := make([]usecase.Upload, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		if info.Size() > maxFileSize {
			log.Warn("skipping oversized resume", zap.String("file", e.Name()), zap.Int64("size", info.Size()))
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, usecase.Upload{
			FileName: e.Name(),
			MIMEType: mimeOf(e.Name()),
			Data:     data,
		})
	}
	return uploads, nil
}

func mimeOf(name string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if t == "" {
		return "application/octet-stream"
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t
}
