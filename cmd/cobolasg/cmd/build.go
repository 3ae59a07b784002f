package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid"
	"github.com/spf13/cobra"

	"github.com/cobol85/cobolasg/internal/asg"
	"github.com/cobol85/cobolasg/internal/diagsink"
)

var (
	sinkDSN string

	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build the ASG for every COBOL source file under --directory and report diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadFileConfig()
			if err != nil {
				return err
			}
			cfg := copybookConfig(fc)

			fsys := os.DirFS(directory)
			results, err := asg.BuildTree(fsys, cfg)
			if err != nil {
				return err
			}

			runID, err := diagsink.NewRunID()
			if err != nil {
				return err
			}

			var sink *diagsink.Sink
			if sinkDSN == "" && fc.Sink != nil {
				sinkDSN = fc.Sink.Connection
			}
			if sinkDSN != "" {
				db, err := diagsink.Open(sinkDSN)
				if err != nil {
					return fmt.Errorf("opening diagnostic sink: %w", err)
				}
				defer db.Close()
				sink = diagsink.New(db)
				if err := sink.EnsureSchema(cmd.Context()); err != nil {
					return fmt.Errorf("preparing diagnostic sink schema: %w", err)
				}
			}

			return reportResults(cmd.Context(), runID, results, sink)
		},
	}
)

func init() {
	buildCmd.Flags().StringVar(&sinkDSN, "sink-dsn", "", "diagnostic sink connection string (azuresql://, sqlserver:// or postgres://); overrides cobolasg.yaml's sink.connection")
	rootCmd.AddCommand(buildCmd)
}

func reportResults(ctx context.Context, runID uuid.UUID, results []asg.FileResult, sink *diagsink.Sink) error {
	builtAt := time.Now()
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.WithField("path", r.Path).WithError(r.Err).Error("build failed")
			continue
		}
		logger.WithFields(map[string]any{
			"path":        r.Path,
			"diagnostics": len(r.Program.Diagnostics),
		}).Info("built")

		if sink != nil {
			report := diagsink.ReportFrom(runID, r.Path, r.Program, r.Pre.MaxDepthReached, builtAt)
			if err := sink.Record(ctx, report); err != nil {
				return fmt.Errorf("recording diagnostic report for %s: %w", r.Path, err)
			}
		}
	}
	fmt.Printf("%d file(s) built, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to build", failed)
	}
	return nil
}
