package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"photowall/internal/export"
	"photowall/internal/logging"
	"photowall/internal/notifications"
	"photowall/internal/preflight"
	"photowall/internal/sink"
)

// errPagesFailed marks a partial failure so the process exits non-zero after
// the summary has been printed.
var errPagesFailed = errors.New("some pages failed to export")

// staleTempAge is how old a leftover temp file must be before export removes it.
const staleTempAge = time.Hour

func newExportCommand(ctx *commandContext) *cobra.Command {
	var flags pipelineFlags
	var dryRun bool
	var notify bool

	cmd := &cobra.Command{
		Use:   "export <path|glob>...",
		Short: "Render photo wall pages into the output directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imported, err := importPhotos(cmd, ctx, &flags, args)
			if err != nil {
				return err
			}
			cfg := imported.cfg
			logger := logging.NewComponentLogger(imported.logger, "cli")

			var dst sink.Sink
			destination := cfg.Paths.OutputDir
			if dryRun {
				dst = sink.NewMemorySink()
				destination = "(dry run)"
			} else {
				if check := preflight.CheckOutputDirectory("Output directory", cfg.Paths.OutputDir); !check.Passed {
					return fmt.Errorf("output directory not usable: %s", check.Detail)
				}
				if err := cfg.EnsureDirectories(); err != nil {
					return err
				}
				sink.CleanStale(cmd.Context(), cfg.Paths.OutputDir, staleTempAge, logger)
				dst = sink.NewDirSink(cfg.Paths.OutputDir)
			}

			bar := newProgressReporter(cmd.ErrOrStderr(), 100, "Rendering")
			result, exportErr := imported.session.Export(cmd.Context(), dst, func(p export.Progress) {
				switch p.Phase {
				case export.PhaseArchive:
					bar.describe("Archiving")
				case export.PhaseDone:
					return
				}
				bar.set(int(p.Percent))
			})
			bar.finish()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Summary())
			printExportResult(out, result, destination)

			var notifier notifications.Service = notifications.NewService(cfg)
			if !notify {
				notifier = notifications.NewService(nil)
			}
			notifyResult(notifier, logger, result, exportErr, destination)

			if exportErr != nil {
				return exportErr
			}
			if result.State == export.StatePartialFailure {
				return errPagesFailed
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render pages in memory without writing files")
	cmd.Flags().BoolVar(&notify, "notify", true, "Send an ntfy notification when the export finishes")
	return cmd
}

func printExportResult(out io.Writer, result export.Result, destination string) {
	if result.Mode == export.ModeArchive && result.ArchiveName != "" {
		fmt.Fprintf(out, "Archive: %s (%s)\n", archivePath(destination, result.ArchiveName), humanize.Bytes(uint64(max(result.ArchiveBytes, 0))))
	} else if len(result.Artifacts) > 0 {
		fmt.Fprintf(out, "Saved %d file(s) to %s\n", len(result.Artifacts), destination)
	}
	if len(result.PageErrors) == 0 {
		return
	}
	rows := make([][]string, 0, len(result.PageErrors))
	for _, failure := range result.PageErrors {
		rows = append(rows, []string{fmt.Sprint(failure.Page), failure.Err.Error()})
	}
	fmt.Fprintln(out, renderTable([]string{"Page", "Error"}, rows, []columnAlignment{alignRight, alignLeft}))
}

func archivePath(destination, name string) string {
	if destination == "" || destination == "(dry run)" {
		return name
	}
	return filepath.Join(destination, name)
}

func notifyResult(notifier notifications.Service, logger *slog.Logger, result export.Result, exportErr error, destination string) {
	// Detached from the command context, which is done after an interrupt.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	if exportErr != nil {
		err = notifier.NotifyExportFailed(ctx, exportErr)
	} else {
		if result.Mode == export.ModeArchive && result.ArchiveName != "" {
			destination = archivePath(destination, result.ArchiveName)
		}
		err = notifier.NotifyExportCompleted(ctx, notifications.ExportSummary{
			Pages:       result.TotalPages,
			FailedPages: result.Failed,
			Destination: destination,
			Duration:    result.Duration(),
		})
	}
	if err != nil {
		logger.Warn("notification failed", logging.Args(logging.Error(err))...)
	}
}
