package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"resumescore/internal/analysis"
	"resumescore/internal/common"
	"resumescore/internal/errors"
	"resumescore/internal/resume"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "watch [resume-file]",
		Short: "Re-score a resume document every time it changes",
		Long: `Print the quality and ATS scores of a resume document, then watch the
file and print them again after each save. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareCommandConfig(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfigFromContext(cmd.Context())
			logger := getLoggerFromContext(cmd.Context())
			filename := args[0]

			rescore := func(ctx context.Context) {
				err := common.RunAnalysisCommand(ctx, logger, cmd.OutOrStdout(), cmdConfig, filename,
					func(ctx context.Context, doc resume.Document) (analysis.Report, error) {
						report, err := analysis.AnalyzeConcurrently(ctx, doc)
						report.Source = filename
						return report, err
					}, nil)
				if err != nil {
					// an unfinished save is common, keep watching
					logger.LogError(err, "Failed to analyze resume", "file", filename)
				}
			}

			rescore(cmd.Context())
			return watchFile(cmd.Context(), logger, filename, cfg.App.WatchDebounce, rescore)
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	addInputFlags(cmd, &cmdConfig)
	return cmd
}

// watchFile calls onChange after path is written, created or renamed into
// place, once per burst of events within debounce. It returns when ctx is done.
func watchFile(ctx context.Context, logger *errors.Logger, path string, debounce time.Duration, onChange func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "Failed to create file watcher", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.LogError(err, "Failed to close file watcher")
		}
	}()

	// editors often replace the file, so watch its directory
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("Failed to watch directory %s", dir), err)
	}
	target := filepath.Clean(path)
	logger.Info("Watching resume for changes", "file", target, "debounce", debounce.String())

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Resume file changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			trigger = timer.C

		case <-trigger:
			trigger = nil
			onChange(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.LogError(err, "File watcher error", "file", target)
		}
	}
}
