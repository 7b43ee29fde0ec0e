package cli

import (
	"context"
	"fmt"

	"resumescore/internal/analysis"
	"resumescore/internal/common"
	"resumescore/internal/errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBatchCmd() *cobra.Command {
	var (
		cmdConfig   common.CommandConfig
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch [resume-files...]",
		Short: "Score many resume documents and summarize the results",
		Long: `Compute the quality and ATS scores of every given resume document.
Files are processed concurrently. Results keep the order of the arguments
and averages cover the files that could be analyzed.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := prepareCommandConfig(cmd, &cmdConfig); err != nil {
				return err
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = getConfigFromContext(cmd.Context()).App.BatchConcurrency
			}
			if concurrency < 1 {
				return errors.NewValidationError(errors.ErrCodeInvalidRequest,
					fmt.Sprintf("concurrency must be at least 1, got %d", concurrency), nil)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromContext(cmd.Context())

			summary, err := runBatch(cmd.Context(), logger, args, cmdConfig, concurrency)
			if err != nil {
				return err
			}

			if err := common.NewOutputHandlerTo(logger, cmd.OutOrStdout()).HandleOutput(summary, cmdConfig); err != nil {
				return err
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d files could not be analyzed", summary.Failed, len(args))
			}
			return nil
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	addInputFlags(cmd, &cmdConfig)
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Files analyzed in parallel (default from config)")
	return cmd
}

// runBatch analyzes files with at most limit in flight. A file that fails
// is recorded in its item and does not stop the others.
func runBatch(ctx context.Context, logger *errors.Logger, files []string, cmdConfig common.CommandConfig, limit int) (analysis.BatchSummary, error) {
	fileProcessor := common.NewFileProcessor(logger, cmdConfig.MaxFileSize)
	items := make([]analysis.BatchItem, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = analysis.BatchItem{File: file}

			doc, err := fileProcessor.LoadDocument(file, cmdConfig.InputFormat, cmdConfig.Strict)
			if err != nil {
				logger.Warn("Skipping file", "file", file, "error", err.Error())
				items[i].Error = err.Error()
				return nil
			}

			report, err := analysis.AnalyzeConcurrently(ctx, doc)
			if err != nil {
				return err
			}
			items[i].QualityTotal = report.Quality.Total
			items[i].ATSScore = report.ATS.Score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return analysis.BatchSummary{}, err
	}

	summary := analysis.Summarize(items)
	logger.Info("Batch completed",
		"files", len(files),
		"processed", summary.Processed,
		"failed", summary.Failed)
	return summary, nil
}
