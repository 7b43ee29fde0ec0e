package cli

import (
	"context"
	"fmt"

	"resumescore/internal/analysis"
	"resumescore/internal/common"
	"resumescore/internal/resume"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "score [resume-file]",
		Short: "Compute the quality score of a resume document",
		Long: `Compute the weighted quality score (0-100) of a JSON or YAML resume
document, with per-category scores, feedback and insights.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareCommandConfig(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromContext(cmd.Context())

			err := common.RunAnalysisCommand(cmd.Context(), logger, cmd.OutOrStdout(), cmdConfig, args[0],
				func(_ context.Context, doc resume.Document) (analysis.QualityResult, error) {
					return analysis.ComputeQualityScore(doc), nil
				},
				func(doc resume.Document, cfg common.CommandConfig) {
					logger.Debug("Scoring resume",
						"file", args[0],
						"chars", doc.Length(),
						"output_format", cfg.OutputFormat)
				})
			if err != nil {
				return fmt.Errorf("failed to score resume: %w", err)
			}
			return nil
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	addInputFlags(cmd, &cmdConfig)
	return cmd
}

func newATSCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "ats [resume-file]",
		Short: "Check a resume document for ATS compatibility",
		Long: `Run the applicant tracking system checks on a JSON or YAML resume
document. Checks are listed from critical to low impact.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareCommandConfig(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromContext(cmd.Context())

			err := common.RunAnalysisCommand(cmd.Context(), logger, cmd.OutOrStdout(), cmdConfig, args[0],
				func(_ context.Context, doc resume.Document) (analysis.ATSResult, error) {
					return analysis.ComputeATSScore(doc), nil
				}, nil)
			if err != nil {
				return fmt.Errorf("failed to check resume: %w", err)
			}
			return nil
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	addInputFlags(cmd, &cmdConfig)
	return cmd
}

func newCheckCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "check [resume-file]",
		Short: "Run the quality scorer and the ATS checker together",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareCommandConfig(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromContext(cmd.Context())

			err := common.RunAnalysisCommand(cmd.Context(), logger, cmd.OutOrStdout(), cmdConfig, args[0],
				func(ctx context.Context, doc resume.Document) (analysis.Report, error) {
					report, err := analysis.AnalyzeConcurrently(ctx, doc)
					report.Source = args[0]
					return report, err
				}, nil)
			if err != nil {
				return fmt.Errorf("failed to analyze resume: %w", err)
			}
			return nil
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	addInputFlags(cmd, &cmdConfig)
	return cmd
}
