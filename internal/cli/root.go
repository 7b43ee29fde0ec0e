package cli

import (
	"context"

	"resumescore/internal/common"
	"resumescore/internal/config"
	"resumescore/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "resumescore",
		Short: "Score resumes for quality and ATS compatibility",
		Long: `resumescore rates structured resume documents. It computes a weighted
quality score with feedback and insights, checks compatibility with
applicant tracking systems, imports PDF, DOCX and HTML resumes and offers
wording suggestions.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newATSCmd(),
		newCheckCmd(),
		newValidateCmd(),
		newImportCmd(),
		newSuggestCmd(),
		newBatchCmd(),
		newWatchCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI with cfg and logger available to every subcommand.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger, args ...string) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)

	rootCmd := NewRootCommand()
	if args != nil {
		rootCmd.SetArgs(args)
	}
	return rootCmd.ExecuteContext(ctx)
}

func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context")
}

// addOutputFlags registers the flags shared by document commands.
func addOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, text, markdown or yaml")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return getConfigFromContext(cmd.Context()).App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// addInputFlags registers the flags for commands reading resume documents.
func addInputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVar(&cmdConfig.InputFormat, "input-format", "", "Document format: json or yaml (default: from file extension)")
	cmd.Flags().BoolVar(&cmdConfig.Strict, "strict", false, "Validate the document against the resume schema first")
}

// prepareCommandConfig applies configured defaults and validates the flags.
func prepareCommandConfig(cmd *cobra.Command, cmdConfig *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())

	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	cmdConfig.MaxFileSize = cfg.App.MaxFileSize

	if err := common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats); err != nil {
		return err
	}
	return common.ValidateInputFormat(cmdConfig.InputFormat)
}
