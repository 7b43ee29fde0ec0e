package cli

import (
	"fmt"
	"strings"

	"resumescore/internal/common"
	"resumescore/internal/suggest"

	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "suggest [rewrite|enhance|keywords] [text...]",
		Short: "Suggest wording improvements for resume text",
		Long: `Suggest wording for resume text.

  rewrite   alternative phrasings of the given text (text required)
  enhance   ways to strengthen the given text
  keywords  keywords to include, given a job description

Suggestions come from the configured provider and fall back to built-in
lists when it is unavailable.`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{string(suggest.KindRewrite), string(suggest.KindEnhance), string(suggest.KindKeywords)},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareCommandConfig(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfigFromContext(cmd.Context())
			logger := getLoggerFromContext(cmd.Context())

			kind, err := suggest.ParseKind(args[0])
			if err != nil {
				return err
			}

			text := strings.Join(args[1:], " ")
			req := suggest.Request{Kind: kind, Text: text}
			if kind == suggest.KindKeywords {
				req = suggest.Request{Kind: kind, JobDescription: text}
			}

			service := suggest.NewFromConfig(cmd.Context(), cfg.Suggest, logger)
			result, err := service.Suggest(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to generate suggestions: %w", err)
			}

			logger.Debug("Generated suggestions",
				"type", string(kind),
				"source", result.Source,
				"count", len(result.Suggestions))

			return common.NewOutputHandlerTo(logger, cmd.OutOrStdout()).HandleOutput(result, cmdConfig)
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	return cmd
}
