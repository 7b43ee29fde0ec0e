package cli

import (
	"fmt"
	"path/filepath"

	"resumescore/internal/common"
	"resumescore/internal/formatters"
	"resumescore/internal/importer"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var (
		cmdConfig common.CommandConfig
		textOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "import [resume-file]",
		Short: "Extract a PDF, DOCX, HTML or text resume into a resume document",
		Long: `Extract the text of a PDF, DOCX, HTML or plain text resume and parse it
into a structured resume document.

JSON and YAML output print the parsed document. Text and markdown output,
or --text, print the extracted text instead.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareCommandConfig(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromContext(cmd.Context())
			filename := args[0]

			data, err := common.NewFileProcessor(logger, cmdConfig.MaxFileSize).ReadFile(filename)
			if err != nil {
				return err
			}

			extraction, err := importer.New(cmdConfig.MaxFileSize, logger).
				Extract(cmd.Context(), filepath.Base(filename), data)
			if err != nil {
				return fmt.Errorf("failed to import resume: %w", err)
			}

			var output any = extraction
			switch cmdConfig.OutputFormat {
			case formatters.FormatJSON, formatters.FormatYAML:
				if !textOnly {
					output = importer.ParseText(extraction.Text)
				}
			}

			logger.Debug("Imported resume",
				"file", filename,
				"type", extraction.FileInfo.Type,
				"chars", len(extraction.Text))

			return common.NewOutputHandlerTo(logger, cmd.OutOrStdout()).HandleOutput(output, cmdConfig)
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	cmd.Flags().BoolVar(&textOnly, "text", false, "Print the extracted text instead of the parsed document")
	return cmd
}
