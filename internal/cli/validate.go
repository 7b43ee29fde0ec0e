package cli

import (
	"fmt"
	"io"

	"resumescore/internal/common"
	"resumescore/internal/errors"
	"resumescore/internal/formatters"
	"resumescore/internal/resume"
	"resumescore/internal/schemas"

	"github.com/spf13/cobra"
)

// validationReport is printed by the validate command.
type validationReport struct {
	File   string               `json:"file" yaml:"file"`
	Valid  bool                 `json:"valid" yaml:"valid"`
	Errors []schemas.FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "validate [resume-file]",
		Short: "Validate a resume document against the resume schema",
		Args:  cobra.ExactArgs(1),
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
			format := cmdConfig.InputFormat
			if format == "" {
				format = resume.FormatFromFilename(filename)
			}

			report := validationReport{File: filename, Valid: true}
			verr := schemas.Validate(data, format)
			if verr != nil {
				fields, ok := schemas.AsValidationError(verr)
				if !ok {
					return verr
				}
				report.Valid = false
				report.Errors = fields.Errors
			}

			if err := writeValidationReport(cmd.OutOrStdout(), logger, report, cmdConfig); err != nil {
				return err
			}
			if !report.Valid {
				return errors.NewValidationError(errors.ErrCodeSchemaViolation,
					fmt.Sprintf("%s does not match the resume schema", filename), verr).
					WithContext("violations", len(report.Errors))
			}
			return nil
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	cmd.Flags().StringVar(&cmdConfig.InputFormat, "input-format", "", "Document format: json or yaml (default: from file extension)")
	return cmd
}

func writeValidationReport(w io.Writer, logger *errors.Logger, report validationReport, cmdConfig common.CommandConfig) error {
	switch cmdConfig.OutputFormat {
	case formatters.FormatJSON, formatters.FormatYAML:
		return common.NewOutputHandlerTo(logger, w).HandleOutput(report, cmdConfig)
	}

	if report.Valid {
		_, err := fmt.Fprintf(w, "%s: valid\n", report.File)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: %d schema violation(s)\n", report.File, len(report.Errors)); err != nil {
		return err
	}
	for _, fe := range report.Errors {
		if _, err := fmt.Fprintf(w, "  - %s: %s\n", fe.Field, fe.Message); err != nil {
			return err
		}
	}
	return nil
}
