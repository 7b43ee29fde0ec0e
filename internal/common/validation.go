package common

import (
	"fmt"
	"slices"

	"resumescore/internal/resume"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ValidateInputFormat accepts an empty value (infer from extension) or a
// document format understood by resume.Decode.
func ValidateInputFormat(format string) error {
	switch format {
	case "", resume.FormatJSON, resume.FormatYAML, "yml":
		return nil
	}
	return fmt.Errorf("unsupported input format '%s'. Supported formats: [%s %s]",
		format, resume.FormatJSON, resume.FormatYAML)
}
