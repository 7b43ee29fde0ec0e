package formatters

import (
	"fmt"
	"strings"

	"resumescore/internal/analysis"
	"resumescore/internal/importer"
	"resumescore/internal/suggest"
)

type categoryRow struct {
	label string
	score int
}

func categoryRows(c analysis.CategoryScores) []categoryRow {
	return []categoryRow{
		{"Personal Information", c.Personal},
		{"Work Experience", c.Experience},
		{"Content Quality", c.Content},
		{"Formatting", c.Formatting},
	}
}

func statusIcon(status string) string {
	switch status {
	case "success", "pass":
		return "✓"
	case "warning":
		return "!"
	default:
		return "✗"
	}
}

// QualityTextFormatter renders a QualityResult as plain text.
type QualityTextFormatter struct{}

func (f *QualityTextFormatter) Format(data any) (string, error) {
	result, ok := data.(analysis.QualityResult)
	if !ok {
		return "", fmt.Errorf("expected QualityResult, got %T", data)
	}
	var output strings.Builder
	writeQualityText(&output, result)
	return output.String(), nil
}

func (f *QualityTextFormatter) SupportedType() string { return "QualityResult" }

func writeQualityText(output *strings.Builder, result analysis.QualityResult) {
	output.WriteString("=== RESUME QUALITY SCORE ===\n\n")
	fmt.Fprintf(output, "Total: %d/100\n\n", result.Total)

	output.WriteString("Categories:\n")
	for _, row := range categoryRows(result.Categories) {
		fmt.Fprintf(output, "  %-22s %3d/100\n", row.label, row.score)
	}
	output.WriteString("\n")

	output.WriteString("=== FEEDBACK ===\n")
	for _, fb := range result.Feedback {
		fmt.Fprintf(output, "[%s] %s: %s (%d pts)\n", statusIcon(string(fb.Status)), fb.Category, fb.Message, fb.Points)
	}
	output.WriteString("\n")

	output.WriteString("=== INSIGHTS ===\n")
	for _, in := range result.Insights {
		fmt.Fprintf(output, "[%s] %s\n", statusIcon(string(in.Status)), in.Message)
	}
}

// ATSTextFormatter renders an ATSResult as plain text.
type ATSTextFormatter struct{}

func (f *ATSTextFormatter) Format(data any) (string, error) {
	result, ok := data.(analysis.ATSResult)
	if !ok {
		return "", fmt.Errorf("expected ATSResult, got %T", data)
	}
	var output strings.Builder
	writeATSText(&output, result)
	return output.String(), nil
}

func (f *ATSTextFormatter) SupportedType() string { return "ATSResult" }

func writeATSText(output *strings.Builder, result analysis.ATSResult) {
	output.WriteString("=== ATS COMPATIBILITY ===\n\n")
	fmt.Fprintf(output, "Score: %d/100\n\n", result.Score)

	output.WriteString("=== CHECKS ===\n")
	for _, check := range result.Checks {
		fmt.Fprintf(output, "[%s] %s (%s): %s\n", statusIcon(string(check.Status)), check.Category, check.Impact, check.Message)
		if check.Suggestion != "" {
			fmt.Fprintf(output, "    Suggestion: %s\n", check.Suggestion)
		}
	}
}

// ReportTextFormatter renders both analyses.
type ReportTextFormatter struct{}

func (f *ReportTextFormatter) Format(data any) (string, error) {
	report, ok := data.(analysis.Report)
	if !ok {
		return "", fmt.Errorf("expected Report, got %T", data)
	}
	var output strings.Builder
	if report.Source != "" {
		fmt.Fprintf(&output, "File: %s\n\n", report.Source)
	}
	writeQualityText(&output, report.Quality)
	output.WriteString("\n")
	writeATSText(&output, report.ATS)
	return output.String(), nil
}

func (f *ReportTextFormatter) SupportedType() string { return "Report" }

// ExtractionTextFormatter renders extracted file text.
type ExtractionTextFormatter struct{}

func (f *ExtractionTextFormatter) Format(data any) (string, error) {
	ex, ok := data.(importer.Extraction)
	if !ok {
		return "", fmt.Errorf("expected Extraction, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== EXTRACTED TEXT ===\n\n")
	fmt.Fprintf(&output, "File: %s (%s, %d bytes", ex.OriginalFilename, ex.FileInfo.Type, ex.Size)
	if ex.FileInfo.Pages > 0 {
		fmt.Fprintf(&output, ", %d pages", ex.FileInfo.Pages)
	}
	output.WriteString(")\n\n")
	output.WriteString(ex.Text)
	output.WriteString("\n")
	return output.String(), nil
}

func (f *ExtractionTextFormatter) SupportedType() string { return "Extraction" }

// SuggestionTextFormatter renders a suggestion list.
type SuggestionTextFormatter struct{}

func (f *SuggestionTextFormatter) Format(data any) (string, error) {
	result, ok := data.(suggest.Result)
	if !ok {
		return "", fmt.Errorf("expected suggest.Result, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== %s SUGGESTIONS ===\n\n", strings.ToUpper(string(result.Type)))
	if result.Original != "" {
		fmt.Fprintf(&output, "Original: %s\n\n", result.Original)
	}
	for i, s := range result.Suggestions {
		fmt.Fprintf(&output, "%d. %s\n", i+1, s)
	}
	return output.String(), nil
}

func (f *SuggestionTextFormatter) SupportedType() string { return "SuggestionResult" }

// BatchTextFormatter renders a batch summary table.
type BatchTextFormatter struct{}

func (f *BatchTextFormatter) Format(data any) (string, error) {
	summary, ok := data.(analysis.BatchSummary)
	if !ok {
		return "", fmt.Errorf("expected BatchSummary, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== BATCH RESULTS ===\n\n")
	for _, it := range summary.Items {
		if it.Failed() {
			fmt.Fprintf(&output, "%-40s ERROR: %s\n", it.File, it.Error)
			continue
		}
		fmt.Fprintf(&output, "%-40s quality %3d  ats %3d\n", it.File, it.QualityTotal, it.ATSScore)
	}
	fmt.Fprintf(&output, "\nProcessed: %d  Failed: %d\n", summary.Processed, summary.Failed)
	fmt.Fprintf(&output, "Average quality: %.1f  Average ATS: %.1f\n", summary.AverageQuality, summary.AverageATS)
	return output.String(), nil
}

func (f *BatchTextFormatter) SupportedType() string { return "BatchSummary" }
