package formatters

import (
	"fmt"
	"strings"

	"resumescore/internal/analysis"
	"resumescore/internal/importer"
	"resumescore/internal/suggest"
)

// QualityMarkdownFormatter renders a QualityResult as markdown.
type QualityMarkdownFormatter struct{}

func (f *QualityMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(analysis.QualityResult)
	if !ok {
		return "", fmt.Errorf("expected QualityResult, got %T", data)
	}
	var output strings.Builder
	writeQualityMarkdown(&output, result, "#")
	return output.String(), nil
}

func (f *QualityMarkdownFormatter) SupportedType() string { return "QualityResult" }

func writeQualityMarkdown(output *strings.Builder, result analysis.QualityResult, level string) {
	fmt.Fprintf(output, "%s Resume Quality Score\n\n", level)
	fmt.Fprintf(output, "**Total:** %d/100\n\n", result.Total)

	output.WriteString("| Category | Score |\n|---|---|\n")
	for _, row := range categoryRows(result.Categories) {
		fmt.Fprintf(output, "| %s | %d |\n", row.label, row.score)
	}
	output.WriteString("\n")

	fmt.Fprintf(output, "%s# Feedback\n\n", level)
	for _, fb := range result.Feedback {
		fmt.Fprintf(output, "- %s **%s**: %s (%d pts)\n", statusIcon(string(fb.Status)), fb.Category, fb.Message, fb.Points)
	}
	output.WriteString("\n")

	fmt.Fprintf(output, "%s# Insights\n\n", level)
	for _, in := range result.Insights {
		fmt.Fprintf(output, "- %s\n", in.Message)
	}
}

// ATSMarkdownFormatter renders an ATSResult as markdown.
type ATSMarkdownFormatter struct{}

func (f *ATSMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(analysis.ATSResult)
	if !ok {
		return "", fmt.Errorf("expected ATSResult, got %T", data)
	}
	var output strings.Builder
	writeATSMarkdown(&output, result, "#")
	return output.String(), nil
}

func (f *ATSMarkdownFormatter) SupportedType() string { return "ATSResult" }

func writeATSMarkdown(output *strings.Builder, result analysis.ATSResult, level string) {
	fmt.Fprintf(output, "%s ATS Compatibility\n\n", level)
	fmt.Fprintf(output, "**Score:** %d/100\n\n", result.Score)

	output.WriteString("| Status | Category | Impact | Message |\n|---|---|---|---|\n")
	for _, check := range result.Checks {
		fmt.Fprintf(output, "| %s | %s | %s | %s |\n", check.Status, check.Category, check.Impact, escapeCell(check.Message))
	}

	var suggestions []analysis.CheckItem
	for _, check := range result.Checks {
		if check.Suggestion != "" {
			suggestions = append(suggestions, check)
		}
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(output, "\n%s# Suggestions\n\n", level)
		for _, check := range suggestions {
			fmt.Fprintf(output, "- **%s**: %s\n", check.Category, check.Suggestion)
		}
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ReportMarkdownFormatter renders both analyses.
type ReportMarkdownFormatter struct{}

func (f *ReportMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(analysis.Report)
	if !ok {
		return "", fmt.Errorf("expected Report, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Resume Analysis\n\n")
	if report.Source != "" {
		fmt.Fprintf(&output, "**File:** `%s`\n\n", report.Source)
	}
	writeQualityMarkdown(&output, report.Quality, "##")
	output.WriteString("\n")
	writeATSMarkdown(&output, report.ATS, "##")
	return output.String(), nil
}

func (f *ReportMarkdownFormatter) SupportedType() string { return "Report" }

// ExtractionMarkdownFormatter renders extracted text in a fenced block.
type ExtractionMarkdownFormatter struct{}

func (f *ExtractionMarkdownFormatter) Format(data any) (string, error) {
	ex, ok := data.(importer.Extraction)
	if !ok {
		return "", fmt.Errorf("expected Extraction, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# Extracted Text: %s\n\n", ex.OriginalFilename)
	fmt.Fprintf(&output, "- **Type:** %s\n- **Size:** %d bytes\n", ex.FileInfo.Type, ex.Size)
	if ex.FileInfo.Pages > 0 {
		fmt.Fprintf(&output, "- **Pages:** %d\n", ex.FileInfo.Pages)
	}
	output.WriteString("\n```text\n")
	output.WriteString(ex.Text)
	output.WriteString("\n```\n")
	return output.String(), nil
}

func (f *ExtractionMarkdownFormatter) SupportedType() string { return "Extraction" }

// SuggestionMarkdownFormatter renders a suggestion list.
type SuggestionMarkdownFormatter struct{}

func (f *SuggestionMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(suggest.Result)
	if !ok {
		return "", fmt.Errorf("expected suggest.Result, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# Suggestions (%s)\n\n", result.Type)
	if result.Original != "" {
		fmt.Fprintf(&output, "> %s\n\n", result.Original)
	}
	for i, s := range result.Suggestions {
		fmt.Fprintf(&output, "%d. %s\n", i+1, s)
	}
	return output.String(), nil
}

func (f *SuggestionMarkdownFormatter) SupportedType() string { return "SuggestionResult" }

// BatchMarkdownFormatter renders a batch summary table.
type BatchMarkdownFormatter struct{}

func (f *BatchMarkdownFormatter) Format(data any) (string, error) {
	summary, ok := data.(analysis.BatchSummary)
	if !ok {
		return "", fmt.Errorf("expected BatchSummary, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Batch Results\n\n")
	output.WriteString("| File | Quality | ATS | Error |\n|---|---|---|---|\n")
	for _, it := range summary.Items {
		if it.Failed() {
			fmt.Fprintf(&output, "| %s | - | - | %s |\n", escapeCell(it.File), escapeCell(it.Error))
			continue
		}
		fmt.Fprintf(&output, "| %s | %d | %d | |\n", escapeCell(it.File), it.QualityTotal, it.ATSScore)
	}
	fmt.Fprintf(&output, "\n**Processed:** %d, **Failed:** %d, **Average quality:** %.1f, **Average ATS:** %.1f\n",
		summary.Processed, summary.Failed, summary.AverageQuality, summary.AverageATS)
	return output.String(), nil
}

func (f *BatchMarkdownFormatter) SupportedType() string { return "BatchSummary" }
