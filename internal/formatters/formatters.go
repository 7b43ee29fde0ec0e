package formatters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"resumescore/internal/analysis"
	"resumescore/internal/importer"
	"resumescore/internal/suggest"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

const anyType = "any"

// Formatter renders one data type in one output format.
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry maps format -> type -> formatter.
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter
}

// NewFormatterRegistry registers the built-in formatters.
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter(FormatJSON, anyType, &JSONFormatter{})
	registry.RegisterFormatter(FormatYAML, anyType, &YAMLFormatter{})

	for _, f := range []Formatter{
		&QualityTextFormatter{},
		&ATSTextFormatter{},
		&ReportTextFormatter{},
		&ExtractionTextFormatter{},
		&SuggestionTextFormatter{},
		&BatchTextFormatter{},
	} {
		registry.RegisterFormatter(FormatText, f.SupportedType(), f)
	}
	for _, f := range []Formatter{
		&QualityMarkdownFormatter{},
		&ATSMarkdownFormatter{},
		&ReportMarkdownFormatter{},
		&ExtractionMarkdownFormatter{},
		&SuggestionMarkdownFormatter{},
		&BatchMarkdownFormatter{},
	} {
		registry.RegisterFormatter(FormatMarkdown, f.SupportedType(), f)
	}

	return registry
}

// RegisterFormatter adds or replaces a formatter.
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format renders data, preferring a type-specific formatter over the generic one.
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[anyType]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns the registered formats, sorted.
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case analysis.QualityResult:
		return "QualityResult"
	case analysis.ATSResult:
		return "ATSResult"
	case analysis.Report:
		return "Report"
	case importer.Extraction:
		return "Extraction"
	case suggest.Result:
		return "SuggestionResult"
	case analysis.BatchSummary:
		return "BatchSummary"
	default:
		return anyType
	}
}

// JSONFormatter renders any value as indented JSON.
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return anyType
}

// YAMLFormatter renders any value as YAML.
type YAMLFormatter struct{}

func (yf *YAMLFormatter) Format(data any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (yf *YAMLFormatter) SupportedType() string {
	return anyType
}

// GlobalRegistry is shared by the CLI and the HTTP server.
var GlobalRegistry = NewFormatterRegistry()
