// Package schemas validates resume documents against the bundled JSON Schema.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"resumescore/internal/errors"
	"resumescore/internal/resume"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed resume.schema.json
var resumeSchema []byte

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

// ResumeSchema returns the raw schema document.
func ResumeSchema() []byte {
	return resumeSchema
}

func schema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchema))
	})
	return compiled, compileErr
}

// FieldError is one schema violation.
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError `json:"errors" yaml:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "document does not match schema: " + strings.Join(parts, "; ")
}

// ValidateDocument checks a JSON document. It returns *ValidationError for
// schema violations and an AppError when data is not JSON at all.
func ValidateDocument(data []byte) error {
	s, err := schema()
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidConfig, "Failed to compile resume schema", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.NewParseError(errors.ErrCodeInvalidDocument, "Document is not valid JSON", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, re := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{Field: re.Field(), Message: re.Description()})
	}
	slices.SortStableFunc(verr.Errors, func(a, b FieldError) int {
		return strings.Compare(a.Field, b.Field)
	})
	return verr
}

// Validate checks data in the given input format.
func Validate(data []byte, format string) error {
	switch format {
	case resume.FormatJSON, "":
		return ValidateDocument(data)
	case resume.FormatYAML, "yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return errors.NewParseError(errors.ErrCodeInvalidDocument, "Document is not valid YAML", err)
		}
		converted, err := json.Marshal(v)
		if err != nil {
			return errors.NewParseError(errors.ErrCodeInvalidDocument, "Document cannot be represented as JSON", err)
		}
		return ValidateDocument(converted)
	default:
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("unsupported document format: %s", format), nil)
	}
}

// AsValidationError unwraps a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	verr, ok := err.(*ValidationError)
	return verr, ok
}
