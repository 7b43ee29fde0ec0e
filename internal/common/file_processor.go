package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resumescore/internal/errors"
	"resumescore/internal/resume"
	"resumescore/internal/schemas"
	"resumescore/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64
}

// NewFileProcessor creates a file processor. maxSize <= 0 disables the size check.
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxSize: maxSize}
}

// ReadFile validates and reads a whole input file.
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	info, statErr := os.Stat(filename)
	if statErr == nil && fp.maxSize > 0 && info.Size() > fp.maxSize {
		return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File %s exceeds the %s limit", filename, utils.FormatFileSize(fp.maxSize)), nil)
	}
	if err := utils.ValidateInputFile(filename, 0); err != nil {
		if os.IsNotExist(statErr) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	return content, nil
}

// LoadDocument reads and decodes a resume document. An empty inputFormat is
// inferred from the file extension. With strict set, the raw document must
// also match the resume schema.
func (fp *FileProcessor) LoadDocument(filename, inputFormat string, strict bool) (resume.Document, error) {
	data, err := fp.ReadFile(filename)
	if err != nil {
		return resume.Document{}, err
	}
	if inputFormat == "" {
		inputFormat = resume.FormatFromFilename(filename)
	}
	return DecodeDocument(data, inputFormat, strict)
}

// DecodeDocument decodes raw document bytes, optionally validating them first.
func DecodeDocument(data []byte, format string, strict bool) (resume.Document, error) {
	if strict {
		if err := schemas.Validate(data, format); err != nil {
			if verr, ok := schemas.AsValidationError(err); ok {
				return resume.Document{}, errors.NewValidationError(errors.ErrCodeSchemaViolation,
					"Document does not match the resume schema", verr).
					WithContext("violations", len(verr.Errors))
			}
			return resume.Document{}, err
		}
	}

	doc, err := resume.Decode(data, format)
	if err != nil {
		return resume.Document{}, errors.NewParseError(errors.ErrCodeInvalidDocument,
			"Failed to decode resume document", err)
	}
	return doc, nil
}

// WriteFile writes content to a file, creating parent directories.
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateOutputFile validates the output file path. Empty means stdout.
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}
