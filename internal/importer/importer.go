package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"resumescore/internal/errors"
)

// DefaultMaxSize is the largest upload accepted for extraction.
const DefaultMaxSize = 10 * 1024 * 1024

// EmptyExtractionMessage is reported when a file yields no usable text.
const EmptyExtractionMessage = "Could not extract text from file. The file might be image-based or corrupted."

// File types understood by Extract.
const (
	TypePDF  = "pdf"
	TypeDOCX = "docx"
	TypeHTML = "html"
	TypeText = "text"
)

// FileInfo describes the source of an extraction.
type FileInfo struct {
	Type  string `json:"type" yaml:"type"`
	Pages int    `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Extraction is the cleaned plain text of an uploaded file.
type Extraction struct {
	Text             string   `json:"text" yaml:"text"`
	FileInfo         FileInfo `json:"fileInfo" yaml:"fileInfo"`
	OriginalFilename string   `json:"originalFilename" yaml:"originalFilename"`
	Size             int64    `json:"size" yaml:"size"`
}

// Importer turns resume files into text and documents.
type Importer struct {
	maxSize int64
	logger  *errors.Logger
}

// New creates an importer. A non-positive maxSize selects DefaultMaxSize.
func New(maxSize int64, logger *errors.Logger) *Importer {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Importer{maxSize: maxSize, logger: logger}
}

// MaxSize returns the configured upload limit in bytes.
func (im *Importer) MaxSize() int64 {
	return im.maxSize
}

// DetectType maps a file name to one of the supported file types.
func DetectType(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return TypePDF, nil
	case ".docx":
		return TypeDOCX, nil
	case ".html", ".htm":
		return TypeHTML, nil
	case ".txt", ".text", ".md", ".markdown":
		return TypeText, nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFileType,
			"Unsupported file type. Please upload PDF, DOCX, HTML or plain text files.", nil).
			WithContext("filename", filename)
	}
}

// Extract dispatches on the file extension and returns the cleaned text.
func (im *Importer) Extract(ctx context.Context, filename string, data []byte) (Extraction, error) {
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}

	if int64(len(data)) > im.maxSize {
		return Extraction{}, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File exceeds the %d byte limit", im.maxSize), nil).
			WithContext("filename", filename)
	}

	fileType, err := DetectType(filename)
	if err != nil {
		return Extraction{}, err
	}

	var (
		text  string
		pages int
	)
	switch fileType {
	case TypePDF:
		text, pages, err = extractPDF(data)
	case TypeDOCX:
		text, err = extractDOCX(data)
	case TypeHTML:
		text, err = extractHTML(data)
	default:
		text = string(data)
	}
	if err != nil {
		return Extraction{}, errors.NewParseError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("Failed to extract text from %s file", fileType), err).
			WithContext("filename", filename)
	}

	text = CleanText(text)
	if text == "" {
		return Extraction{}, errors.NewParseError(errors.ErrCodeEmptyExtraction, EmptyExtractionMessage, nil).
			WithContext("filename", filename)
	}

	if im.logger != nil {
		im.logger.Debug("Extracted text from file",
			"filename", filename,
			"type", fileType,
			"pages", pages,
			"chars", len(text))
	}

	return Extraction{
		Text:             text,
		FileInfo:         FileInfo{Type: fileType, Pages: pages},
		OriginalFilename: filename,
		Size:             int64(len(data)),
	}, nil
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// CleanText normalizes line endings, collapses runs of blank lines and trims.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// tidyLines trims every line, which markup extraction leaves heavily indented.
func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
