package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewIOError(ErrCodeFileNotFound, "File not found: cv.pdf", fmt.Errorf("no such file"))
	assert.Equal(t, "FILE_NOT_FOUND: File not found: cv.pdf (caused by: no such file)", err.Error())

	plain := NewValidationError(ErrCodeInvalidRequest, "Text is required", nil)
	assert.Equal(t, "INVALID_REQUEST: Text is required", plain.Error())
}

func TestAsAppErrorUnwrapsChain(t *testing.T) {
	inner := NewParseError(ErrCodeEmptyExtraction, "nothing extracted", nil)
	wrapped := fmt.Errorf("import failed: %w", inner)

	got, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeEmptyExtraction, got.Code)

	_, ok = AsAppError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("X", "x", nil), http.StatusBadRequest},
		{NewParseError("X", "x", nil), http.StatusBadRequest},
		{NewAIError("X", "x", nil), http.StatusBadGateway},
		{NewNetworkError("X", "x", nil), http.StatusBadGateway},
		{NewIOError("X", "x", nil), http.StatusInternalServerError},
		{NewInternalError("X", "x", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus(), string(tt.err.Type))
	}
}

func TestLogErrorExpandsAppError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, slog.LevelDebug)

	err := NewValidationError(ErrCodeUnsupportedFileType, "Unsupported file type", nil).
		WithContext("filename", "cv.odt")
	logger.LogError(err, "Import failed", "request_id", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Import failed", record["msg"])
	assert.Equal(t, "validation", record["error_type"])
	assert.Equal(t, ErrCodeUnsupportedFileType, record["error_code"])
	assert.Equal(t, "cv.odt", record["filename"])
	assert.Equal(t, "abc", record["request_id"])
}

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}

	_, err := New("verbose")
	assert.EqualError(t, err, "invalid log level: verbose")
}
