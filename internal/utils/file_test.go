package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.json")
	require.NoError(t, os.WriteFile(small, []byte(`{}`), 0600))

	tests := []struct {
		name    string
		file    string
		maxSize int64
		wantErr string
	}{
		{name: "ok", file: small, maxSize: 10},
		{name: "no limit", file: small},
		{name: "empty name", file: "", wantErr: "filename cannot be empty"},
		{name: "missing", file: filepath.Join(dir, "nope.json"), wantErr: "file does not exist"},
		{name: "directory", file: dir, wantErr: "path is a directory"},
		{name: "too large", file: small, maxSize: 1, wantErr: "limit is 1 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.file, tt.maxSize)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports", "nested", "out.json")

	require.NoError(t, ValidateOutputFile(out))

	info, err := os.Stat(filepath.Dir(out))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, ValidateOutputFile(""))
}

func TestFileKinds(t *testing.T) {
	assert.True(t, IsDocumentFile("cv.JSON"))
	assert.True(t, IsDocumentFile("cv.yml"))
	assert.False(t, IsDocumentFile("cv.pdf"))
	assert.True(t, IsImportableFile("cv.pdf"))
	assert.True(t, IsImportableFile("cv.HTM"))
	assert.False(t, IsImportableFile("cv.doc"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "10.0 MB", FormatFileSize(10*1024*1024))
}
