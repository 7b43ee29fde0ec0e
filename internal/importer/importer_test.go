package importer

import (
	"context"
	"strings"
	"testing"

	"resumescore/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "windows line endings", input: "a\r\nb", want: "a\nb"},
		{name: "old mac line endings", input: "a\rb", want: "a\nb"},
		{name: "collapses blank runs", input: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "keeps single blank line", input: "a\n\nb", want: "a\n\nb"},
		{name: "trims", input: "  \n a \n  ", want: "a"},
		{name: "mixed", input: "a\r\n\r\n\r\nb\r", want: "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{filename: "cv.pdf", want: TypePDF},
		{filename: "CV.PDF", want: TypePDF},
		{filename: "cv.docx", want: TypeDOCX},
		{filename: "cv.htm", want: TypeHTML},
		{filename: "cv.md", want: TypeText},
		{filename: "cv.doc", wantErr: true},
		{filename: "cv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectType(tt.filename)
			if tt.wantErr {
				appErr, ok := errors.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, errors.ErrCodeUnsupportedFileType, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPlainText(t *testing.T) {
	im := New(0, nil)
	data := []byte("Jane Doe\r\n\r\n\r\n\r\nSKILLS\r\nGo, Python\r\n")

	got, err := im.Extract(context.Background(), "cv.txt", data)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nSKILLS\nGo, Python", got.Text)
	assert.Equal(t, FileInfo{Type: TypeText}, got.FileInfo)
	assert.Equal(t, "cv.txt", got.OriginalFilename)
	assert.Equal(t, int64(len(data)), got.Size)
}

func TestExtractHTML(t *testing.T) {
	im := New(0, nil)
	page := `<html><head><style>p{color:red}</style><script>var x = 1;</script></head>` +
		`<body><h1>Jane Doe</h1><p>Austin, TX</p><ul><li>Built APIs</li><li>Led team</li></ul></body></html>`

	got, err := im.Extract(context.Background(), "cv.html", []byte(page))

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nAustin, TX\n• Built APIs\n• Led team", got.Text)
	assert.Equal(t, TypeHTML, got.FileInfo.Type)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		maxSize  int64
		filename string
		data     string
		code     string
	}{
		{name: "too large", maxSize: 4, filename: "cv.txt", data: "abcdef", code: errors.ErrCodeFileTooLarge},
		{name: "unsupported", filename: "cv.odt", data: "abc", code: errors.ErrCodeUnsupportedFileType},
		{name: "blank text", filename: "cv.txt", data: " \r\n\r\n ", code: errors.ErrCodeEmptyExtraction},
		{name: "broken pdf", filename: "cv.pdf", data: "not a pdf", code: errors.ErrCodeExtractionFailed},
		{name: "broken docx", filename: "cv.docx", data: "not a zip", code: errors.ErrCodeExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := New(tt.maxSize, nil)

			_, err := im.Extract(context.Background(), tt.filename, []byte(tt.data))

			appErr, ok := errors.AsAppError(err)
			require.True(t, ok, "expected AppError, got %v", err)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestExtractEmptyMessage(t *testing.T) {
	_, err := New(0, nil).Extract(context.Background(), "cv.txt", []byte("\n\n"))

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, EmptyExtractionMessage, appErr.Message)
}

func TestExtractHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(0, nil).Extract(ctx, "cv.txt", []byte("text"))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestWordMLText(t *testing.T) {
	body := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Senior </w:t></w:r><w:r><w:tab/><w:t>Engineer</w:t></w:r></w:p>` +
		`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>A &amp; B</w:t><w:br/><w:t>Next</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got, err := wordMLText(body)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior \tEngineer\nA & B\nNext\n", got)
}

func TestWordMLTextRejectsBrokenXML(t *testing.T) {
	_, err := wordMLText(`<w:p><w:t>unterminated`)
	assert.Error(t, err)
}

func TestMaxSizeDefault(t *testing.T) {
	assert.Equal(t, int64(DefaultMaxSize), New(0, nil).MaxSize())
	assert.Equal(t, int64(42), New(42, nil).MaxSize())
	assert.True(t, strings.HasPrefix(EmptyExtractionMessage, "Could not extract text"))
}
