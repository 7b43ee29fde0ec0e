package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumescore/internal/analysis"
	"resumescore/internal/config"
	"resumescore/internal/errors"
	"resumescore/internal/resume"
	"resumescore/internal/suggest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *errors.Logger {
	return errors.NewLoggerTo(io.Discard, slog.LevelError)
}

func testContext(cfg *config.Config) context.Context {
	ctx := context.WithValue(context.Background(), configKey, cfg)
	return context.WithValue(ctx, loggerKey, testLogger())
}

// run executes the command tree and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithConfig(t, config.Default(), args...)
}

func runWithConfig(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(testContext(cfg))
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resumescore version dev")
	assert.Contains(t, out, "Git commit:")
}

func TestScoreCommands(t *testing.T) {
	file := writeFile(t, t.TempDir(), "empty.json", `{}`)

	out, err := run(t, "score", file, "--format", "json")
	require.NoError(t, err)
	var quality analysis.QualityResult
	require.NoError(t, json.Unmarshal([]byte(out), &quality))
	assert.Equal(t, 13, quality.Total)

	out, err = run(t, "ats", file, "--format", "json")
	require.NoError(t, err)
	var ats analysis.ATSResult
	require.NoError(t, json.Unmarshal([]byte(out), &ats))
	assert.Equal(t, 0, ats.Score)
	assert.NotEmpty(t, ats.Checks)

	out, err = run(t, "check", file, "--format", "json")
	require.NoError(t, err)
	var report analysis.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, file, report.Source)
	assert.Equal(t, 13, report.Quality.Total)
	assert.Equal(t, 0, report.ATS.Score)
}

func TestScoreCommandTextOutput(t *testing.T) {
	file := writeFile(t, t.TempDir(), "cv.yaml", "personalInfo:\n  name: Jane Doe\n")

	out, err := run(t, "score", file, "--format", "text")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestScoreCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "empty.json", `{}`)
	target := filepath.Join(dir, "out", "score.json")

	out, err := run(t, "score", file, "--format", "json", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total":13`)
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "empty.json", `{}`)
	invalid := writeFile(t, dir, "bad.json", `{"personalInfo":{"name":7}}`)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{name: "unsupported output format", args: []string{"score", file, "--format", "xml"}},
		{name: "unsupported input format", args: []string{"score", file, "--input-format", "toml"}},
		{name: "missing file", args: []string{"score", filepath.Join(dir, "nope.json")}, code: errors.ErrCodeFileNotFound},
		{name: "strict schema violation", args: []string{"ats", invalid, "--strict"}, code: errors.ErrCodeSchemaViolation},
		{name: "missing argument", args: []string{"score"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			if tt.code != "" {
				appErr, ok := errors.AsAppError(err)
				require.True(t, ok, "expected an application error, got %v", err)
				assert.Equal(t, tt.code, appErr.Code)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()

	valid := writeFile(t, dir, "ok.json", `{"personalInfo":{"name":"Jane"}}`)
	out, err := run(t, "validate", valid, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	invalid := writeFile(t, dir, "bad.json", `{"personalInfo":{"name":7}}`)
	out, err = run(t, "validate", invalid, "--format", "json")
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSchemaViolation, appErr.Code)

	var report validationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	require.NotEmpty(t, report.Errors)
	assert.Contains(t, report.Errors[0].Field, "name")
}

func TestImportCommand(t *testing.T) {
	file := writeFile(t, t.TempDir(), "cv.txt", "Jane Doe\njane@example.com\n\nSkills\nPython, Leadership\n")

	out, err := run(t, "import", file, "--format", "json")
	require.NoError(t, err)
	var doc resume.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "jane@example.com", doc.PersonalInfo.Email)

	out, err = run(t, "import", file, "--format", "json", "--text")
	require.NoError(t, err)
	assert.Contains(t, out, `"text"`)
	assert.Contains(t, out, "jane@example.com")

	_, err = run(t, "import", writeFile(t, t.TempDir(), "cv.doc", "x"))
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnsupportedFileType, appErr.Code)
}

func TestSuggestCommand(t *testing.T) {
	out, err := run(t, "suggest", "keywords", "--format", "json")
	require.NoError(t, err)
	var result suggest.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, suggest.KindKeywords, result.Type)
	assert.Equal(t, suggest.SourceStatic, result.Source)
	assert.NotEmpty(t, result.Suggestions)

	out, err = run(t, "suggest", "rewrite", "Built", "APIs", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Built APIs", result.Original)

	_, err = run(t, "suggest", "rewrite")
	require.Error(t, err)

	_, err = run(t, "suggest", "poetry", "text")
	require.Error(t, err)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.json", `{}`)
	second := writeFile(t, dir, "b.yaml", "personalInfo:\n  name: Jane\n")
	missing := filepath.Join(dir, "missing.json")

	out, err := run(t, "batch", first, missing, second, "--format", "json", "-c", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 files")

	var summary analysis.BatchSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Len(t, summary.Items, 3)
	assert.Equal(t, first, summary.Items[0].File)
	assert.Equal(t, missing, summary.Items[1].File)
	assert.Equal(t, second, summary.Items[2].File)
	assert.True(t, summary.Items[1].Failed())
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 13, summary.Items[0].QualityTotal)

	_, err = run(t, "batch", first, "-c", "0")
	require.Error(t, err)
}

func TestRunBatchUsesConfiguredConcurrency(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.json", `{}`),
		writeFile(t, dir, "b.json", `{}`),
	}

	cfg := config.Default()
	cfg.App.BatchConcurrency = 1
	out, err := runWithConfig(t, cfg, append([]string{"batch", "--format", "json"}, files...)...)
	require.NoError(t, err)

	var summary analysis.BatchSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.Processed)
	assert.InDelta(t, 13.0, summary.AverageQuality, 0.001)
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cv.json", `{}`)
	writeFile(t, dir, "other.json", `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, testLogger(), path, 20*time.Millisecond, func(context.Context) {
			changes <- struct{}{}
		})
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{"a":1}`), 0600))
	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte(`{"personalInfo":{}}`), 0600))
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}

	// writes in one burst collapse into one notification
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, changes)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchFileMissingDirectory(t *testing.T) {
	err := watchFile(context.Background(), testLogger(),
		filepath.Join(t.TempDir(), "nope", "cv.json"), time.Millisecond, func(context.Context) {})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotFound, appErr.Code)
}

func TestApplyServeFlags(t *testing.T) {
	cmd := newServeCmd()
	require.NoError(t, cmd.Flags().Set("port", "9999"))
	require.NoError(t, cmd.Flags().Set("tls-mode", "server"))

	cfg := config.Default().Server
	applyServeFlags(cmd, &cfg)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "server", cfg.TLS.Mode)
	assert.Equal(t, "localhost", cfg.Host)
}

func TestServeRejectsInvalidTLS(t *testing.T) {
	_, err := run(t, "serve", "--tls-mode", "server")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid TLS configuration")
}

func TestExecuteStoresConfigAndLogger(t *testing.T) {
	file := writeFile(t, t.TempDir(), "empty.json", `{}`)
	target := filepath.Join(t.TempDir(), "report.json")

	err := Execute(context.Background(), config.Default(), testLogger(),
		"check", file, "--format", "json", "-o", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ats"`)
}

func TestContextGettersPanicWithoutValues(t *testing.T) {
	assert.Panics(t, func() { getConfigFromContext(context.Background()) })
	assert.Panics(t, func() { getLoggerFromContext(context.Background()) })
}
