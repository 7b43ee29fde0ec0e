package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"resumescore/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeVault serves sys/health and a fixed set of KVv2 secrets.
func newFakeVault(t *testing.T, secrets map[string]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/sys/health" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"initialized": true,
				"sealed":      false,
				"version":     "1.15.0",
			})
			return
		}
		if r.Header.Get("X-Vault-Token") != "test-token" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		data, ok := secrets[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": map[string]any{"version": 3},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int64
		wantErr  bool
	}{
		{name: "int64", input: int64(42), expected: 42},
		{name: "float64", input: float64(42), expected: 42},
		{name: "json number", input: json.Number("7"), expected: 7},
		{name: "string", input: "42", expected: 42},
		{name: "bad string", input: "forty-two", wantErr: true},
		{name: "missing", input: nil, wantErr: true},
		{name: "unsupported", input: []string{"42"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.input, "secret/data/x")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	token, err := resolveVaultToken(VaultConfig{Token: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "inline", token)

	file := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(file, []byte("from-file\n"), 0600))
	token, err = resolveVaultToken(VaultConfig{TokenFile: file})
	require.NoError(t, err)
	assert.Equal(t, "from-file", token)

	_, err = resolveVaultToken(VaultConfig{})
	assert.ErrorContains(t, err, "vault token is required")
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{}, nil)
	assert.NoError(t, err)
	assert.Nil(t, client)

	_, err = client.GetSecretV2("secret/data/x")
	assert.ErrorContains(t, err, "not initialized")
}

func TestApplyVaultSecrets(t *testing.T) {
	srv := newFakeVault(t, map[string]map[string]any{
		"/v1/secret/data/resumescore/server": {"keys": "k1, k2"},
		"/v1/secret/data/resumescore/gemini": {"api_key": "gemini-secret-value"},
	})

	cfg := Default()
	cfg.Server.APIKeys = []string{"from-file"}
	cfg.Vault = VaultConfig{
		Enabled: true,
		Address: srv.URL,
		Token:   "test-token",
		Secrets: VaultSecrets{
			APIKeys:   "secret/data/resumescore/server",
			GeminiKey: "secret/data/resumescore/gemini",
		},
	}

	require.NoError(t, ApplyVaultSecrets(cfg, testLogger()))
	assert.Equal(t, []string{"k1", "k2"}, cfg.Server.APIKeys)
	assert.Equal(t, "gemini-secret-value", cfg.Suggest.APIKey)
}

func TestApplyVaultSecretsErrors(t *testing.T) {
	srv := newFakeVault(t, map[string]map[string]any{
		"/v1/secret/data/wrong-key": {"password": "x"},
	})

	tests := []struct {
		name    string
		vault   VaultConfig
		wantErr string
	}{
		{
			name:    "missing secret",
			vault:   VaultConfig{Enabled: true, Address: srv.URL, Token: "test-token", Secrets: VaultSecrets{APIKeys: "secret/data/none"}},
			wantErr: "failed to load API keys from vault",
		},
		{
			name:    "missing key",
			vault:   VaultConfig{Enabled: true, Address: srv.URL, Token: "test-token", Secrets: VaultSecrets{GeminiKey: "secret/data/wrong-key"}},
			wantErr: "failed to load Gemini key from vault",
		},
		{
			name:    "no token",
			vault:   VaultConfig{Enabled: true, Address: srv.URL},
			wantErr: "failed to initialize vault client",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Vault = tt.vault

			err := ApplyVaultSecrets(cfg, nil)
			assert.ErrorContains(t, err, tt.wantErr)

			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeInvalidConfig, appErr.Code)
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := Default()
	cfg.Server.APIKeys = []string{"kept"}
	require.NoError(t, ApplyVaultSecrets(cfg, nil))
	assert.Equal(t, []string{"kept"}, cfg.Server.APIKeys)
}
