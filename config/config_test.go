package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const validConfig = `
[api]
base_url = "https://notes.example.com/api/"

[jwt]
secret = "test-signing-secret"

[encryption]
key = "0123456789abcdef0123456789abcdef"
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://notes.example.com/api", cfg.API.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 24, cfg.Session.ExpirationHours)
	assert.Equal(t, "./sessions", cfg.Session.StoragePath)
	assert.Equal(t, time.Duration(0), cfg.API.RequestTimeout(), "no timeout unless configured")
	assert.Equal(t, 24*time.Hour, cfg.Session.SessionExpiration())
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
[server]
port = 8080

[api]
base_url = "http://localhost:5000"
timeout_seconds = 15

[session]
expiration_hours = 2
storage_path = "/tmp/sess"

[jwt]
secret = "s"

[encryption]
key = "0123456789abcdef0123456789abcdef"
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.API.RequestTimeout())
	assert.Equal(t, 2*time.Hour, cfg.Session.SessionExpiration())
	assert.Equal(t, "/tmp/sess", cfg.Session.StoragePath)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing base_url",
			content: `
[jwt]
secret = "s"

[encryption]
key = "0123456789abcdef0123456789abcdef"
`,
			wantErr: "api.base_url is required",
		},
		{
			name: "missing jwt secret",
			content: `
[api]
base_url = "http://localhost:5000"

[encryption]
key = "0123456789abcdef0123456789abcdef"
`,
			wantErr: "jwt.secret is required",
		},
		{
			name: "short encryption key",
			content: `
[api]
base_url = "http://localhost:5000"

[jwt]
secret = "s"

[encryption]
key = "too-short"
`,
			wantErr: "encryption.key must be exactly 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.GetSecurityHeaders(), "no headers without SSL")

	cfg.SSL.Enabled = true
	cfg.SSL.Domain = "notes.example.com"
	cfg.SSL.HSTSMaxAge = 3600
	headers := cfg.GetSecurityHeaders()
	assert.Equal(t, "max-age=3600; includeSubDomains", headers["Strict-Transport-Security"])
	assert.Equal(t, "nosniff", headers["X-Content-Type-Options"])
}
