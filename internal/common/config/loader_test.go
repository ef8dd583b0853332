package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const baseYAML = `
app:
  name: application-relay
server:
  address: ":9090"
  cors_allowed_origins: ["https://careers.example.com"]
greenhouse:
  base_url: "https://harvest.example.com/v1/"
  api_key: "${TEST_GREENHOUSE_KEY}"
  on_behalf_of: "4280249007"
  default_job_id: 4285367007
  default_candidate_id: 41109047007
relay:
  default_mode: two_step
`

func TestLoadFromFile_ExpandsPlaceholdersAndDefaults(t *testing.T) {
	t.Setenv("TEST_GREENHOUSE_KEY", "key-from-env")
	path := writeConfig(t, baseYAML)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, []string{"https://careers.example.com"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "key-from-env", cfg.Greenhouse.APIKey)
	assert.Equal(t, "https://harvest.example.com/v1", cfg.Greenhouse.BaseURL)
	assert.Equal(t, int64(4285367007), cfg.Greenhouse.DefaultJobID)
	assert.Equal(t, int64(41109047007), cfg.Greenhouse.DefaultCandidateID)
	assert.Equal(t, 20000, cfg.Greenhouse.Timeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadFromFile_EnvOverridesFile(t *testing.T) {
	t.Setenv("TEST_GREENHOUSE_KEY", "from-placeholder")
	t.Setenv("GREENHOUSE_ON_BEHALF_OF", "999")
	t.Setenv("RELAY_DEFAULT_MODE", "single")
	path := writeConfig(t, baseYAML)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "999", cfg.Greenhouse.OnBehalfOf)
	assert.Equal(t, "single", cfg.Relay.DefaultMode)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		env    map[string]string
		errMsg string
	}{
		{
			name: "missing api key",
			yaml: `
greenhouse:
  on_behalf_of: "1"
`,
			errMsg: "APIKey",
		},
		{
			name: "missing actor",
			yaml: `
greenhouse:
  api_key: "k"
`,
			errMsg: "OnBehalfOf",
		},
		{
			name: "unknown mode",
			yaml: `
greenhouse:
  api_key: "k"
  on_behalf_of: "1"
relay:
  default_mode: "three_step"
`,
			errMsg: "DefaultMode",
		},
		{
			name: "rate limit without redis",
			yaml: `
greenhouse:
  api_key: "k"
  on_behalf_of: "1"
rate_limit:
  enabled: true
`,
			errMsg: "rate_limit.redis.address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
