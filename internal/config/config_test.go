package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
	assert.Equal(t, 10, cfg.RequestsPerSecond)
	assert.NotContains(t, cfg.StateDir, "~")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookshop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_url: \"https://shop.example.com/api/\"\nstate_dir: \"/tmp/bookshop-test\"\nrequests_per_second: 3\n",
	), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Trailing slash is trimmed so path joins stay clean.
	assert.Equal(t, "https://shop.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/bookshop-test", cfg.StateDir)
	assert.Equal(t, 3, cfg.RequestsPerSecond)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookshop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: \"https://file.example.com\"\n"), 0o600))

	t.Setenv("BOOKSHOP_API_URL", "https://env.example.com")
	t.Setenv("BOOKSHOP_RPS", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.APIBaseURL)
	assert.Equal(t, 7, cfg.RequestsPerSecond)
}

func TestInvalidRPSIgnored(t *testing.T) {
	t.Setenv("BOOKSHOP_RPS", "zero")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.RequestsPerSecond)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFindConfigFileEnvOverride(t *testing.T) {
	t.Setenv("BOOKSHOP_CONFIG", "/etc/bookshop.yaml")
	assert.Equal(t, "/etc/bookshop.yaml", FindConfigFile())
}
