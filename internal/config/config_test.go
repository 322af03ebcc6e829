package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PREFERENCES_FILE", "prefs.yaml")

	cfg, err := LoadConfig("test")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.BackendConnectorCfg.Url)
	assert.Equal(t, "/upload", cfg.BackendConnectorCfg.UploadEndpoint)
	assert.Equal(t, "/download/{artifact}", cfg.BackendConnectorCfg.DownloadEndpoint)
	assert.Equal(t, "prefs.yaml", cfg.PreferencesCfg.File)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, int64(16<<20), cfg.MockBackendCfg.MaxUploadSize)
}

func TestLoadConfig_TrimsBackendURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BACKEND_SERVICE_URL", "http://exam.local:8080/")

	cfg, err := LoadConfig("test")
	require.NoError(t, err)
	assert.Equal(t, "http://exam.local:8080", cfg.BackendConnectorCfg.Url)
}

func TestLoadConfig_RejectsDownloadEndpointWithoutPlaceholder(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BACKEND_DOWNLOAD_ENDPOINT", "/download")

	_, err := LoadConfig("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{artifact}")
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateTelegram())

	cfg.TelegramCfg.BotToken = "token"
	cfg.DatabaseURL = "postgres://localhost/examgenie"
	assert.NoError(t, cfg.ValidateTelegram())
}
