package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/recipevault/pkg/types"
)

func TestLoadConfig_WritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	t.Setenv("RECIPEVAULT_BACKEND", "")

	v, configDir, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, configDir)
	assert.Equal(t, types.BackendFile, v.GetString(cfgKeyBackend))
	assert.Equal(t, defaultLogLevel, v.GetString(cfgKeyLogLevel))

	data, err := os.ReadFile(filepath.Join(dir, configFileExt))
	require.NoError(t, err)
	var written configFile
	require.NoError(t, yaml.Unmarshal(data, &written))
	assert.Equal(t, types.BackendFile, written.Backend)
	assert.Equal(t, "https://api.github.com", written.GitHub.BaseURL)
}

func TestLoadConfig_KeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECIPEVAULT_BACKEND", "")
	path := filepath.Join(dir, configFileExt)
	require.NoError(t, os.WriteFile(path, []byte("backend: bolt\n"), 0o644))

	v, _, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, types.BackendBolt, v.GetString(cfgKeyBackend))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "backend: bolt\n", string(data))
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("backend: bolt\ngithub:\n  base_url: http://file\n"), 0o644))
	t.Setenv("RECIPEVAULT_BACKEND", "sqlite")
	t.Setenv("RECIPEVAULT_GITHUB_BASE_URL", "http://env")

	v, _, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, types.BackendSQLite, v.GetString(cfgKeyBackend))
	assert.Equal(t, "http://env", v.GetString(cfgKeyGitHubBaseURL))
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("backend: [unclosed\n"), 0o644))

	_, _, err := loadConfig(dir)
	assert.ErrorContains(t, err, "read config")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelWarn},
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&buf, "warn")
	require.NoError(t, err)

	log.Info("quiet")
	log.Warn("loud", "key", "value")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "msg=loud key=value")
}

func TestDebugLoggingReachesStderr(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("RECIPEVAULT_LOG_LEVEL", "debug")

	res := env.mustRun("list")
	assert.Contains(t, res.Stderr, "no persisted state")
}
