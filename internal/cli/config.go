package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/recipevault/internal/github"
	"github.com/mesh-intelligence/recipevault/internal/paths"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyLogLevel      = "log_level"
	cfgKeyGitHubBaseURL = "github.base_url"
	cfgKeyGitHubToken   = "github.token"

	envPrefix       = "RECIPEVAULT"
	envGitHubAPIKey = "GITHUB_API_KEY"

	defaultBackend  = types.BackendFile
	defaultLogLevel = "warn"
)

// configFile is the structure written to a fresh config.yaml.
type configFile struct {
	Backend  string       `yaml:"backend"`
	DataDir  string       `yaml:"data_dir,omitempty"`
	LogLevel string       `yaml:"log_level"`
	GitHub   githubConfig `yaml:"github"`
}

type githubConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token,omitempty"`
}

// loadDotEnv reads .env from the working directory. A missing file is fine.
func loadDotEnv() {
	_ = godotenv.Load()
}

// loadConfig resolves the config directory, writes a default config.yaml on
// first run and reads it with Viper. RECIPEVAULT_* environment variables
// override file values.
func loadConfig(flag string) (*viper.Viper, string, error) {
	configDir, err := paths.ResolveConfigDir(flag)
	if err != nil {
		return nil, "", fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create config directory: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt)); err != nil {
		return nil, "", fmt.Errorf("write default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyGitHubBaseURL, github.DefaultBaseURL)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
	}
	return v, configDir, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. An existing file is left alone.
func writeConfigIfMissing(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:  defaultBackend,
		LogLevel: defaultLogLevel,
		GitHub:   githubConfig{BaseURL: github.DefaultBaseURL},
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := "# recipevault configuration\n# backend: file, sqlite or bolt\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}

// storageConfig returns the backend selection with the data directory
// resolved as flag > config/env > platform default.
func (a *app) storageConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend: strings.ToLower(strings.TrimSpace(a.cfg.GetString(cfgKeyBackend))),
		DataDir: dataDir,
	}, nil
}

// githubToken prefers the configured token and falls back to GITHUB_API_KEY.
func (a *app) githubToken() string {
	if token := a.cfg.GetString(cfgKeyGitHubToken); token != "" {
		return token
	}
	return os.Getenv(envGitHubAPIKey)
}
