// Package config handles Maia configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/maia/config.yaml, /etc/maia/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "maia", "config.yaml"))
	}

	paths = append(paths, "/etc/maia/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must
// exist. Otherwise the search paths are tried in order and the first
// existing file wins.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all Maia configuration.
type Config struct {
	Listen    ListenConfig    `yaml:"listen"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Search    SearchConfig    `yaml:"search"`
	Auth      AuthConfig      `yaml:"auth"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	ShellExec ShellExecConfig `yaml:"shell_exec"`
	UserName  string          `yaml:"user_name"`
	DataDir   string          `yaml:"data_dir"`
	LogLevel  string          `yaml:"log_level"`
}

// ListenConfig defines the API server settings.
type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// GeminiConfig defines the model provider settings.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// SearchConfig defines the Google Custom Search credentials.
type SearchConfig struct {
	APIKey   string `yaml:"api_key"`
	EngineID string `yaml:"engine_id"`
}

// AuthConfig defines token issuance for the HTTP API.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	// TokenExpiryMinutes is the access token lifetime (default 1440).
	TokenExpiryMinutes int `yaml:"token_expiry_minutes"`
}

// WorkspaceConfig defines where the file tools may write.
type WorkspaceConfig struct {
	// Path is the root directory the write tool is confined to.
	// If empty, the current working directory is used.
	Path string `yaml:"path"`
}

// ShellExecConfig defines shell execution settings.
type ShellExecConfig struct {
	WorkingDir string `yaml:"working_dir"`
	// DeniedPatterns are command patterns to block (e.g., "rm -rf /").
	DeniedPatterns []string `yaml:"denied_patterns"`
	// DefaultTimeoutSec is the command timeout in seconds (default 30).
	DefaultTimeoutSec int `yaml:"default_timeout_sec"`
}

// Load reads configuration from a YAML file. A .env file in the
// working directory is loaded first so ${VAR} references in the YAML
// can pull secrets from it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Listen:   ListenConfig{Port: 8080},
		UserName: "senhor",
		DataDir:  ".",
	}
}

// FromEnv builds a configuration from environment variables alone,
// for running without a config file.
func FromEnv() *Config {
	_ = godotenv.Load()
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// applyEnv overlays well-known environment variables onto the config.
// Environment values win over file values so secrets can stay out of
// the YAML.
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_API_KEY"); v != "" {
		c.Search.APIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); v != "" {
		c.Search.EngineID = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("USER_NAME"); v != "" {
		c.UserName = v
	}
}

// Validate checks settings a running server cannot work without.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required (or set GEMINI_API_KEY)")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// DBPath returns the SQLite database location under the data dir.
func (c *Config) DBPath() string {
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "maia.db")
}
