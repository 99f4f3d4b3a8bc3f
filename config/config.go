// ABOUTME: Application configuration from YAML, .env, and environment
// ABOUTME: Resolves storage paths, AI settings, web address, and the logger
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the XDG config and data directories.
	AppName = "prospector"

	// ConfigFileName is the YAML file under the XDG config directory.
	ConfigFileName = "config.yaml"

	DefaultBackend  = "sqlite"
	DefaultModel    = "gemini-2.5-flash"
	DefaultWebAddr  = "127.0.0.1:8080"
	DefaultLogLevel = "info"
	DefaultTimeout  = 60 * time.Second
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai"`
	Web     WebConfig     `yaml:"web"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	// Backend is "sqlite" or "badger".
	Backend string `yaml:"backend"`
	// Path is the sqlite file or badger directory.
	Path string `yaml:"path"`
}

type AIConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File receives log output instead of stderr when set.
	File string `yaml:"file"`
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Backend: DefaultBackend},
		AI:      AIConfig{Model: DefaultModel, Timeout: DefaultTimeout},
		Web:     WebConfig{Addr: DefaultWebAddr},
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// ConfigPath returns the default YAML config location.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// DefaultDataPath returns where storage lives for backend when no path is
// configured.
func DefaultDataPath(backend string) string {
	if backend == "badger" {
		return filepath.Join(xdg.DataHome, AppName, "badger")
	}
	return filepath.Join(xdg.DataHome, AppName, AppName+".db")
}

// Load reads the default config file, then .env, then the environment.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom is Load with an explicit YAML path. A missing or invalid file
// yields defaults; environment overrides always apply.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if yerr := yaml.Unmarshal(data, &fileCfg); yerr == nil {
			cfg.merge(&fileCfg)
		}
		// Invalid config, keep defaults
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	cfg.applyEnv()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.Storage.Backend != "" {
		c.Storage.Backend = o.Storage.Backend
	}
	if o.Storage.Path != "" {
		c.Storage.Path = o.Storage.Path
	}
	if o.AI.APIKey != "" {
		c.AI.APIKey = o.AI.APIKey
	}
	if o.AI.Model != "" {
		c.AI.Model = o.AI.Model
	}
	if o.AI.Timeout > 0 {
		c.AI.Timeout = o.AI.Timeout
	}
	if o.Web.Addr != "" {
		c.Web.Addr = o.Web.Addr
	}
	if o.Log.Level != "" {
		c.Log.Level = o.Log.Level
	}
	if o.Log.File != "" {
		c.Log.File = o.Log.File
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PROSPECTOR_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("PROSPECTOR_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("PROSPECTOR_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("PROSPECTOR_WEB_ADDR"); v != "" {
		c.Web.Addr = v
	}
	if v := os.Getenv("PROSPECTOR_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PROSPECTOR_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("PROSPECTOR_AI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.AI.Timeout = d
		}
	}
	// GEMINI_API_KEY takes precedence over the legacy API_KEY name.
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.AI.APIKey = v
	} else if v := os.Getenv("API_KEY"); v != "" && c.AI.APIKey == "" {
		c.AI.APIKey = v
	}
}

func (c *Config) fillDefaults() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultDataPath(c.Storage.Backend)
	}
}

// Validate rejects settings no component can use.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "badger":
	default:
		return fmt.Errorf("unknown storage backend %q (valid: sqlite, badger)", c.Storage.Backend)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// HasAPIKey reports whether AI features can be used.
func (c *Config) HasAPIKey() bool {
	return c.AI.APIKey != ""
}

// Save writes the config as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
