package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the portal client configuration.
type Config struct {
	Env      string         `mapstructure:"env"` // development, production
	Backend  BackendConfig  `mapstructure:"backend"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// BackendConfig points the client at the portal's backend services.
type BackendConfig struct {
	AuthURL    string `mapstructure:"auth_url"`    // auth service base URL
	ArticleURL string `mapstructure:"article_url"` // article service base URL
	TimeoutSec int    `mapstructure:"timeout"`     // per-request timeout, seconds
}

// AuthConfig controls local credential handling.
type AuthConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"` // persisted bearer token
	RequireExpiry   bool   `mapstructure:"require_expiry"`   // reject tokens without exp
}

// ServerConfig configures the local backend emulator (`newsfront serve`).
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig configures the emulator's sqlite store.
type DatabaseConfig struct {
	Path     string `mapstructure:"path"`      // sqlite file, ":memory:" for ephemeral
	SeedFile string `mapstructure:"seed_file"` // optional YAML fixture loaded at startup
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads configuration from an explicit file or the default search
// locations, then overlays NEWSFRONT_* environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir())
		// Missing config file is fine, defaults apply.
		_ = v.ReadInConfig()
	}

	v.SetEnvPrefix("NEWSFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in defaults without touching the filesystem.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// IsProduction reports whether cfg runs in production mode.
func IsProduction(cfg *Config) bool {
	return cfg != nil && cfg.Env == "production"
}

// configDir is where the client keeps its config and credential by
// default.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".newsfront")
}

func setDefaults(v *viper.Viper) {
	env := v.GetString("env")
	if env == "" {
		env = os.Getenv("NEWSFRONT_ENV")
		if env == "" {
			env = "development"
		}
	}
	v.SetDefault("env", env)

	// Backend services as deployed for local development.
	v.SetDefault("backend.auth_url", "http://localhost:8081")
	v.SetDefault("backend.article_url", "http://localhost:8082")
	v.SetDefault("backend.timeout", 15)

	v.SetDefault("auth.credentials_file", filepath.Join(configDir(), "credentials"))
	v.SetDefault("auth.require_expiry", false)

	// Emulator defaults.
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8082)
	v.SetDefault("database.path", ":memory:")
	v.SetDefault("database.seed_file", "")

	if env == "production" {
		v.SetDefault("log.level", "warn")
		v.SetDefault("log.format", "json")
	} else {
		v.SetDefault("log.level", "info")
		v.SetDefault("log.format", "text")
	}
}
