// Package config loads docsync configuration from config files,
// environment variables, and .env files, and parses the mapping file
// that bridges local columns to remote properties.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/docsync/pkg/errors"
)

// Default deployment values.
const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"
)

// Config holds the application configuration.
type Config struct {
	// Remote service
	Token      string
	BaseURL    string
	Version    string
	DatabaseID string

	// Mapping file path
	MappingFile string

	// Client-side request pacing (requests per second)
	RequestsPerSecond float64

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// Load reads configuration from all sources in order of precedence:
// 1. Environment variables (DOCSYNC_*)
// 2. .env files
// 3. Config file (--config, ./.docsync.yaml, or ~/.docsync.yaml)
// 4. Defaults
func Load(configFile string) (*Config, error) {
	loadEnvFiles()

	viper.SetEnvPrefix("docsync")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("base_url", DefaultBaseURL)
	viper.SetDefault("version", DefaultVersion)
	viper.SetDefault("requests_per_second", 3)
	viper.SetDefault("mapping_file", "docsync.yaml")

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read config file "+configFile, err)
		}
	} else {
		viper.SetConfigName(".docsync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		// Config file is optional when not named explicitly.
		_ = viper.ReadInConfig()
	}

	cfg := &Config{
		Token:             viper.GetString("token"),
		BaseURL:           viper.GetString("base_url"),
		Version:           viper.GetString("version"),
		DatabaseID:        viper.GetString("database_id"),
		MappingFile:       viper.GetString("mapping_file"),
		RequestsPerSecond: viper.GetFloat64("requests_per_second"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvOrDefault("LOG_FORMAT", "auto"),
	}
	return cfg, nil
}

// Validate checks that the configuration is complete enough to talk
// to the remote service.
func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.NewConfigError("remote", "API token not set (DOCSYNC_TOKEN)", errors.ErrAPIKeyRequired)
	}
	if c.DatabaseID == "" {
		return errors.NewConfigError("remote", "collection ID not set (DOCSYNC_DATABASE_ID)", nil)
	}
	if c.Version == "" {
		return errors.NewConfigError("remote", "protocol version not set", nil)
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns an environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
