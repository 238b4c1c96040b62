// Package config provides application configuration management with support
// for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Store     StoreConfig
	Server    ServerConfig
	Auth      AuthConfig
	Admin     AdminConfig
	Remote    RemoteConfig
	Recommend RecommendConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StoreConfig holds local data storage configuration.
type StoreConfig struct {
	// DataPath is the directory for the embedded database, the auth key,
	// and the search index (default: ./data).
	DataPath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes).
	// Loaded or generated from the data directory when unset.
	AccessTokenKey []byte
	// Access token lifetime (default: 720h; readers stay signed in).
	AccessTokenDuration time.Duration
}

// AdminConfig holds the administrator identity rule.
type AdminConfig struct {
	// Email is the fixed administrator identity. An account registering
	// with this email (case-insensitive) becomes SUPER_ADMIN with premium
	// pre-granted at the longest tier.
	Email string
}

// RemoteConfig seeds the remote snapshot configuration. The values an admin
// saves through the API take precedence; these only prime a fresh install.
type RemoteConfig struct {
	Token   string // API credential for the snapshot repository
	Repo    string // Repository path, e.g. "owner/name"
	BaseURL string // Hosting API base URL (default: GitHub)
}

// RecommendConfig holds the text-generation recommendation helper settings.
type RecommendConfig struct {
	APIKey  string
	BaseURL string  // Endpoint base URL (default: Google generative API)
	Model   string  // Model name (default: gemini-2.0-flash)
	RPS     float64 // Per-account rate limit (default: 0.2, i.e. ~12/min across bursts)
	Burst   int     // Rate limit burst (default: 3)
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Directory for the database, auth key, and search index")
	serverName := flag.String("server-name", "", "Name for the server")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	adminEmail := flag.String("admin-email", "", "Administrator identity email")
	remoteToken := flag.String("remote-token", "", "Snapshot repository API credential")
	remoteRepo := flag.String("remote-repo", "", "Snapshot repository path (owner/name)")
	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (e.g., 720h)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	cfg, err := LoadConfigFromEnv(*envFile)
	if err != nil {
		return nil, err
	}

	applyOverride(&cfg.App.Environment, *env)
	applyOverride(&cfg.Logger.Level, *logLevel)
	applyOverride(&cfg.Store.DataPath, *dataPath)
	applyOverride(&cfg.Server.Name, *serverName)
	applyOverride(&cfg.Server.Port, *serverPort)
	applyOverride(&cfg.Admin.Email, *adminEmail)
	applyOverride(&cfg.Remote.Token, *remoteToken)
	applyOverride(&cfg.Remote.Repo, *remoteRepo)

	if *accessTokenDuration != "" {
		d, err := time.ParseDuration(*accessTokenDuration)
		if err != nil {
			return nil, fmt.Errorf("invalid access token duration %q: %w", *accessTokenDuration, err)
		}
		cfg.Auth.AccessTokenDuration = d
	}

	return cfg, nil
}

// LoadConfigFromEnv loads configuration, reading the given .env file if it
// exists (silently ignored when missing).
func LoadConfigFromEnv(envFile string) (*Config, error) {
	_ = loadEnvFile(envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: envValue("ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: envValue("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			DataPath: envValue("DATA_PATH", "./data"),
		},
		Server: ServerConfig{
			Name: envValue("SERVER_NAME", "Manhua Server"),
			Port: envValue("SERVER_PORT", "8080"),
		},
		Admin: AdminConfig{
			Email: envValue("ADMIN_EMAIL", "admin@example.com"),
		},
		Remote: RemoteConfig{
			Token:   envValue("REMOTE_TOKEN", ""),
			Repo:    envValue("REMOTE_REPO", ""),
			BaseURL: envValue("REMOTE_BASE_URL", "https://api.github.com"),
		},
		Recommend: RecommendConfig{
			APIKey:  envValue("RECOMMEND_API_KEY", ""),
			BaseURL: envValue("RECOMMEND_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:   envValue("RECOMMEND_MODEL", "gemini-2.0-flash"),
			RPS:     0.2,
			Burst:   3,
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = envDuration("SERVER_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = envDuration("SERVER_WRITE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = envDuration("SERVER_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.Auth.AccessTokenDuration, err = envDuration("ACCESS_TOKEN_DURATION", 720*time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment returns true when running in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// applyOverride replaces dst when a flag value was given.
func applyOverride(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// envValue returns the environment variable value or the default.
func envValue(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses a duration environment variable, using def when unset.
func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// loadEnvFile reads KEY=VALUE lines into the process environment without
// overriding variables that are already set.
func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}
