// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server needs to start.
type Config struct {
	ListenAddr string
	DBPath     string
	Debug      bool

	RedisConnectionString string
	CacheTTL              time.Duration

	Auth0Domain     string
	Auth0Audience   string
	LocalAuthSecret string
	TokenTTL        time.Duration
}

// Load reads configuration from environment variables, applying defaults for
// everything optional. Exactly one auth mode must be configured: an Auth0
// domain for JWKS validation or a local shared secret for HS256 tokens.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("DB_PATH", "kanban.db")
	v.SetDefault("DEBUG", false)
	v.SetDefault("REDIS_CONNECTION_STRING", "")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("AUTH0_DOMAIN", "")
	v.SetDefault("AUTH0_AUDIENCE", "")
	v.SetDefault("LOCAL_AUTH_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")

	cfg := Config{
		ListenAddr:            v.GetString("LISTEN_ADDR"),
		DBPath:                v.GetString("DB_PATH"),
		Debug:                 v.GetBool("DEBUG"),
		RedisConnectionString: v.GetString("REDIS_CONNECTION_STRING"),
		Auth0Domain:           strings.TrimSpace(v.GetString("AUTH0_DOMAIN")),
		Auth0Audience:         strings.TrimSpace(v.GetString("AUTH0_AUDIENCE")),
		LocalAuthSecret:       v.GetString("LOCAL_AUTH_SECRET"),
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(v.GetString("CACHE_TTL")); err != nil || cfg.CacheTTL < 0 {
		return Config{}, errors.New("invalid CACHE_TTL")
	}
	if cfg.TokenTTL, err = time.ParseDuration(v.GetString("TOKEN_TTL")); err != nil || cfg.TokenTTL <= 0 {
		return Config{}, errors.New("invalid TOKEN_TTL")
	}

	if cfg.DBPath == "" {
		return Config{}, errors.New("DB_PATH must not be empty")
	}
	if cfg.Auth0Domain == "" && cfg.LocalAuthSecret == "" {
		return Config{}, errors.New("either AUTH0_DOMAIN or LOCAL_AUTH_SECRET must be set")
	}
	if cfg.Auth0Domain != "" && cfg.LocalAuthSecret != "" {
		return Config{}, errors.New("AUTH0_DOMAIN and LOCAL_AUTH_SECRET are mutually exclusive")
	}
	if cfg.Auth0Domain != "" && cfg.Auth0Audience == "" {
		return Config{}, errors.New("AUTH0_AUDIENCE must be set with AUTH0_DOMAIN")
	}

	return cfg, nil
}
