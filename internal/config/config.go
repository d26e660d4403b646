// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is built once at startup and passed by reference into the components
// that need it. Business logic never reads the environment directly.
type Config struct {
	Server struct {
		Addr        string `mapstructure:"addr"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"server"`
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Auth struct {
		JWTSecret         string        `mapstructure:"jwt_secret"`
		TokenTTL          time.Duration `mapstructure:"token_ttl"`
		CookieMaxAgeHours int           `mapstructure:"cookie_max_age_hours"`
	} `mapstructure:"auth"`
	CORS struct {
		Origin string `mapstructure:"origin"`
	} `mapstructure:"cors"`
	SSO struct {
		Issuer       string `mapstructure:"issuer"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		RedirectURL  string `mapstructure:"redirect_url"`
	} `mapstructure:"sso"`
}

// Production reports whether cookies should carry production attributes
// (Secure, SameSite=None for the cross-origin frontend).
func (c *Config) Production() bool {
	return c.Server.Environment == "production"
}

// CookieMaxAge converts the configured hours into seconds for http.Cookie.
func (c *Config) CookieMaxAge() int {
	return c.Auth.CookieMaxAgeHours * 3600
}

// Load reads configuration from ACCOUNTS_-prefixed environment variables,
// e.g. ACCOUNTS_AUTH_JWT_SECRET or ACCOUNTS_DATABASE_URL.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ACCOUNTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	keys := []string{
		"server.addr", "server.environment",
		"database.url",
		"auth.jwt_secret", "auth.token_ttl", "auth.cookie_max_age_hours",
		"cors.origin",
		"sso.issuer", "sso.client_id", "sso.client_secret", "sso.redirect_url",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.cookie_max_age_hours", 24)
	v.SetDefault("cors.origin", "http://localhost:5173")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("ACCOUNTS_AUTH_JWT_SECRET is required")
	}
	return &cfg, nil
}
