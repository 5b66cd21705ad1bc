package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix                 = "HOME"
	defaultHTTPAddress        = "0.0.0.0:8080"
	defaultDatabasePath       = "home.db"
	defaultLogLevel           = "info"
	defaultAccessTTLMinutes   = 30
	defaultRefreshTTLMinutes  = 7 * 24 * 60
	defaultOAuthRedirectURL   = "http://localhost:3000/oauth2/redirect"
	minimumSigningSecretBytes = 16
)

// AppConfig captures runtime configuration for the API server. All values
// are fixed at process start.
type AppConfig struct {
	HTTPAddress      string
	SigningSecret    string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	OAuthRedirectURL string
	DatabasePath     string
	LogLevel         string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("auth.access_ttl_minutes", defaultAccessTTLMinutes)
	configViper.SetDefault("auth.refresh_ttl_minutes", defaultRefreshTTLMinutes)
	configViper.SetDefault("oauth.redirect_url", defaultOAuthRedirectURL)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:      configViper.GetString("http.address"),
		SigningSecret:    configViper.GetString("auth.signing_secret"),
		AccessTokenTTL:   time.Duration(configViper.GetInt("auth.access_ttl_minutes")) * time.Minute,
		RefreshTokenTTL:  time.Duration(configViper.GetInt("auth.refresh_ttl_minutes")) * time.Minute,
		OAuthRedirectURL: configViper.GetString("oauth.redirect_url"),
		DatabasePath:     configViper.GetString("database.path"),
		LogLevel:         configViper.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if len(strings.TrimSpace(c.SigningSecret)) < minimumSigningSecretBytes {
		return fmt.Errorf("auth.signing_secret must be at least %d characters", minimumSigningSecretBytes)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_ttl_minutes must be positive")
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("auth.refresh_ttl_minutes must exceed auth.access_ttl_minutes")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.OAuthRedirectURL) == "" {
		return fmt.Errorf("oauth.redirect_url is required")
	}
	return nil
}
