package config

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	Port int `toml:"port"`
}

// APIConfig points at the remote notes service.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	// Request timeout in seconds. 0 (the default) means no timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

type SessionConfig struct {
	// TTL for browser sessions, in hours.
	ExpirationHours int    `toml:"expiration_hours"`
	StoragePath     string `toml:"storage_path"`
	CookieSecure    bool   `toml:"cookie_secure"`
}

type JWTConfig struct {
	Secret string `toml:"secret"` // For JWT signing
}

type EncryptionConfig struct {
	Key string `toml:"key"` // 32-byte key for sealing the stored token
}

type SSLConfig struct {
	Enabled      bool   `toml:"enabled"`
	CertFile     string `toml:"cert_file"`     // Path to fullchain.pem
	KeyFile      string `toml:"key_file"`      // Path to privkey.pem
	Port         int    `toml:"port"`          // HTTPS port (default 443)
	HTTPPort     int    `toml:"http_port"`     // HTTP port for redirect (default 80)
	AutoRedirect bool   `toml:"auto_redirect"` // Redirect HTTP to HTTPS
	Domain       string `toml:"domain"`        // Domain name for HSTS
	HSTSMaxAge   int    `toml:"hsts_max_age"`  // Max age for HSTS in seconds
}

type Config struct {
	Server     ServerConfig     `toml:"server"`
	API        APIConfig        `toml:"api"`
	Session    SessionConfig    `toml:"session"`
	JWT        JWTConfig        `toml:"jwt"`
	Encryption EncryptionConfig `toml:"encryption"`
	SSL        SSLConfig        `toml:"ssl"`
}

func LoadConfig(filepath string) (*Config, error) {
	var config Config

	// Set default values
	config.Server.Port = 3000
	config.Session.ExpirationHours = 24
	config.Session.StoragePath = "./sessions"

	config.SSL.Port = 443
	config.SSL.HTTPPort = 80
	config.SSL.HSTSMaxAge = 31536000 // 1 year
	config.SSL.AutoRedirect = true

	// Load config file
	_, err := toml.DecodeFile(filepath, &config)
	if err != nil {
		return nil, err
	}

	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required")
	}
	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}

	if len(config.Encryption.Key) != 32 {
		return nil, fmt.Errorf("encryption.key must be exactly 32 bytes")
	}

	if config.SSL.Enabled {
		if err := config.ValidateSSL(); err != nil {
			return nil, fmt.Errorf("SSL configuration error: %w", err)
		}
	}

	return &config, nil
}

// RequestTimeout returns the configured API timeout, zero meaning none.
func (c *APIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionExpiration returns the browser session TTL.
func (c *SessionConfig) SessionExpiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// ValidateSSL checks if the SSL configuration is valid
func (c *Config) ValidateSSL() error {
	if !c.SSL.Enabled {
		return nil
	}

	if c.SSL.CertFile == "" {
		return fmt.Errorf("SSL certificate file path is required")
	}

	if c.SSL.KeyFile == "" {
		return fmt.Errorf("SSL key file path is required")
	}

	// Try loading the certificates to verify they're valid
	_, err := tls.LoadX509KeyPair(c.SSL.CertFile, c.SSL.KeyFile)
	if err != nil {
		return fmt.Errorf("failed to load SSL certificates: %w", err)
	}

	return nil
}

// GetSecurityHeaders returns a map of security headers based on the configuration
func (c *Config) GetSecurityHeaders() map[string]string {
	headers := make(map[string]string)

	if c.SSL.Enabled {
		if c.SSL.Domain != "" {
			headers["Strict-Transport-Security"] = fmt.Sprintf("max-age=%d; includeSubDomains", c.SSL.HSTSMaxAge)
		}

		headers["X-Content-Type-Options"] = "nosniff"
		headers["X-Frame-Options"] = "SAMEORIGIN"
		headers["X-XSS-Protection"] = "1; mode=block"
		headers["Referrer-Policy"] = "strict-origin-when-cross-origin"
	}

	return headers
}
