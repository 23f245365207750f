package tandoor

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds Tandoor connection settings
type Config struct {
	// BaseURL is the Tandoor instance URL (e.g., https://recipes.example.com)
	BaseURL string

	// Username for token authentication (optional when AuthToken is set)
	Username string

	// Password for token authentication (optional when AuthToken is set)
	Password string

	// AuthToken is a preset API token. When set, the server never logs in.
	AuthToken string

	// Timeout for API requests
	Timeout time.Duration

	// UserAgent identifies the client to the Tandoor instance
	UserAgent string

	// MaxRetries for failed requests
	MaxRetries int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	baseURL := os.Getenv("TANDOOR_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := 30 * time.Second
	if t := os.Getenv("TANDOOR_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	maxRetries := 3
	if r := os.Getenv("TANDOOR_MAX_RETRIES"); r != "" {
		if n, err := strconv.Atoi(r); err == nil && n >= 0 {
			maxRetries = n
		}
	}

	userAgent := os.Getenv("TANDOOR_USER_AGENT")
	if userAgent == "" {
		userAgent = "TandoorMCPServer/1.0 (https://github.com/olgasafonova/tandoor-mcp-server)"
	}

	cfg := &Config{
		BaseURL:    baseURL,
		Username:   os.Getenv("TANDOOR_USERNAME"),
		Password:   os.Getenv("TANDOOR_PASSWORD"),
		AuthToken:  os.Getenv("TANDOOR_AUTH_TOKEN"),
		Timeout:    timeout,
		UserAgent:  userAgent,
		MaxRetries: maxRetries,
	}

	if !cfg.HasPresetToken() && !cfg.HasCredentials() {
		return nil, errors.New("either TANDOOR_AUTH_TOKEN or both TANDOOR_USERNAME and TANDOOR_PASSWORD must be set")
	}

	return cfg, nil
}

// HasCredentials returns true if username/password authentication is configured
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// HasPresetToken returns true if a preset API token is configured
func (c *Config) HasPresetToken() bool {
	return c.AuthToken != ""
}
