package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the client configuration
type Config struct {
	APIURL          string        `validate:"required,url"`
	APIKey          string        // optional X-API-Key
	RefreshInterval time.Duration `validate:"gt=0"`
	RequestTimeout  time.Duration `validate:"gte=0"` // 0 disables the timeout
	MaxRetries      int           `validate:"gte=0,lte=5"`
	EventsEnabled   bool
	MessageHistory  int    `validate:"gte=1,lte=1000"`
	StatusPort      string `validate:"omitempty,numeric"`

	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFormat   string `validate:"oneof=json text"`
	Environment string `validate:"required"`
	ServiceName string
	Version     string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:          strings.TrimRight(getEnv(EnvAPIURL, DefaultAPIURL), "/"),
		APIKey:          getEnv(EnvAPIKey, ""),
		RefreshInterval: getEnvAsDuration(EnvRefreshInterval, DefaultRefreshInterval),
		RequestTimeout:  getEnvAsDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRetries:      getEnvAsInt(EnvMaxRetries, DefaultMaxRetries),
		EventsEnabled:   getEnvAsBool(EnvEventsEnabled, false),
		MessageHistory:  getEnvAsInt(EnvMessageHistory, DefaultMessageHistory),
		StatusPort:      getEnv(EnvStatusPort, ""),
		LogLevel:        strings.ToLower(getEnv(EnvLogLevel, DefaultLogLevel)),
		LogFormat:       strings.ToLower(getEnv(EnvLogFormat, DefaultLogFormat)),
		Environment:     getEnv(EnvEnvironment, DefaultEnvironment),
		ServiceName:     getEnv(EnvServiceName, DefaultServiceName),
		Version:         getEnv(EnvVersion, DefaultVersion),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// StatusAddr returns the listen address of the status server, or "" when disabled
func (c *Config) StatusAddr() string {
	if c.StatusPort == "" {
		return ""
	}
	return ":" + c.StatusPort
}

// IsDevelopment reports whether the client runs in a dev environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev" || c.Environment == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an integer environment variable, falling back on parse errors
func getEnvAsInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvAsBool retrieves a boolean environment variable, falling back on parse errors
func getEnvAsBool(key string, defaultValue bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvAsDuration retrieves a duration environment variable ("5s", "250ms").
// A bare integer is read as seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// String renders the config for startup logs with the API key masked
func (c *Config) String() string {
	key := "<unset>"
	if c.APIKey != "" {
		key = "<set>"
	}
	return fmt.Sprintf("api=%s key=%s refresh=%s timeout=%s retries=%d events=%t status=%q",
		c.APIURL, key, c.RefreshInterval, c.RequestTimeout, c.MaxRetries, c.EventsEnabled, c.StatusPort)
}
