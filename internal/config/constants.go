package config

import "time"

// Environment variable names
const (
	EnvAPIURL          = "FARM_API_URL"
	EnvAPIKey          = "FARM_API_KEY"
	EnvRefreshInterval = "FARM_REFRESH_INTERVAL"
	EnvRequestTimeout  = "FARM_REQUEST_TIMEOUT"
	EnvMaxRetries      = "FARM_MAX_RETRIES"
	EnvEventsEnabled   = "FARM_EVENTS_ENABLED"
	EnvMessageHistory  = "FARM_MESSAGE_HISTORY"
	EnvStatusPort      = "FARM_STATUS_PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvEnvironment     = "ENVIRONMENT"
	EnvServiceName     = "SERVICE_NAME"
	EnvVersion         = "VERSION"
)

// Defaults
const (
	DefaultAPIURL          = "http://localhost:5000"
	DefaultRefreshInterval = 5 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultMaxRetries      = 0
	DefaultMessageHistory  = 50
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultEnvironment     = "dev"
	DefaultServiceName     = "terminal-farm"
	DefaultVersion         = "dev"
)
