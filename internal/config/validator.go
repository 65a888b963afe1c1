package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the struct tags on cfg and returns one error listing every bad field
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	problems := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		problems = append(problems, describe(e))
	}
	sort.Strings(problems)
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

func describe(e validator.FieldError) string {
	env := fieldEnv[e.Field()]
	if env == "" {
		env = e.Field()
	}
	switch e.Tag() {
	case "required":
		return env + " is required"
	case "url":
		return env + " must be an absolute URL"
	case "numeric":
		return env + " must be a port number"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", env, e.Param())
	case "gt", "gte", "lte":
		return fmt.Sprintf("%s out of range (%s %s)", env, e.Tag(), e.Param())
	default:
		return env + " is invalid"
	}
}

var fieldEnv = map[string]string{
	"APIURL":          EnvAPIURL,
	"RefreshInterval": EnvRefreshInterval,
	"RequestTimeout":  EnvRequestTimeout,
	"MaxRetries":      EnvMaxRetries,
	"MessageHistory":  EnvMessageHistory,
	"StatusPort":      EnvStatusPort,
	"LogLevel":        EnvLogLevel,
	"LogFormat":       EnvLogFormat,
	"Environment":     EnvEnvironment,
}

// Warnings returns non-fatal configuration issues worth logging at startup
func Warnings(cfg *Config) []string {
	var warnings []string

	if cfg.APIKey == "" {
		warnings = append(warnings, EnvAPIKey+" not set, requests are sent without X-API-Key")
	}

	if cfg.MaxRetries > 0 && cfg.RequestTimeout == 0 {
		warnings = append(warnings, EnvMaxRetries+" has no effect on hung requests while "+EnvRequestTimeout+" is 0")
	}

	if cfg.RequestTimeout > 0 && cfg.RequestTimeout > cfg.RefreshInterval*4 {
		warnings = append(warnings, EnvRequestTimeout+" is much longer than "+EnvRefreshInterval+", slow fetches will overlap")
	}

	return warnings
}
