package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredSecrets lists values that may not be empty per environment.
// Development and test fall back to defaults for everything else.
var requiredSecrets = map[Environment][]string{
	Development: {},
	Test:        {},
	CI:          {"DBPassword"},
	Production:  {"DBPassword", "RedisPassword"},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []error

	switch cfg.DBDriver {
	case "postgres":
		for _, field := range requiredSecrets[env] {
			if lookup(cfg, field) == "" {
				errs = append(errs, ValidationError{Field: field, Message: "is required in " + string(env)})
			}
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{Field: "SQLitePath", Message: "is required for the sqlite driver"})
		}
		if IsProduction() {
			errs = append(errs, ValidationError{Field: "DBDriver", Message: "sqlite is not supported in production"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DBDriver", Message: fmt.Sprintf("unknown driver %q", cfg.DBDriver)})
	}

	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{Field: "TokenTTL", Message: "must be positive"})
	}
	if cfg.RateLimitMax < 0 {
		errs = append(errs, ValidationError{Field: "RateLimitMax", Message: "must not be negative"})
	}
	if cfg.RateLimitMax > 0 && cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{Field: "RateLimitWindow", Message: "must be positive when rate limiting is enabled"})
	}

	return errors.Join(errs...)
}

func lookup(cfg *Config, field string) string {
	switch field {
	case "DBPassword":
		return cfg.DBPassword
	case "RedisPassword":
		return cfg.RedisPassword
	}
	return ""
}
