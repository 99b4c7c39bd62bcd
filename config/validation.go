package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredKeys []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {
			RequiredKeys: []string{"SERVER_PORT", "JWT_SECRET"},
		},
		Test: {
			RequiredKeys: []string{"SERVER_PORT", "JWT_SECRET"},
		},
		CI: {
			RequiredKeys: []string{"SERVER_PORT", "JWT_SECRET", "DB_HOST", "DB_NAME"},
		},
		Production: {
			RequiredKeys: []string{
				"SERVER_PORT",
				"SERVER_HOST",
				"DB_HOST",
				"DB_PORT",
				"DB_NAME",
				"DB_PASSWORD",
				"JWT_SECRET",
			},
		},
	}
)

// values exposes config fields by their key name for requirement checks
func (c *Config) values() map[string]string {
	return map[string]string{
		"SERVER_PORT": c.ServerPort,
		"SERVER_HOST": c.ServerHost,
		"DB_HOST":     c.DBHost,
		"DB_PORT":     c.DBPort,
		"DB_NAME":     c.DBName,
		"DB_PASSWORD": c.DBPassword,
		"JWT_SECRET":  c.JWTSecret,
	}
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]
	values := cfg.values()

	var errs []ValidationError

	for _, key := range reqs.RequiredKeys {
		if values[key] == "" {
			errs = append(errs, ValidationError{Field: key, Message: "is required"})
		}
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "must be postgres or sqlite"})
	}

	switch cfg.MediaBackend {
	case MediaLocal:
		if cfg.MediaRoot == "" {
			errs = append(errs, ValidationError{Field: "MEDIA_ROOT", Message: "is required for local media"})
		}
	case MediaS3:
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{Field: "S3_BUCKET_NAME", Message: "is required for s3 media"})
		}
	default:
		errs = append(errs, ValidationError{Field: "MEDIA_BACKEND", Message: "must be local or s3"})
	}

	if cfg.PageSize < 1 {
		errs = append(errs, ValidationError{Field: "PAGE_SIZE", Message: "must be positive"})
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
