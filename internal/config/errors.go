package config

import "fmt"

// ConfigurationError reports a required setting that is missing or invalid.
// It is always raised before any network I/O.
type ConfigurationError struct {
	// Setting is the environment variable name.
	Setting string
	// Field is the YAML path of the same setting.
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid setting %s (%s): %v", e.Setting, e.Field, e.Err)
	}
	return fmt.Sprintf("missing required setting %s (%s)", e.Setting, e.Field)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func missing(setting, field string) error {
	return &ConfigurationError{Setting: setting, Field: field}
}
