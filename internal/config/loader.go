package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load builds the configuration in three layers: defaults, then the optional
// YAML file at configPath, then environment variables.
// An empty configPath skips the file layer.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	if configPath != "" {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
		}

		data, err := os.ReadFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("config file not found: %s\n"+
				"Hint: Check the path or run with --config flag", absPath)
		}

		if err := yaml.Unmarshal([]byte(interpolateEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", absPath, err)
		}
	}

	applyEnv(cfg, os.LookupEnv)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Variables that are already set win. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// applyEnv overlays environment variables onto cfg. Empty values are ignored
// so an exported-but-blank variable does not clobber the file layer.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(dst *string, name string) {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(&cfg.Provider.APIKey, EnvAPIKey)
	set(&cfg.Provider.BaseURL, EnvBaseURL)
	set(&cfg.Provider.Chain, EnvChain)
	set(&cfg.Subscription.Address, EnvAddress)
	set(&cfg.Subscription.CallbackURL, EnvWebhookURL)
	set(&cfg.Receiver.Listen, EnvListen)
	set(&cfg.Receiver.Path, EnvWebhookPath)
	set(&cfg.Receiver.MaxBodySize, EnvMaxBodySize)
	set(&cfg.Receiver.MetricsToken, EnvMetricsToken)
	set(&cfg.Service.LogLevel, EnvLogLevel)
	set(&cfg.Service.LogFormat, EnvLogFormat)

	// The secret is used byte-for-byte as the HMAC key; do not trim it.
	if v, ok := lookup(EnvHMACSecret); ok && v != "" {
		cfg.Receiver.HMACSecret = v
	}
}

// interpolateEnv replaces ${VAR} with the value of the environment variable.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}

		// If not found, leave the placeholder (will fail validation if required)
		return match
	})
}

// validate checks settings every command depends on. Role-specific required
// settings are checked by ValidateReceiver and ValidateRegistrar.
func validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(cfg.Service.LogLevel)] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(cfg.Service.LogFormat)] {
		return fmt.Errorf("service.log_format must be one of: json, text (got %q)", cfg.Service.LogFormat)
	}

	return nil
}

// unresolved reports whether v still carries a ${VAR} placeholder.
func unresolved(v string) bool {
	return envVarPattern.MatchString(v)
}
